package cart

import "errors"

// Messages surfaced on State.LastError.
const (
	MsgOutOfStock         = "out of stock"
	MsgInsufficientUnits  = "insufficient units"
	MsgInvalidQuantity    = "invalid quantity"
	MsgCartEmpty          = "cart empty"
	MsgInsufficientStock  = "insufficient stock"
	MsgCheckoutFailed     = "checkout failed, please try again"
	MsgCheckoutInProgress = "checkout in progress"
)

var (
	ErrEmptyCart          = errors.New(MsgCartEmpty)
	ErrCheckoutInProgress = errors.New(MsgCheckoutInProgress)
)

// RejectedError is returned by Controller.Apply when the cart refuses an
// action. Reason is the message also stored in State.LastError.
type RejectedError struct {
	Action string
	Reason string
}

func (e *RejectedError) Error() string {
	return e.Action + ": " + e.Reason
}
