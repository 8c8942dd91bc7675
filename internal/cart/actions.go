package cart

import "github.com/efojunior25/Notrya-Catalogo/internal/domain"

// Action is the closed set of cart transitions understood by Reduce.
type Action interface {
	// Name is a stable identifier used in logs and metrics.
	Name() string
	action()
}

// AddItem adds Quantity units of Product. A zero Quantity means one unit.
type AddItem struct {
	Product  domain.Product
	Quantity int
}

// RemoveItem takes Quantity units off a line. A zero Quantity means one unit.
type RemoveItem struct {
	ProductID int64
	Quantity  int
}

type RemoveItemCompletely struct {
	ProductID int64
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
type UpdateQuantity struct {
	ProductID int64
	Quantity  int
}

// UpdateItemStock replaces a line's stock snapshot with fresher stock data.
type UpdateItemStock struct {
	ProductID int64
	Stock     int
}

type Clear struct{}

type ToggleOpen struct{}

type OpenCart struct{}

type CloseCart struct{}

type ClearError struct{}

// Load hydrates the cart with items read from storage.
type Load struct {
	Items []domain.CartLineItem
}

type CheckoutStarted struct{}

type CheckoutSucceeded struct {
	Order domain.OrderResponse
}

type CheckoutFailed struct {
	Message     string
	StockErrors []domain.StockError
}

func (AddItem) Name() string              { return "add_item" }
func (RemoveItem) Name() string           { return "remove_item" }
func (RemoveItemCompletely) Name() string { return "remove_item_completely" }
func (UpdateQuantity) Name() string       { return "update_quantity" }
func (UpdateItemStock) Name() string      { return "update_item_stock" }
func (Clear) Name() string                { return "clear" }
func (ToggleOpen) Name() string           { return "toggle_open" }
func (OpenCart) Name() string             { return "open_cart" }
func (CloseCart) Name() string            { return "close_cart" }
func (ClearError) Name() string           { return "clear_error" }
func (Load) Name() string                 { return "load" }
func (CheckoutStarted) Name() string      { return "checkout_started" }
func (CheckoutSucceeded) Name() string    { return "checkout_succeeded" }
func (CheckoutFailed) Name() string       { return "checkout_failed" }

func (AddItem) action()              {}
func (RemoveItem) action()           {}
func (RemoveItemCompletely) action() {}
func (UpdateQuantity) action()       {}
func (UpdateItemStock) action()      {}
func (Clear) action()                {}
func (ToggleOpen) action()           {}
func (OpenCart) action()             {}
func (CloseCart) action()            {}
func (ClearError) action()           {}
func (Load) action()                 {}
func (CheckoutStarted) action()      {}
func (CheckoutSucceeded) action()    {}
func (CheckoutFailed) action()       {}
