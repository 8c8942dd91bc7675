package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/efojunior25/Notrya-Catalogo/internal/cart"
	"github.com/efojunior25/Notrya-Catalogo/internal/checkout"
	"github.com/efojunior25/Notrya-Catalogo/internal/receipts"
)

type Checkouter interface {
	Checkout(ctx context.Context) checkout.Outcome
}

type ReceiptLister interface {
	List(ctx context.Context, limit int) ([]receipts.Receipt, error)
}

type CheckoutHandler struct {
	checkout Checkouter
	receipts ReceiptLister
	timeout  time.Duration
}

// NewCheckoutHandler wires the checkout endpoints. lister may be nil, in
// which case the order history is always empty.
func NewCheckoutHandler(checkouter Checkouter, lister ReceiptLister, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkouter,
		receipts: lister,
		timeout:  timeout,
	}
}

type CheckoutResponse struct {
	checkout.Outcome
	Cart CartResponse `json:"cart"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out := h.checkout.Checkout(ctx)

	respondJSON(w, checkoutStatus(out), CheckoutResponse{
		Outcome: out,
		Cart:    newCartResponse(out.State),
	})
}

func checkoutStatus(out checkout.Outcome) int {
	switch out.Status {
	case checkout.StatusSucceeded:
		return http.StatusCreated
	case checkout.StatusStockConflict:
		return http.StatusConflict
	case checkout.StatusRejected:
		if errors.Is(out.Err, cart.ErrCheckoutInProgress) {
			return http.StatusConflict
		}
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	limit := receipts.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	if h.receipts == nil {
		respondJSON(w, http.StatusOK, []receipts.Receipt{})
		return
	}

	list, err := h.receipts.List(ctx, limit)
	if err != nil {
		handleError(w, err)
		return
	}
	if list == nil {
		list = []receipts.Receipt{}
	}
	respondJSON(w, http.StatusOK, list)
}
