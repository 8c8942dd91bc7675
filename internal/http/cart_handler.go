package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/efojunior25/Notrya-Catalogo/internal/cart"
	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductResolver looks up the current product record before it is added
// to the cart, so the line's stock snapshot is fresh.
type ProductResolver interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
}

type CartHandler struct {
	cart     *cart.Controller
	products ProductResolver
	timeout  time.Duration
}

func NewCartHandler(controller *cart.Controller, products ProductResolver, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:     controller,
		products: products,
		timeout:  timeout,
	}
}

// maxQuantity bounds a single request; zero still means one unit.
const maxQuantity = 99

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type QuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type StockRequestDTO struct {
	Stock int `json:"stock"`
}

// CartResponse is the cart state with its derived totals.
type CartResponse struct {
	cart.State
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

func newCartResponse(s cart.State) CartResponse {
	return CartResponse{State: s, Total: s.Total(), ItemCount: s.ItemCount()}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, newCartResponse(h.cart.State()))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity < 0 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	product, err := h.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		handleError(w, err)
		return
	}

	h.apply(ctx, w, http.StatusCreated, cart.AddItem{Product: product, Quantity: req.Quantity})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}
	var req QuantityRequestDTO
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	h.apply(ctx, w, http.StatusOK, cart.UpdateQuantity{ProductID: productID, Quantity: req.Quantity})
}

// Decrement removes units from a line; an empty body removes one.
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}
	var req QuantityRequestDTO
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	h.apply(ctx, w, http.StatusOK, cart.RemoveItem{ProductID: productID, Quantity: req.Quantity})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	h.apply(ctx, w, http.StatusOK, cart.RemoveItemCompletely{ProductID: productID})
}

func (h *CartHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}
	var req StockRequestDTO
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Stock < 0 {
		respondError(w, http.StatusBadRequest, "invalid_stock", "stock must not be negative")
		return
	}

	h.apply(ctx, w, http.StatusOK, cart.UpdateItemStock{ProductID: productID, Stock: req.Stock})
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, cart.Clear{})
}

func (h *CartHandler) Open(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, cart.OpenCart{})
}

func (h *CartHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, cart.CloseCart{})
}

func (h *CartHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, cart.ToggleOpen{})
}

func (h *CartHandler) ClearError(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, cart.ClearError{})
}

func (h *CartHandler) dispatch(w http.ResponseWriter, r *http.Request, action cart.Action) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	h.apply(ctx, w, http.StatusOK, action)
}

// apply runs action and answers with the resulting cart, or 409 when the
// cart refused it.
func (h *CartHandler) apply(ctx context.Context, w http.ResponseWriter, status int, action cart.Action) {
	state, err := h.cart.Apply(ctx, action)

	var rejected *cart.RejectedError
	if errors.As(err, &rejected) {
		respondJSON(w, http.StatusConflict, ErrorResponse{
			Error:   rejected.Reason,
			Code:    "cart_rejected",
			Details: rejected.Action,
		})
		return
	}

	respondJSON(w, status, newCartResponse(state))
}
