package checkout

import (
	"context"
	"errors"

	"github.com/efojunior25/Notrya-Catalogo/internal/cart"
	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/efojunior25/Notrya-Catalogo/internal/metrics"
	"github.com/efojunior25/Notrya-Catalogo/internal/receipts"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req domain.OrderRequest, idempotencyKey string) (domain.OrderResponse, error)
}

type ReceiptRecorder interface {
	Record(ctx context.Context, receipt receipts.Receipt) error
}

type Status string

const (
	StatusSucceeded     Status = "succeeded"
	StatusStockConflict Status = "stock_conflict"
	StatusFailed        Status = "failed"
	StatusRejected      Status = "rejected"
)

// Outcome describes how one checkout attempt ended.
type Outcome struct {
	Status      Status                `json:"status"`
	Message     string                `json:"message,omitempty"`
	Order       *domain.OrderResponse `json:"order,omitempty"`
	StockErrors []domain.StockError   `json:"stock_errors,omitempty"`
	State       cart.State            `json:"cart"`
	Err         error                 `json:"-"`
}

// Orchestrator turns the session cart into an order and feeds the result
// back into the cart.
type Orchestrator struct {
	cart     *cart.Controller
	orders   OrderPlacer
	receipts ReceiptRecorder
	newKey   func() string
}

// NewOrchestrator wires the checkout flow. recorder may be nil.
func NewOrchestrator(controller *cart.Controller, orders OrderPlacer, recorder ReceiptRecorder) *Orchestrator {
	return &Orchestrator{
		cart:     controller,
		orders:   orders,
		receipts: recorder,
		newKey:   uuid.NewString,
	}
}

// Checkout submits the cart. It never leaves the cart half-applied: on
// success the cart is emptied, on any failure the items stay as they were.
func (o *Orchestrator) Checkout(ctx context.Context) Outcome {
	ticket, state, err := o.cart.BeginCheckout(ctx)
	if err != nil {
		message := state.LastError
		if errors.Is(err, cart.ErrCheckoutInProgress) {
			message = cart.MsgCheckoutInProgress
		}
		return o.finish(Outcome{Status: StatusRejected, Message: message, State: state, Err: err})
	}

	key := o.newKey()
	logger := log.WithFields(log.Fields{
		"idempotency_key": key,
		"items":           len(state.Items),
	})
	logger.Info("submitting order")

	order, err := o.orders.PlaceOrder(ctx, domain.NewOrderRequest(state.Items), key)

	var conflict *StockConflictError
	switch {
	case err == nil:
		next, applied := o.cart.FinishCheckout(ctx, ticket, cart.CheckoutSucceeded{Order: order})
		if !applied {
			logger.WithField("order_id", order.ID).Warn("order placed after the session was reset")
		}
		o.record(ctx, order, key)
		logger.WithFields(log.Fields{
			"order_id": order.ID,
			"total":    order.Total.String(),
		}).Info("order placed")
		return o.finish(Outcome{Status: StatusSucceeded, Order: &order, State: next})

	case errors.As(err, &conflict):
		next, _ := o.cart.FinishCheckout(ctx, ticket, cart.CheckoutFailed{
			Message:     cart.MsgInsufficientStock,
			StockErrors: conflict.StockErrors,
		})
		logger.WithField("stock_errors", len(conflict.StockErrors)).Info("order rejected for stock")
		return o.finish(Outcome{
			Status:      StatusStockConflict,
			Message:     cart.MsgInsufficientStock,
			StockErrors: conflict.StockErrors,
			State:       next,
			Err:         err,
		})

	default:
		next, _ := o.cart.FinishCheckout(ctx, ticket, cart.CheckoutFailed{Message: cart.MsgCheckoutFailed})
		logger.WithError(err).Warn("order submission failed")
		return o.finish(Outcome{Status: StatusFailed, Message: cart.MsgCheckoutFailed, State: next, Err: err})
	}
}

func (o *Orchestrator) record(ctx context.Context, order domain.OrderResponse, key string) {
	if o.receipts == nil {
		return
	}
	if err := o.receipts.Record(ctx, receipts.NewReceipt(order, key)); err != nil {
		log.WithError(err).WithField("order_id", order.ID).Warn("failed to record receipt")
	}
}

func (o *Orchestrator) finish(out Outcome) Outcome {
	metrics.CheckoutTotal.WithLabelValues(string(out.Status)).Inc()
	return out
}
