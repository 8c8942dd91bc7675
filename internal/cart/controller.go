package cart

import (
	"context"
	"sync"

	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/efojunior25/Notrya-Catalogo/internal/metrics"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Persister mirrors cart lines to durable storage. Implementations swallow
// their own failures; the controller never waits on a storage error.
type Persister interface {
	Load(ctx context.Context) []domain.CartLineItem
	Save(ctx context.Context, items []domain.CartLineItem)
	Purge(ctx context.Context)
}

// Ticket identifies one in-flight checkout. It is only honoured by the
// session generation that issued it.
type Ticket struct {
	generation uint64
}

// Controller owns the single authoritative cart state of a session. All
// actions are serialized, so each one applies to the latest state.
type Controller struct {
	mu         sync.Mutex
	state      State
	persister  Persister
	generation uint64
	hydrated   bool
}

func NewController(persister Persister) *Controller {
	return &Controller{
		state:      NewState(),
		persister:  persister,
		generation: 1,
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Hydrate loads persisted lines once per session generation.
func (c *Controller) Hydrate(ctx context.Context) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hydrated {
		return c.state.Clone()
	}
	c.hydrated = true

	items := c.persister.Load(ctx)
	if len(items) == 0 {
		return c.state.Clone()
	}
	c.apply(ctx, Load{Items: items})
	log.WithField("items", len(c.state.Items)).Info("cart hydrated from storage")
	return c.state.Clone()
}

// Dispatch applies action and writes the resulting lines through to storage.
func (c *Controller) Dispatch(ctx context.Context, action Action) State {
	state, _ := c.Apply(ctx, action)
	return state
}

// Apply is Dispatch that also reports a refused action as *RejectedError.
func (c *Controller) Apply(ctx context.Context, action Action) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.apply(ctx, action) {
		return c.state.Clone(), &RejectedError{Action: action.Name(), Reason: c.state.LastError}
	}
	return c.state.Clone(), nil
}

// BeginCheckout marks the cart as loading and returns the lines to submit.
// An empty cart records a "cart empty" error; a checkout already in flight
// is refused without touching the state.
func (c *Controller) BeginCheckout(ctx context.Context) (Ticket, State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.IsLoading {
		metrics.CartActions.WithLabelValues(CheckoutStarted{}.Name(), "rejected").Inc()
		return Ticket{}, c.state.Clone(), ErrCheckoutInProgress
	}
	if c.state.IsEmpty() {
		c.apply(ctx, CheckoutFailed{Message: MsgCartEmpty})
		return Ticket{}, c.state.Clone(), ErrEmptyCart
	}

	c.apply(ctx, CheckoutStarted{})
	return Ticket{generation: c.generation}, c.state.Clone(), nil
}

// FinishCheckout applies the checkout outcome unless the session was reset
// since BeginCheckout, in which case the result is dropped and ok is false.
func (c *Controller) FinishCheckout(ctx context.Context, ticket Ticket, action Action) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ticket.generation != c.generation || !c.state.IsLoading {
		log.WithFields(log.Fields{
			"action":            action.Name(),
			"ticket_generation": ticket.generation,
			"generation":        c.generation,
		}).Warn("discarding stale checkout result")
		return c.state.Clone(), false
	}
	c.apply(ctx, action)
	return c.state.Clone(), true
}

// Reset discards the in-memory session. Persisted lines are kept, so a
// following Hydrate reloads them; in-flight checkouts become stale.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.hydrated = false
	c.state = NewState()
}

func (c *Controller) AddItem(ctx context.Context, product domain.Product, quantity int) State {
	return c.Dispatch(ctx, AddItem{Product: product, Quantity: quantity})
}

func (c *Controller) RemoveItem(ctx context.Context, productID int64, quantity int) State {
	return c.Dispatch(ctx, RemoveItem{ProductID: productID, Quantity: quantity})
}

func (c *Controller) RemoveItemCompletely(ctx context.Context, productID int64) State {
	return c.Dispatch(ctx, RemoveItemCompletely{ProductID: productID})
}

func (c *Controller) UpdateQuantity(ctx context.Context, productID int64, quantity int) State {
	return c.Dispatch(ctx, UpdateQuantity{ProductID: productID, Quantity: quantity})
}

func (c *Controller) UpdateItemStock(ctx context.Context, productID int64, stock int) State {
	return c.Dispatch(ctx, UpdateItemStock{ProductID: productID, Stock: stock})
}

func (c *Controller) Clear(ctx context.Context) State {
	return c.Dispatch(ctx, Clear{})
}

func (c *Controller) Toggle(ctx context.Context) State {
	return c.Dispatch(ctx, ToggleOpen{})
}

func (c *Controller) Open(ctx context.Context) State {
	return c.Dispatch(ctx, OpenCart{})
}

func (c *Controller) Close(ctx context.Context) State {
	return c.Dispatch(ctx, CloseCart{})
}

func (c *Controller) ClearError(ctx context.Context) State {
	return c.Dispatch(ctx, ClearError{})
}

func (c *Controller) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Total()
}

func (c *Controller) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ItemCount()
}

// apply must be called with c.mu held. It reports whether action was
// rejected.
func (c *Controller) apply(ctx context.Context, action Action) bool {
	t := reduce(c.state, action)
	c.state = t.state

	result := "applied"
	if t.rejected {
		result = "rejected"
		log.WithFields(log.Fields{
			"action": action.Name(),
			"reason": t.state.LastError,
		}).Debug("cart action rejected")
	}
	metrics.CartActions.WithLabelValues(action.Name(), result).Inc()

	if !t.itemsChanged {
		return t.rejected
	}
	switch action.(type) {
	case Clear, CheckoutSucceeded:
		c.persister.Purge(ctx)
	default:
		c.persister.Save(ctx, c.state.Items)
	}
	return false
}
