package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/efojunior25/Notrya-Catalogo/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const DefaultCartKey = "cart"

// CartStorage mirrors cart lines into a Store as a JSON array. Every
// failure is logged and swallowed: the in-memory cart stays authoritative.
type CartStorage struct {
	store   Store
	key     string
	timeout time.Duration
}

// NewCartStorage returns an adapter writing under key. A non-positive
// timeout leaves the caller's context untouched.
func NewCartStorage(store Store, key string, timeout time.Duration) *CartStorage {
	if key == "" {
		key = DefaultCartKey
	}
	return &CartStorage{store: store, key: key, timeout: timeout}
}

// Load returns the persisted lines, or an empty slice when nothing usable
// is stored.
func (c *CartStorage) Load(ctx context.Context) []domain.CartLineItem {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	data, err := c.store.Get(ctx, c.key)
	if errors.Is(err, ErrNotFound) {
		return []domain.CartLineItem{}
	}
	if err != nil {
		c.fail("load", err)
		return []domain.CartLineItem{}
	}

	var items []domain.CartLineItem
	if err := json.Unmarshal(data, &items); err != nil {
		c.fail("decode", err)
		return []domain.CartLineItem{}
	}
	if items == nil {
		items = []domain.CartLineItem{}
	}
	return items
}

// Save overwrites the persisted snapshot with items.
func (c *CartStorage) Save(ctx context.Context, items []domain.CartLineItem) {
	if items == nil {
		items = []domain.CartLineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		c.fail("encode", err)
		return
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.store.Set(ctx, c.key, data); err != nil {
		c.fail("save", err)
	}
}

// Purge removes the persisted snapshot.
func (c *CartStorage) Purge(ctx context.Context) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.store.Delete(ctx, c.key); err != nil {
		c.fail("purge", err)
	}
}

func (c *CartStorage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *CartStorage) fail(operation string, err error) {
	metrics.PersistenceErrors.WithLabelValues(operation).Inc()
	log.WithError(err).WithFields(log.Fields{
		"operation": operation,
		"key":       c.key,
	}).Warn("cart persistence failed")
}
