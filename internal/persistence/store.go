package persistence

import (
	"context"
	"errors"
)

// Store is a small key/value store shared by the cart and auth subsystems.
// Each subsystem owns its keys, so no cross-key locking is needed.
type Store interface {
	// Get returns the raw value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("key not found")
