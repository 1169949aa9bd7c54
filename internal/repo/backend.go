package repo

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Backend.Load when the key has never been
// written or was deleted.
var ErrNotFound = errors.New("key not found")

// Backend is a durable key/blob medium. Implementations must be safe for
// concurrent use; they provide no atomicity across keys.
type Backend interface {
	// Load returns the blob stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save replaces the blob stored under key.
	Save(ctx context.Context, key string, blob []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
