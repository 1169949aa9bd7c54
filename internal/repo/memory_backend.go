package repo

import (
	"context"
	"sync"
)

// MemoryBackend keeps blobs in process memory. It backs STORE_DRIVER=memory
// and the tests, which use the failure hooks to simulate a broken medium.
type MemoryBackend struct {
	mu    sync.Mutex
	blobs map[string][]byte

	// FailLoad and FailSave, when set, are consulted before every Load/Save
	// and Delete; a non-nil result is returned instead of touching the data.
	FailLoad func(key string) error
	FailSave func(key string) error
}

// NewMemoryBackend returns an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{blobs: make(map[string][]byte)}
}

// Load returns a copy of the blob under key, or ErrNotFound.
func (b *MemoryBackend) Load(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailLoad != nil {
		if err := b.FailLoad(key); err != nil {
			return nil, err
		}
	}
	v, ok := b.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Save stores a copy of blob under key.
func (b *MemoryBackend) Save(_ context.Context, key string, blob []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailSave != nil {
		if err := b.FailSave(key); err != nil {
			return err
		}
	}
	if b.blobs == nil {
		b.blobs = make(map[string][]byte)
	}
	b.blobs[key] = append([]byte(nil), blob...)
	return nil
}

// Delete removes key.
func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailSave != nil {
		if err := b.FailSave(key); err != nil {
			return err
		}
	}
	delete(b.blobs, key)
	return nil
}

// SetFailures swaps both failure hooks under the lock.
func (b *MemoryBackend) SetFailures(load, save func(key string) error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.FailLoad = load
	b.FailSave = save
}
