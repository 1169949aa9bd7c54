// Package repo implements the persistence layer of the idea board. This
// file stores Idempotency records next to the slots, one backend key per
// Idempotency-Key, so a retried submission can be answered from the first
// outcome.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tbourn/go-idea-board/internal/domain"
)

// ErrDuplicate indicates that a live idempotency record already exists for
// the key.
var ErrDuplicate = errors.New("duplicate")

// idempotencyPrefix namespaces replay records among the backend keys.
const idempotencyPrefix = "idem:"

// IdempotencyRepo reads and writes Idempotency records on a Backend.
type IdempotencyRepo struct {
	Backend Backend

	// mu makes the check-then-save in Create atomic within the process.
	mu sync.Mutex
}

// NewIdempotencyRepo returns an IdempotencyRepo over b.
func NewIdempotencyRepo(b Backend) *IdempotencyRepo {
	return &IdempotencyRepo{Backend: b}
}

// GetIdempotency returns the record for key, or ErrNotFound when none was
// stored or it expired before now.
func (r *IdempotencyRepo) GetIdempotency(ctx context.Context, key string, now time.Time) (*domain.Idempotency, error) {
	raw, err := r.Backend.Load(ctx, idempotencyPrefix+key)
	if err != nil {
		return nil, err
	}
	var rec domain.Idempotency
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode idempotency record %q: %w", key, err)
	}
	if rec.Expired(now) {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// CreateIdempotency stores the outcome of the request made with key for
// ttl. It returns ErrDuplicate while an earlier record is still live; an
// expired one is overwritten.
func (r *IdempotencyRepo) CreateIdempotency(ctx context.Context, key string, idea domain.Idea, status int, ttl time.Duration) (*domain.Idempotency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	_, err := r.GetIdempotency(ctx, key, now)
	switch {
	case err == nil:
		return nil, ErrDuplicate
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	rec := &domain.Idempotency{
		Key:       key,
		Status:    status,
		Idea:      idea,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	blob, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	if err := r.Backend.Save(ctx, idempotencyPrefix+key, blob); err != nil {
		return nil, err
	}
	return rec, nil
}
