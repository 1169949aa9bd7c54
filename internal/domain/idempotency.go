package domain

import "time"

// Idempotency is the stored outcome of a submission made with an
// Idempotency-Key header. A retry carrying the same key before ExpiresAt is
// answered with Status and Idea instead of creating a second idea.
type Idempotency struct {
	Key       string    `json:"key"`
	Status    int       `json:"status"`
	Idea      Idea      `json:"idea"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the record no longer replays at now.
func (r Idempotency) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
