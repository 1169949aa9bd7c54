package utils

import "github.com/google/uuid"

// NewID returns a new opaque idea id. It is a UUIDv7: a millisecond
// timestamp followed by random bits, so ids sort roughly by creation time
// and collide only with negligible probability.
//
// If the random source fails, it falls back to a random (v4) UUID.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
