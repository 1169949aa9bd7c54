// Package services defines the business logic of the idea board.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Storage, parse and validation failures keep their domain types
// (*domain.StorageError, *domain.ParseError, *domain.ValidationError) and are
// matched with errors.As. Translation into HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrIdeaNotFound indicates that no idea with the requested id exists.
	ErrIdeaNotFound = errors.New("idea not found")

	// ErrDuplicateIdea is returned when an idea with the same id is already
	// stored.
	ErrDuplicateIdea = errors.New("idea already exists")

	// ErrVoteLocked is returned when a vote retraction is attempted while the
	// service runs in one-shot voting mode.
	ErrVoteLocked = errors.New("votes cannot be retracted")

	// ErrVoteDiverged is returned when the idea counter write failed and the
	// compensating vote-set write failed as well, leaving the vote set and
	// the counter out of step. Callers must re-read both before retrying.
	ErrVoteDiverged = errors.New("vote set and vote counter diverged")

	// ErrInvalidRating is returned when a Scorer produces a rating outside
	// [0,100].
	ErrInvalidRating = errors.New("rating out of range")
)
