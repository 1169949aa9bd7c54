package handlers

// Error codes carried in ErrorResponse.Code. Clients switch on these, so
// existing values never change meaning.
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "vote_locked",
//	  "message": "votes cannot be retracted"
//	}
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	// Written by the rate limiter and panic recovery middleware.
	ErrCodeRateLimited = "rate_limited"
	ErrCodeInternal    = "internal_error"

	// Idea board
	ErrCodeValidation   = "validation_failed"
	ErrCodeSubmitFailed = "submit_failed"
	ErrCodeVoteFailed   = "vote_failed"
	ErrCodeVoteLocked   = "vote_locked"
	ErrCodeVoteDiverged = "vote_diverged"
	ErrCodeStorage      = "storage_failed"
)
