// Package handlers implements the idea board's JSON API on top of Gin.
//
// Every failure is written as an ErrorResponse whose Code is one of the
// constants in errors.go; successes are plain JSON documents.
//
//	HTTP/1.1 422 Unprocessable Entity
//	{
//	  "request_id": "0199c2a4-6f0e-7c3a-9d55-2b8f1e0c4a11",
//	  "code": "validation_failed",
//	  "message": "invalid idea: tagline is too short",
//	  "fields": { "tagline": "tagline is too short" }
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-idea-board/internal/domain"
	"github.com/tbourn/go-idea-board/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	// Echo of X-Request-ID
	RequestID string `json:"request_id,omitempty" example:"0199c2a4-6f0e-7c3a-9d55-2b8f1e0c4a11"`
	// Stable machine-readable code
	Code string `json:"code" example:"not_found"`
	// Message safe to show to users
	Message string `json:"message" example:"idea not found"`
	// Field name to problem, only on validation_failed
	Fields map[string]string `json:"fields,omitempty"`
}

func abort(c *gin.Context, status int, resp ErrorResponse) {
	resp.RequestID = c.Writer.Header().Get("X-Request-ID")

	level := zerolog.DebugLevel
	if status >= http.StatusInternalServerError {
		level = zerolog.ErrorLevel
	}
	middleware.LoggerFrom(c).WithLevel(level).
		Int("status", status).
		Str("code", resp.Code).
		Str("message", resp.Message).
		Msg("api error")

	c.AbortWithStatusJSON(status, resp)
}

// fail aborts with status and the given code and message. 5xx responses are
// logged at error level on the request logger, everything else at debug.
func fail(c *gin.Context, status int, code, msg string) {
	abort(c, status, ErrorResponse{Code: code, Message: msg})
}

// failValidation aborts with 422 and the per-field problems of ve.
func failValidation(c *gin.Context, ve *domain.ValidationError) {
	abort(c, http.StatusUnprocessableEntity, ErrorResponse{
		Code:    ErrCodeValidation,
		Message: ve.Error(),
		Fields:  ve.Fields,
	})
}

// Fail lets the router write NoRoute and NoMethod errors in the same shape.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
