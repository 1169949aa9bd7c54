// Idea HTTP handlers.
//
// This file exposes REST endpoints for idea resources:
//   - GET    /ideas        (listing view: search, category filter, sort)
//   - POST   /ideas        (submit, scored server-side)
//   - GET    /ideas/{id}   (single idea)
//   - GET    /categories   (category picker values)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-idea-board/internal/domain"
	"github.com/tbourn/go-idea-board/internal/http/middleware"
	"github.com/tbourn/go-idea-board/internal/repo"
	"github.com/tbourn/go-idea-board/internal/search"
	"github.com/tbourn/go-idea-board/internal/services"
)

//
// Service contracts (context-aware)
//

// IdeaService defines the idea and vote operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type IdeaService interface {
	// GetIdeas returns the full collection; read failures yield an empty one.
	GetIdeas(ctx context.Context) []domain.Idea
	// GetIdea returns one idea or services.ErrIdeaNotFound.
	GetIdea(ctx context.Context, id string) (*domain.Idea, error)
	// GetUserVotes returns the local vote set; read failures yield an empty one.
	GetUserVotes(ctx context.Context) domain.VoteSet
	// Submit validates, scores and stores a new idea.
	Submit(ctx context.Context, in domain.NewIdea) (*domain.Idea, error)
	// AddVote votes for id; false with a nil error means already voted.
	AddVote(ctx context.Context, id string) (bool, error)
	// RemoveVote retracts the vote for id; false with a nil error means not voted.
	RemoveVote(ctx context.Context, id string) (bool, error)
	// ToggleVote flips the vote for id and returns the resulting state.
	ToggleVote(ctx context.Context, id string) (bool, error)
	// EnsureSeeded writes the sample ideas into an empty collection.
	EnsureSeeded(ctx context.Context) ([]domain.Idea, error)
	// ReseedSampleData replaces the collection with the sample ideas and
	// drops the vote set.
	ReseedSampleData(ctx context.Context) error
	// ClearAll deletes ideas and votes.
	ClearAll(ctx context.Context) error
}

// ReplayStore keeps the outcome of keyed submissions so retries can be
// answered without creating a second idea.
type ReplayStore interface {
	// GetIdempotency returns the live record for key or repo.ErrNotFound.
	GetIdempotency(ctx context.Context, key string, now time.Time) (*domain.Idempotency, error)
	// CreateIdempotency stores the outcome for key for ttl.
	CreateIdempotency(ctx context.Context, key string, idea domain.Idea, status int, ttl time.Duration) (*domain.Idempotency, error)
}

// PreferencesService defines the presentation-state operations.
type PreferencesService interface {
	Get() services.AppState
	SetTheme(ctx context.Context, t services.Theme) (services.AppState, error)
	ToggleTheme(ctx context.Context) (services.AppState, error)
}

//
// Handler wiring
//

// Options tunes handler behaviour from configuration.
type Options struct {
	// SeedOnEmpty makes the listing write the sample ideas on first run.
	SeedOnEmpty bool
	// LeaderboardSize is the default leaderboard length.
	LeaderboardSize int
	// Replays enables Idempotency-Key handling on submit when non-nil.
	Replays ReplayStore
	// ReplayTTL is how long a submit outcome is replayed.
	ReplayTTL time.Duration
}

// Handlers groups HTTP endpoints for ideas, votes, the leaderboard and
// preferences. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	ideaSvc IdeaService
	prefSvc PreferencesService
	opts    Options

	// submitMu serializes keyed submissions so one key creates one idea.
	submitMu sync.Mutex
}

// New constructs and returns a Handlers instance bound to the given services.
func New(ideaSvc IdeaService, prefSvc PreferencesService, opts Options) *Handlers {
	if opts.LeaderboardSize <= 0 {
		opts.LeaderboardSize = search.DefaultLeaderboardSize
	}
	if opts.ReplayTTL <= 0 {
		opts.ReplayTTL = 24 * time.Hour
	}
	return &Handlers{ideaSvc: ideaSvc, prefSvc: prefSvc, opts: opts}
}

//
// DTOs
//

// SubmitIdeaRequest is the JSON payload for submitting an idea.
type SubmitIdeaRequest struct {
	Name        string `json:"name" example:"EcoDelivery"`
	Tagline     string `json:"tagline" example:"Carbon-neutral food delivery"`
	Description string `json:"description" example:"A food delivery service that uses only electric bikes and cars."`
	Category    string `json:"category" example:"FoodTech"`
}

// ListIdeasResponse is the listing view plus its header counts.
type ListIdeasResponse struct {
	Ideas   []domain.Idea  `json:"ideas"`
	Summary search.Summary `json:"summary"`
	// Text is the rendered header, e.g. "Showing 2 of 3 ideas".
	Text string `json:"text" example:"Showing 2 of 3 ideas"`
}

// CategoriesResponse lists the filter and submission categories.
type CategoriesResponse struct {
	// Filter includes the "All" sentinel first.
	Filter []domain.Category `json:"filter"`
	// Submit holds the categories an idea can be stored with.
	Submit []domain.Category `json:"submit"`
}

//
// Helpers
//

// markVoted sets Voted on each idea from the vote set, which is the
// authoritative record of the local user's votes.
func markVoted(ideas []domain.Idea, votes domain.VoteSet) {
	for i := range ideas {
		ideas[i].Voted = votes.Has(ideas[i].ID)
	}
}

// loadIdeas returns the collection, seeding the samples first when enabled.
func (h *Handlers) loadIdeas(c *gin.Context) []domain.Idea {
	ctx := c.Request.Context()
	if !h.opts.SeedOnEmpty {
		return h.ideaSvc.GetIdeas(ctx)
	}
	ideas, err := h.ideaSvc.EnsureSeeded(ctx)
	if err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Warn().Err(err).Msg("seeding sample ideas failed")
		return h.ideaSvc.GetIdeas(ctx)
	}
	return ideas
}

//
// Handlers
//

// ListIdeas godoc
// @ID          listIdeas
// @Summary     List ideas
// @Description Returns the listing view: ideas filtered by category, matched case-insensitively against q, sorted descending by rating or votes.
// @Tags        Ideas
// @Produce     json
//
// @Param       q         query   string  false "Search text (name, tagline, description, category)"  example(food)
// @Param       category  query   string  false "Category filter; All or empty disables it"              example(FoodTech)
// @Param       sort      query   string  false "Sort key"  Enums(rating, votes) default(rating)
//
// @Success     200  {object}  handlers.ListIdeasResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /ideas [get]
func (h *Handlers) ListIdeas(c *gin.Context) {
	key, err := search.ParseSort(c.Query("sort"), search.SortByRating)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "sort must be rating or votes")
		return
	}
	cat, valid := domain.ParseCategory(c.Query("category"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown category")
		return
	}

	all := h.loadIdeas(c)
	markVoted(all, h.ideaSvc.GetUserVotes(c.Request.Context()))

	view := search.Apply(all, search.Query{Text: c.Query("q"), Sort: key, Category: cat})
	sum := search.Summary{Showing: len(view), Total: len(all)}
	ok(c, http.StatusOK, ListIdeasResponse{Ideas: view, Summary: sum, Text: sum.String()})
}

// SubmitIdea godoc
// @ID          submitIdea
// @Summary     Submit an idea
// @Description Validates the submission, assigns a rating and feedback, and stores the idea.
// @Description Supports safe retries via the Idempotency-Key header: a repeated key returns the first response with Idempotency-Replayed: true.
// @Tags        Ideas
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body  body  handlers.SubmitIdeaRequest  true  "Idea submission"
//
// @Success     201  {object}  domain.Idea
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     422  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ideas [post]
func (h *Handlers) SubmitIdea(c *gin.Context) {
	ctx := c.Request.Context()
	key, keyed := middleware.GetIdempotencyKey(c)
	keyed = keyed && h.opts.Replays != nil
	if keyed {
		h.submitMu.Lock()
		defer h.submitMu.Unlock()

		rec, err := h.opts.Replays.GetIdempotency(ctx, key, time.Now().UTC())
		switch {
		case err == nil:
			c.Header(middleware.HeaderIdempotencyReplayed, "true")
			ok(c, rec.Status, rec.Idea)
			return
		case !errors.Is(err, repo.ErrNotFound):
			middleware.LoggerFrom(c).Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed")
		}
	}

	var req SubmitIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	in := domain.NewIdea{
		Name:        req.Name,
		Tagline:     req.Tagline,
		Description: req.Description,
		Category:    domain.Category(strings.TrimSpace(req.Category)),
	}
	if cat, valid := domain.ParseCategory(req.Category); valid && cat != domain.CategoryAll {
		in.Category = cat
	}

	idea, err := h.ideaSvc.Submit(ctx, in)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			failValidation(c, ve)
		case errors.Is(err, services.ErrDuplicateIdea):
			fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSubmitFailed, err.Error())
		}
		return
	}
	if keyed {
		if _, err := h.opts.Replays.CreateIdempotency(ctx, key, *idea, http.StatusCreated, h.opts.ReplayTTL); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Str("idempotency_key", key).Msg("store idempotency record failed")
		}
	}
	ok(c, http.StatusCreated, idea)
}

// GetIdea godoc
// @ID          getIdea
// @Summary     Get an idea
// @Tags        Ideas
// @Produce     json
//
// @Param       id  path  string  true  "Idea ID"  example(sample-1)
//
// @Success     200  {object}  domain.Idea
// @Failure     404  {object}  handlers.ErrorResponse  "Idea not found"
// @Router      /ideas/{id} [get]
func (h *Handlers) GetIdea(c *gin.Context) {
	ctx := c.Request.Context()
	idea, err := h.ideaSvc.GetIdea(ctx, c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "idea not found")
		return
	}
	idea.Voted = h.ideaSvc.GetUserVotes(ctx).Has(idea.ID)
	ok(c, http.StatusOK, idea)
}

// ListCategories godoc
// @ID          listCategories
// @Summary     List categories
// @Tags        Ideas
// @Produce     json
// @Success     200  {object}  handlers.CategoriesResponse
// @Router      /categories [get]
func (h *Handlers) ListCategories(c *gin.Context) {
	submit := domain.Categories()
	filter := append([]domain.Category{domain.CategoryAll}, submit...)
	ok(c, http.StatusOK, CategoriesResponse{Filter: filter, Submit: submit})
}
