package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-idea-board/internal/services"
)

// VoteResponse reports the vote state of one idea after a vote operation.
type VoteResponse struct {
	IdeaID string `json:"idea_id" example:"sample-1"`
	// Voted is the local user's vote state after the call.
	Voted bool `json:"voted"`
	// Changed is false when the call was a no-op.
	Changed bool `json:"changed"`
	// Votes is the idea's stored counter; omitted when the idea is gone.
	Votes *int `json:"votes,omitempty"`
}

// VotesResponse lists the ids the local user voted for.
type VotesResponse struct {
	IdeaIDs []string `json:"idea_ids"`
}

// ListVotes godoc
// @ID          listVotes
// @Summary     List the local user's votes
// @Tags        Votes
// @Produce     json
// @Success     200  {object}  handlers.VotesResponse
// @Router      /votes [get]
func (h *Handlers) ListVotes(c *gin.Context) {
	ok(c, http.StatusOK, VotesResponse{IdeaIDs: h.ideaSvc.GetUserVotes(c.Request.Context()).IDs()})
}

// AddVote godoc
// @ID          addVote
// @Summary     Vote for an idea
// @Description Adds the local user's vote. Voting twice is a no-op reported with changed=false.
// @Tags        Votes
// @Produce     json
//
// @Param       id  path  string  true  "Idea ID"  example(sample-1)
//
// @Success     200  {object}  handlers.VoteResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Idea not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /ideas/{id}/vote [post]
func (h *Handlers) AddVote(c *gin.Context) {
	h.vote(c, func(ctx context.Context, id string) (bool, bool, error) {
		changed, err := h.ideaSvc.AddVote(ctx, id)
		return true, changed, err
	})
}

// RemoveVote godoc
// @ID          removeVote
// @Summary     Retract a vote
// @Description Removes the local user's vote. Retracting an absent vote is a no-op reported with changed=false.
// @Tags        Votes
// @Produce     json
//
// @Param       id  path  string  true  "Idea ID"  example(sample-1)
//
// @Success     200  {object}  handlers.VoteResponse
// @Failure     409  {object}  handlers.ErrorResponse  "Votes are final in one-shot mode"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /ideas/{id}/vote [delete]
func (h *Handlers) RemoveVote(c *gin.Context) {
	h.vote(c, func(ctx context.Context, id string) (bool, bool, error) {
		changed, err := h.ideaSvc.RemoveVote(ctx, id)
		return false, changed, err
	})
}

// ToggleVote godoc
// @ID          toggleVote
// @Summary     Toggle a vote
// @Tags        Votes
// @Produce     json
//
// @Param       id  path  string  true  "Idea ID"  example(sample-1)
//
// @Success     200  {object}  handlers.VoteResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Idea not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Votes are final in one-shot mode"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /ideas/{id}/vote/toggle [post]
func (h *Handlers) ToggleVote(c *gin.Context) {
	h.vote(c, func(ctx context.Context, id string) (bool, bool, error) {
		voted, err := h.ideaSvc.ToggleVote(ctx, id)
		return voted, true, err
	})
}

// vote runs op and writes the VoteResponse. When op reports no change the
// resulting state is read back from the vote set.
func (h *Handlers) vote(c *gin.Context, op func(ctx context.Context, id string) (voted, changed bool, err error)) {
	ctx := c.Request.Context()
	id := c.Param("id")

	voted, changed, err := op(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrIdeaNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "idea not found")
		case errors.Is(err, services.ErrVoteLocked):
			fail(c, http.StatusConflict, ErrCodeVoteLocked, err.Error())
		case errors.Is(err, services.ErrVoteDiverged):
			fail(c, http.StatusInternalServerError, ErrCodeVoteDiverged, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeVoteFailed, err.Error())
		}
		return
	}
	if !changed {
		voted = h.ideaSvc.GetUserVotes(ctx).Has(id)
	}

	resp := VoteResponse{IdeaID: id, Voted: voted, Changed: changed}
	if idea, err := h.ideaSvc.GetIdea(ctx, id); err == nil {
		resp.Votes = &idea.Votes
	}
	ok(c, http.StatusOK, resp)
}
