package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-idea-board/internal/search"
)

// ResetData godoc
// @ID          resetData
// @Summary     Delete all ideas and votes
// @Tags        Admin
// @Success     204  {string}  string  "No Content"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /admin/reset [post]
func (h *Handlers) ResetData(c *gin.Context) {
	if err := h.ideaSvc.ClearAll(c.Request.Context()); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeStorage, err.Error())
		return
	}
	noContent(c)
}

// SeedData godoc
// @ID          seedData
// @Summary     Replace the collection with the sample ideas
// @Description Existing ideas and the local vote set are discarded.
// @Tags        Admin
// @Produce     json
// @Success     200  {object}  handlers.ListIdeasResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /admin/seed [post]
func (h *Handlers) SeedData(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.ideaSvc.ReseedSampleData(ctx); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeStorage, err.Error())
		return
	}
	ideas := h.ideaSvc.GetIdeas(ctx)
	markVoted(ideas, h.ideaSvc.GetUserVotes(ctx))
	sum := search.Summary{Showing: len(ideas), Total: len(ideas)}
	ok(c, http.StatusOK, ListIdeasResponse{Ideas: ideas, Summary: sum, Text: sum.String()})
}
