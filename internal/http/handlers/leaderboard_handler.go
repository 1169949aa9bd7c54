package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-idea-board/internal/search"
	"github.com/tbourn/go-idea-board/internal/utils"
)

// maxLeaderboardSize caps the limit query parameter.
const maxLeaderboardSize = 50

// LeaderboardEntry is one ranked row with its submission age label.
type LeaderboardEntry struct {
	search.Entry
	Age string `json:"age" example:"3 days ago"`
}

// LeaderboardResponse is the ranked view.
type LeaderboardResponse struct {
	Sort    search.SortKey     `json:"sort" example:"votes"`
	Stats   search.Stats       `json:"stats"`
	Entries []LeaderboardEntry `json:"entries"`
}

// Leaderboard godoc
// @ID          leaderboard
// @Summary     Top ideas
// @Description Ranks ideas descending by votes (default) or rating and returns the top entries with medal badges and rating tiers, plus totals over the whole collection.
// @Tags        Ideas
// @Produce     json
//
// @Param       sort   query  string  false "Sort key"         Enums(votes, rating) default(votes)
// @Param       limit  query  int     false "Number of entries" minimum(1) maximum(50) default(5)
//
// @Success     200  {object}  handlers.LeaderboardResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /leaderboard [get]
func (h *Handlers) Leaderboard(c *gin.Context) {
	key, err := search.ParseSort(c.Query("sort"), search.SortByVotes)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "sort must be rating or votes")
		return
	}
	limit := utils.ClampInt(utils.AtoiDefault(c.Query("limit"), h.opts.LeaderboardSize), 1, maxLeaderboardSize)

	ctx := c.Request.Context()
	ideas := h.ideaSvc.GetIdeas(ctx)
	markVoted(ideas, h.ideaSvc.GetUserVotes(ctx))

	now := time.Now()
	ranked := search.Leaderboard(ideas, key, limit)
	out := make([]LeaderboardEntry, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, LeaderboardEntry{Entry: e, Age: search.Age(e.Idea.SubmittedAt, now)})
	}
	ok(c, http.StatusOK, LeaderboardResponse{Sort: key, Stats: search.Summarize(ideas), Entries: out})
}
