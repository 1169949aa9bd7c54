package search

import (
	"fmt"
	"math"
	"time"

	"github.com/tbourn/go-idea-board/internal/domain"
)

// DefaultLeaderboardSize is how many entries the leaderboard shows.
const DefaultLeaderboardSize = 5

// Entry is one leaderboard row.
type Entry struct {
	Rank       int         `json:"rank"`
	Badge      string      `json:"badge"`
	RatingTier string      `json:"rating_tier"`
	Idea       domain.Idea `json:"idea"`
}

// Leaderboard ranks ideas descending by key (votes when empty) and returns
// at most limit entries. limit <= 0 selects DefaultLeaderboardSize.
func Leaderboard(ideas []domain.Idea, key SortKey, limit int) []Entry {
	if key == "" {
		key = SortByVotes
	}
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	ranked := Apply(ideas, Query{Sort: key})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]Entry, 0, len(ranked))
	for i, idea := range ranked {
		out = append(out, Entry{
			Rank:       i + 1,
			Badge:      Badge(i),
			RatingTier: RatingTier(idea.Rating),
			Idea:       idea,
		})
	}
	return out
}

// Stats are the leaderboard header figures, taken over the whole
// collection rather than the ranked entries.
type Stats struct {
	Ideas      int `json:"ideas" example:"3"`
	TotalVotes int `json:"total_votes" example:"35"`
	// Mean rating rounded half up; 0 without ideas.
	AvgRating int `json:"avg_rating" example:"85"`
}

// Summarize computes Stats over ideas.
func Summarize(ideas []domain.Idea) Stats {
	st := Stats{Ideas: len(ideas)}
	if len(ideas) == 0 {
		return st
	}
	ratings := 0
	for _, idea := range ideas {
		st.TotalVotes += idea.Votes
		ratings += idea.Rating
	}
	st.AvgRating = int(math.Floor(float64(ratings)/float64(len(ideas)) + 0.5))
	return st
}

// String renders the header line, e.g. "3 ideas · 35 votes · avg rating 85".
func (s Stats) String() string {
	return fmt.Sprintf("%d ideas · %d votes · avg rating %d", s.Ideas, s.TotalVotes, s.AvgRating)
}

// Badge returns the medal for the zero-based positions 0..2 and "#n"
// (one-based) below that.
func Badge(pos int) string {
	switch pos {
	case 0:
		return "🥇"
	case 1:
		return "🥈"
	case 2:
		return "🥉"
	default:
		return fmt.Sprintf("#%d", pos+1)
	}
}

// RatingTier buckets a rating for colour coding.
func RatingTier(rating int) string {
	switch {
	case rating >= 80:
		return "excellent"
	case rating >= 60:
		return "good"
	case rating >= 40:
		return "fair"
	default:
		return "poor"
	}
}

// Age describes how long ago an idea was submitted, in whole days.
func Age(submittedAt, now time.Time) string {
	d := now.Sub(submittedAt)
	if d < 0 {
		d = -d
	}
	switch days := int(d / (24 * time.Hour)); days {
	case 0:
		return "Today"
	case 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
