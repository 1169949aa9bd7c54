// Package search derives the views the presentation layer renders from the
// idea collection: the filtered, searched and sorted listing, and the
// leaderboard. Everything here is a pure function of its inputs:
//
//   - No state and no I/O; views are recomputed on every call
//   - Inputs are never mutated; every result is a fresh slice
//   - Sorting is stable, so ties keep the order filtering produced
//   - Text matching uses Unicode case folding (golang.org/x/text/cases)
package search

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/tbourn/go-idea-board/internal/domain"
)

// SortKey orders a view descending by one numeric field.
type SortKey string

const (
	SortByRating SortKey = "rating"
	SortByVotes  SortKey = "votes"
)

// ParseSort validates a sort key. Empty input returns def.
func ParseSort(s string, def SortKey) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return def, nil
	case SortByRating:
		return SortByRating, nil
	case SortByVotes:
		return SortByVotes, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Query describes one listing view.
type Query struct {
	// Text is matched case-insensitively as a substring of name, tagline,
	// description and category, spaces included. Blank text matches
	// everything.
	Text string
	// Sort defaults to SortByRating when empty.
	Sort SortKey
	// Category keeps only ideas with that category; empty or
	// domain.CategoryAll disables the filter.
	Category domain.Category
}

// Apply filters by category, then by text, then sorts. The result is a new
// slice; ideas is left untouched.
func Apply(ideas []domain.Idea, q Query) []domain.Idea {
	out := make([]domain.Idea, 0, len(ideas))
	fold := cases.Fold()
	// Blank text disables the search, but surrounding spaces are part of
	// the needle: "eco " does not match "Eco-friendly".
	searching := strings.TrimSpace(q.Text) != ""
	needle := fold.String(q.Text)

	for _, idea := range ideas {
		if q.Category != "" && q.Category != domain.CategoryAll && idea.Category != q.Category {
			continue
		}
		if searching && !matches(fold, idea, needle) {
			continue
		}
		out = append(out, idea)
	}

	sortStable(out, q.Sort)
	return out
}

// Summary counts a listing view against the full collection.
type Summary struct {
	Showing int `json:"showing"`
	Total   int `json:"total"`
}

// String renders the counts the way the listing header shows them.
func (s Summary) String() string {
	return fmt.Sprintf("Showing %d of %d ideas", s.Showing, s.Total)
}

func matches(fold cases.Caser, idea domain.Idea, needle string) bool {
	for _, field := range []string{idea.Name, idea.Tagline, idea.Description, string(idea.Category)} {
		if field != "" && strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

func sortStable(ideas []domain.Idea, key SortKey) {
	if key == SortByVotes {
		slices.SortStableFunc(ideas, func(a, b domain.Idea) int { return b.Votes - a.Votes })
		return
	}
	slices.SortStableFunc(ideas, func(a, b domain.Idea) int { return b.Rating - a.Rating })
}
