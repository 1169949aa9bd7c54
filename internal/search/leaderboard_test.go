package search

import (
	"testing"
	"time"

	"github.com/tbourn/go-idea-board/internal/domain"
)

func TestLeaderboard_DefaultsToVotesAndSize(t *testing.T) {
	entries := Leaderboard(fixtureIdeas(), "", 0)
	if len(entries) != 4 {
		t.Fatalf("len = %d", len(entries))
	}
	want := []struct {
		id, badge, tier string
	}{
		{"3", "🥇", "good"},
		{"1", "🥈", "good"},
		{"2", "🥉", "excellent"},
		{"4", "#4", "poor"},
	}
	for i, w := range want {
		e := entries[i]
		if e.Rank != i+1 || e.Idea.ID != w.id || e.Badge != w.badge || e.RatingTier != w.tier {
			t.Fatalf("entry %d = %+v, want %+v", i, e, w)
		}
	}
}

func TestLeaderboard_RatingAndLimit(t *testing.T) {
	entries := Leaderboard(fixtureIdeas(), SortByRating, 2)
	if len(entries) != 2 || entries[0].Idea.ID != "2" || entries[1].Idea.ID != "1" {
		t.Fatalf("entries = %+v", entries)
	}
	if got := Leaderboard(nil, SortByVotes, 3); len(got) != 0 {
		t.Fatalf("empty input: %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	withRatings := func(rs ...int) []domain.Idea {
		out := make([]domain.Idea, len(rs))
		for i, r := range rs {
			out[i] = domain.Idea{Rating: r, Votes: i}
		}
		return out
	}
	cases := []struct {
		name  string
		ideas []domain.Idea
		want  Stats
	}{
		{"empty", nil, Stats{}},
		{"fixture", fixtureIdeas(), Stats{Ideas: 4, TotalVotes: 12, AvgRating: 60}},
		{"half rounds up", withRatings(85, 78), Stats{Ideas: 2, TotalVotes: 1, AvgRating: 82}},
		{"rounds down", withRatings(1, 1, 2), Stats{Ideas: 3, TotalVotes: 3, AvgRating: 1}},
		{"rounds up", withRatings(1, 2, 2), Stats{Ideas: 3, TotalVotes: 3, AvgRating: 2}},
		{"samples", withRatings(85, 78, 92), Stats{Ideas: 3, TotalVotes: 3, AvgRating: 85}},
	}
	for _, tc := range cases {
		if got := Summarize(tc.ideas); got != tc.want {
			t.Errorf("%s: Summarize = %+v, want %+v", tc.name, got, tc.want)
		}
	}
	if got := (Stats{Ideas: 3, TotalVotes: 35, AvgRating: 85}).String(); got != "3 ideas · 35 votes · avg rating 85" {
		t.Errorf("String = %q", got)
	}
}

func TestBadge(t *testing.T) {
	for pos, want := range map[int]string{0: "🥇", 1: "🥈", 2: "🥉", 3: "#4", 9: "#10"} {
		if got := Badge(pos); got != want {
			t.Fatalf("Badge(%d) = %q, want %q", pos, got, want)
		}
	}
}

func TestRatingTier_Boundaries(t *testing.T) {
	cases := map[int]string{100: "excellent", 80: "excellent", 79: "good", 60: "good", 59: "fair", 40: "fair", 39: "poor", 0: "poor"}
	for r, want := range cases {
		if got := RatingTier(r); got != want {
			t.Fatalf("RatingTier(%d) = %q, want %q", r, got, want)
		}
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-time.Hour), "Today"},
		{now.Add(-25 * time.Hour), "1 day ago"},
		{now.Add(-10 * 24 * time.Hour), "10 days ago"},
		{now.Add(48 * time.Hour), "2 days ago"},
	}
	for _, tc := range cases {
		if got := Age(tc.at, now); got != tc.want {
			t.Fatalf("Age(%v) = %q, want %q", tc.at, got, tc.want)
		}
	}
}
