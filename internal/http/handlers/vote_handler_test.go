package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/tbourn/go-idea-board/internal/domain"
	"github.com/tbourn/go-idea-board/internal/search"
	"github.com/tbourn/go-idea-board/internal/services"
)

func decodeVote(t *testing.T, body []byte) VoteResponse {
	t.Helper()
	var v VoteResponse
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("json: %v", err)
	}
	return v
}

func TestAddVote_ChangedAndNoop(t *testing.T) {
	svc := &stubIdeaSvc{ideas: sampleIdeas(), votes: domain.NewVoteSet()}
	svc.addVote = func(_ context.Context, id string) (bool, error) {
		if svc.votes.Has(id) {
			return false, nil
		}
		svc.votes.Add(id)
		svc.ideas[0].Votes++
		return true, nil
	}
	r := newRouter(svc, &stubPrefSvc{}, Options{})

	v := decodeVote(t, serve(r, http.MethodPost, "/ideas/a/vote", "").Body.Bytes())
	if !v.Voted || !v.Changed || v.Votes == nil || *v.Votes != 10 {
		t.Fatalf("first vote: %+v", v)
	}
	v = decodeVote(t, serve(r, http.MethodPost, "/ideas/a/vote", "").Body.Bytes())
	if !v.Voted || v.Changed || *v.Votes != 10 {
		t.Fatalf("repeat vote should be a no-op: %+v", v)
	}
}

func TestRemoveVote_NotVotedIsNoop(t *testing.T) {
	svc := &stubIdeaSvc{ideas: sampleIdeas(), votes: domain.NewVoteSet()}
	svc.removeVote = func(context.Context, string) (bool, error) { return false, nil }
	r := newRouter(svc, &stubPrefSvc{}, Options{})

	w := serve(r, http.MethodDelete, "/ideas/b/vote", "")
	v := decodeVote(t, w.Body.Bytes())
	if w.Code != http.StatusOK || v.Voted || v.Changed {
		t.Fatalf("got %d %+v", w.Code, v)
	}
}

func TestRemoveVote_DanglingOmitsCounter(t *testing.T) {
	svc := &stubIdeaSvc{votes: domain.NewVoteSet("gone")}
	svc.removeVote = func(context.Context, string) (bool, error) { return true, nil }
	r := newRouter(svc, &stubPrefSvc{}, Options{})

	v := decodeVote(t, serve(r, http.MethodDelete, "/ideas/gone/vote", "").Body.Bytes())
	if v.Votes != nil || !v.Changed || v.Voted {
		t.Fatalf("dangling vote removal: %+v", v)
	}
}

func TestToggleVote_ReturnsState(t *testing.T) {
	svc := &stubIdeaSvc{ideas: sampleIdeas()}
	state := false
	svc.toggleVote = func(context.Context, string) (bool, error) {
		state = !state
		return state, nil
	}
	r := newRouter(svc, &stubPrefSvc{}, Options{})

	for _, want := range []bool{true, false, true} {
		v := decodeVote(t, serve(r, http.MethodPost, "/ideas/c/vote/toggle", "").Body.Bytes())
		if v.Voted != want || !v.Changed {
			t.Fatalf("toggle: got %+v want voted=%v", v, want)
		}
	}
}

func TestVote_ErrorMapping(t *testing.T) {
	storage := &domain.StorageError{Op: "save", Slot: string(domain.SlotIdeas), Err: errors.New("io")}
	cases := []struct {
		err      error
		wantCode int
		wantErr  string
	}{
		{services.ErrIdeaNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrVoteLocked, http.StatusConflict, ErrCodeVoteLocked},
		{errors.Join(services.ErrVoteDiverged, storage), http.StatusInternalServerError, ErrCodeVoteDiverged},
		{fmt.Errorf("add vote: %w", storage), http.StatusInternalServerError, ErrCodeVoteFailed},
	}
	for _, tc := range cases {
		t.Run(tc.wantErr, func(t *testing.T) {
			op := func(context.Context, string) (bool, error) { return false, tc.err }
			svc := &stubIdeaSvc{ideas: sampleIdeas(), addVote: op, removeVote: op, toggleVote: op}
			r := newRouter(svc, &stubPrefSvc{}, Options{})

			for _, req := range []struct{ method, path string }{
				{http.MethodPost, "/ideas/a/vote"},
				{http.MethodDelete, "/ideas/a/vote"},
				{http.MethodPost, "/ideas/a/vote/toggle"},
			} {
				w := serve(r, req.method, req.path, "")
				if w.Code != tc.wantCode || errCode(t, w) != tc.wantErr {
					t.Fatalf("%s %s: got %d %s", req.method, req.path, w.Code, w.Body.String())
				}
			}
		})
	}
}

func TestListVotes(t *testing.T) {
	svc := &stubIdeaSvc{votes: domain.NewVoteSet("b", "a")}
	w := serve(newRouter(svc, &stubPrefSvc{}, Options{}), http.MethodGet, "/votes", "")
	var resp VotesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(resp.IdeaIDs) != 2 || resp.IdeaIDs[0] != "b" || resp.IdeaIDs[1] != "a" {
		t.Fatalf("votes should keep insertion order: %+v", resp)
	}
}

// ---------- leaderboard ----------

func TestLeaderboard(t *testing.T) {
	ideas := sampleIdeas()
	ideas[0].SubmittedAt = time.Now().Add(-72 * time.Hour)
	svc := &stubIdeaSvc{ideas: ideas}
	r := newRouter(svc, &stubPrefSvc{}, Options{LeaderboardSize: 2})

	var resp LeaderboardResponse
	if err := json.Unmarshal(serve(r, http.MethodGet, "/leaderboard", "").Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Sort != "votes" || len(resp.Entries) != 2 {
		t.Fatalf("default leaderboard: %+v", resp)
	}
	if want := (search.Stats{Ideas: 3, TotalVotes: 14, AvgRating: 65}); resp.Stats != want {
		t.Fatalf("stats = %+v, want %+v", resp.Stats, want)
	}
	top := resp.Entries[0]
	if top.Idea.ID != "a" || top.Rank != 1 || top.Badge != "🥇" || top.RatingTier != "fair" || top.Age != "3 days ago" {
		t.Fatalf("top entry: %+v", top)
	}

	if err := json.Unmarshal(serve(r, http.MethodGet, "/leaderboard?sort=rating&limit=99", "").Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(resp.Entries) != 3 || resp.Entries[0].Idea.ID != "b" || resp.Entries[2].Badge != "🥉" {
		t.Fatalf("rating leaderboard: %+v", resp)
	}

	if w := serve(r, http.MethodGet, "/leaderboard?sort=age", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad sort = %d", w.Code)
	}

	empty := newRouter(&stubIdeaSvc{}, &stubPrefSvc{}, Options{})
	resp = LeaderboardResponse{}
	if err := json.Unmarshal(serve(empty, http.MethodGet, "/leaderboard", "").Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Stats != (search.Stats{}) || len(resp.Entries) != 0 {
		t.Fatalf("empty leaderboard: %+v", resp)
	}
}

// ---------- preferences ----------

func TestPreferences(t *testing.T) {
	prefs := &stubPrefSvc{state: services.AppState{Theme: services.ThemeLight}}
	r := newRouter(&stubIdeaSvc{}, prefs, Options{})

	var st services.AppState
	if err := json.Unmarshal(serve(r, http.MethodGet, "/preferences", "").Body.Bytes(), &st); err != nil || st.Theme != services.ThemeLight {
		t.Fatalf("get: %+v %v", st, err)
	}

	w := serve(r, http.MethodPut, "/preferences", `{"theme":"DARK"}`)
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil || w.Code != http.StatusOK || st.Theme != services.ThemeDark || !st.Saved {
		t.Fatalf("put: %d %+v %v", w.Code, st, err)
	}

	for _, body := range []string{`{}`, `{"theme":"sepia"}`} {
		if w = serve(r, http.MethodPut, "/preferences", body); w.Code != http.StatusBadRequest {
			t.Fatalf("put %s = %d", body, w.Code)
		}
	}

	if err := json.Unmarshal(serve(r, http.MethodPost, "/preferences/theme/toggle", "").Body.Bytes(), &st); err != nil || st.Theme != services.ThemeLight {
		t.Fatalf("toggle: %+v %v", st, err)
	}

	prefs.err = errors.New("backend down")
	if w = serve(r, http.MethodPost, "/preferences/theme/toggle", ""); w.Code != http.StatusInternalServerError || errCode(t, w) != ErrCodeStorage {
		t.Fatalf("toggle failure = %d %s", w.Code, w.Body.String())
	}
	if w = serve(r, http.MethodPut, "/preferences", `{"theme":"light"}`); w.Code != http.StatusInternalServerError {
		t.Fatalf("put failure = %d", w.Code)
	}
}

// ---------- admin ----------

func TestAdmin_ResetAndSeed(t *testing.T) {
	svc := &stubIdeaSvc{ideas: sampleIdeas(), votes: domain.NewVoteSet("a")}
	r := newRouter(svc, &stubPrefSvc{}, Options{})

	if w := serve(r, http.MethodPost, "/admin/reset", ""); w.Code != http.StatusNoContent || svc.cleared != 1 || len(svc.ideas) != 0 {
		t.Fatalf("reset = %d cleared=%d", w.Code, svc.cleared)
	}

	svc.votes = domain.NewVoteSet("sample-1")
	w := serve(r, http.MethodPost, "/admin/seed", "")
	var resp ListIdeasResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || w.Code != http.StatusOK {
		t.Fatalf("seed = %d %v", w.Code, err)
	}
	if resp.Summary.Total != 3 || resp.Text != "Showing 3 of 3 ideas" {
		t.Fatalf("seed summary: %+v", resp)
	}
	for _, idea := range resp.Ideas {
		if idea.Voted {
			t.Fatalf("reseed kept a vote on %s", idea.ID)
		}
	}

	svc.clearErr = errors.New("locked")
	svc.seedErr = errors.New("locked")
	if w = serve(r, http.MethodPost, "/admin/reset", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("reset failure = %d", w.Code)
	}
	if w = serve(r, http.MethodPost, "/admin/seed", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("seed failure = %d", w.Code)
	}
}
