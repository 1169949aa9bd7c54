// Package services – IdeaService
//
// This file implements the IdeaService, the sole in-process mutator of the
// idea collection and the local user's vote set. It enforces the
// one-vote-per-user-per-idea invariant, keeps each idea's stored vote counter
// in step with vote-set membership, and applies the fail-open read policy:
// GetIdeas and GetUserVotes never surface a storage error, they log it and
// return an empty result.
//
// Vote updates are two independent slot writes (vote set, then idea
// counter). When the second write fails the service writes the previous vote
// set back. If that compensating write fails too, ErrVoteDiverged is
// returned and the divergence is logged and counted.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-idea-board/internal/domain"
	"github.com/tbourn/go-idea-board/internal/scoring"
	"github.com/tbourn/go-idea-board/internal/utils"
)

// IdeaStore is the persistence contract required by IdeaService. The two
// slots are read and written independently; no call spans both.
type IdeaStore interface {
	ReadIdeas(ctx context.Context) ([]domain.Idea, error)
	WriteIdeas(ctx context.Context, ideas []domain.Idea) error
	ReadVotes(ctx context.Context) (domain.VoteSet, error)
	WriteVotes(ctx context.Context, vs domain.VoteSet) error
	Clear(ctx context.Context) error
}

// VoteMode selects whether a vote can be retracted.
type VoteMode string

const (
	// VoteModeToggle lets the user add and remove their vote freely.
	VoteModeToggle VoteMode = "toggle"
	// VoteModeOneShot makes a vote final once cast.
	VoteModeOneShot VoteMode = "oneshot"
)

// ParseVoteMode maps a config value to a VoteMode.
func ParseVoteMode(s string) (VoteMode, error) {
	switch VoteMode(s) {
	case VoteModeToggle, "":
		return VoteModeToggle, nil
	case VoteModeOneShot:
		return VoteModeOneShot, nil
	default:
		return "", fmt.Errorf("unknown vote mode %q", s)
	}
}

// IdeaService owns idea submission and voting.
type IdeaService struct {
	// Store persists the idea and vote slots.
	Store IdeaStore
	// Scorer rates new submissions.
	Scorer scoring.Scorer
	// NewID and Now are injectable for tests.
	NewID func() string
	Now   func() time.Time
	// VoteMode controls vote retraction.
	VoteMode VoteMode
	// Log receives fail-open and divergence reports.
	Log zerolog.Logger

	// mu serializes read-modify-write cycles against the store.
	mu sync.Mutex
}

// NewIdeaService constructs an IdeaService in toggle mode with real clocks
// and UUIDv7 ids.
func NewIdeaService(store IdeaStore, scorer scoring.Scorer, log zerolog.Logger) *IdeaService {
	return &IdeaService{
		Store:    store,
		Scorer:   scorer,
		NewID:    utils.NewID,
		Now:      time.Now,
		VoteMode: VoteModeToggle,
		Log:      log,
	}
}

// GetIdeas returns the full collection in insertion order. Read failures
// are logged and reported as an empty collection.
func (s *IdeaService) GetIdeas(ctx context.Context) []domain.Idea {
	ideas, err := s.Store.ReadIdeas(ctx)
	if err != nil {
		readFailures.WithLabelValues(string(domain.SlotIdeas)).Inc()
		s.Log.Warn().Err(err).Str("slot", string(domain.SlotIdeas)).Msg("read failed, serving empty")
		return []domain.Idea{}
	}
	return ideas
}

// GetIdea returns one idea by id, or ErrIdeaNotFound.
func (s *IdeaService) GetIdea(ctx context.Context, id string) (*domain.Idea, error) {
	ideas := s.GetIdeas(ctx)
	if i := indexOf(ideas, id); i >= 0 {
		return &ideas[i], nil
	}
	return nil, ErrIdeaNotFound
}

// GetUserVotes returns the local user's vote set. Read failures are logged
// and reported as an empty set.
func (s *IdeaService) GetUserVotes(ctx context.Context) domain.VoteSet {
	vs, err := s.Store.ReadVotes(ctx)
	if err != nil {
		readFailures.WithLabelValues(string(domain.SlotVotes)).Inc()
		s.Log.Warn().Err(err).Str("slot", string(domain.SlotVotes)).Msg("read failed, serving empty")
		return domain.NewVoteSet()
	}
	return vs
}

// HasVoted reports whether id is in the vote set.
func (s *IdeaService) HasVoted(ctx context.Context, id string) bool {
	return s.GetUserVotes(ctx).Has(id)
}

// Submit validates a submission, scores it, assigns id and timestamp, and
// appends it to the collection.
func (s *IdeaService) Submit(ctx context.Context, in domain.NewIdea) (*domain.Idea, error) {
	ctx, span := s.tracer().Start(ctx, "Submit")
	defer span.End()

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	a, err := s.Scorer.Score(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("score idea: %w", err)
	}
	if a.Rating < 0 || a.Rating > scoring.MaxRating {
		return nil, fmt.Errorf("%w: %s returned %d", ErrInvalidRating, s.Scorer.Name(), a.Rating)
	}

	idea := domain.Idea{
		ID:          s.NewID(),
		Name:        in.Name,
		Tagline:     in.Tagline,
		Description: in.Description,
		Category:    in.Category,
		Rating:      a.Rating,
		Feedback:    a.Feedback,
		SubmittedAt: s.Now().UTC().Truncate(time.Millisecond),
	}
	span.SetAttributes(attribute.String("idea.id", idea.ID))

	if err := s.AddIdea(ctx, idea); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	ideasSubmitted.Inc()
	return &idea, nil
}

// AddIdea appends idea to the collection and persists it.
//
// The text fields are trimmed and validated first; a *domain.ValidationError
// is returned without touching storage. Unlike GetIdeas the read here is
// strict: a failed read returns the error instead of overwriting the slot
// with a one-element collection. On a write failure the caller must re-read
// before relying on its own copy.
func (s *IdeaService) AddIdea(ctx context.Context, idea domain.Idea) error {
	idea, err := checkIdea(idea)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ideas, err := s.Store.ReadIdeas(ctx)
	if err != nil {
		return err
	}
	if indexOf(ideas, idea.ID) >= 0 {
		return ErrDuplicateIdea
	}
	return s.Store.WriteIdeas(ctx, append(ideas, idea))
}

// AddVote records the local user's vote for id and increments the idea's
// counter.
//
// Results:
//   - (true, nil): both writes succeeded.
//   - (false, nil): id is already in the vote set; nothing changed.
//   - (false, ErrIdeaNotFound): no such idea; nothing changed.
//   - (false, err): a storage failure. The vote set has been restored unless
//     err wraps ErrVoteDiverged.
func (s *IdeaService) AddVote(ctx context.Context, id string) (bool, error) {
	ctx, span := s.tracer().Start(ctx, "AddVote", trace.WithAttributes(attribute.String("idea.id", id)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addVote(ctx, span, id)
}

// RemoveVote retracts the local user's vote for id and decrements the
// idea's counter with a floor of 0.
//
// Results mirror AddVote; (false, nil) means id was not voted. In one-shot
// mode it returns (false, ErrVoteLocked). A vote for an id that no longer
// has an idea is removed from the vote set alone.
func (s *IdeaService) RemoveVote(ctx context.Context, id string) (bool, error) {
	ctx, span := s.tracer().Start(ctx, "RemoveVote", trace.WithAttributes(attribute.String("idea.id", id)))
	defer span.End()

	if s.VoteMode == VoteModeOneShot {
		return false, ErrVoteLocked
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeVote(ctx, span, id)
}

// ToggleVote adds the vote when absent and removes it when present. It
// returns the resulting vote state. In one-shot mode a second toggle
// returns ErrVoteLocked.
func (s *IdeaService) ToggleVote(ctx context.Context, id string) (bool, error) {
	ctx, span := s.tracer().Start(ctx, "ToggleVote", trace.WithAttributes(attribute.String("idea.id", id)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	votes, err := s.Store.ReadVotes(ctx)
	if err != nil {
		return false, err
	}
	if !votes.Has(id) {
		if _, err := s.addVote(ctx, span, id); err != nil {
			return false, err
		}
		return true, nil
	}
	if s.VoteMode == VoteModeOneShot {
		return true, ErrVoteLocked
	}
	if _, err := s.removeVote(ctx, span, id); err != nil {
		return true, err
	}
	return false, nil
}

// ClearAll deletes both slots.
func (s *IdeaService) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Store.Clear(ctx)
}

func (s *IdeaService) addVote(ctx context.Context, span trace.Span, id string) (bool, error) {
	votes, err := s.Store.ReadVotes(ctx)
	if err != nil {
		return false, err
	}
	if votes.Has(id) {
		return false, nil
	}
	ideas, err := s.Store.ReadIdeas(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(ideas, id)
	if i < 0 {
		return false, ErrIdeaNotFound
	}

	prev := votes.Clone()
	votes.Add(id)
	if err := s.Store.WriteVotes(ctx, votes); err != nil {
		span.RecordError(err)
		return false, err
	}

	ideas[i].Votes++
	ideas[i].Voted = true
	if err := s.Store.WriteIdeas(ctx, ideas); err != nil {
		span.RecordError(err)
		return false, s.compensate(ctx, prev, id, err)
	}
	voteOps.WithLabelValues("add").Inc()
	return true, nil
}

func (s *IdeaService) removeVote(ctx context.Context, span trace.Span, id string) (bool, error) {
	votes, err := s.Store.ReadVotes(ctx)
	if err != nil {
		return false, err
	}
	if !votes.Has(id) {
		return false, nil
	}
	ideas, err := s.Store.ReadIdeas(ctx)
	if err != nil {
		return false, err
	}

	prev := votes.Clone()
	votes.Remove(id)
	if err := s.Store.WriteVotes(ctx, votes); err != nil {
		span.RecordError(err)
		return false, err
	}

	i := indexOf(ideas, id)
	if i < 0 {
		s.Log.Warn().Str("idea_id", id).Msg("removed vote for missing idea")
		voteOps.WithLabelValues("remove").Inc()
		return true, nil
	}
	ideas[i].Votes = max(ideas[i].Votes-1, 0)
	ideas[i].Voted = false
	if err := s.Store.WriteIdeas(ctx, ideas); err != nil {
		span.RecordError(err)
		return false, s.compensate(ctx, prev, id, err)
	}
	voteOps.WithLabelValues("remove").Inc()
	return true, nil
}

// compensate restores the vote set after the idea slot write failed. It
// returns cause when the restore succeeded, or an error wrapping
// ErrVoteDiverged, cause and the restore failure otherwise.
func (s *IdeaService) compensate(ctx context.Context, prev domain.VoteSet, id string, cause error) error {
	rerr := s.Store.WriteVotes(context.WithoutCancel(ctx), prev)
	if rerr == nil {
		s.Log.Warn().Err(cause).Str("idea_id", id).Msg("idea write failed, vote set restored")
		return cause
	}
	voteDivergence.Inc()
	s.Log.Error().
		Err(cause).
		AnErr("rollback_error", rerr).
		Str("idea_id", id).
		Msg("vote set and counter diverged")
	return errors.Join(ErrVoteDiverged, cause, rerr)
}

func (s *IdeaService) tracer() trace.Tracer {
	return otel.Tracer("services/IdeaService")
}

// checkIdea trims and validates a fully formed idea.
func checkIdea(idea domain.Idea) (domain.Idea, error) {
	n := domain.NewIdea{
		Name:        idea.Name,
		Tagline:     idea.Tagline,
		Description: idea.Description,
		Category:    idea.Category,
	}.Normalize()
	idea.Name, idea.Tagline, idea.Description, idea.Category = n.Name, n.Tagline, n.Description, n.Category

	err := n.Validate()
	ve, _ := err.(*domain.ValidationError)
	if ve == nil {
		ve = &domain.ValidationError{}
	}
	if idea.ID == "" {
		ve.Add("id", "id is required")
	}
	if idea.Rating < 0 || idea.Rating > scoring.MaxRating {
		ve.Add("rating", "rating must be between 0 and 100")
	}
	if idea.Votes < 0 {
		ve.Add("votes", "votes must not be negative")
	}
	if !ve.Empty() {
		return idea, ve
	}
	return idea, nil
}

func indexOf(ideas []domain.Idea, id string) int {
	for i := range ideas {
		if ideas[i].ID == id {
			return i
		}
	}
	return -1
}
