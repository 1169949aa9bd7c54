package services

import (
	"context"
	"time"

	"github.com/tbourn/go-idea-board/internal/domain"
)

// SampleIdeas returns the hand-authored ideas written by SeedSampleData.
// Their vote counters stand for votes from other people, so none of them
// appears in the local vote set.
func SampleIdeas(now time.Time) []domain.Idea {
	now = now.UTC().Truncate(time.Millisecond)
	return []domain.Idea{
		{
			ID:          "sample-1",
			Name:        "EcoDelivery",
			Tagline:     "Carbon-neutral food delivery",
			Description: "A food delivery service that uses only electric bikes and cars, partnering with local restaurants to reduce carbon footprint while delivering delicious meals.",
			Category:    domain.CategoryFoodTech,
			Rating:      85,
			Feedback:    "Strong market potential!",
			Votes:       12,
			SubmittedAt: now,
		},
		{
			ID:          "sample-2",
			Name:        "StudyBuddy AI",
			Tagline:     "Personalized learning companion",
			Description: "An AI-powered study assistant that adapts to individual learning styles, creates custom quiz questions, and tracks progress across multiple subjects.",
			Category:    domain.CategoryEdTech,
			Rating:      78,
			Feedback:    "High growth potential!",
			Votes:       8,
			SubmittedAt: now,
		},
		{
			ID:          "sample-3",
			Name:        "LocalCraft",
			Tagline:     "Marketplace for handmade goods",
			Description: "Connect local artisans with customers in their area, promoting handmade crafts and supporting small businesses in the community.",
			Category:    domain.CategoryECommerce,
			Rating:      92,
			Feedback:    "Customer pain point solved",
			Votes:       15,
			SubmittedAt: now,
		},
	}
}

// SeedSampleData writes SampleIdeas when the collection is empty and
// reports whether it did. The emptiness check is a strict read under the
// service lock, so a failed read or a concurrent submission never gets
// overwritten.
func (s *IdeaService) SeedSampleData(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ideas, err := s.Store.ReadIdeas(ctx)
	if err != nil {
		return false, err
	}
	if len(ideas) > 0 {
		return false, nil
	}
	if err := s.Store.WriteIdeas(ctx, SampleIdeas(s.Now())); err != nil {
		return false, err
	}
	return true, nil
}

// ReseedSampleData replaces the whole collection with SampleIdeas. Every
// vote in the set belonged to a replaced idea, so the vote set is emptied
// first; if the collection write then fails the previous vote set is
// written back.
func (s *IdeaService) ReseedSampleData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.Store.ReadVotes(ctx)
	if err != nil {
		return err
	}
	if err := s.Store.WriteVotes(ctx, domain.NewVoteSet()); err != nil {
		return err
	}
	if err := s.Store.WriteIdeas(ctx, SampleIdeas(s.Now())); err != nil {
		return s.compensate(ctx, prev, "", err)
	}
	return nil
}

// EnsureSeeded seeds the sample ideas when the collection is empty and
// returns the resulting collection. This is the first-run flow of the
// listing screen.
func (s *IdeaService) EnsureSeeded(ctx context.Context) ([]domain.Idea, error) {
	if ideas := s.GetIdeas(ctx); len(ideas) > 0 {
		return ideas, nil
	}
	seeded, err := s.SeedSampleData(ctx)
	if err != nil {
		return []domain.Idea{}, err
	}
	if seeded {
		s.Log.Info().Msg("seeded sample ideas")
	}
	return s.GetIdeas(ctx), nil
}
