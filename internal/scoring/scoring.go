// Package scoring assigns the quality rating and feedback phrase a new idea
// receives at submission. Scorer is the extension point for a real
// evaluation service; RandomScorer is the stand-in that ships today.
package scoring

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/tbourn/go-idea-board/internal/domain"
)

// MaxRating is the highest score a Scorer may return.
const MaxRating = 100

// Assessment is a Scorer's verdict on one idea.
type Assessment struct {
	Rating   int
	Feedback string
}

// Scorer rates a normalized, validated submission.
type Scorer interface {
	// Score returns a rating in [0, MaxRating] and a short feedback phrase.
	Score(ctx context.Context, idea domain.NewIdea) (Assessment, error)
	// Name identifies the implementation in logs.
	Name() string
}

// feedbackPhrases is the fixed set RandomScorer draws from.
var feedbackPhrases = []string{
	"Looks scalable!",
	"Risky but promising!",
	"Strong market potential!",
	"Innovative approach!",
	"Consider the competition",
	"Solid business model!",
	"Great execution needed",
	"Market timing is crucial",
	"Focus on user acquisition",
	"Revenue model unclear",
	"High growth potential!",
	"Unique value proposition",
	"Technical feasibility concerns",
	"Strong team required",
	"Impressive concept!",
	"Market validation needed",
	"Disruptive technology!",
	"Customer pain point solved",
	"Monetization strategy unclear",
	"Excellent market fit!",
}

// FeedbackPhrases returns a copy of the canned feedback set.
func FeedbackPhrases() []string {
	out := make([]string, len(feedbackPhrases))
	copy(out, feedbackPhrases)
	return out
}

// GenerateRating returns a uniformly distributed integer in [0, MaxRating].
func GenerateRating() int {
	return rand.IntN(MaxRating + 1)
}

// GenerateFeedback returns a uniformly chosen canned feedback phrase.
func GenerateFeedback() string {
	return feedbackPhrases[rand.IntN(len(feedbackPhrases))]
}

// RandomScorer ignores the idea and returns a random rating and phrase.
// It is unseeded and not reproducible.
type RandomScorer struct{}

// Score implements Scorer.
func (RandomScorer) Score(_ context.Context, _ domain.NewIdea) (Assessment, error) {
	return Assessment{Rating: GenerateRating(), Feedback: GenerateFeedback()}, nil
}

// Name implements Scorer.
func (RandomScorer) Name() string { return "random" }

// Fixed always returns the same assessment. Useful in tests and demos.
type Fixed Assessment

// Score implements Scorer.
func (f Fixed) Score(context.Context, domain.NewIdea) (Assessment, error) {
	return Assessment(f), nil
}

// Name implements Scorer.
func (Fixed) Name() string { return "fixed" }

// New returns the Scorer registered under name. An empty name selects the
// random scorer.
func New(name string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "random":
		return RandomScorer{}, nil
	default:
		return nil, fmt.Errorf("unknown scorer %q", name)
	}
}
