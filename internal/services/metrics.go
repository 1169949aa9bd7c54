package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// ideasSubmitted counts ideas accepted by Submit.
	ideasSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ideaboard_ideas_submitted_total",
			Help: "Total number of ideas submitted.",
		},
	)

	// voteOps counts successful vote mutations by op (add|remove).
	voteOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideaboard_votes_total",
			Help: "Total number of successful vote mutations.",
		},
		[]string{"op"},
	)

	// voteDivergence counts vote updates left half-applied after the
	// compensating write also failed.
	voteDivergence = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ideaboard_vote_divergence_total",
			Help: "Vote updates whose rollback failed, leaving vote set and counter out of step.",
		},
	)

	// readFailures counts fail-open reads by slot.
	readFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideaboard_store_read_failures_total",
			Help: "Slot reads that failed and were served as empty.",
		},
		[]string{"slot"},
	)
)

func init() {
	prometheus.MustRegister(ideasSubmitted, voteOps, voteDivergence, readFailures)
}
