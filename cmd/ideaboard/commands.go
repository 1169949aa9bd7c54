package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-idea-board/internal/domain"
	"github.com/tbourn/go-idea-board/internal/search"
	"github.com/tbourn/go-idea-board/internal/services"
)

func newSeedCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the idea collection with the sample ideas, dropping all votes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if err := a.ideas.ReseedSampleData(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d sample ideas\n", len(a.ideas.GetIdeas(cmd.Context())))
			return nil
		},
	}
}

func newResetCmd(get func() *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all ideas and votes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to delete all data without --yes")
			}
			if err := get().ideas.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All ideas and votes deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}

func newListCmd(get func() *app) *cobra.Command {
	var q, sortKey, category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ideas, optionally searched and filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := search.ParseSort(sortKey, search.SortByRating)
			if err != nil {
				return err
			}
			cat, ok := domain.ParseCategory(category)
			if !ok {
				return fmt.Errorf("unknown category %q", category)
			}

			a := get()
			all := a.ideas.GetIdeas(cmd.Context())
			votes := a.ideas.GetUserVotes(cmd.Context())
			view := search.Apply(all, search.Query{Text: q, Sort: key, Category: cat})

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tRATING\tVOTES\tVOTED")
			for _, idea := range view {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
					idea.ID, idea.Name, categoryLabel(idea.Category), idea.Rating, idea.Votes, mark(votes.Has(idea.ID)))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(out, search.Summary{Showing: len(view), Total: len(all)})
			return nil
		},
	}
	cmd.Flags().StringVar(&q, "q", "", "search text")
	cmd.Flags().StringVar(&sortKey, "sort", "rating", "sort by rating|votes")
	cmd.Flags().StringVar(&category, "category", "All", "category filter")
	return cmd
}

func newLeaderboardCmd(get func() *app) *cobra.Command {
	var sortKey string
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top ideas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := search.ParseSort(sortKey, search.SortByVotes)
			if err != nil {
				return err
			}
			a := get()
			if limit <= 0 {
				limit = a.cfg.LeaderboardSize
			}

			ideas := a.ideas.GetIdeas(cmd.Context())
			out := cmd.OutOrStdout()
			if len(ideas) > 0 {
				fmt.Fprintln(out, search.Summarize(ideas))
			}

			now := time.Now()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tNAME\tVOTES\tRATING\tTIER\tSUBMITTED")
			for _, e := range search.Leaderboard(ideas, key, limit) {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
					e.Badge, e.Idea.Name, e.Idea.Votes, e.Idea.Rating, e.RatingTier, search.Age(e.Idea.SubmittedAt, now))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&sortKey, "sort", "votes", "rank by votes|rating")
	cmd.Flags().IntVar(&limit, "limit", 0, "number of entries (default LEADERBOARD_SIZE)")
	return cmd
}

func newSubmitCmd(get func() *app) *cobra.Command {
	var in domain.NewIdea
	var category string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new idea and get its rating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cat, ok := domain.ParseCategory(category); ok && cat != domain.CategoryAll {
				in.Category = cat
			} else {
				in.Category = domain.Category(category)
			}

			idea, err := get().ideas.Submit(cmd.Context(), in)
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				printFields(cmd.ErrOrStderr(), ve.Fields)
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\nRating: %d/100 (%s)\nFeedback: %s\n",
				idea.ID, idea.Rating, search.RatingTier(idea.Rating), idea.Feedback)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "idea name")
	cmd.Flags().StringVar(&in.Tagline, "tagline", "", "one-line pitch")
	cmd.Flags().StringVar(&in.Description, "description", "", "longer description")
	cmd.Flags().StringVar(&category, "category", "", "category, e.g. FinTech")
	return cmd
}

func newVoteCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <idea-id>",
		Short: "Upvote an idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := get().ideas.AddVote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Voted for %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Already voted for %s\n", args[0])
			}
			return nil
		},
	}
}

func newUnvoteCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unvote <idea-id>",
		Short: "Retract a vote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := get().ideas.RemoveVote(cmd.Context(), args[0])
			if errors.Is(err, services.ErrVoteLocked) {
				return fmt.Errorf("%w (VOTE_MODE=oneshot)", err)
			}
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed vote for %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No vote for %s\n", args[0])
			}
			return nil
		},
	}
}

func categoryLabel(c domain.Category) string {
	if c == "" {
		return "-"
	}
	return string(c)
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func printFields(w io.Writer, fields map[string]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, strings.TrimSpace(fields[k]))
	}
}
