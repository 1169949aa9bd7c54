// Command ideaboard serves the idea board HTTP API and offers the same
// operations from the shell.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-idea-board/internal/config"
	"github.com/tbourn/go-idea-board/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var a *app

	root := &cobra.Command{
		Use:          "ideaboard",
		Short:        "Startup idea board: submit, rate and upvote ideas",
		Version:      sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := sysutil.SetupLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogPretty)

			a, err = openApp(cmd.Context(), cfg, logger)
			if err != nil {
				logger.Error().Err(err).Str("driver", cfg.Store.Driver).Msg("storage unavailable")
				return err
			}
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a == nil {
				return nil
			}
			if err := a.close(); err != nil {
				log.Warn().Err(err).Msg("close store")
			}
			return nil
		},
	}

	get := func() *app { return a }
	root.AddCommand(
		newServeCmd(get),
		newSeedCmd(get),
		newResetCmd(get),
		newListCmd(get),
		newLeaderboardCmd(get),
		newSubmitCmd(get),
		newVoteCmd(get),
		newUnvoteCmd(get),
	)
	return root
}
