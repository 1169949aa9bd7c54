package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	httpapi "github.com/tbourn/go-idea-board/internal/http"
	"github.com/tbourn/go-idea-board/internal/observability"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			cfg := a.cfg

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, cmd.Root().Version, observability.ResourceAttrs(cfg)...)
			if err != nil {
				return err
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
				defer cancel()
				if err := shutdownOTel(sctx); err != nil {
					a.log.Warn().Err(err).Msg("otel shutdown")
				}
			}()

			gin.SetMode(cfg.GinMode)
			r := gin.New()
			httpapi.RegisterRoutes(r, a.ideas, a.prefs, a.replays, cfg)

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           r,
				ReadTimeout:       cfg.ReadTimeout,
				ReadHeaderTimeout: cfg.ReadHeaderTimeout,
				WriteTimeout:      cfg.WriteTimeout,
				IdleTimeout:       cfg.IdleTimeout,
				MaxHeaderBytes:    cfg.MaxHeaderBytes,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info().
					Str("addr", srv.Addr).
					Str("store", cfg.Store.Driver).
					Str("vote_mode", cfg.VoteMode).
					Str("base_path", cfg.APIBasePath).
					Msg("listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			a.log.Info().Msg("shutting down")
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				return err
			}
			if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
