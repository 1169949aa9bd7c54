package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-idea-board/internal/config"
	"github.com/tbourn/go-idea-board/internal/repo"
	"github.com/tbourn/go-idea-board/internal/scoring"
	"github.com/tbourn/go-idea-board/internal/services"
)

// app bundles the services every command works against.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	ideas   *services.IdeaService
	prefs   *services.PreferencesService
	replays *repo.IdempotencyRepo
	close   func() error
}

// openApp selects the storage backend and builds the services on top of it.
// The caller must call close when done.
func openApp(ctx context.Context, cfg config.Config, log zerolog.Logger) (*app, error) {
	backend, closeFn, err := openBackend(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	scorer, err := scoring.New(cfg.Scorer)
	if err != nil {
		_ = closeFn()
		return nil, err
	}
	mode, err := services.ParseVoteMode(cfg.VoteMode)
	if err != nil {
		_ = closeFn()
		return nil, err
	}
	theme, err := services.ParseTheme(cfg.ThemeDefault)
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	ideas := services.NewIdeaService(repo.NewSlotStore(backend), scorer, log.With().Str("component", "ideas").Logger())
	ideas.VoteMode = mode

	return &app{
		cfg:     cfg,
		log:     log,
		ideas:   ideas,
		prefs:   services.NewPreferencesService(ctx, backend, theme, log.With().Str("component", "preferences").Logger()),
		replays: repo.NewIdempotencyRepo(backend),
		close:   closeFn,
	}, nil
}

// openBackend connects the configured storage medium.
func openBackend(ctx context.Context, sc config.StoreConfig) (repo.Backend, func() error, error) {
	switch sc.Driver {
	case "sqlite", "":
		db, err := repo.OpenSQLite(sc.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", sc.DBPath, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		if err := repo.AutoMigrate(db); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return repo.NewSQLiteBackend(db), sqlDB.Close, nil

	case "redis":
		client, err := repo.ConnectRedis(ctx, sc.RedisAddr, sc.RedisPassword, sc.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewRedisBackend(client, sc.RedisPrefix), client.Close, nil

	case "memory":
		return repo.NewMemoryBackend(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}
}
