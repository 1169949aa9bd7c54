// Package services – PreferencesService
//
// This file implements the application-state object that replaces an ambient
// theme singleton: it is constructed explicitly, loads the persisted theme
// preference once, and falls back to the configured system default when no
// preference was saved or the stored one cannot be read.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-idea-board/internal/repo"
)

// ThemePreferenceKey is the backend key holding the saved theme. It lives
// outside the idea and vote slots.
const ThemePreferenceKey = "theme_preference"

// Theme is the colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// AppState is the presentation state shared across screens.
type AppState struct {
	Theme Theme `json:"theme"`
	// Saved is false while Theme is the system default.
	Saved bool `json:"saved"`
}

// PreferencesService holds the AppState and persists theme changes.
type PreferencesService struct {
	backend repo.Backend
	log     zerolog.Logger

	mu    sync.Mutex
	state AppState
}

// NewPreferencesService loads the saved theme from b, falling back to
// systemDefault.
func NewPreferencesService(ctx context.Context, b repo.Backend, systemDefault Theme, log zerolog.Logger) *PreferencesService {
	p := &PreferencesService{backend: b, log: log, state: AppState{Theme: systemDefault}}

	raw, err := b.Load(ctx, ThemePreferenceKey)
	switch {
	case errors.Is(err, repo.ErrNotFound):
	case err != nil:
		log.Warn().Err(err).Msg("load theme preference failed, using system default")
	default:
		if t, perr := ParseTheme(string(raw)); perr == nil {
			p.state = AppState{Theme: t, Saved: true}
		} else {
			log.Warn().Err(perr).Msg("ignoring stored theme preference")
		}
	}
	return p
}

// Get returns a copy of the current state.
func (p *PreferencesService) Get() AppState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SetTheme changes the theme and persists it. The in-memory state changes
// even when persisting fails; the error is returned for the caller to
// report.
func (p *PreferencesService) SetTheme(ctx context.Context, t Theme) (AppState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Theme = t
	if err := p.backend.Save(ctx, ThemePreferenceKey, []byte(t)); err != nil {
		return p.state, err
	}
	p.state.Saved = true
	return p.state, nil
}

// ToggleTheme flips between light and dark.
func (p *PreferencesService) ToggleTheme(ctx context.Context) (AppState, error) {
	next := ThemeDark
	if p.Get().Theme == ThemeDark {
		next = ThemeLight
	}
	return p.SetTheme(ctx, next)
}
