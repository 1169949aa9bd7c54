// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, compression, metrics,
// rate limiting, CORS, and security headers.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-idea-board/docs"
	"github.com/tbourn/go-idea-board/internal/config"
	"github.com/tbourn/go-idea-board/internal/http/handlers"
	"github.com/tbourn/go-idea-board/internal/http/middleware"
)

// maxBodyBytes caps request bodies. A submission is at most ~650 runes of
// text, so 64 KiB leaves ample room for JSON overhead.
const maxBodyBytes = 64 << 10

// maxIdempotencyKeyLen keeps "idem:" plus the key within a slot name.
const maxIdempotencyKeyLen = 59

// opsPaths are operational endpoints exempt from rate limiting and access
// logging of successful requests.
var opsPaths = []string{"/health", "/metrics", "/swagger"}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the idea board API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression (skipping /metrics, which promhttp compresses itself)
//  7. Metrics
//  8. Idempotency-Key validation, before the limiter so replays bypass it
//  9. Rate limiter (per client IP, ops endpoints exempt)
//  10. CORS and Security headers
//
// replays may be nil, which disables Idempotency-Key replay on submit.
func RegisterRoutes(r *gin.Engine, ideas handlers.IdeaService, prefs handlers.PreferencesService, replays handlers.ReplayStore, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logs
	r.Use(middleware.Logger(middleware.LoggerOptions{SkipPaths: opsPaths}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(maxBodyBytes))

	// 6) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics("/metrics"))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency-Key validation; a stored outcome marks the request as a replay
	var lookup middleware.IdempotencyLookup
	if replays != nil {
		lookup = func(ctx context.Context, key string, now time.Time) (bool, error) {
			_, err := replays.GetIdempotency(ctx, key, now)
			return err == nil, err
		}
	}
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: maxIdempotencyKeyLen}, lookup))

	// 9) Token-bucket rate limiter per client IP
	r.Use(middleware.Exempt(opsPaths...))
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIPAndAccess())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Encoding", middleware.HeaderIdempotencyKey},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", middleware.HeaderIdempotencyReplayed},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Security headers; API responses reflect live vote state and are never cached.
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStorePaths: []string{cfg.APIBasePath},
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(ideas, prefs, handlers.Options{
		SeedOnEmpty:     cfg.SeedOnEmpty,
		LeaderboardSize: cfg.LeaderboardSize,
		Replays:         replays,
		ReplayTTL:       cfg.IdempotencyTTL,
	})

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Ideas
		api.GET("/ideas", h.ListIdeas)
		api.POST("/ideas", h.SubmitIdea)
		api.GET("/ideas/:id", h.GetIdea)
		api.GET("/categories", h.ListCategories)
		api.GET("/leaderboard", h.Leaderboard)

		// Votes
		api.GET("/votes", h.ListVotes)
		api.POST("/ideas/:id/vote", h.AddVote)
		api.DELETE("/ideas/:id/vote", h.RemoveVote)
		api.POST("/ideas/:id/vote/toggle", h.ToggleVote)

		// Preferences
		api.GET("/preferences", h.GetPreferences)
		api.PUT("/preferences", h.UpdatePreferences)
		api.POST("/preferences/theme/toggle", h.ToggleTheme)

		// Admin
		api.POST("/admin/reset", h.ResetData)
		api.POST("/admin/seed", h.SeedData)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
