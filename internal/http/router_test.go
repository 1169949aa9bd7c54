package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-idea-board/internal/config"
	"github.com/tbourn/go-idea-board/internal/domain"
	"github.com/tbourn/go-idea-board/internal/repo"
	"github.com/tbourn/go-idea-board/internal/scoring"
	"github.com/tbourn/go-idea-board/internal/services"
)

func testConfig() config.Config {
	return config.Config{
		APIBasePath:     "/api/v1",
		RateRPS:         1000,
		RateBurst:       1000,
		SeedOnEmpty:     true,
		LeaderboardSize: 5,
		CORS:            config.CORSConfig{AllowedOrigins: nil}, // triggers AllowAllOrigins branch
		Security:        config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:            config.OTELConfig{ServiceName: "test-svc"},
	}
}

// newTestRouter wires the full stack over backend b with a fixed scorer.
func newTestRouter(t *testing.T, cfg config.Config, b repo.Backend) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ideas := services.NewIdeaService(repo.NewSlotStore(b), scoring.Fixed{Rating: 77, Feedback: "Solid business model"}, zerolog.Nop())
	prefs := services.NewPreferencesService(context.Background(), b, services.ThemeLight, zerolog.Nop())

	r := gin.New()
	RegisterRoutes(r, ideas, prefs, repo.NewIdempotencyRepo(b), cfg)
	return r
}

// newSQLiteBackend opens a private in-memory database (pure-Go sqlite, no CGO).
func newSQLiteBackend(t *testing.T) repo.Backend {
	t.Helper()
	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return repo.NewSQLiteBackend(db)
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	r := newTestRouter(t, testConfig(), repo.NewMemoryBackend())

	// /health works
	w := do(t, r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired
	w = do(t, r, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404
	if w = do(t, r, http.MethodGet, "/nope", nil); w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (POST /health)
	if w = do(t, r, http.MethodPost, "/health", nil); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	cfg := testConfig()
	cfg.APIBasePath = "/api/v2"
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	r := newTestRouter(t, cfg, repo.NewMemoryBackend())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v2/categories", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /categories = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func TestRegisterRoutes_Swagger(t *testing.T) {
	cfg := testConfig()
	cfg.SwaggerEnabled = true
	r := newTestRouter(t, cfg, repo.NewMemoryBackend())

	w := do(t, r, http.MethodGet, "/swagger/doc.json", nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"/ideas"`)) {
		t.Fatalf("GET /swagger/doc.json = %d %s", w.Code, w.Body.String())
	}

	// disabled → 404
	r2 := newTestRouter(t, testConfig(), repo.NewMemoryBackend())
	if w = do(t, r2, http.MethodGet, "/swagger/doc.json", nil); w.Code != http.StatusNotFound {
		t.Fatalf("swagger disabled expected 404, got %d", w.Code)
	}
}

func TestRegisterRoutes_Gzip(t *testing.T) {
	r := newTestRouter(t, testConfig(), repo.NewMemoryBackend())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /ideas = %d", w.Code)
	}
	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", got)
	}
}

func TestRegisterRoutes_RateLimitExemptsHealth(t *testing.T) {
	cfg := testConfig()
	cfg.RateRPS = 0.001
	cfg.RateBurst = 1
	r := newTestRouter(t, cfg, repo.NewMemoryBackend())

	if w := do(t, r, http.MethodGet, "/api/v1/categories", nil); w.Code != http.StatusOK {
		t.Fatalf("first request = %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/api/v1/categories", nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request expected 429, got %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Fatalf("/health must stay reachable, got %d", w.Code)
	}
	// Writes draw from their own bucket.
	if w := do(t, r, http.MethodPost, "/api/v1/ideas/missing/vote", nil); w.Code != http.StatusNotFound {
		t.Fatalf("first write expected 404, got %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/api/v1/ideas/missing/vote", nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second write expected 429, got %d", w.Code)
	}
}

// End-to-end over SQLite: first-run seed, submit, vote, leaderboard, reset.
func TestRegisterRoutes_IdeaBoardFlow_SQLite(t *testing.T) {
	r := newTestRouter(t, testConfig(), newSQLiteBackend(t))

	type listResp struct {
		Ideas   []domain.Idea `json:"ideas"`
		Summary struct {
			Showing int `json:"showing"`
			Total   int `json:"total"`
		} `json:"summary"`
		Text string `json:"text"`
	}

	// First run seeds the three samples, sorted by rating.
	w := do(t, r, http.MethodGet, "/api/v1/ideas", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /ideas = %d", w.Code)
	}
	list := decode[listResp](t, w)
	if len(list.Ideas) != 3 || list.Text != "Showing 3 of 3 ideas" || list.Ideas[0].ID != "sample-3" {
		t.Fatalf("unexpected seeded listing: %+v", list)
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("API responses must be no-store")
	}

	// Submit
	w = do(t, r, http.MethodPost, "/api/v1/ideas", map[string]string{
		"name":        "  GreenRoute  ",
		"tagline":     "Route planning for EVs",
		"description": "Plans charging stops along long trips using live charger data.",
		"category":    "greentech",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /ideas = %d %s", w.Code, w.Body.String())
	}
	created := decode[domain.Idea](t, w)
	if created.ID == "" || created.Name != "GreenRoute" || created.Category != domain.CategoryGreenTech ||
		created.Rating != 77 || created.Votes != 0 || created.Voted {
		t.Fatalf("unexpected created idea: %+v", created)
	}

	// Search + category filter
	list = decode[listResp](t, do(t, r, http.MethodGet, "/api/v1/ideas?q=CHARGING&category=GreenTech", nil))
	if len(list.Ideas) != 1 || list.Text != "Showing 1 of 4 ideas" {
		t.Fatalf("unexpected filtered listing: %+v", list)
	}

	// Vote twice: second is a no-op
	type voteResp struct {
		IdeaID  string `json:"idea_id"`
		Voted   bool   `json:"voted"`
		Changed bool   `json:"changed"`
		Votes   *int   `json:"votes"`
	}
	v := decode[voteResp](t, do(t, r, http.MethodPost, "/api/v1/ideas/"+created.ID+"/vote", nil))
	if !v.Voted || !v.Changed || v.Votes == nil || *v.Votes != 1 {
		t.Fatalf("first vote: %+v", v)
	}
	v = decode[voteResp](t, do(t, r, http.MethodPost, "/api/v1/ideas/"+created.ID+"/vote", nil))
	if !v.Voted || v.Changed || *v.Votes != 1 {
		t.Fatalf("second vote should be a no-op: %+v", v)
	}

	// Vote set lists it
	votes := decode[struct {
		IdeaIDs []string `json:"idea_ids"`
	}](t, do(t, r, http.MethodGet, "/api/v1/votes", nil))
	if len(votes.IdeaIDs) != 1 || votes.IdeaIDs[0] != created.ID {
		t.Fatalf("unexpected votes: %+v", votes)
	}

	// Unknown idea
	if w = do(t, r, http.MethodPost, "/api/v1/ideas/nope/vote", nil); w.Code != http.StatusNotFound {
		t.Fatalf("vote unknown idea expected 404, got %d", w.Code)
	}

	// Leaderboard by votes: sample-3 (15) first
	lb := decode[struct {
		Sort    string `json:"sort"`
		Entries []struct {
			Rank  int         `json:"rank"`
			Badge string      `json:"badge"`
			Age   string      `json:"age"`
			Idea  domain.Idea `json:"idea"`
		} `json:"entries"`
	}](t, do(t, r, http.MethodGet, "/api/v1/leaderboard?limit=2", nil))
	if lb.Sort != "votes" || len(lb.Entries) != 2 || lb.Entries[0].Idea.ID != "sample-3" ||
		lb.Entries[0].Badge != "🥇" || lb.Entries[0].Age != "Today" {
		t.Fatalf("unexpected leaderboard: %+v", lb)
	}

	// Retract via toggle
	v = decode[voteResp](t, do(t, r, http.MethodPost, "/api/v1/ideas/"+created.ID+"/vote/toggle", nil))
	if v.Voted || *v.Votes != 0 {
		t.Fatalf("toggle off: %+v", v)
	}

	// Reset clears everything; the next listing reseeds
	if w = do(t, r, http.MethodPost, "/api/v1/admin/reset", nil); w.Code != http.StatusNoContent {
		t.Fatalf("reset = %d", w.Code)
	}
	list = decode[listResp](t, do(t, r, http.MethodGet, "/api/v1/ideas", nil))
	if list.Summary.Total != 3 {
		t.Fatalf("expected reseeded samples after reset, got %+v", list.Summary)
	}
}

func TestRegisterRoutes_IdempotentSubmit_SQLite(t *testing.T) {
	cfg := testConfig()
	cfg.SeedOnEmpty = false
	cfg.RateRPS = 0.001
	cfg.RateBurst = 1
	cfg.IdempotencyTTL = time.Hour
	r := newTestRouter(t, cfg, newSQLiteBackend(t))

	body, _ := json.Marshal(map[string]string{
		"name":        "ShelfSwap",
		"tagline":     "Trade books with neighbours",
		"description": "A neighbourhood book exchange with pickup lockers.",
		"category":    "Other",
	})
	submit := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ideas", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := submit("3f0c9d0e-8a61-4b1e-9d2f-6c5a7b8e9f01")
	if first.Code != http.StatusCreated {
		t.Fatalf("first submit = %d %s", first.Code, first.Body.String())
	}
	// The write bucket is empty now; the replay still gets through.
	again := submit("3f0c9d0e-8a61-4b1e-9d2f-6c5a7b8e9f01")
	if again.Code != http.StatusCreated || again.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("retry = %d %v %s", again.Code, again.Header(), again.Body.String())
	}
	if again.Body.String() != first.Body.String() {
		t.Fatalf("retry body %s, want %s", again.Body.String(), first.Body.String())
	}

	// An unseen key is a new write and is limited.
	if w := submit("another-key"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("new key with empty bucket = %d", w.Code)
	}
	if w := submit("not a valid key"); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid key = %d", w.Code)
	}

	list := decode[struct {
		Ideas []domain.Idea `json:"ideas"`
	}](t, do(t, r, http.MethodGet, "/api/v1/ideas", nil))
	if len(list.Ideas) != 1 || list.Ideas[0].Name != "ShelfSwap" {
		t.Fatalf("collection after retries: %+v", list.Ideas)
	}
}

func TestRegisterRoutes_PreferencesPersist(t *testing.T) {
	b := repo.NewMemoryBackend()
	r := newTestRouter(t, testConfig(), b)

	st := decode[services.AppState](t, do(t, r, http.MethodGet, "/api/v1/preferences", nil))
	if st.Theme != services.ThemeLight || st.Saved {
		t.Fatalf("expected unsaved light default, got %+v", st)
	}

	st = decode[services.AppState](t, do(t, r, http.MethodPost, "/api/v1/preferences/theme/toggle", nil))
	if st.Theme != services.ThemeDark || !st.Saved {
		t.Fatalf("toggle: %+v", st)
	}

	// A fresh router over the same backend sees the saved theme.
	r2 := newTestRouter(t, testConfig(), b)
	st = decode[services.AppState](t, do(t, r2, http.MethodGet, "/api/v1/preferences", nil))
	if st.Theme != services.ThemeDark || !st.Saved {
		t.Fatalf("expected persisted dark theme, got %+v", st)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")) // 12 bytes
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "").GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })
	// non-root prefix
	groupWithPrefix(r, "/api").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		w := do(t, r, http.MethodGet, path, nil)
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, w.Code, w.Body.String())
		}
	}
}

// Smoke test that a request traverses the full middleware pipeline.
func TestPipeline_Smoke(t *testing.T) {
	cfg := testConfig()
	cfg.Security = config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: time.Hour}
	r := newTestRouter(t, cfg, repo.NewMemoryBackend())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("pipeline GET /health = %d", w.Code)
	}
	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Fatalf("expected HSTS on https request")
	}
}
