package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func ctxFor(method, remote string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(method, "/api/v1/ideas", nil)
	c.Request.RemoteAddr = net.JoinHostPort(remote, "40000")
	return c
}

func TestKeyFuncs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	if got := KeyByClientIP()(ctxFor(http.MethodPost, "203.0.113.9")); got != "ip:203.0.113.9" {
		t.Fatalf("KeyByClientIP = %q", got)
	}

	byAccess := KeyByClientIPAndAccess()
	cases := map[string]string{
		http.MethodGet:     "ip:198.51.100.4:read",
		http.MethodHead:    "ip:198.51.100.4:read",
		http.MethodOptions: "ip:198.51.100.4:read",
		http.MethodPost:    "ip:198.51.100.4:write",
		http.MethodPut:     "ip:198.51.100.4:write",
		http.MethodDelete:  "ip:198.51.100.4:write",
	}
	for method, want := range cases {
		if got := byAccess(ctxFor(method, "198.51.100.4")); got != want {
			t.Errorf("%s: key = %q, want %q", method, got, want)
		}
	}
}

func TestLimiterFor_ReuseAndSweep(t *testing.T) {
	rl := NewRateLimiter(2, -3, KeyByClientIP())
	if rl.burst != 1 {
		t.Fatalf("burst = %d, want 1", rl.burst)
	}

	a := rl.limiterFor("a")
	if rl.limiterFor("a") != a {
		t.Fatal("bucket not reused")
	}

	rl.mu.Lock()
	rl.buckets["stale"] = &bucket{limiter: rate.NewLimiter(1, 1), lastSeen: time.Now().Add(-2 * idleTTL)}
	rl.lookups = sweepEvery - 1
	rl.mu.Unlock()

	rl.limiterFor("b")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.buckets["stale"]; ok {
		t.Fatal("idle bucket survived the sweep")
	}
	if _, ok := rl.buckets["a"]; !ok {
		t.Fatal("recent bucket was swept")
	}
	if rl.lookups != 0 {
		t.Fatalf("lookups = %d after sweep", rl.lookups)
	}
}

func TestRetryAfter(t *testing.T) {
	for _, tc := range []struct {
		rps  float64
		want string
	}{
		{10, "1"},
		{1, "1"},
		{0.5, "2"},
		{0.3, "4"},
		{0, "60"},
	} {
		if got := NewRateLimiter(tc.rps, 1, KeyByClientIP()).retryAfter(); got != tc.want {
			t.Errorf("rps %v: Retry-After = %q, want %q", tc.rps, got, tc.want)
		}
	}
}

func TestIsRateBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := ctxFor(http.MethodGet, "192.0.2.1")

	if IsRateBypass(c) {
		t.Fatal("bypass set on a fresh context")
	}
	c.Set(ctxKeyRateBypass, true)
	if !IsRateBypass(c) {
		t.Fatal("bypass not reported")
	}
	c.Set(ctxKeyRateBypass, "true")
	if IsRateBypass(c) {
		t.Fatal("non-bool value read as bypass")
	}
}

func TestRateLimiter_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(0.5, 1, KeyByClientIPAndAccess())

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Header(requestIDHeader, "rid-42"); c.Next() })
	r.Use(Exempt("/health", ""))
	r.Use(rl.Handler())
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/health", ok)
	r.GET("/ideas", ok)
	r.POST("/ideas/:id/vote", ok)

	send := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	if w := send(http.MethodGet, "/ideas"); w.Code != http.StatusNoContent {
		t.Fatalf("first read = %d", w.Code)
	}
	w := send(http.MethodGet, "/ideas")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second read = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("Retry-After = %q", got)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["code"] != "rate_limited" || body["request_id"] != "rid-42" || body["message"] != "rate limit exceeded" {
		t.Fatalf("body = %v", body)
	}

	if w := send(http.MethodPost, "/ideas/x/vote"); w.Code != http.StatusNoContent {
		t.Fatalf("write after drained reads = %d", w.Code)
	}
	if w := send(http.MethodPost, "/ideas/x/vote"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second write = %d, want 429", w.Code)
	}

	for i := range 3 {
		if w := send(http.MethodGet, "/health"); w.Code != http.StatusNoContent {
			t.Fatalf("exempt request %d = %d", i, w.Code)
		}
	}
}
