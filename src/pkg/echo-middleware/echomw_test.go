package echomw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newTestEcho(middlewares ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, middlewares...)
	return e
}

func request(e *echo.Echo, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireBearerToken(t *testing.T) {
	e := newTestEcho(RequireBearerToken("secret"))

	cases := []struct {
		authorization string
		status        int
	}{
		{"Bearer secret", http.StatusOK},
		{"bearer   secret  ", http.StatusOK},
		{"Bearer wrong", http.StatusUnauthorized},
		{"Basic secret", http.StatusUnauthorized},
		{"Bearer ", http.StatusUnauthorized},
		{"", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		rec := request(e, tc.authorization)
		if rec.Code != tc.status {
			t.Fatalf("%q: status %d, want %d", tc.authorization, rec.Code, tc.status)
		}
		if tc.status == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
			t.Fatalf("%q: missing WWW-Authenticate", tc.authorization)
		}
	}
}

func TestRequireBearerTokenFailsClosed(t *testing.T) {
	e := newTestEcho(RequireBearerToken(""))
	if rec := request(e, "Bearer "); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d", rec.Code)
	}
	if rec := request(e, "Bearer anything"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestBearerTokenFromEnv(t *testing.T) {
	t.Setenv(EnvBearerToken, "  token  ")
	if got := BearerTokenFromEnv(); got != "token" {
		t.Fatalf("got %q", got)
	}
}

func TestRateLimiterBurstAndRefill(t *testing.T) {
	limiter := NewRateLimiter(Config{RateLimit: 1, Burst: 2, LimiterIdleMs: 60_000})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	if !limiter.Allow("1.2.3.4") || !limiter.Allow("1.2.3.4") {
		t.Fatal("burst must be allowed")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatal("third request must be limited")
	}
	if !limiter.Allow("5.6.7.8") {
		t.Fatal("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if !limiter.Allow("1.2.3.4") {
		t.Fatal("one token refills per second")
	}
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(Config{RateLimit: 1, Burst: 1, LimiterIdleMs: 1000})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("1.2.3.4")
	now = now.Add(2 * time.Second)
	limiter.Allow("5.6.7.8")

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if _, ok := limiter.clients["1.2.3.4"]; ok {
		t.Fatal("idle client must be dropped")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	limiter := NewRateLimiter(Config{RateLimit: 0.001, Burst: 1, LimiterIdleMs: 60_000})
	e := newTestEcho(limiter.Middleware)

	if rec := request(e, ""); rec.Code != http.StatusOK {
		t.Fatalf("first: %d", rec.Code)
	}
	if rec := request(e, ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second: %d", rec.Code)
	}
}
