package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestStore_Allow(t *testing.T) {
	s := NewStore(Config{RequestsPerSecond: 1, Burst: 2, IdleTTL: time.Minute})
	now := time.Now()
	s.now = func() time.Time { return now }

	if !s.Allow("a") || !s.Allow("a") {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if s.Allow("a") {
		t.Error("expected third request to be limited")
	}
	if !s.Allow("b") {
		t.Error("expected other client to have its own bucket")
	}

	now = now.Add(time.Second)
	if !s.Allow("a") {
		t.Error("expected a token after one second")
	}
}

func TestStore_Sweep(t *testing.T) {
	s := NewStore(Config{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute})
	now := time.Now()
	s.now = func() time.Time { return now }

	s.Allow("old")
	now = now.Add(2 * time.Minute)
	s.Allow("fresh")

	if removed := s.Sweep(); removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 limiter left, got %d", s.Len())
	}
}

func TestMiddleware(t *testing.T) {
	s := NewStore(Config{RequestsPerSecond: 0.001, Burst: 1})
	e := echo.New()
	handler := s.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	newCtx := func() echo.Context {
		req := httptest.NewRequest(http.MethodPost, "/offer", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		return e.NewContext(req, httptest.NewRecorder())
	}

	if err := handler(newCtx()); err != nil {
		t.Fatalf("first request: %v", err)
	}

	err := handler(newCtx())
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %v", err)
	}
}
