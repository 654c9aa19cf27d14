package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/contact-enricher/internal/auth"
	"github.com/octobees/contact-enricher/internal/config"
	"github.com/octobees/contact-enricher/internal/handler"
)

func TestRegister(t *testing.T) {
	e := echo.New()
	cfg := &config.Config{RateLimitEnrich: config.RateLimitConfig{Requests: 10, Interval: time.Minute}}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	Register(e, cfg, jwtManager, Handlers{
		Auth:       handler.NewAuthHandler(nil, nil),
		Enrichment: handler.NewEnrichmentHandler(nil, nil),
		Health:     handler.NewHealthHandler(nil, nil),
	})

	want := map[string]bool{
		http.MethodGet + " /healthz":                 false,
		http.MethodPost + " /auth/register":          false,
		http.MethodPost + " /auth/login":             false,
		http.MethodPost + " /bulk-enrich":            false,
		http.MethodGet + " /contacts/:id/enrichment": false,
	}
	for _, r := range e.Routes() {
		key := r.Method + " " + r.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for key, seen := range want {
		if !seen {
			t.Fatalf("route %s not registered", key)
		}
	}

	t.Run("bulk enrich requires token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/bulk-enrich", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("healthz is public", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
