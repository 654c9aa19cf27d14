package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/contact-enricher/internal/config"
	"github.com/octobees/contact-enricher/internal/dto"
)

// RouteRateLimiter applies a token bucket per caller to requests on path.
// Callers are keyed by authenticated user id, falling back to the client IP.
func RouteRateLimiter(path string, cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() != path {
				return next(c)
			}

			key := UserIDFromContext(c)
			if key == "" {
				key = "ip:" + c.RealIP()
			}

			mu.Lock()
			limiter, ok := limiters[key]
			if !ok {
				limiter = rate.NewLimiter(rate.Every(perRequest), cfg.Requests)
				limiters[key] = limiter
			}
			allowed := limiter.Allow()
			mu.Unlock()

			if !allowed {
				return c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "rate limit exceeded"})
			}

			return next(c)
		}
	}
}
