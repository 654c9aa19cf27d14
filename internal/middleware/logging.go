package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Logging writes one structured line per HTTP request. A nil logger uses the zap global.
func Logging(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			l := logger
			if l == nil {
				l = zap.L()
			}
			fields := []zap.Field{
				zap.String("request_id", RequestIDFromContext(c)),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", latency),
			}
			if uid := UserIDFromContext(c); uid != "" {
				fields = append(fields, zap.String("user_id", uid))
			}

			switch {
			case err != nil:
				l.Error("request failed", append(fields, zap.Error(err))...)
			case c.Response().Status >= 500:
				l.Warn("request", fields...)
			default:
				l.Info("request", fields...)
			}

			return err
		}
	}
}
