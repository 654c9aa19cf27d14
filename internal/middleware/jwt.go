package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	authpkg "github.com/octobees/contact-enricher/internal/auth"
	"github.com/octobees/contact-enricher/internal/dto"
)

// JWT validates bearer tokens and stores user metadata in the request context.
// Failures answer 401 with {"error": ...} before any handler work happens.
func JWT(manager *authpkg.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "missing authorization header"})
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid authorization header"})
			}

			claims, err := manager.ParseToken(strings.TrimSpace(parts[1]))
			if err != nil {
				zap.L().Debug("rejecting bearer token",
					zap.String("request_id", RequestIDFromContext(c)),
					zap.Error(err),
				)
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid token"})
			}

			c.Set(ContextKeyUserID, claims.Subject)
			c.Set(ContextKeyUserEmail, claims.Email)
			c.Set(ContextKeyUserRole, claims.Role)

			return next(c)
		}
	}
}
