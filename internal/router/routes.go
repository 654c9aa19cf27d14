package router

import (
	"github.com/labstack/echo/v4"

	"github.com/octobees/contact-enricher/internal/auth"
	"github.com/octobees/contact-enricher/internal/config"
	"github.com/octobees/contact-enricher/internal/handler"
	middlewarepkg "github.com/octobees/contact-enricher/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth       *handler.AuthHandler
	Enrichment *handler.EnrichmentHandler
	Health     *handler.HealthHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", handlers.Health.Check)

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.POST("/bulk-enrich", handlers.Enrichment.BulkEnrich, middlewarepkg.RouteRateLimiter("/bulk-enrich", cfg.RateLimitEnrich))
	secured.GET("/contacts/:id/enrichment", handlers.Enrichment.Status)
}
