package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/contact-enricher/internal/dto"
	"github.com/octobees/contact-enricher/internal/enrichment"
	middlewarepkg "github.com/octobees/contact-enricher/internal/middleware"
	"github.com/octobees/contact-enricher/internal/service"
)

// EnrichmentService is what the enrichment endpoints need from the service layer.
type EnrichmentService interface {
	BulkEnrich(ctx context.Context, ownerID string, req dto.BulkEnrichRequest) (*enrichment.BatchResult, error)
	ContactStatus(ctx context.Context, ownerID, contactID string) (*dto.EnrichmentStatusResponse, error)
}

// EnrichmentHandler exposes the bulk enrichment job.
type EnrichmentHandler struct {
	svc EnrichmentService
	log *zap.Logger
}

// NewEnrichmentHandler constructs an EnrichmentHandler.
func NewEnrichmentHandler(svc EnrichmentService, logger *zap.Logger) *EnrichmentHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &EnrichmentHandler{svc: svc, log: logger}
}

// BulkEnrich handles POST /bulk-enrich. The body and the response are the bare batch
// contract, without the shared envelope, so existing callers can keep paging on last_id.
func (h *EnrichmentHandler) BulkEnrich(c echo.Context) error {
	ownerID := middlewarepkg.UserIDFromContext(c)
	if ownerID == "" {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.BulkEnrichRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid payload")
	}
	req.LastID = strings.TrimSpace(req.LastID)

	res, err := h.svc.BulkEnrich(c.Request().Context(), ownerID, req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownService) {
			return Fail(c, http.StatusBadRequest, err.Error())
		}
		h.log.Error("bulk enrich failed",
			zap.String("request_id", middlewarepkg.RequestIDFromContext(c)),
			zap.String("owner_id", ownerID),
			zap.String("last_id", req.LastID),
			zap.Error(err),
		)
		return Fail(c, http.StatusInternalServerError, "unable to load enrichment candidates")
	}

	return c.JSON(http.StatusOK, res)
}

// Status handles GET /contacts/:id/enrichment requests.
func (h *EnrichmentHandler) Status(c echo.Context) error {
	ownerID := middlewarepkg.UserIDFromContext(c)
	if ownerID == "" {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	contactID := strings.TrimSpace(c.Param("id"))
	if contactID == "" {
		return Error(c, http.StatusBadRequest, "contact id is required")
	}

	status, err := h.svc.ContactStatus(c.Request().Context(), ownerID, contactID)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			return Error(c, http.StatusNotFound, "contact not found")
		}
		h.log.Error("load enrichment status failed", zap.String("contact_id", contactID), zap.Error(err))
		return Error(c, http.StatusInternalServerError, "unable to load enrichment status")
	}

	return Success(c, http.StatusOK, "", status)
}
