package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/contact-enricher/internal/auth"
	"github.com/octobees/contact-enricher/internal/dto"
	middlewarepkg "github.com/octobees/contact-enricher/internal/middleware"
	"github.com/octobees/contact-enricher/internal/service"
)

// Authenticator issues bearer tokens for operators.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, email, password string) (string, error)
}

// TokenInspector reads back the claims of an issued token.
type TokenInspector interface {
	ParseToken(token string) (*auth.Claims, error)
}

// AuthHandler exposes the endpoints that hand out the token /bulk-enrich requires.
type AuthHandler struct {
	auth   Authenticator
	tokens TokenInspector
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authenticator Authenticator, tokens TokenInspector) *AuthHandler {
	return &AuthHandler{auth: authenticator, tokens: tokens}
}

// Register handles POST /auth/register requests.
func (h *AuthHandler) Register(c echo.Context) error {
	email, password, ok := h.bindCredentials(c)
	if !ok {
		return nil
	}

	token, err := h.auth.Register(c.Request().Context(), email, password)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			return Error(c, http.StatusConflict, "email already exists")
		}
		zap.L().Error("register failed", zap.String("request_id", middlewarepkg.RequestIDFromContext(c)), zap.Error(err))
		return Error(c, http.StatusInternalServerError, "unable to register user")
	}

	return h.issue(c, http.StatusCreated, "registration successful", token)
}

// Login handles POST /auth/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	email, password, ok := h.bindCredentials(c)
	if !ok {
		return nil
	}

	token, err := h.auth.Login(c.Request().Context(), email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		zap.L().Error("login failed", zap.String("request_id", middlewarepkg.RequestIDFromContext(c)), zap.Error(err))
		return Error(c, http.StatusInternalServerError, "unable to authenticate")
	}

	return h.issue(c, http.StatusOK, "login successful", token)
}

// bindCredentials writes the 400 response itself and reports false when the body is unusable.
func (h *AuthHandler) bindCredentials(c echo.Context) (string, string, bool) {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		_ = Error(c, http.StatusBadRequest, "invalid payload")
		return "", "", false
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		_ = Error(c, http.StatusBadRequest, "email and password are required")
		return "", "", false
	}
	return email, req.Password, true
}

func (h *AuthHandler) issue(c echo.Context, status int, message, token string) error {
	resp := dto.LoginResponse{AccessToken: token, TokenType: "Bearer"}
	if h.tokens != nil {
		claims, err := h.tokens.ParseToken(token)
		if err != nil {
			zap.L().Error("issued token does not verify", zap.Error(err))
			return Error(c, http.StatusInternalServerError, "unable to issue token")
		}
		resp.UserID = claims.Subject
		if claims.ExpiresAt != nil {
			resp.ExpiresAt = claims.ExpiresAt.Time
		}
	}
	return Success(c, status, message, resp)
}
