package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTManager_GenerateAndParse(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)
	token, err := manager.GenerateToken("user-1", "user@example.com", "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "user@example.com" || claims.Role != "admin" || claims.Issuer != Issuer {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := manager.ParseToken(token + "tampered"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
	if _, err := NewJWTManager("other", time.Hour).ParseToken(token); err == nil {
		t.Fatalf("expected parse error for foreign secret")
	}
}

func TestJWTManager_Expired(t *testing.T) {
	manager := NewJWTManager("secret", time.Minute)
	manager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := manager.GenerateToken("user-1", "user@example.com", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	manager.now = time.Now
	if _, err := manager.ParseToken(token); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestJWTManager_RejectsForeignIssuer(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewJWTManager("secret", time.Hour).ParseToken(token); err == nil {
		t.Fatalf("expected issuer mismatch error")
	}
}

func TestJWTManager_EmptySecretOrSubject(t *testing.T) {
	if _, err := NewJWTManager("", time.Hour).GenerateToken("user", "user@example.com", "user"); err == nil {
		t.Fatalf("expected error when secret is empty")
	}
	if _, err := NewJWTManager("secret", time.Hour).GenerateToken("", "user@example.com", "user"); err == nil {
		t.Fatalf("expected error when subject is empty")
	}
}
