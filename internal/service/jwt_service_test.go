package service

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTService_IssueParseRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", false)

	token, err := svc.Issue("u1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	userID, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("expected user id u1, got %q", userID)
	}
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	svc := NewJWTService("secret", false)
	token, err := svc.Issue("u1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	raw := []byte(token)
	mid := len(raw) / 2
	if raw[mid] == 'A' {
		raw[mid] = 'B'
	} else {
		raw[mid] = 'A'
	}

	if _, err := svc.Parse(string(raw)); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for tampered token, got %v", err)
	}
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", false)
	now := time.Now().UTC()
	claims := Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "chatly",
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-24 * time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Parse(signed); !errors.Is(err, ErrJWTExpired) {
		t.Fatalf("expected ErrJWTExpired, got %v", err)
	}
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", false)
	verifier := NewJWTService("secret-b", false)

	token, err := issuer.Issue("u1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := verifier.Parse(token); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid across secrets, got %v", err)
	}
}

func TestJWTService_RejectsWrongIssuer(t *testing.T) {
	svc := NewJWTService("secret", false)
	now := time.Now().UTC()
	claims := Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "other-issuer",
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Parse(signed); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for wrong issuer, got %v", err)
	}
}

func TestJWTService_RejectsEmptySecret(t *testing.T) {
	svc := NewJWTService("", false)
	if _, err := svc.Issue("u1"); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid on empty secret, got %v", err)
	}
}

func TestJWTService_SessionCookieAttributes(t *testing.T) {
	svc := NewJWTService("secret", true)
	cookie := svc.SessionCookie("tok")

	if cookie.Name != SessionCookieName {
		t.Fatalf("expected cookie name %q, got %q", SessionCookieName, cookie.Name)
	}
	if cookie.Value != "tok" {
		t.Fatalf("unexpected cookie value %q", cookie.Value)
	}
	if cookie.MaxAge != int(sessionTTL.Seconds()) {
		t.Fatalf("expected 7 day max-age, got %d", cookie.MaxAge)
	}
	if !cookie.HttpOnly {
		t.Fatalf("expected HttpOnly cookie")
	}
	if !cookie.Secure {
		t.Fatalf("expected Secure cookie outside development")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("expected SameSite=Strict")
	}
}

func TestJWTService_SessionCookieInsecureInDevelopment(t *testing.T) {
	svc := NewJWTService("secret", false)
	if svc.SessionCookie("tok").Secure {
		t.Fatalf("expected insecure cookie in development")
	}
}

func TestJWTService_ExpiredCookieClearsSession(t *testing.T) {
	svc := NewJWTService("secret", true)
	cookie := svc.ExpiredCookie()

	if cookie.Name != SessionCookieName {
		t.Fatalf("expected cookie name %q, got %q", SessionCookieName, cookie.Name)
	}
	if cookie.Value != "" {
		t.Fatalf("expected empty cookie value")
	}
	// MaxAge < 0 serializa Max-Age=0: expiracion inmediata en el cliente.
	if cookie.MaxAge >= 0 {
		t.Fatalf("expected negative max-age, got %d", cookie.MaxAge)
	}
}
