package service

import (
	"errors"
	"testing"
	"time"
)

func TestTokenService_IssueParse(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.AccountID != 42 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenService_RejectsExpired(t *testing.T) {
	expired := &TokenService{secret: []byte("secret"), ttl: -time.Minute, issuer: "accounts-api"}
	token, err := expired.Issue(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc := NewTokenService("secret", time.Hour)
	if _, err := svc.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	other := NewTokenService("other-secret", time.Hour)
	token, err := other.Issue(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc := NewTokenService("secret", time.Hour)
	if _, err := svc.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_RejectsMalformed(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	for _, token := range []string{"", "   ", "not-a-jwt", "a.b.c"} {
		if _, err := svc.Parse(token); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid for %q, got %v", token, err)
		}
	}
}
