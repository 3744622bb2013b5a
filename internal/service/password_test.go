package service

import (
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("secret1", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret1" || hash == "" {
		t.Fatalf("expected hash, got %q", hash)
	}
	if !CheckPassword("secret1", hash) {
		t.Fatalf("expected password to verify")
	}
	if CheckPassword("secret2", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := HashPassword("secret1", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := HashPassword("secret1", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct salted hashes")
	}
}

func TestHashPassword_CoercesInvalidCost(t *testing.T) {
	hash, err := HashPassword("secret1", -1)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$10$") {
		t.Fatalf("expected default cost hash, got %q", hash)
	}
}
