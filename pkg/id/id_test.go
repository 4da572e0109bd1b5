package id

import (
	"strings"
	"testing"
)

func TestGetUUID(t *testing.T) {
	id := GetUUID()
	if len(id) != 36 {
		t.Errorf("expected 36 chars, got %d", len(id))
	}
}

func TestGetUUIDWithoutDashes(t *testing.T) {
	id := GetUUIDWithoutDashes()
	if len(id) != 32 {
		t.Errorf("expected 32 chars, got %d", len(id))
	}
	if strings.Contains(id, "-") {
		t.Errorf("expected no dashes, got %s", id)
	}
}

func TestGetSecureToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GetSecureToken(32)
		if err != nil {
			t.Fatalf("GetSecureToken error: %v", err)
		}
		// 32 bytes base64url -> 43 chars, no padding
		if len(token) != 43 {
			t.Errorf("expected 43 chars, got %d", len(token))
		}
		if strings.ContainsAny(token, "+/=") {
			t.Errorf("token is not URL safe: %s", token)
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}
