package cache

import (
	"testing"
)

func TestHashToken_Deterministic(t *testing.T) {
	t.Parallel()

	token := "eyJhbGciOiJIUzI1NiJ9.payload.sig"

	hash1 := hashToken(token)
	hash2 := hashToken(token)

	if hash1 != hash2 {
		t.Error("Same token should produce same hash")
	}
}

func TestHashToken_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{"jwt-like", "eyJhbGciOiJIUzI1NiJ9.abc.def"},
		{"short", "x"},
		{"empty", ""},
		{"ip address", "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash := hashToken(tt.token)
			// hashToken uses first 16 bytes of SHA256, encoded as 32 hex chars
			if len(hash) != 32 {
				t.Errorf("hashToken(%q) length = %d, want 32", tt.token, len(hash))
			}
		})
	}
}

func TestHashToken_Different(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		token1 string
		token2 string
	}{
		{"different tokens", "token-a", "token-b"},
		{"case sensitive", "Token", "token"},
		{"prefix", "abc", "abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash1 := hashToken(tt.token1)
			hash2 := hashToken(tt.token2)

			if hash1 == hash2 {
				t.Errorf("Different tokens should produce different hashes: %q and %q both produced %s", tt.token1, tt.token2, hash1)
			}
		})
	}
}
