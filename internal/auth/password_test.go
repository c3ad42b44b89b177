package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Sup3rSecret!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "Sup3rSecret!" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected bcrypt hash prefix, got %q", hash[:4])
	}

	if !CheckPassword("Sup3rSecret!", hash) {
		t.Error("expected password to verify against its own hash")
	}

	if CheckPassword("wrong-password", hash) {
		t.Error("expected wrong password to fail verification")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("Sup3rSecret!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	h2, err := HashPassword("Sup3rSecret!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if h1 == h2 {
		t.Error("expected distinct hashes for the same password")
	}

	if !CheckPassword("Sup3rSecret!", h1) || !CheckPassword("Sup3rSecret!", h2) {
		t.Error("expected both hashes to verify")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"garbage", "not-a-bcrypt-hash"},
		{"truncated", "$2a$10$abc"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if CheckPassword("Sup3rSecret!", tt.hash) {
				t.Error("expected malformed hash to fail verification")
			}
		})
	}
}
