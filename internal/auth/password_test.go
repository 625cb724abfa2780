package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// Tests use bcrypt.MinCost — the logic being tested doesn't depend on the
// work factor, and cost 12 would add ~250ms per hash.

func TestHashAndVerify_RoundTrip(t *testing.T) {
	ps := NewPasswordServiceForTest(bcrypt.MinCost)

	hash, err := ps.Hash("pw123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "pw123" {
		t.Fatal("Hash() returned the plaintext")
	}

	if err := ps.Verify(hash, "pw123"); err != nil {
		t.Errorf("Verify() with correct password = %v, want nil", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := NewPasswordServiceForTest(bcrypt.MinCost)

	hash, err := ps.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "wrong-password"); err == nil {
		t.Error("Verify() with wrong password should fail")
	}
}

func TestHash_SamePasswordDifferentHashes(t *testing.T) {
	ps := NewPasswordServiceForTest(bcrypt.MinCost)

	h1, _ := ps.Hash("same-password")
	h2, _ := ps.Hash("same-password")

	// Per-password random salt means identical inputs never collide.
	if h1 == h2 {
		t.Error("two hashes of the same password should differ")
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	ps := NewPasswordServiceForTest(bcrypt.MinCost)

	_, err := ps.Hash(strings.Repeat("x", 73))
	if err == nil {
		t.Error("Hash() should reject passwords longer than 72 bytes")
	}
}

func TestVerify_GarbageHash(t *testing.T) {
	ps := NewPasswordServiceForTest(bcrypt.MinCost)

	if err := ps.Verify("not-a-bcrypt-hash", "whatever"); err == nil {
		t.Error("Verify() with a garbage hash should fail")
	}
}
