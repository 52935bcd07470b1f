package password

import (
	"errors"
	"strings"
	"testing"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher()

	hash, err := h.Hash("Secret123!")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected encoding: %s", hash)
	}

	ok, err := h.Verify("Secret123!", hash)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected password to verify")
	}
}

func TestHasher_WrongPassword(t *testing.T) {
	h := NewHasher()

	hash, err := h.Hash("Secret123!")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	ok, err := h.Verify("wrong-password", hash)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if ok {
		t.Fatalf("wrong password must not verify")
	}
}

func TestHasher_FreshSaltPerCall(t *testing.T) {
	h := NewHasher()

	first, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	second, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same password must differ")
	}

	for _, hash := range []string{first, second} {
		ok, err := h.Verify("same-password", hash)
		if err != nil || !ok {
			t.Fatalf("hash %s did not verify: ok=%v err=%v", hash, ok, err)
		}
	}
}

func TestHasher_MalformedHash(t *testing.T) {
	h := NewHasher()

	cases := []string{
		"",
		"not-a-hash",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$ZGlnZXN0",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$ZGlnZXN0",
		"$argon2id$v=19$bogus$c2FsdA$ZGlnZXN0",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$ZGlnZXN0",
	}
	for _, encoded := range cases {
		if _, err := h.Verify("whatever", encoded); !errors.Is(err, ErrMalformedHash) {
			t.Fatalf("expected ErrMalformedHash for %q, got %v", encoded, err)
		}
	}
}
