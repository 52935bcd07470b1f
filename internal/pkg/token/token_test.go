package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vinealabs/winery-system/internal/core/domain"
)

const testSecret = "test-secret"

func TestEncodeDecode_RoundTrip(t *testing.T) {
	userID := uuid.New()
	issued := time.Now().UTC().Truncate(time.Second)

	claims := New(userID, "alice@example.com", domain.RoleWinemaker, issued, 24)

	signed, err := Encode(claims, testSecret)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	decoded, err := Decode(signed, testSecret)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	if decoded.Subject != userID.String() {
		t.Fatalf("subject mismatch: got %s want %s", decoded.Subject, userID)
	}
	if decoded.Email != "alice@example.com" {
		t.Fatalf("email mismatch: got %s", decoded.Email)
	}
	if decoded.Role != domain.RoleWinemaker {
		t.Fatalf("role must round-trip exactly: got %s", decoded.Role)
	}
	if !decoded.ExpiresAt.Time.Equal(issued.Add(24 * time.Hour)) {
		t.Fatalf("unexpected expiry: %v", decoded.ExpiresAt.Time)
	}
	if !decoded.IssuedAt.Time.Equal(issued) {
		t.Fatalf("unexpected issued-at: %v", decoded.IssuedAt.Time)
	}

	id, err := decoded.UserID()
	if err != nil {
		t.Fatalf("UserID returned error: %v", err)
	}
	if id != userID {
		t.Fatalf("user id mismatch: got %s want %s", id, userID)
	}
}

func TestDecode_WrongSecret(t *testing.T) {
	claims := New(uuid.New(), "bob@example.com", domain.RoleWorker, time.Now(), 1)
	signed, err := Encode(claims, testSecret)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	decoded, err := Decode(signed, "another-secret")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if decoded != nil {
		t.Fatalf("no partial claims on failure, got %+v", decoded)
	}
}

func TestDecode_Expired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	claims := New(uuid.New(), "carol@example.com", domain.RoleAdmin, issued, 1)
	signed, err := Encode(claims, testSecret)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	if _, err := Decode(signed, testSecret); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestDecode_Truncated(t *testing.T) {
	claims := New(uuid.New(), "dave@example.com", domain.RoleWorker, time.Now(), 1)
	signed, err := Encode(claims, testSecret)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	if _, err := Decode(signed[:len(signed)-1], testSecret); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for truncated token, got %v", err)
	}
	if _, err := Decode("not-a-token", testSecret); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for garbage, got %v", err)
	}
}

func TestDecode_UnknownRole(t *testing.T) {
	claims := &Claims{
		Email: "eve@example.com",
		Role:  "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := Encode(claims, testSecret)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	if _, err := Decode(signed, testSecret); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for unknown role, got %v", err)
	}
}

func TestClaims_MalformedSubject(t *testing.T) {
	claims := &Claims{
		Email: "mallory@example.com",
		Role:  domain.RoleWorker,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	if _, err := claims.UserID(); !errors.Is(err, ErrMalformedSubject) {
		t.Fatalf("expected ErrMalformedSubject, got %v", err)
	}
}
