// Package token signs and verifies the session tokens shared by every
// winery service. All services in the deployment use the same HS256 secret;
// a token minted by one is accepted by all.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vinealabs/winery-system/internal/core/domain"
)

var (
	// ErrInvalid covers bad signatures, unparseable tokens and missing
	// claim fields. Reported to callers with the same message as ErrExpired
	// so the response never reveals which check failed.
	ErrInvalid = errors.New("token: invalid")
	// ErrExpired means the signature verified but the validity window has
	// passed.
	ErrExpired = errors.New("token: expired")
	// ErrMalformedSubject means the subject claim is not a valid user id.
	// Still a 401 to the caller, but logged distinctly: a well-signed token
	// with a broken subject points at a bug in the issuer.
	ErrMalformedSubject = errors.New("token: malformed subject")
)

// Claims is the signed payload identifying a user, their role and the token
// validity window.
type Claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// New builds Claims for userID with expiry issuedAt + ttlHours.
func New(userID uuid.UUID, email string, role domain.Role, issuedAt time.Time, ttlHours int) *Claims {
	return &Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Duration(ttlHours) * time.Hour)),
		},
	}
}

// UserID decodes the subject claim into the identity store's key type.
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrMalformedSubject, c.Subject)
	}
	return id, nil
}

// Encode signs the claims with secret and returns the compact token string.
func Encode(claims *Claims, secret string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry of tokenString against secret and
// returns the embedded claims. Failures are ErrExpired when the validity
// window has passed and ErrInvalid for everything else.
func Decode(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !parsed.Valid {
		return nil, ErrInvalid
	}
	if claims.Subject == "" || claims.ExpiresAt == nil || !claims.Role.Valid() {
		return nil, ErrInvalid
	}
	return claims, nil
}
