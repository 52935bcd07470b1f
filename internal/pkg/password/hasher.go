// Package password provides one-way password hashing with argon2id.
//
// Hashes are encoded in the PHC string format
// ($argon2id$v=19$m=MEMORY,t=TIME,p=THREADS$SALT$DIGEST) so every parameter
// needed for verification travels with the hash itself.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash means a stored hash could not be parsed. Callers must
// treat this as a server-side integrity fault, not as a failed password
// check: a database row with a broken hash is a bug, not a bad login.
var ErrMalformedHash = errors.New("password: malformed hash encoding")

// Hasher derives salted argon2id digests. The zero value is not usable;
// construct with NewHasher.
type Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

// NewHasher returns a Hasher with OWASP-recommended parameters
// (t=1, m=64MB, p=4).
func NewHasher() *Hasher {
	return &Hasher{
		time:    1,
		memory:  64 * 1024,
		threads: 4,
		keyLen:  32,
		saltLen: 16,
	}
}

// Hash derives a salted digest of password. A fresh random salt is generated
// on every call, so hashing the same password twice yields different strings.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
	return encoded, nil
}

// Verify recomputes the digest of password using the parameters and salt
// carried inside encodedHash and compares in constant time. It returns
// (false, nil) on a mismatch and ErrMalformedHash when encodedHash is not a
// parseable argon2id encoding.
func (h *Hasher) Verify(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, ErrMalformedHash
	}
	if version != argon2.Version {
		return false, ErrMalformedHash
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, ErrMalformedHash
	}

	digest := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(expected)))

	return subtle.ConstantTimeCompare(digest, expected) == 1, nil
}
