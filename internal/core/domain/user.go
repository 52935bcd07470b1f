package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of access tiers shared by every endpoint.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleWinemaker Role = "winemaker"
	RoleWorker    Role = "worker"
)

// Valid reports whether r is one of the known roles. Unknown values coming
// from a request body or a token payload must be rejected, never passed on.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWinemaker, RoleWorker:
		return true
	}
	return false
}

// User models an authenticated actor in the system. PasswordHash is never
// serialized; the struct doubles as the public view of an identity.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
