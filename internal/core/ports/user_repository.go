package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vinealabs/winery-system/internal/core/domain"
)

// UserRepository defines the interface for identity persistence. Each call is
// transactionally consistent on its own; callers never compose transactions.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName *string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
