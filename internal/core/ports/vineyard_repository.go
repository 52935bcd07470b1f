package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vinealabs/winery-system/internal/core/domain"
)

type VineyardRepository interface {
	Create(ctx context.Context, v *domain.Vineyard) (*domain.Vineyard, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Vineyard, error)
	List(ctx context.Context) ([]domain.Vineyard, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Vineyard, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateVineyardInput) (*domain.Vineyard, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
