package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vinealabs/winery-system/internal/core/domain"
)

type HarvestRepository interface {
	Create(ctx context.Context, h *domain.Harvest) (*domain.Harvest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Harvest, error)
	List(ctx context.Context) ([]domain.Harvest, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]domain.Harvest, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateHarvestInput) (*domain.Harvest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
