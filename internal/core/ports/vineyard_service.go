package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vinealabs/winery-system/internal/core/domain"
)

type CreateVineyardInput struct {
	Name         string
	Location     string
	AreaHectares float64
	GrapeVariety string
}

// UpdateVineyardInput patches a vineyard; nil fields are left untouched.
type UpdateVineyardInput struct {
	Name         *string
	Location     *string
	AreaHectares *float64
	GrapeVariety *string
}

type VineyardService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateVineyardInput) (*domain.Vineyard, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Vineyard, error)
	List(ctx context.Context, actor domain.Actor) ([]domain.Vineyard, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, in UpdateVineyardInput) (*domain.Vineyard, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}
