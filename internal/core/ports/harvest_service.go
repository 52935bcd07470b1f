package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vinealabs/winery-system/internal/core/domain"
)

type CreateHarvestInput struct {
	VineyardID       uuid.UUID
	HarvestDate      time.Time
	QuantityKg       float64
	SugarContentBrix *float64
	AcidityPH        *float64
	QualityNotes     string
}

// UpdateHarvestInput patches a harvest; nil fields are left untouched.
type UpdateHarvestInput struct {
	HarvestDate      *time.Time
	QuantityKg       *float64
	SugarContentBrix *float64
	AcidityPH        *float64
	QualityNotes     *string
}

type HarvestService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateHarvestInput) (*domain.Harvest, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Harvest, error)
	List(ctx context.Context, actor domain.Actor) ([]domain.Harvest, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, in UpdateHarvestInput) (*domain.Harvest, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}
