package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vinealabs/winery-system/internal/core/domain"
)

type CreateTankInput struct {
	Name           string
	CapacityLiters float64
	Material       domain.TankMaterial
	Location       string
}

// UpdateTankInput patches a tank; nil fields are left untouched.
type UpdateTankInput struct {
	Name           *string
	CapacityLiters *float64
	Material       *domain.TankMaterial
	Status         *domain.TankStatus
	Location       *string
}

type CreateBatchInput struct {
	TankID            uuid.UUID
	HarvestID         *uuid.UUID
	Name              string
	GrapeVariety      string
	VolumeLiters      float64
	TargetTemperature *float64
	InitialBrix       *float64
}

// UpdateBatchInput patches a batch; nil fields are left untouched.
type UpdateBatchInput struct {
	Name              *string
	Status            *domain.BatchStatus
	TargetTemperature *float64
	InitialBrix       *float64
}

type AddReadingInput struct {
	TemperatureCelsius float64
	Density            *float64
	PH                 *float64
	RecordedAt         time.Time
}

// SensorReadingInput is a measurement pushed by a tank sensor through the
// public IoT endpoint. It carries its own timestamp because sensors buffer
// and retry.
type SensorReadingInput struct {
	BatchID            uuid.UUID
	TemperatureCelsius float64
	Density            *float64
	PH                 *float64
	RecordedAt         time.Time
}

type FermentationService interface {
	CreateTank(ctx context.Context, in CreateTankInput) (*domain.Tank, error)
	GetTank(ctx context.Context, id uuid.UUID) (*domain.Tank, error)
	ListTanks(ctx context.Context) ([]domain.Tank, error)
	UpdateTank(ctx context.Context, id uuid.UUID, in UpdateTankInput) (*domain.Tank, error)
	DeleteTank(ctx context.Context, id uuid.UUID) error

	CreateBatch(ctx context.Context, actor domain.Actor, in CreateBatchInput) (*domain.Batch, error)
	GetBatch(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
	ListBatches(ctx context.Context, activeOnly bool) ([]domain.Batch, error)
	UpdateBatch(ctx context.Context, actor domain.Actor, id uuid.UUID, in UpdateBatchInput) (*domain.Batch, error)
	DeleteBatch(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	GetBatchStats(ctx context.Context, id uuid.UUID) (*domain.BatchStats, error)

	AddReading(ctx context.Context, batchID uuid.UUID, in AddReadingInput) (*domain.Reading, error)
	ListReadings(ctx context.Context, batchID uuid.UUID, limit int64) ([]domain.Reading, error)
	DeleteReading(ctx context.Context, actor domain.Actor, batchID, readingID uuid.UUID) error
}

// ReadingProcessor consumes sensor readings dequeued by the dispatcher.
type ReadingProcessor interface {
	Process(ctx context.Context, in SensorReadingInput) error
}
