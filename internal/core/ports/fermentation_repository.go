package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vinealabs/winery-system/internal/core/domain"
)

type FermentationRepository interface {
	CreateTank(ctx context.Context, t *domain.Tank) (*domain.Tank, error)
	FindTankByID(ctx context.Context, id uuid.UUID) (*domain.Tank, error)
	ListTanks(ctx context.Context) ([]domain.Tank, error)
	UpdateTank(ctx context.Context, id uuid.UUID, in UpdateTankInput) (*domain.Tank, error)
	DeleteTank(ctx context.Context, id uuid.UUID) error

	CreateBatch(ctx context.Context, b *domain.Batch) (*domain.Batch, error)
	FindBatchByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
	ListBatches(ctx context.Context) ([]domain.Batch, error)
	ListActiveBatches(ctx context.Context) ([]domain.Batch, error)
	UpdateBatch(ctx context.Context, id uuid.UUID, in UpdateBatchInput) (*domain.Batch, error)
	DeleteBatch(ctx context.Context, id uuid.UUID) error

	InsertReading(ctx context.Context, r *domain.Reading) (*domain.Reading, error)
	ListReadings(ctx context.Context, batchID uuid.UUID, limit int64) ([]domain.Reading, error)
	DeleteReading(ctx context.Context, batchID, readingID uuid.UUID) error
}
