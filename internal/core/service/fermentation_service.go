package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinealabs/winery-system/internal/core/domain"
	"github.com/vinealabs/winery-system/internal/core/ports"
)

// FermentationService manages tanks, batches and manual readings. Tank
// operations carry no ownership dimension (tanks are shared equipment), so
// their gates are purely role sets declared at the router. Batches record a
// creator and use the ownership gates.
type FermentationService struct {
	repo   ports.FermentationRepository
	logger zerolog.Logger
}

func NewFermentationService(repo ports.FermentationRepository, logger zerolog.Logger) *FermentationService {
	return &FermentationService{repo: repo, logger: logger}
}

// ── Tanks ──

func (s *FermentationService) CreateTank(ctx context.Context, in ports.CreateTankInput) (*domain.Tank, error) {
	now := time.Now().UTC()
	t := &domain.Tank{
		ID:             uuid.New(),
		Name:           in.Name,
		CapacityLiters: in.CapacityLiters,
		Material:       in.Material,
		Status:         domain.TankAvailable,
		Location:       in.Location,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.CreateTank(ctx, t)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("tank_id", created.ID.String()).Str("name", created.Name).Msg("tank created")
	return created, nil
}

func (s *FermentationService) GetTank(ctx context.Context, id uuid.UUID) (*domain.Tank, error) {
	return s.repo.FindTankByID(ctx, id)
}

func (s *FermentationService) ListTanks(ctx context.Context) ([]domain.Tank, error) {
	return s.repo.ListTanks(ctx)
}

func (s *FermentationService) UpdateTank(ctx context.Context, id uuid.UUID, in ports.UpdateTankInput) (*domain.Tank, error) {
	return s.repo.UpdateTank(ctx, id, in)
}

func (s *FermentationService) DeleteTank(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindTankByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteTank(ctx, id)
}

// ── Batches ──

func (s *FermentationService) CreateBatch(ctx context.Context, actor domain.Actor, in ports.CreateBatchInput) (*domain.Batch, error) {
	tank, err := s.repo.FindTankByID(ctx, in.TankID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b := &domain.Batch{
		ID:                uuid.New(),
		TankID:            tank.ID,
		HarvestID:         in.HarvestID,
		Name:              in.Name,
		GrapeVariety:      in.GrapeVariety,
		VolumeLiters:      in.VolumeLiters,
		Status:            domain.BatchActive,
		TargetTemperature: in.TargetTemperature,
		InitialBrix:       in.InitialBrix,
		CreatedBy:         actor.UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.repo.CreateBatch(ctx, b)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("batch_id", created.ID.String()).Str("tank_id", tank.ID.String()).Msg("fermentation batch started")
	return created, nil
}

func (s *FermentationService) GetBatch(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	return s.repo.FindBatchByID(ctx, id)
}

func (s *FermentationService) ListBatches(ctx context.Context, activeOnly bool) ([]domain.Batch, error) {
	if activeOnly {
		return s.repo.ListActiveBatches(ctx)
	}
	return s.repo.ListBatches(ctx)
}

func (s *FermentationService) UpdateBatch(ctx context.Context, actor domain.Actor, id uuid.UUID, in ports.UpdateBatchInput) (*domain.Batch, error) {
	b, err := s.repo.FindBatchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanModify(actor.UserID, b.CreatedBy) {
		return nil, domain.ErrForbidden
	}
	return s.repo.UpdateBatch(ctx, id, in)
}

func (s *FermentationService) DeleteBatch(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	b, err := s.repo.FindBatchByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Role.CanModify(actor.UserID, b.CreatedBy) {
		return domain.ErrForbidden
	}
	if err := s.repo.DeleteBatch(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("batch_id", id.String()).Str("user_id", actor.UserID.String()).Msg("batch deleted")
	return nil
}

// GetBatchStats aggregates readings in memory; batches hold at most a few
// thousand readings over a fermentation run.
func (s *FermentationService) GetBatchStats(ctx context.Context, id uuid.UUID) (*domain.BatchStats, error) {
	batch, err := s.repo.FindBatchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	readings, err := s.repo.ListReadings(ctx, batch.ID, 0)
	if err != nil {
		return nil, err
	}

	stats := &domain.BatchStats{BatchID: batch.ID, ReadingCount: len(readings)}
	if len(readings) == 0 {
		return stats, nil
	}

	// Readings are ordered newest first.
	stats.LatestDensity = readings[0].Density
	stats.LatestPH = readings[0].PH

	stats.MinTemperature = readings[0].TemperatureCelsius
	stats.MaxTemperature = readings[0].TemperatureCelsius
	var sum float64
	for _, r := range readings {
		if r.TemperatureCelsius < stats.MinTemperature {
			stats.MinTemperature = r.TemperatureCelsius
		}
		if r.TemperatureCelsius > stats.MaxTemperature {
			stats.MaxTemperature = r.TemperatureCelsius
		}
		sum += r.TemperatureCelsius
	}
	stats.AvgTemperature = sum / float64(len(readings))

	return stats, nil
}

// ── Readings ──

func (s *FermentationService) AddReading(ctx context.Context, batchID uuid.UUID, in ports.AddReadingInput) (*domain.Reading, error) {
	batch, err := s.repo.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	recordedAt := in.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	r := &domain.Reading{
		ID:                 uuid.New(),
		BatchID:            batch.ID,
		TemperatureCelsius: in.TemperatureCelsius,
		Density:            in.Density,
		PH:                 in.PH,
		Source:             domain.SourceManual,
		RecordedAt:         recordedAt,
		CreatedAt:          time.Now().UTC(),
	}

	return s.repo.InsertReading(ctx, r)
}

func (s *FermentationService) ListReadings(ctx context.Context, batchID uuid.UUID, limit int64) ([]domain.Reading, error) {
	if _, err := s.repo.FindBatchByID(ctx, batchID); err != nil {
		return nil, err
	}
	return s.repo.ListReadings(ctx, batchID, limit)
}

func (s *FermentationService) DeleteReading(ctx context.Context, actor domain.Actor, batchID, readingID uuid.UUID) error {
	b, err := s.repo.FindBatchByID(ctx, batchID)
	if err != nil {
		return err
	}
	if !actor.Role.CanModify(actor.UserID, b.CreatedBy) {
		return domain.ErrForbidden
	}
	return s.repo.DeleteReading(ctx, batchID, readingID)
}
