package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinealabs/winery-system/internal/core/domain"
	"github.com/vinealabs/winery-system/internal/core/ports"
	"github.com/vinealabs/winery-system/internal/pkg/metrics"
)

// DedupChecker abstracts the idempotency store (Redis). Sensors buffer and
// retry, so the same measurement can arrive more than once.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, batchID string, recordedAt time.Time) (bool, error)
	Mark(ctx context.Context, batchID string, recordedAt time.Time) error
}

type readingService struct {
	repo  ports.FermentationRepository
	dedup DedupChecker
	log   zerolog.Logger
}

// NewReadingService returns the ReadingProcessor consumed by the dispatcher.
func NewReadingService(repo ports.FermentationRepository, dedup DedupChecker, log zerolog.Logger) ports.ReadingProcessor {
	return &readingService{repo: repo, dedup: dedup, log: log}
}

// Process validates, deduplicates, and persists a single sensor reading.
func (s *readingService) Process(ctx context.Context, in ports.SensorReadingInput) error {
	start := time.Now()

	// Idempotency check — silently skip duplicates.
	isDup, err := s.dedup.IsDuplicate(ctx, in.BatchID.String(), in.RecordedAt)
	if err != nil {
		s.log.Warn().Err(err).Str("batch_id", in.BatchID.String()).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.ReadingsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("batch_id", in.BatchID.String()).Time("recorded_at", in.RecordedAt).Msg("duplicate reading skipped")
		return nil
	}
	metrics.ReadingsDedupTotal.WithLabelValues("miss").Inc()

	batch, err := s.repo.FindBatchByID(ctx, in.BatchID)
	if err != nil {
		metrics.ReadingsErrorsTotal.WithLabelValues("batch_not_found").Inc()
		return fmt.Errorf("process reading: %w", err)
	}

	if batch.Status != domain.BatchActive {
		metrics.ReadingsErrorsTotal.WithLabelValues("batch_inactive").Inc()
		return fmt.Errorf("process reading: batch %s is %s, readings rejected", batch.ID, batch.Status)
	}

	// Mark as processed before writing (prevents duplicate processing on retry).
	if markErr := s.dedup.Mark(ctx, in.BatchID.String(), in.RecordedAt); markErr != nil {
		s.log.Warn().Err(markErr).Str("batch_id", in.BatchID.String()).Msg("failed to set dedup key")
	}

	reading := &domain.Reading{
		ID:                 uuid.New(),
		BatchID:            batch.ID,
		TemperatureCelsius: in.TemperatureCelsius,
		Density:            in.Density,
		PH:                 in.PH,
		Source:             domain.SourceIoT,
		RecordedAt:         in.RecordedAt,
		CreatedAt:          time.Now().UTC(),
	}

	if _, err := s.repo.InsertReading(ctx, reading); err != nil {
		metrics.ReadingsErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("process reading: insert: %w", err)
	}

	metrics.ReadingProcessingDuration.Observe(time.Since(start).Seconds())

	s.log.Info().
		Str("batch_id", batch.ID.String()).
		Float64("temperature", in.TemperatureCelsius).
		Time("recorded_at", in.RecordedAt).
		Msg("sensor reading stored")

	return nil
}
