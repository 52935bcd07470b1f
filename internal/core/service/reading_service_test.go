package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinealabs/winery-system/internal/core/domain"
	"github.com/vinealabs/winery-system/internal/core/ports"
)

type stubDedup struct {
	seen map[string]bool
	err  error
}

func newStubDedup() *stubDedup {
	return &stubDedup{seen: make(map[string]bool)}
}

func (d *stubDedup) key(batchID string, recordedAt time.Time) string {
	return batchID + "|" + recordedAt.UTC().Format(time.RFC3339)
}

func (d *stubDedup) IsDuplicate(_ context.Context, batchID string, recordedAt time.Time) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	return d.seen[d.key(batchID, recordedAt)], nil
}

func (d *stubDedup) Mark(_ context.Context, batchID string, recordedAt time.Time) error {
	if d.err != nil {
		return d.err
	}
	d.seen[d.key(batchID, recordedAt)] = true
	return nil
}

func sensorInput(batch *domain.Batch, recordedAt time.Time) ports.SensorReadingInput {
	return ports.SensorReadingInput{
		BatchID:            batch.ID,
		TemperatureCelsius: 18.2,
		RecordedAt:         recordedAt,
	}
}

func TestReadingService_Process_StoresIoTReading(t *testing.T) {
	repo := newStubFermentationRepo()
	svc := NewFermentationService(repo, zerolog.Nop())
	batch := seedBatch(t, svc, actorWith(domain.RoleWinemaker))
	processor := NewReadingService(repo, newStubDedup(), zerolog.Nop())

	recordedAt := time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC)
	if err := processor.Process(context.Background(), sensorInput(batch, recordedAt)); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	readings, err := repo.ListReadings(context.Background(), batch.ID, 0)
	if err != nil {
		t.Fatalf("list readings: %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(readings))
	}
	if readings[0].Source != domain.SourceIoT {
		t.Fatalf("expected iot source, got %s", readings[0].Source)
	}
	if !readings[0].RecordedAt.Equal(recordedAt) {
		t.Fatalf("recorded_at not preserved: %v", readings[0].RecordedAt)
	}
}

func TestReadingService_Process_SkipsDuplicates(t *testing.T) {
	repo := newStubFermentationRepo()
	svc := NewFermentationService(repo, zerolog.Nop())
	batch := seedBatch(t, svc, actorWith(domain.RoleWinemaker))
	processor := NewReadingService(repo, newStubDedup(), zerolog.Nop())

	recordedAt := time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC)
	in := sensorInput(batch, recordedAt)

	if err := processor.Process(context.Background(), in); err != nil {
		t.Fatalf("first process failed: %v", err)
	}
	// Retried delivery of the same measurement is dropped, not an error.
	if err := processor.Process(context.Background(), in); err != nil {
		t.Fatalf("duplicate process returned error: %v", err)
	}

	readings, _ := repo.ListReadings(context.Background(), batch.ID, 0)
	if len(readings) != 1 {
		t.Fatalf("expected 1 reading after duplicate, got %d", len(readings))
	}
}

func TestReadingService_Process_DedupFailureIsNotFatal(t *testing.T) {
	repo := newStubFermentationRepo()
	svc := NewFermentationService(repo, zerolog.Nop())
	batch := seedBatch(t, svc, actorWith(domain.RoleWinemaker))

	dedup := newStubDedup()
	dedup.err = errors.New("redis unavailable")
	processor := NewReadingService(repo, dedup, zerolog.Nop())

	if err := processor.Process(context.Background(), sensorInput(batch, time.Now().UTC())); err != nil {
		t.Fatalf("process should survive dedup outage: %v", err)
	}

	readings, _ := repo.ListReadings(context.Background(), batch.ID, 0)
	if len(readings) != 1 {
		t.Fatalf("expected reading stored despite dedup outage, got %d", len(readings))
	}
}

func TestReadingService_Process_RejectsInactiveBatch(t *testing.T) {
	repo := newStubFermentationRepo()
	svc := NewFermentationService(repo, zerolog.Nop())
	creator := actorWith(domain.RoleWinemaker)
	batch := seedBatch(t, svc, creator)

	completed := domain.BatchCompleted
	if _, err := svc.UpdateBatch(context.Background(), creator, batch.ID, ports.UpdateBatchInput{Status: &completed}); err != nil {
		t.Fatalf("complete batch: %v", err)
	}

	processor := NewReadingService(repo, newStubDedup(), zerolog.Nop())
	if err := processor.Process(context.Background(), sensorInput(batch, time.Now().UTC())); err == nil {
		t.Fatalf("expected error for completed batch")
	}

	readings, _ := repo.ListReadings(context.Background(), batch.ID, 0)
	if len(readings) != 0 {
		t.Fatalf("no reading should be stored on inactive batch, got %d", len(readings))
	}
}

func TestReadingService_Process_UnknownBatch(t *testing.T) {
	repo := newStubFermentationRepo()
	processor := NewReadingService(repo, newStubDedup(), zerolog.Nop())

	in := ports.SensorReadingInput{
		BatchID:            uuid.New(),
		TemperatureCelsius: 20,
		RecordedAt:         time.Now().UTC(),
	}
	err := processor.Process(context.Background(), in)
	if !errors.Is(err, domain.ErrBatchNotFound) {
		t.Fatalf("expected ErrBatchNotFound, got %v", err)
	}
}
