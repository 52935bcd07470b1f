package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vinealabs/winery-system/internal/core/domain"
	"github.com/vinealabs/winery-system/internal/core/ports"
)

const (
	tanksCollection    = "tanks"
	batchesCollection  = "batches"
	readingsCollection = "readings"
)

type FermentationRepository struct {
	tanks    *mongo.Collection
	batches  *mongo.Collection
	readings *mongo.Collection
}

func NewFermentationRepository(db *mongo.Database) *FermentationRepository {
	return &FermentationRepository{
		tanks:    db.Collection(tanksCollection),
		batches:  db.Collection(batchesCollection),
		readings: db.Collection(readingsCollection),
	}
}

// ── Tanks ──

type tankDoc struct {
	ID             string    `bson:"_id"`
	Name           string    `bson:"name"`
	CapacityLiters float64   `bson:"capacity_liters"`
	Material       string    `bson:"material"`
	Status         string    `bson:"status"`
	Location       string    `bson:"location,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func toTankDoc(t *domain.Tank) tankDoc {
	return tankDoc{
		ID:             t.ID.String(),
		Name:           t.Name,
		CapacityLiters: t.CapacityLiters,
		Material:       string(t.Material),
		Status:         string(t.Status),
		Location:       t.Location,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func (d tankDoc) toDomain() (*domain.Tank, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("tank doc %s: %w", d.ID, err)
	}
	return &domain.Tank{
		ID:             id,
		Name:           d.Name,
		CapacityLiters: d.CapacityLiters,
		Material:       domain.TankMaterial(d.Material),
		Status:         domain.TankStatus(d.Status),
		Location:       d.Location,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}, nil
}

func (r *FermentationRepository) CreateTank(ctx context.Context, t *domain.Tank) (*domain.Tank, error) {
	if _, err := r.tanks.InsertOne(ctx, toTankDoc(t)); err != nil {
		return nil, fmt.Errorf("insert tank: %w", err)
	}
	return t, nil
}

func (r *FermentationRepository) FindTankByID(ctx context.Context, id uuid.UUID) (*domain.Tank, error) {
	var doc tankDoc
	if err := r.tanks.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTankNotFound
		}
		return nil, fmt.Errorf("find tank: %w", err)
	}
	return doc.toDomain()
}

func (r *FermentationRepository) ListTanks(ctx context.Context) ([]domain.Tank, error) {
	cur, err := r.tanks.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list tanks: %w", err)
	}
	defer cur.Close(ctx)

	var tanks []domain.Tank
	for cur.Next(ctx) {
		var doc tankDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode tank: %w", err)
		}
		t, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		tanks = append(tanks, *t)
	}
	return tanks, cur.Err()
}

func (r *FermentationRepository) UpdateTank(ctx context.Context, id uuid.UUID, in ports.UpdateTankInput) (*domain.Tank, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.CapacityLiters != nil {
		set["capacity_liters"] = *in.CapacityLiters
	}
	if in.Material != nil {
		set["material"] = string(*in.Material)
	}
	if in.Status != nil {
		set["status"] = string(*in.Status)
	}
	if in.Location != nil {
		set["location"] = *in.Location
	}

	var doc tankDoc
	err := r.tanks.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTankNotFound
		}
		return nil, fmt.Errorf("update tank: %w", err)
	}
	return doc.toDomain()
}

func (r *FermentationRepository) DeleteTank(ctx context.Context, id uuid.UUID) error {
	res, err := r.tanks.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete tank: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTankNotFound
	}
	return nil
}

// ── Batches ──

type batchDoc struct {
	ID                string    `bson:"_id"`
	TankID            string    `bson:"tank_id"`
	HarvestID         *string   `bson:"harvest_id,omitempty"`
	Name              string    `bson:"name"`
	GrapeVariety      string    `bson:"grape_variety"`
	VolumeLiters      float64   `bson:"volume_liters"`
	Status            string    `bson:"status"`
	TargetTemperature *float64  `bson:"target_temperature,omitempty"`
	InitialBrix       *float64  `bson:"initial_brix,omitempty"`
	CreatedBy         string    `bson:"created_by"`
	CreatedAt         time.Time `bson:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at"`
}

func toBatchDoc(b *domain.Batch) batchDoc {
	doc := batchDoc{
		ID:                b.ID.String(),
		TankID:            b.TankID.String(),
		Name:              b.Name,
		GrapeVariety:      b.GrapeVariety,
		VolumeLiters:      b.VolumeLiters,
		Status:            string(b.Status),
		TargetTemperature: b.TargetTemperature,
		InitialBrix:       b.InitialBrix,
		CreatedBy:         b.CreatedBy.String(),
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
	if b.HarvestID != nil {
		s := b.HarvestID.String()
		doc.HarvestID = &s
	}
	return doc
}

func (d batchDoc) toDomain() (*domain.Batch, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("batch doc %s: %w", d.ID, err)
	}
	tankID, err := uuid.Parse(d.TankID)
	if err != nil {
		return nil, fmt.Errorf("batch doc %s tank: %w", d.ID, err)
	}
	createdBy, err := uuid.Parse(d.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("batch doc %s creator: %w", d.ID, err)
	}
	b := &domain.Batch{
		ID:                id,
		TankID:            tankID,
		Name:              d.Name,
		GrapeVariety:      d.GrapeVariety,
		VolumeLiters:      d.VolumeLiters,
		Status:            domain.BatchStatus(d.Status),
		TargetTemperature: d.TargetTemperature,
		InitialBrix:       d.InitialBrix,
		CreatedBy:         createdBy,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
	if d.HarvestID != nil {
		harvestID, err := uuid.Parse(*d.HarvestID)
		if err != nil {
			return nil, fmt.Errorf("batch doc %s harvest: %w", d.ID, err)
		}
		b.HarvestID = &harvestID
	}
	return b, nil
}

func (r *FermentationRepository) CreateBatch(ctx context.Context, b *domain.Batch) (*domain.Batch, error) {
	if _, err := r.batches.InsertOne(ctx, toBatchDoc(b)); err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}
	return b, nil
}

func (r *FermentationRepository) FindBatchByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	var doc batchDoc
	if err := r.batches.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("find batch: %w", err)
	}
	return doc.toDomain()
}

func (r *FermentationRepository) ListBatches(ctx context.Context) ([]domain.Batch, error) {
	return r.listBatches(ctx, bson.M{})
}

func (r *FermentationRepository) ListActiveBatches(ctx context.Context) ([]domain.Batch, error) {
	return r.listBatches(ctx, bson.M{"status": string(domain.BatchActive)})
}

func (r *FermentationRepository) listBatches(ctx context.Context, filter bson.M) ([]domain.Batch, error) {
	cur, err := r.batches.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer cur.Close(ctx)

	var batches []domain.Batch
	for cur.Next(ctx) {
		var doc batchDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode batch: %w", err)
		}
		b, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		batches = append(batches, *b)
	}
	return batches, cur.Err()
}

func (r *FermentationRepository) UpdateBatch(ctx context.Context, id uuid.UUID, in ports.UpdateBatchInput) (*domain.Batch, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Status != nil {
		set["status"] = string(*in.Status)
	}
	if in.TargetTemperature != nil {
		set["target_temperature"] = *in.TargetTemperature
	}
	if in.InitialBrix != nil {
		set["initial_brix"] = *in.InitialBrix
	}

	var doc batchDoc
	err := r.batches.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("update batch: %w", err)
	}
	return doc.toDomain()
}

func (r *FermentationRepository) DeleteBatch(ctx context.Context, id uuid.UUID) error {
	res, err := r.batches.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}

// ── Readings ──

type readingDoc struct {
	ID                 string    `bson:"_id"`
	BatchID            string    `bson:"batch_id"`
	TemperatureCelsius float64   `bson:"temperature_celsius"`
	Density            *float64  `bson:"density,omitempty"`
	PH                 *float64  `bson:"ph,omitempty"`
	Source             string    `bson:"source"`
	RecordedAt         time.Time `bson:"recorded_at"`
	CreatedAt          time.Time `bson:"created_at"`
}

func toReadingDoc(rd *domain.Reading) readingDoc {
	return readingDoc{
		ID:                 rd.ID.String(),
		BatchID:            rd.BatchID.String(),
		TemperatureCelsius: rd.TemperatureCelsius,
		Density:            rd.Density,
		PH:                 rd.PH,
		Source:             string(rd.Source),
		RecordedAt:         rd.RecordedAt,
		CreatedAt:          rd.CreatedAt,
	}
}

func (d readingDoc) toDomain() (*domain.Reading, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("reading doc %s: %w", d.ID, err)
	}
	batchID, err := uuid.Parse(d.BatchID)
	if err != nil {
		return nil, fmt.Errorf("reading doc %s batch: %w", d.ID, err)
	}
	return &domain.Reading{
		ID:                 id,
		BatchID:            batchID,
		TemperatureCelsius: d.TemperatureCelsius,
		Density:            d.Density,
		PH:                 d.PH,
		Source:             domain.ReadingSource(d.Source),
		RecordedAt:         d.RecordedAt.UTC(),
		CreatedAt:          d.CreatedAt.UTC(),
	}, nil
}

func (r *FermentationRepository) InsertReading(ctx context.Context, rd *domain.Reading) (*domain.Reading, error) {
	if _, err := r.readings.InsertOne(ctx, toReadingDoc(rd)); err != nil {
		return nil, fmt.Errorf("insert reading: %w", err)
	}
	return rd, nil
}

// ListReadings returns readings newest first. A limit of 0 means no limit.
func (r *FermentationRepository) ListReadings(ctx context.Context, batchID uuid.UUID, limit int64) ([]domain.Reading, error) {
	opts := options.Find().SetSort(bson.D{{Key: "recorded_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cur, err := r.readings.Find(ctx, bson.M{"batch_id": batchID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer cur.Close(ctx)

	var readings []domain.Reading
	for cur.Next(ctx) {
		var doc readingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode reading: %w", err)
		}
		rd, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		readings = append(readings, *rd)
	}
	return readings, cur.Err()
}

func (r *FermentationRepository) DeleteReading(ctx context.Context, batchID, readingID uuid.UUID) error {
	res, err := r.readings.DeleteOne(ctx, bson.M{"_id": readingID.String(), "batch_id": batchID.String()})
	if err != nil {
		return fmt.Errorf("delete reading: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReadingNotFound
	}
	return nil
}
