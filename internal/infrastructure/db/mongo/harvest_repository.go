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

const harvestsCollection = "harvests"

type HarvestRepository struct {
	coll *mongo.Collection
}

func NewHarvestRepository(db *mongo.Database) *HarvestRepository {
	return &HarvestRepository{coll: db.Collection(harvestsCollection)}
}

type harvestDoc struct {
	ID               string    `bson:"_id"`
	VineyardID       string    `bson:"vineyard_id"`
	HarvestDate      time.Time `bson:"harvest_date"`
	QuantityKg       float64   `bson:"quantity_kg"`
	SugarContentBrix *float64  `bson:"sugar_content_brix,omitempty"`
	AcidityPH        *float64  `bson:"acidity_ph,omitempty"`
	QualityNotes     string    `bson:"quality_notes,omitempty"`
	CreatedBy        string    `bson:"created_by"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

func toHarvestDoc(h *domain.Harvest) harvestDoc {
	return harvestDoc{
		ID:               h.ID.String(),
		VineyardID:       h.VineyardID.String(),
		HarvestDate:      h.HarvestDate,
		QuantityKg:       h.QuantityKg,
		SugarContentBrix: h.SugarContentBrix,
		AcidityPH:        h.AcidityPH,
		QualityNotes:     h.QualityNotes,
		CreatedBy:        h.CreatedBy.String(),
		CreatedAt:        h.CreatedAt,
		UpdatedAt:        h.UpdatedAt,
	}
}

func (d harvestDoc) toDomain() (*domain.Harvest, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("harvest doc %s: %w", d.ID, err)
	}
	vineyardID, err := uuid.Parse(d.VineyardID)
	if err != nil {
		return nil, fmt.Errorf("harvest doc %s vineyard: %w", d.ID, err)
	}
	createdBy, err := uuid.Parse(d.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("harvest doc %s creator: %w", d.ID, err)
	}
	return &domain.Harvest{
		ID:               id,
		VineyardID:       vineyardID,
		HarvestDate:      d.HarvestDate.UTC(),
		QuantityKg:       d.QuantityKg,
		SugarContentBrix: d.SugarContentBrix,
		AcidityPH:        d.AcidityPH,
		QualityNotes:     d.QualityNotes,
		CreatedBy:        createdBy,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}, nil
}

func (r *HarvestRepository) Create(ctx context.Context, h *domain.Harvest) (*domain.Harvest, error) {
	if _, err := r.coll.InsertOne(ctx, toHarvestDoc(h)); err != nil {
		return nil, fmt.Errorf("insert harvest: %w", err)
	}
	return h, nil
}

func (r *HarvestRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Harvest, error) {
	var doc harvestDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrHarvestNotFound
		}
		return nil, fmt.Errorf("find harvest: %w", err)
	}
	return doc.toDomain()
}

func (r *HarvestRepository) List(ctx context.Context) ([]domain.Harvest, error) {
	return r.list(ctx, bson.M{})
}

func (r *HarvestRepository) ListByCreator(ctx context.Context, userID uuid.UUID) ([]domain.Harvest, error) {
	return r.list(ctx, bson.M{"created_by": userID.String()})
}

func (r *HarvestRepository) list(ctx context.Context, filter bson.M) ([]domain.Harvest, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "harvest_date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list harvests: %w", err)
	}
	defer cur.Close(ctx)

	var harvests []domain.Harvest
	for cur.Next(ctx) {
		var doc harvestDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode harvest: %w", err)
		}
		h, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		harvests = append(harvests, *h)
	}
	return harvests, cur.Err()
}

func (r *HarvestRepository) Update(ctx context.Context, id uuid.UUID, in ports.UpdateHarvestInput) (*domain.Harvest, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if in.HarvestDate != nil {
		set["harvest_date"] = *in.HarvestDate
	}
	if in.QuantityKg != nil {
		set["quantity_kg"] = *in.QuantityKg
	}
	if in.SugarContentBrix != nil {
		set["sugar_content_brix"] = *in.SugarContentBrix
	}
	if in.AcidityPH != nil {
		set["acidity_ph"] = *in.AcidityPH
	}
	if in.QualityNotes != nil {
		set["quality_notes"] = *in.QualityNotes
	}

	var doc harvestDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrHarvestNotFound
		}
		return nil, fmt.Errorf("update harvest: %w", err)
	}
	return doc.toDomain()
}

func (r *HarvestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete harvest: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrHarvestNotFound
	}
	return nil
}
