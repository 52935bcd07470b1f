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

const vineyardsCollection = "vineyards"

type VineyardRepository struct {
	coll *mongo.Collection
}

func NewVineyardRepository(db *mongo.Database) *VineyardRepository {
	return &VineyardRepository{coll: db.Collection(vineyardsCollection)}
}

type vineyardDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Location     string    `bson:"location"`
	AreaHectares float64   `bson:"area_hectares"`
	GrapeVariety string    `bson:"grape_variety"`
	OwnerID      string    `bson:"owner_id"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toVineyardDoc(v *domain.Vineyard) vineyardDoc {
	return vineyardDoc{
		ID:           v.ID.String(),
		Name:         v.Name,
		Location:     v.Location,
		AreaHectares: v.AreaHectares,
		GrapeVariety: v.GrapeVariety,
		OwnerID:      v.OwnerID.String(),
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func (d vineyardDoc) toDomain() (*domain.Vineyard, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("vineyard doc %s: %w", d.ID, err)
	}
	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("vineyard doc %s owner: %w", d.ID, err)
	}
	return &domain.Vineyard{
		ID:           id,
		Name:         d.Name,
		Location:     d.Location,
		AreaHectares: d.AreaHectares,
		GrapeVariety: d.GrapeVariety,
		OwnerID:      owner,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}, nil
}

func (r *VineyardRepository) Create(ctx context.Context, v *domain.Vineyard) (*domain.Vineyard, error) {
	if _, err := r.coll.InsertOne(ctx, toVineyardDoc(v)); err != nil {
		return nil, fmt.Errorf("insert vineyard: %w", err)
	}
	return v, nil
}

func (r *VineyardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Vineyard, error) {
	var doc vineyardDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVineyardNotFound
		}
		return nil, fmt.Errorf("find vineyard: %w", err)
	}
	return doc.toDomain()
}

func (r *VineyardRepository) List(ctx context.Context) ([]domain.Vineyard, error) {
	return r.list(ctx, bson.M{})
}

func (r *VineyardRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Vineyard, error) {
	return r.list(ctx, bson.M{"owner_id": ownerID.String()})
}

func (r *VineyardRepository) list(ctx context.Context, filter bson.M) ([]domain.Vineyard, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list vineyards: %w", err)
	}
	defer cur.Close(ctx)

	var vineyards []domain.Vineyard
	for cur.Next(ctx) {
		var doc vineyardDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode vineyard: %w", err)
		}
		v, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		vineyards = append(vineyards, *v)
	}
	return vineyards, cur.Err()
}

func (r *VineyardRepository) Update(ctx context.Context, id uuid.UUID, in ports.UpdateVineyardInput) (*domain.Vineyard, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Location != nil {
		set["location"] = *in.Location
	}
	if in.AreaHectares != nil {
		set["area_hectares"] = *in.AreaHectares
	}
	if in.GrapeVariety != nil {
		set["grape_variety"] = *in.GrapeVariety
	}

	var doc vineyardDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVineyardNotFound
		}
		return nil, fmt.Errorf("update vineyard: %w", err)
	}
	return doc.toDomain()
}

func (r *VineyardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete vineyard: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVineyardNotFound
	}
	return nil
}
