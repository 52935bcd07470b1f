package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinealabs/winery-system/internal/core/domain"
	"github.com/vinealabs/winery-system/internal/core/ports"
)

// VineyardService wraps the vineyard store with ownership checks. Role sets
// per route are enforced by middleware; this layer decides per-resource.
type VineyardService struct {
	repo   ports.VineyardRepository
	logger zerolog.Logger
}

func NewVineyardService(repo ports.VineyardRepository, logger zerolog.Logger) *VineyardService {
	return &VineyardService{repo: repo, logger: logger}
}

func (s *VineyardService) Create(ctx context.Context, actor domain.Actor, in ports.CreateVineyardInput) (*domain.Vineyard, error) {
	now := time.Now().UTC()
	v := &domain.Vineyard{
		ID:           uuid.New(),
		Name:         in.Name,
		Location:     in.Location,
		AreaHectares: in.AreaHectares,
		GrapeVariety: in.GrapeVariety,
		OwnerID:      actor.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, v)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("vineyard_id", created.ID.String()).Str("owner_id", actor.UserID.String()).Msg("vineyard created")
	return created, nil
}

// Get loads the vineyard first so a missing id is a not-found, never a
// forbidden. Workers may only view their own vineyards.
func (s *VineyardService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Vineyard, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanRead(actor.UserID, v.OwnerID) {
		return nil, domain.ErrForbidden
	}
	return v, nil
}

func (s *VineyardService) List(ctx context.Context, actor domain.Actor) ([]domain.Vineyard, error) {
	if actor.Role == domain.RoleWorker {
		return s.repo.ListByOwner(ctx, actor.UserID)
	}
	return s.repo.List(ctx)
}

func (s *VineyardService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, in ports.UpdateVineyardInput) (*domain.Vineyard, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanModify(actor.UserID, v.OwnerID) {
		return nil, domain.ErrForbidden
	}
	return s.repo.Update(ctx, id, in)
}

func (s *VineyardService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Role.CanModify(actor.UserID, v.OwnerID) {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("vineyard_id", id.String()).Str("user_id", actor.UserID.String()).Msg("vineyard deleted")
	return nil
}
