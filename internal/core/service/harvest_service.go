package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinealabs/winery-system/internal/core/domain"
	"github.com/vinealabs/winery-system/internal/core/ports"
)

// HarvestService applies the same ownership pattern as vineyards, keyed on
// the record's creator.
type HarvestService struct {
	repo   ports.HarvestRepository
	logger zerolog.Logger
}

func NewHarvestService(repo ports.HarvestRepository, logger zerolog.Logger) *HarvestService {
	return &HarvestService{repo: repo, logger: logger}
}

func (s *HarvestService) Create(ctx context.Context, actor domain.Actor, in ports.CreateHarvestInput) (*domain.Harvest, error) {
	now := time.Now().UTC()
	h := &domain.Harvest{
		ID:               uuid.New(),
		VineyardID:       in.VineyardID,
		HarvestDate:      in.HarvestDate,
		QuantityKg:       in.QuantityKg,
		SugarContentBrix: in.SugarContentBrix,
		AcidityPH:        in.AcidityPH,
		QualityNotes:     in.QualityNotes,
		CreatedBy:        actor.UserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.repo.Create(ctx, h)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("harvest_id", created.ID.String()).Str("vineyard_id", in.VineyardID.String()).Msg("harvest recorded")
	return created, nil
}

func (s *HarvestService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Harvest, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanRead(actor.UserID, h.CreatedBy) {
		return nil, domain.ErrForbidden
	}
	return h, nil
}

func (s *HarvestService) List(ctx context.Context, actor domain.Actor) ([]domain.Harvest, error) {
	if actor.Role == domain.RoleWorker {
		return s.repo.ListByCreator(ctx, actor.UserID)
	}
	return s.repo.List(ctx)
}

func (s *HarvestService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, in ports.UpdateHarvestInput) (*domain.Harvest, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanModify(actor.UserID, h.CreatedBy) {
		return nil, domain.ErrForbidden
	}
	return s.repo.Update(ctx, id, in)
}

func (s *HarvestService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Role.CanModify(actor.UserID, h.CreatedBy) {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("harvest_id", id.String()).Str("user_id", actor.UserID.String()).Msg("harvest deleted")
	return nil
}
