package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinealabs/winery-system/internal/core/domain"
	"github.com/vinealabs/winery-system/internal/core/ports"
)

type stubVineyardRepo struct {
	vineyards map[uuid.UUID]*domain.Vineyard
}

func newStubVineyardRepo() *stubVineyardRepo {
	return &stubVineyardRepo{vineyards: make(map[uuid.UUID]*domain.Vineyard)}
}

func (r *stubVineyardRepo) Create(_ context.Context, v *domain.Vineyard) (*domain.Vineyard, error) {
	clone := *v
	r.vineyards[v.ID] = &clone
	return &clone, nil
}

func (r *stubVineyardRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Vineyard, error) {
	v, ok := r.vineyards[id]
	if !ok {
		return nil, domain.ErrVineyardNotFound
	}
	clone := *v
	return &clone, nil
}

func (r *stubVineyardRepo) List(_ context.Context) ([]domain.Vineyard, error) {
	out := make([]domain.Vineyard, 0, len(r.vineyards))
	for _, v := range r.vineyards {
		out = append(out, *v)
	}
	return out, nil
}

func (r *stubVineyardRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.Vineyard, error) {
	var out []domain.Vineyard
	for _, v := range r.vineyards {
		if v.OwnerID == ownerID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVineyardRepo) Update(_ context.Context, id uuid.UUID, in ports.UpdateVineyardInput) (*domain.Vineyard, error) {
	v, ok := r.vineyards[id]
	if !ok {
		return nil, domain.ErrVineyardNotFound
	}
	if in.Name != nil {
		v.Name = *in.Name
	}
	if in.Location != nil {
		v.Location = *in.Location
	}
	if in.AreaHectares != nil {
		v.AreaHectares = *in.AreaHectares
	}
	if in.GrapeVariety != nil {
		v.GrapeVariety = *in.GrapeVariety
	}
	v.UpdatedAt = time.Now().UTC()
	clone := *v
	return &clone, nil
}

func (r *stubVineyardRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.vineyards[id]; !ok {
		return domain.ErrVineyardNotFound
	}
	delete(r.vineyards, id)
	return nil
}

func seedVineyard(t *testing.T, svc *VineyardService, owner domain.Actor) *domain.Vineyard {
	t.Helper()
	v, err := svc.Create(context.Background(), owner, ports.CreateVineyardInput{
		Name:         "North Slope",
		Location:     "Willamette Valley",
		AreaHectares: 4.2,
		GrapeVariety: "Pinot Noir",
	})
	if err != nil {
		t.Fatalf("create vineyard: %v", err)
	}
	return v
}

func actorWith(role domain.Role) domain.Actor {
	return domain.Actor{UserID: uuid.New(), Role: role}
}

func TestVineyardService_Create_SetsOwner(t *testing.T) {
	svc := NewVineyardService(newStubVineyardRepo(), zerolog.Nop())
	owner := actorWith(domain.RoleWorker)

	v := seedVineyard(t, svc, owner)
	if v.OwnerID != owner.UserID {
		t.Fatalf("expected owner %s, got %s", owner.UserID, v.OwnerID)
	}
}

func TestVineyardService_Get_WorkerOwnershipGate(t *testing.T) {
	svc := NewVineyardService(newStubVineyardRepo(), zerolog.Nop())
	owner := actorWith(domain.RoleWorker)
	v := seedVineyard(t, svc, owner)

	// Owner can read their own vineyard.
	if _, err := svc.Get(context.Background(), owner, v.ID); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}

	// Another worker cannot.
	if _, err := svc.Get(context.Background(), actorWith(domain.RoleWorker), v.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for other worker, got %v", err)
	}

	// Winemakers and admins can read anything.
	if _, err := svc.Get(context.Background(), actorWith(domain.RoleWinemaker), v.ID); err != nil {
		t.Fatalf("winemaker read failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), actorWith(domain.RoleAdmin), v.ID); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
}

func TestVineyardService_Get_NotFoundBeforeForbidden(t *testing.T) {
	svc := NewVineyardService(newStubVineyardRepo(), zerolog.Nop())

	if _, err := svc.Get(context.Background(), actorWith(domain.RoleWorker), uuid.New()); err != domain.ErrVineyardNotFound {
		t.Fatalf("expected ErrVineyardNotFound, got %v", err)
	}
}

func TestVineyardService_Update_ModifyGate(t *testing.T) {
	svc := NewVineyardService(newStubVineyardRepo(), zerolog.Nop())
	owner := actorWith(domain.RoleWinemaker)
	v := seedVineyard(t, svc, owner)

	newName := "South Slope"

	// A different winemaker cannot modify someone else's vineyard.
	if _, err := svc.Update(context.Background(), actorWith(domain.RoleWinemaker), v.ID, ports.UpdateVineyardInput{Name: &newName}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-owner winemaker, got %v", err)
	}

	// The owner can.
	updated, err := svc.Update(context.Background(), owner, v.ID, ports.UpdateVineyardInput{Name: &newName})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Name != "South Slope" {
		t.Fatalf("unexpected name: %s", updated.Name)
	}

	// Admins bypass ownership.
	adminName := "Admin Renamed"
	if _, err := svc.Update(context.Background(), actorWith(domain.RoleAdmin), v.ID, ports.UpdateVineyardInput{Name: &adminName}); err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
}

func TestVineyardService_Delete_ModifyGate(t *testing.T) {
	repo := newStubVineyardRepo()
	svc := NewVineyardService(repo, zerolog.Nop())
	owner := actorWith(domain.RoleWorker)
	v := seedVineyard(t, svc, owner)

	if err := svc.Delete(context.Background(), actorWith(domain.RoleWinemaker), v.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-owner winemaker, got %v", err)
	}

	if err := svc.Delete(context.Background(), owner, v.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), v.ID); err != domain.ErrVineyardNotFound {
		t.Fatalf("vineyard should be gone, got %v", err)
	}
}

func TestVineyardService_List_WorkerSeesOnlyOwn(t *testing.T) {
	svc := NewVineyardService(newStubVineyardRepo(), zerolog.Nop())
	worker := actorWith(domain.RoleWorker)
	other := actorWith(domain.RoleWinemaker)

	seedVineyard(t, svc, worker)
	seedVineyard(t, svc, other)
	seedVineyard(t, svc, other)

	mine, err := svc.List(context.Background(), worker)
	if err != nil {
		t.Fatalf("worker list failed: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 vineyard for worker, got %d", len(mine))
	}

	all, err := svc.List(context.Background(), actorWith(domain.RoleAdmin))
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 vineyards for admin, got %d", len(all))
	}
}
