package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/partstock-inventory-service/internal/model"
	"github.com/fekuna/partstock-inventory-service/pkg/logger"
)

type fakeRepo struct {
	parts         map[string]*model.Part
	suppliers     map[string]bool
	supplierCalls int
}

func (r *fakeRepo) FindPartByID(ctx context.Context, id string) (*model.Part, error) {
	return r.parts[id], nil
}

func (r *fakeRepo) SupplierExists(ctx context.Context, id string) (bool, error) {
	r.supplierCalls++
	return r.suppliers[id], nil
}

func newTestRepo() *fakeRepo {
	return &fakeRepo{
		parts: map[string]*model.Part{
			"part-1":        {BaseModel: model.BaseModel{ID: "part-1"}, Code: "BRG-6204", IsActive: true},
			"part-inactive": {BaseModel: model.BaseModel{ID: "part-inactive"}, Code: "OLD-001", IsActive: false},
		},
		suppliers: map[string]bool{"supplier-1": true},
	}
}

func TestGetPart(t *testing.T) {
	uc := NewCatalogUseCase(newTestRepo(), nil, time.Minute, logger.NewNop())
	ctx := context.Background()

	part, err := uc.GetPart(ctx, "part-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if part.Code != "BRG-6204" {
		t.Errorf("expected code BRG-6204, got %s", part.Code)
	}

	if _, err := uc.GetPart(ctx, "missing"); !errors.Is(err, model.ErrUnknownPart) {
		t.Errorf("expected ErrUnknownPart, got %v", err)
	}

	// Inactive parts stay readable; only mutations require active.
	if _, err := uc.GetPart(ctx, "part-inactive"); err != nil {
		t.Errorf("inactive part must be readable, got %v", err)
	}
}

func TestRequireActivePart(t *testing.T) {
	uc := NewCatalogUseCase(newTestRepo(), nil, time.Minute, logger.NewNop())
	ctx := context.Background()

	if _, err := uc.RequireActivePart(ctx, "part-1"); err != nil {
		t.Errorf("active part: unexpected error %v", err)
	}
	if _, err := uc.RequireActivePart(ctx, "part-inactive"); !errors.Is(err, model.ErrInvalidPart) {
		t.Errorf("inactive part: expected ErrInvalidPart, got %v", err)
	}
	if _, err := uc.RequireActivePart(ctx, "missing"); !errors.Is(err, model.ErrUnknownPart) {
		t.Errorf("unknown part: expected ErrUnknownPart, got %v", err)
	}
}

func TestRequireSupplier(t *testing.T) {
	repo := newTestRepo()
	uc := NewCatalogUseCase(repo, nil, time.Minute, logger.NewNop())
	ctx := context.Background()

	if err := uc.RequireSupplier(ctx, "supplier-1"); err != nil {
		t.Errorf("known supplier: unexpected error %v", err)
	}
	if err := uc.RequireSupplier(ctx, "missing"); !errors.Is(err, model.ErrUnknownSupplier) {
		t.Errorf("unknown supplier: expected ErrUnknownSupplier, got %v", err)
	}

	// With no cache every check hits the repository.
	if repo.supplierCalls != 2 {
		t.Errorf("expected 2 repository lookups, got %d", repo.supplierCalls)
	}
}
