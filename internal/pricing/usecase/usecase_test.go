package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/partstock-inventory-service/internal/model"
	"github.com/fekuna/partstock-inventory-service/internal/pricing"
	"github.com/fekuna/partstock-inventory-service/internal/pricing/dto"
	"github.com/fekuna/partstock-inventory-service/pkg/logger"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeCatalog struct {
	parts     map[string]bool
	suppliers map[string]bool
}

func (f *fakeCatalog) GetPart(ctx context.Context, id string) (*model.Part, error) {
	if !f.parts[id] {
		return nil, model.ErrUnknownPart
	}
	return &model.Part{BaseModel: model.BaseModel{ID: id}, IsActive: true}, nil
}

func (f *fakeCatalog) RequireActivePart(ctx context.Context, id string) (*model.Part, error) {
	return f.GetPart(ctx, id)
}

func (f *fakeCatalog) RequireSupplier(ctx context.Context, id string) error {
	if !f.suppliers[id] {
		return model.ErrUnknownSupplier
	}
	return nil
}

func (f *fakeCatalog) InvalidateSupplier(ctx context.Context, id string) error { return nil }

// fakePriceRepo mirrors the transactional contract: each SetCurrentPrice
// clears the key's is_current rows before inserting the new one.
type fakePriceRepo struct {
	records []model.PriceRecord
}

func (r *fakePriceRepo) SetCurrentPrice(ctx context.Context, rec *model.PriceRecord) error {
	for i := range r.records {
		p := &r.records[i]
		if p.PartID == rec.PartID && p.SupplierID == rec.SupplierID && p.PriceType == rec.PriceType {
			p.IsCurrent = false
		}
	}
	r.records = append(r.records, *rec)
	return nil
}

func (r *fakePriceRepo) FindCurrent(ctx context.Context, partID, supplierID, priceType string) (*model.PriceRecord, error) {
	for i := range r.records {
		p := r.records[i]
		if p.PartID == partID && p.SupplierID == supplierID && p.PriceType == priceType && p.IsCurrent {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakePriceRepo) ListHistory(ctx context.Context, f *dto.PriceFilters) ([]model.PriceRecord, int, error) {
	items := []model.PriceRecord{}
	for _, p := range r.records {
		if f.PartID != "" && p.PartID != f.PartID {
			continue
		}
		items = append(items, p)
	}
	return items, len(items), nil
}

func newTestUseCase(repo *fakePriceRepo) pricing.UseCase {
	cat := &fakeCatalog{
		parts:     map[string]bool{"part-1": true},
		suppliers: map[string]bool{"supplier-1": true},
	}
	return NewPricingUseCase(repo, cat, logger.NewNop())
}

func priceInput(price string) *dto.SetPriceInput {
	return &dto.SetPriceInput{
		PartID:        "part-1",
		SupplierID:    "supplier-1",
		UnitPrice:     dec(price),
		EffectiveFrom: time.Now(),
	}
}

func TestSetCurrentPrice_SupersedesPreviousCurrent(t *testing.T) {
	repo := &fakePriceRepo{}
	uc := newTestUseCase(repo)
	ctx := context.Background()

	if _, err := uc.SetCurrentPrice(ctx, priceInput("100")); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if _, err := uc.SetCurrentPrice(ctx, priceInput("120")); err != nil {
		t.Fatalf("second set: %v", err)
	}

	var current int
	for _, p := range repo.records {
		if p.IsCurrent {
			current++
			if !p.UnitPrice.Equal(dec("120")) {
				t.Errorf("current price should be 120, got %s", p.UnitPrice)
			}
		}
	}
	if current != 1 {
		t.Errorf("expected exactly one current record, got %d", current)
	}
	if len(repo.records) != 2 {
		t.Errorf("history must keep superseded rows, have %d", len(repo.records))
	}
}

func TestSetCurrentPrice_DefaultsTypeAndCurrency(t *testing.T) {
	repo := &fakePriceRepo{}
	uc := newTestUseCase(repo)

	rec, err := uc.SetCurrentPrice(context.Background(), priceInput("100"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.PriceType != model.PriceTypePurchase {
		t.Errorf("expected default price type purchase, got %s", rec.PriceType)
	}
	if rec.Currency != model.DefaultCurrency {
		t.Errorf("expected default currency %s, got %s", model.DefaultCurrency, rec.Currency)
	}
}

func TestSetCurrentPrice_SeparateKeysCoexist(t *testing.T) {
	repo := &fakePriceRepo{}
	uc := newTestUseCase(repo)
	ctx := context.Background()

	purchase := priceInput("100")
	purchase.PriceType = model.PriceTypePurchase
	sale := priceInput("150")
	sale.PriceType = model.PriceTypeSale

	if _, err := uc.SetCurrentPrice(ctx, purchase); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if _, err := uc.SetCurrentPrice(ctx, sale); err != nil {
		t.Fatalf("sale: %v", err)
	}

	var current int
	for _, p := range repo.records {
		if p.IsCurrent {
			current++
		}
	}
	if current != 2 {
		t.Errorf("distinct price types should each keep a current row, got %d", current)
	}
}

func TestSetCurrentPrice_RejectsInvalidWindow(t *testing.T) {
	repo := &fakePriceRepo{}
	uc := newTestUseCase(repo)

	input := priceInput("100")
	until := input.EffectiveFrom.Add(-time.Hour)
	input.EffectiveUntil = &until

	_, err := uc.SetCurrentPrice(context.Background(), input)
	if !errors.Is(err, model.ErrPriceWindowConflict) {
		t.Fatalf("expected ErrPriceWindowConflict, got %v", err)
	}
	if len(repo.records) != 0 {
		t.Error("invalid window must not persist a record")
	}
}

func TestSetCurrentPrice_RejectsUnknownPartAndSupplier(t *testing.T) {
	repo := &fakePriceRepo{}
	uc := newTestUseCase(repo)
	ctx := context.Background()

	input := priceInput("100")
	input.PartID = "missing"
	if _, err := uc.SetCurrentPrice(ctx, input); !errors.Is(err, model.ErrUnknownPart) {
		t.Errorf("unknown part: expected ErrUnknownPart, got %v", err)
	}

	input = priceInput("100")
	input.SupplierID = "missing"
	if _, err := uc.SetCurrentPrice(ctx, input); !errors.Is(err, model.ErrUnknownSupplier) {
		t.Errorf("unknown supplier: expected ErrUnknownSupplier, got %v", err)
	}
}

func TestGetCurrentPrice(t *testing.T) {
	repo := &fakePriceRepo{}
	uc := newTestUseCase(repo)
	ctx := context.Background()

	if _, err := uc.GetCurrentPrice(ctx, "part-1", "supplier-1", ""); !errors.Is(err, model.ErrNoCurrentPrice) {
		t.Fatalf("empty history: expected ErrNoCurrentPrice, got %v", err)
	}

	if _, err := uc.SetCurrentPrice(ctx, priceInput("100")); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Empty price type defaults to purchase on lookup too.
	rec, err := uc.GetCurrentPrice(ctx, "part-1", "supplier-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.UnitPrice.Equal(dec("100")) {
		t.Errorf("expected price 100, got %s", rec.UnitPrice)
	}
}
