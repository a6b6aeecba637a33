package usecase

import (
	"context"

	"github.com/fekuna/partstock-inventory-service/internal/catalog"
	"github.com/fekuna/partstock-inventory-service/internal/model"
	"github.com/fekuna/partstock-inventory-service/internal/pricing"
	"github.com/fekuna/partstock-inventory-service/internal/pricing/dto"
	"github.com/fekuna/partstock-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type pricingUseCase struct {
	repo    pricing.Repository
	catalog catalog.UseCase
	logger  logger.ZapLogger
}

func NewPricingUseCase(repo pricing.Repository, cat catalog.UseCase, log logger.ZapLogger) pricing.UseCase {
	return &pricingUseCase{
		repo:    repo,
		catalog: cat,
		logger:  log,
	}
}

func (uc *pricingUseCase) SetCurrentPrice(ctx context.Context, input *dto.SetPriceInput) (*model.PriceRecord, error) {
	rec, err := model.NewPriceRecord(
		uuid.New().String(),
		input.PartID,
		input.SupplierID,
		input.PriceType,
		input.UnitPrice,
		input.Currency,
		input.EffectiveFrom,
		input.EffectiveUntil,
	)
	if err != nil {
		return nil, err
	}

	if _, err := uc.catalog.GetPart(ctx, rec.PartID); err != nil {
		return nil, err
	}
	if err := uc.catalog.RequireSupplier(ctx, rec.SupplierID); err != nil {
		return nil, err
	}

	if err := uc.repo.SetCurrentPrice(ctx, rec); err != nil {
		return nil, err
	}

	uc.logger.Info("current price updated",
		zap.String("part_id", rec.PartID),
		zap.String("supplier_id", rec.SupplierID),
		zap.String("price_type", rec.PriceType),
		zap.String("unit_price", rec.UnitPrice.String()),
	)
	return rec, nil
}

func (uc *pricingUseCase) GetCurrentPrice(ctx context.Context, partID, supplierID, priceType string) (*model.PriceRecord, error) {
	if priceType == "" {
		priceType = model.PriceTypePurchase
	}
	rec, err := uc.repo.FindCurrent(ctx, partID, supplierID, priceType)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, model.ErrNoCurrentPrice
	}
	return rec, nil
}

func (uc *pricingUseCase) ListHistory(ctx context.Context, f *dto.PriceFilters) ([]model.PriceRecord, int, error) {
	return uc.repo.ListHistory(ctx, f)
}
