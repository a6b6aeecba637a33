package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/partstock-inventory-service/internal/catalog"
	"github.com/fekuna/partstock-inventory-service/internal/model"
	"github.com/fekuna/partstock-inventory-service/pkg/cache"
	"github.com/fekuna/partstock-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type catalogUseCase struct {
	repo        catalog.Repository
	cache       *cache.RedisClient
	supplierTTL time.Duration
	logger      logger.ZapLogger
}

func NewCatalogUseCase(repo catalog.Repository, cache *cache.RedisClient, supplierTTL time.Duration, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		repo:        repo,
		cache:       cache,
		supplierTTL: supplierTTL,
		logger:      log,
	}
}

func (uc *catalogUseCase) GetPart(ctx context.Context, id string) (*model.Part, error) {
	// Thresholds are editable externally at any time, so no caching here.
	part, err := uc.repo.FindPartByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, model.ErrUnknownPart
	}
	return part, nil
}

func (uc *catalogUseCase) RequireActivePart(ctx context.Context, id string) (*model.Part, error) {
	part, err := uc.GetPart(ctx, id)
	if err != nil {
		return nil, err
	}
	if !part.IsActive {
		return nil, model.ErrInvalidPart
	}
	return part, nil
}

func supplierCacheKey(id string) string {
	return fmt.Sprintf("catalog:supplier:%s", id)
}

func (uc *catalogUseCase) RequireSupplier(ctx context.Context, id string) error {
	if uc.cache != nil {
		if val, ok, err := uc.cache.Get(ctx, supplierCacheKey(id)); err != nil {
			uc.logger.Warn("supplier cache read failed", zap.Error(err))
		} else if ok && val == "1" {
			return nil
		}
	}

	exists, err := uc.repo.SupplierExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		// Negative results are never cached; a supplier created moments
		// later must resolve immediately.
		return model.ErrUnknownSupplier
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, supplierCacheKey(id), "1", uc.supplierTTL); err != nil {
			uc.logger.Warn("supplier cache write failed", zap.Error(err))
		}
	}
	return nil
}

func (uc *catalogUseCase) InvalidateSupplier(ctx context.Context, id string) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.Delete(ctx, supplierCacheKey(id))
}
