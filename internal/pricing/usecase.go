package pricing

import (
	"context"

	"github.com/fekuna/partstock-inventory-service/internal/model"
	"github.com/fekuna/partstock-inventory-service/internal/pricing/dto"
)

type UseCase interface {
	// SetCurrentPrice registers a new current price for a
	// (part, supplier, price_type) key, closing out the previous current row
	// atomically.
	SetCurrentPrice(ctx context.Context, input *dto.SetPriceInput) (*model.PriceRecord, error)

	// GetCurrentPrice returns model.ErrNoCurrentPrice when no current row
	// exists for the key.
	GetCurrentPrice(ctx context.Context, partID, supplierID, priceType string) (*model.PriceRecord, error)

	ListHistory(ctx context.Context, f *dto.PriceFilters) ([]model.PriceRecord, int, error)
}
