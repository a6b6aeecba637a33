package pricing

import (
	"context"

	"github.com/fekuna/partstock-inventory-service/internal/model"
	"github.com/fekuna/partstock-inventory-service/internal/pricing/dto"
)

type Repository interface {
	// SetCurrentPrice clears the is_current flag on every row for the
	// record's (part, supplier, price_type) key and inserts the new row as
	// current, all inside one transaction.
	SetCurrentPrice(ctx context.Context, rec *model.PriceRecord) error

	// FindCurrent returns nil when the key has no current price.
	FindCurrent(ctx context.Context, partID, supplierID, priceType string) (*model.PriceRecord, error)

	ListHistory(ctx context.Context, f *dto.PriceFilters) ([]model.PriceRecord, int, error)
}
