package catalog

import (
	"context"

	"github.com/fekuna/partstock-inventory-service/internal/model"
)

type UseCase interface {
	// GetPart resolves a part or returns model.ErrUnknownPart. Thresholds are
	// read fresh on every call; parts are never cached.
	GetPart(ctx context.Context, id string) (*model.Part, error)

	// RequireActivePart is GetPart plus the mutating-caller check: an
	// inactive part yields model.ErrInvalidPart.
	RequireActivePart(ctx context.Context, id string) (*model.Part, error)

	// RequireSupplier returns model.ErrUnknownSupplier when the id does not
	// resolve. Positive results may be served from a TTL-bounded cache.
	RequireSupplier(ctx context.Context, id string) error

	// InvalidateSupplier drops the cached existence entry for a supplier.
	InvalidateSupplier(ctx context.Context, id string) error
}
