package catalog

import (
	"context"

	"github.com/fekuna/partstock-inventory-service/internal/model"
)

type Repository interface {
	// FindPartByID returns nil when no part exists with the id.
	FindPartByID(ctx context.Context, id string) (*model.Part, error)

	// SupplierExists checks the suppliers table for the id.
	SupplierExists(ctx context.Context, id string) (bool, error)
}
