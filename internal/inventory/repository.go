package inventory

import (
	"context"
	"time"

	"github.com/fekuna/partstock-inventory-service/internal/inventory/dto"
	"github.com/fekuna/partstock-inventory-service/internal/model"
	"github.com/shopspring/decimal"
)

// Repository is the lot ledger plus the append-only movement records.
// Mutations happen through a Tx so that every public operation runs inside
// exactly one database transaction.
type Repository interface {
	BeginTx(ctx context.Context) (Tx, error)

	// Read-only, outside any transaction.
	ListLotsForPart(ctx context.Context, partID string) ([]model.InventoryLot, error)
	TotalQuantity(ctx context.Context, partID string) (int64, error)
	InboundReferenceExists(ctx context.Context, referenceNumber string) (bool, error)
	GetOutboundEvent(ctx context.Context, id string) (*model.OutboundEvent, error)
	CreateOutboundEvent(ctx context.Context, e *model.OutboundEvent) error
	ListInboundEvents(ctx context.Context, f *dto.InboundFilters) ([]model.InboundEvent, int, error)
	ListOutboundEvents(ctx context.Context, f *dto.OutboundFilters) ([]model.OutboundEvent, int, error)
	ListAllocations(ctx context.Context, outboundEventID string) ([]model.LotAllocation, error)
	ListLowStock(ctx context.Context, page, pageSize int) ([]dto.LowStockItem, int, error)
}

// Tx scopes ledger mutations to one database transaction. Row locks taken by
// the ForUpdate reads are held until Commit or Rollback.
type Tx interface {
	// InsertInboundEvent appends the receipt record. A reference number that
	// was already applied surfaces as *model.DuplicateEventError.
	InsertInboundEvent(ctx context.Context, e *model.InboundEvent) error

	// FindLotForUpdate locks and returns the lot for the key, or nil when no
	// lot exists yet.
	FindLotForUpdate(ctx context.Context, partID, location, lotNumber string) (*model.InventoryLot, error)

	// ListLotsForUpdate locks and returns every lot of the part in FEFO
	// order: expiry_date ascending with NULLs last, then lot id ascending.
	ListLotsForUpdate(ctx context.Context, partID string) ([]model.InventoryLot, error)

	CreateLot(ctx context.Context, lot *model.InventoryLot) error

	// ApplyDelta adjusts a lot's quantity, optionally replacing the average
	// unit cost, and stamps last_movement_at. A delta that would drive the
	// quantity negative fails with model.ErrNegativeStock and writes nothing.
	ApplyDelta(ctx context.Context, lotID string, delta int64, newAverageCost *decimal.Decimal, at time.Time) (*model.InventoryLot, error)

	GetOutboundEventForUpdate(ctx context.Context, id string) (*model.OutboundEvent, error)
	UpdateOutboundEvent(ctx context.Context, e *model.OutboundEvent) error
	InsertOutboundEvent(ctx context.Context, e *model.OutboundEvent) error
	InsertAllocations(ctx context.Context, allocations []model.LotAllocation) error

	// Price maintenance inside the inbound transaction (step 5 of a receipt).
	DeactivateCurrentPrices(ctx context.Context, partID, supplierID, priceType string) error
	InsertPriceRecord(ctx context.Context, rec *model.PriceRecord) error

	Commit() error
	Rollback() error
}
