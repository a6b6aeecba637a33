package inventory

import (
	"context"
	"time"

	"github.com/fekuna/partstock-inventory-service/internal/inventory/dto"
	"github.com/fekuna/partstock-inventory-service/internal/model"
)

type UseCase interface {
	// RecordInbound applies a receipt to the lot ledger: find-or-create the
	// target lot, recompute its weighted-average cost, and optionally record
	// the supplier price, all in one transaction.
	RecordInbound(ctx context.Context, input *dto.RecordInboundInput) (*model.InventoryLot, error)

	// RecordOutbound issues quantity of a part immediately, depleting lots in
	// FEFO order. The whole depletion commits or none of it does.
	RecordOutbound(ctx context.Context, partID string, quantity int64, asOf time.Time) ([]model.LotAllocation, error)

	// Outbound request lifecycle. Only the transition into issued moves stock.
	CreateOutboundRequest(ctx context.Context, input *dto.CreateOutboundInput) (*model.OutboundEvent, error)
	ApproveOutbound(ctx context.Context, id string) (*model.OutboundEvent, error)
	RejectOutbound(ctx context.Context, id string) (*model.OutboundEvent, error)
	CancelOutbound(ctx context.Context, id string) (*model.OutboundEvent, error)
	IssueOutbound(ctx context.Context, id string, asOf time.Time) ([]model.LotAllocation, error)

	GetStockStatus(ctx context.Context, partID string) (*dto.StockStatusInfo, error)
	ListLotsForPart(ctx context.Context, partID string) ([]model.InventoryLot, error)
	ListLowStock(ctx context.Context, page, pageSize int) ([]dto.LowStockItem, int, error)
	ListInboundEvents(ctx context.Context, f *dto.InboundFilters) ([]model.InboundEvent, int, error)
	ListOutboundEvents(ctx context.Context, f *dto.OutboundFilters) ([]model.OutboundEvent, int, error)
	ListAllocations(ctx context.Context, outboundEventID string) ([]model.LotAllocation, error)
}
