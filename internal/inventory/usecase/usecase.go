package usecase

import (
	"context"
	"time"

	"github.com/fekuna/partstock-inventory-service/internal/auth"
	"github.com/fekuna/partstock-inventory-service/internal/catalog"
	"github.com/fekuna/partstock-inventory-service/internal/inventory"
	"github.com/fekuna/partstock-inventory-service/internal/inventory/dto"
	"github.com/fekuna/partstock-inventory-service/internal/model"
	"github.com/fekuna/partstock-inventory-service/pkg/logger"
	"github.com/fekuna/partstock-inventory-service/pkg/search"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type inventoryUseCase struct {
	repo    inventory.Repository
	catalog catalog.UseCase
	es      *search.Client
	logger  logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, cat catalog.UseCase, es *search.Client, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:    repo,
		catalog: cat,
		es:      es,
		logger:  log,
	}
}

func (uc *inventoryUseCase) RecordInbound(ctx context.Context, input *dto.RecordInboundInput) (*model.InventoryLot, error) {
	event, err := model.NewInboundEvent(
		uuid.New().String(),
		input.PartID,
		input.SupplierID,
		input.Quantity,
		input.UnitCost,
		input.Currency,
		input.ReferenceNumber,
		input.Location,
		input.LotNumber,
		input.ReceivedAt,
		input.ExpiryDate,
	)
	if err != nil {
		return nil, err
	}

	// Fast-path replay rejection. The unique constraint on reference_number
	// inside the transaction remains the authoritative guard.
	applied, err := uc.repo.InboundReferenceExists(ctx, event.ReferenceNumber)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, &model.DuplicateEventError{ReferenceNumber: event.ReferenceNumber}
	}

	if _, err := uc.catalog.RequireActivePart(ctx, event.PartID); err != nil {
		return nil, err
	}
	if err := uc.catalog.RequireSupplier(ctx, event.SupplierID); err != nil {
		return nil, err
	}

	tx, err := uc.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := tx.InsertInboundEvent(ctx, event); err != nil {
		return nil, err
	}

	lot, err := tx.FindLotForUpdate(ctx, event.PartID, event.Location, event.LotNumber)
	if err != nil {
		return nil, err
	}

	if lot == nil {
		lot = &model.InventoryLot{
			ID:              uuid.New().String(),
			PartID:          event.PartID,
			Location:        event.Location,
			LotNumber:       event.LotNumber,
			Quantity:        event.Quantity,
			AverageUnitCost: decimal.NullDecimal{Decimal: event.UnitCost, Valid: true},
			ExpiryDate:      event.ExpiryDate,
			LastMovementAt:  event.ReceivedAt,
			CreatedAt:       time.Now(),
		}
		if err := tx.CreateLot(ctx, lot); err != nil {
			return nil, err
		}
	} else {
		oldCost := decimal.Zero
		if lot.AverageUnitCost.Valid {
			oldCost = lot.AverageUnitCost.Decimal
		}
		newCost := inventory.NewAverageCost(lot.Quantity, oldCost, event.Quantity, event.UnitCost)

		lot, err = tx.ApplyDelta(ctx, lot.ID, event.Quantity, &newCost, event.ReceivedAt)
		if err != nil {
			return nil, err
		}
	}

	if input.RecordPrice {
		rec, err := model.NewPriceRecord(
			uuid.New().String(),
			event.PartID,
			event.SupplierID,
			input.PriceType,
			event.UnitCost,
			event.Currency,
			event.ReceivedAt,
			input.PriceEffectiveUntil,
		)
		if err != nil {
			return nil, err
		}
		if err := tx.DeactivateCurrentPrices(ctx, rec.PartID, rec.SupplierID, rec.PriceType); err != nil {
			return nil, err
		}
		if err := tx.InsertPriceRecord(ctx, rec); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	uc.logger.Info("inbound recorded",
		zap.String("part_id", event.PartID),
		zap.String("reference", event.ReferenceNumber),
		zap.Int64("quantity", event.Quantity),
		zap.String("lot_id", lot.ID),
	)

	go uc.indexMovement(context.Background(), &movementDocument{
		MovementType: "inbound",
		PartID:       event.PartID,
		Quantity:     event.Quantity,
		Reference:    event.ReferenceNumber,
		LotIDs:       []string{lot.ID},
		OccurredAt:   event.ReceivedAt,
	})

	return lot, nil
}

func (uc *inventoryUseCase) RecordOutbound(ctx context.Context, partID string, quantity int64, asOf time.Time) ([]model.LotAllocation, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}
	if _, err := uc.catalog.RequireActivePart(ctx, partID); err != nil {
		return nil, err
	}

	now := time.Now()
	issuedAt := asOf
	event := &model.OutboundEvent{
		ID:          uuid.New().String(),
		PartID:      partID,
		Requester:   auth.GetUserID(ctx),
		Quantity:    quantity,
		RequestedAt: asOf,
		IssuedAt:    &issuedAt,
		Status:      model.OutboundStatusIssued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := uc.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := tx.InsertOutboundEvent(ctx, event); err != nil {
		return nil, err
	}

	allocations, err := uc.depleteLots(ctx, tx, event, asOf)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	uc.logMovementIssued(event, allocations)
	return allocations, nil
}

func (uc *inventoryUseCase) CreateOutboundRequest(ctx context.Context, input *dto.CreateOutboundInput) (*model.OutboundEvent, error) {
	if input.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}
	if _, err := uc.catalog.RequireActivePart(ctx, input.PartID); err != nil {
		return nil, err
	}

	requester := input.Requester
	if requester == "" {
		requester = auth.GetUserID(ctx)
	}
	requestedAt := input.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = time.Now()
	}

	now := time.Now()
	event := &model.OutboundEvent{
		ID:          uuid.New().String(),
		PartID:      input.PartID,
		Requester:   requester,
		Quantity:    input.Quantity,
		RequestedAt: requestedAt,
		Status:      model.OutboundStatusRequested,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.CreateOutboundEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (uc *inventoryUseCase) ApproveOutbound(ctx context.Context, id string) (*model.OutboundEvent, error) {
	return uc.transition(ctx, id, model.OutboundStatusApproved)
}

func (uc *inventoryUseCase) RejectOutbound(ctx context.Context, id string) (*model.OutboundEvent, error) {
	return uc.transition(ctx, id, model.OutboundStatusRejected)
}

func (uc *inventoryUseCase) CancelOutbound(ctx context.Context, id string) (*model.OutboundEvent, error) {
	return uc.transition(ctx, id, model.OutboundStatusCancelled)
}

// transition applies a status-only lifecycle change under a row lock so two
// concurrent approvals (or an approval racing a cancel) cannot both win.
func (uc *inventoryUseCase) transition(ctx context.Context, id string, next model.OutboundStatus) (*model.OutboundEvent, error) {
	tx, err := uc.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	event, err := tx.GetOutboundEventForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, model.ErrUnknownEvent
	}
	if !event.CanTransition(next) {
		return nil, model.ErrInvalidTransition
	}

	event.Status = next
	event.UpdatedAt = time.Now()
	if err := tx.UpdateOutboundEvent(ctx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return event, nil
}

func (uc *inventoryUseCase) IssueOutbound(ctx context.Context, id string, asOf time.Time) ([]model.LotAllocation, error) {
	tx, err := uc.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	event, err := tx.GetOutboundEventForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, model.ErrUnknownEvent
	}
	if !event.CanTransition(model.OutboundStatusIssued) {
		return nil, model.ErrInvalidTransition
	}

	allocations, err := uc.depleteLots(ctx, tx, event, asOf)
	if err != nil {
		return nil, err
	}

	event.Status = model.OutboundStatusIssued
	event.IssuedAt = &asOf
	event.UpdatedAt = time.Now()
	if err := tx.UpdateOutboundEvent(ctx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	uc.logMovementIssued(event, allocations)
	return allocations, nil
}

// depleteLots walks the part's lots in FEFO order and deducts the event's
// quantity. Every lot row is locked by ListLotsForUpdate before any delta is
// written, and sufficiency is validated against the locked quantities first,
// so a shortfall aborts without touching a single lot.
func (uc *inventoryUseCase) depleteLots(ctx context.Context, tx inventory.Tx, event *model.OutboundEvent, asOf time.Time) ([]model.LotAllocation, error) {
	lots, err := tx.ListLotsForUpdate(ctx, event.PartID)
	if err != nil {
		return nil, err
	}

	var available int64
	for i := range lots {
		available += lots[i].Quantity
	}
	if available < event.Quantity {
		return nil, &model.InsufficientStockError{
			PartID:    event.PartID,
			Requested: event.Quantity,
			Available: available,
		}
	}

	now := time.Now()
	allocations := []model.LotAllocation{}
	remaining := event.Quantity
	for i := range lots {
		if remaining == 0 {
			break
		}
		take := lots[i].Quantity
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}

		if _, err := tx.ApplyDelta(ctx, lots[i].ID, -take, nil, asOf); err != nil {
			if err == model.ErrNegativeStock {
				// Unreachable after the sufficiency check above; a hit here
				// is a programmer error worth shouting about.
				uc.logger.Error("negative stock during locked depletion",
					zap.String("part_id", event.PartID),
					zap.String("lot_id", lots[i].ID),
					zap.Int64("take", take),
				)
			}
			return nil, err
		}

		allocations = append(allocations, model.LotAllocation{
			OutboundEventID: event.ID,
			LotID:           lots[i].ID,
			Quantity:        take,
			CreatedAt:       now,
		})
		remaining -= take
	}

	if err := tx.InsertAllocations(ctx, allocations); err != nil {
		return nil, err
	}
	return allocations, nil
}

func (uc *inventoryUseCase) GetStockStatus(ctx context.Context, partID string) (*dto.StockStatusInfo, error) {
	part, err := uc.catalog.GetPart(ctx, partID)
	if err != nil {
		return nil, err
	}

	total, err := uc.repo.TotalQuantity(ctx, partID)
	if err != nil {
		return nil, err
	}

	return &dto.StockStatusInfo{
		PartID:        part.ID,
		PartCode:      part.Code,
		TotalQuantity: total,
		Status:        inventory.EvaluateStatus(total, part),
		ReorderPoint:  part.ReorderPoint,
		MaximumStock:  part.MaximumStock,
	}, nil
}

func (uc *inventoryUseCase) ListLotsForPart(ctx context.Context, partID string) ([]model.InventoryLot, error) {
	if _, err := uc.catalog.GetPart(ctx, partID); err != nil {
		return nil, err
	}
	return uc.repo.ListLotsForPart(ctx, partID)
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, page, pageSize int) ([]dto.LowStockItem, int, error) {
	return uc.repo.ListLowStock(ctx, page, pageSize)
}

func (uc *inventoryUseCase) ListInboundEvents(ctx context.Context, f *dto.InboundFilters) ([]model.InboundEvent, int, error) {
	return uc.repo.ListInboundEvents(ctx, f)
}

func (uc *inventoryUseCase) ListOutboundEvents(ctx context.Context, f *dto.OutboundFilters) ([]model.OutboundEvent, int, error) {
	return uc.repo.ListOutboundEvents(ctx, f)
}

func (uc *inventoryUseCase) ListAllocations(ctx context.Context, outboundEventID string) ([]model.LotAllocation, error) {
	event, err := uc.repo.GetOutboundEvent(ctx, outboundEventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, model.ErrUnknownEvent
	}
	return uc.repo.ListAllocations(ctx, outboundEventID)
}

func (uc *inventoryUseCase) logMovementIssued(event *model.OutboundEvent, allocations []model.LotAllocation) {
	lotIDs := make([]string, len(allocations))
	for i, a := range allocations {
		lotIDs[i] = a.LotID
	}

	uc.logger.Info("outbound issued",
		zap.String("part_id", event.PartID),
		zap.String("event_id", event.ID),
		zap.Int64("quantity", event.Quantity),
		zap.Strings("lot_ids", lotIDs),
	)

	go uc.indexMovement(context.Background(), &movementDocument{
		MovementType: "outbound",
		PartID:       event.PartID,
		Quantity:     event.Quantity,
		Reference:    event.ID,
		LotIDs:       lotIDs,
		OccurredAt:   event.UpdatedAt,
	})
}
