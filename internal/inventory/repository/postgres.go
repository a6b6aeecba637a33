package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/partstock-inventory-service/internal/inventory"
	"github.com/fekuna/partstock-inventory-service/internal/inventory/dto"
	"github.com/fekuna/partstock-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) BeginTx(ctx context.Context) (inventory.Tx, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "begin tx")
	}
	return &pgTx{tx: tx}, nil
}

func (r *PGRepository) ListLotsForPart(ctx context.Context, partID string) ([]model.InventoryLot, error) {
	lots := []model.InventoryLot{}
	query := `
        SELECT * FROM inventory_lots
        WHERE part_id = $1
        ORDER BY expiry_date ASC NULLS LAST, id ASC
    `
	if err := r.DB.SelectContext(ctx, &lots, query, partID); err != nil {
		return nil, pkgerrors.Wrap(err, "list lots")
	}
	return lots, nil
}

func (r *PGRepository) TotalQuantity(ctx context.Context, partID string) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(quantity), 0) FROM inventory_lots WHERE part_id = $1`
	if err := r.DB.GetContext(ctx, &total, query, partID); err != nil {
		return 0, pkgerrors.Wrap(err, "total quantity")
	}
	return total, nil
}

func (r *PGRepository) InboundReferenceExists(ctx context.Context, referenceNumber string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM inbound_events WHERE reference_number = $1)`
	if err := r.DB.GetContext(ctx, &exists, query, referenceNumber); err != nil {
		return false, pkgerrors.Wrap(err, "inbound reference exists")
	}
	return exists, nil
}

func (r *PGRepository) GetOutboundEvent(ctx context.Context, id string) (*model.OutboundEvent, error) {
	var e model.OutboundEvent
	query := `SELECT * FROM outbound_events WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &e, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "get outbound event")
	}
	return &e, nil
}

func (r *PGRepository) CreateOutboundEvent(ctx context.Context, e *model.OutboundEvent) error {
	query := `
        INSERT INTO outbound_events (id, part_id, requester, quantity, requested_at, issued_at, status, created_at, updated_at)
        VALUES (:id, :part_id, :requester, :quantity, :requested_at, :issued_at, :status, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, e)
	return pkgerrors.Wrap(err, "create outbound event")
}

func (r *PGRepository) ListInboundEvents(ctx context.Context, f *dto.InboundFilters) ([]model.InboundEvent, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.PartID != "" {
		conditions = append(conditions, "part_id = :part_id")
		args["part_id"] = f.PartID
	}
	if f.SupplierID != "" {
		conditions = append(conditions, "supplier_id = :supplier_id")
		args["supplier_id"] = f.SupplierID
	}
	if f.ReferenceNumber != "" {
		conditions = append(conditions, "reference_number = :reference_number")
		args["reference_number"] = f.ReferenceNumber
	}
	if f.StartDate != nil {
		conditions = append(conditions, "received_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "received_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	count, err := r.countNamed(ctx, "SELECT count(*) FROM inbound_events"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM inbound_events" + whereClause + " ORDER BY received_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "list inbound events")
	}
	defer nstmt.Close()

	items := []model.InboundEvent{}
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) ListOutboundEvents(ctx context.Context, f *dto.OutboundFilters) ([]model.OutboundEvent, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.PartID != "" {
		conditions = append(conditions, "part_id = :part_id")
		args["part_id"] = f.PartID
	}
	if f.Requester != "" {
		conditions = append(conditions, "requester = :requester")
		args["requester"] = f.Requester
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	count, err := r.countNamed(ctx, "SELECT count(*) FROM outbound_events"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM outbound_events" + whereClause + " ORDER BY requested_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "list outbound events")
	}
	defer nstmt.Close()

	items := []model.OutboundEvent{}
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) ListAllocations(ctx context.Context, outboundEventID string) ([]model.LotAllocation, error) {
	allocations := []model.LotAllocation{}
	query := `
        SELECT * FROM outbound_allocations
        WHERE outbound_event_id = $1
        ORDER BY created_at ASC, lot_id ASC
    `
	if err := r.DB.SelectContext(ctx, &allocations, query, outboundEventID); err != nil {
		return nil, pkgerrors.Wrap(err, "list allocations")
	}
	return allocations, nil
}

func (r *PGRepository) ListLowStock(ctx context.Context, page, pageSize int) ([]dto.LowStockItem, int, error) {
	baseQuery := `
        FROM parts p
        LEFT JOIN inventory_lots l ON l.part_id = p.id
        WHERE p.is_active
        GROUP BY p.id, p.code, p.name, p.unit_of_measure, p.reorder_point
        HAVING COALESCE(SUM(l.quantity), 0) <= p.reorder_point
    `

	var count int
	countQuery := `SELECT count(*) FROM (SELECT p.id ` + baseQuery + `) sub`
	if err := r.DB.GetContext(ctx, &count, countQuery); err != nil {
		return nil, 0, pkgerrors.Wrap(err, "count low stock")
	}

	query := `
        SELECT p.id AS part_id, p.code, p.name, p.unit_of_measure,
               COALESCE(SUM(l.quantity), 0) AS total_quantity, p.reorder_point
    ` + baseQuery + ` ORDER BY COALESCE(SUM(l.quantity), 0) - p.reorder_point ASC`
	if pageSize > 0 {
		offset := (page - 1) * pageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, offset)
	}

	items := []dto.LowStockItem{}
	if err := r.DB.SelectContext(ctx, &items, query); err != nil {
		return nil, 0, pkgerrors.Wrap(err, "list low stock")
	}
	return items, count, nil
}

func (r *PGRepository) countNamed(ctx context.Context, query string, args map[string]interface{}) (int, error) {
	rows, err := r.DB.NamedQueryContext(ctx, query, args)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "count query")
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		rows.Scan(&count)
	}
	return count, nil
}

// pgTx carries one database transaction through a ledger mutation.
type pgTx struct {
	tx *sqlx.Tx
}

func (t *pgTx) InsertInboundEvent(ctx context.Context, e *model.InboundEvent) error {
	query := `
        INSERT INTO inbound_events (
            id, part_id, supplier_id, quantity, unit_cost, currency,
            received_at, reference_number, location, lot_number, expiry_date, created_at
        )
        VALUES (
            :id, :part_id, :supplier_id, :quantity, :unit_cost, :currency,
            :received_at, :reference_number, :location, :lot_number, :expiry_date, :created_at
        )
    `
	_, err := t.tx.NamedExecContext(ctx, query, e)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return &model.DuplicateEventError{ReferenceNumber: e.ReferenceNumber}
		}
		return pkgerrors.Wrap(err, "insert inbound event")
	}
	return nil
}

func (t *pgTx) FindLotForUpdate(ctx context.Context, partID, location, lotNumber string) (*model.InventoryLot, error) {
	var lot model.InventoryLot
	query := `
        SELECT * FROM inventory_lots
        WHERE part_id = $1 AND location = $2 AND lot_number = $3
        FOR UPDATE
    `
	err := t.tx.GetContext(ctx, &lot, query, partID, location, lotNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "find lot for update")
	}
	return &lot, nil
}

func (t *pgTx) ListLotsForUpdate(ctx context.Context, partID string) ([]model.InventoryLot, error) {
	lots := []model.InventoryLot{}
	// FEFO order is part of the contract: soonest expiry first, unlotted
	// (never-expiring) stock last, lot id as the stable tie-break.
	query := `
        SELECT * FROM inventory_lots
        WHERE part_id = $1
        ORDER BY expiry_date ASC NULLS LAST, id ASC
        FOR UPDATE
    `
	if err := t.tx.SelectContext(ctx, &lots, query, partID); err != nil {
		return nil, pkgerrors.Wrap(err, "list lots for update")
	}
	return lots, nil
}

func (t *pgTx) CreateLot(ctx context.Context, lot *model.InventoryLot) error {
	query := `
        INSERT INTO inventory_lots (
            id, part_id, location, lot_number, quantity, average_unit_cost,
            expiry_date, last_movement_at, created_at
        )
        VALUES (
            :id, :part_id, :location, :lot_number, :quantity, :average_unit_cost,
            :expiry_date, :last_movement_at, :created_at
        )
    `
	_, err := t.tx.NamedExecContext(ctx, query, lot)
	return pkgerrors.Wrap(err, "create lot")
}

func (t *pgTx) ApplyDelta(ctx context.Context, lotID string, delta int64, newAverageCost *decimal.Decimal, at time.Time) (*model.InventoryLot, error) {
	var lot model.InventoryLot
	// The WHERE guard makes a negative result impossible even if a caller
	// skipped the sufficiency check; zero rows on a locked, existing lot
	// means exactly that.
	query := `
        UPDATE inventory_lots
        SET quantity = quantity + $2,
            average_unit_cost = COALESCE($3, average_unit_cost),
            last_movement_at = $4
        WHERE id = $1 AND quantity + $2 >= 0
        RETURNING *
    `
	var cost interface{}
	if newAverageCost != nil {
		cost = *newAverageCost
	}
	err := t.tx.GetContext(ctx, &lot, query, lotID, delta, cost, at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNegativeStock
		}
		return nil, pkgerrors.Wrap(err, "apply delta")
	}
	return &lot, nil
}

func (t *pgTx) GetOutboundEventForUpdate(ctx context.Context, id string) (*model.OutboundEvent, error) {
	var e model.OutboundEvent
	query := `SELECT * FROM outbound_events WHERE id = $1 FOR UPDATE`
	err := t.tx.GetContext(ctx, &e, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "get outbound event for update")
	}
	return &e, nil
}

func (t *pgTx) UpdateOutboundEvent(ctx context.Context, e *model.OutboundEvent) error {
	query := `
        UPDATE outbound_events
        SET status = :status, issued_at = :issued_at, updated_at = :updated_at
        WHERE id = :id
    `
	_, err := t.tx.NamedExecContext(ctx, query, e)
	return pkgerrors.Wrap(err, "update outbound event")
}

func (t *pgTx) InsertOutboundEvent(ctx context.Context, e *model.OutboundEvent) error {
	query := `
        INSERT INTO outbound_events (id, part_id, requester, quantity, requested_at, issued_at, status, created_at, updated_at)
        VALUES (:id, :part_id, :requester, :quantity, :requested_at, :issued_at, :status, :created_at, :updated_at)
    `
	_, err := t.tx.NamedExecContext(ctx, query, e)
	return pkgerrors.Wrap(err, "insert outbound event")
}

func (t *pgTx) InsertAllocations(ctx context.Context, allocations []model.LotAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	query := `
        INSERT INTO outbound_allocations (outbound_event_id, lot_id, quantity, created_at)
        VALUES (:outbound_event_id, :lot_id, :quantity, :created_at)
    `
	for i := range allocations {
		if _, err := t.tx.NamedExecContext(ctx, query, &allocations[i]); err != nil {
			return pkgerrors.Wrap(err, "insert allocation")
		}
	}
	return nil
}

func (t *pgTx) DeactivateCurrentPrices(ctx context.Context, partID, supplierID, priceType string) error {
	query := `
        UPDATE price_records
        SET is_current = FALSE
        WHERE part_id = $1 AND supplier_id = $2 AND price_type = $3 AND is_current
    `
	_, err := t.tx.ExecContext(ctx, query, partID, supplierID, priceType)
	return pkgerrors.Wrap(err, "deactivate current prices")
}

func (t *pgTx) InsertPriceRecord(ctx context.Context, rec *model.PriceRecord) error {
	query := `
        INSERT INTO price_records (
            id, part_id, supplier_id, price_type, unit_price, currency,
            effective_from, effective_until, is_current, created_at
        )
        VALUES (
            :id, :part_id, :supplier_id, :price_type, :unit_price, :currency,
            :effective_from, :effective_until, :is_current, :created_at
        )
    `
	_, err := t.tx.NamedExecContext(ctx, query, rec)
	return pkgerrors.Wrap(err, "insert price record")
}

func (t *pgTx) Commit() error {
	return t.tx.Commit()
}

func (t *pgTx) Rollback() error {
	return t.tx.Rollback()
}
