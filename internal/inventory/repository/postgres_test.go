package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/fekuna/partstock-inventory-service/internal/inventory"
	"github.com/fekuna/partstock-inventory-service/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func getPostgresDB(t *testing.T) *sqlx.DB {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=postgres dbname=partstock_test sslmode=disable"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("PostgreSQL not available: %v", err)
	}
	return db
}

func seedPart(t *testing.T, db *sqlx.DB) string {
	id := uuid.New().String()
	_, err := db.Exec(`
		INSERT INTO parts (id, code, name, reorder_point, is_active)
		VALUES ($1, $2, 'Test Part', 10, TRUE)`,
		id, "TEST-"+id[:8])
	if err != nil {
		t.Fatalf("seed part: %v", err)
	}
	return id
}

func seedSupplier(t *testing.T, db *sqlx.DB) string {
	id := uuid.New().String()
	_, err := db.Exec(`INSERT INTO suppliers (id, name) VALUES ($1, 'Test Supplier')`, id)
	if err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return id
}

func seedLot(t *testing.T, db *sqlx.DB, partID string, qty int64, expiry *time.Time) string {
	id := uuid.New().String()
	_, err := db.Exec(`
		INSERT INTO inventory_lots (id, part_id, location, lot_number, quantity, expiry_date)
		VALUES ($1, $2, '', $3, $4, $5)`,
		id, partID, "L-"+id[:8], qty, expiry)
	if err != nil {
		t.Fatalf("seed lot: %v", err)
	}
	return id
}

func TestApplyDelta_GuardsNegativeQuantity(t *testing.T) {
	db := getPostgresDB(t)
	defer db.Close()

	ctx := context.Background()
	repo := NewPGRepository(db)
	partID := seedPart(t, db)
	lotID := seedLot(t, db, partID, 5, nil)

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ApplyDelta(ctx, lotID, -6, nil, time.Now()); !errors.Is(err, model.ErrNegativeStock) {
		t.Fatalf("overdraw: expected ErrNegativeStock, got %v", err)
	}

	lot, err := tx.ApplyDelta(ctx, lotID, -5, nil, time.Now())
	if err != nil {
		t.Fatalf("exact depletion: %v", err)
	}
	if lot.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", lot.Quantity)
	}
}

func TestApplyDelta_UpdatesAverageCost(t *testing.T) {
	db := getPostgresDB(t)
	defer db.Close()

	ctx := context.Background()
	repo := NewPGRepository(db)
	partID := seedPart(t, db)
	lotID := seedLot(t, db, partID, 10, nil)

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback()

	cost := decimal.RequireFromString("110")
	lot, err := tx.ApplyDelta(ctx, lotID, 5, &cost, time.Now())
	if err != nil {
		t.Fatalf("apply delta: %v", err)
	}
	if lot.Quantity != 15 {
		t.Errorf("expected quantity 15, got %d", lot.Quantity)
	}
	if !lot.AverageUnitCost.Valid || !lot.AverageUnitCost.Decimal.Equal(cost) {
		t.Errorf("expected average cost 110, got %v", lot.AverageUnitCost)
	}

	// A nil cost leaves the stored average alone.
	lot, err = tx.ApplyDelta(ctx, lotID, -3, nil, time.Now())
	if err != nil {
		t.Fatalf("apply delta without cost: %v", err)
	}
	if !lot.AverageUnitCost.Decimal.Equal(cost) {
		t.Errorf("cost should be untouched, got %s", lot.AverageUnitCost.Decimal)
	}
}

func TestListLotsForUpdate_FEFOOrder(t *testing.T) {
	db := getPostgresDB(t)
	defer db.Close()

	ctx := context.Background()
	repo := NewPGRepository(db)
	partID := seedPart(t, db)

	far := time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC)
	near := time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)
	neverID := seedLot(t, db, partID, 5, nil)
	farID := seedLot(t, db, partID, 5, &far)
	nearID := seedLot(t, db, partID, 5, &near)

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback()

	lots, err := tx.ListLotsForUpdate(ctx, partID)
	if err != nil {
		t.Fatalf("list lots: %v", err)
	}
	if len(lots) != 3 {
		t.Fatalf("expected 3 lots, got %d", len(lots))
	}
	if lots[0].ID != nearID || lots[1].ID != farID || lots[2].ID != neverID {
		t.Errorf("wrong FEFO order: %s, %s, %s", lots[0].ID, lots[1].ID, lots[2].ID)
	}
}

func TestInsertInboundEvent_DuplicateReference(t *testing.T) {
	db := getPostgresDB(t)
	defer db.Close()

	ctx := context.Background()
	repo := NewPGRepository(db)
	partID := seedPart(t, db)
	supplierID := seedSupplier(t, db)

	ref := "REF-" + uuid.New().String()[:8]
	event := func() *model.InboundEvent {
		e, err := model.NewInboundEvent(
			uuid.New().String(), partID, supplierID,
			10, decimal.RequireFromString("100"), "",
			ref, "", "", time.Now(), nil,
		)
		if err != nil {
			t.Fatalf("build event: %v", err)
		}
		return e
	}

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	if err := tx.InsertInboundEvent(ctx, event()); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	exists, err := repo.InboundReferenceExists(ctx, ref)
	if err != nil || !exists {
		t.Fatalf("reference should exist: exists=%v err=%v", exists, err)
	}

	tx2, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin second tx: %v", err)
	}
	defer tx2.Rollback()

	var dup *model.DuplicateEventError
	if err := tx2.InsertInboundEvent(ctx, event()); !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateEventError, got %v", err)
	}
	if dup.ReferenceNumber != ref {
		t.Errorf("expected reference %s in error, got %s", ref, dup.ReferenceNumber)
	}
}

func TestDeactivateCurrentPrices_ScopedToKey(t *testing.T) {
	db := getPostgresDB(t)
	defer db.Close()

	ctx := context.Background()
	repo := NewPGRepository(db)
	partID := seedPart(t, db)
	supplierID := seedSupplier(t, db)

	insert := func(tx inventory.Tx, priceType string) {
		rec, err := model.NewPriceRecord(
			uuid.New().String(), partID, supplierID, priceType,
			decimal.RequireFromString("100"), "", time.Now(), nil,
		)
		if err != nil {
			t.Fatalf("build record: %v", err)
		}
		if err := tx.InsertPriceRecord(ctx, rec); err != nil {
			t.Fatalf("insert record: %v", err)
		}
	}

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	insert(tx, model.PriceTypePurchase)
	insert(tx, model.PriceTypeSale)
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	tx2, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin second tx: %v", err)
	}
	if err := tx2.DeactivateCurrentPrices(ctx, partID, supplierID, model.PriceTypePurchase); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := tx2.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	var current []string
	err = db.Select(&current, `
		SELECT price_type FROM price_records
		WHERE part_id = $1 AND supplier_id = $2 AND is_current`, partID, supplierID)
	if err != nil {
		t.Fatalf("query current: %v", err)
	}
	if len(current) != 1 || current[0] != model.PriceTypeSale {
		t.Errorf("only the sale price should stay current, got %v", current)
	}
}
