package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/partstock-inventory-service/internal/model"
	"github.com/fekuna/partstock-inventory-service/internal/pricing/dto"
	"github.com/jmoiron/sqlx"
	pkgerrors "github.com/pkg/errors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) SetCurrentPrice(ctx context.Context, rec *model.PriceRecord) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return pkgerrors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	// 1. Close out the previous current row(s) for the key
	deactivate := `
        UPDATE price_records
        SET is_current = FALSE
        WHERE part_id = $1 AND supplier_id = $2 AND price_type = $3 AND is_current
    `
	if _, err := tx.ExecContext(ctx, deactivate, rec.PartID, rec.SupplierID, rec.PriceType); err != nil {
		return pkgerrors.Wrap(err, "deactivate current prices")
	}

	// 2. Insert the new current row
	insert := `
        INSERT INTO price_records (
            id, part_id, supplier_id, price_type, unit_price, currency,
            effective_from, effective_until, is_current, created_at
        )
        VALUES (
            :id, :part_id, :supplier_id, :price_type, :unit_price, :currency,
            :effective_from, :effective_until, :is_current, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insert, rec); err != nil {
		return pkgerrors.Wrap(err, "insert price record")
	}

	return tx.Commit()
}

func (r *PGRepository) FindCurrent(ctx context.Context, partID, supplierID, priceType string) (*model.PriceRecord, error) {
	var rec model.PriceRecord
	query := `
        SELECT * FROM price_records
        WHERE part_id = $1 AND supplier_id = $2 AND price_type = $3 AND is_current
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &rec, query, partID, supplierID, priceType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "find current price")
	}
	return &rec, nil
}

func (r *PGRepository) ListHistory(ctx context.Context, f *dto.PriceFilters) ([]model.PriceRecord, int, error) {
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
	if f.PriceType != "" {
		conditions = append(conditions, "price_type = :price_type")
		args["price_type"] = f.PriceType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM price_records" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "count price history")
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM price_records" + whereClause + " ORDER BY effective_from DESC, created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "list price history")
	}
	defer nstmt.Close()

	items := []model.PriceRecord{}
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}
