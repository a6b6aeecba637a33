package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/partstock-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
	pkgerrors "github.com/pkg/errors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindPartByID(ctx context.Context, id string) (*model.Part, error) {
	var part model.Part
	query := `SELECT * FROM parts WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &part, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "find part")
	}
	return &part, nil
}

func (r *PGRepository) SupplierExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM suppliers WHERE id = $1 AND is_active)`
	if err := r.DB.GetContext(ctx, &exists, query, id); err != nil {
		return false, pkgerrors.Wrap(err, "supplier exists")
	}
	return exists, nil
}
