package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLot is one physically or administratively distinct quantity of a
// part. Lots are created on first receipt against a new
// (part_id, location, lot_number) key and never deleted; a lot at quantity 0
// stays behind as a historical record.
//
// Location and LotNumber use an empty string for "unlocated"/"unlotted" stock
// rather than NULL: the (part_id, location, lot_number) unique key depends on
// the sentinel comparing equal, which NULLs in Postgres do not.
type InventoryLot struct {
	ID              string              `db:"id" json:"id"`
	PartID          string              `db:"part_id" json:"part_id"`
	Location        string              `db:"location" json:"location"`
	LotNumber       string              `db:"lot_number" json:"lot_number"`
	Quantity        int64               `db:"quantity" json:"quantity"`
	AverageUnitCost decimal.NullDecimal `db:"average_unit_cost" json:"average_unit_cost"` // Null only while quantity is 0 with no cost history
	ExpiryDate      *time.Time          `db:"expiry_date" json:"expiry_date"`
	LastMovementAt  time.Time           `db:"last_movement_at" json:"last_movement_at"`
	CreatedAt       time.Time           `db:"created_at" json:"created_at"`
}

// TotalValue is the derived valuation quantity * average_unit_cost. Zero when
// no cost history exists.
func (l *InventoryLot) TotalValue() decimal.Decimal {
	if !l.AverageUnitCost.Valid {
		return decimal.Zero
	}
	return l.AverageUnitCost.Decimal.Mul(decimal.NewFromInt(l.Quantity))
}
