package model

// Part is the catalog identity of a stock-keeping unit plus its control
// thresholds. The core never writes parts; thresholds can change at any time
// through catalog management, so they are always re-read per request and
// never cached.
type Part struct {
	BaseModel
	Code          string `db:"code" json:"code"`
	Name          string `db:"name" json:"name"`
	UnitOfMeasure string `db:"unit_of_measure" json:"unit_of_measure"`
	MinimumStock  int64  `db:"minimum_stock" json:"minimum_stock"`
	MaximumStock  *int64 `db:"maximum_stock" json:"maximum_stock"` // Nullable, no upper bound when nil
	ReorderPoint  int64  `db:"reorder_point" json:"reorder_point"`
	IsActive      bool   `db:"is_active" json:"is_active"`
}

// StockStatus classifies a part's aggregate on-hand quantity against its
// thresholds.
type StockStatus string

const (
	StockStatusOutOfStock StockStatus = "out_of_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusNormal     StockStatus = "normal"
	StockStatusExcess     StockStatus = "excess_stock"
)
