package dto

import (
	"time"

	"github.com/fekuna/partstock-inventory-service/internal/model"
)

// StockStatusInfo is the dashboard view of a part's aggregate stock.
type StockStatusInfo struct {
	PartID        string            `json:"part_id"`
	PartCode      string            `json:"part_code"`
	TotalQuantity int64             `json:"total_quantity"`
	Status        model.StockStatus `json:"status"`
	ReorderPoint  int64             `json:"reorder_point"`
	MaximumStock  *int64            `json:"maximum_stock"`
}

// LowStockItem is one row of the replenishment listing: a part whose
// aggregate quantity is at or below its reorder point.
type LowStockItem struct {
	PartID        string `db:"part_id" json:"part_id"`
	Code          string `db:"code" json:"code"`
	Name          string `db:"name" json:"name"`
	UnitOfMeasure string `db:"unit_of_measure" json:"unit_of_measure"`
	TotalQuantity int64  `db:"total_quantity" json:"total_quantity"`
	ReorderPoint  int64  `db:"reorder_point" json:"reorder_point"`
}

type InboundFilters struct {
	PartID          string
	SupplierID      string
	ReferenceNumber string
	StartDate       *time.Time
	EndDate         *time.Time
	Page            int
	PageSize        int
}

type OutboundFilters struct {
	PartID    string
	Requester string
	Status    string
	Page      int
	PageSize  int
}
