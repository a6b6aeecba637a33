package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type SetPriceInput struct {
	PartID         string
	SupplierID     string
	PriceType      string
	UnitPrice      decimal.Decimal
	Currency       string
	EffectiveFrom  time.Time
	EffectiveUntil *time.Time
}

type PriceFilters struct {
	PartID     string
	SupplierID string
	PriceType  string
	Page       int
	PageSize   int
}
