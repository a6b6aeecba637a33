package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "KRW"

// Price types carried over from the catalog's pricing conventions.
const (
	PriceTypePurchase = "purchase"
	PriceTypeSale     = "sale"
	PriceTypeStandard = "standard"
	PriceTypeAverage  = "average"
)

// PriceRecord is a priced offer for a part from a supplier. Rows are
// immutable except for the is_current flag: inserting a new current price
// atomically clears the flag on the previous one, so a fixed
// (part_id, supplier_id, price_type) key has at most one current row.
type PriceRecord struct {
	ID             string          `db:"id" json:"id"`
	PartID         string          `db:"part_id" json:"part_id"`
	SupplierID     string          `db:"supplier_id" json:"supplier_id"`
	PriceType      string          `db:"price_type" json:"price_type"`
	UnitPrice      decimal.Decimal `db:"unit_price" json:"unit_price"`
	Currency       string          `db:"currency" json:"currency"`
	EffectiveFrom  time.Time       `db:"effective_from" json:"effective_from"`
	EffectiveUntil *time.Time      `db:"effective_until" json:"effective_until"` // Nil means open-ended
	IsCurrent      bool            `db:"is_current" json:"is_current"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// NewPriceRecord validates the effective window: when an until date is
// given it must be strictly after the from date.
func NewPriceRecord(id, partID, supplierID, priceType string, unitPrice decimal.Decimal, currency string, effectiveFrom time.Time, effectiveUntil *time.Time) (*PriceRecord, error) {
	if unitPrice.IsNegative() {
		return nil, ErrInvalidUnitCost
	}
	if effectiveUntil != nil && !effectiveUntil.After(effectiveFrom) {
		return nil, ErrPriceWindowConflict
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	if priceType == "" {
		priceType = PriceTypePurchase
	}
	return &PriceRecord{
		ID:             id,
		PartID:         partID,
		SupplierID:     supplierID,
		PriceType:      priceType,
		UnitPrice:      unitPrice,
		Currency:       currency,
		EffectiveFrom:  effectiveFrom,
		EffectiveUntil: effectiveUntil,
		IsCurrent:      true,
		CreatedAt:      time.Now(),
	}, nil
}
