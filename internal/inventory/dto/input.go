package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecordInboundInput struct {
	PartID          string
	SupplierID      string
	Quantity        int64
	UnitCost        decimal.Decimal
	Currency        string
	ReferenceNumber string
	Location        string
	LotNumber       string
	ReceivedAt      time.Time
	ExpiryDate      *time.Time

	// RecordPrice opportunistically registers the receipt's unit cost as the
	// supplier's current price of PriceType, effective from ReceivedAt.
	RecordPrice         bool
	PriceType           string
	PriceEffectiveUntil *time.Time
}

type CreateOutboundInput struct {
	PartID      string
	Requester   string
	Quantity    int64
	RequestedAt time.Time
}
