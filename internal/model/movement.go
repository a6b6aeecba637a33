package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InboundEvent is an immutable receipt record. It is written exactly once;
// the unique reference_number is the idempotency key guarding against a
// receipt being applied to the lot ledger twice.
type InboundEvent struct {
	ID              string          `db:"id" json:"id"`
	PartID          string          `db:"part_id" json:"part_id"`
	SupplierID      string          `db:"supplier_id" json:"supplier_id"`
	Quantity        int64           `db:"quantity" json:"quantity"`
	UnitCost        decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	Currency        string          `db:"currency" json:"currency"`
	ReceivedAt      time.Time       `db:"received_at" json:"received_at"`
	ReferenceNumber string          `db:"reference_number" json:"reference_number"`
	Location        string          `db:"location" json:"location"`
	LotNumber       string          `db:"lot_number" json:"lot_number"`
	ExpiryDate      *time.Time      `db:"expiry_date" json:"expiry_date"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// NewInboundEvent validates invariants at construction: positive quantity,
// non-negative unit cost, a non-empty reference number.
func NewInboundEvent(id, partID, supplierID string, quantity int64, unitCost decimal.Decimal, currency, referenceNumber, location, lotNumber string, receivedAt time.Time, expiry *time.Time) (*InboundEvent, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if unitCost.IsNegative() {
		return nil, ErrInvalidUnitCost
	}
	if referenceNumber == "" {
		return nil, ErrMissingReference
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	now := time.Now()
	return &InboundEvent{
		ID:              id,
		PartID:          partID,
		SupplierID:      supplierID,
		Quantity:        quantity,
		UnitCost:        unitCost,
		Currency:        currency,
		ReceivedAt:      receivedAt,
		ReferenceNumber: referenceNumber,
		Location:        location,
		LotNumber:       lotNumber,
		ExpiryDate:      expiry,
		CreatedAt:       now,
	}, nil
}

type OutboundStatus string

const (
	OutboundStatusRequested OutboundStatus = "requested"
	OutboundStatusApproved  OutboundStatus = "approved"
	OutboundStatusIssued    OutboundStatus = "issued"
	OutboundStatusRejected  OutboundStatus = "rejected"
	OutboundStatusCancelled OutboundStatus = "cancelled"
)

// OutboundEvent is an issuance request. Stock only moves on the transition
// into "issued"; rejected and cancelled requests never touch the ledger.
type OutboundEvent struct {
	ID          string         `db:"id" json:"id"`
	PartID      string         `db:"part_id" json:"part_id"`
	Requester   string         `db:"requester" json:"requester"`
	Quantity    int64          `db:"quantity" json:"quantity"`
	RequestedAt time.Time      `db:"requested_at" json:"requested_at"`
	IssuedAt    *time.Time     `db:"issued_at" json:"issued_at"`
	Status      OutboundStatus `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// CanTransition reports whether the lifecycle permits moving to next.
func (e *OutboundEvent) CanTransition(next OutboundStatus) bool {
	switch e.Status {
	case OutboundStatusRequested:
		return next == OutboundStatusApproved || next == OutboundStatusRejected || next == OutboundStatusCancelled
	case OutboundStatusApproved:
		return next == OutboundStatusIssued || next == OutboundStatusCancelled
	default:
		// issued, rejected and cancelled are terminal
		return false
	}
}

// LotAllocation records how much of an issued outbound event was taken from
// one lot. The set of allocations for an event is the audit trail of a FEFO
// depletion.
type LotAllocation struct {
	OutboundEventID string    `db:"outbound_event_id" json:"outbound_event_id"`
	LotID           string    `db:"lot_id" json:"lot_id"`
	Quantity        int64     `db:"quantity" json:"quantity"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
