package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuantity signals a requested or received quantity <= 0.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidUnitCost signals a negative unit cost or price.
	ErrInvalidUnitCost = errors.New("unit cost must not be negative")
	// ErrMissingReference signals an inbound event without a reference number.
	ErrMissingReference = errors.New("reference number is required")
	// ErrUnknownPart signals a part_id that does not resolve.
	ErrUnknownPart = errors.New("part not found")
	// ErrInvalidPart signals a mutating operation against an inactive part.
	ErrInvalidPart = errors.New("part is inactive")
	// ErrUnknownSupplier signals a supplier_id that does not resolve.
	ErrUnknownSupplier = errors.New("supplier not found")
	// ErrUnknownEvent signals an outbound event id that does not resolve.
	ErrUnknownEvent = errors.New("outbound event not found")
	// ErrInvalidTransition signals an outbound status change the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid outbound status transition")
	// ErrNegativeStock signals a delta that would drive a lot below zero.
	// Unreachable when sufficiency is validated first; always logged as a
	// programmer error when it surfaces.
	ErrNegativeStock = errors.New("lot quantity would become negative")
	// ErrPriceWindowConflict signals an effective_until not strictly after
	// effective_from.
	ErrPriceWindowConflict = errors.New("price effective window is invalid")
	// ErrNoCurrentPrice signals that a (part, supplier, price_type) key has
	// no current price row.
	ErrNoCurrentPrice = errors.New("no current price for key")
)

// DuplicateEventError reports an inbound reference number that was already
// applied. Callers retrying a receipt treat this as a no-op success.
type DuplicateEventError struct {
	ReferenceNumber string
}

func (e *DuplicateEventError) Error() string {
	return fmt.Sprintf("inbound event with reference %q already applied", e.ReferenceNumber)
}

// InsufficientStockError reports that the aggregate lot quantity cannot cover
// an outbound request. Shortfall is surfaced so an operator can act on it.
type InsufficientStockError struct {
	PartID    string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for part %s: requested %d, available %d (shortfall %d)",
		e.PartID, e.Requested, e.Available, e.Shortfall())
}

func (e *InsufficientStockError) Shortfall() int64 {
	return e.Requested - e.Available
}
