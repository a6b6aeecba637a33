package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewInboundEvent_Validation(t *testing.T) {
	cost := decimal.NewFromInt(100)
	now := time.Now()

	if _, err := NewInboundEvent("id", "p", "s", 0, cost, "", "REF-1", "", "", now, nil); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity: expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := NewInboundEvent("id", "p", "s", -3, cost, "", "REF-1", "", "", now, nil); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("negative quantity: expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := NewInboundEvent("id", "p", "s", 1, decimal.NewFromInt(-1), "", "REF-1", "", "", now, nil); !errors.Is(err, ErrInvalidUnitCost) {
		t.Errorf("negative cost: expected ErrInvalidUnitCost, got %v", err)
	}
	if _, err := NewInboundEvent("id", "p", "s", 1, cost, "", "", "", "", now, nil); !errors.Is(err, ErrMissingReference) {
		t.Errorf("empty reference: expected ErrMissingReference, got %v", err)
	}

	e, err := NewInboundEvent("id", "p", "s", 1, decimal.Zero, "", "REF-1", "", "", now, nil)
	if err != nil {
		t.Fatalf("free stock (cost 0) must be accepted: %v", err)
	}
	if e.Currency != DefaultCurrency {
		t.Errorf("expected default currency %s, got %s", DefaultCurrency, e.Currency)
	}
}

func TestOutboundEventCanTransition(t *testing.T) {
	tests := []struct {
		from    OutboundStatus
		to      OutboundStatus
		allowed bool
	}{
		{OutboundStatusRequested, OutboundStatusApproved, true},
		{OutboundStatusRequested, OutboundStatusRejected, true},
		{OutboundStatusRequested, OutboundStatusCancelled, true},
		{OutboundStatusRequested, OutboundStatusIssued, false},
		{OutboundStatusApproved, OutboundStatusIssued, true},
		{OutboundStatusApproved, OutboundStatusCancelled, true},
		{OutboundStatusApproved, OutboundStatusRejected, false},
		{OutboundStatusIssued, OutboundStatusCancelled, false},
		{OutboundStatusRejected, OutboundStatusApproved, false},
		{OutboundStatusCancelled, OutboundStatusApproved, false},
	}

	for _, tt := range tests {
		e := &OutboundEvent{Status: tt.from}
		if got := e.CanTransition(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestNewPriceRecord_Window(t *testing.T) {
	from := time.Now()
	price := decimal.NewFromInt(100)

	bad := from.Add(-time.Minute)
	if _, err := NewPriceRecord("id", "p", "s", "", price, "", from, &bad); !errors.Is(err, ErrPriceWindowConflict) {
		t.Errorf("until before from: expected ErrPriceWindowConflict, got %v", err)
	}
	if _, err := NewPriceRecord("id", "p", "s", "", price, "", from, &from); !errors.Is(err, ErrPriceWindowConflict) {
		t.Errorf("until equal to from: expected ErrPriceWindowConflict, got %v", err)
	}

	good := from.Add(time.Hour)
	rec, err := NewPriceRecord("id", "p", "s", "", price, "", from, &good)
	if err != nil {
		t.Fatalf("valid window: %v", err)
	}
	if !rec.IsCurrent {
		t.Error("new record must start current")
	}
	if rec.PriceType != PriceTypePurchase {
		t.Errorf("expected default type purchase, got %s", rec.PriceType)
	}
}
