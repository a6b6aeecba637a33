package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewAverageCost_EmptyLotTakesIncomingCost(t *testing.T) {
	got := NewAverageCost(0, decimal.Zero, 10, dec("100"))
	if !got.Equal(dec("100")) {
		t.Errorf("expected 100, got %s", got)
	}
}

func TestNewAverageCost_WeightedMean(t *testing.T) {
	// (10*100 + 5*130) / 15 = 110
	got := NewAverageCost(10, dec("100"), 5, dec("130"))
	if !got.Equal(dec("110")) {
		t.Errorf("expected 110, got %s", got)
	}
}

func TestNewAverageCost_SequenceMatchesTotalWeightedMean(t *testing.T) {
	receipts := []struct {
		qty  int64
		cost decimal.Decimal
	}{
		{qty: 3, cost: dec("7.50")},
		{qty: 7, cost: dec("9.25")},
		{qty: 13, cost: dec("8.10")},
		{qty: 1, cost: dec("12.00")},
	}

	var runningQty int64
	runningCost := decimal.Zero
	totalQty := decimal.Zero
	totalValue := decimal.Zero

	for _, r := range receipts {
		runningCost = NewAverageCost(runningQty, runningCost, r.qty, r.cost)
		runningQty += r.qty

		q := decimal.NewFromInt(r.qty)
		totalQty = totalQty.Add(q)
		totalValue = totalValue.Add(q.Mul(r.cost))
	}

	want := totalValue.Div(totalQty)
	tolerance := dec("0.0000000001")
	if runningCost.Sub(want).Abs().GreaterThan(tolerance) {
		t.Errorf("incremental average %s diverged from %s", runningCost, want)
	}
}

func TestNewAverageCost_NoFloatDriftOnSmallReceipts(t *testing.T) {
	// 1000 receipts of 1 unit at 0.10 must average exactly 0.10.
	var qty int64
	cost := decimal.Zero
	for i := 0; i < 1000; i++ {
		cost = NewAverageCost(qty, cost, 1, dec("0.10"))
		qty++
	}
	if !cost.Equal(dec("0.10")) {
		t.Errorf("expected 0.10, got %s", cost)
	}
}
