package inventory

import (
	"testing"

	"github.com/fekuna/partstock-inventory-service/internal/model"
)

func int64ptr(v int64) *int64 { return &v }

func TestEvaluateStatus(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		reorder  int64
		maximum  *int64
		expected model.StockStatus
	}{
		{name: "zero quantity", total: 0, reorder: 10, maximum: int64ptr(100), expected: model.StockStatusOutOfStock},
		{name: "negative quantity", total: -5, reorder: 10, maximum: int64ptr(100), expected: model.StockStatusOutOfStock},
		{name: "at reorder point", total: 10, reorder: 10, maximum: int64ptr(100), expected: model.StockStatusLowStock},
		{name: "below reorder point", total: 3, reorder: 10, maximum: int64ptr(100), expected: model.StockStatusLowStock},
		{name: "normal range", total: 50, reorder: 10, maximum: int64ptr(100), expected: model.StockStatusNormal},
		{name: "at maximum", total: 100, reorder: 10, maximum: int64ptr(100), expected: model.StockStatusExcess},
		{name: "above maximum", total: 150, reorder: 10, maximum: int64ptr(100), expected: model.StockStatusExcess},
		{name: "no maximum set", total: 1000000, reorder: 10, maximum: nil, expected: model.StockStatusNormal},
		{name: "degenerate thresholds favor low stock", total: 5, reorder: 10, maximum: int64ptr(5), expected: model.StockStatusLowStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			part := &model.Part{
				ReorderPoint: tt.reorder,
				MaximumStock: tt.maximum,
			}
			got := EvaluateStatus(tt.total, part)
			if got != tt.expected {
				t.Errorf("EvaluateStatus(%d) = %s, want %s", tt.total, got, tt.expected)
			}
		})
	}
}
