package inventory

import "github.com/fekuna/partstock-inventory-service/internal/model"

// EvaluateStatus maps a part's aggregate on-hand quantity to a stock status.
// The checks run strictly in this order so that low_stock wins over
// excess_stock when the thresholds are degenerate (maximum <= reorder point).
func EvaluateStatus(totalQuantity int64, part *model.Part) model.StockStatus {
	if totalQuantity <= 0 {
		return model.StockStatusOutOfStock
	}
	if totalQuantity <= part.ReorderPoint {
		return model.StockStatusLowStock
	}
	if part.MaximumStock != nil && totalQuantity >= *part.MaximumStock {
		return model.StockStatusExcess
	}
	return model.StockStatusNormal
}
