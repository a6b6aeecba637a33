package inventory

import "github.com/shopspring/decimal"

// NewAverageCost computes the weighted-average unit cost of a lot after
// receiving addedQuantity units at addedUnitCost on top of oldQuantity units
// carried at oldAverageCost:
//
//	(oldQuantity*oldAverageCost + addedQuantity*addedUnitCost) / (oldQuantity + addedQuantity)
//
// A lot with no prior quantity takes the incoming cost unchanged. All
// arithmetic is decimal so repeated small receipts do not accumulate float
// drift.
func NewAverageCost(oldQuantity int64, oldAverageCost decimal.Decimal, addedQuantity int64, addedUnitCost decimal.Decimal) decimal.Decimal {
	if oldQuantity <= 0 {
		return addedUnitCost
	}

	oldQty := decimal.NewFromInt(oldQuantity)
	addedQty := decimal.NewFromInt(addedQuantity)

	total := oldQty.Add(addedQty)
	if total.LessThanOrEqual(decimal.Zero) {
		return addedUnitCost
	}

	weighted := oldQty.Mul(oldAverageCost).Add(addedQty.Mul(addedUnitCost))
	return weighted.Div(total)
}
