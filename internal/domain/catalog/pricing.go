package catalog

import "github.com/shopspring/decimal"

// priceEpsilon is the tolerance used when deciding whether a stored total
// still matches quantity * unit price. Anything further off is treated as a
// manual operator edit and left alone.
var priceEpsilon = decimal.NewFromFloat(0.01)

// UnitPrice computes the effective unit price for an item. The threshold
// price applies once the item's global accumulated quantity (across all
// customers) reaches the configured volume; otherwise the base price holds.
func UnitPrice(basePrice decimal.Decimal, globalAccumulatedQty, thresholdQty int, thresholdPrice decimal.Decimal) decimal.Decimal {
	if thresholdQty > 0 && thresholdPrice.IsPositive() && globalAccumulatedQty >= thresholdQty {
		return thresholdPrice
	}
	return basePrice
}

// IsManualOverride reports whether a stored total no longer matches
// quantity * unitPrice, meaning an operator adjusted it by hand. Repricing
// must preserve such totals.
func IsManualOverride(storedTotal decimal.Decimal, quantity int, unitPrice decimal.Decimal) bool {
	expected := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return storedTotal.Sub(expected).Abs().GreaterThan(priceEpsilon)
}
