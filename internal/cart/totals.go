package cart

import (
	"math"

	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of minor-unit digits totals are rounded to.
const CurrencyPlaces = 2

// Total sums unitPrice * quantity over items, rounded half-even to cents.
func Total(items []domain.CartLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total.RoundBank(CurrencyPlaces)
}

// ItemCount sums quantities, not distinct lines. The sum saturates at
// math.MaxInt.
func ItemCount(items []domain.CartLineItem) int {
	count := 0
	for _, item := range items {
		if item.Quantity > math.MaxInt-count {
			return math.MaxInt
		}
		count += item.Quantity
	}
	return count
}
