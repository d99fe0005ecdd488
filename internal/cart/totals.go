package cart

import (
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// recalculate derives both totals from the item list.
func recalculate(state *domain.CartState) {
	state.TotalItems, state.TotalAmount = Totals(state.Items)
}

// Totals returns the sum of quantities and the exact sum of price * quantity.
func Totals(items []domain.CartItem) (int, float64) {
	count := 0
	amount := decimal.Zero
	for _, item := range items {
		count += item.Quantity
		amount = amount.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return count, amount.InexactFloat64()
}
