package service

import (
	"fsanano/coffee-shop/internal/model"

	"github.com/shopspring/decimal"
)

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

var hundred = decimal.NewFromInt(100)

// Quote sums price x qty over items and takes discountPct percent off,
// rounding the discount to cents. Percentages outside 0..100 are clamped.
func Quote(items []model.OrderItem, discountPct int) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Qty)))
		subtotal = subtotal.Add(line)
	}
	return quoteSubtotal(subtotal, discountPct)
}

func quoteSubtotal(subtotal decimal.Decimal, discountPct int) Totals {
	pct := min(max(discountPct, 0), 100)
	subtotal = subtotal.Round(2)
	discount := subtotal.Mul(decimal.NewFromInt(int64(pct))).Div(hundred).Round(2)
	total := subtotal.Sub(discount)

	return Totals{
		Subtotal: subtotal.InexactFloat64(),
		Discount: discount.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}

// roundCents rounds a price to two decimals, matching the NUMERIC(10, 2)
// columns.
func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
