package service

import (
	"testing"

	"fsanano/coffee-shop/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	cart := []model.OrderItem{
		{ProductID: "1", Price: 39.99, Qty: 2},
		{ProductID: "2", Price: 29.99, Qty: 1},
	}

	tests := []struct {
		name string
		pct  int
		want Totals
	}{
		{"no coupon", 0, Totals{Subtotal: 109.97, Discount: 0, Total: 109.97}},
		{"ten percent", 10, Totals{Subtotal: 109.97, Discount: 11.00, Total: 98.97}},
		{"fifteen percent", 15, Totals{Subtotal: 109.97, Discount: 16.50, Total: 93.47}},
		{"full discount", 100, Totals{Subtotal: 109.97, Discount: 109.97, Total: 0}},
		{"clamped above", 150, Totals{Subtotal: 109.97, Discount: 109.97, Total: 0}},
		{"clamped below", -5, Totals{Subtotal: 109.97, Discount: 0, Total: 109.97}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(cart, tt.pct))
		})
	}
}

func TestQuote_EmptyCart(t *testing.T) {
	assert.Equal(t, Totals{}, Quote(nil, 20))
}

func TestQuoteSubtotal_RoundsToCents(t *testing.T) {
	got := quoteSubtotal(decimal.RequireFromString("10.005"), 0)
	assert.Equal(t, 10.01, got.Subtotal)

	got = quoteSubtotal(decimal.RequireFromString("0.05"), 50)
	assert.Equal(t, 0.03, got.Discount)
	assert.Equal(t, 0.02, got.Total)
}
