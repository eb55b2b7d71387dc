package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeQuote(t *testing.T) {
	t.Run("ten percent off thirty with five percent tax", func(t *testing.T) {
		lines := []PriceLine{{UnitPrice: 10.00, Quantity: 3}}

		quote := ComputeQuote(lines, 3.00, 0.05)

		assert.InDelta(t, 30.00, quote.Subtotal, 1e-9)
		assert.InDelta(t, 3.00, quote.Discount, 1e-9)
		assert.InDelta(t, 27.00, quote.Taxable, 1e-9)
		assert.InDelta(t, 1.35, quote.Tax, 1e-9)
		assert.InDelta(t, 28.35, quote.GrandTotal, 1e-9)
	})

	t.Run("no discount", func(t *testing.T) {
		quote := ComputeQuote([]PriceLine{{UnitPrice: 19.99, Quantity: 2}}, 0, 0.05)
		assert.InDelta(t, 39.98, quote.Subtotal, 1e-9)
		assert.InDelta(t, 41.979, quote.GrandTotal, 1e-9)
	})

	t.Run("discount larger than subtotal is clamped", func(t *testing.T) {
		quote := ComputeQuote([]PriceLine{{UnitPrice: 5, Quantity: 1}}, 100, 0.05)
		assert.Zero(t, quote.Taxable)
		assert.Zero(t, quote.Tax)
		assert.Zero(t, quote.GrandTotal)
	})

	t.Run("negative discount is ignored", func(t *testing.T) {
		quote := ComputeQuote([]PriceLine{{UnitPrice: 5, Quantity: 1}}, -10, 0)
		assert.InDelta(t, 5, quote.GrandTotal, 1e-9)
	})

	t.Run("multiple lines", func(t *testing.T) {
		lines := []PriceLine{
			{UnitPrice: 12.50, Quantity: 2},
			{UnitPrice: 7.25, Quantity: 4},
		}
		assert.InDelta(t, 54.00, Subtotal(lines), 1e-9)
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 28.35, Round2(28.349999999999998))
	assert.Equal(t, 1.35, Round2(1.3500000000000001))
	assert.Equal(t, 0.1, Round2(0.1049))
	assert.Equal(t, 2.68, Round2(2.675000001))
}
