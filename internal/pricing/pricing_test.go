package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateWorkedExample(t *testing.T) {
	// $1000 subtotal, 10% discount, $50 shipping, 13% HST
	b := Calculate(Input{
		Subtotal:      1000,
		DiscountType:  DiscountPercentage,
		DiscountValue: 10,
		Shipping:      50,
		TaxRate:       0.13,
	})
	assert.Equal(t, 100.0, b.DiscountAmount)
	assert.Equal(t, 950.0, b.Result)
	assert.Equal(t, 123.50, b.TaxAmount)
	assert.Equal(t, 1073.50, b.Total)
	assert.Equal(t, 1073.50, b.DisplayTotal)
}

func TestCalculateNoDiscount(t *testing.T) {
	b := Calculate(Input{Subtotal: 200, Shipping: 10, TaxRate: 0.13})
	assert.Equal(t, 0.0, b.DiscountAmount)
	assert.Equal(t, 210.0, b.Result)
	assert.Equal(t, 27.30, b.TaxAmount)
	assert.Equal(t, 237.30, b.Total)
}

func TestFixedDiscountFormula(t *testing.T) {
	cases := []struct {
		subtotal, discount, shipping, rate float64
	}{
		{100, 0, 0, 0},
		{100, 25, 10, 0.13},
		{500, 500, 0, 0.13},
		{999.99, 0.01, 49.5, 0.05},
	}
	for _, c := range cases {
		b := Calculate(Input{
			Subtotal:      c.subtotal,
			DiscountType:  DiscountFixed,
			DiscountValue: c.discount,
			Shipping:      c.shipping,
			TaxRate:       c.rate,
		})
		result := RoundCents(c.subtotal - c.discount + c.shipping)
		want := RoundCents(result + RoundCents(result*c.rate))
		assert.InDelta(t, want, b.Total, 1e-9)
	}
}

// A percentage discount of d% must price identically to a fixed discount of
// subtotal*d/100 on the same order.
func TestDiscountTypeEquivalence(t *testing.T) {
	for _, d := range []float64{0, 5, 10, 33, 100} {
		subtotal := 1234.56
		pct := Calculate(Input{
			Subtotal:      subtotal,
			DiscountType:  DiscountPercentage,
			DiscountValue: d,
			Shipping:      75,
			TaxRate:       0.13,
		})
		fixed := Calculate(Input{
			Subtotal:      subtotal,
			DiscountType:  DiscountFixed,
			DiscountValue: RoundCents(subtotal * d / 100),
			Shipping:      75,
			TaxRate:       0.13,
		})
		assert.Equal(t, fixed.Total, pct.Total, "d=%v", d)
	}
}

func TestOverDiscountClampsOnlyDisplayTotal(t *testing.T) {
	b := Calculate(Input{
		Subtotal:      100,
		DiscountType:  DiscountFixed,
		DiscountValue: 300,
		TaxRate:       0.13,
	})
	assert.Equal(t, -200.0, b.Result)
	assert.True(t, b.Total < 0)
	assert.Equal(t, 0.0, b.DisplayTotal)
}

func TestCalculateForViewer(t *testing.T) {
	in := Input{
		Subtotal:      1000,
		DiscountType:  DiscountPercentage,
		DiscountValue: 10,
		Shipping:      50,
		TaxRate:       0.13,
	}

	// Unconfirmed invoice, customer viewer: subtotal + tax on subtotal only.
	b := CalculateForViewer(in, false, false)
	assert.Equal(t, 0.0, b.DiscountAmount)
	assert.Equal(t, 0.0, b.Shipping)
	assert.Equal(t, 130.0, b.TaxAmount)
	assert.Equal(t, 1130.0, b.Total)

	// Admin sees the full breakdown regardless of confirmation.
	assert.Equal(t, 1073.50, CalculateForViewer(in, false, true).Total)

	// Confirmation unlocks the full breakdown for customers too.
	assert.Equal(t, 1073.50, CalculateForViewer(in, true, false).Total)
}
