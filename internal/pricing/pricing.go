// Package pricing is the single authoritative implementation of the order
// financial computation. Every call site (invoice editor, order detail,
// PDF generation) goes through Calculate; nothing else in the codebase is
// allowed to derive totals on its own.
package pricing

import "math"

// Discount types
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Input holds the raw figures an order carries.
type Input struct {
	Subtotal      float64
	DiscountType  string // percentage|fixed, empty means no discount
	DiscountValue float64
	Shipping      float64
	TaxRate       float64 // decimal fraction, e.g. 0.13 for 13% HST
}

// Breakdown is the deterministic result of pricing an order.
//
// Tax is charged on the post-discount, post-shipping amount, not on the raw
// subtotal. Result and Total may be negative when a fixed discount exceeds
// the subtotal; DisplayTotal clamps at zero and is the only clamped value.
type Breakdown struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	Shipping       float64 `json:"shipping"`
	Result         float64 `json:"result"` // subtotal - discount + shipping
	TaxRate        float64 `json:"tax_rate"`
	TaxAmount      float64 `json:"tax_amount"`
	Total          float64 `json:"total"`
	DisplayTotal   float64 `json:"display_total"` // max(0, Total)
}

// RoundCents rounds a monetary amount to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Calculate prices an order.
func Calculate(in Input) Breakdown {
	var discount float64
	switch in.DiscountType {
	case DiscountPercentage:
		discount = in.Subtotal * in.DiscountValue / 100
	case DiscountFixed:
		discount = in.DiscountValue
	}
	discount = RoundCents(discount)

	// Not floored here: a fixed discount larger than the subtotal yields a
	// negative running amount, clamped only in DisplayTotal.
	result := RoundCents(in.Subtotal - discount + in.Shipping)
	tax := RoundCents(result * in.TaxRate)
	total := RoundCents(result + tax)

	return Breakdown{
		Subtotal:       RoundCents(in.Subtotal),
		DiscountAmount: discount,
		Shipping:       RoundCents(in.Shipping),
		Result:         result,
		TaxRate:        in.TaxRate,
		TaxAmount:      tax,
		Total:          total,
		DisplayTotal:   math.Max(0, total),
	}
}

// CalculateForViewer applies the invoice visibility rule: until an admin has
// confirmed the invoice, a customer sees subtotal plus tax on the subtotal
// only, with negotiated discount and shipping hidden even when populated.
// Admins always see the full breakdown.
func CalculateForViewer(in Input, invoiceConfirmed, isAdmin bool) Breakdown {
	if isAdmin || invoiceConfirmed {
		return Calculate(in)
	}
	return Calculate(Input{Subtotal: in.Subtotal, TaxRate: in.TaxRate})
}
