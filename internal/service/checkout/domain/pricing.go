package domain

import "math"

// PriceLine is one (unit price, quantity) pair of a quote.
type PriceLine struct {
	UnitPrice float64
	Quantity  int
}

// Quote is the fully computed breakdown of a cart. All fields keep full float
// precision; Round2 is applied only at presentation and persistence edges.
type Quote struct {
	Subtotal   float64
	Discount   float64
	Taxable    float64
	Tax        float64
	GrandTotal float64
}

// Subtotal sums the lines without any discount or tax applied.
func Subtotal(lines []PriceLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.UnitPrice * float64(l.Quantity)
	}
	return sum
}

// ComputeQuote derives the order totals from authoritative prices. The
// discount is clamped to the subtotal so the taxable amount never goes
// negative; tax is charged on the discounted amount.
func ComputeQuote(lines []PriceLine, discount, taxRate float64) Quote {
	subtotal := Subtotal(lines)
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	taxable := subtotal - discount
	tax := taxable * taxRate
	return Quote{
		Subtotal:   subtotal,
		Discount:   discount,
		Taxable:    taxable,
		Tax:        tax,
		GrandTotal: taxable + tax,
	}
}

// Round2 rounds a monetary amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
