package invoicing

import (
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the tax rate percent applied when a tenant has no
// finance settings stored yet.
var DefaultTaxRate = decimal.NewFromInt(16)

// PriceLine is one quantity/unit-price pair fed into the totals calculation
type PriceLine struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Totals holds the computed fiscal amounts for a document.
// SecondaryTotal is nil when no exchange rate was available.
type Totals struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
	SecondaryTotal *decimal.Decimal
}

// ComputeTotals computes subtotal, tax and totals for a set of lines.
// Line amounts are summed without intermediate rounding; tax is
// round(subtotal * rate / 100, 2) and total is round(subtotal + tax, 2).
// The stored subtotal is rounded independently from the pre-rounding sum
// so rounding error does not compound into the total.
func ComputeTotals(lines []PriceLine, taxRatePercent decimal.Decimal, exchangeRate *decimal.Decimal) Totals {
	raw := decimal.Zero
	for _, line := range lines {
		raw = raw.Add(line.Quantity.Mul(line.UnitPrice))
	}

	tax := raw.Mul(taxRatePercent).Div(decimal.NewFromInt(100)).Round(2)
	total := raw.Add(tax).Round(2)

	totals := Totals{
		Subtotal:  raw.Round(2),
		TaxAmount: tax,
		Total:     total,
	}

	if exchangeRate != nil && exchangeRate.GreaterThan(decimal.Zero) {
		secondary := total.Mul(*exchangeRate).Round(2)
		totals.SecondaryTotal = &secondary
	}

	return totals
}
