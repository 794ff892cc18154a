// Package brackets holds the year-and-filing-status-keyed bracket and
// constant tables every higher engine consumes: ordinary brackets,
// preferential-rate brackets, standard deductions, surtax thresholds,
// exemption amounts and phase-out starts, rate breakpoints, the
// state-and-local-tax cap, and the charitable/medical ratio limits.
//
// Tables are built once at package init and never mutated; a lookup
// miss panics rather than synthesizing a bracket at the call site
// (design note: "Global bracket tables → year-keyed immutable maps").
package brackets

import "github.com/shopspring/decimal"

// Bracket is one stepwise tax-rate segment: income above Floor (and up
// to the next bracket's Floor) is taxed at Rate.
type Bracket struct {
	Floor decimal.Decimal
	Rate  decimal.Decimal
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic("brackets: invalid decimal literal " + s)
	}
	return v
}

// Apply computes stepwise tax owed on taxableIncome given brackets
// sorted ascending by Floor. Monotonically non-decreasing per §8.
func Apply(taxableIncome decimal.Decimal, table []Bracket) decimal.Decimal {
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	tax := decimal.Zero
	for i, b := range table {
		var ceiling decimal.Decimal
		hasCeiling := i+1 < len(table)
		if hasCeiling {
			ceiling = table[i+1].Floor
		}
		if taxableIncome.LessThanOrEqual(b.Floor) {
			break
		}
		top := taxableIncome
		if hasCeiling && ceiling.LessThan(top) {
			top = ceiling
		}
		span := top.Sub(b.Floor)
		if span.IsNegative() {
			continue
		}
		tax = tax.Add(span.Mul(b.Rate))
	}
	return tax
}
