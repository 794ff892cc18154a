package tax

import (
	"github.com/shopspring/decimal"

	"taxrecon/internal/brackets"
)

const amtExemptionPhaseOutRate = "0.25"

// amtResult bundles the alternative-minimum-tax computation's outputs.
type amtResult struct {
	AMTI                decimal.Decimal
	Exemption           decimal.Decimal
	TentativeMinimumTax decimal.Decimal
	AMT                 decimal.Decimal
}

// computeAMT implements §4.4's "Alternative minimum tax" formula. It is
// invoked unconditionally by the estimator; callers could skip it
// entirely (AMT = 0) when both minTaxPreference and saltAddback are
// zero, but running it on zero inputs is harmless and simpler than
// branching twice.
func computeAMT(taxableIncome, minTaxPreference, saltAddback, preferentialIncome, regularTax decimal.Decimal, table brackets.Table, prefTable []brackets.Bracket) amtResult {
	amti := taxableIncome.Add(minTaxPreference).Add(saltAddback)

	phaseOutRate := decimal.RequireFromString(amtExemptionPhaseOutRate)
	phaseOutExcess := decimal.Max(decimal.Zero, amti.Sub(table.AMTPhaseOutStart))
	exemption := decimal.Max(decimal.Zero, table.AMTExemption.Sub(phaseOutRate.Mul(phaseOutExcess)))

	base := decimal.Max(decimal.Zero, amti.Sub(exemption))
	ordinaryAMTBase := decimal.Max(decimal.Zero, base.Sub(preferentialIncome))

	var taxOnOrdinary decimal.Decimal
	breakpoint := table.AMT2628Breakpoint
	rate26 := decimal.RequireFromString("0.26")
	rate28 := decimal.RequireFromString("0.28")
	if ordinaryAMTBase.LessThanOrEqual(breakpoint) {
		taxOnOrdinary = ordinaryAMTBase.Mul(rate26)
	} else {
		taxOnOrdinary = breakpoint.Mul(rate26).Add(ordinaryAMTBase.Sub(breakpoint).Mul(rate28))
	}

	preferentialAtBase := decimal.Min(preferentialIncome, base)
	taxOnPreferential := brackets.Apply(ordinaryAMTBase.Add(preferentialAtBase), prefTable).Sub(brackets.Apply(ordinaryAMTBase, prefTable))

	tmt := taxOnOrdinary.Add(taxOnPreferential)
	amt := decimal.Max(decimal.Zero, tmt.Sub(regularTax))

	return amtResult{AMTI: amti, Exemption: exemption, TentativeMinimumTax: tmt, AMT: amt}
}
