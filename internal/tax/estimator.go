package tax

import (
	"github.com/shopspring/decimal"

	"taxrecon/internal/brackets"
	"taxrecon/internal/domain"
)

var (
	additionalMedicareRate = decimal.RequireFromString("0.009")
	regularMedicareRate    = decimal.RequireFromString("0.0145")
	niitRate               = decimal.RequireFromString("0.038")
	section199ARate        = decimal.RequireFromString("0.20")
	mentalHealthRate       = decimal.RequireFromString("0.01")
	mentalHealthThreshold  = decimal.RequireFromString("1000000")
)

// Estimate computes the complete federal and California liability for
// in.Year per §4.4. It never touches the store; Input must already carry
// every record the caller wants included.
func Estimate(in Input) domain.TaxEstimate {
	table := brackets.Lookup(in.Year, in.FilingStatus)
	a := assemble(in)

	netting := netCapitalLosses(a.shortTermGain, a.longTermGain, in.PriorYearCarryovers.CapitalLoss, in.FilingStatus)

	totalIncome := a.wages.
		Add(a.ordinaryDividends).
		Add(a.interestIncome).
		Add(netting.TotalForAGI).
		Add(a.ordinaryIncome)

	agi := totalIncome.Sub(a.earlyWithdrawalPenalty)

	itemized := computeItemized(in.Itemized, agi, table, table.StandardDeduction, a.voluntaryPlanDisability)
	deductionUsed := itemized.StandardDeduction
	if itemized.UsedItemized {
		deductionUsed = itemized.FederalItemizedTotal
	}

	section199ADeduction := a.section199AEligible.Mul(section199ARate)

	taxableIncome := decimal.Max(decimal.Zero, agi.Sub(deductionUsed).Sub(section199ADeduction))

	preferentialIncome := decimal.Min(
		decimal.Max(decimal.Zero, netting.LongTerm).Add(a.qualifiedDividends),
		taxableIncome,
	)
	ordinaryTaxable := taxableIncome.Sub(preferentialIncome)

	ordinaryTax := brackets.Apply(ordinaryTaxable, table.Ordinary)
	preferentialTax := stackPreferential(ordinaryTaxable, preferentialIncome, table.Preferential)

	investmentIncome := a.interestIncome.
		Add(a.ordinaryDividends).
		Add(decimal.Max(decimal.Zero, netting.ShortTerm)).
		Add(decimal.Max(decimal.Zero, netting.LongTerm))
	excessAGI := decimal.Max(decimal.Zero, agi.Sub(table.SurtaxThreshold))
	surtax := decimal.Min(investmentIncome, excessAGI).Mul(niitRate)

	saltAddback := decimal.Zero
	if itemized.UsedItemized {
		saltAddback = itemized.StateAndLocalCapped
	}
	regularTaxBeforeCredits := ordinaryTax.Add(preferentialTax)
	amt := computeAMT(taxableIncome, a.minTaxPreference, saltAddback, preferentialIncome, regularTaxBeforeCredits, table, table.Preferential)

	additionalMedicareTax := decimal.Max(decimal.Zero, a.medicareWages.Sub(table.AdditionalMedicareThreshold)).Mul(additionalMedicareRate)
	regularMedicareWithholding := a.medicareWages.Mul(regularMedicareRate)
	additionalMedicareWithholdingCredit := decimal.Max(decimal.Zero, a.medicareWithheld.Sub(regularMedicareWithholding))

	minimumTaxCreditUsed := decimal.Min(in.PriorYearCarryovers.MinimumTaxCredit, decimal.Max(decimal.Zero, regularTaxBeforeCredits.Sub(amt.TentativeMinimumTax)))
	minimumTaxCreditCarryforward := in.PriorYearCarryovers.MinimumTaxCredit.Sub(minimumTaxCreditUsed)

	foreignTaxCredit := foreignTaxCreditAmount(in, a, table, regularTaxBeforeCredits)

	federalTotal := ordinaryTax.
		Add(preferentialTax).
		Add(surtax).
		Add(amt.AMT).
		Add(additionalMedicareTax).
		Sub(minimumTaxCreditUsed).
		Sub(foreignTaxCredit)

	federalCredits := a.federalWithheld.
		Add(a.dividendWithheld).
		Add(a.interestWithheld).
		Add(in.FederalEstimatedPayments).
		Add(additionalMedicareWithholdingCredit)
	federalBalance := federalTotal.Sub(federalCredits)

	caTaxableIncome := californiaTaxableIncome(agi, a, itemized, in.HSAContribution)
	caBracketTax := brackets.Apply(caTaxableIncome, table.CaliforniaOrdinary)
	caSurcharge := decimal.Max(decimal.Zero, caTaxableIncome.Sub(mentalHealthThreshold)).Mul(mentalHealthRate)
	caTotal := caBracketTax.Add(caSurcharge)
	caCredits := in.CaliforniaWithheld.Add(in.CaliforniaEstimatedPayments)
	caBalance := caTotal.Sub(caCredits)

	charitableCarryoverOut := itemized.CharitableCarryoverOut
	if !itemized.UsedItemized {
		charitableCarryoverOut = decimal.Zero
	}

	return domain.TaxEstimate{
		Year:               in.Year,
		FilingStatus:       in.FilingStatus,
		AGI:                agi,
		TaxableIncome:      taxableIncome,
		OrdinaryTaxable:    ordinaryTaxable,
		PreferentialIncome: preferentialIncome,

		OrdinaryTax:                         ordinaryTax,
		PreferentialTax:                     preferentialTax,
		Surtax:                              surtax,
		AMT:                                 amt.AMT,
		AMTI:                                amt.AMTI,
		TentativeMinimumTax:                 amt.TentativeMinimumTax,
		AdditionalMedicareTax:               additionalMedicareTax,
		AdditionalMedicareWithholdingCredit: additionalMedicareWithholdingCredit,
		MinimumTaxCreditUsed:                minimumTaxCreditUsed,
		ForeignTaxCredit:                    foreignTaxCredit,

		FederalTotal:   federalTotal,
		FederalCredits: federalCredits,
		FederalBalance: federalBalance,

		CaliforniaTaxableIncome:         caTaxableIncome,
		CaliforniaBracketTax:            caBracketTax,
		CaliforniaMentalHealthSurcharge: caSurcharge,
		CaliforniaTotal:                 caTotal,
		CaliforniaCredits:               caCredits,
		CaliforniaBalance:               caBalance,

		Itemized: itemized,

		OutputCarryovers: domain.Carryovers{
			CapitalLoss:      netting.CarryForward,
			MinimumTaxCredit: minimumTaxCreditCarryforward,
			CharitableExcess: charitableCarryoverOut,
		},

		ShortTermGain: netting.ShortTerm,
		LongTermGain:  netting.LongTerm,

		Warnings: a.warnings,
	}
}

// stackPreferential implements §4.4's preferential-rate stacking: ordinary
// income fills brackets first, preferential income sits above.
func stackPreferential(ordinaryTaxable, preferentialIncome decimal.Decimal, table []brackets.Bracket) decimal.Decimal {
	if preferentialIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	top := ordinaryTaxable.Add(preferentialIncome)
	return brackets.Apply(top, table).Sub(brackets.Apply(ordinaryTaxable, table))
}

// foreignTaxCreditAmount implements the §4.4 shortcut: claim directly
// when below the de-minimis threshold, otherwise clamp to
// min(foreign_tax, federal_pre_credit).
func foreignTaxCreditAmount(in Input, a assembled, table brackets.Table, federalPreCredit decimal.Decimal) decimal.Decimal {
	if in.ForeignTaxCreditOverride != nil {
		return *in.ForeignTaxCreditOverride
	}
	if a.foreignTaxPaid.LessThanOrEqual(table.ForeignTaxDeMinimis) {
		return a.foreignTaxPaid
	}
	return decimal.Min(a.foreignTaxPaid, federalPreCredit)
}

// californiaTaxableIncome applies California's non-conformity items:
// HSA contributions are added back, US Treasury interest is subtracted,
// and California uses its own itemized-vs-standard comparison.
func californiaTaxableIncome(agi decimal.Decimal, a assembled, itemized domain.ItemizedDetail, hsaContribution decimal.Decimal) decimal.Decimal {
	caAGI := agi.Add(hsaContribution).Sub(a.treasuryInterest)
	deduction := itemized.StandardDeduction
	if itemized.CaliforniaUsedItemized {
		deduction = itemized.CaliforniaItemizedTotal
	}
	return decimal.Max(decimal.Zero, caAGI.Sub(deduction))
}
