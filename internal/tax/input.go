// Package tax implements the tax estimator (§4.4): federal and
// California liability for one filing year, built entirely from the
// outputs of ingestion and reconciliation plus user-supplied inputs. The
// estimator is a pure function. It never touches the record store
// itself; callers assemble Input from store reads.
package tax

import (
	"github.com/shopspring/decimal"

	"taxrecon/internal/domain"
)

// Input is everything one Estimate call needs.
type Input struct {
	Year         int
	FilingStatus domain.FilingStatus

	Wages     []domain.WageStatement
	Dividends []domain.DividendStatement
	Interest  []domain.InterestStatement

	// SaleResults is the reconciliation output for Year; absent (nil)
	// means no reconciliation run was found, which per §4.4's state
	// machine proceeds with zero gain/loss plus a warning rather than
	// failing.
	SaleResults []domain.SaleResult

	Itemized            domain.ItemizedDeductions
	PriorYearCarryovers domain.Carryovers

	FederalWithheldOverride     *decimal.Decimal // override; default sums wage statements
	FederalEstimatedPayments    decimal.Decimal
	CaliforniaWithheld          decimal.Decimal
	CaliforniaEstimatedPayments decimal.Decimal

	// HSAContribution is a California add-back: HSA contributions reduce
	// federal AGI but California does not conform, so they're added back
	// on the California return.
	HSAContribution decimal.Decimal

	ForeignTaxCreditOverride *decimal.Decimal // when set, bypasses the de-minimis shortcut entirely
}

// assembled holds the intermediate sums §4.4's "Input assembly" step
// produces, shared by every downstream calculation.
type assembled struct {
	wages                decimal.Decimal
	federalWithheld      decimal.Decimal
	medicareWages        decimal.Decimal
	medicareWithheld     decimal.Decimal
	stateWages           decimal.Decimal
	stateWithheld        decimal.Decimal
	voluntaryPlanDisability decimal.Decimal

	ordinaryDividends    decimal.Decimal
	qualifiedDividends   decimal.Decimal
	capitalGainDist      decimal.Decimal
	foreignTaxPaid       decimal.Decimal
	section199AEligible  decimal.Decimal
	dividendWithheld     decimal.Decimal

	interestIncome        decimal.Decimal
	earlyWithdrawalPenalty decimal.Decimal
	interestWithheld       decimal.Decimal
	treasuryInterest       decimal.Decimal

	shortTermGain     decimal.Decimal
	longTermGain      decimal.Decimal
	ordinaryIncome    decimal.Decimal
	minTaxPreference  decimal.Decimal

	warnings []string
}

func assemble(in Input) assembled {
	a := assembled{}

	if len(in.Wages) == 0 {
		a.warnings = append(a.warnings, "no wage statements found for year; proceeding with zero wages")
	}
	for _, w := range in.Wages {
		a.wages = a.wages.Add(w.Wages)
		a.federalWithheld = a.federalWithheld.Add(w.FederalWithheld)
		a.medicareWages = a.medicareWages.Add(w.MedicareWages)
		a.medicareWithheld = a.medicareWithheld.Add(w.MedicareWithheld)
		a.stateWages = a.stateWages.Add(w.StateWages)
		a.stateWithheld = a.stateWithheld.Add(w.StateWithheld)
		a.voluntaryPlanDisability = a.voluntaryPlanDisability.Add(w.VoluntaryPlanDisability())
	}
	if in.FederalWithheldOverride != nil {
		a.federalWithheld = *in.FederalWithheldOverride
	}

	for _, div := range in.Dividends {
		a.ordinaryDividends = a.ordinaryDividends.Add(div.OrdinaryDividends)
		a.qualifiedDividends = a.qualifiedDividends.Add(div.QualifiedDividends)
		a.capitalGainDist = a.capitalGainDist.Add(div.CapitalGainDistribution)
		a.foreignTaxPaid = a.foreignTaxPaid.Add(div.ForeignTaxPaid)
		a.section199AEligible = a.section199AEligible.Add(div.Section199AEligible)
		a.dividendWithheld = a.dividendWithheld.Add(div.FederalWithheld)
	}

	for _, i := range in.Interest {
		a.interestIncome = a.interestIncome.Add(i.InterestIncome)
		a.earlyWithdrawalPenalty = a.earlyWithdrawalPenalty.Add(i.EarlyWithdrawalPenalty)
		a.interestWithheld = a.interestWithheld.Add(i.FederalWithheld)
		if i.IsUSTreasuryInterest {
			a.treasuryInterest = a.treasuryInterest.Add(i.InterestIncome)
		}
	}

	if in.SaleResults == nil {
		a.warnings = append(a.warnings, "no reconciliation run found for year; proceeding with zero gain/loss")
	}
	for _, r := range in.SaleResults {
		switch r.Holding {
		case domain.Short:
			a.shortTermGain = a.shortTermGain.Add(r.GainOrLoss)
		case domain.Long:
			a.longTermGain = a.longTermGain.Add(r.GainOrLoss)
		}
		a.ordinaryIncome = a.ordinaryIncome.Add(r.OrdinaryIncome)
		a.minTaxPreference = a.minTaxPreference.Add(r.MinTaxAdjustment)
	}
	a.longTermGain = a.longTermGain.Add(a.capitalGainDist)

	return a
}
