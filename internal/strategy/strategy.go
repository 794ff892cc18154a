// Package strategy implements the strategy engine (§4.5): 17 analyzers,
// each a pure function of a baseline TaxEstimate plus supporting
// records. Every analyzer that claims a dollar savings computes it by
// re-invoking the estimator with a perturbed Input and diffing against
// the baseline; the engine never reimplements a tax rule directly.
package strategy

import (
	"time"

	"github.com/shopspring/decimal"

	"taxrecon/internal/domain"
	"taxrecon/internal/tax"
)

var (
	highSavingsThreshold   = decimal.RequireFromString("2000")
	mediumSavingsThreshold = decimal.RequireFromString("500")
)

// Input bundles the baseline estimate, the estimator input that produced
// it (so analyzers can clone and perturb it), and the supporting records
// and user projections each analyzer needs.
type Input struct {
	Baseline       domain.TaxEstimate
	EstimatorInput tax.Input

	// Candidate lots for tax-loss harvesting / restricted-unit harvest /
	// specific-identification / holding-period ripening, with their
	// current market price.
	Lots             []domain.Lot
	CurrentPrices    map[string]decimal.Decimal // ticker -> current price per share
	UpcomingVestDate *time.Time
	UpcomingVestSecurity domain.Security

	RetirementRoomRemaining decimal.Decimal
	HSARoomRemaining        decimal.Decimal

	CharitableBunchAmount decimal.Decimal

	PlannedSaleSecurity domain.Security
	PlannedSaleShares   decimal.Decimal
	PlannedSaleProceedsPerShare decimal.Decimal

	NextYearProjectedIncome decimal.Decimal

	QuarterlyPayments      [4]decimal.Decimal
	PriorYearTotalTax      decimal.Decimal
	CurrentYearWithheld    decimal.Decimal

	Today time.Time
}

// delta runs the estimator on a perturbed input and returns
// baseline.TotalTax() − perturbed.TotalTax(): a positive number is a
// savings.
func delta(baseline domain.TaxEstimate, perturbed tax.Input) decimal.Decimal {
	result := tax.Estimate(perturbed)
	return baseline.TotalTax().Sub(result.TotalTax())
}

// assignPriority implements the §4.5 priority-assignment rule for
// dollar-driven analyzers. CRITICAL is assigned directly only by the
// estimated-payment safe-harbor analyzer, for an underpayment above its
// threshold; no analyzer checks for wash-sale violations already
// committed.
func assignPriority(savings decimal.Decimal) domain.Priority {
	switch {
	case savings.GreaterThanOrEqual(highSavingsThreshold):
		return domain.HIGH
	case savings.GreaterThanOrEqual(mediumSavingsThreshold):
		return domain.MEDIUM
	default:
		return domain.LOW
	}
}

// Analyzer is one pure strategy function.
type Analyzer func(Input) []domain.StrategyRecommendation

// All is the full registry of analyzers, in the order listed in §4.5.
var All = []Analyzer{
	TaxLossHarvesting,
	RetirementAccountMaximization,
	HSAMaximization,
	CharitableBunching,
	SALTCapAnalysis,
	QualifiedPlanHoldingPeriod,
	IncentiveOptionExercise,
	RestrictedUnitLossHarvest,
	NonqualifiedOptionTiming,
	HoldingPeriodRipening,
	SpecificIdentification,
	WashSaleAvoidance,
	SurtaxThresholdManagement,
	IncomeShifting,
	MinimumTaxCreditUse,
	LossCarryforward,
	EstimatedPaymentSafeHarbor,
}

// Run executes every analyzer, then applies the interaction-flagging
// post-pass.
func Run(in Input) []domain.StrategyRecommendation {
	var all []domain.StrategyRecommendation
	for _, analyzer := range All {
		all = append(all, analyzer(in)...)
	}
	return flagInteractions(all)
}
