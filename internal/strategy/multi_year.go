package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"taxrecon/internal/domain"
	"taxrecon/internal/tax"
)

// IncomeShifting compares recognizing discretionary income this year
// against next year, when the taxpayer's projected marginal rate differs.
func IncomeShifting(in Input) []domain.StrategyRecommendation {
	if in.NextYearProjectedIncome.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	currentWages := decimal.Zero
	for _, w := range in.EstimatorInput.Wages {
		currentWages = currentWages.Add(w.Wages)
	}
	if in.NextYearProjectedIncome.GreaterThanOrEqual(currentWages) {
		return nil // shifting income into a higher-income year never helps
	}

	shiftAmount := decimal.RequireFromString("10000")

	recognizedThisYear := cloneInput(in.EstimatorInput)
	recognizedThisYear.Wages = append(recognizedThisYear.Wages, domain.WageStatement{Year: in.EstimatorInput.Year, Wages: shiftAmount})
	marginalCostThisYear := delta(in.Baseline, recognizedThisYear).Neg()

	nextYear := tax.Input{Year: in.EstimatorInput.Year + 1, FilingStatus: in.EstimatorInput.FilingStatus}
	nextYearBaseline := tax.Estimate(tax.Input{
		Year:         nextYear.Year,
		FilingStatus: nextYear.FilingStatus,
		Wages:        []domain.WageStatement{{Year: nextYear.Year, Wages: in.NextYearProjectedIncome}},
	})
	recognizedNextYear := nextYear
	recognizedNextYear.Wages = []domain.WageStatement{{Year: nextYear.Year, Wages: in.NextYearProjectedIncome.Add(shiftAmount)}}
	marginalCostNextYear := tax.Estimate(recognizedNextYear).TotalTax().Sub(nextYearBaseline.TotalTax())

	savings := marginalCostThisYear.Sub(marginalCostNextYear)
	if savings.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	return []domain.StrategyRecommendation{{
		Name:              "Income shifting",
		Category:          "multi-year",
		Priority:          assignPriority(savings),
		Situation:         "Next year's projected income is lower than this year's.",
		Mechanism:         "Deferring discretionary income (bonus timing, deferred-compensation elections) into the lower-income year reduces the marginal rate applied to it.",
		EstimatedSavings:  savings,
		Risk:              domain.RiskModerate,
		AuthorityCitation: "IRC §451",
	}}
}

// MinimumTaxCreditUse quantifies the minimum-tax credit usable this year
// given the gap between regular tax and tentative minimum tax.
func MinimumTaxCreditUse(in Input) []domain.StrategyRecommendation {
	if in.Baseline.OutputCarryovers.MinimumTaxCredit.LessThanOrEqual(decimal.Zero) &&
		in.EstimatorInput.PriorYearCarryovers.MinimumTaxCredit.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	used := in.Baseline.MinimumTaxCreditUsed
	if used.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	return []domain.StrategyRecommendation{{
		Name:              "Minimum-tax-credit use",
		Category:          "multi-year",
		Priority:          assignPriority(used),
		Situation:         fmt.Sprintf("Regular tax exceeds tentative minimum tax this year, allowing %s of prior-year minimum-tax credit to be claimed.", used.String()),
		Mechanism:         "The credit offsets regular tax dollar-for-dollar up to the amount regular tax exceeds tentative minimum tax; claim it on Form 8801.",
		EstimatedSavings:  used,
		Risk:              domain.RiskLow,
		AuthorityCitation: "IRC §53",
	}}
}

// LossCarryforward forecasts how many future years it will take to
// absorb the baseline's capital-loss carryforward at the annual
// deduction cap.
func LossCarryforward(in Input) []domain.StrategyRecommendation {
	carryover := in.Baseline.OutputCarryovers.CapitalLoss
	if carryover.GreaterThanOrEqual(decimal.Zero) {
		return nil
	}
	annualCap := decimal.RequireFromString("-3000")
	remaining := carryover
	years := 0
	for remaining.LessThan(decimal.Zero) && years < 100 {
		remaining = remaining.Sub(annualCap) // subtracting a negative cap absorbs 3000 per year
		years++
	}
	return []domain.StrategyRecommendation{{
		Name:              "Loss carryforward",
		Category:          "multi-year",
		Priority:          domain.LOW,
		Situation:         fmt.Sprintf("%s of capital losses carry forward at year-end, absorbed at $3,000/year against ordinary income absent offsetting gains.", carryover.Abs().String()),
		Mechanism:         fmt.Sprintf("At the statutory cap, full absorption takes roughly %d more year(s) unless offset sooner by future capital gains.", years),
		EstimatedSavings:  decimal.Zero,
		Risk:              domain.RiskLow,
		AuthorityCitation: "IRC §1212(b)",
	}}
}

// EstimatedPaymentSafeHarbor compares total estimated payments and
// withholding against the safe-harbor floor (the lesser of 90% of
// current-year tax or 110% of prior-year tax), flagging a shortfall.
func EstimatedPaymentSafeHarbor(in Input) []domain.StrategyRecommendation {
	if in.PriorYearTotalTax.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	currentYearSafeHarbor := in.Baseline.TotalTax().Mul(decimal.RequireFromString("0.9"))
	priorYearSafeHarbor := in.PriorYearTotalTax.Mul(decimal.RequireFromString("1.1"))
	floor := decimal.Min(currentYearSafeHarbor, priorYearSafeHarbor)

	paid := in.CurrentYearWithheld
	for _, q := range in.QuarterlyPayments {
		paid = paid.Add(q)
	}
	shortfall := floor.Sub(paid)
	if shortfall.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	priority := domain.HIGH
	if shortfall.GreaterThanOrEqual(decimal.RequireFromString("10000")) {
		priority = domain.CRITICAL
	}

	return []domain.StrategyRecommendation{{
		Name:              "Estimated-payment safe harbor",
		Category:          "multi-year",
		Priority:          priority,
		Situation:         fmt.Sprintf("Payments to date of %s fall %s short of the safe-harbor floor of %s.", paid.String(), shortfall.String(), floor.String()),
		Mechanism:         "Increasing withholding or the next quarterly estimated payment to cover the shortfall avoids the underpayment penalty.",
		EstimatedSavings:  decimal.Zero,
		ActionSteps:       []string{"Increase withholding for the remainder of the year or submit an additional estimated payment before the next due date"},
		Risk:              domain.RiskHigh,
		AuthorityCitation: "IRC §6654",
	}}
}
