package strategy

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"taxrecon/internal/domain"
	"taxrecon/internal/tax"
)

// TaxLossHarvesting perturbs each candidate lot's sale at current market
// price into the baseline's SaleResults as an additional loss, enforcing
// the 61-day wash-sale check against any upcoming vest of the same
// security.
func TaxLossHarvesting(in Input) []domain.StrategyRecommendation {
	var out []domain.StrategyRecommendation
	for _, lot := range in.Lots {
		price, ok := in.CurrentPrices[lot.Security.Ticker]
		if !ok {
			continue
		}
		unrealizedPerShare := price.Sub(lot.CostPerShare)
		if !unrealizedPerShare.IsNegative() {
			continue // not a loss candidate
		}
		holding := domain.HoldingPeriodFor(lot.AcquisitionDate, in.Today)
		candidateLoss := unrealizedPerShare.Mul(lot.SharesRemaining)

		perturbed := cloneInput(in.EstimatorInput)
		perturbed.SaleResults = append(perturbed.SaleResults, domain.SaleResult{
			Holding:    holding,
			GainOrLoss: candidateLoss,
		})
		savings := delta(in.Baseline, perturbed)
		if savings.LessThanOrEqual(decimal.Zero) {
			continue
		}

		washRisk := in.UpcomingVestDate != nil &&
			in.UpcomingVestSecurity.Ticker == lot.Security.Ticker &&
			withinWashWindow(in.Today, *in.UpcomingVestDate)

		risk := domain.RiskLow
		situation := fmt.Sprintf("Lot of %s shares acquired %s is showing an unrealized loss of %s per share.", lot.SharesRemaining.String(), lot.AcquisitionDate.Format("2006-01-02"), unrealizedPerShare.Abs().String())
		if washRisk {
			risk = domain.RiskHigh
			situation += " A vest of the same security falls within the 61-day wash-sale window around a sale made today."
		}

		out = append(out, domain.StrategyRecommendation{
			Name:              "Tax-loss harvesting",
			Category:          "current-year",
			Priority:          assignPriority(savings),
			Situation:         situation,
			Mechanism:         "Realize the loss by selling the lot; repurchase only after the wash-sale window clears.",
			EstimatedSavings:  savings,
			ActionSteps:       []string{"Sell the lot at current market price", "Avoid repurchasing the same security for 30 days"},
			Risk:              risk,
			AuthorityCitation: "IRC §1091 (wash sale)",
			RelatedAnalyzers:  []string{"Wash-sale avoidance"},
		})
	}
	return out
}

func withinWashWindow(saleDate, otherDate time.Time) bool {
	diff := otherDate.Sub(saleDate)
	if diff < 0 {
		diff = -diff
	}
	return diff <= 30*24*time.Hour
}

// RetirementAccountMaximization perturbs wages down by the taxpayer's
// remaining contribution room as given in the input; no annual-limit
// cap is applied to that figure here.
func RetirementAccountMaximization(in Input) []domain.StrategyRecommendation {
	if in.RetirementRoomRemaining.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	perturbed := cloneInput(in.EstimatorInput)
	perturbed.Wages = reduceWages(perturbed.Wages, in.RetirementRoomRemaining)
	savings := delta(in.Baseline, perturbed)
	if savings.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	return []domain.StrategyRecommendation{{
		Name:              "Retirement-account maximization",
		Category:          "current-year",
		Priority:          assignPriority(savings),
		Situation:         fmt.Sprintf("%s of elective-deferral room remains unused this year.", in.RetirementRoomRemaining.String()),
		Mechanism:         "Increase pre-tax retirement contributions by the remaining room, reducing wages subject to federal and California tax.",
		EstimatedSavings:  savings,
		ActionSteps:       []string{"Increase payroll elective-deferral percentage before year-end"},
		Risk:              domain.RiskLow,
		CaliforniaNote:    "California conforms to the federal pre-tax exclusion for qualified retirement plans.",
		AuthorityCitation: "IRC §402(g)",
		RelatedAnalyzers:  []string{"Incentive-option exercise", "Surtax threshold management"},
	}}
}

// HSAMaximization perturbs AGI down by remaining HSA room; California
// non-conformity reverses the benefit on the state return, which the
// delta-via-estimator approach captures automatically because the
// perturbed HSAContribution flows into the California add-back.
func HSAMaximization(in Input) []domain.StrategyRecommendation {
	if in.HSARoomRemaining.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	perturbed := cloneInput(in.EstimatorInput)
	perturbed.Wages = reduceWages(perturbed.Wages, in.HSARoomRemaining)
	perturbed.HSAContribution = perturbed.HSAContribution.Add(in.HSARoomRemaining)
	savings := delta(in.Baseline, perturbed)
	if savings.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	return []domain.StrategyRecommendation{{
		Name:              "Health-savings-account maximization",
		Category:          "current-year",
		Priority:          assignPriority(savings),
		Situation:         fmt.Sprintf("%s of HSA contribution room remains unused this year.", in.HSARoomRemaining.String()),
		Mechanism:         "Maximize HSA contributions; federal AGI drops but California requires an add-back since it does not conform to the federal HSA exclusion.",
		EstimatedSavings:  savings,
		ActionSteps:       []string{"Contribute the remaining room before the filing deadline"},
		Risk:              domain.RiskLow,
		CaliforniaNote:    "California does not conform to IRC §223; the contribution is an add-back on the California return.",
		AuthorityCitation: "IRC §223",
	}}
}

// CharitableBunching adds a multi-year grouped gift to this year's
// charitable cash and reports this year's delta against the baseline
// (the estimator picks itemized or standard as usual). The off years
// are not estimated.
func CharitableBunching(in Input) []domain.StrategyRecommendation {
	if in.CharitableBunchAmount.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	perturbed := cloneInput(in.EstimatorInput)
	perturbed.Itemized.CharitableCash = perturbed.Itemized.CharitableCash.Add(in.CharitableBunchAmount)
	savings := delta(in.Baseline, perturbed)
	if savings.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	return []domain.StrategyRecommendation{{
		Name:              "Charitable bunching",
		Category:          "current-year",
		Priority:          assignPriority(savings),
		Situation:         "Itemized deductions are currently below the standard deduction.",
		Mechanism:         fmt.Sprintf("Bunch %s of planned multi-year giving into this year via a donor-advised fund, itemizing once instead of taking the standard deduction every year.", in.CharitableBunchAmount.String()),
		EstimatedSavings:  savings,
		ActionSteps:       []string{"Fund a donor-advised fund with the bunched amount before year-end", "Take the standard deduction in the off years"},
		Risk:              domain.RiskLow,
		AuthorityCitation: "IRC §170",
	}}
}

// SALTCapAnalysis is informational: it quantifies the state-and-local
// tax paid in excess of the deduction cap, which produces no federal
// savings by construction but is still worth surfacing.
func SALTCapAnalysis(in Input) []domain.StrategyRecommendation {
	unusable := in.Baseline.Itemized.StateAndLocalUncapped.Sub(in.Baseline.Itemized.StateAndLocalCapped)
	if unusable.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	return []domain.StrategyRecommendation{{
		Name:              "State-and-local cap analysis",
		Category:          "current-year",
		Priority:          domain.LOW,
		Situation:         fmt.Sprintf("%s of state-and-local tax paid exceeds the federal deduction cap and produces no federal benefit.", unusable.String()),
		Mechanism:         "Informational only; no perturbation changes this outcome under current law.",
		EstimatedSavings:  decimal.Zero,
		Risk:              domain.RiskLow,
		AuthorityCitation: "IRC §164(b)(6)",
	}}
}

func reduceWages(wages []domain.WageStatement, amount decimal.Decimal) []domain.WageStatement {
	out := make([]domain.WageStatement, len(wages))
	copy(out, wages)
	if len(out) == 0 {
		return out
	}
	out[0].Wages = out[0].Wages.Sub(amount)
	return out
}

func cloneInput(in tax.Input) tax.Input {
	clone := in
	clone.Wages = append([]domain.WageStatement{}, in.Wages...)
	clone.Dividends = append([]domain.DividendStatement{}, in.Dividends...)
	clone.Interest = append([]domain.InterestStatement{}, in.Interest...)
	clone.SaleResults = append([]domain.SaleResult{}, in.SaleResults...)
	return clone
}
