package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"taxrecon/internal/domain"
	"taxrecon/internal/tax"
)

// QualifiedPlanHoldingPeriod compares selling a qualified-purchase-plan
// lot now (disqualifying) against waiting until it qualifies, using the
// lot's current market price for both scenarios.
func QualifiedPlanHoldingPeriod(in Input) []domain.StrategyRecommendation {
	var out []domain.StrategyRecommendation
	for _, lot := range in.Lots {
		if lot.EquityClass != domain.QualifiedPurchasePlan {
			continue
		}
		price, ok := in.CurrentPrices[lot.Security.Ticker]
		if !ok {
			continue
		}

		spread := price.Sub(lot.CostPerShare).Mul(lot.SharesRemaining)

		now := cloneInput(in.EstimatorInput)
		now.SaleResults = append(now.SaleResults, domain.SaleResult{Holding: domain.Short, GainOrLoss: spread})
		nowCost := in.Baseline.TotalTax().Sub(delta(in.Baseline, now))

		later := cloneInput(in.EstimatorInput)
		later.SaleResults = append(later.SaleResults, domain.SaleResult{Holding: domain.Long, GainOrLoss: spread})
		laterCost := tax.Estimate(later).TotalTax()

		savings := nowCost.Sub(laterCost)
		if savings.LessThanOrEqual(decimal.Zero) {
			continue
		}

		out = append(out, domain.StrategyRecommendation{
			Name:              "Qualified-plan holding period",
			Category:          "equity-compensation",
			Priority:          assignPriority(savings),
			Situation:         fmt.Sprintf("Selling the lot acquired %s today is a disqualifying disposition.", lot.AcquisitionDate.Format("2006-01-02")),
			Mechanism:         "Waiting until the lot qualifies converts the ordinary-income spread into long-term capital gain.",
			EstimatedSavings:  savings,
			ActionSteps:       []string{"Hold the lot until both the two-year-from-offering and one-year-from-purchase tests are met"},
			Risk:              domain.RiskModerate,
			AuthorityCitation: "IRC §423",
		})
	}
	return out
}

// IncentiveOptionExercise binary-searches the maximum exercise quantity
// (expressed as minimum-tax preference dollars) that leaves AMT at zero,
// quantifying the cost of exercising beyond that headroom.
func IncentiveOptionExercise(in Input) []domain.StrategyRecommendation {
	for _, lot := range in.Lots {
		if lot.EquityClass != domain.IncentiveOption || !lot.HasMinTaxBasis() {
			continue
		}
		price, ok := in.CurrentPrices[lot.Security.Ticker]
		if !ok {
			continue
		}
		spreadPerShare := price.Sub(lot.CostPerShare)
		if spreadPerShare.LessThanOrEqual(decimal.Zero) {
			continue
		}
		totalPreference := spreadPerShare.Mul(lot.SharesRemaining)

		headroomPreference, amtAtFullExercise := binarySearchAMTHeadroom(in, totalPreference)
		if headroomPreference.GreaterThanOrEqual(totalPreference) {
			continue // the whole exercise fits inside AMT headroom
		}

		aboveHeadroom := totalPreference.Sub(headroomPreference)
		return []domain.StrategyRecommendation{{
			Name:     "Incentive-option exercise",
			Category: "equity-compensation",
			Priority: assignPriority(amtAtFullExercise),
			Situation: fmt.Sprintf("Exercising all %s remaining shares generates %s of AMT preference, exceeding headroom by %s.",
				lot.SharesRemaining.String(), totalPreference.String(), aboveHeadroom.String()),
			Mechanism:         "Exercise only up to the preference amount that keeps AMT at zero this year; exercise the remainder in a later year or across a year boundary.",
			EstimatedSavings:  amtAtFullExercise,
			ActionSteps:       []string{fmt.Sprintf("Limit this year's exercise to %s of preference income", headroomPreference.String())},
			Risk:              domain.RiskModerate,
			AuthorityCitation: "IRC §56(b)(3)",
			RelatedAnalyzers:  []string{"Minimum-tax-credit use"},
		}}
	}
	return nil
}

// binarySearchAMTHeadroom finds, to within a dollar, the largest
// minimum-tax preference addition to the baseline that still produces
// zero AMT, returning that preference amount and the AMT owed if the
// full preference were recognized instead.
func binarySearchAMTHeadroom(in Input, fullPreference decimal.Decimal) (headroom, amtAtFull decimal.Decimal) {
	amtAt := func(preference decimal.Decimal) decimal.Decimal {
		perturbed := cloneInput(in.EstimatorInput)
		perturbed.SaleResults = append(perturbed.SaleResults, domain.SaleResult{Holding: domain.Long, MinTaxAdjustment: preference})
		return tax.Estimate(perturbed).AMT
	}

	amtAtFull = amtAt(fullPreference)
	if amtAtFull.IsZero() {
		return fullPreference, decimal.Zero
	}

	lo, hi := decimal.Zero, fullPreference
	one := decimal.RequireFromString("1")
	for i := 0; i < 24 && hi.Sub(lo).GreaterThan(one); i++ {
		mid := lo.Add(hi).Div(decimal.NewFromInt(2))
		if amtAt(mid).IsZero() {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, amtAtFull
}

// RestrictedUnitLossHarvest mirrors TaxLossHarvesting restricted to
// restricted-unit lots specifically, so its recommendation carries the
// restricted-unit-specific authority citation and name.
func RestrictedUnitLossHarvest(in Input) []domain.StrategyRecommendation {
	restricted := Input{}
	restricted = in
	restricted.Lots = nil
	for _, lot := range in.Lots {
		if lot.EquityClass == domain.RestrictedUnit {
			restricted.Lots = append(restricted.Lots, lot)
		}
	}

	var out []domain.StrategyRecommendation
	for _, rec := range TaxLossHarvesting(restricted) {
		rec.Name = "Restricted-unit loss harvest"
		rec.AuthorityCitation = "IRC §83"
		out = append(out, rec)
	}
	return out
}

// NonqualifiedOptionTiming compares exercising-and-selling a
// nonqualified-option lot this year against the taxpayer's projected
// marginal rate next year.
func NonqualifiedOptionTiming(in Input) []domain.StrategyRecommendation {
	if in.NextYearProjectedIncome.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	for _, lot := range in.Lots {
		if lot.EquityClass != domain.NonqualifiedOption {
			continue
		}
		price, ok := in.CurrentPrices[lot.Security.Ticker]
		if !ok {
			continue
		}
		spread := price.Sub(lot.CostPerShare).Mul(lot.SharesRemaining)
		if spread.LessThanOrEqual(decimal.Zero) {
			continue
		}

		thisYear := cloneInput(in.EstimatorInput)
		thisYear.SaleResults = append(thisYear.SaleResults, domain.SaleResult{Holding: domain.Short, GainOrLoss: spread})
		thisYearCost := in.Baseline.TotalTax().Sub(delta(in.Baseline, thisYear))

		nextYear := cloneInput(in.EstimatorInput)
		if len(nextYear.Wages) > 0 {
			nextYear.Wages[0].Wages = in.NextYearProjectedIncome
		}
		nextYear.SaleResults = append(nextYear.SaleResults, domain.SaleResult{Holding: domain.Short, GainOrLoss: spread})
		nextYearCost := tax.Estimate(nextYear).TotalTax()

		savings := thisYearCost.Sub(nextYearCost)
		if savings.LessThanOrEqual(decimal.Zero) {
			continue
		}

		return []domain.StrategyRecommendation{{
			Name:              "Nonqualified-option timing",
			Category:          "equity-compensation",
			Priority:          assignPriority(savings),
			Situation:         "Next year's projected marginal rate is lower than this year's.",
			Mechanism:         "Defer the exercise-and-sell to next year to recognize the ordinary-income spread at a lower marginal rate.",
			EstimatedSavings:  savings,
			Risk:              domain.RiskModerate,
			AuthorityCitation: "IRC §83(e)(4)",
		}}
	}
	return nil
}
