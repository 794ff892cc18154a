package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"taxrecon/internal/domain"
	"taxrecon/internal/matcher"
)

// HoldingPeriodRipening flags lots within 90 days of their one-year
// anniversary, where a short-term sale today would convert to long-term
// gain if deferred.
func HoldingPeriodRipening(in Input) []domain.StrategyRecommendation {
	var out []domain.StrategyRecommendation
	for _, lot := range in.Lots {
		anniversary := lot.AcquisitionDate.AddDate(1, 0, 0)
		daysUntil := anniversary.Sub(in.Today).Hours() / 24
		if daysUntil <= 0 || daysUntil > 90 {
			continue
		}
		price, ok := in.CurrentPrices[lot.Security.Ticker]
		if !ok {
			continue
		}
		gain := price.Sub(lot.CostPerShare).Mul(lot.SharesRemaining)
		if gain.LessThanOrEqual(decimal.Zero) {
			continue
		}

		shortSale := cloneInput(in.EstimatorInput)
		shortSale.SaleResults = append(shortSale.SaleResults, domain.SaleResult{Holding: domain.Short, GainOrLoss: gain})
		shortCost := in.Baseline.TotalTax().Sub(delta(in.Baseline, shortSale))

		longSale := cloneInput(in.EstimatorInput)
		longSale.SaleResults = append(longSale.SaleResults, domain.SaleResult{Holding: domain.Long, GainOrLoss: gain})
		longCost := in.Baseline.TotalTax().Sub(delta(in.Baseline, longSale))

		savings := shortCost.Sub(longCost)
		if savings.LessThanOrEqual(decimal.Zero) {
			continue
		}

		out = append(out, domain.StrategyRecommendation{
			Name:              "Holding-period ripening",
			Category:          "capital-gains",
			Priority:          assignPriority(savings),
			Situation:         fmt.Sprintf("The lot acquired %s reaches its one-year anniversary in %.0f days.", lot.AcquisitionDate.Format("2006-01-02"), daysUntil),
			Mechanism:         "Deferring the sale past the anniversary converts short-term gain into long-term gain taxed at the preferential rate.",
			EstimatedSavings:  savings,
			ActionSteps:       []string{fmt.Sprintf("Delay the sale until after %s", anniversary.Format("2006-01-02"))},
			Risk:              domain.RiskModerate,
			AuthorityCitation: "IRC §1222",
		})
	}
	return out
}

// SpecificIdentification compares FIFO, highest-basis-first, and
// loss-first lot selection for the taxpayer's planned sale, recommending
// whichever policy minimizes tax.
func SpecificIdentification(in Input) []domain.StrategyRecommendation {
	if in.PlannedSaleShares.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	sale := domain.Sale{
		Security:         in.PlannedSaleSecurity,
		Shares:           in.PlannedSaleShares,
		ProceedsPerShare: in.PlannedSaleProceedsPerShare,
	}

	policies := []struct {
		name   string
		policy matcher.Policy
	}{
		{"FIFO", matcher.FIFO},
		{"highest-basis-first", matcher.HighestBasisFirst},
		{"loss-first", matcher.LossFirst},
	}

	type outcome struct {
		name string
		cost decimal.Decimal
	}
	var outcomes []outcome
	for _, p := range policies {
		allocations := matcher.Match(in.Lots, sale, p.policy, nil, in.PlannedSaleProceedsPerShare)
		gain := decimal.Zero
		var longGain, shortGain decimal.Decimal
		for _, alloc := range allocations {
			g := in.PlannedSaleProceedsPerShare.Sub(alloc.Lot.CostPerShare).Mul(alloc.Shares)
			if domain.HoldingPeriodFor(alloc.Lot.AcquisitionDate, in.Today) == domain.Long {
				longGain = longGain.Add(g)
			} else {
				shortGain = shortGain.Add(g)
			}
			gain = gain.Add(g)
		}

		perturbed := cloneInput(in.EstimatorInput)
		if !shortGain.IsZero() {
			perturbed.SaleResults = append(perturbed.SaleResults, domain.SaleResult{Holding: domain.Short, GainOrLoss: shortGain})
		}
		if !longGain.IsZero() {
			perturbed.SaleResults = append(perturbed.SaleResults, domain.SaleResult{Holding: domain.Long, GainOrLoss: longGain})
		}
		cost := in.Baseline.TotalTax().Sub(delta(in.Baseline, perturbed))
		outcomes = append(outcomes, outcome{name: p.name, cost: cost})
	}

	if len(outcomes) < 2 {
		return nil
	}
	fifo := outcomes[0]
	best := outcomes[0]
	for _, o := range outcomes[1:] {
		if o.cost.LessThan(best.cost) {
			best = o
		}
	}
	savings := fifo.cost.Sub(best.cost)
	if savings.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	return []domain.StrategyRecommendation{{
		Name:              "Specific identification",
		Category:          "capital-gains",
		Priority:          assignPriority(savings),
		Situation:         fmt.Sprintf("Selling %s shares of %s under FIFO differs from the best available lot-selection policy by %s.", in.PlannedSaleShares.String(), in.PlannedSaleSecurity.Ticker, savings.String()),
		Mechanism:         fmt.Sprintf("Instruct the broker to use specific identification, selecting lots under the %s policy instead of default FIFO.", best.name),
		EstimatedSavings:  savings,
		ActionSteps:       []string{"Submit a specific-identification instruction to the broker before settlement"},
		Risk:              domain.RiskLow,
		AuthorityCitation: "Treas. Reg. §1.1012-1(c)",
	}}
}

// WashSaleAvoidance warns when an upcoming vest would fall within 30 days
// of a loss sale of the same security, in either direction.
func WashSaleAvoidance(in Input) []domain.StrategyRecommendation {
	if in.UpcomingVestDate == nil {
		return nil
	}
	var out []domain.StrategyRecommendation
	for _, lot := range in.Lots {
		if lot.Security.Ticker != in.UpcomingVestSecurity.Ticker {
			continue
		}
		price, ok := in.CurrentPrices[lot.Security.Ticker]
		if !ok || !price.LessThan(lot.CostPerShare) {
			continue
		}
		if !withinWashWindow(in.Today, *in.UpcomingVestDate) {
			continue
		}
		out = append(out, domain.StrategyRecommendation{
			Name:              "Wash-sale avoidance",
			Category:          "capital-gains",
			Priority:          domain.HIGH,
			Situation:         fmt.Sprintf("A vest of %s on %s falls within 30 days of a potential loss sale of the lot acquired %s.", in.UpcomingVestSecurity.Ticker, in.UpcomingVestDate.Format("2006-01-02"), lot.AcquisitionDate.Format("2006-01-02")),
			Mechanism:         "Selling at a loss within 30 days of acquiring substantially identical replacement shares disallows the loss under the wash-sale rule.",
			EstimatedSavings:  decimal.Zero,
			ActionSteps:       []string{"Sell the lot more than 30 days before or after the vest date to preserve the loss deduction"},
			Risk:              domain.RiskHigh,
			AuthorityCitation: "IRC §1091",
		})
	}
	return out
}

// SurtaxThresholdManagement quantifies the marginal cost of AGI sitting
// above the net-investment-income surtax threshold.
func SurtaxThresholdManagement(in Input) []domain.StrategyRecommendation {
	if in.Baseline.Surtax.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	reduction := decimal.RequireFromString("10000")
	perturbed := cloneInput(in.EstimatorInput)
	perturbed.Wages = reduceWages(perturbed.Wages, reduction)
	savings := delta(in.Baseline, perturbed)
	if savings.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	return []domain.StrategyRecommendation{{
		Name:              "Surtax threshold management",
		Category:          "capital-gains",
		Priority:          assignPriority(savings),
		Situation:         fmt.Sprintf("AGI sits above the net-investment-income surtax threshold, currently owing %s of surtax.", in.Baseline.Surtax.String()),
		Mechanism:         "Reducing AGI below the threshold (via retirement deferral or income timing) removes investment income from the 3.8% surtax base.",
		EstimatedSavings:  savings,
		Risk:              domain.RiskModerate,
		AuthorityCitation: "IRC §1411",
		RelatedAnalyzers:  []string{"Retirement-account maximization"},
	}}
}
