package main

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"taxrecon/internal/domain"
	"taxrecon/internal/metrics"
	"taxrecon/internal/strategy"
	"taxrecon/internal/tax"
)

// loadEstimatorInput reads every store record the estimator's Input
// needs for year and status, per §4.4's "input assembly" step. A
// missing reconciliation run for year is not an error: it proceeds with
// nil SaleResults plus a warning, matching the estimator's own
// documented state-machine behavior for that case.
func loadEstimatorInput(ctx context.Context, env *environment, year int, status domain.FilingStatus) (tax.Input, []string, error) {
	var warnings []string

	wages, err := env.store.GetWages(ctx, year)
	if err != nil {
		return tax.Input{}, nil, err
	}
	dividends, err := env.store.GetDividends(ctx, year)
	if err != nil {
		return tax.Input{}, nil, err
	}
	interest, err := env.store.GetInterest(ctx, year)
	if err != nil {
		return tax.Input{}, nil, err
	}
	saleResults, err := env.store.GetSaleResults(ctx, year)
	if err != nil {
		return tax.Input{}, nil, err
	}
	if len(saleResults) == 0 {
		warnings = append(warnings, "no reconciliation run found for this year; proceeding with zero realized gain/loss")
	}

	in := tax.Input{
		Year:         year,
		FilingStatus: status,
		Wages:        wages,
		Dividends:    dividends,
		Interest:     interest,
		SaleResults:  saleResults,
	}
	return in, warnings, nil
}

// timedEstimate calls tax.Estimate and records its duration under
// caller ("baseline" or "report"). The strategy engine's own
// delta-via-estimator calls go to tax.Estimate directly and are not
// recorded here.
func timedEstimate(year int, caller string, in tax.Input) domain.TaxEstimate {
	start := time.Now()
	estimate := tax.Estimate(in)
	metrics.RecordEstimator(year, caller, time.Since(start).Seconds())
	return estimate
}

// runStrategy assembles a strategy.Input around an already-computed
// baseline estimate and runs the full analyzer set.
func runStrategy(baseline domain.TaxEstimate, in tax.Input, lots []domain.Lot) []domain.StrategyRecommendation {
	strategyIn := strategy.Input{
		Baseline:       baseline,
		EstimatorInput: in,
		Lots:           lots,
		CurrentPrices:  map[string]decimal.Decimal{},
		Today:          time.Now(),
	}
	return strategy.Run(strategyIn)
}
