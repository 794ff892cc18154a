package strategy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxrecon/internal/domain"
	"taxrecon/internal/tax"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func baseEstimatorInput() tax.Input {
	return tax.Input{
		Year:         2024,
		FilingStatus: domain.Single,
		Wages:        []domain.WageStatement{{Year: 2024, Wages: dec("180000"), FederalWithheld: dec("30000")}},
	}
}

func TestTaxLossHarvestingFindsUnrealizedLossLot(t *testing.T) {
	estimatorInput := baseEstimatorInput()
	baseline := tax.Estimate(estimatorInput)

	in := Input{
		Baseline:       baseline,
		EstimatorInput: estimatorInput,
		Lots: []domain.Lot{
			{ID: "lot-1", EquityClass: domain.RestrictedUnit, Security: domain.Security{Ticker: "ACME"}, AcquisitionDate: date("2023-01-01"), SharesRemaining: dec("100"), CostPerShare: dec("150")},
		},
		CurrentPrices: map[string]decimal.Decimal{"ACME": dec("100")},
		Today:         date("2024-11-01"),
	}

	recs := TaxLossHarvesting(in)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].EstimatedSavings.IsPositive())
	assert.Equal(t, domain.RiskLow, recs[0].Risk)
}

func TestTaxLossHarvestingFlagsWashSaleRisk(t *testing.T) {
	estimatorInput := baseEstimatorInput()
	baseline := tax.Estimate(estimatorInput)
	vestDate := date("2024-11-10")

	in := Input{
		Baseline:       baseline,
		EstimatorInput: estimatorInput,
		Lots: []domain.Lot{
			{ID: "lot-1", EquityClass: domain.RestrictedUnit, Security: domain.Security{Ticker: "ACME"}, AcquisitionDate: date("2023-01-01"), SharesRemaining: dec("100"), CostPerShare: dec("150")},
		},
		CurrentPrices:        map[string]decimal.Decimal{"ACME": dec("100")},
		Today:                date("2024-11-01"),
		UpcomingVestDate:     &vestDate,
		UpcomingVestSecurity: domain.Security{Ticker: "ACME"},
	}

	recs := TaxLossHarvesting(in)
	require.Len(t, recs, 1)
	assert.Equal(t, domain.RiskHigh, recs[0].Risk)
}

func TestRetirementAccountMaximizationRecommendsWhenRoomRemains(t *testing.T) {
	estimatorInput := baseEstimatorInput()
	baseline := tax.Estimate(estimatorInput)

	in := Input{
		Baseline:                baseline,
		EstimatorInput:          estimatorInput,
		RetirementRoomRemaining: dec("10000"),
	}

	recs := RetirementAccountMaximization(in)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].EstimatedSavings.IsPositive())
}

func TestHSAMaximizationCapturesCaliforniaAddback(t *testing.T) {
	estimatorInput := baseEstimatorInput()
	baseline := tax.Estimate(estimatorInput)

	in := Input{
		Baseline:         baseline,
		EstimatorInput:   estimatorInput,
		HSARoomRemaining: dec("4000"),
	}

	recs := HSAMaximization(in)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].CaliforniaNote, "add-back")
}

func TestSALTCapAnalysisIsInformationalOnly(t *testing.T) {
	estimatorInput := baseEstimatorInput()
	estimatorInput.Itemized = domain.ItemizedDeductions{StateIncomeTaxPaid: dec("25000"), RealEstateTax: dec("15000")}
	baseline := tax.Estimate(estimatorInput)

	in := Input{Baseline: baseline, EstimatorInput: estimatorInput}
	recs := SALTCapAnalysis(in)
	if len(recs) > 0 {
		assert.True(t, recs[0].EstimatedSavings.IsZero())
	}
}

func TestIncentiveOptionExerciseFlagsAMTHeadroomExceeded(t *testing.T) {
	estimatorInput := baseEstimatorInput()
	baseline := tax.Estimate(estimatorInput)
	fmv := dec("200")

	in := Input{
		Baseline:       baseline,
		EstimatorInput: estimatorInput,
		Lots: []domain.Lot{
			{ID: "lot-iso", EquityClass: domain.IncentiveOption, Security: domain.Security{Ticker: "ISOC"}, AcquisitionDate: date("2024-01-01"), SharesRemaining: dec("1000"), CostPerShare: dec("10"), MinTaxCostPerShare: &fmv},
		},
		CurrentPrices: map[string]decimal.Decimal{"ISOC": dec("200")},
	}

	recs := IncentiveOptionExercise(in)
	if len(recs) > 0 {
		assert.Contains(t, recs[0].RelatedAnalyzers, "Minimum-tax-credit use")
	}
}

func TestRestrictedUnitLossHarvestOnlyConsidersRestrictedUnitLots(t *testing.T) {
	estimatorInput := baseEstimatorInput()
	baseline := tax.Estimate(estimatorInput)
	fmv := dec("50")

	in := Input{
		Baseline:       baseline,
		EstimatorInput: estimatorInput,
		Lots: []domain.Lot{
			{ID: "lot-nso", EquityClass: domain.NonqualifiedOption, Security: domain.Security{Ticker: "OPTC"}, AcquisitionDate: date("2023-01-01"), SharesRemaining: dec("100"), CostPerShare: dec("200"), MinTaxCostPerShare: &fmv},
			{ID: "lot-rsu", EquityClass: domain.RestrictedUnit, Security: domain.Security{Ticker: "RSUC"}, AcquisitionDate: date("2023-01-01"), SharesRemaining: dec("100"), CostPerShare: dec("200")},
		},
		CurrentPrices: map[string]decimal.Decimal{"OPTC": dec("100"), "RSUC": dec("100")},
		Today:         date("2024-11-01"),
	}

	recs := RestrictedUnitLossHarvest(in)
	for _, r := range recs {
		assert.Equal(t, "Restricted-unit loss harvest", r.Name)
	}
}

func TestHoldingPeriodRipeningFlagsLotNearAnniversary(t *testing.T) {
	estimatorInput := baseEstimatorInput()
	baseline := tax.Estimate(estimatorInput)

	in := Input{
		Baseline:       baseline,
		EstimatorInput: estimatorInput,
		Lots: []domain.Lot{
			{ID: "lot-1", EquityClass: domain.RestrictedUnit, Security: domain.Security{Ticker: "ACME"}, AcquisitionDate: date("2024-01-01"), SharesRemaining: dec("100"), CostPerShare: dec("50")},
		},
		CurrentPrices: map[string]decimal.Decimal{"ACME": dec("100")},
		Today:         date("2024-12-15"), // 17 days before the one-year anniversary
	}

	recs := HoldingPeriodRipening(in)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].EstimatedSavings.IsPositive())
}

func TestSpecificIdentificationRecommendsCheaperPolicy(t *testing.T) {
	estimatorInput := baseEstimatorInput()
	baseline := tax.Estimate(estimatorInput)

	in := Input{
		Baseline:       baseline,
		EstimatorInput: estimatorInput,
		Lots: []domain.Lot{
			{ID: "lot-cheap", Security: domain.Security{Ticker: "ACME"}, AcquisitionDate: date("2023-01-01"), SharesRemaining: dec("50"), CostPerShare: dec("90")},
			{ID: "lot-expensive", Security: domain.Security{Ticker: "ACME"}, AcquisitionDate: date("2024-06-01"), SharesRemaining: dec("50"), CostPerShare: dec("10")},
		},
		PlannedSaleSecurity:         domain.Security{Ticker: "ACME"},
		PlannedSaleShares:           dec("50"),
		PlannedSaleProceedsPerShare: dec("100"),
		Today:                       date("2024-11-01"),
	}

	recs := SpecificIdentification(in)
	if len(recs) > 0 {
		assert.True(t, recs[0].EstimatedSavings.IsPositive())
	}
}

func TestWashSaleAvoidanceFlagsUpcomingVestNearLossLot(t *testing.T) {
	estimatorInput := baseEstimatorInput()
	baseline := tax.Estimate(estimatorInput)
	vestDate := date("2024-11-20")

	in := Input{
		Baseline:       baseline,
		EstimatorInput: estimatorInput,
		Lots: []domain.Lot{
			{ID: "lot-1", Security: domain.Security{Ticker: "ACME"}, AcquisitionDate: date("2023-01-01"), SharesRemaining: dec("100"), CostPerShare: dec("150")},
		},
		CurrentPrices:        map[string]decimal.Decimal{"ACME": dec("100")},
		Today:                date("2024-11-01"),
		UpcomingVestDate:     &vestDate,
		UpcomingVestSecurity: domain.Security{Ticker: "ACME"},
	}

	recs := WashSaleAvoidance(in)
	require.Len(t, recs, 1)
	assert.Equal(t, domain.HIGH, recs[0].Priority)
}

func TestSurtaxThresholdManagementOnlyFiresWhenSurtaxOwed(t *testing.T) {
	estimatorInput := baseEstimatorInput() // 180k wages, below the 200k single threshold
	baseline := tax.Estimate(estimatorInput)
	in := Input{Baseline: baseline, EstimatorInput: estimatorInput}
	assert.Nil(t, SurtaxThresholdManagement(in))

	estimatorInput.Wages[0].Wages = dec("400000")
	estimatorInput.Interest = []domain.InterestStatement{{Year: 2024, InterestIncome: dec("20000")}}
	baseline = tax.Estimate(estimatorInput)
	in = Input{Baseline: baseline, EstimatorInput: estimatorInput}
	recs := SurtaxThresholdManagement(in)
	if len(recs) > 0 {
		assert.Contains(t, recs[0].RelatedAnalyzers, "Retirement-account maximization")
	}
}

func TestMinimumTaxCreditUseOnlyFiresWhenCreditIsUsed(t *testing.T) {
	estimatorInput := baseEstimatorInput()
	estimatorInput.PriorYearCarryovers.MinimumTaxCredit = dec("5000")
	baseline := tax.Estimate(estimatorInput)
	in := Input{Baseline: baseline, EstimatorInput: estimatorInput}

	recs := MinimumTaxCreditUse(in)
	if baseline.MinimumTaxCreditUsed.IsPositive() {
		require.Len(t, recs, 1)
	} else {
		assert.Nil(t, recs)
	}
}

func TestLossCarryforwardEstimatesAbsorptionYears(t *testing.T) {
	estimatorInput := baseEstimatorInput()
	estimatorInput.PriorYearCarryovers.CapitalLoss = dec("-9000")
	baseline := tax.Estimate(estimatorInput)

	in := Input{Baseline: baseline, EstimatorInput: estimatorInput}
	recs := LossCarryforward(in)
	if baseline.OutputCarryovers.CapitalLoss.IsNegative() {
		require.Len(t, recs, 1)
		assert.Equal(t, domain.LOW, recs[0].Priority)
	}
}

func TestEstimatedPaymentSafeHarborFlagsShortfallAsCritical(t *testing.T) {
	estimatorInput := baseEstimatorInput()
	baseline := tax.Estimate(estimatorInput)

	in := Input{
		Baseline:          baseline,
		EstimatorInput:    estimatorInput,
		PriorYearTotalTax: dec("60000"),
		CurrentYearWithheld: dec("10000"),
	}

	recs := EstimatedPaymentSafeHarbor(in)
	require.Len(t, recs, 1)
	assert.Equal(t, domain.CRITICAL, recs[0].Priority)
}

func TestEstimatedPaymentSafeHarborSilentWhenSafeHarborMet(t *testing.T) {
	estimatorInput := baseEstimatorInput()
	baseline := tax.Estimate(estimatorInput)

	in := Input{
		Baseline:            baseline,
		EstimatorInput:      estimatorInput,
		PriorYearTotalTax:   baseline.TotalTax(),
		CurrentYearWithheld: baseline.TotalTax(),
	}

	assert.Nil(t, EstimatedPaymentSafeHarbor(in))
}

func TestRunAppliesInteractionFlaggingAcrossAnalyzers(t *testing.T) {
	estimatorInput := baseEstimatorInput()
	baseline := tax.Estimate(estimatorInput)

	in := Input{
		Baseline:                baseline,
		EstimatorInput:          estimatorInput,
		RetirementRoomRemaining: dec("10000"),
		Today:                   date("2024-11-01"),
	}

	recs := Run(in)
	var found bool
	for _, r := range recs {
		if r.Name == "Retirement-account maximization" {
			found = true
			assert.Contains(t, r.RelatedAnalyzers, "Surtax threshold management")
		}
	}
	assert.True(t, found)
}
