package basis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxrecon/internal/domain"
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

// Scenario 1: restricted-unit with zero-reported basis.
func TestRestrictedUnitZeroReportedBasis(t *testing.T) {
	lot := domain.Lot{
		ID:              "lot-1",
		EquityClass:     domain.RestrictedUnit,
		Security:        domain.Security{Ticker: "ACME"},
		AcquisitionDate: date("2024-03-15"),
		SharesAcquired:  dec("100"),
		SharesRemaining: dec("100"),
		CostPerShare:    dec("150"),
	}
	sale := domain.Sale{
		ID:                 "sale-1",
		Security:           domain.Security{Ticker: "ACME"},
		Date:               date("2025-06-01"),
		Shares:             dec("100"),
		ProceedsPerShare:   dec("175"),
		Received1099:       true,
		BasisReportedToIRS: true,
	}

	result, err := Correct(Input{Lot: lot, Sale: sale, SharesSold: dec("100"), BrokerBasisAllocated: dec("0")})
	require.NoError(t, err)

	assert.True(t, result.CorrectedBasis.Equal(dec("15000")), result.CorrectedBasis.String())
	assert.True(t, result.AdjustmentAmount.Equal(dec("15000")))
	assert.Equal(t, domain.AdjustmentE, result.AdjustmentCode)
	assert.Equal(t, domain.Long, result.Holding)
	assert.Equal(t, domain.CategoryD, result.Category)
	assert.True(t, result.GainOrLoss.Equal(dec("2500")))
	assert.True(t, result.OrdinaryIncome.IsZero())
	assert.True(t, result.BasisIdentityHolds())
}

func qualifiedPlanLot(purchasePrice, fmvOffering, fmvPurchase string, shares string, offering, purchase time.Time) (domain.Lot, domain.EquityEvent) {
	pp := dec(purchasePrice)
	fo := dec(fmvOffering)
	event := domain.EquityEvent{
		ID:            "event-1",
		Type:          domain.EventPurchase,
		EquityClass:   domain.QualifiedPurchasePlan,
		Date:          purchase,
		PricePerShare: dec(fmvPurchase),
		PurchasePrice: &pp,
		OfferingDate:  &offering,
		FMVAtOffering: &fo,
	}
	lot := domain.Lot{
		ID:              "lot-qpp",
		EquityClass:     domain.QualifiedPurchasePlan,
		Security:        domain.Security{Ticker: "ACME"},
		AcquisitionDate: purchase,
		SharesAcquired:  dec(shares),
		SharesRemaining: dec(shares),
		CostPerShare:    pp,
		SourceEventID:   event.ID,
	}
	return lot, event
}

// Scenario 2: qualified-plan qualifying, gain below offering discount.
func TestQualifiedPlanQualifyingGainBelowDiscount(t *testing.T) {
	lot, event := qualifiedPlanLot("85", "110", "100", "150", date("2023-08-15"), date("2024-02-15"))
	sale := domain.Sale{ID: "sale-2", Security: lot.Security, Date: date("2026-09-01"), Shares: dec("150"), ProceedsPerShare: dec("125")}

	result, err := Correct(Input{Lot: lot, Event: &event, Sale: sale, SharesSold: dec("150"), BrokerBasisAllocated: decimal.Zero})
	require.NoError(t, err)

	assert.True(t, result.OrdinaryIncome.Equal(dec("3750")), result.OrdinaryIncome.String()) // 25/share * 150
	assert.True(t, result.CorrectedBasis.Equal(dec("16500")), result.CorrectedBasis.String())
	assert.True(t, result.GainOrLoss.Equal(dec("2250")), result.GainOrLoss.String())
	assert.Equal(t, domain.Long, result.Holding)
}

// Scenario 3: qualified-plan qualifying, loss.
func TestQualifiedPlanQualifyingLoss(t *testing.T) {
	lot, event := qualifiedPlanLot("85", "110", "100", "150", date("2023-08-15"), date("2024-02-15"))
	sale := domain.Sale{ID: "sale-3", Security: lot.Security, Date: date("2026-09-01"), Shares: dec("150"), ProceedsPerShare: dec("80")}

	result, err := Correct(Input{Lot: lot, Event: &event, Sale: sale, SharesSold: dec("150"), BrokerBasisAllocated: decimal.Zero})
	require.NoError(t, err)

	assert.True(t, result.OrdinaryIncome.IsZero())
	assert.True(t, result.CorrectedBasis.Equal(dec("12750")), result.CorrectedBasis.String())
	assert.True(t, result.GainOrLoss.Equal(dec("-750")), result.GainOrLoss.String())
	assert.Equal(t, domain.Long, result.Holding)
}

func incentiveOptionLot(strike, fmvExercise string, shares string, grant, exercise time.Time) (domain.Lot, domain.EquityEvent) {
	fmv := dec(fmvExercise)
	event := domain.EquityEvent{
		ID:          "event-iso",
		Type:        domain.EventExercise,
		EquityClass: domain.IncentiveOption,
		Date:        exercise,
		GrantDate:   &grant,
	}
	lot := domain.Lot{
		ID:                 "lot-iso",
		EquityClass:        domain.IncentiveOption,
		Security:           domain.Security{Ticker: "ACME"},
		AcquisitionDate:    exercise,
		SharesAcquired:     dec(shares),
		SharesRemaining:    dec(shares),
		CostPerShare:       dec(strike),
		MinTaxCostPerShare: &fmv,
		SourceEventID:      event.ID,
	}
	return lot, event
}

// Scenario 4: incentive-option qualifying.
func TestIncentiveOptionQualifying(t *testing.T) {
	lot, event := incentiveOptionLot("10", "50", "100", date("2023-01-01"), date("2024-01-15"))
	sale := domain.Sale{ID: "sale-4", Security: lot.Security, Date: date("2026-03-01"), Shares: dec("100"), ProceedsPerShare: dec("70")}

	result, err := Correct(Input{Lot: lot, Event: &event, Sale: sale, SharesSold: dec("100"), BrokerBasisAllocated: decimal.Zero})
	require.NoError(t, err)

	assert.True(t, result.CorrectedBasis.Equal(dec("1000")), result.CorrectedBasis.String())
	assert.True(t, result.OrdinaryIncome.IsZero())
	assert.True(t, result.GainOrLoss.Equal(dec("6000")), result.GainOrLoss.String())
	assert.True(t, result.MinTaxAdjustment.Equal(dec("-4000")), result.MinTaxAdjustment.String())
	assert.True(t, result.MinTaxAdjustment.IsNegative() || result.MinTaxAdjustment.IsZero())
}

// Scenario 5: incentive-option disqualifying at partial spread.
func TestIncentiveOptionDisqualifyingPartialSpread(t *testing.T) {
	lot, event := incentiveOptionLot("10", "50", "100", date("2023-01-01"), date("2024-01-15"))
	sale := domain.Sale{ID: "sale-5", Security: lot.Security, Date: date("2024-07-15"), Shares: dec("100"), ProceedsPerShare: dec("30")}

	result, err := Correct(Input{Lot: lot, Event: &event, Sale: sale, SharesSold: dec("100"), BrokerBasisAllocated: decimal.Zero})
	require.NoError(t, err)

	assert.True(t, result.OrdinaryIncome.Equal(dec("2000")), result.OrdinaryIncome.String())
	assert.True(t, result.CorrectedBasis.Equal(dec("3000")), result.CorrectedBasis.String())
	assert.True(t, result.GainOrLoss.IsZero(), result.GainOrLoss.String())
}

func TestIncentiveOptionMissingGrantDateFallsBackToDisqualifying(t *testing.T) {
	fmv := dec("50")
	lot := domain.Lot{
		ID:                 "lot-iso-2",
		EquityClass:        domain.IncentiveOption,
		Security:           domain.Security{Ticker: "ACME"},
		AcquisitionDate:    date("2024-01-15"),
		SharesAcquired:     dec("100"),
		SharesRemaining:    dec("100"),
		CostPerShare:       dec("10"),
		MinTaxCostPerShare: &fmv,
	}
	sale := domain.Sale{ID: "sale-6", Security: lot.Security, Date: date("2026-03-01"), Shares: dec("100"), ProceedsPerShare: dec("70")}

	result, err := Correct(Input{Lot: lot, Sale: sale, SharesSold: dec("100"), BrokerBasisAllocated: decimal.Zero})
	require.NoError(t, err)

	assert.False(t, result.OrdinaryIncome.IsZero(), "missing grant date must fall back to disqualifying (ordinary income recognized)")
	assert.Contains(t, result.Notes, "disqualifying")
}

func TestQualifiedPlanMissingOfferingDataIsFatal(t *testing.T) {
	lot := domain.Lot{
		ID:              "lot-qpp-bad",
		EquityClass:     domain.QualifiedPurchasePlan,
		AcquisitionDate: date("2024-02-15"),
		SharesRemaining: dec("10"),
	}
	sale := domain.Sale{Date: date("2026-09-01"), ProceedsPerShare: dec("100")}

	_, err := Correct(Input{Lot: lot, Sale: sale, SharesSold: dec("10"), BrokerBasisAllocated: decimal.Zero})
	require.Error(t, err)
}

func TestApplyWashSalePassDisallowsLossWithinWindow(t *testing.T) {
	lot := domain.Lot{
		ID:              "lot-original",
		Security:        domain.Security{Ticker: "ACME"},
		AcquisitionDate: date("2023-01-01"),
		SharesAcquired:  dec("100"),
		SharesRemaining: dec("0"),
		CostPerShare:    dec("100"),
	}
	replacement := domain.Lot{
		ID:              "lot-replacement",
		Security:        domain.Security{Ticker: "ACME"},
		AcquisitionDate: date("2025-06-15"),
		SharesAcquired:  dec("50"),
		SharesRemaining: dec("50"),
		CostPerShare:    dec("90"),
	}
	results := []domain.SaleResult{
		{
			ID:                  "result-1",
			Security:            lot.Security,
			SaleDate:            date("2025-06-01"),
			CorrectedBasis:      dec("10000"),
			BrokerReportedBasis: dec("10000"),
			GainOrLoss:          dec("-1000"),
		},
	}

	updated := ApplyWashSalePass(results, []domain.Lot{lot, replacement})

	require.Len(t, updated, 1)
	assert.True(t, updated[0].WashSaleDisallowed.Equal(dec("1000")))
	assert.True(t, updated[0].GainOrLoss.IsZero())
	assert.Equal(t, domain.AdjustmentW, updated[0].AdjustmentCode)
}
