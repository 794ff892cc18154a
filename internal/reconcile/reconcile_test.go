package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxrecon/internal/domain"
	"taxrecon/internal/store/memory"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestReconcileProducesSaleResultAndDecrementsLot(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	lot := domain.Lot{
		ID:              domain.NewID(),
		EquityClass:     domain.RestrictedUnit,
		Security:        domain.Security{Ticker: "ACME"},
		AcquisitionDate: date("2024-03-15"),
		SharesAcquired:  d("100"),
		SharesRemaining: d("100"),
		CostPerShare:    d("150"),
	}
	require.NoError(t, s.SaveLot(ctx, lot))

	sale := domain.Sale{
		ID:                 domain.NewID(),
		Security:           domain.Security{Ticker: "ACME"},
		Date:               date("2025-06-01"),
		Shares:              d("100"),
		ProceedsPerShare:    d("175"),
		Received1099:        true,
		BasisReportedToIRS:  true,
	}
	require.NoError(t, s.SaveSale(ctx, sale))

	orch := New(s, nil)
	result, err := orch.Reconcile(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, result.SaleResults, 1)
	assert.Empty(t, result.Warnings)

	sr := result.SaleResults[0]
	assert.True(t, sr.CorrectedBasis.Equal(d("15000")))
	assert.True(t, sr.GainOrLoss.Equal(d("2500")))

	lots, err := s.GetLots(ctx)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.True(t, lots[0].SharesRemaining.IsZero())
}

func TestReconcileIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	lot := domain.Lot{
		ID:              domain.NewID(),
		EquityClass:     domain.RestrictedUnit,
		Security:        domain.Security{Ticker: "ACME"},
		AcquisitionDate: date("2024-03-15"),
		SharesAcquired:  d("100"),
		SharesRemaining: d("100"),
		CostPerShare:    d("150"),
	}
	require.NoError(t, s.SaveLot(ctx, lot))
	sale := domain.Sale{
		ID:                 domain.NewID(),
		Security:           domain.Security{Ticker: "ACME"},
		Date:               date("2025-06-01"),
		Shares:              d("40"),
		ProceedsPerShare:    d("175"),
		Received1099:        true,
		BasisReportedToIRS:  true,
	}
	require.NoError(t, s.SaveSale(ctx, sale))

	orch := New(s, nil)
	first, err := orch.Reconcile(ctx, 2025)
	require.NoError(t, err)

	second, err := orch.Reconcile(ctx, 2025)
	require.NoError(t, err)

	require.Len(t, first.SaleResults, 1)
	require.Len(t, second.SaleResults, 1)
	assert.True(t, first.SaleResults[0].GainOrLoss.Equal(second.SaleResults[0].GainOrLoss))

	lots, err := s.GetLots(ctx)
	require.NoError(t, err)
	assert.True(t, lots[0].SharesRemaining.Equal(d("60")), "re-running must not double-decrement shares")
}

func TestReconcileWarnsWhenNoCandidateLot(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	sale := domain.Sale{
		ID:               domain.NewID(),
		Security:         domain.Security{Ticker: "NOPE"},
		Date:             date("2025-06-01"),
		Shares:           d("10"),
		ProceedsPerShare: d("10"),
	}
	require.NoError(t, s.SaveSale(ctx, sale))

	orch := New(s, nil)
	result, err := orch.Reconcile(ctx, 2025)
	require.NoError(t, err)
	assert.Empty(t, result.SaleResults)
	assert.Len(t, result.Warnings, 1)
}
