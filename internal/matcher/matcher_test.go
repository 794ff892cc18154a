package matcher

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxrecon/internal/domain"
)

func mkLot(id string, acq string, shares string, cost string) domain.Lot {
	date, _ := time.Parse("2006-01-02", acq)
	return domain.Lot{
		ID:              domain.ID(id),
		Security:        domain.Security{Ticker: "ACME", Name: "Acme Corp"},
		AcquisitionDate: date,
		SharesAcquired:  mustDec(shares),
		SharesRemaining: mustDec(shares),
		CostPerShare:    mustDec(cost),
	}
}

func mustDec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func mkSale(shares string) domain.Sale {
	date, _ := time.Parse("2006-01-02", "2025-06-01")
	return domain.Sale{
		ID:       "sale-1",
		Security: domain.Security{Ticker: "ACME", Name: "Acme Corp"},
		Date:     date,
		Shares:   mustDec(shares),
	}
}

func TestMatchFIFOConsumesOldestFirst(t *testing.T) {
	lots := []domain.Lot{
		mkLot("lot-2", "2024-06-01", "50", "20"),
		mkLot("lot-1", "2023-01-01", "50", "10"),
	}
	sale := mkSale("75")

	allocations := Match(lots, sale, FIFO, nil, decimal.Zero)

	require.Len(t, allocations, 2)
	assert.Equal(t, domain.ID("lot-1"), allocations[0].Lot.ID)
	assert.True(t, allocations[0].Shares.Equal(mustDec("50")))
	assert.Equal(t, domain.ID("lot-2"), allocations[1].Lot.ID)
	assert.True(t, allocations[1].Shares.Equal(mustDec("25")))
}

func TestMatchPartialAllocationWhenSharesInsufficient(t *testing.T) {
	lots := []domain.Lot{mkLot("lot-1", "2023-01-01", "10", "10")}
	sale := mkSale("100")

	allocations := Match(lots, sale, FIFO, nil, decimal.Zero)

	require.Len(t, allocations, 1)
	assert.True(t, allocations[0].Shares.Equal(mustDec("10")))
}

func TestMatchSpecificIdentificationHonorsOrder(t *testing.T) {
	lots := []domain.Lot{
		mkLot("lot-1", "2023-01-01", "50", "10"),
		mkLot("lot-2", "2024-01-01", "50", "20"),
	}
	sale := mkSale("60")

	allocations := Match(lots, sale, SpecificIdentification, []domain.ID{"lot-2", "lot-1"}, decimal.Zero)

	require.Len(t, allocations, 2)
	assert.Equal(t, domain.ID("lot-2"), allocations[0].Lot.ID)
	assert.True(t, allocations[0].Shares.Equal(mustDec("50")))
	assert.Equal(t, domain.ID("lot-1"), allocations[1].Lot.ID)
	assert.True(t, allocations[1].Shares.Equal(mustDec("10")))
}

func TestMatchFuzzyFallbackOnUnknownTicker(t *testing.T) {
	lots := []domain.Lot{
		{
			ID:              "lot-1",
			Security:        domain.Security{Ticker: "ACME", Name: "Acme Corp"},
			AcquisitionDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			SharesRemaining: mustDec("30"),
			SharesAcquired:  mustDec("30"),
		},
	}
	sale := domain.Sale{
		ID:       "sale-unknown",
		Security: domain.Security{Ticker: "UNKNOWN", Name: "Acme Inc"},
		Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Shares:   mustDec("30"),
	}

	allocations := Match(lots, sale, FIFO, nil, decimal.Zero)

	require.Len(t, allocations, 1)
	assert.Equal(t, domain.ID("lot-1"), allocations[0].Lot.ID)
}

func TestMatchNeverMutatesInputLots(t *testing.T) {
	lots := []domain.Lot{mkLot("lot-1", "2023-01-01", "50", "10")}
	sale := mkSale("20")

	_ = Match(lots, sale, FIFO, nil, decimal.Zero)

	assert.True(t, lots[0].SharesRemaining.Equal(mustDec("50")), "Match must not mutate the caller's lots")
}
