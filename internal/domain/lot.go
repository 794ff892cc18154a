package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot is a tax-basis cohort from one acquisition. It is created by
// ingestion and mutated only by the reconciliation orchestrator
// decrementing SharesRemaining; it is never deleted (§3 invariant: lot
// conservation).
type Lot struct {
	ID                 ID
	EquityClass        EquityClass
	Security           Security
	AcquisitionDate    time.Time
	SharesAcquired     decimal.Decimal
	SharesRemaining    decimal.Decimal
	CostPerShare       decimal.Decimal  // regular-tax basis per share
	MinTaxCostPerShare *decimal.Decimal // minimum-tax basis per share; present only for IncentiveOption lots (§3 dual-basis discipline)
	SourceEventID      ID
	BrokerAccountID    string // silo identifier; wash-sale scans must span every silo
	Origin             string // free-text provenance tag from ingestion
}

// HasMinTaxBasis reports whether this lot carries the dual minimum-tax
// basis that incentive-option lots require.
func (l Lot) HasMinTaxBasis() bool {
	return l.MinTaxCostPerShare != nil
}

// HoldingPeriodFor classifies the holding period of a sale of shares from
// this lot on saleDate, using the §3 definition: the holding period
// begins the calendar day after acquisition, and a sale is long-term iff
// the sale date is strictly greater than acquisition date + 1 year.
func HoldingPeriodFor(acquisitionDate, saleDate time.Time) HoldingPeriod {
	longTermBoundary := acquisitionDate.AddDate(1, 0, 0)
	if saleDate.After(longTermBoundary) {
		return Long
	}
	return Short
}
