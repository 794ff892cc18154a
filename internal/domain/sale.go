package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a raw broker-reported disposition, as ingested. Consumed by
// reconciliation; the broker-reported basis is often zero or wrong,
// which is exactly what the basis-correction engine exists to fix.
type Sale struct {
	ID                    ID
	CandidateLotID        ID // may be unassigned; triggers FIFO matching
	Security              Security
	Date                  time.Time
	Shares                decimal.Decimal
	ProceedsPerShare      decimal.Decimal
	BrokerReportedBasis   decimal.Decimal
	WashSaleDisallowed    decimal.Decimal
	Received1099          bool
	BasisReportedToIRS    bool
	BrokerAccountID       string
}

// Proceeds returns the sale's total gross proceeds.
func (s Sale) Proceeds() decimal.Decimal {
	return s.ProceedsPerShare.Mul(s.Shares)
}
