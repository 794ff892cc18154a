package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EquityEvent is the record of a taxable or basis-establishing event.
// Created at ingestion; immutable thereafter.
type EquityEvent struct {
	ID                ID
	Type              EventType
	EquityClass       EquityClass
	Security          Security
	Date              time.Time
	Shares            decimal.Decimal
	PricePerShare     decimal.Decimal // fair-market value at the event
	StrikePrice       *decimal.Decimal
	PurchasePrice     *decimal.Decimal
	OfferingDate      *time.Time
	GrantDate         *time.Time
	FMVAtOffering     *decimal.Decimal
	OrdinaryIncome    *decimal.Decimal
	Origin            string
}
