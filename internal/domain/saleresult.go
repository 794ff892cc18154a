package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleResult is a corrected disposition ready for the capital-asset
// reporting schedule. One Sale may produce multiple SaleResults when a
// sale's shares are allocated across several lots.
type SaleResult struct {
	ID                    ID
	SaleID                ID
	LotID                 ID
	Security              Security
	AcquisitionDate       time.Time
	SaleDate              time.Time
	Shares                decimal.Decimal
	Proceeds              decimal.Decimal
	BrokerReportedBasis   decimal.Decimal
	CorrectedBasis        decimal.Decimal
	AdjustmentAmount      decimal.Decimal
	AdjustmentCode        AdjustmentCode
	Holding               HoldingPeriod
	Category              ScheduleCategory
	GainOrLoss            decimal.Decimal
	OrdinaryIncome        decimal.Decimal // ordinary-income component (qualified-plan/disqualifying disposition)
	MinTaxAdjustment      decimal.Decimal // AMT preference adjustment (incentive-option only)
	WashSaleDisallowed    decimal.Decimal
	Notes                 string
}

// BasisIdentityHolds checks the §3 basis-identity invariant:
// broker_reported_basis + adjustment_amount = corrected_basis, and
// proceeds − corrected_basis = gain_or_loss, both up to rounding.
func (r SaleResult) BasisIdentityHolds() bool {
	const tolerance = "0.01"
	tol, _ := decimal.NewFromString(tolerance)

	basisOK := r.BrokerReportedBasis.Add(r.AdjustmentAmount).Sub(r.CorrectedBasis).Abs().LessThanOrEqual(tol)
	gainOK := r.Proceeds.Sub(r.CorrectedBasis).Sub(r.GainOrLoss).Abs().LessThanOrEqual(tol)
	return basisOK && gainOK
}
