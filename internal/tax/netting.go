package tax

import (
	"github.com/shopspring/decimal"

	"taxrecon/internal/domain"
)

var capLossLimit = decimal.RequireFromString("-3000")
var capLossLimitMFS = decimal.RequireFromString("-1500")

// NettingResult is the §4.4 capital-loss netting sequence's output.
type NettingResult struct {
	ShortTerm       decimal.Decimal // post-carryover, post-offset short-term component
	LongTerm        decimal.Decimal // post-carryover, post-offset long-term component
	TotalForAGI     decimal.Decimal // combined amount entering AGI, capped at the annual deduction limit when negative
	CarryForward    decimal.Decimal
}

// netCapitalLosses: apply the prior-year carryover (short-term first,
// then long-term), net short against long if opposite-signed, then cap
// the deductible loss and compute next year's carryover.
func netCapitalLosses(shortTerm, longTerm, priorCarryover decimal.Decimal, status domain.FilingStatus) NettingResult {
	netShort := shortTerm
	netLong := longTerm

	remainingCarryover := priorCarryover
	if remainingCarryover.IsNegative() {
		if netShort.IsPositive() {
			applied := decimal.Min(netShort, remainingCarryover.Abs())
			netShort = netShort.Sub(applied)
			remainingCarryover = remainingCarryover.Add(applied)
		}
		if remainingCarryover.IsNegative() && netLong.IsPositive() {
			applied := decimal.Min(netLong, remainingCarryover.Abs())
			netLong = netLong.Sub(applied)
			remainingCarryover = remainingCarryover.Add(applied)
		}
	}

	if netShort.IsPositive() && netLong.IsNegative() {
		offset := decimal.Min(netShort, netLong.Abs())
		netShort = netShort.Sub(offset)
		netLong = netLong.Add(offset)
	} else if netLong.IsPositive() && netShort.IsNegative() {
		offset := decimal.Min(netLong, netShort.Abs())
		netLong = netLong.Sub(offset)
		netShort = netShort.Add(offset)
	}

	combined := netShort.Add(netLong).Add(remainingCarryover)
	if !combined.IsNegative() {
		return NettingResult{ShortTerm: netShort, LongTerm: netLong, TotalForAGI: combined, CarryForward: decimal.Zero}
	}

	limit := capLossLimit
	if status == domain.MarriedFilingSeparately {
		limit = capLossLimitMFS
	}
	deductible := decimal.Max(combined, limit)
	return NettingResult{
		ShortTerm:    netShort,
		LongTerm:     netLong,
		TotalForAGI:  deductible,
		CarryForward: combined.Sub(deductible),
	}
}
