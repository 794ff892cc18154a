package basis

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"taxrecon/internal/domain"
)

const washSaleWindowDays = 30

// ApplyWashSalePass implements the §4.2 wash-sale post-pass. It inspects
// every loss-bearing SaleResult and, for each one, scans every lot
// acquisition (vested, exercised, or purchased; a Lot always originates
// from exactly one such acquisition) for the same security within 30
// days on either side of the sale date. If any exist, the loss is
// disallowed up to its full amount, the disallowed amount is added to
// the basis of the earliest matching replacement lot, and the
// adjustment code is recomputed to incorporate W. The scan is not
// per-account: both broker silos are considered together.
//
// lots is the full, unfiltered universe the caller loaded; results is
// mutated in place and also returned for convenience.
func ApplyWashSalePass(results []domain.SaleResult, lots []domain.Lot) []domain.SaleResult {
	for i := range results {
		r := &results[i]
		if !r.GainOrLoss.IsNegative() {
			continue
		}

		replacement, found := earliestReplacementAcquisition(r.Security, r.SaleDate, lots)
		if !found {
			continue
		}

		loss := r.GainOrLoss.Abs()
		r.AdjustmentCode = SelectAdjustmentCode(r.BrokerReportedBasis, r.CorrectedBasis, loss, false)
		r.WashSaleDisallowed = loss
		r.GainOrLoss = decimal.Zero
		r.AdjustmentAmount = r.AdjustmentAmount.Add(loss)
		r.CorrectedBasis = r.CorrectedBasis.Add(loss)

		for j := range lots {
			if lots[j].ID == replacement {
				lots[j].CostPerShare = lots[j].CostPerShare.Add(perShare(loss, lots[j].SharesAcquired))
				break
			}
		}
	}
	return results
}

func perShare(total, shares decimal.Decimal) decimal.Decimal {
	if shares.IsZero() {
		return decimal.Zero
	}
	return total.Div(shares)
}

// earliestReplacementAcquisition finds the earliest lot acquisition of
// the same security within the 61-day window (sale date ± 30 days).
func earliestReplacementAcquisition(security domain.Security, saleDate time.Time, lots []domain.Lot) (domain.ID, bool) {
	windowStart := saleDate.AddDate(0, 0, -washSaleWindowDays)
	windowEnd := saleDate.AddDate(0, 0, washSaleWindowDays)

	var candidates []domain.Lot
	for _, l := range lots {
		if l.Security.Ticker != security.Ticker {
			continue
		}
		if l.AcquisitionDate.Before(windowStart) || l.AcquisitionDate.After(windowEnd) {
			continue
		}
		candidates = append(candidates, l)
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].AcquisitionDate.Before(candidates[j].AcquisitionDate)
	})
	return candidates[0].ID, true
}
