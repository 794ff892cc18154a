// Package matcher implements the lot matcher (§4.1): given a set of
// lots for a security and a sale, it produces an ordered list of
// (lot, shares) allocations under a chosen policy. It never mutates
// lots; mutation is the reconciliation orchestrator's job.
package matcher

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"taxrecon/internal/domain"
)

// Policy selects the matching strategy.
type Policy int

const (
	// FIFO consumes the oldest lots first. Default policy.
	FIFO Policy = iota
	// SpecificIdentification consumes only the caller-named lot ids,
	// in the order given.
	SpecificIdentification
	// HighestBasisFirst consumes lots with the largest cost-per-share
	// first (used by the strategy engine's specific-identification
	// analyzer to compare outcomes).
	HighestBasisFirst
	// LossFirst consumes lots currently showing the largest per-share
	// loss (negative proceeds-minus-basis) first.
	LossFirst
)

// Allocation is one (lot, shares-consumed) pair.
type Allocation struct {
	Lot    domain.Lot
	Shares decimal.Decimal
}

// Match allocates sale.Shares across candidateLots per policy. It
// returns allocations in consumption order; if the candidates' total
// remaining shares fall short of the sale's request, it returns the
// partial allocation it could make; callers (the orchestrator) are
// responsible for emitting a warning in that case.
//
// specificLotIDs is only consulted when policy is
// SpecificIdentification; currentPricePerShare is only consulted when
// policy is LossFirst.
func Match(candidateLots []domain.Lot, sale domain.Sale, policy Policy, specificLotIDs []domain.ID, currentPricePerShare decimal.Decimal) []Allocation {
	lots := filterToSecurity(candidateLots, sale.Security)

	ordered := orderLots(lots, policy, specificLotIDs, currentPricePerShare)

	remaining := sale.Shares
	var allocations []Allocation
	for _, lot := range ordered {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if lot.SharesRemaining.LessThanOrEqual(decimal.Zero) {
			continue
		}
		take := lot.SharesRemaining
		if take.GreaterThan(remaining) {
			take = remaining
		}
		allocations = append(allocations, Allocation{Lot: lot, Shares: take})
		remaining = remaining.Sub(take)
	}
	return allocations
}

// filterToSecurity implements the §4.1 fuzzy fallback: prefer exact
// ticker match; if the security's ticker is weak ("UNKNOWN"), fall back
// to name-overlap matching (after stripping corporate suffixes); if
// that still yields nothing, fall back to every lot with shares
// remaining, in acquisition-date order.
func filterToSecurity(lots []domain.Lot, security domain.Security) []domain.Lot {
	if !security.IsUnknown() {
		var exact []domain.Lot
		for _, l := range lots {
			if l.Security.Ticker == security.Ticker {
				exact = append(exact, l)
			}
		}
		if len(exact) > 0 {
			return exact
		}
	}

	normalized := security.NormalizedName()
	if normalized != "" {
		var byName []domain.Lot
		for _, l := range lots {
			if strings.Contains(l.Security.NormalizedName(), normalized) ||
				strings.Contains(normalized, l.Security.NormalizedName()) {
				byName = append(byName, l)
			}
		}
		if len(byName) > 0 {
			return byName
		}
	}

	var withShares []domain.Lot
	for _, l := range lots {
		if l.SharesRemaining.GreaterThan(decimal.Zero) {
			withShares = append(withShares, l)
		}
	}
	return withShares
}

func orderLots(lots []domain.Lot, policy Policy, specificLotIDs []domain.ID, currentPrice decimal.Decimal) []domain.Lot {
	ordered := make([]domain.Lot, len(lots))
	copy(ordered, lots)

	switch policy {
	case SpecificIdentification:
		byID := make(map[domain.ID]domain.Lot, len(ordered))
		for _, l := range ordered {
			byID[l.ID] = l
		}
		var picked []domain.Lot
		for _, id := range specificLotIDs {
			if l, ok := byID[id]; ok {
				picked = append(picked, l)
			}
		}
		return picked
	case HighestBasisFirst:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].CostPerShare.GreaterThan(ordered[j].CostPerShare)
		})
		return ordered
	case LossFirst:
		sort.SliceStable(ordered, func(i, j int) bool {
			lossI := ordered[i].CostPerShare.Sub(currentPrice)
			lossJ := ordered[j].CostPerShare.Sub(currentPrice)
			return lossI.GreaterThan(lossJ)
		})
		return ordered
	default: // FIFO
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].AcquisitionDate.Before(ordered[j].AcquisitionDate)
		})
		return ordered
	}
}
