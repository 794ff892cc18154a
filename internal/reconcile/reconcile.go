// Package reconcile implements the reconciliation orchestrator (§4.3):
// the load → filter → match → dispatch → accumulate pipeline that turns
// raw Sales and Lots into corrected SaleResults for one tax year.
package reconcile

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"taxrecon/internal/basis"
	"taxrecon/internal/domain"
	"taxrecon/internal/matcher"
	"taxrecon/internal/store"
	"taxrecon/internal/taxerr"
)

// Result summarizes one reconciliation run.
type Result struct {
	Year        int
	SaleResults []domain.SaleResult
	Warnings    []string
}

// Orchestrator runs reconciliation against a store, logging run
// boundaries through Logger.
type Orchestrator struct {
	Store  store.Store
	Logger *zap.Logger
}

func New(s store.Store, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{Store: s, Logger: logger}
}

// Reconcile runs the full pipeline for year. It is idempotent: a second
// call for the same year first clears prior SaleResults and restores
// every lot's shares_remaining before reprocessing.
func (o *Orchestrator) Reconcile(ctx context.Context, year int) (Result, error) {
	o.Logger.Info("reconciliation start", zap.Int("year", year))

	if err := o.resetForRerun(ctx, year); err != nil {
		return Result{}, taxerr.ReconciliationError("failed to reset prior run state", err)
	}

	lots, err := o.Store.GetLots(ctx)
	if err != nil {
		return Result{}, taxerr.ReconciliationError("failed to load lots", err)
	}
	events, err := o.Store.GetEvents(ctx)
	if err != nil {
		return Result{}, taxerr.ReconciliationError("failed to load events", err)
	}
	sales, err := o.Store.GetSales(ctx, year)
	if err != nil {
		return Result{}, taxerr.ReconciliationError("failed to load sales", err)
	}

	eventsByID := make(map[domain.ID]domain.EquityEvent, len(events))
	for _, e := range events {
		eventsByID[e.ID] = e
	}

	var allResults []domain.SaleResult
	var warnings []string

	for _, sale := range sales {
		select {
		case <-ctx.Done():
			return Result{Year: year, SaleResults: allResults, Warnings: warnings}, ctx.Err()
		default:
		}

		results, saleWarnings := o.processSale(sale, lots, eventsByID)
		warnings = append(warnings, saleWarnings...)
		allResults = append(allResults, results...)

		for _, r := range results {
			lots = decrementLot(lots, r.LotID, r.Shares)
			if err := o.Store.SaveSaleResult(ctx, r); err != nil {
				return Result{}, taxerr.ReconciliationError("failed to save sale result", err)
			}
		}
	}

	for _, l := range lots {
		if err := o.Store.SaveLot(ctx, l); err != nil {
			return Result{}, taxerr.ReconciliationError("failed to persist lot shares", err)
		}
	}

	allResults = basis.ApplyWashSalePass(allResults, lots)
	for _, r := range allResults {
		if err := o.Store.SaveSaleResult(ctx, r); err != nil {
			return Result{}, taxerr.ReconciliationError("failed to save wash-sale-adjusted result", err)
		}
	}

	if err := o.Store.SaveAuditEntry(ctx, domain.AuditEntry{
		Engine:    "reconciliation",
		Operation: "reconcile",
		Output:    map[string]any{"sale_result_count": len(allResults), "warning_count": len(warnings)},
		Notes:     fmt.Sprintf("year=%d", year),
	}); err != nil {
		o.Logger.Warn("failed to save audit entry", zap.Error(err))
	}

	summary := fmt.Sprintf("sale_results=%d warnings=%d", len(allResults), len(warnings))
	if err := o.Store.RecordReconciliationRun(ctx, year, summary); err != nil {
		o.Logger.Warn("failed to record reconciliation run", zap.Error(err))
	}

	o.Logger.Info("reconciliation end", zap.Int("year", year), zap.Int("sale_results", len(allResults)), zap.Int("warnings", len(warnings)))
	return Result{Year: year, SaleResults: allResults, Warnings: warnings}, nil
}

// resetForRerun implements idempotence: clear prior SaleResults for the
// year and restore every lot's shares_remaining to shares_acquired.
func (o *Orchestrator) resetForRerun(ctx context.Context, year int) error {
	if _, err := o.Store.ClearSaleResults(ctx, year); err != nil {
		return err
	}
	lots, err := o.Store.GetLots(ctx)
	if err != nil {
		return err
	}
	for _, l := range lots {
		if err := o.Store.ResetLotShares(ctx, l.ID, l.SharesAcquired); err != nil {
			return err
		}
	}
	return nil
}

// processSale filters candidate lots, matches, and dispatches to the
// basis-correction engine for one sale, returning its SaleResults and
// any warnings per the §4.3 failure semantics.
func (o *Orchestrator) processSale(sale domain.Sale, lots []domain.Lot, eventsByID map[domain.ID]domain.EquityEvent) ([]domain.SaleResult, []string) {
	var warnings []string

	policy := matcher.FIFO
	var specificIDs []domain.ID
	if !sale.CandidateLotID.IsZero() {
		policy = matcher.SpecificIdentification
		specificIDs = []domain.ID{sale.CandidateLotID}
	}

	allocations := matcher.Match(lots, sale, policy, specificIDs, decimal.Zero)
	if len(allocations) == 0 {
		warnings = append(warnings, taxerr.LotNotFound(string(sale.ID)).Error())
		return nil, warnings
	}

	allocated := decimal.Zero
	for _, a := range allocations {
		allocated = allocated.Add(a.Shares)
	}
	if allocated.LessThan(sale.Shares) {
		missing := sale.Shares.Sub(allocated)
		warnings = append(warnings, taxerr.InsufficientShares(string(sale.ID), missing.String()).Error())
	}

	var results []domain.SaleResult
	for _, a := range allocations {
		proportion := a.Shares.Div(sale.Shares)
		proratedSale := sale
		proratedSale.Shares = a.Shares
		proratedBrokerBasis := sale.BrokerReportedBasis.Mul(proportion)

		var event *domain.EquityEvent
		if e, ok := eventsByID[a.Lot.SourceEventID]; ok {
			event = &e
		}

		result, err := basis.Correct(basis.Input{
			Lot:                  a.Lot,
			Event:                event,
			Sale:                 proratedSale,
			SharesSold:           a.Shares,
			BrokerBasisAllocated: proratedBrokerBasis,
		})
		if err != nil {
			if te, ok := taxerr.As(err, taxerr.KindMissingEventData); ok && te.Fatal {
				warnings = append(warnings, fmt.Sprintf("fatal: %s", err.Error()))
				continue
			}
			warnings = append(warnings, err.Error())
			continue
		}
		if a.Lot.EquityClass == domain.IncentiveOption && (event == nil || event.GrantDate == nil) {
			warnings = append(warnings, taxerr.MissingEventData(string(a.Lot.ID), "grant_date", false).Error())
		}
		results = append(results, result)
	}
	return results, warnings
}

func decrementLot(lots []domain.Lot, lotID domain.ID, shares decimal.Decimal) []domain.Lot {
	for i, l := range lots {
		if l.ID == lotID {
			lots[i].SharesRemaining = l.SharesRemaining.Sub(shares)
			break
		}
	}
	return lots
}
