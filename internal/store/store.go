// Package store defines the record-store contract (§6): the abstract
// repository every engine reads from and writes to. Concrete
// implementations live in the postgres and memory subpackages; the cache
// subpackage holds estimate memoization and the per-year lock.
package store

import (
	"context"

	"github.com/shopspring/decimal"

	"taxrecon/internal/domain"
)

// Store is the full record-store contract. An implementer may back this
// with any tabular store; internal/store/postgres is the production
// implementation, internal/store/memory backs unit tests.
type Store interface {
	SaveEvent(ctx context.Context, event domain.EquityEvent) error
	SaveLot(ctx context.Context, lot domain.Lot) error
	SaveSale(ctx context.Context, sale domain.Sale) error
	SaveSaleResult(ctx context.Context, result domain.SaleResult) error
	SaveAuditEntry(ctx context.Context, entry domain.AuditEntry) error
	SaveWage(ctx context.Context, w domain.WageStatement) error
	SaveDividend(ctx context.Context, d domain.DividendStatement) error
	SaveInterest(ctx context.Context, i domain.InterestStatement) error

	GetLots(ctx context.Context) ([]domain.Lot, error)
	GetEvents(ctx context.Context) ([]domain.EquityEvent, error)

	GetSales(ctx context.Context, year int) ([]domain.Sale, error)
	GetSaleResults(ctx context.Context, year int) ([]domain.SaleResult, error)
	GetWages(ctx context.Context, year int) ([]domain.WageStatement, error)
	GetDividends(ctx context.Context, year int) ([]domain.DividendStatement, error)
	GetInterest(ctx context.Context, year int) ([]domain.InterestStatement, error)

	// ClearSaleResults removes every SaleResult recorded for year and
	// returns the count removed, supporting idempotent re-reconciliation.
	ClearSaleResults(ctx context.Context, year int) (int, error)
	// ResetLotShares restores a lot's shares_remaining to toValue.
	ResetLotShares(ctx context.Context, lotID domain.ID, toValue decimal.Decimal) error

	RecordReconciliationRun(ctx context.Context, year int, summary string) error
}
