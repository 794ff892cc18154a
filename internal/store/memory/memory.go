// Package memory is an in-process implementation of store.Store backed
// by plain slices and maps, guarded by a mutex. It is the store used by
// the reconciliation unit tests, and a reasonable choice for one-shot
// CLI invocations that don't need durability across runs.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"taxrecon/internal/domain"
)

type Store struct {
	mu sync.Mutex

	events      []domain.EquityEvent
	lots        []domain.Lot
	sales       []domain.Sale
	saleResults []domain.SaleResult
	audit       []domain.AuditEntry
	wages       []domain.WageStatement
	dividends   []domain.DividendStatement
	interest    []domain.InterestStatement
	runs        map[int]string
}

func New() *Store {
	return &Store{runs: make(map[int]string)}
}

func (s *Store) SaveEvent(_ context.Context, event domain.EquityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *Store) SaveLot(_ context.Context, lot domain.Lot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.lots {
		if l.ID == lot.ID {
			s.lots[i] = lot
			return nil
		}
	}
	s.lots = append(s.lots, lot)
	return nil
}

func (s *Store) SaveSale(_ context.Context, sale domain.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, sale)
	return nil
}

func (s *Store) SaveSaleResult(_ context.Context, result domain.SaleResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saleResults = append(s.saleResults, result)
	return nil
}

func (s *Store) SaveAuditEntry(_ context.Context, entry domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, entry)
	return nil
}

func (s *Store) SaveWage(_ context.Context, w domain.WageStatement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wages = append(s.wages, w)
	return nil
}

func (s *Store) SaveDividend(_ context.Context, d domain.DividendStatement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dividends = append(s.dividends, d)
	return nil
}

func (s *Store) SaveInterest(_ context.Context, i domain.InterestStatement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interest = append(s.interest, i)
	return nil
}

func (s *Store) GetLots(_ context.Context) ([]domain.Lot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Lot, len(s.lots))
	copy(out, s.lots)
	return out, nil
}

func (s *Store) GetEvents(_ context.Context) ([]domain.EquityEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.EquityEvent, len(s.events))
	copy(out, s.events)
	return out, nil
}

func (s *Store) GetSales(_ context.Context, year int) ([]domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Sale
	for _, sale := range s.sales {
		if sale.Date.Year() == year {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (s *Store) GetSaleResults(_ context.Context, year int) ([]domain.SaleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.SaleResult
	for _, r := range s.saleResults {
		if r.SaleDate.Year() == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) GetWages(_ context.Context, year int) ([]domain.WageStatement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.WageStatement
	for _, w := range s.wages {
		if w.Year == year {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *Store) GetDividends(_ context.Context, year int) ([]domain.DividendStatement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.DividendStatement
	for _, d := range s.dividends {
		if d.Year == year {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) GetInterest(_ context.Context, year int) ([]domain.InterestStatement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.InterestStatement
	for _, i := range s.interest {
		if i.Year == year {
			out = append(out, i)
		}
	}
	return out, nil
}

func (s *Store) ClearSaleResults(_ context.Context, year int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []domain.SaleResult
	removed := 0
	for _, r := range s.saleResults {
		if r.SaleDate.Year() == year {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	s.saleResults = kept
	return removed, nil
}

func (s *Store) ResetLotShares(_ context.Context, lotID domain.ID, toValue decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.lots {
		if l.ID == lotID {
			s.lots[i].SharesRemaining = toValue
			return nil
		}
	}
	return nil
}

func (s *Store) RecordReconciliationRun(_ context.Context, year int, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[year] = summary
	return nil
}
