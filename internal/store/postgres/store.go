// Package postgres is the production store.Store implementation,
// backed by a pgxpool.Pool connection to a Postgres instance.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"taxrecon/internal/domain"
)

// Store is the pgx-backed record store. The record-store contract (§6)
// is single-writer per tax year; Store itself takes no lock. A
// Redis-backed per-year lock is available in internal/store/cache;
// nothing in this repository acquires it around Store.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects a pgxpool against dsn and returns a Store. Callers
// should run Migrate(dsn) once before Open against a fresh database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool's connections.
func (s *Store) Close() { s.pool.Close() }

func (s *Store) SaveEvent(ctx context.Context, event domain.EquityEvent) error {
	price, err := toNumeric(event.PricePerShare)
	if err != nil {
		return err
	}
	shares, err := toNumeric(event.Shares)
	if err != nil {
		return err
	}
	strike, err := toNumericPtr(event.StrikePrice)
	if err != nil {
		return err
	}
	purchasePrice, err := toNumericPtr(event.PurchasePrice)
	if err != nil {
		return err
	}
	fmvOffering, err := toNumericPtr(event.FMVAtOffering)
	if err != nil {
		return err
	}
	ordinaryIncome, err := toNumericPtr(event.OrdinaryIncome)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO equity_events
			(id, event_type, equity_class, ticker, event_date, shares,
			 price_per_share, strike_price, purchase_price, offering_date,
			 grant_date, fmv_at_offering, ordinary_income, origin)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (id) DO UPDATE SET
			event_type=$2, equity_class=$3, ticker=$4, event_date=$5, shares=$6,
			price_per_share=$7, strike_price=$8, purchase_price=$9, offering_date=$10,
			grant_date=$11, fmv_at_offering=$12, ordinary_income=$13, origin=$14
	`,
		string(event.ID), event.Type.String(), event.EquityClass.String(), event.Security.Ticker,
		event.Date, shares, price, strike, purchasePrice, optionalDate(event.OfferingDate),
		optionalDate(event.GrantDate), fmvOffering, ordinaryIncome, event.Origin,
	)
	if err != nil {
		return fmt.Errorf("postgres: save event %s: %w", event.ID, err)
	}
	return nil
}

func (s *Store) SaveLot(ctx context.Context, lot domain.Lot) error {
	acquired, err := toNumeric(lot.SharesAcquired)
	if err != nil {
		return err
	}
	remaining, err := toNumeric(lot.SharesRemaining)
	if err != nil {
		return err
	}
	cost, err := toNumeric(lot.CostPerShare)
	if err != nil {
		return err
	}
	minTax, err := toNumericPtr(lot.MinTaxCostPerShare)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO lots
			(id, equity_class, ticker, acquisition_date, shares_acquired,
			 shares_remaining, cost_per_share, min_tax_cost_per_share,
			 source_event_id, broker_account_id, origin)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			equity_class=$2, ticker=$3, acquisition_date=$4, shares_acquired=$5,
			shares_remaining=$6, cost_per_share=$7, min_tax_cost_per_share=$8,
			source_event_id=$9, broker_account_id=$10, origin=$11
	`,
		string(lot.ID), lot.EquityClass.String(), lot.Security.Ticker, lot.AcquisitionDate,
		acquired, remaining, cost, minTax, string(lot.SourceEventID), lot.BrokerAccountID, lot.Origin,
	)
	if err != nil {
		return fmt.Errorf("postgres: save lot %s: %w", lot.ID, err)
	}
	return nil
}

func (s *Store) SaveSale(ctx context.Context, sale domain.Sale) error {
	shares, err := toNumeric(sale.Shares)
	if err != nil {
		return err
	}
	proceeds, err := toNumeric(sale.ProceedsPerShare)
	if err != nil {
		return err
	}
	basis, err := toNumeric(sale.BrokerReportedBasis)
	if err != nil {
		return err
	}
	wash, err := toNumeric(sale.WashSaleDisallowed)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO sales
			(id, candidate_lot_id, ticker, sale_date, shares, proceeds_per_share,
			 broker_reported_basis, wash_sale_disallowed, received_1099,
			 basis_reported_to_irs, broker_account_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			candidate_lot_id=$2, ticker=$3, sale_date=$4, shares=$5, proceeds_per_share=$6,
			broker_reported_basis=$7, wash_sale_disallowed=$8, received_1099=$9,
			basis_reported_to_irs=$10, broker_account_id=$11
	`,
		string(sale.ID), string(sale.CandidateLotID), sale.Security.Ticker, sale.Date,
		shares, proceeds, basis, wash, sale.Received1099, sale.BasisReportedToIRS, sale.BrokerAccountID,
	)
	if err != nil {
		return fmt.Errorf("postgres: save sale %s: %w", sale.ID, err)
	}
	return nil
}

func (s *Store) SaveSaleResult(ctx context.Context, r domain.SaleResult) error {
	shares, err := toNumeric(r.Shares)
	if err != nil {
		return err
	}
	proceeds, err := toNumeric(r.Proceeds)
	if err != nil {
		return err
	}
	brokerBasis, err := toNumeric(r.BrokerReportedBasis)
	if err != nil {
		return err
	}
	correctedBasis, err := toNumeric(r.CorrectedBasis)
	if err != nil {
		return err
	}
	adjustment, err := toNumeric(r.AdjustmentAmount)
	if err != nil {
		return err
	}
	gainOrLoss, err := toNumeric(r.GainOrLoss)
	if err != nil {
		return err
	}
	ordinaryIncome, err := toNumeric(r.OrdinaryIncome)
	if err != nil {
		return err
	}
	minTaxAdj, err := toNumeric(r.MinTaxAdjustment)
	if err != nil {
		return err
	}
	wash, err := toNumeric(r.WashSaleDisallowed)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO sale_results
			(id, sale_id, lot_id, ticker, acquisition_date, sale_date, shares,
			 proceeds, broker_reported_basis, corrected_basis, adjustment_amount,
			 adjustment_code, holding, category, gain_or_loss, ordinary_income,
			 min_tax_adjustment, wash_sale_disallowed, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (id) DO UPDATE SET
			sale_id=$2, lot_id=$3, ticker=$4, acquisition_date=$5, sale_date=$6, shares=$7,
			proceeds=$8, broker_reported_basis=$9, corrected_basis=$10, adjustment_amount=$11,
			adjustment_code=$12, holding=$13, category=$14, gain_or_loss=$15, ordinary_income=$16,
			min_tax_adjustment=$17, wash_sale_disallowed=$18, notes=$19
	`,
		string(r.ID), string(r.SaleID), string(r.LotID), r.Security.Ticker, r.AcquisitionDate,
		r.SaleDate, shares, proceeds, brokerBasis, correctedBasis, adjustment,
		r.AdjustmentCode.String(), r.Holding.String(), r.Category.String(), gainOrLoss,
		ordinaryIncome, minTaxAdj, wash, r.Notes,
	)
	if err != nil {
		return fmt.Errorf("postgres: save sale result %s: %w", r.ID, err)
	}
	return nil
}

func (s *Store) SaveAuditEntry(ctx context.Context, entry domain.AuditEntry) error {
	input, err := json.Marshal(entry.Input)
	if err != nil {
		return fmt.Errorf("postgres: marshal audit input: %w", err)
	}
	output, err := json.Marshal(entry.Output)
	if err != nil {
		return fmt.Errorf("postgres: marshal audit output: %w", err)
	}
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	id := entry.ID
	if id.IsZero() {
		id = domain.NewID()
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO audit_entries (id, ts, engine, operation, input, output, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, string(id), ts, entry.Engine, entry.Operation, input, output, entry.Notes)
	if err != nil {
		return fmt.Errorf("postgres: save audit entry: %w", err)
	}
	return nil
}

func (s *Store) SaveWage(ctx context.Context, w domain.WageStatement) error {
	wages, err := toNumeric(w.Wages)
	if err != nil {
		return err
	}
	fedWithheld, err := toNumeric(w.FederalWithheld)
	if err != nil {
		return err
	}
	medWages, err := toNumeric(w.MedicareWages)
	if err != nil {
		return err
	}
	medWithheld, err := toNumeric(w.MedicareWithheld)
	if err != nil {
		return err
	}
	stateWages, err := toNumeric(w.StateWages)
	if err != nil {
		return err
	}
	stateWithheld, err := toNumeric(w.StateWithheld)
	if err != nil {
		return err
	}
	box12, err := marshalDecimalMap(w.BoxTwelveCodes)
	if err != nil {
		return err
	}
	box14, err := marshalDecimalMap(w.OtherLineFourteen)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO wage_statements
			(year, employer_id, wages, federal_withheld, medicare_wages,
			 medicare_withheld, box12, box14, state_wages, state_withheld)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (year, employer_id) DO UPDATE SET
			wages=$3, federal_withheld=$4, medicare_wages=$5, medicare_withheld=$6,
			box12=$7, box14=$8, state_wages=$9, state_withheld=$10
	`, w.Year, w.EmployerID, wages, fedWithheld, medWages, medWithheld, box12, box14, stateWages, stateWithheld)
	if err != nil {
		return fmt.Errorf("postgres: save wage statement: %w", err)
	}
	return nil
}

func (s *Store) SaveDividend(ctx context.Context, d domain.DividendStatement) error {
	ordinary, err := toNumeric(d.OrdinaryDividends)
	if err != nil {
		return err
	}
	qualified, err := toNumeric(d.QualifiedDividends)
	if err != nil {
		return err
	}
	capGain, err := toNumeric(d.CapitalGainDistribution)
	if err != nil {
		return err
	}
	foreignTax, err := toNumeric(d.ForeignTaxPaid)
	if err != nil {
		return err
	}
	sec199a, err := toNumeric(d.Section199AEligible)
	if err != nil {
		return err
	}
	withheld, err := toNumeric(d.FederalWithheld)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO dividend_statements
			(year, payer, ordinary_dividends, qualified_dividends,
			 capital_gain_distribution, foreign_tax_paid, section_199a_eligible, federal_withheld)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (year, payer) DO UPDATE SET
			ordinary_dividends=$3, qualified_dividends=$4, capital_gain_distribution=$5,
			foreign_tax_paid=$6, section_199a_eligible=$7, federal_withheld=$8
	`, d.Year, d.Payer, ordinary, qualified, capGain, foreignTax, sec199a, withheld)
	if err != nil {
		return fmt.Errorf("postgres: save dividend statement: %w", err)
	}
	return nil
}

func (s *Store) SaveInterest(ctx context.Context, i domain.InterestStatement) error {
	income, err := toNumeric(i.InterestIncome)
	if err != nil {
		return err
	}
	penalty, err := toNumeric(i.EarlyWithdrawalPenalty)
	if err != nil {
		return err
	}
	withheld, err := toNumeric(i.FederalWithheld)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO interest_statements
			(year, payer, interest_income, early_withdrawal_penalty, federal_withheld, is_us_treasury_interest)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (year, payer) DO UPDATE SET
			interest_income=$3, early_withdrawal_penalty=$4, federal_withheld=$5, is_us_treasury_interest=$6
	`, i.Year, i.Payer, income, penalty, withheld, i.IsUSTreasuryInterest)
	if err != nil {
		return fmt.Errorf("postgres: save interest statement: %w", err)
	}
	return nil
}

func (s *Store) GetLots(ctx context.Context) ([]domain.Lot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, equity_class, ticker, acquisition_date, shares_acquired,
		       shares_remaining, cost_per_share, min_tax_cost_per_share,
		       source_event_id, broker_account_id, origin
		FROM lots
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: get lots: %w", err)
	}
	defer rows.Close()

	var out []domain.Lot
	for rows.Next() {
		var (
			l                   domain.Lot
			equityClass, ticker string
			acquired, remaining decimal.Decimal
			cost                decimal.Decimal
			minTax              pgtype.Numeric
			sourceEventID       string
		)
		if err := rows.Scan(&l.ID, &equityClass, &ticker, &l.AcquisitionDate, &acquired,
			&remaining, &cost, &minTax, &sourceEventID, &l.BrokerAccountID, &l.Origin); err != nil {
			return nil, fmt.Errorf("postgres: scan lot: %w", err)
		}
		l.EquityClass = parseEquityClass(equityClass)
		l.Security = domain.Security{Ticker: ticker}
		l.SharesAcquired = acquired
		l.SharesRemaining = remaining
		l.CostPerShare = cost
		if l.MinTaxCostPerShare, err = fromNumericPtr(minTax); err != nil {
			return nil, err
		}
		l.SourceEventID = domain.ID(sourceEventID)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) GetEvents(ctx context.Context) ([]domain.EquityEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, event_type, equity_class, ticker, event_date, shares, price_per_share,
		       strike_price, purchase_price, offering_date, grant_date, fmv_at_offering,
		       ordinary_income, origin
		FROM equity_events
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: get events: %w", err)
	}
	defer rows.Close()

	var out []domain.EquityEvent
	for rows.Next() {
		var (
			e                              domain.EquityEvent
			eventType, equityClass, ticker string
			shares, price                  decimal.Decimal
			strike, purchasePrice, fmvOffering, ordinaryIncome pgtype.Numeric
			offeringDate, grantDate        *time.Time
		)
		if err := rows.Scan(&e.ID, &eventType, &equityClass, &ticker, &e.Date, &shares, &price,
			&strike, &purchasePrice, &offeringDate, &grantDate, &fmvOffering, &ordinaryIncome, &e.Origin); err != nil {
			return nil, fmt.Errorf("postgres: scan event: %w", err)
		}
		e.Type = parseEventType(eventType)
		e.EquityClass = parseEquityClass(equityClass)
		e.Security = domain.Security{Ticker: ticker}
		e.Shares = shares
		e.PricePerShare = price
		if e.StrikePrice, err = fromNumericPtr(strike); err != nil {
			return nil, err
		}
		if e.PurchasePrice, err = fromNumericPtr(purchasePrice); err != nil {
			return nil, err
		}
		e.OfferingDate = offeringDate
		e.GrantDate = grantDate
		if e.FMVAtOffering, err = fromNumericPtr(fmvOffering); err != nil {
			return nil, err
		}
		if e.OrdinaryIncome, err = fromNumericPtr(ordinaryIncome); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) GetSales(ctx context.Context, year int) ([]domain.Sale, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, candidate_lot_id, ticker, sale_date, shares, proceeds_per_share,
		       broker_reported_basis, wash_sale_disallowed, received_1099,
		       basis_reported_to_irs, broker_account_id
		FROM sales WHERE EXTRACT(YEAR FROM sale_date) = $1
	`, year)
	if err != nil {
		return nil, fmt.Errorf("postgres: get sales: %w", err)
	}
	defer rows.Close()

	var out []domain.Sale
	for rows.Next() {
		var (
			sale           domain.Sale
			candidateLotID string
			ticker         string
			shares, proceeds, brokerBasis, wash decimal.Decimal
		)
		if err := rows.Scan(&sale.ID, &candidateLotID, &ticker, &sale.Date, &shares, &proceeds,
			&brokerBasis, &wash, &sale.Received1099, &sale.BasisReportedToIRS, &sale.BrokerAccountID); err != nil {
			return nil, fmt.Errorf("postgres: scan sale: %w", err)
		}
		sale.CandidateLotID = domain.ID(candidateLotID)
		sale.Security = domain.Security{Ticker: ticker}
		sale.Shares = shares
		sale.ProceedsPerShare = proceeds
		sale.BrokerReportedBasis = brokerBasis
		sale.WashSaleDisallowed = wash
		out = append(out, sale)
	}
	return out, rows.Err()
}

func (s *Store) GetSaleResults(ctx context.Context, year int) ([]domain.SaleResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sale_id, lot_id, ticker, acquisition_date, sale_date, shares, proceeds,
		       broker_reported_basis, corrected_basis, adjustment_amount, adjustment_code,
		       holding, category, gain_or_loss, ordinary_income, min_tax_adjustment,
		       wash_sale_disallowed, notes
		FROM sale_results WHERE EXTRACT(YEAR FROM sale_date) = $1
	`, year)
	if err != nil {
		return nil, fmt.Errorf("postgres: get sale results: %w", err)
	}
	defer rows.Close()

	var out []domain.SaleResult
	for rows.Next() {
		var (
			r                                        domain.SaleResult
			saleID, lotID, ticker, code, holding, cat string
			shares, proceeds, brokerBasis, corrected, adj, gain, ordinaryIncome, minTaxAdj, wash decimal.Decimal
		)
		if err := rows.Scan(&r.ID, &saleID, &lotID, &ticker, &r.AcquisitionDate, &r.SaleDate, &shares,
			&proceeds, &brokerBasis, &corrected, &adj, &code, &holding, &cat, &gain, &ordinaryIncome,
			&minTaxAdj, &wash, &r.Notes); err != nil {
			return nil, fmt.Errorf("postgres: scan sale result: %w", err)
		}
		r.SaleID = domain.ID(saleID)
		r.LotID = domain.ID(lotID)
		r.Security = domain.Security{Ticker: ticker}
		r.Shares = shares
		r.Proceeds = proceeds
		r.BrokerReportedBasis = brokerBasis
		r.CorrectedBasis = corrected
		r.AdjustmentAmount = adj
		r.AdjustmentCode = parseAdjustmentCode(code)
		r.Holding = parseHoldingPeriod(holding)
		r.Category = parseScheduleCategory(cat)
		r.GainOrLoss = gain
		r.OrdinaryIncome = ordinaryIncome
		r.MinTaxAdjustment = minTaxAdj
		r.WashSaleDisallowed = wash
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) GetWages(ctx context.Context, year int) ([]domain.WageStatement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT employer_id, wages, federal_withheld, medicare_wages, medicare_withheld,
		       box12, box14, state_wages, state_withheld
		FROM wage_statements WHERE year = $1
	`, year)
	if err != nil {
		return nil, fmt.Errorf("postgres: get wages: %w", err)
	}
	defer rows.Close()

	var out []domain.WageStatement
	for rows.Next() {
		var (
			w                                                 domain.WageStatement
			box12, box14                                      []byte
			wages, fedWithheld, medWages, medWithheld, stateWages, stateWithheld decimal.Decimal
		)
		if err := rows.Scan(&w.EmployerID, &wages, &fedWithheld, &medWages, &medWithheld,
			&box12, &box14, &stateWages, &stateWithheld); err != nil {
			return nil, fmt.Errorf("postgres: scan wage statement: %w", err)
		}
		w.Year = year
		w.Wages = wages
		w.FederalWithheld = fedWithheld
		w.MedicareWages = medWages
		w.MedicareWithheld = medWithheld
		w.StateWages = stateWages
		w.StateWithheld = stateWithheld
		if w.BoxTwelveCodes, err = unmarshalDecimalMap(box12); err != nil {
			return nil, err
		}
		if w.OtherLineFourteen, err = unmarshalDecimalMap(box14); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) GetDividends(ctx context.Context, year int) ([]domain.DividendStatement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT payer, ordinary_dividends, qualified_dividends, capital_gain_distribution,
		       foreign_tax_paid, section_199a_eligible, federal_withheld
		FROM dividend_statements WHERE year = $1
	`, year)
	if err != nil {
		return nil, fmt.Errorf("postgres: get dividends: %w", err)
	}
	defer rows.Close()

	var out []domain.DividendStatement
	for rows.Next() {
		d := domain.DividendStatement{Year: year}
		if err := rows.Scan(&d.Payer, &d.OrdinaryDividends, &d.QualifiedDividends,
			&d.CapitalGainDistribution, &d.ForeignTaxPaid, &d.Section199AEligible, &d.FederalWithheld); err != nil {
			return nil, fmt.Errorf("postgres: scan dividend statement: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetInterest(ctx context.Context, year int) ([]domain.InterestStatement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT payer, interest_income, early_withdrawal_penalty, federal_withheld, is_us_treasury_interest
		FROM interest_statements WHERE year = $1
	`, year)
	if err != nil {
		return nil, fmt.Errorf("postgres: get interest: %w", err)
	}
	defer rows.Close()

	var out []domain.InterestStatement
	for rows.Next() {
		i := domain.InterestStatement{Year: year}
		if err := rows.Scan(&i.Payer, &i.InterestIncome, &i.EarlyWithdrawalPenalty,
			&i.FederalWithheld, &i.IsUSTreasuryInterest); err != nil {
			return nil, fmt.Errorf("postgres: scan interest statement: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *Store) ClearSaleResults(ctx context.Context, year int) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sale_results WHERE EXTRACT(YEAR FROM sale_date) = $1`, year)
	if err != nil {
		return 0, fmt.Errorf("postgres: clear sale results: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) ResetLotShares(ctx context.Context, lotID domain.ID, toValue decimal.Decimal) error {
	n, err := toNumeric(toValue)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `UPDATE lots SET shares_remaining = $1 WHERE id = $2`, n, string(lotID))
	if err != nil {
		return fmt.Errorf("postgres: reset lot shares: %w", err)
	}
	return nil
}

func (s *Store) RecordReconciliationRun(ctx context.Context, year int, summary string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO reconciliation_runs (year, summary) VALUES ($1, $2)
		ON CONFLICT (year) DO UPDATE SET summary = $2
	`, year, summary)
	if err != nil {
		return fmt.Errorf("postgres: record reconciliation run: %w", err)
	}
	return nil
}

func optionalDate(t *time.Time) *time.Time { return t }

func marshalDecimalMap(m map[string]decimal.Decimal) ([]byte, error) {
	if m == nil {
		m = map[string]decimal.Decimal{}
	}
	strs := make(map[string]string, len(m))
	for k, v := range m {
		strs[k] = v.String()
	}
	return json.Marshal(strs)
}

func unmarshalDecimalMap(raw []byte) (map[string]decimal.Decimal, error) {
	var strs map[string]string
	if err := json.Unmarshal(raw, &strs); err != nil {
		return nil, fmt.Errorf("postgres: unmarshal decimal map: %w", err)
	}
	out := make(map[string]decimal.Decimal, len(strs))
	for k, v := range strs {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("postgres: decode decimal map entry %s: %w", k, err)
		}
		out[k] = d
	}
	return out, nil
}

// parse* helpers reverse the .String() enum encodings used on write, so
// the store round-trips the tagged-variant types exactly (§8: "every
// canonical record" serializes and deserializes to its identity).

func parseEquityClass(s string) domain.EquityClass {
	switch s {
	case "restricted_unit":
		return domain.RestrictedUnit
	case "nonqualified_option":
		return domain.NonqualifiedOption
	case "qualified_purchase_plan":
		return domain.QualifiedPurchasePlan
	case "incentive_option":
		return domain.IncentiveOption
	default:
		return domain.EquityClassUnspecified
	}
}

func parseEventType(s string) domain.EventType {
	switch s {
	case "vest":
		return domain.EventVest
	case "exercise":
		return domain.EventExercise
	case "purchase":
		return domain.EventPurchase
	case "sale":
		return domain.EventSale
	case "dividend":
		return domain.EventDividend
	case "interest":
		return domain.EventInterest
	default:
		return domain.EventUnspecified
	}
}

func parseAdjustmentCode(s string) domain.AdjustmentCode {
	switch s {
	case "e":
		return domain.AdjustmentE
	case "B":
		return domain.AdjustmentB
	case "W":
		return domain.AdjustmentW
	case "O":
		return domain.AdjustmentO
	default:
		return domain.AdjustmentNone
	}
}

func parseHoldingPeriod(s string) domain.HoldingPeriod {
	if s == "LONG" {
		return domain.Long
	}
	return domain.Short
}

func parseScheduleCategory(s string) domain.ScheduleCategory {
	switch s {
	case "A":
		return domain.CategoryA
	case "B":
		return domain.CategoryB
	case "C":
		return domain.CategoryC
	case "D":
		return domain.CategoryD
	case "E":
		return domain.CategoryE
	case "F":
		return domain.CategoryF
	default:
		return domain.CategoryUnspecified
	}
}
