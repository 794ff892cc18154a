package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // register the "postgres" database/sql driver for schema migration, separate from the pgx pool used for queries
)

// schema is the record-store's on-disk layout. Monetary and share
// columns are NUMERIC so every figure round-trips exactly (§3 "Decimal
// purity"); identifiers are TEXT since every ID in the system is an
// opaque UUID-shaped string, never a database-native surrogate key.
const schema = `
CREATE TABLE IF NOT EXISTS securities (
	ticker TEXT PRIMARY KEY,
	name   TEXT NOT NULL,
	cusip  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS equity_events (
	id                TEXT PRIMARY KEY,
	event_type        TEXT NOT NULL,
	equity_class      TEXT NOT NULL,
	ticker            TEXT NOT NULL,
	event_date        DATE NOT NULL,
	shares            NUMERIC NOT NULL,
	price_per_share   NUMERIC NOT NULL,
	strike_price      NUMERIC,
	purchase_price    NUMERIC,
	offering_date     DATE,
	grant_date        DATE,
	fmv_at_offering   NUMERIC,
	ordinary_income   NUMERIC,
	origin            TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS lots (
	id                    TEXT PRIMARY KEY,
	equity_class          TEXT NOT NULL,
	ticker                TEXT NOT NULL,
	acquisition_date       DATE NOT NULL,
	shares_acquired        NUMERIC NOT NULL,
	shares_remaining       NUMERIC NOT NULL,
	cost_per_share         NUMERIC NOT NULL,
	min_tax_cost_per_share NUMERIC,
	source_event_id        TEXT NOT NULL REFERENCES equity_events(id),
	broker_account_id      TEXT NOT NULL DEFAULT '',
	origin                 TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS sales (
	id                      TEXT PRIMARY KEY,
	candidate_lot_id        TEXT NOT NULL DEFAULT '',
	ticker                  TEXT NOT NULL,
	sale_date               DATE NOT NULL,
	shares                  NUMERIC NOT NULL,
	proceeds_per_share      NUMERIC NOT NULL,
	broker_reported_basis   NUMERIC NOT NULL,
	wash_sale_disallowed    NUMERIC NOT NULL DEFAULT 0,
	received_1099           BOOLEAN NOT NULL DEFAULT FALSE,
	basis_reported_to_irs   BOOLEAN NOT NULL DEFAULT FALSE,
	broker_account_id       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS sale_results (
	id                    TEXT PRIMARY KEY,
	sale_id               TEXT NOT NULL,
	lot_id                TEXT NOT NULL,
	ticker                TEXT NOT NULL,
	acquisition_date       DATE NOT NULL,
	sale_date              DATE NOT NULL,
	shares                 NUMERIC NOT NULL,
	proceeds               NUMERIC NOT NULL,
	broker_reported_basis  NUMERIC NOT NULL,
	corrected_basis        NUMERIC NOT NULL,
	adjustment_amount      NUMERIC NOT NULL,
	adjustment_code        TEXT NOT NULL,
	holding                TEXT NOT NULL,
	category               TEXT NOT NULL,
	gain_or_loss           NUMERIC NOT NULL,
	ordinary_income        NUMERIC NOT NULL,
	min_tax_adjustment     NUMERIC NOT NULL,
	wash_sale_disallowed   NUMERIC NOT NULL,
	notes                  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS wage_statements (
	year                   INT NOT NULL,
	employer_id            TEXT NOT NULL,
	wages                  NUMERIC NOT NULL,
	federal_withheld       NUMERIC NOT NULL,
	medicare_wages         NUMERIC NOT NULL,
	medicare_withheld      NUMERIC NOT NULL,
	box12                  JSONB NOT NULL DEFAULT '{}',
	box14                  JSONB NOT NULL DEFAULT '{}',
	state_wages            NUMERIC NOT NULL,
	state_withheld         NUMERIC NOT NULL,
	PRIMARY KEY (year, employer_id)
);

CREATE TABLE IF NOT EXISTS dividend_statements (
	year                   INT NOT NULL,
	payer                  TEXT NOT NULL,
	ordinary_dividends      NUMERIC NOT NULL,
	qualified_dividends     NUMERIC NOT NULL,
	capital_gain_distribution NUMERIC NOT NULL,
	foreign_tax_paid        NUMERIC NOT NULL,
	section_199a_eligible   NUMERIC NOT NULL,
	federal_withheld        NUMERIC NOT NULL,
	PRIMARY KEY (year, payer)
);

CREATE TABLE IF NOT EXISTS interest_statements (
	year                    INT NOT NULL,
	payer                   TEXT NOT NULL,
	interest_income          NUMERIC NOT NULL,
	early_withdrawal_penalty NUMERIC NOT NULL,
	federal_withheld         NUMERIC NOT NULL,
	is_us_treasury_interest  BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (year, payer)
);

CREATE TABLE IF NOT EXISTS audit_entries (
	id          TEXT PRIMARY KEY,
	ts          TIMESTAMPTZ NOT NULL,
	engine      TEXT NOT NULL,
	operation   TEXT NOT NULL,
	input       JSONB NOT NULL DEFAULT '{}',
	output      JSONB NOT NULL DEFAULT '{}',
	notes       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS reconciliation_runs (
	year    INT PRIMARY KEY,
	summary TEXT NOT NULL
);
`

// Migrate applies the schema using database/sql over the blank-imported
// lib/pq driver, kept as a separate connection path from the pgxpool
// Store uses for queries: one-off schema/administrative statements go
// through database/sql, the hot query path through pgx.
func Migrate(dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("postgres: open migration connection: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("postgres: apply schema: %w", err)
	}
	return nil
}
