package postgres

import (
	"fmt"

	"github.com/jackc/pgtype"
	"github.com/shopspring/decimal"
)

// decimal <-> pgtype.Numeric marshaling via a string round-trip, so
// exact-decimal precision survives the Postgres NUMERIC boundary
// unchanged in both directions.

// toNumeric converts an exact decimal.Decimal into pgtype.Numeric for a
// parameterized query. §5 requires every monetary/share figure stay
// exact through storage, so this goes through decimal's own string form
// rather than a lossy float64 round trip.
func toNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Set(d.String()); err != nil {
		return pgtype.Numeric{}, fmt.Errorf("postgres: encode decimal %s: %w", d.String(), err)
	}
	return n, nil
}

// toNumericPtr handles the *decimal.Decimal fields that are present only
// for some equity classes (e.g. Lot.MinTaxCostPerShare): nil encodes as
// SQL NULL.
func toNumericPtr(d *decimal.Decimal) (pgtype.Numeric, error) {
	if d == nil {
		return pgtype.Numeric{Status: pgtype.Null}, nil
	}
	return toNumeric(*d)
}

// fromNumeric decodes a pgtype.Numeric scanned from a NUMERIC column
// back into an exact decimal.Decimal.
func fromNumeric(n pgtype.Numeric) (decimal.Decimal, error) {
	if n.Status != pgtype.Present {
		return decimal.Zero, nil
	}
	var s string
	if err := n.AssignTo(&s); err != nil {
		return decimal.Decimal{}, fmt.Errorf("postgres: decode numeric: %w", err)
	}
	return decimal.NewFromString(s)
}

// fromNumericPtr decodes a nullable NUMERIC column, returning nil for
// SQL NULL.
func fromNumericPtr(n pgtype.Numeric) (*decimal.Decimal, error) {
	if n.Status != pgtype.Present {
		return nil, nil
	}
	v, err := fromNumeric(n)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
