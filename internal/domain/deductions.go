package domain

import "github.com/shopspring/decimal"

// ItemizedDeductions holds structured Schedule-A style inputs. Input
// value, immutable.
type ItemizedDeductions struct {
	Medical               decimal.Decimal
	StateIncomeTaxPaid    decimal.Decimal
	RealEstateTax         decimal.Decimal
	PersonalPropertyTax   decimal.Decimal
	MortgageInterest      decimal.Decimal
	MortgagePoints        decimal.Decimal
	InvestmentInterest    decimal.Decimal
	CharitableCash        decimal.Decimal
	CharitableNonCash     decimal.Decimal
	CharitableCarryover   decimal.Decimal
	CasualtyLoss          decimal.Decimal
	Other                 decimal.Decimal
}

// IsZero reports whether no itemized figures were supplied at all,
// which the estimator treats identically to a nil *ItemizedDeductions
// (§8 round-trip property: every optional input defaulted is equivalent
// to the input omitted).
func (d ItemizedDeductions) IsZero() bool {
	fields := []decimal.Decimal{
		d.Medical, d.StateIncomeTaxPaid, d.RealEstateTax, d.PersonalPropertyTax,
		d.MortgageInterest, d.MortgagePoints, d.InvestmentInterest,
		d.CharitableCash, d.CharitableNonCash, d.CharitableCarryover,
		d.CasualtyLoss, d.Other,
	}
	for _, f := range fields {
		if !f.IsZero() {
			return false
		}
	}
	return true
}
