package domain

import "github.com/shopspring/decimal"

// Carryovers are the multi-year figures a TaxEstimate both consumes from
// and produces for the following year.
type Carryovers struct {
	CapitalLoss      decimal.Decimal
	MinimumTaxCredit decimal.Decimal
	CharitableExcess decimal.Decimal
}

// ItemizedDetail reports the federal and California itemized-deduction
// assembly line by line, so a report renderer can show its work.
type ItemizedDetail struct {
	Medical              decimal.Decimal
	StateAndLocalCapped  decimal.Decimal
	StateAndLocalUncapped decimal.Decimal
	Interest             decimal.Decimal
	Charitable           decimal.Decimal
	CharitableCarryoverOut decimal.Decimal
	CasualtyAndOther     decimal.Decimal
	FederalItemizedTotal decimal.Decimal
	StandardDeduction    decimal.Decimal
	UsedItemized         bool

	CaliforniaStateAndLocal decimal.Decimal
	CaliforniaItemizedTotal decimal.Decimal
	CaliforniaUsedItemized  bool
}

// TaxEstimate is the complete federal and California tax computation
// result for one taxpayer-year.
type TaxEstimate struct {
	Year         int
	FilingStatus FilingStatus

	AGI               decimal.Decimal
	TaxableIncome     decimal.Decimal
	OrdinaryTaxable   decimal.Decimal
	PreferentialIncome decimal.Decimal

	OrdinaryTax       decimal.Decimal
	PreferentialTax   decimal.Decimal
	Surtax            decimal.Decimal
	AMT               decimal.Decimal
	AMTI              decimal.Decimal
	TentativeMinimumTax decimal.Decimal
	AdditionalMedicareTax decimal.Decimal
	AdditionalMedicareWithholdingCredit decimal.Decimal
	MinimumTaxCreditUsed decimal.Decimal
	ForeignTaxCredit  decimal.Decimal

	FederalTotal      decimal.Decimal
	FederalCredits    decimal.Decimal
	FederalBalance    decimal.Decimal

	CaliforniaTaxableIncome decimal.Decimal
	CaliforniaBracketTax    decimal.Decimal
	CaliforniaMentalHealthSurcharge decimal.Decimal
	CaliforniaTotal   decimal.Decimal
	CaliforniaCredits decimal.Decimal
	CaliforniaBalance decimal.Decimal

	Itemized ItemizedDetail

	OutputCarryovers Carryovers

	ShortTermGain decimal.Decimal
	LongTermGain  decimal.Decimal

	Warnings []string
}

// TotalTax is the taxpayer's combined federal + California liability
// before withholding and estimated-payment credits, used by the
// strategy engine's delta computation.
func (e TaxEstimate) TotalTax() decimal.Decimal {
	return e.FederalTotal.Add(e.CaliforniaTotal)
}
