package tax

import (
	"github.com/shopspring/decimal"

	"taxrecon/internal/brackets"
	"taxrecon/internal/domain"
)

// computeItemized implements §4.4's "Itemized deductions (federal)" and
// "California tax" itemized sections in one pass, since both start from
// the same ItemizedDeductions input and California only diverges in
// which components it allows.
func computeItemized(ded domain.ItemizedDeductions, agi decimal.Decimal, table brackets.Table, standardDeduction decimal.Decimal, voluntaryPlanDisability decimal.Decimal) domain.ItemizedDetail {
	medical := decimal.Max(decimal.Zero, ded.Medical.Sub(table.MedicalAGIRatio.Mul(agi)))

	uncappedSALT := ded.StateIncomeTaxPaid.Add(ded.RealEstateTax).Add(ded.PersonalPropertyTax)
	cappedSALT := decimal.Min(uncappedSALT, table.SALTCap)

	interest := ded.MortgageInterest.Add(ded.MortgagePoints).Add(ded.InvestmentInterest)

	charitableRaw := ded.CharitableCash.Add(ded.CharitableNonCash).Add(ded.CharitableCarryover)
	charitableLimit := table.CharitableAGIRatio.Mul(agi)
	charitable := decimal.Min(charitableRaw, charitableLimit)
	charitableCarryoverOut := decimal.Max(decimal.Zero, charitableRaw.Sub(charitableLimit))

	casualtyAndOther := ded.CasualtyLoss.Add(ded.Other)

	federalTotal := medical.Add(cappedSALT).Add(interest).Add(charitable).Add(casualtyAndOther)
	usedItemized := federalTotal.GreaterThan(standardDeduction)

	// California: real-estate + personal-property only (state income tax
	// paid is not deductible on the California return); voluntary-plan-
	// disability is auto-added when itemizing, per §4.4.
	caSALT := ded.RealEstateTax.Add(ded.PersonalPropertyTax).Add(voluntaryPlanDisability)
	caTotal := medical.Add(caSALT).Add(interest).Add(charitable).Add(casualtyAndOther)
	caUsedItemized := caTotal.GreaterThan(standardDeduction)

	return domain.ItemizedDetail{
		Medical:                 medical,
		StateAndLocalCapped:     cappedSALT,
		StateAndLocalUncapped:   uncappedSALT,
		Interest:                interest,
		Charitable:              charitable,
		CharitableCarryoverOut:  charitableCarryoverOut,
		CasualtyAndOther:        casualtyAndOther,
		FederalItemizedTotal:    federalTotal,
		StandardDeduction:       standardDeduction,
		UsedItemized:            usedItemized,
		CaliforniaStateAndLocal: caSALT,
		CaliforniaItemizedTotal: caTotal,
		CaliforniaUsedItemized:  caUsedItemized,
	}
}
