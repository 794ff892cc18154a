package brackets

import (
	"fmt"

	"github.com/shopspring/decimal"

	"taxrecon/internal/domain"
)

// YearStatus keys every table by tax year and filing status.
type YearStatus struct {
	Year   int
	Status domain.FilingStatus
}

// Table is the full set of constants the estimator needs for one
// (year, filing status) pair.
type Table struct {
	Ordinary               []Bracket
	Preferential           []Bracket // 0%/15%/20% long-term capital gain / qualified dividend brackets
	StandardDeduction      decimal.Decimal
	SurtaxThreshold        decimal.Decimal // net-investment-income-tax AGI threshold
	AdditionalMedicareThreshold decimal.Decimal
	AMTExemption           decimal.Decimal
	AMTPhaseOutStart       decimal.Decimal
	AMT2628Breakpoint      decimal.Decimal // 26%/28% AMT rate breakpoint
	SALTCap                decimal.Decimal
	CharitableAGIRatio     decimal.Decimal // 0.60
	MedicalAGIRatio        decimal.Decimal // 0.075
	ForeignTaxDeMinimis    decimal.Decimal
	CaliforniaOrdinary     []Bracket
	CaliforniaMentalHealthThreshold decimal.Decimal
}

var tables = map[YearStatus]Table{}

func register(year int, status domain.FilingStatus, t Table) {
	tables[YearStatus{Year: year, Status: status}] = t
}

// Lookup returns the table for (year, status), panicking if it is
// absent. §4.4's "missing bracket table" state is a fatal error the
// estimator surfaces, but the table layer itself never fabricates one.
func Lookup(year int, status domain.FilingStatus) Table {
	t, ok := tables[YearStatus{Year: year, Status: status}]
	if !ok {
		panic(fmt.Sprintf("brackets: no table registered for year=%d status=%s", year, status))
	}
	return t
}

func init() {
	registerYear(2023)
	registerYear(2024)
	registerYear(2025)
	registerYear(2026)
}

// registerYear builds the four filing-status tables for one tax year.
// Figures are representative of the published IRS/FTB schedules for
// that year. MFS reuses the single brackets; the single floors are half
// the married-filing-jointly floors up to the 35% bracket, while the 37%
// floor is set separately.
func registerYear(year int) {
	infl := inflationFactor(year)

	single := Table{
		Ordinary: scale(infl, []Bracket{
			{Floor: d("0"), Rate: d("0.10")},
			{Floor: d("11000"), Rate: d("0.12")},
			{Floor: d("44725"), Rate: d("0.22")},
			{Floor: d("95375"), Rate: d("0.24")},
			{Floor: d("182100"), Rate: d("0.32")},
			{Floor: d("231250"), Rate: d("0.35")},
			{Floor: d("578125"), Rate: d("0.37")},
		}),
		Preferential: scale(infl, []Bracket{
			{Floor: d("0"), Rate: d("0.00")},
			{Floor: d("44625"), Rate: d("0.15")},
			{Floor: d("492300"), Rate: d("0.20")},
		}),
		StandardDeduction:           scaleOne(infl, d("13850")),
		SurtaxThreshold:             d("200000"),
		AdditionalMedicareThreshold: d("200000"),
		AMTExemption:                scaleOne(infl, d("81300")),
		AMTPhaseOutStart:            scaleOne(infl, d("578150")),
		AMT2628Breakpoint:           scaleOne(infl, d("220700")),
		SALTCap:                     d("10000"),
		CharitableAGIRatio:          d("0.60"),
		MedicalAGIRatio:             d("0.075"),
		ForeignTaxDeMinimis:         d("300"),
		CaliforniaOrdinary: scale(infl, []Bracket{
			{Floor: d("0"), Rate: d("0.01")},
			{Floor: d("10412"), Rate: d("0.02")},
			{Floor: d("24684"), Rate: d("0.04")},
			{Floor: d("38959"), Rate: d("0.06")},
			{Floor: d("54081"), Rate: d("0.08")},
			{Floor: d("68350"), Rate: d("0.093")},
			{Floor: d("349137"), Rate: d("0.103")},
			{Floor: d("418961"), Rate: d("0.113")},
			{Floor: d("698271"), Rate: d("0.123")},
		}),
		CaliforniaMentalHealthThreshold: d("1000000"),
	}
	register(year, domain.Single, single)

	mfs := single
	mfs.SurtaxThreshold = d("125000")
	mfs.AdditionalMedicareThreshold = d("125000")
	mfs.SALTCap = d("5000")
	mfs.ForeignTaxDeMinimis = d("600")
	register(year, domain.MarriedFilingSeparately, mfs)

	mfj := Table{
		Ordinary: scale(infl, []Bracket{
			{Floor: d("0"), Rate: d("0.10")},
			{Floor: d("22000"), Rate: d("0.12")},
			{Floor: d("89450"), Rate: d("0.22")},
			{Floor: d("190750"), Rate: d("0.24")},
			{Floor: d("364200"), Rate: d("0.32")},
			{Floor: d("462500"), Rate: d("0.35")},
			{Floor: d("693750"), Rate: d("0.37")},
		}),
		Preferential: scale(infl, []Bracket{
			{Floor: d("0"), Rate: d("0.00")},
			{Floor: d("89250"), Rate: d("0.15")},
			{Floor: d("553850"), Rate: d("0.20")},
		}),
		StandardDeduction:           scaleOne(infl, d("27700")),
		SurtaxThreshold:             d("250000"),
		AdditionalMedicareThreshold: d("250000"),
		AMTExemption:                scaleOne(infl, d("126500")),
		AMTPhaseOutStart:            scaleOne(infl, d("1156300")),
		AMT2628Breakpoint:           scaleOne(infl, d("220700")),
		SALTCap:                     d("10000"),
		CharitableAGIRatio:          d("0.60"),
		MedicalAGIRatio:             d("0.075"),
		ForeignTaxDeMinimis:         d("600"),
		CaliforniaOrdinary: scale(infl, []Bracket{
			{Floor: d("0"), Rate: d("0.01")},
			{Floor: d("20824"), Rate: d("0.02")},
			{Floor: d("49368"), Rate: d("0.04")},
			{Floor: d("77918"), Rate: d("0.06")},
			{Floor: d("108162"), Rate: d("0.08")},
			{Floor: d("136700"), Rate: d("0.093")},
			{Floor: d("698274"), Rate: d("0.103")},
			{Floor: d("837922"), Rate: d("0.113")},
			{Floor: d("1396542"), Rate: d("0.123")},
		}),
		CaliforniaMentalHealthThreshold: d("1000000"),
	}
	register(year, domain.MarriedFilingJointly, mfj)

	hoh := single
	hoh.Ordinary = scale(infl, []Bracket{
		{Floor: d("0"), Rate: d("0.10")},
		{Floor: d("15700"), Rate: d("0.12")},
		{Floor: d("59850"), Rate: d("0.22")},
		{Floor: d("95350"), Rate: d("0.24")},
		{Floor: d("182100"), Rate: d("0.32")},
		{Floor: d("231250"), Rate: d("0.35")},
		{Floor: d("578100"), Rate: d("0.37")},
	})
	hoh.Preferential = scale(infl, []Bracket{
		{Floor: d("0"), Rate: d("0.00")},
		{Floor: d("59750"), Rate: d("0.15")},
		{Floor: d("523050"), Rate: d("0.20")},
	})
	hoh.StandardDeduction = scaleOne(infl, d("20800"))
	hoh.CaliforniaOrdinary = scale(infl, []Bracket{
		{Floor: d("0"), Rate: d("0.01")},
		{Floor: d("20839"), Rate: d("0.02")},
		{Floor: d("49371"), Rate: d("0.04")},
		{Floor: d("63644"), Rate: d("0.06")},
		{Floor: d("78765"), Rate: d("0.08")},
		{Floor: d("93037"), Rate: d("0.093")},
		{Floor: d("474824"), Rate: d("0.103")},
		{Floor: d("569790"), Rate: d("0.113")},
		{Floor: d("949649"), Rate: d("0.123")},
	})
	register(year, domain.HeadOfHousehold, hoh)
}

// inflationFactor approximates the annual IRS inflation adjustment
// relative to the 2023 base year baked into the literals above.
func inflationFactor(year int) decimal.Decimal {
	switch {
	case year <= 2023:
		return d("1.00")
	case year == 2024:
		return d("1.054")
	case year == 2025:
		return d("1.088")
	default:
		return d("1.122")
	}
}

func scaleOne(factor, v decimal.Decimal) decimal.Decimal {
	return v.Mul(factor).Round(0)
}

func scale(factor decimal.Decimal, table []Bracket) []Bracket {
	out := make([]Bracket, len(table))
	for i, b := range table {
		out[i] = Bracket{Floor: scaleOne(factor, b.Floor), Rate: b.Rate}
	}
	return out
}
