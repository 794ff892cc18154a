package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WageStatement is an annual employer wage report (Form W-2, generalized).
type WageStatement struct {
	ID                   ID
	Year                 int
	EmployerID           string
	Wages                decimal.Decimal // box 1
	FederalWithheld      decimal.Decimal // box 2
	MedicareWages        decimal.Decimal // box 5
	MedicareWithheld     decimal.Decimal // box 6
	BoxTwelveCodes       map[string]decimal.Decimal
	OtherLineFourteen    map[string]decimal.Decimal // may include VPDI/SDI synonyms (§9 open question)
	StateWages           decimal.Decimal
	StateWithheld        decimal.Decimal
}

// vpdiSynonyms are the box-14 labels (case-insensitive) treated as
// California voluntary-plan-disability contributions (§9 open question:
// California VPDI keyword variance).
var vpdiSynonyms = map[string]bool{
	"vpdi":    true,
	"ca vpdi": true,
	"sdi":     true,
	"ca sdi":  true,
}

// VoluntaryPlanDisability sums every box-14 entry recognized as a VPDI
// synonym, case-insensitively. Unrecognized labels are not summed here;
// the ingestion adapter is responsible for surfacing those as warnings.
func (w WageStatement) VoluntaryPlanDisability() decimal.Decimal {
	total := decimal.Zero
	for label, amount := range w.OtherLineFourteen {
		if vpdiSynonyms[normalizeLabel(label)] {
			total = total.Add(amount)
		}
	}
	return total
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RecognizedVPDILabel reports whether label (case-insensitive) is a
// known VPDI/SDI synonym.
func RecognizedVPDILabel(label string) bool {
	return vpdiSynonyms[normalizeLabel(label)]
}

// DividendStatement is an annual dividend report (Form 1099-DIV, generalized).
type DividendStatement struct {
	ID                     ID
	Year                   int
	Payer                  string
	OrdinaryDividends      decimal.Decimal
	QualifiedDividends     decimal.Decimal
	CapitalGainDistribution decimal.Decimal
	ForeignTaxPaid         decimal.Decimal
	Section199AEligible    decimal.Decimal
	FederalWithheld        decimal.Decimal
}

// InterestStatement is an annual interest report (Form 1099-INT, generalized).
type InterestStatement struct {
	ID                  ID
	Year                int
	Payer               string
	InterestIncome      decimal.Decimal
	EarlyWithdrawalPenalty decimal.Decimal
	FederalWithheld     decimal.Decimal
	IsUSTreasuryInterest bool // drives the California treasury-interest subtraction
}

// ExerciseStatement is an employer record of one incentive-option exercise.
type ExerciseStatement struct {
	ID                   ID
	Year                 int
	GrantDate            time.Time
	ExerciseDate         time.Time
	StrikePerShare       decimal.Decimal
	FMVAtExercisePerShare decimal.Decimal
	Shares               decimal.Decimal
	EmployerName         string
}

// PurchaseStatement is an employer record of one qualified-plan (Section
// 423) purchase.
type PurchaseStatement struct {
	ID                   ID
	Year                 int
	OfferingDate         time.Time
	PurchaseDate         time.Time
	FMVAtOffering        decimal.Decimal
	FMVAtPurchase        decimal.Decimal
	PurchasePricePerShare decimal.Decimal
	Shares               decimal.Decimal
}
