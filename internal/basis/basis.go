// Package basis implements the basis-correction engine (§4.2): one pure
// function per equity class, each producing a fully-populated
// domain.SaleResult for one (lot, sale) pair. The reconciliation
// orchestrator is responsible for prorating a multi-lot sale into
// per-lot synthetic partial sales before calling Correct, and for
// running the wash-sale post-pass across the accumulated results.
package basis

import (
	"time"

	"github.com/shopspring/decimal"

	"taxrecon/internal/domain"
	"taxrecon/internal/taxerr"
)

// Input bundles everything one (lot, sale) correction needs. SharesSold
// and BrokerBasisAllocated are the orchestrator's prorated slice of the
// parent Sale for this particular lot.
type Input struct {
	Lot                  domain.Lot
	Event                *domain.EquityEvent // originating event; required for qualified-plan and incentive-option lots
	Sale                 domain.Sale
	SharesSold           decimal.Decimal
	BrokerBasisAllocated decimal.Decimal
}

// Correct dispatches to the equity-class-specific handler and returns a
// SaleResult with adjustment code and schedule category already
// assigned (wash-sale amount, if any, is layered on afterward by the
// post-pass in washsale.go).
func Correct(in Input) (domain.SaleResult, error) {
	holding := domain.HoldingPeriodFor(in.Lot.AcquisitionDate, in.Sale.Date)
	proceeds := in.Sale.ProceedsPerShare.Mul(in.SharesSold)

	var (
		correctedBasis   decimal.Decimal
		ordinaryIncome   decimal.Decimal
		minTaxAdjustment decimal.Decimal
		notes            string
		err              error
	)

	switch in.Lot.EquityClass {
	case domain.RestrictedUnit:
		correctedBasis, ordinaryIncome, minTaxAdjustment = restrictedUnit(in.Lot, in.SharesSold)
	case domain.NonqualifiedOption:
		correctedBasis, ordinaryIncome, minTaxAdjustment = nonqualifiedOption(in.Lot, in.SharesSold)
	case domain.QualifiedPurchasePlan:
		correctedBasis, ordinaryIncome, holding, notes, err = qualifiedPurchasePlan(in.Lot, in.Event, in.Sale, in.SharesSold)
	case domain.IncentiveOption:
		correctedBasis, ordinaryIncome, minTaxAdjustment, notes, err = incentiveOption(in.Lot, in.Event, in.Sale, in.SharesSold)
	default:
		return domain.SaleResult{}, taxerr.ReconciliationError("lot "+string(in.Lot.ID)+" has unspecified equity class", nil)
	}
	if err != nil {
		return domain.SaleResult{}, err
	}

	gainOrLoss := proceeds.Sub(correctedBasis)
	adjustmentAmount := correctedBasis.Sub(in.BrokerBasisAllocated)
	code := SelectAdjustmentCode(in.BrokerBasisAllocated, correctedBasis, decimal.Zero, in.Sale.BasisReportedToIRS)
	category := domain.DeriveScheduleCategory(holding, in.Sale.BasisReportedToIRS, in.Sale.Received1099)

	return domain.SaleResult{
		SaleID:              in.Sale.ID,
		LotID:               in.Lot.ID,
		Security:            in.Lot.Security,
		AcquisitionDate:     in.Lot.AcquisitionDate,
		SaleDate:            in.Sale.Date,
		Shares:              in.SharesSold,
		Proceeds:            proceeds,
		BrokerReportedBasis: in.BrokerBasisAllocated,
		CorrectedBasis:      correctedBasis,
		AdjustmentAmount:    adjustmentAmount,
		AdjustmentCode:      code,
		Holding:             holding,
		Category:            category,
		GainOrLoss:          gainOrLoss,
		OrdinaryIncome:      ordinaryIncome,
		MinTaxAdjustment:    minTaxAdjustment,
		Notes:               notes,
	}, nil
}

// restrictedUnit: ordinary income was recognized at vest and is already
// in wages, so none of it is recognized again at sale.
func restrictedUnit(lot domain.Lot, shares decimal.Decimal) (correctedBasis, ordinaryIncome, minTaxAdjustment decimal.Decimal) {
	return lot.CostPerShare.Mul(shares), decimal.Zero, decimal.Zero
}

// nonqualifiedOption: the lot's cost-per-share already bundles strike
// plus the ordinary-income component recognized at exercise.
func nonqualifiedOption(lot domain.Lot, shares decimal.Decimal) (correctedBasis, ordinaryIncome, minTaxAdjustment decimal.Decimal) {
	return lot.CostPerShare.Mul(shares), decimal.Zero, decimal.Zero
}

// qualifiedPurchasePlan implements the Section-423 qualifying and
// disqualifying disposition formulas.
func qualifiedPurchasePlan(lot domain.Lot, event *domain.EquityEvent, sale domain.Sale, shares decimal.Decimal) (correctedBasis, ordinaryIncome decimal.Decimal, holding domain.HoldingPeriod, notes string, err error) {
	if event == nil || event.OfferingDate == nil || event.FMVAtOffering == nil || event.PurchasePrice == nil {
		return decimal.Zero, decimal.Zero, domain.HoldingUnspecified, "", taxerr.MissingEventData(string(lot.ID), "offering_date/fmv_at_offering/purchase_price", true)
	}

	purchaseDate := lot.AcquisitionDate
	purchasePrice := *event.PurchasePrice
	fmvOffering := *event.FMVAtOffering
	offeringDate := *event.OfferingDate

	qualifying := sale.Date.After(offeringDate.AddDate(2, 0, 0)) && sale.Date.After(purchaseDate.AddDate(1, 0, 0))

	if qualifying {
		ordinaryPerShare := decimal.Min(sale.ProceedsPerShare.Sub(purchasePrice), fmvOffering.Sub(purchasePrice))
		if ordinaryPerShare.IsNegative() {
			ordinaryPerShare = decimal.Zero
		}
		adjustedBasisPerShare := purchasePrice.Add(ordinaryPerShare)
		return adjustedBasisPerShare.Mul(shares), ordinaryPerShare.Mul(shares), domain.Long, "", nil
	}

	fmvPurchase := event.PricePerShare
	ordinaryPerShare := fmvPurchase.Sub(purchasePrice)
	adjustedBasisPerShare := purchasePrice.Add(ordinaryPerShare)
	actualHolding := domain.HoldingPeriodFor(purchaseDate, sale.Date)
	return adjustedBasisPerShare.Mul(shares), ordinaryPerShare.Mul(shares), actualHolding, "disqualifying disposition", nil
}

// incentiveOption implements the dual-basis qualifying and disqualifying
// formulas. minTaxAdjustment is the AMT preference reversal/creation:
// negative on a qualifying sale of a lot that generated a prior-year AMT
// preference. On a disqualifying sale it is the corrected basis minus the
// exercise-date FMV basis: zero when the sale price is at or above that
// FMV, negative by (FMV - sale price) x shares when it is below.
func incentiveOption(lot domain.Lot, event *domain.EquityEvent, sale domain.Sale, shares decimal.Decimal) (correctedBasis, ordinaryIncome, minTaxAdjustment decimal.Decimal, notes string, err error) {
	if !lot.HasMinTaxBasis() {
		return decimal.Zero, decimal.Zero, decimal.Zero, "", taxerr.MissingEventData(string(lot.ID), "min_tax_cost_per_share", true)
	}
	strike := lot.CostPerShare
	fmvExercise := *lot.MinTaxCostPerShare
	exerciseDate := lot.AcquisitionDate
	proceeds := sale.ProceedsPerShare.Mul(shares)
	minTaxBasis := fmvExercise.Mul(shares)

	var grantDate time.Time
	haveGrantDate := event != nil && event.GrantDate != nil
	if haveGrantDate {
		grantDate = *event.GrantDate
	}

	qualifying := haveGrantDate &&
		sale.Date.After(grantDate.AddDate(2, 0, 0)) &&
		sale.Date.After(exerciseDate.AddDate(1, 0, 0))

	if !haveGrantDate {
		// §4.3 failure semantics: missing grant date falls back to the
		// conservative disqualifying treatment, recorded in notes; the
		// orchestrator emits the matching MissingEventData warning.
		notes = "missing grant date: treated as disqualifying"
	}

	if qualifying {
		regularBasis := strike.Mul(shares)
		regularGain := proceeds.Sub(regularBasis)
		minTaxGain := proceeds.Sub(minTaxBasis)
		minTaxAdjustment = minTaxGain.Sub(regularGain)
		return regularBasis, decimal.Zero, minTaxAdjustment, notes, nil
	}

	spreadPerShare := fmvExercise.Sub(strike)
	actualGainPerShare := sale.ProceedsPerShare.Sub(strike)
	oiPerShare := actualGainPerShare
	if oiPerShare.IsNegative() {
		oiPerShare = decimal.Zero
	}
	oiPerShare = decimal.Min(spreadPerShare, oiPerShare)

	ordinaryIncome = oiPerShare.Mul(shares)
	correctedBasis = strike.Mul(shares).Add(ordinaryIncome)
	regularGain := proceeds.Sub(correctedBasis)
	minTaxGain := proceeds.Sub(minTaxBasis)
	minTaxAdjustment = minTaxGain.Sub(regularGain)
	return correctedBasis, ordinaryIncome, minTaxAdjustment, notes, nil
}

// SelectAdjustmentCode implements the §4.2 adjustment-code selection
// table. It is called once by Correct (with washDisallowed = 0) and
// again by the wash-sale post-pass once it has computed a disallowance,
// so the final code reflects both basis correction and wash-sale state.
func SelectAdjustmentCode(brokerBasis, correctedBasis, washDisallowed decimal.Decimal, basisReportedToIRS bool) domain.AdjustmentCode {
	basisDiffers := !brokerBasis.Equal(correctedBasis)
	hasWash := washDisallowed.IsPositive()

	switch {
	case hasWash && basisDiffers:
		return domain.AdjustmentO
	case hasWash:
		return domain.AdjustmentW
	case brokerBasis.IsZero() && basisReportedToIRS:
		return domain.AdjustmentE
	case basisDiffers:
		return domain.AdjustmentB
	default:
		return domain.AdjustmentNone
	}
}
