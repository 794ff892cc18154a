package domain

// EquityClass is the finite set of equity-compensation instruments the
// basis-correction engine knows how to handle. Represented as a sum type
// so the dispatcher in internal/basis can exhaustively switch on it
// instead of probing optional fields.
type EquityClass int

const (
	EquityClassUnspecified EquityClass = iota
	RestrictedUnit                     // RSU: ordinary income recognized at vest
	NonqualifiedOption                 // NSO: ordinary income recognized at exercise
	QualifiedPurchasePlan              // ESPP, Section 423
	IncentiveOption                    // ISO: dual-basis, AMT preference
)

func (c EquityClass) String() string {
	switch c {
	case RestrictedUnit:
		return "restricted_unit"
	case NonqualifiedOption:
		return "nonqualified_option"
	case QualifiedPurchasePlan:
		return "qualified_purchase_plan"
	case IncentiveOption:
		return "incentive_option"
	default:
		return "unspecified"
	}
}

// EventType is the finite set of events a brokerage or employer can report.
type EventType int

const (
	EventUnspecified EventType = iota
	EventVest
	EventExercise
	EventPurchase
	EventSale
	EventDividend
	EventInterest
)

func (t EventType) String() string {
	switch t {
	case EventVest:
		return "vest"
	case EventExercise:
		return "exercise"
	case EventPurchase:
		return "purchase"
	case EventSale:
		return "sale"
	case EventDividend:
		return "dividend"
	case EventInterest:
		return "interest"
	default:
		return "unspecified"
	}
}

// IsLotOrigin reports whether an event of this type may be the
// source_event_id of a Lot (§3 invariant: Event ↔ Lot link).
func (t EventType) IsLotOrigin() bool {
	return t == EventVest || t == EventExercise || t == EventPurchase
}

// HoldingPeriod classifies a disposition's holding period.
type HoldingPeriod int

const (
	HoldingUnspecified HoldingPeriod = iota
	Short
	Long
)

func (h HoldingPeriod) String() string {
	if h == Long {
		return "LONG"
	}
	return "SHORT"
}

// AdjustmentCode is the broker basis-adjustment code applied to a
// SaleResult, following the capital-asset reporting schedule's own
// vocabulary (Form 8949 adjustment codes, generalized).
type AdjustmentCode int

const (
	AdjustmentNone AdjustmentCode = iota
	AdjustmentE                  // broker-reported basis was zero but flagged reported-to-authority
	AdjustmentB                  // broker-reported basis differs from corrected basis
	AdjustmentW                  // wash-sale disallowance applies
	AdjustmentO                  // combination of basis correction and wash-sale
)

func (a AdjustmentCode) String() string {
	switch a {
	case AdjustmentE:
		return "e"
	case AdjustmentB:
		return "B"
	case AdjustmentW:
		return "W"
	case AdjustmentO:
		return "O"
	default:
		return "none"
	}
}

// ScheduleCategory is the six-way partition of dispositions used by the
// capital-asset reporting schedule (§3: holding class × basis-reported ×
// 1099-received).
type ScheduleCategory int

const (
	CategoryUnspecified ScheduleCategory = iota
	CategoryA                            // short-term, basis reported, 1099 received
	CategoryB                            // short-term, basis not reported, 1099 received
	CategoryC                            // short-term, no 1099
	CategoryD                            // long-term, basis reported, 1099 received
	CategoryE                            // long-term, basis not reported, 1099 received
	CategoryF                            // long-term, no 1099
)

func (c ScheduleCategory) String() string {
	switch c {
	case CategoryA:
		return "A"
	case CategoryB:
		return "B"
	case CategoryC:
		return "C"
	case CategoryD:
		return "D"
	case CategoryE:
		return "E"
	case CategoryF:
		return "F"
	default:
		return ""
	}
}

// DeriveScheduleCategory implements the §3 category-derivation rule.
func DeriveScheduleCategory(holding HoldingPeriod, basisReported, received1099 bool) ScheduleCategory {
	if holding == Short {
		switch {
		case !received1099:
			return CategoryC
		case basisReported:
			return CategoryA
		default:
			return CategoryB
		}
	}
	switch {
	case !received1099:
		return CategoryF
	case basisReported:
		return CategoryD
	default:
		return CategoryE
	}
}
