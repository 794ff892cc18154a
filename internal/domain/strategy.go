package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Priority is the urgency bucket a strategy recommendation is filed under.
type Priority int

const (
	PriorityUnspecified Priority = iota
	LOW
	MEDIUM
	HIGH
	CRITICAL
)

func (p Priority) String() string {
	switch p {
	case CRITICAL:
		return "CRITICAL"
	case HIGH:
		return "HIGH"
	case MEDIUM:
		return "MEDIUM"
	case LOW:
		return "LOW"
	default:
		return "UNSPECIFIED"
	}
}

// RiskLevel is the downside-risk bucket attached to a recommendation.
type RiskLevel int

const (
	RiskUnspecified RiskLevel = iota
	RiskLow
	RiskModerate
	RiskHigh
)

func (r RiskLevel) String() string {
	switch r {
	case RiskHigh:
		return "HIGH"
	case RiskModerate:
		return "MODERATE"
	default:
		return "LOW"
	}
}

// StrategyRecommendation is one actionable finding produced by an analyzer.
type StrategyRecommendation struct {
	Name               string
	Category           string
	Priority           Priority
	Situation          string
	Mechanism          string
	EstimatedSavings   decimal.Decimal
	ActionSteps        []string
	Deadline           *time.Time
	Risk               RiskLevel
	CaliforniaNote     string
	AuthorityCitation  string
	RelatedAnalyzers   []string // populated by the interaction-flagging post-pass
}
