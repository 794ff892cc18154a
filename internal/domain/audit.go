package domain

import "time"

// AuditEntry is one append-only computation step. The SaleResult itself
// stays a pure computed value; the audit trail is the only place a
// computation step is recorded as having happened.
type AuditEntry struct {
	ID        ID
	Timestamp time.Time
	Engine    string // "reconciliation" | "estimator" | "strategy"
	Operation string
	Input     map[string]any
	Output    map[string]any
	Notes     string
}
