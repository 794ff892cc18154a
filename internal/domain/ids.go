// Package domain holds the canonical tax-reconciliation record types:
// pure values with no behavior beyond derived properties.
package domain

import "github.com/google/uuid"

// ID is an opaque, UUID-shaped identifier. Every entity in the system
// is addressed by one; callers never parse or compare them structurally.
type ID string

// NewID mints a fresh opaque identifier.
func NewID() ID {
	return ID(uuid.New().String())
}

// IsZero reports whether id has never been assigned.
func (id ID) IsZero() bool {
	return id == ""
}
