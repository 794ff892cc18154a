// Package taxerr defines the tagged-variant error taxonomy from §7 of
// the specification. Each kind carries the fields a caller needs to
// decide propagation (fatal abort vs. accumulated warning) without
// parsing an error string.
package taxerr

import (
	"errors"
	"fmt"
)

// Kind discriminates the error taxonomy.
type Kind int

const (
	KindUnspecified Kind = iota
	KindBasisMismatch
	KindLotNotFound
	KindInsufficientShares
	KindMissingEventData
	KindValidationError
	KindReconciliationError
)

func (k Kind) String() string {
	switch k {
	case KindBasisMismatch:
		return "BasisMismatch"
	case KindLotNotFound:
		return "LotNotFound"
	case KindInsufficientShares:
		return "InsufficientShares"
	case KindMissingEventData:
		return "MissingEventData"
	case KindValidationError:
		return "ValidationError"
	case KindReconciliationError:
		return "ReconciliationError"
	default:
		return "Unspecified"
	}
}

// Error is the concrete tagged-variant error type. Fatal reports whether
// the propagation policy for this kind aborts the pipeline (true) or
// merely accumulates as a warning (false); callers branch on the Fatal
// field, never on substring-matching Error().
type Error struct {
	Kind    Kind
	Fatal   bool
	Ref     string // sale/lot reference this error concerns
	Field   string // for MissingEventData: which field was absent
	Detail  string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s(%s): %s", e.Kind, e.Ref, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// BasisMismatch reports an internal consistency failure; always fatal.
func BasisMismatch(lot, broker, computed string) *Error {
	return &Error{Kind: KindBasisMismatch, Fatal: true, Detail: fmt.Sprintf("lot %s broker=%s computed=%s", lot, broker, computed)}
}

// LotNotFound reports that no candidate lot matched a sale's security;
// surfaced as a warning, the sale is listed unmatched.
func LotNotFound(saleRef string) *Error {
	return &Error{Kind: KindLotNotFound, Fatal: false, Ref: saleRef, Detail: "no candidate lot matched security"}
}

// InsufficientShares reports that lot allocation exhausted available
// shares short of the sale's requested quantity; a partial result is
// still emitted.
func InsufficientShares(saleRef string, missing string) *Error {
	return &Error{Kind: KindInsufficientShares, Fatal: false, Ref: saleRef, Detail: fmt.Sprintf("missing %s shares", missing)}
}

// MissingEventData reports that a lot lacks a field its equity class
// requires. fatal distinguishes the qualified-plan case (fatal, cannot
// determine qualifying status) from the incentive-option case (warning
// with conservative disqualifying fallback).
func MissingEventData(lotID, field string, fatal bool) *Error {
	return &Error{Kind: KindMissingEventData, Fatal: fatal, Ref: lotID, Field: field, Detail: fmt.Sprintf("missing %s", field)}
}

// ValidationError reports an ingestion-time structural error. Surfaced
// by the adapter, never raised from inside the core engines.
func ValidationError(record, message string) *Error {
	return &Error{Kind: KindValidationError, Fatal: true, Ref: record, Detail: message}
}

// ReconciliationError is the catch-all for unexpected conditions; fatal.
func ReconciliationError(detail string, wrapped error) *Error {
	return &Error{Kind: KindReconciliationError, Fatal: true, Detail: detail, Wrapped: wrapped}
}

// As reports whether err is (or wraps) a *Error of the given kind.
func As(err error, kind Kind) (*Error, bool) {
	var te *Error
	if !errors.As(err, &te) {
		return nil, false
	}
	if te.Kind != kind {
		return nil, false
	}
	return te, true
}
