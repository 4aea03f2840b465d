// Package numerator provides domain contracts for gapless document numbering.
// Implementations live in the infrastructure layer.
package numerator

import (
	"context"
	"fmt"

	"fakturo/internal/core/id"
)

// Document types that receive sequential numbers.
const (
	DocTypeInvoice = "invoice"
	DocTypeQuote   = "quote"
)

// Scope is the key under which numbers are allocated.
// Counters are independent per (company, document type, year).
type Scope struct {
	CompanyID id.ID
	DocType   string
	Year      int
}

// String returns a stable key representation (used for map keys and logs).
func (s Scope) String() string {
	return fmt.Sprintf("%s:%s:%d", s.CompanyID, s.DocType, s.Year)
}

// Validate checks scope invariants.
func (s Scope) Validate() error {
	if id.IsNil(s.CompanyID) {
		return fmt.Errorf("numerator scope: company is required")
	}
	if s.DocType == "" {
		return fmt.Errorf("numerator scope: document type is required")
	}
	if s.Year <= 0 {
		return fmt.Errorf("numerator scope: year must be positive, got %d", s.Year)
	}
	return nil
}

// Allocator issues sequential document numbers.
//
// Guarantees: numbers are strictly increasing integers starting at 1 per
// scope; no number is issued twice; the allocator itself introduces no gaps
// (a caller rolling back a transition after allocation is the only source of
// legitimate gaps - numbers are never reclaimed).
//
// Concurrency: allocations within the same scope are serialized by the
// implementation. The wait is bounded; on contention timeout Next fails
// with a retryable error and the caller repeats the whole issue transition,
// not just the allocation.
type Allocator interface {
	// Next returns the next number for the scope.
	Next(ctx context.Context, scope Scope) (int, error)

	// SetNext sets the next number value (for migration purposes).
	// The following Next for the scope returns value.
	SetNext(ctx context.Context, scope Scope, value int) error
}

// Config holds display formatting for allocated numbers.
// The stored number is always the plain integer; formatting is
// presentation-layer sugar.
type Config struct {
	// Prefix added to formatted numbers (e.g., "INV", "QUO")
	Prefix string

	// PadWidth is the minimum number width (default 5)
	PadWidth int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:   prefix,
		PadWidth: 5,
	}
}

// Format renders a number as PREFIX-YEAR-XXXXX (e.g., INV-2026-00042).
func Format(cfg Config, year, number int) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}
	return fmt.Sprintf("%s-%d-%0*d", cfg.Prefix, year, padWidth, number)
}
