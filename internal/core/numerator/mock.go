// Package numerator provides domain contracts for gapless document numbering.
package numerator

import (
	"context"
)

// MockAllocator is a test implementation of Allocator.
// Use in unit tests to avoid database dependencies.
type MockAllocator struct {
	NextFunc    func(ctx context.Context, scope Scope) (int, error)
	SetNextFunc func(ctx context.Context, scope Scope, value int) error

	// Calls records every scope passed to Next, in order.
	Calls []Scope
}

// Next implements Allocator.
func (m *MockAllocator) Next(ctx context.Context, scope Scope) (int, error) {
	m.Calls = append(m.Calls, scope)
	if m.NextFunc != nil {
		return m.NextFunc(ctx, scope)
	}
	// Default: return predictable mock number
	return 1, nil
}

// SetNext implements Allocator.
func (m *MockAllocator) SetNext(ctx context.Context, scope Scope, value int) error {
	if m.SetNextFunc != nil {
		return m.SetNextFunc(ctx, scope, value)
	}
	return nil
}

// Ensure compile-time interface compliance.
var _ Allocator = (*MockAllocator)(nil)
