package numerator

import (
	"context"
	"sync"
)

// Memory is an in-process Allocator for single-writer deployments and tests.
// A single mutex serializes the read-increment-write of every counter;
// scopes are independent, so N concurrent issues within one scope observe
// exactly the numbers 1..N with no duplicates.
type Memory struct {
	mu       sync.Mutex
	counters map[Scope]int
}

// Ensure compile-time interface compliance.
var _ Allocator = (*Memory)(nil)

// NewMemory creates an empty in-memory allocator.
func NewMemory() *Memory {
	return &Memory{
		counters: make(map[Scope]int),
	}
}

// Next implements Allocator.
func (m *Memory) Next(ctx context.Context, scope Scope) (int, error) {
	if err := scope.Validate(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[scope]++
	return m.counters[scope], nil
}

// SetNext implements Allocator. The following Next returns value.
func (m *Memory) SetNext(ctx context.Context, scope Scope, value int) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[scope] = value - 1
	return nil
}
