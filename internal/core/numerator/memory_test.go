package numerator

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/id"
)

func TestMemory_Next_Sequential(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	scope := Scope{CompanyID: id.New(), DocType: DocTypeInvoice, Year: 2026}

	for want := 1; want <= 5; want++ {
		got, err := m.Next(ctx, scope)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestMemory_Next_ScopesAreIndependent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	companyA := id.New()
	companyB := id.New()

	scopes := []Scope{
		{CompanyID: companyA, DocType: DocTypeInvoice, Year: 2026},
		{CompanyID: companyA, DocType: DocTypeQuote, Year: 2026},
		{CompanyID: companyA, DocType: DocTypeInvoice, Year: 2025},
		{CompanyID: companyB, DocType: DocTypeInvoice, Year: 2026},
	}

	// Advance the first scope, then check the others still start at 1.
	for i := 0; i < 3; i++ {
		_, err := m.Next(ctx, scopes[0])
		require.NoError(t, err)
	}

	for _, scope := range scopes[1:] {
		got, err := m.Next(ctx, scope)
		require.NoError(t, err)
		assert.Equal(t, 1, got, "scope %s", scope)
	}
}

func TestMemory_Next_ConcurrentAllocationsAreGapless(t *testing.T) {
	const n = 100

	m := NewMemory()
	ctx := context.Background()
	scope := Scope{CompanyID: id.New(), DocType: DocTypeInvoice, Year: 2026}

	var wg sync.WaitGroup
	results := make(chan int, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := m.Next(ctx, scope)
			if err != nil {
				t.Error(err)
				return
			}
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	got := make([]int, 0, n)
	for num := range results {
		got = append(got, num)
	}
	sort.Ints(got)

	require.Len(t, got, n)
	for i, num := range got {
		assert.Equal(t, i+1, num, "numbers must be consecutive 1..N with no duplicates")
	}
}

func TestMemory_SetNext(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	scope := Scope{CompanyID: id.New(), DocType: DocTypeQuote, Year: 2026}

	require.NoError(t, m.SetNext(ctx, scope, 100))

	got, err := m.Next(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, 100, got)
}

func TestMemory_Next_InvalidScope(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Next(ctx, Scope{DocType: DocTypeInvoice, Year: 2026})
	assert.Error(t, err, "nil company must be rejected")

	_, err = m.Next(ctx, Scope{CompanyID: id.New(), Year: 2026})
	assert.Error(t, err, "empty document type must be rejected")

	_, err = m.Next(ctx, Scope{CompanyID: id.New(), DocType: DocTypeInvoice})
	assert.Error(t, err, "zero year must be rejected")
}

func TestScope_String(t *testing.T) {
	companyID := id.MustParse("0195f1c0-0000-7000-8000-000000000001")
	scope := Scope{CompanyID: companyID, DocType: DocTypeInvoice, Year: 2026}
	assert.Equal(t, "0195f1c0-0000-7000-8000-000000000001:invoice:2026", scope.String())
}

func TestFormat(t *testing.T) {
	cfg := DefaultConfig("INV")
	assert.Equal(t, "INV-2026-00042", Format(cfg, 2026, 42))

	cfg.PadWidth = 3
	assert.Equal(t, "INV-2026-042", Format(cfg, 2026, 42))
}

func TestMemory_Next_CancelledContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := m.Next(ctx, Scope{CompanyID: id.New(), DocType: DocTypeInvoice, Year: 2026})
	assert.Error(t, err)
}
