package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/core/numerator"
	"fakturo/internal/core/types"
	"fakturo/internal/domain"
	"fakturo/internal/domain/documents/line"
)

// passthroughTx runs the function without a real database transaction.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	docs  map[id.ID]Invoice
	lines map[id.ID][]line.Item
}

func newMemRepo() *memRepo {
	return &memRepo{
		docs:  make(map[id.ID]Invoice),
		lines: make(map[id.ID][]line.Item),
	}
}

func (r *memRepo) Create(_ context.Context, doc *Invoice) error {
	r.docs[doc.ID] = *doc
	return nil
}

func (r *memRepo) GetByID(_ context.Context, docID id.ID) (*Invoice, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", docID.String())
	}
	cp := doc
	return &cp, nil
}

func (r *memRepo) GetByNumber(_ context.Context, companyID id.ID, year, number int) (*Invoice, error) {
	for _, doc := range r.docs {
		if doc.CompanyID == companyID && doc.IsNumbered() && *doc.Year == year && *doc.Number == number {
			cp := doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", number)
}

func (r *memRepo) GetBySourceQuote(_ context.Context, quoteID id.ID) (*Invoice, error) {
	for _, doc := range r.docs {
		if doc.SourceQuoteID != nil && *doc.SourceQuoteID == quoteID {
			cp := doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", quoteID.String())
}

func (r *memRepo) Update(_ context.Context, doc *Invoice) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("invoice", doc.ID.String())
	}
	r.docs[doc.ID] = *doc
	return nil
}

func (r *memRepo) Delete(_ context.Context, docID id.ID) error {
	delete(r.docs, docID)
	return nil
}

func (r *memRepo) GetLines(_ context.Context, docID id.ID) ([]line.Item, error) {
	return r.lines[docID], nil
}

func (r *memRepo) SaveLines(_ context.Context, docID id.ID, items []line.Item) error {
	r.lines[docID] = items
	return nil
}

func (r *memRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Invoice], error) {
	out := domain.ListResult[*Invoice]{}
	for _, doc := range r.docs {
		cp := doc
		out.Items = append(out.Items, &cp)
	}
	out.TotalCount = int64(len(out.Items))
	return out, nil
}

func (r *memRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error) {
	return r.GetByID(ctx, docID)
}

func (r *memRepo) ListOverdueIDs(_ context.Context, asOf time.Time) ([]id.ID, error) {
	var out []id.ID
	for _, doc := range r.docs {
		if doc.Status == StatusIssued && doc.DueDate != nil && doc.DueDate.Before(asOf) {
			out = append(out, doc.ID)
		}
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	svc := NewService(repo, numerator.NewMemory(), passthroughTx{})
	svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc, repo
}

func draftInvoice(t *testing.T, svc *Service) *Invoice {
	t.Helper()
	doc := New(id.New(), id.New())

	price := types.MustMoney("10.00")
	qty := types.MustMoney("2")
	rate := types.MustMoney("22")
	item, err := line.NewItem(doc.ID, 1, "Consulting", line.Input{
		Quantity:  &qty,
		UnitPrice: &price,
		TaxRate:   &rate,
	})
	require.NoError(t, err)
	doc.Lines = append(doc.Lines, *item)

	require.NoError(t, svc.Create(t.Context(), doc))
	return doc
}

func TestService_Create_StartsInDraftWithoutNumber(t *testing.T) {
	svc, _ := newTestService(t)
	doc := draftInvoice(t, svc)

	assert.Equal(t, StatusDraft, doc.Status)
	assert.False(t, doc.IsNumbered())
	assert.Equal(t, "24.40", doc.TotalAmount.StringFixed(2))
}

func TestService_Transition_PayFromDraftFails(t *testing.T) {
	svc, _ := newTestService(t)
	doc := draftInvoice(t, svc)

	_, err := svc.Transition(t.Context(), doc.ID, ActionPay)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))

	got, err := svc.GetByID(t.Context(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, got.Status)
	assert.False(t, got.IsNumbered())
}

func TestService_Transition_IssueThenPay(t *testing.T) {
	svc, _ := newTestService(t)
	doc := draftInvoice(t, svc)

	issued, err := svc.Transition(t.Context(), doc.ID, ActionIssue)
	require.NoError(t, err)
	assert.Equal(t, StatusIssued, issued.Status)
	require.True(t, issued.IsNumbered())
	assert.Equal(t, 2026, *issued.Year)
	assert.Equal(t, 1, *issued.Number)
	require.NotNil(t, issued.IssueDate)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), *issued.IssueDate)

	paid, err := svc.Transition(t.Context(), doc.ID, ActionPay)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)

	// Year/number are invariant across further transitions.
	assert.Equal(t, 2026, *paid.Year)
	assert.Equal(t, 1, *paid.Number)
}

func TestService_Transition_IssueIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	doc := draftInvoice(t, svc)

	first, err := svc.Transition(t.Context(), doc.ID, ActionIssue)
	require.NoError(t, err)

	second, err := svc.Transition(t.Context(), doc.ID, ActionIssue)
	require.NoError(t, err)

	assert.Equal(t, StatusIssued, second.Status)
	assert.Equal(t, *first.Number, *second.Number, "re-issuing must not allocate a second number")
	assert.Equal(t, *first.Year, *second.Year)
}

func TestService_Transition_NumbersAreSequentialPerCompany(t *testing.T) {
	svc, _ := newTestService(t)
	companyID := id.New()

	var numbers []int
	for i := 0; i < 3; i++ {
		doc := New(companyID, id.New())
		require.NoError(t, svc.Create(t.Context(), doc))

		issued, err := svc.Transition(t.Context(), doc.ID, ActionIssue)
		require.NoError(t, err)
		numbers = append(numbers, *issued.Number)
	}

	assert.Equal(t, []int{1, 2, 3}, numbers)
}

func TestService_Transition_PresetIssueDateIsKept(t *testing.T) {
	svc, _ := newTestService(t)
	doc := New(id.New(), id.New())
	preset := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	doc.IssueDate = &preset
	require.NoError(t, svc.Create(t.Context(), doc))

	issued, err := svc.Transition(t.Context(), doc.ID, ActionIssue)
	require.NoError(t, err)
	assert.Equal(t, preset, *issued.IssueDate)

	// The numbering year follows the issue date, not the clock.
	assert.Equal(t, 2025, *issued.Year)
}

func TestService_Update_RejectedOutsideDraft(t *testing.T) {
	svc, _ := newTestService(t)
	doc := draftInvoice(t, svc)

	_, err := svc.Transition(t.Context(), doc.ID, ActionIssue)
	require.NoError(t, err)

	doc.Title = "changed"
	err = svc.Update(t.Context(), doc)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDocumentNotEditable, appErr.Code)
}

func TestService_Update_CannotOverwriteNumbering(t *testing.T) {
	svc, repo := newTestService(t)
	doc := draftInvoice(t, svc)

	year, number := 1999, 777
	doc.Year = &year
	doc.Number = &number
	require.NoError(t, svc.Update(t.Context(), doc))

	stored := repo.docs[doc.ID]
	assert.False(t, stored.IsNumbered(), "numbering is not writable through Update")
}

func TestService_Delete_OnlyDrafts(t *testing.T) {
	svc, _ := newTestService(t)
	doc := draftInvoice(t, svc)

	_, err := svc.Transition(t.Context(), doc.ID, ActionIssue)
	require.NoError(t, err)

	err = svc.Delete(t.Context(), doc.ID)
	require.Error(t, err)

	other := draftInvoice(t, svc)
	require.NoError(t, svc.Delete(t.Context(), other.ID))
	_, err = svc.GetByID(t.Context(), other.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_MarkOverdue(t *testing.T) {
	svc, _ := newTestService(t)

	due := New(id.New(), id.New())
	past := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	due.DueDate = &past
	require.NoError(t, svc.Create(t.Context(), due))
	_, err := svc.Transition(t.Context(), due.ID, ActionIssue)
	require.NoError(t, err)

	fresh := New(id.New(), id.New())
	future := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	fresh.DueDate = &future
	require.NoError(t, svc.Create(t.Context(), fresh))
	_, err = svc.Transition(t.Context(), fresh.ID, ActionIssue)
	require.NoError(t, err)

	marked, err := svc.MarkOverdue(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	got, err := svc.GetByID(t.Context(), due.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, got.Status)

	got, err = svc.GetByID(t.Context(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusIssued, got.Status)
}

func TestBuildLines_AssignsPositions(t *testing.T) {
	docID := id.New()
	price := types.MustMoney("10.00")

	items, err := BuildLines(docID, []LineInput{
		{Description: "First", Input: line.Input{UnitPrice: &price}},
		{Description: "Second", Unit: "h", Input: line.Input{UnitPrice: &price}},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Position)
	assert.Equal(t, 2, items[1].Position)
	assert.Equal(t, "h", items[1].Unit)
}

func TestBuildLines_ReportsLineNumber(t *testing.T) {
	bad := types.MustMoney("-1")
	_, err := BuildLines(id.New(), []LineInput{
		{Description: "ok"},
		{Description: "bad", Input: line.Input{UnitPrice: &bad}},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 2, appErr.Details["lineNo"])
}
