package quote

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
	"fakturo/internal/domain/documents/invoice"
	"fakturo/internal/domain/documents/line"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	docs  map[id.ID]Quote
	lines map[id.ID][]line.Item
}

func newMemRepo() *memRepo {
	return &memRepo{
		docs:  make(map[id.ID]Quote),
		lines: make(map[id.ID][]line.Item),
	}
}

func (r *memRepo) Create(_ context.Context, doc *Quote) error {
	r.docs[doc.ID] = *doc
	return nil
}

func (r *memRepo) GetByID(_ context.Context, docID id.ID) (*Quote, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("quote", docID.String())
	}
	cp := doc
	return &cp, nil
}

func (r *memRepo) GetByNumber(_ context.Context, companyID id.ID, year, number int) (*Quote, error) {
	for _, doc := range r.docs {
		if doc.CompanyID == companyID && doc.IsNumbered() && *doc.Year == year && *doc.Number == number {
			cp := doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("quote", number)
}

func (r *memRepo) Update(_ context.Context, doc *Quote) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("quote", doc.ID.String())
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

func (r *memRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Quote], error) {
	out := domain.ListResult[*Quote]{}
	for _, doc := range r.docs {
		cp := doc
		out.Items = append(out.Items, &cp)
	}
	out.TotalCount = int64(len(out.Items))
	return out, nil
}

func (r *memRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Quote, error) {
	return r.GetByID(ctx, docID)
}

func (r *memRepo) ListExpiredIDs(_ context.Context, asOf time.Time) ([]id.ID, error) {
	var out []id.ID
	for _, doc := range r.docs {
		if doc.Status == StatusSent && doc.DueDate != nil && doc.DueDate.Before(asOf) {
			out = append(out, doc.ID)
		}
	}
	return out, nil
}

// fakeConverter records invoices created during conversion.
type fakeConverter struct {
	created map[id.ID]*invoice.Invoice // keyed by source quote ID
	fail    error
}

func newFakeConverter() *fakeConverter {
	return &fakeConverter{created: make(map[id.ID]*invoice.Invoice)}
}

func (f *fakeConverter) Create(_ context.Context, doc *invoice.Invoice) error {
	if f.fail != nil {
		return f.fail
	}
	f.created[*doc.SourceQuoteID] = doc
	return nil
}

func (f *fakeConverter) GetBySourceQuote(_ context.Context, quoteID id.ID) (*invoice.Invoice, error) {
	if doc, ok := f.created[quoteID]; ok {
		return doc, nil
	}
	return nil, apperror.NewNotFound("invoice", quoteID.String())
}

func newTestService(t *testing.T) (*Service, *memRepo, *fakeConverter) {
	t.Helper()
	repo := newMemRepo()
	conv := newFakeConverter()
	svc := NewService(repo, numerator.NewMemory(), passthroughTx{}, conv)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc, repo, conv
}

func draftQuote(t *testing.T, svc *Service) *Quote {
	t.Helper()
	doc := New(id.New(), id.New())

	price := types.MustMoney("100.00")
	rate := types.MustMoney("10")
	disc := types.MustMoney("50")
	item, err := line.NewItem(doc.ID, 1, "Licence", line.Input{
		UnitPrice:     &price,
		TaxRate:       &rate,
		DiscountKind:  line.DiscountPercent,
		DiscountValue: &disc,
	})
	require.NoError(t, err)
	doc.Lines = append(doc.Lines, *item)

	require.NoError(t, svc.Create(t.Context(), doc))
	return doc
}

func TestService_Transition_SendAssignsNumber(t *testing.T) {
	svc, _, _ := newTestService(t)
	doc := draftQuote(t, svc)

	sent, err := svc.Transition(t.Context(), doc.ID, ActionSend)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, sent.Status)
	require.True(t, sent.IsNumbered())
	assert.Equal(t, 2026, *sent.Year)
	assert.Equal(t, 1, *sent.Number)
}

func TestService_Transition_AcceptRequiresSent(t *testing.T) {
	svc, _, _ := newTestService(t)
	doc := draftQuote(t, svc)

	_, err := svc.Transition(t.Context(), doc.ID, ActionAccept)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestService_Transition_ReopenedQuoteKeepsNumber(t *testing.T) {
	svc, _, _ := newTestService(t)
	doc := draftQuote(t, svc)

	sent, err := svc.Transition(t.Context(), doc.ID, ActionSend)
	require.NoError(t, err)
	number := *sent.Number

	_, err = svc.Transition(t.Context(), doc.ID, ActionReject)
	require.NoError(t, err)

	reopened, err := svc.Transition(t.Context(), doc.ID, ActionDraft)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, reopened.Status)

	resent, err := svc.Transition(t.Context(), doc.ID, ActionSend)
	require.NoError(t, err)
	assert.Equal(t, number, *resent.Number, "re-sending must not allocate a second number")
}

func TestService_Convert(t *testing.T) {
	svc, repo, conv := newTestService(t)
	doc := draftQuote(t, svc)

	_, err := svc.Transition(t.Context(), doc.ID, ActionSend)
	require.NoError(t, err)
	_, err = svc.Transition(t.Context(), doc.ID, ActionAccept)
	require.NoError(t, err)

	inv, err := svc.Convert(t.Context(), doc.ID)
	require.NoError(t, err)

	assert.Equal(t, invoice.StatusDraft, inv.Status)
	assert.False(t, inv.IsNumbered(), "converted invoice is numbered at issuance, not conversion")
	require.NotNil(t, inv.SourceQuoteID)
	assert.Equal(t, doc.ID, *inv.SourceQuoteID)
	assert.Equal(t, doc.CompanyID, inv.CompanyID)
	assert.Equal(t, doc.CustomerID, inv.CustomerID)

	require.Len(t, inv.Lines, 1)
	assert.Equal(t, "Licence", inv.Lines[0].Description)
	assert.Equal(t, inv.ID, inv.Lines[0].DocumentID)
	assert.Equal(t, "55.00", inv.Lines[0].TotalAmount.StringFixed(2))

	stored := repo.docs[doc.ID]
	assert.Equal(t, StatusConverted, stored.Status)
	assert.Contains(t, conv.created, doc.ID)
}

func TestService_Convert_RequiresAccepted(t *testing.T) {
	svc, _, _ := newTestService(t)
	doc := draftQuote(t, svc)

	_, err := svc.Convert(t.Context(), doc.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestService_Convert_IsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	doc := draftQuote(t, svc)

	_, err := svc.Transition(t.Context(), doc.ID, ActionSend)
	require.NoError(t, err)
	_, err = svc.Transition(t.Context(), doc.ID, ActionAccept)
	require.NoError(t, err)

	first, err := svc.Convert(t.Context(), doc.ID)
	require.NoError(t, err)

	second, err := svc.Convert(t.Context(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "second conversion returns the existing invoice")
}

func TestService_Convert_FailureLeavesQuoteUntouched(t *testing.T) {
	svc, repo, conv := newTestService(t)
	doc := draftQuote(t, svc)

	_, err := svc.Transition(t.Context(), doc.ID, ActionSend)
	require.NoError(t, err)
	_, err = svc.Transition(t.Context(), doc.ID, ActionAccept)
	require.NoError(t, err)

	conv.fail = apperror.NewInternal(assert.AnError)
	_, err = svc.Convert(t.Context(), doc.ID)
	require.Error(t, err)

	stored := repo.docs[doc.ID]
	assert.Equal(t, StatusAccepted, stored.Status)
}

func TestService_Transition_RejectsBareConvertAction(t *testing.T) {
	svc, _, _ := newTestService(t)
	doc := draftQuote(t, svc)

	_, err := svc.Transition(t.Context(), doc.ID, ActionConvert)
	require.Error(t, err)
}

func TestService_MarkExpired(t *testing.T) {
	svc, _, _ := newTestService(t)

	stale := New(id.New(), id.New())
	past := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	stale.DueDate = &past
	require.NoError(t, svc.Create(t.Context(), stale))
	_, err := svc.Transition(t.Context(), stale.ID, ActionSend)
	require.NoError(t, err)

	marked, err := svc.MarkExpired(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	got, err := svc.GetByID(t.Context(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, got.Status)
}
