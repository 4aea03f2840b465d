package backup

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/id"
)

type stubSnapshotSource struct {
	mu   sync.Mutex
	docs map[id.ID][]Document
	err  error

	calls []id.ID
}

func (s *stubSnapshotSource) ListCompanyDocuments(_ context.Context, companyID id.ID) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, companyID)
	if s.err != nil {
		return nil, s.err
	}
	return s.docs[companyID], nil
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
}

func TestService_BackupCompany_WritesArchive(t *testing.T) {
	companyID := id.New()
	invoiceID := id.New()
	quoteID := id.New()
	created := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

	source := &stubSnapshotSource{docs: map[id.ID][]Document{
		companyID: {
			{
				DocumentType: "invoice",
				DocumentID:   invoiceID,
				Reason:       "issue",
				Payload:      []byte(`{"totalAmount":"24.40"}`),
				CreatedAt:    created,
			},
			{
				DocumentType: "quote",
				DocumentID:   quoteID,
				Reason:       "send",
				Payload:      []byte(`{"totalAmount":"55.00"}`),
				CreatedAt:    created,
			},
		},
	}}

	root := t.TempDir()
	svc := NewService(source, root)
	svc.now = fixedClock

	path, err := svc.BackupCompany(context.Background(), companyID)
	require.NoError(t, err)

	wantPath := filepath.Join(root, "backup", companyID.String(), "backup_20260315_103000.zip")
	assert.Equal(t, wantPath, path)

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	require.Len(t, reader.File, 2)

	entries := map[string][]byte{}
	for _, f := range reader.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		entries[f.Name] = data
	}

	invoiceEntry := fmt.Sprintf("invoice/%s_issue_20260102_090000.json", invoiceID)
	require.Contains(t, entries, invoiceEntry)
	assert.Equal(t, `{"totalAmount":"24.40"}`, string(entries[invoiceEntry]))

	quoteEntry := fmt.Sprintf("quote/%s_send_20260102_090000.json", quoteID)
	assert.Contains(t, entries, quoteEntry)
}

func TestService_BackupCompany_NoDocumentsNoArchive(t *testing.T) {
	source := &stubSnapshotSource{docs: map[id.ID][]Document{}}
	svc := NewService(source, t.TempDir())

	path, err := svc.BackupCompany(context.Background(), id.New())

	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestService_BackupCompany_RequiresCompany(t *testing.T) {
	svc := NewService(&stubSnapshotSource{}, t.TempDir())

	_, err := svc.BackupCompany(context.Background(), id.Nil())

	require.Error(t, err)
}

type stubCompanySource struct {
	ids []id.ID
}

func (s *stubCompanySource) ListActiveIDs(context.Context) ([]id.ID, error) {
	return s.ids, nil
}

func TestScheduler_RunOnce_BacksUpEveryCompany(t *testing.T) {
	companies := []id.ID{id.New(), id.New(), id.New()}
	docs := map[id.ID][]Document{}
	for _, companyID := range companies {
		docs[companyID] = []Document{{
			DocumentType: "invoice",
			DocumentID:   id.New(),
			Reason:       "issue",
			Payload:      []byte(`{}`),
			CreatedAt:    fixedClock(),
		}}
	}

	source := &stubSnapshotSource{docs: docs}
	svc := NewService(source, t.TempDir())
	scheduler := NewScheduler(&stubCompanySource{ids: companies}, svc)

	require.NoError(t, scheduler.RunOnce(context.Background()))

	source.mu.Lock()
	defer source.mu.Unlock()
	assert.ElementsMatch(t, companies, source.calls)
}

func TestScheduler_RunOnce_EmptyCompanyListIsNoop(t *testing.T) {
	scheduler := NewScheduler(&stubCompanySource{}, NewService(&stubSnapshotSource{}, t.TempDir()))
	require.NoError(t, scheduler.RunOnce(context.Background()))
}

func TestWorkerCount_Bounds(t *testing.T) {
	assert.Equal(t, 1, workerCount(1))
	assert.Equal(t, 1, workerCount(9))
	assert.Equal(t, 2, workerCount(25))
	assert.Equal(t, 10, workerCount(500))
}
