package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"

	"fakturo/internal/core/id"
	"fakturo/pkg/logger"
)

const timestampLayout = "20060102_150405"

// Document is one archived payload included in a company backup.
type Document struct {
	DocumentType string
	DocumentID   id.ID
	Reason       string
	Payload      []byte
	CreatedAt    time.Time
}

// SnapshotSource lists the stored document copies belonging to a company.
type SnapshotSource interface {
	ListCompanyDocuments(ctx context.Context, companyID id.ID) ([]Document, error)
}

// Service builds zip archives of a company's stored documents under
// <storageRoot>/backup/<companyID>/.
type Service struct {
	snapshots SnapshotSource
	root      string

	// now is the clock used for archive timestamps; replaceable in tests
	now func() time.Time
}

// NewService creates a new backup service.
func NewService(snapshots SnapshotSource, storageRoot string) *Service {
	return &Service{
		snapshots: snapshots,
		root:      filepath.Clean(storageRoot),
		now:       time.Now,
	}
}

// BackupCompany writes one zip archive holding every stored document of
// the company. A company with no stored documents produces no archive
// and an empty path, not an error.
func (s *Service) BackupCompany(ctx context.Context, companyID id.ID) (string, error) {
	if id.IsNil(companyID) {
		return "", fmt.Errorf("backup: company is required")
	}

	docs, err := s.snapshots.ListCompanyDocuments(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("list company documents: %w", err)
	}
	if len(docs) == 0 {
		logger.Info(ctx, "no stored documents to back up", "company_id", companyID)
		return "", nil
	}

	outputDir := filepath.Join(s.root, "backup", companyID.String())
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := "backup_" + s.now().Format(timestampLayout) + ".zip"
	outputFile := filepath.Join(outputDir, name)

	files, err := writeArchive(outputFile, docs)
	if err != nil {
		return "", fmt.Errorf("backup company %s: %w", companyID, err)
	}

	logger.Info(ctx, "company backup completed",
		"company_id", companyID, "files", files, "output", outputFile)
	return outputFile, nil
}

// writeArchive writes one JSON entry per document, grouped by type.
func writeArchive(path string, docs []Document) (int, error) {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}

	zw := zip.NewWriter(out)
	for i := range docs {
		doc := &docs[i]
		entry, err := zw.Create(entryName(doc))
		if err != nil {
			out.Close()
			return 0, fmt.Errorf("add entry: %w", err)
		}
		if _, err := entry.Write(doc.Payload); err != nil {
			out.Close()
			return 0, fmt.Errorf("write entry: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		out.Close()
		return 0, fmt.Errorf("finish archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("close archive: %w", err)
	}
	return len(docs), nil
}

func entryName(doc *Document) string {
	ts := doc.CreatedAt.UTC().Format(timestampLayout)
	return fmt.Sprintf("%s/%s_%s_%s.json", doc.DocumentType, doc.DocumentID, doc.Reason, ts)
}
