// Package postgres provides PostgreSQL infrastructure components.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "fakturo/internal/core/context"
	"fakturo/internal/core/id"
	"fakturo/internal/domain/backup"
)

// SnapshotReason describes the lifecycle event that produced a snapshot.
type SnapshotReason string

const (
	SnapshotReasonIssue   SnapshotReason = "issue"
	SnapshotReasonSend    SnapshotReason = "send"
	SnapshotReasonConvert SnapshotReason = "convert"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// Snapshot is an immutable copy of a document taken at a lifecycle event.
// Issued documents may later change status but never content; the snapshot
// preserves the exact payload as of issuance for audit and reprint.
type Snapshot struct {
	ID                id.ID           `db:"id"`
	DocumentType      string          `db:"document_type"`
	DocumentID        id.ID           `db:"document_id"`
	Reason            SnapshotReason  `db:"reason"`
	UserID            string          `db:"user_id"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// SnapshotService stores and retrieves document snapshots.
type SnapshotService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// NewSnapshotService creates a new snapshot service.
func NewSnapshotService(txManager *TxManager) (*SnapshotService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &SnapshotService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// SaveSnapshot marshals the document and stores it, compressing large payloads.
// Runs on the caller's transaction so the snapshot shares the fate of the
// transition that produced it.
func (s *SnapshotService) SaveSnapshot(ctx context.Context, docType string, docID id.ID, reason string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal snapshot payload: %w", err)
	}

	entry := Snapshot{
		ID:              id.New(),
		DocumentType:    docType,
		DocumentID:      docID,
		Reason:          SnapshotReason(reason),
		UserID:          appctx.GetUserID(ctx),
		Payload:         payload,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}

	if len(entry.Payload) > s.compressThreshold {
		entry.PayloadCompressed = s.encoder.EncodeAll(entry.Payload, nil)
		entry.Payload = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO doc_snapshots (
			id, document_type, document_id, reason, user_id,
			payload, payload_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql,
		entry.ID, entry.DocumentType, entry.DocumentID, entry.Reason, entry.UserID,
		entry.Payload, entry.PayloadCompressed, entry.CompressionAlgo, entry.CreatedAt,
	)

	return err
}

// GetHistory retrieves snapshots for a document, newest first.
func (s *SnapshotService) GetHistory(ctx context.Context, docType string, docID id.ID, limit int) ([]Snapshot, error) {
	sql := `
		SELECT id, document_type, document_id, reason, user_id,
			   payload, payload_compressed, compression_algo, created_at
		FROM doc_snapshots
		WHERE document_type = $1 AND document_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, docType, docID, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var entries []Snapshot
	for rows.Next() {
		var e Snapshot
		err := rows.Scan(
			&e.ID, &e.DocumentType, &e.DocumentID, &e.Reason, &e.UserID,
			&e.Payload, &e.PayloadCompressed, &e.CompressionAlgo, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.PayloadCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(e.PayloadCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress payload: %w", err)
			}
			e.Payload = decompressed
			e.PayloadCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// ListCompanyDocuments returns every stored snapshot for the company's
// invoices and quotes, decompressed, oldest first. Feeds the backup
// archive builder.
func (s *SnapshotService) ListCompanyDocuments(ctx context.Context, companyID id.ID) ([]backup.Document, error) {
	sql := `
		SELECT document_type, document_id, reason,
			   payload, payload_compressed, compression_algo, created_at
		FROM doc_snapshots
		WHERE document_id IN (
			SELECT id FROM doc_invoices WHERE company_id = $1
			UNION
			SELECT id FROM doc_quotes WHERE company_id = $1
		)
		ORDER BY created_at
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, companyID)
	if err != nil {
		return nil, fmt.Errorf("query company snapshots: %w", err)
	}
	defer rows.Close()

	var docs []backup.Document
	for rows.Next() {
		var (
			doc        backup.Document
			compressed []byte
			algo       CompressionAlgo
		)
		err := rows.Scan(
			&doc.DocumentType, &doc.DocumentID, &doc.Reason,
			&doc.Payload, &compressed, &algo, &doc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan company snapshot: %w", err)
		}

		if algo == CompressionZstd && len(compressed) > 0 {
			doc.Payload, err = s.decoder.DecodeAll(compressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress payload: %w", err)
			}
		}

		docs = append(docs, doc)
	}

	return docs, rows.Err()
}
