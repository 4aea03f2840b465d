package invoice

import (
	"context"
	"fmt"
	"time"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/core/numerator"
	"fakturo/internal/core/tx"
	"fakturo/internal/domain"
	"fakturo/internal/domain/audit"
	"fakturo/internal/domain/documents/line"
	"fakturo/pkg/logger"
)

// Archiver stores an immutable copy of a document at a lifecycle event.
type Archiver interface {
	SaveSnapshot(ctx context.Context, docType string, docID id.ID, reason string, doc any) error
}

// Service provides business operations for invoices.
type Service struct {
	repo      Repository
	allocator numerator.Allocator
	txManager tx.Manager
	archiver  Archiver

	// now is the clock used to default issue dates; replaceable in tests
	now func() time.Time
}

// NewService creates a new invoice service.
func NewService(repo Repository, allocator numerator.Allocator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		allocator: allocator,
		txManager: txManager,
		now:       time.Now,
	}
}

// WithArchiver enables issuance snapshots.
func (s *Service) WithArchiver(a Archiver) *Service {
	s.archiver = a
	return s
}

// Create creates a new draft invoice with its lines.
// Numbering is NOT assigned here; numbers exist only from issuance on.
func (s *Service) Create(ctx context.Context, doc *Invoice) error {
	if doc.Status == "" {
		doc.Status = StatusDraft
	}
	if doc.Status != StatusDraft {
		return apperror.NewFieldValidation("status", "invoice must be created in draft")
	}

	if err := doc.RecalculateTotals(); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	audit.StampCreated(ctx, &doc.CreatedBy, &doc.UpdatedBy)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "invoice created", "id", doc.ID, "company_id", doc.CompanyID)
	return nil
}

// GetByID retrieves an invoice with lines. Totals are recomputed before
// the document is returned; the stored aggregates are only a cache.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	if err := doc.RecalculateTotals(); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetBySourceQuote retrieves the invoice created from a quote conversion.
func (s *Service) GetBySourceQuote(ctx context.Context, quoteID id.ID) (*Invoice, error) {
	doc, err := s.repo.GetBySourceQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, doc.ID)
}

// Update replaces the mutable fields and lines of a draft invoice.
// Status, year and number are never writable through Update.
func (s *Service) Update(ctx context.Context, doc *Invoice) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.repo.GetForUpdate(ctx, doc.ID)
		if err != nil {
			return err
		}
		if err := stored.CanModify(); err != nil {
			return err
		}

		doc.Status = stored.Status
		doc.Year = stored.Year
		doc.Number = stored.Number

		if err := doc.RecalculateTotals(); err != nil {
			return err
		}
		if err := doc.Validate(ctx); err != nil {
			return err
		}
		audit.StampUpdated(ctx, &doc.UpdatedBy)

		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// Delete soft-deletes a draft invoice. Issued documents are archived
// through the lifecycle instead of deleted.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if err := doc.CanModify(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, docID)
}

// Transition applies a lifecycle action to the invoice.
//
// The document row is locked for the duration, so concurrent transitions
// on the same invoice serialize. Issuing allocates the document number
// inside the same transaction; a rollback releases neither a partial
// status change nor a dangling counter increment.
func (s *Service) Transition(ctx context.Context, docID id.ID, action Action) (*Invoice, error) {
	var doc *Invoice

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		next, err := Next(d.Status, action)
		if err != nil {
			return err
		}

		if d.Status == StatusDraft && next == StatusIssued {
			if err := s.issue(ctx, d); err != nil {
				return err
			}
		}

		if next == d.Status {
			// Idempotent re-entry: a success that changes nothing.
			doc = d
			return nil
		}

		wasDraft := d.Status == StatusDraft
		d.Status = next
		if err := s.repo.Update(ctx, d); err != nil {
			return fmt.Errorf("update invoice status: %w", err)
		}

		if wasDraft && next == StatusIssued && s.archiver != nil {
			lines, err := s.repo.GetLines(ctx, d.ID)
			if err != nil {
				return fmt.Errorf("load lines for snapshot: %w", err)
			}
			d.Lines = lines
			if err := s.archiver.SaveSnapshot(ctx, DocumentType, d.ID, "issue", d); err != nil {
				return fmt.Errorf("archive issued invoice: %w", err)
			}
		}

		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice transition applied",
		"id", doc.ID, "action", action, "status", doc.Status)
	return doc, nil
}

// issue performs the draft-to-issued side effects: default the issue
// date and allocate the document number. This is the only code path
// that touches the allocator or the issue date default.
func (s *Service) issue(ctx context.Context, doc *Invoice) error {
	doc.DefaultIssueDate(s.now())
	year := doc.IssueDate.Year()

	if doc.IsNumbered() {
		return nil
	}

	number, err := s.allocator.Next(ctx, numerator.Scope{
		CompanyID: doc.CompanyID,
		DocType:   numerator.DocTypeInvoice,
		Year:      year,
	})
	if err != nil {
		return fmt.Errorf("allocate invoice number: %w", err)
	}
	return doc.AssignNumber(year, number)
}

// MarkOverdue transitions every issued invoice whose due date has passed.
// Invoked periodically by the background worker. Each invoice moves in
// its own transaction; one failure does not block the rest.
func (s *Service) MarkOverdue(ctx context.Context) (int, error) {
	ids, err := s.repo.ListOverdueIDs(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("list overdue candidates: %w", err)
	}

	marked := 0
	for _, docID := range ids {
		if _, err := s.Transition(ctx, docID, ActionOverdue); err != nil {
			logger.Warn(ctx, "overdue marking failed", "id", docID, "error", err)
			continue
		}
		marked++
	}
	return marked, nil
}

// List retrieves invoices with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, filter)
}

// BuildLines constructs line items from raw inputs, assigning positions
// in input order starting at 1.
func BuildLines(docID id.ID, inputs []LineInput) ([]line.Item, error) {
	items := make([]line.Item, 0, len(inputs))
	for i, in := range inputs {
		item, err := line.NewItem(docID, i+1, in.Description, in.Input)
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return nil, appErr.WithDetail("lineNo", i+1)
			}
			return nil, err
		}
		item.Unit = in.Unit
		item.Notes = in.Notes
		items = append(items, *item)
	}
	return items, nil
}

// LineInput carries one raw line for BuildLines.
type LineInput struct {
	Description string
	Unit        string
	Notes       string
	line.Input
}
