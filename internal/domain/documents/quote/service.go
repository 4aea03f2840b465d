package quote

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
	"fakturo/internal/domain/documents/invoice"
	"fakturo/internal/domain/documents/line"
	"fakturo/pkg/logger"
)

// InvoiceConverter is the slice of the invoice service the quote
// conversion needs.
type InvoiceConverter interface {
	Create(ctx context.Context, doc *invoice.Invoice) error
	GetBySourceQuote(ctx context.Context, quoteID id.ID) (*invoice.Invoice, error)
}

// Archiver stores an immutable copy of a document at a lifecycle event.
type Archiver interface {
	SaveSnapshot(ctx context.Context, docType string, docID id.ID, reason string, doc any) error
}

// Service provides business operations for quotes.
type Service struct {
	repo      Repository
	allocator numerator.Allocator
	txManager tx.Manager
	invoices  InvoiceConverter
	archiver  Archiver

	// now is the clock used to default issue dates; replaceable in tests
	now func() time.Time
}

// NewService creates a new quote service.
func NewService(repo Repository, allocator numerator.Allocator, txManager tx.Manager, invoices InvoiceConverter) *Service {
	return &Service{
		repo:      repo,
		allocator: allocator,
		txManager: txManager,
		invoices:  invoices,
		now:       time.Now,
	}
}

// WithArchiver enables send snapshots.
func (s *Service) WithArchiver(a Archiver) *Service {
	s.archiver = a
	return s
}

// Create creates a new draft quote with its lines.
func (s *Service) Create(ctx context.Context, doc *Quote) error {
	if doc.Status == "" {
		doc.Status = StatusDraft
	}
	if doc.Status != StatusDraft {
		return apperror.NewFieldValidation("status", "quote must be created in draft")
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
			return fmt.Errorf("create quote: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "quote created", "id", doc.ID, "company_id", doc.CompanyID)
	return nil
}

// GetByID retrieves a quote with lines, totals freshly recomputed.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Quote, error) {
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

// Update replaces the mutable fields and lines of a draft quote.
// Status, year and number are never writable through Update.
func (s *Service) Update(ctx context.Context, doc *Quote) error {
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
			return fmt.Errorf("update quote: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// Delete soft-deletes a draft quote.
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

// Transition applies a lifecycle action to the quote. Sending allocates
// the document number inside the same transaction, mirroring invoice
// issuance. Conversion goes through Convert, which also creates the
// invoice; a bare convert action is rejected here.
func (s *Service) Transition(ctx context.Context, docID id.ID, action Action) (*Quote, error) {
	if action == ActionConvert {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"conversion must go through the convert operation")
	}

	var doc *Quote

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		next, err := Next(d.Status, action)
		if err != nil {
			return err
		}

		if d.Status == StatusDraft && next == StatusSent {
			if err := s.send(ctx, d); err != nil {
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
			return fmt.Errorf("update quote status: %w", err)
		}

		if wasDraft && next == StatusSent && s.archiver != nil {
			lines, err := s.repo.GetLines(ctx, d.ID)
			if err != nil {
				return fmt.Errorf("load lines for snapshot: %w", err)
			}
			d.Lines = lines
			if err := s.archiver.SaveSnapshot(ctx, DocumentType, d.ID, "send", d); err != nil {
				return fmt.Errorf("archive sent quote: %w", err)
			}
		}

		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quote transition applied",
		"id", doc.ID, "action", action, "status", doc.Status)
	return doc, nil
}

// send performs the draft-to-sent side effects: default the issue date
// and allocate the document number. A reopened quote that was already
// numbered keeps its number on re-send.
func (s *Service) send(ctx context.Context, doc *Quote) error {
	doc.DefaultIssueDate(s.now())
	year := doc.IssueDate.Year()

	if doc.IsNumbered() {
		return nil
	}

	number, err := s.allocator.Next(ctx, numerator.Scope{
		CompanyID: doc.CompanyID,
		DocType:   numerator.DocTypeQuote,
		Year:      year,
	})
	if err != nil {
		return fmt.Errorf("allocate quote number: %w", err)
	}
	return doc.AssignNumber(year, number)
}

// Convert turns an accepted quote into a draft invoice. The invoice
// copies customer, currency, title, notes and all lines; it gets its own
// number later, at issuance. Quote status change and invoice creation
// commit atomically. Converting an already converted quote returns the
// existing invoice.
func (s *Service) Convert(ctx context.Context, quoteID id.ID) (*invoice.Invoice, error) {
	var inv *invoice.Invoice

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		q, err := s.repo.GetForUpdate(ctx, quoteID)
		if err != nil {
			return err
		}

		if q.Status == StatusConverted {
			existing, err := s.invoices.GetBySourceQuote(ctx, quoteID)
			if err != nil {
				return err
			}
			inv = existing
			return nil
		}

		next, err := Next(q.Status, ActionConvert)
		if err != nil {
			return err
		}

		lines, err := s.repo.GetLines(ctx, quoteID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}

		draft := invoice.New(q.CompanyID, q.CustomerID)
		draft.Currency = q.Currency
		draft.Title = q.Title
		draft.Notes = q.Notes
		srcID := q.ID
		draft.SourceQuoteID = &srcID

		draft.Lines, err = copyLines(draft.ID, lines)
		if err != nil {
			return err
		}

		if err := s.invoices.Create(ctx, draft); err != nil {
			return fmt.Errorf("create invoice from quote: %w", err)
		}

		q.Status = next
		if err := s.repo.Update(ctx, q); err != nil {
			return fmt.Errorf("update quote status: %w", err)
		}

		inv = draft
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quote converted", "quote_id", quoteID, "invoice_id", inv.ID)
	return inv, nil
}

// copyLines clones quote lines onto a new invoice, keeping positions
// and inputs but assigning fresh line identities.
func copyLines(invoiceID id.ID, lines []line.Item) ([]line.Item, error) {
	out := make([]line.Item, 0, len(lines))
	for i := range lines {
		src := &lines[i]
		item, err := line.NewItem(invoiceID, src.Position, src.Description, line.Input{
			Quantity:      &src.Quantity,
			UnitPrice:     &src.UnitPrice,
			TaxRate:       &src.TaxRate,
			DiscountKind:  src.DiscountKind,
			DiscountValue: &src.DiscountValue,
		})
		if err != nil {
			return nil, err
		}
		item.Unit = src.Unit
		item.Notes = src.Notes
		out = append(out, *item)
	}
	return out, nil
}

// MarkExpired transitions every sent quote whose validity has ended.
// Invoked periodically by the background worker.
func (s *Service) MarkExpired(ctx context.Context) (int, error) {
	ids, err := s.repo.ListExpiredIDs(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("list expired candidates: %w", err)
	}

	marked := 0
	for _, docID := range ids {
		if _, err := s.Transition(ctx, docID, ActionExpire); err != nil {
			logger.Warn(ctx, "expiration marking failed", "id", docID, "error", err)
			continue
		}
		marked++
	}
	return marked, nil
}

// List retrieves quotes with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Quote], error) {
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
