package entity

import (
	"context"
	"time"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/core/types"
)

// Document is the base type for commercial documents (quotes, invoices).
// Status is owned by the concrete document type; the base carries identity,
// numbering, dates, currency and the cached totals.
type Document struct {
	BaseDocument

	// CompanyID is the issuing company (required)
	CompanyID id.ID `db:"company_id" json:"companyId"`

	// CustomerID is the receiving customer (required)
	CustomerID id.ID `db:"customer_id" json:"customerId"`

	// Year and Number are nil until first issuance, then immutable for the
	// life of the document. The pair is unique within (company, doc type).
	Year   *int `db:"doc_year" json:"year,omitempty"`
	Number *int `db:"doc_number" json:"number,omitempty"`

	// IssueDate is defaulted at issuance when absent
	IssueDate *time.Time `db:"issue_date" json:"issueDate,omitempty"`

	// DueDate is the payment due date (invoices) or validity end (quotes)
	DueDate *time.Time `db:"due_date" json:"dueDate,omitempty"`

	// Currency is an ISO 4217 code
	Currency string `db:"currency" json:"currency"`

	// Title is a short free-text heading
	Title string `db:"title" json:"title,omitempty"`

	// Notes is free-form text printed on the document
	Notes string `db:"notes" json:"notes,omitempty"`

	// Cached aggregates. Always recomputed from line items before any read
	// or persist - never an independent source of truth.
	SubtotalAmount types.Money `db:"subtotal_amount" json:"subtotalAmount"`
	TaxAmount      types.Money `db:"tax_amount" json:"taxAmount"`
	TotalAmount    types.Money `db:"total_amount" json:"totalAmount"`
}

// DefaultCurrency used when a document is created without one.
const DefaultCurrency = "EUR"

// NewDocument creates a new Document with generated ID.
func NewDocument(companyID, customerID id.ID) Document {
	return Document{
		BaseDocument:   NewBaseDocument(),
		CompanyID:      companyID,
		CustomerID:     customerID,
		Currency:       DefaultCurrency,
		SubtotalAmount: types.Zero(),
		TaxAmount:      types.Zero(),
		TotalAmount:    types.Zero(),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if id.IsNil(d.CompanyID) {
		return apperror.NewFieldValidation("companyId", "company is required")
	}

	if id.IsNil(d.CustomerID) {
		return apperror.NewFieldValidation("customerId", "customer is required")
	}

	if len(d.Currency) != 3 {
		return apperror.NewFieldValidation("currency", "currency must be a 3-letter code")
	}

	return nil
}

// IsNumbered reports whether the year/number pair has been assigned.
func (d *Document) IsNumbered() bool {
	return d.Year != nil && d.Number != nil
}

// AssignNumber sets the year/number pair exactly once.
// The pair never changes afterwards, across any further status transition.
func (d *Document) AssignNumber(year, number int) error {
	if d.IsNumbered() {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"document number is already assigned",
		).WithDetail("year", *d.Year).WithDetail("number", *d.Number)
	}
	d.Year = &year
	d.Number = &number
	return nil
}

// ApplyTotals stores freshly computed aggregates on the document.
// Callers must only pass values produced by the line aggregator.
func (d *Document) ApplyTotals(subtotal, tax, total types.Money) {
	d.SubtotalAmount = subtotal
	d.TaxAmount = tax
	d.TotalAmount = total
}

// DefaultIssueDate sets the issue date if absent. Used by the
// draft-to-issued transition, the only place issue dates are defaulted.
func (d *Document) DefaultIssueDate(now time.Time) {
	if d.IssueDate == nil {
		day := now.UTC().Truncate(24 * time.Hour)
		d.IssueDate = &day
	}
}
