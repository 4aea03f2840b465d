package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"fakturo/internal/core/id"
	"fakturo/internal/core/numerator"
	"fakturo/internal/domain/documents/invoice"
)

// invoiceNumberConfig renders issued invoice numbers as INV-YEAR-XXXXX.
var invoiceNumberConfig = numerator.DefaultConfig("INV")

// --- Request DTOs ---

// CreateInvoiceRequest is the request body for creating a draft invoice.
type CreateInvoiceRequest struct {
	CompanyID  string        `json:"companyId" binding:"required,uuid"`
	CustomerID string        `json:"customerId" binding:"required,uuid"`
	Currency   string        `json:"currency"`
	Title      string        `json:"title"`
	Notes      string        `json:"notes"`
	IssueDate  *time.Time    `json:"issueDate"`
	DueDate    *time.Time    `json:"dueDate"`
	Lines      []LineRequest `json:"lines"`
}

// ToEntity converts DTO to a draft invoice with computed lines.
func (r *CreateInvoiceRequest) ToEntity() (*invoice.Invoice, error) {
	companyID, err := id.Parse(r.CompanyID)
	if err != nil {
		return nil, err
	}
	customerID, err := id.Parse(r.CustomerID)
	if err != nil {
		return nil, err
	}

	doc := invoice.New(companyID, customerID)
	if r.Currency != "" {
		doc.Currency = r.Currency
	}
	doc.Title = r.Title
	doc.Notes = r.Notes
	doc.IssueDate = r.IssueDate
	doc.DueDate = r.DueDate

	doc.Lines, err = invoice.BuildLines(doc.ID, toInvoiceLineInputs(r.Lines))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateInvoiceRequest is the request body for updating a draft invoice.
// Lines replace the stored table part entirely.
type UpdateInvoiceRequest struct {
	CustomerID string        `json:"customerId" binding:"required,uuid"`
	Currency   string        `json:"currency"`
	Title      string        `json:"title"`
	Notes      string        `json:"notes"`
	IssueDate  *time.Time    `json:"issueDate"`
	DueDate    *time.Time    `json:"dueDate"`
	Lines      []LineRequest `json:"lines"`
	Version    int           `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity, rebuilding lines.
func (r *UpdateInvoiceRequest) ApplyTo(doc *invoice.Invoice) error {
	customerID, err := id.Parse(r.CustomerID)
	if err != nil {
		return err
	}

	doc.CustomerID = customerID
	if r.Currency != "" {
		doc.Currency = r.Currency
	}
	doc.Title = r.Title
	doc.Notes = r.Notes
	doc.IssueDate = r.IssueDate
	doc.DueDate = r.DueDate
	doc.Version = r.Version

	doc.Lines, err = invoice.BuildLines(doc.ID, toInvoiceLineInputs(r.Lines))
	return err
}

// TransitionRequest names the lifecycle action to apply.
type TransitionRequest struct {
	Action string `json:"action" binding:"required"`
}

func toInvoiceLineInputs(lines []LineRequest) []invoice.LineInput {
	inputs := make([]invoice.LineInput, 0, len(lines))
	for i := range lines {
		l := &lines[i]
		inputs = append(inputs, invoice.LineInput{
			Description: l.Description,
			Unit:        l.Unit,
			Notes:       l.Notes,
			Input:       l.ToInput(),
		})
	}
	return inputs
}

// --- Response DTOs ---

// InvoiceResponse is the response body for an invoice.
type InvoiceResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`

	CompanyID  string `json:"companyId"`
	CustomerID string `json:"customerId"`

	Year   *int `json:"year,omitempty"`
	Number *int `json:"number,omitempty"`

	// DisplayNumber is the formatted document number (e.g. INV-2026-00042);
	// absent until the invoice is issued.
	DisplayNumber *string `json:"displayNumber,omitempty"`

	IssueDate *time.Time `json:"issueDate,omitempty"`
	DueDate   *time.Time `json:"dueDate,omitempty"`

	Currency string `json:"currency"`
	Title    string `json:"title,omitempty"`
	Notes    string `json:"notes,omitempty"`

	SubtotalAmount decimal.Decimal `json:"subtotalAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`

	SourceQuoteID *string `json:"sourceQuoteId,omitempty"`

	Lines []LineResponse `json:"lines"`

	DeletionMark bool      `json:"deletionMark"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FromInvoice creates response DTO from domain entity.
func FromInvoice(doc *invoice.Invoice) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:             doc.ID.String(),
		Status:         string(doc.Status),
		CompanyID:      doc.CompanyID.String(),
		CustomerID:     doc.CustomerID.String(),
		Year:           doc.Year,
		Number:         doc.Number,
		IssueDate:      doc.IssueDate,
		DueDate:        doc.DueDate,
		Currency:       doc.Currency,
		Title:          doc.Title,
		Notes:          doc.Notes,
		SubtotalAmount: doc.SubtotalAmount,
		TaxAmount:      doc.TaxAmount,
		TotalAmount:    doc.TotalAmount,
		Lines:          FromLines(doc.Lines),
		DeletionMark:   doc.DeletionMark,
		Version:        doc.Version,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
	if doc.SourceQuoteID != nil {
		s := doc.SourceQuoteID.String()
		resp.SourceQuoteID = &s
	}
	if doc.Year != nil && doc.Number != nil {
		display := numerator.Format(invoiceNumberConfig, *doc.Year, *doc.Number)
		resp.DisplayNumber = &display
	}
	return resp
}
