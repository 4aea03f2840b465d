package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"fakturo/internal/core/id"
	"fakturo/internal/core/numerator"
	"fakturo/internal/domain/documents/quote"
)

// quoteNumberConfig renders sent quote numbers as QUO-YEAR-XXXXX.
var quoteNumberConfig = numerator.DefaultConfig("QUO")

// --- Request DTOs ---

// CreateQuoteRequest is the request body for creating a draft quote.
// ValidUntil maps to the document's due date.
type CreateQuoteRequest struct {
	CompanyID  string        `json:"companyId" binding:"required,uuid"`
	CustomerID string        `json:"customerId" binding:"required,uuid"`
	Currency   string        `json:"currency"`
	Title      string        `json:"title"`
	Notes      string        `json:"notes"`
	IssueDate  *time.Time    `json:"issueDate"`
	ValidUntil *time.Time    `json:"validUntil"`
	Lines      []LineRequest `json:"lines"`
}

// ToEntity converts DTO to a draft quote with computed lines.
func (r *CreateQuoteRequest) ToEntity() (*quote.Quote, error) {
	companyID, err := id.Parse(r.CompanyID)
	if err != nil {
		return nil, err
	}
	customerID, err := id.Parse(r.CustomerID)
	if err != nil {
		return nil, err
	}

	doc := quote.New(companyID, customerID)
	if r.Currency != "" {
		doc.Currency = r.Currency
	}
	doc.Title = r.Title
	doc.Notes = r.Notes
	doc.IssueDate = r.IssueDate
	doc.DueDate = r.ValidUntil

	doc.Lines, err = quote.BuildLines(doc.ID, toQuoteLineInputs(r.Lines))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateQuoteRequest is the request body for updating a draft quote.
// Lines replace the stored table part entirely.
type UpdateQuoteRequest struct {
	CustomerID string        `json:"customerId" binding:"required,uuid"`
	Currency   string        `json:"currency"`
	Title      string        `json:"title"`
	Notes      string        `json:"notes"`
	IssueDate  *time.Time    `json:"issueDate"`
	ValidUntil *time.Time    `json:"validUntil"`
	Lines      []LineRequest `json:"lines"`
	Version    int           `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity, rebuilding lines.
func (r *UpdateQuoteRequest) ApplyTo(doc *quote.Quote) error {
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
	doc.DueDate = r.ValidUntil
	doc.Version = r.Version

	doc.Lines, err = quote.BuildLines(doc.ID, toQuoteLineInputs(r.Lines))
	return err
}

func toQuoteLineInputs(lines []LineRequest) []quote.LineInput {
	inputs := make([]quote.LineInput, 0, len(lines))
	for i := range lines {
		l := &lines[i]
		inputs = append(inputs, quote.LineInput{
			Description: l.Description,
			Unit:        l.Unit,
			Notes:       l.Notes,
			Input:       l.ToInput(),
		})
	}
	return inputs
}

// --- Response DTOs ---

// QuoteResponse is the response body for a quote.
type QuoteResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`

	CompanyID  string `json:"companyId"`
	CustomerID string `json:"customerId"`

	Year   *int `json:"year,omitempty"`
	Number *int `json:"number,omitempty"`

	// DisplayNumber is the formatted document number (e.g. QUO-2026-00007);
	// absent until the quote is sent.
	DisplayNumber *string `json:"displayNumber,omitempty"`

	IssueDate  *time.Time `json:"issueDate,omitempty"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`

	Currency string `json:"currency"`
	Title    string `json:"title,omitempty"`
	Notes    string `json:"notes,omitempty"`

	SubtotalAmount decimal.Decimal `json:"subtotalAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`

	Lines []LineResponse `json:"lines"`

	DeletionMark bool      `json:"deletionMark"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FromQuote creates response DTO from domain entity.
func FromQuote(doc *quote.Quote) *QuoteResponse {
	resp := &QuoteResponse{
		ID:             doc.ID.String(),
		Status:         string(doc.Status),
		CompanyID:      doc.CompanyID.String(),
		CustomerID:     doc.CustomerID.String(),
		Year:           doc.Year,
		Number:         doc.Number,
		IssueDate:      doc.IssueDate,
		ValidUntil:     doc.DueDate,
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
	if doc.Year != nil && doc.Number != nil {
		display := numerator.Format(quoteNumberConfig, *doc.Year, *doc.Number)
		resp.DisplayNumber = &display
	}
	return resp
}
