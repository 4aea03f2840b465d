// Package reports provides dashboard and journal report services.
package reports

import (
	"time"

	"fakturo/internal/core/id"
	"fakturo/internal/core/types"
)

// --- Dashboard ---

// DashboardFilter defines the scope of the dashboard report.
type DashboardFilter struct {
	// CompanyID scopes the dashboard to one issuing company (required)
	CompanyID id.ID

	// Year limits to one numbering year; zero means all years
	Year int
}

// StatusSummary is a per-status count and amount aggregate.
type StatusSummary struct {
	Status      string      `json:"status"`
	Count       int         `json:"count"`
	TotalAmount types.Money `json:"totalAmount"`
}

// Dashboard summarizes a company's documents by status.
type Dashboard struct {
	CompanyID id.ID `json:"companyId"`
	Year      int   `json:"year,omitempty"`

	Invoices []StatusSummary `json:"invoices"`
	Quotes   []StatusSummary `json:"quotes"`

	// OpenAmount is the sum of issued plus overdue invoice totals
	OpenAmount types.Money `json:"openAmount"`

	// OverdueCount is the number of overdue invoices
	OverdueCount int `json:"overdueCount"`
}

// --- Document Journal ---

// JournalFilter defines filter for the cross-type document journal.
type JournalFilter struct {
	CompanyID id.ID

	// Period over issue dates
	FromDate *time.Time
	ToDate   *time.Time

	// DocumentTypes filter ("invoice", "quote"); empty means both
	DocumentTypes []string

	// Statuses filter; empty means all
	Statuses []string

	CustomerIDs []id.ID

	// Sorting
	SortBy    string // "date", "number", "amount"
	SortOrder string // "asc", "desc"

	// Pagination
	Limit  int
	Offset int
}

// JournalItem represents one document in the journal.
type JournalItem struct {
	ID           id.ID      `json:"id"`
	DocumentType string     `json:"documentType"`
	Status       string     `json:"status"`
	Year         *int       `json:"year,omitempty"`
	Number       *int       `json:"number,omitempty"`
	IssueDate    *time.Time `json:"issueDate,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`

	CustomerID   id.ID  `json:"customerId"`
	CustomerName string `json:"customerName,omitempty"`

	Currency    string      `json:"currency"`
	TotalAmount types.Money `json:"totalAmount"`

	Title        string    `json:"title,omitempty"`
	DeletionMark bool      `json:"deletionMark"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Journal represents the document journal result.
type Journal struct {
	Items      []JournalItem `json:"items"`
	TotalCount int           `json:"totalCount"`
	Limit      int           `json:"limit"`
	Offset     int           `json:"offset"`
}
