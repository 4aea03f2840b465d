package dto

// DashboardRequest for GET /reports/dashboard.
// CompanyID defaults to the caller's company when omitted.
type DashboardRequest struct {
	CompanyID string `form:"companyId"`
	Year      int    `form:"year"`
}

// JournalRequest for GET /reports/journal.
type JournalRequest struct {
	CompanyID     string   `form:"companyId"`
	FromDate      *string  `form:"from"`
	ToDate        *string  `form:"to"`
	DocumentTypes []string `form:"types"`
	Statuses      []string `form:"statuses"`
	CustomerIDs   []string `form:"customerIds"`
	SortBy        string   `form:"sortBy"`
	SortOrder     string   `form:"sortOrder"`
	Limit         int      `form:"limit"`
	Offset        int      `form:"offset"`
}
