package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/domain/reports"
	"fakturo/internal/infrastructure/http/v1/dto"
)

// ReportsHandler provides HTTP handlers for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetDashboard handles GET /reports/dashboard
// Defaults to the caller's company when companyId is omitted.
func (h *ReportsHandler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.DashboardRequest
	if !h.BindQuery(c, &req) {
		return
	}

	companyID, err := h.resolveCompanyID(c, req.CompanyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	dashboard, err := h.service.GetDashboard(ctx, reports.DashboardFilter{
		CompanyID: companyID,
		Year:      req.Year,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetJournal handles GET /reports/journal
func (h *ReportsHandler) GetJournal(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.JournalRequest
	if !h.BindQuery(c, &req) {
		return
	}

	companyID, err := h.resolveCompanyID(c, req.CompanyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	filter := reports.JournalFilter{
		CompanyID:     companyID,
		DocumentTypes: req.DocumentTypes,
		Statuses:      req.Statuses,
		SortBy:        req.SortBy,
		SortOrder:     req.SortOrder,
		Limit:         req.Limit,
		Offset:        req.Offset,
	}

	if filter.FromDate, err = parseDateParam(req.FromDate, "from"); err != nil {
		h.Error(c, err)
		return
	}
	if filter.ToDate, err = parseDateParam(req.ToDate, "to"); err != nil {
		h.Error(c, err)
		return
	}

	for _, raw := range req.CustomerIDs {
		customerID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewFieldValidation("customerIds", "invalid uuid").WithDetail("value", raw))
			return
		}
		filter.CustomerIDs = append(filter.CustomerIDs, customerID)
	}

	journal, err := h.service.GetJournal(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, journal)
}

// resolveCompanyID picks the explicit query param or falls back to the
// authenticated user's company.
func (h *ReportsHandler) resolveCompanyID(c *gin.Context, explicit string) (id.ID, error) {
	if explicit != "" {
		companyID, err := id.Parse(explicit)
		if err != nil {
			return id.Nil(), apperror.NewFieldValidation("companyId", "invalid uuid")
		}
		return companyID, nil
	}

	if companyStr := h.GetCompanyID(c); companyStr != "" {
		companyID, err := id.Parse(companyStr)
		if err == nil {
			return companyID, nil
		}
	}
	return id.Nil(), apperror.NewFieldValidation("companyId", "company is required")
}

// parseDateParam accepts RFC 3339 timestamps and plain dates (2006-01-02).
func parseDateParam(raw *string, field string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", *raw); err == nil {
		return &t, nil
	}
	return nil, apperror.NewFieldValidation(field, "invalid date, RFC 3339 or YYYY-MM-DD expected")
}
