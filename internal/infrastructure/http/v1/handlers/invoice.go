package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/domain"
	"fakturo/internal/domain/documents/invoice"
	"fakturo/internal/infrastructure/http/v1/dto"
	"fakturo/internal/infrastructure/storage/postgres"
)

// InvoiceHandler provides HTTP handlers for invoices.
type InvoiceHandler struct {
	*BaseHandler
	service   *invoice.Service
	snapshots *postgres.SnapshotService
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service, snapshots *postgres.SnapshotService) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		service:     service,
		snapshots:   snapshots,
	}
}

// List handles GET /invoices - list with filtering and pagination.
func (h *InvoiceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := invoice.ListFilter{ListFilter: domain.DefaultListFilter()}
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-issue_date")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if companyID, ok := h.parseIDQuery(c, "companyId"); !ok {
		return
	} else if companyID != nil {
		filter.CompanyID = companyID
	}
	if customerID, ok := h.parseIDQuery(c, "customerId"); !ok {
		return
	} else if customerID != nil {
		filter.CustomerID = customerID
	}

	if status := c.Query("status"); status != "" {
		s := invoice.Status(status)
		if !s.Valid() {
			h.Error(c, apperror.NewFieldValidation("status", "unknown invoice status"))
			return
		}
		filter.Status = &s
	}

	if year := h.ParseIntQuery(c, "year", 0); year != 0 {
		filter.Year = &year
	}

	if from, ok := h.parseTimeQuery(c, "issuedFrom"); !ok {
		return
	} else if from != nil {
		filter.IssuedFrom = from
	}
	if to, ok := h.parseTimeQuery(c, "issuedTo"); !ok {
		return
	} else if to != nil {
		filter.IssuedTo = to
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = dto.FromInvoice(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /invoices/:id - get single invoice with lines.
func (h *InvoiceHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(doc))
}

// Create handles POST /invoices - create draft invoice.
func (h *InvoiceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.OKCreated(c, dto.FromInvoice(doc))
}

// Update handles PUT /invoices/:id - update draft invoice.
func (h *InvoiceHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(doc); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInvoice(doc))
}

// Delete handles DELETE /invoices/:id - soft delete draft invoice.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Transition handles POST /invoices/:id/transition - apply lifecycle action.
func (h *InvoiceHandler) Transition(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.TransitionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Transition(ctx, docID, invoice.Action(req.Action))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInvoice(doc))
}

// History handles GET /invoices/:id/history - list archived snapshots.
func (h *InvoiceHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 20)

	entries, err := h.snapshots.GetHistory(ctx, invoice.DocumentType, docID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromSnapshots(entries)})
}
