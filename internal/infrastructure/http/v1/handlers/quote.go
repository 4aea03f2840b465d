package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
	"fakturo/internal/domain"
	"fakturo/internal/domain/documents/quote"
	"fakturo/internal/infrastructure/http/v1/dto"
	"fakturo/internal/infrastructure/storage/postgres"
)

// QuoteHandler provides HTTP handlers for quotes.
type QuoteHandler struct {
	*BaseHandler
	service   *quote.Service
	snapshots *postgres.SnapshotService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(base *BaseHandler, service *quote.Service, snapshots *postgres.SnapshotService) *QuoteHandler {
	return &QuoteHandler{
		BaseHandler: base,
		service:     service,
		snapshots:   snapshots,
	}
}

// List handles GET /quotes - list with filtering and pagination.
func (h *QuoteHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := quote.ListFilter{ListFilter: domain.DefaultListFilter()}
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
		s := quote.Status(status)
		if !s.Valid() {
			h.Error(c, apperror.NewFieldValidation("status", "unknown quote status"))
			return
		}
		filter.Status = &s
	}

	if year := h.ParseIntQuery(c, "year", 0); year != 0 {
		filter.Year = &year
	}

	if from, ok := h.parseTimeQuery(c, "sentFrom"); !ok {
		return
	} else if from != nil {
		filter.SentFrom = from
	}
	if to, ok := h.parseTimeQuery(c, "sentTo"); !ok {
		return
	} else if to != nil {
		filter.SentTo = to
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = dto.FromQuote(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /quotes/:id - get single quote with lines.
func (h *QuoteHandler) Get(c *gin.Context) {
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

	c.JSON(http.StatusOK, dto.FromQuote(doc))
}

// Create handles POST /quotes - create draft quote.
func (h *QuoteHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateQuoteRequest
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

	h.OKCreated(c, dto.FromQuote(doc))
}

// Update handles PUT /quotes/:id - update draft quote.
func (h *QuoteHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateQuoteRequest
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

	h.OK(c, dto.FromQuote(doc))
}

// Delete handles DELETE /quotes/:id - soft delete draft quote.
func (h *QuoteHandler) Delete(c *gin.Context) {
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

// Transition handles POST /quotes/:id/transition - apply lifecycle action.
// Conversion is a separate endpoint because it returns the created invoice.
func (h *QuoteHandler) Transition(c *gin.Context) {
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

	doc, err := h.service.Transition(ctx, docID, quote.Action(req.Action))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromQuote(doc))
}

// Convert handles POST /quotes/:id/convert - convert accepted quote to invoice.
func (h *QuoteHandler) Convert(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	inv, err := h.service.Convert(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OKCreated(c, dto.FromInvoice(inv))
}

// History handles GET /quotes/:id/history - list archived snapshots.
func (h *QuoteHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 20)

	entries, err := h.snapshots.GetHistory(ctx, quote.DocumentType, docID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromSnapshots(entries)})
}
