package handler

import (
	appinvoicing "github.com/erpsuite/finance/internal/application/invoicing"
	"github.com/erpsuite/finance/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuoteHandler handles quote API endpoints
type QuoteHandler struct {
	BaseHandler
	quoteService *appinvoicing.QuoteService
	metrics      *telemetry.Metrics
}

// NewQuoteHandler creates a new QuoteHandler. metrics may be nil.
func NewQuoteHandler(quoteService *appinvoicing.QuoteService, metrics *telemetry.Metrics) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		metrics:      metrics,
	}
}

// RegisterRoutes registers quote routes
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	{
		quotes.POST("", h.Create)
		quotes.GET("", h.List)
		quotes.GET("/:id", h.GetByID)
		quotes.PUT("/:id/status", h.UpdateStatus)
		quotes.POST("/:id/convert", h.Convert)
	}
}

// Create creates a new quote
func (h *QuoteHandler) Create(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		h.Unauthorized(c, "Invalid authentication context")
		return
	}

	var req appinvoicing.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	quote, err := h.quoteService.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.QuotesCreatedTotal.Inc()
	}
	h.Created(c, quote)
}

// GetByID returns one quote with items
func (h *QuoteHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid authentication context")
		return
	}

	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}

	quote, err := h.quoteService.GetByID(c.Request.Context(), tenantID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// List returns the tenant's quotes with pagination and filtering
func (h *QuoteHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid authentication context")
		return
	}

	var filter appinvoicing.QuoteListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.quoteService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize, result.TotalPages)
}

// UpdateStatus transitions the quote between workflow states
func (h *QuoteHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid authentication context")
		return
	}

	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}

	var req appinvoicing.UpdateQuoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	quote, err := h.quoteService.UpdateStatus(c.Request.Context(), tenantID, quoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Convert promotes the quote into an invoice
func (h *QuoteHandler) Convert(c *gin.Context) {
	caller, err := getCaller(c)
	if err != nil {
		h.Unauthorized(c, "Invalid authentication context")
		return
	}

	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}

	invoice, err := h.quoteService.Convert(c.Request.Context(), caller, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.QuotesConvertedTotal.Inc()
	}
	h.Created(c, invoice)
}
