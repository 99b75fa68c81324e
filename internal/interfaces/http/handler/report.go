package handler

import (
	"time"

	appreport "github.com/erpsuite/finance/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *appreport.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *appreport.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/dashboard", h.Dashboard)
		reports.GET("/sales-by-payment-method", h.SalesByPaymentMethod)
	}
}

// reportPeriodRequest bounds a report query. Dates accept YYYY-MM-DD or
// RFC 3339; both bounds are optional.
type reportPeriodRequest struct {
	From string `form:"from"`
	To   string `form:"to"`
}

func (r reportPeriodRequest) toPeriod() (appreport.Period, error) {
	var period appreport.Period
	var err error
	if r.From != "" {
		if period.From, err = parseReportDate(r.From); err != nil {
			return period, err
		}
	}
	if r.To != "" {
		if period.To, err = parseReportDate(r.To); err != nil {
			return period, err
		}
		// A bare date upper bound covers the whole day
		if len(r.To) == len("2006-01-02") {
			period.To = period.To.Add(24*time.Hour - time.Nanosecond)
		}
	}
	return period, nil
}

func parseReportDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// Dashboard returns headline metrics for the tenant
func (h *ReportHandler) Dashboard(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid authentication context")
		return
	}

	var req reportPeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	period, err := req.toPeriod()
	if err != nil {
		h.BadRequest(c, "Invalid date format, expected YYYY-MM-DD or RFC 3339")
		return
	}

	metrics, err := h.reportService.Dashboard(c.Request.Context(), tenantID, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, metrics)
}

// SalesByPaymentMethod returns collected totals grouped by payment method
func (h *ReportHandler) SalesByPaymentMethod(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid authentication context")
		return
	}

	var req reportPeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	period, err := req.toPeriod()
	if err != nil {
		h.BadRequest(c, "Invalid date format, expected YYYY-MM-DD or RFC 3339")
		return
	}

	rows, err := h.reportService.SalesByPaymentMethod(c.Request.Context(), tenantID, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
