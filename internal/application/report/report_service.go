package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardMetrics summarizes a tenant's invoicing activity
type DashboardMetrics struct {
	InvoiceCount     int64           `json:"invoice_count"`
	PaidCount        int64           `json:"paid_count"`
	VoidCount        int64           `json:"void_count"`
	TotalIssued      decimal.Decimal `json:"total_issued"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

// PaymentMethodTotal is one row of the sales-by-payment-method report
type PaymentMethodTotal struct {
	Method string          `json:"method"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// Period bounds a report query; zero values mean unbounded
type Period struct {
	From time.Time
	To   time.Time
}

// ReportRepository is the read model behind the reporting endpoints.
// Voided invoices are excluded from issued and outstanding totals.
type ReportRepository interface {
	DashboardMetrics(ctx context.Context, tenantID uuid.UUID, period Period) (*DashboardMetrics, error)
	SalesByPaymentMethod(ctx context.Context, tenantID uuid.UUID, period Period) ([]PaymentMethodTotal, error)
}

// ReportService serves aggregated reporting queries
type ReportService struct {
	reports ReportRepository
}

// NewReportService creates a new ReportService
func NewReportService(reports ReportRepository) *ReportService {
	return &ReportService{reports: reports}
}

// Dashboard returns headline metrics for the tenant
func (s *ReportService) Dashboard(ctx context.Context, tenantID uuid.UUID, period Period) (*DashboardMetrics, error) {
	return s.reports.DashboardMetrics(ctx, tenantID, period)
}

// SalesByPaymentMethod returns collected totals grouped by payment method
func (s *ReportService) SalesByPaymentMethod(ctx context.Context, tenantID uuid.UUID, period Period) ([]PaymentMethodTotal, error) {
	return s.reports.SalesByPaymentMethod(ctx, tenantID, period)
}
