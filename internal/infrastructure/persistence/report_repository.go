package persistence

import (
	"context"

	"github.com/erpsuite/finance/internal/application/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// DashboardMetrics returns headline invoicing metrics for the tenant.
// Voided invoices count toward void_count only; their totals are excluded.
func (r *GormReportRepository) DashboardMetrics(ctx context.Context, tenantID uuid.UUID, period report.Period) (*report.DashboardMetrics, error) {
	type invoiceResult struct {
		InvoiceCount int64
		PaidCount    int64
		VoidCount    int64
		TotalIssued  decimal.Decimal
	}

	var inv invoiceResult
	invQuery := r.db.WithContext(ctx).Table("invoices i").
		Select(`
			COUNT(i.id) as invoice_count,
			COUNT(i.id) FILTER (WHERE i.status = 'PAID') as paid_count,
			COUNT(i.id) FILTER (WHERE i.status = 'VOID') as void_count,
			COALESCE(SUM(i.total) FILTER (WHERE i.status <> 'VOID'), 0) as total_issued
		`).
		Where("i.tenant_id = ?", tenantID)
	invQuery = r.applyPeriod(invQuery, "i.created_at", period)

	if err := invQuery.Scan(&inv).Error; err != nil {
		return nil, err
	}

	type paymentResult struct {
		TotalCollected decimal.Decimal
	}

	var pay paymentResult
	payQuery := r.db.WithContext(ctx).Table("payments p").
		Select("COALESCE(SUM(p.amount), 0) as total_collected").
		Joins("JOIN invoices i ON i.id = p.invoice_id").
		Where("i.tenant_id = ?", tenantID).
		Where("i.status <> 'VOID'")
	payQuery = r.applyPeriod(payQuery, "p.created_at", period)

	if err := payQuery.Scan(&pay).Error; err != nil {
		return nil, err
	}

	outstanding := inv.TotalIssued.Sub(pay.TotalCollected)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	return &report.DashboardMetrics{
		InvoiceCount:     inv.InvoiceCount,
		PaidCount:        inv.PaidCount,
		VoidCount:        inv.VoidCount,
		TotalIssued:      inv.TotalIssued,
		TotalCollected:   pay.TotalCollected,
		TotalOutstanding: outstanding,
	}, nil
}

// SalesByPaymentMethod returns collected totals grouped by payment method
func (r *GormReportRepository) SalesByPaymentMethod(ctx context.Context, tenantID uuid.UUID, period report.Period) ([]report.PaymentMethodTotal, error) {
	type methodResult struct {
		Method string
		Count  int64
		Total  decimal.Decimal
	}

	var results []methodResult
	query := r.db.WithContext(ctx).Table("payments p").
		Select(`
			p.method as method,
			COUNT(p.id) as count,
			COALESCE(SUM(p.amount), 0) as total
		`).
		Joins("JOIN invoices i ON i.id = p.invoice_id").
		Where("i.tenant_id = ?", tenantID).
		Where("i.status <> 'VOID'").
		Group("p.method").
		Order("total DESC")
	query = r.applyPeriod(query, "p.created_at", period)

	if err := query.Scan(&results).Error; err != nil {
		return nil, err
	}

	totals := make([]report.PaymentMethodTotal, len(results))
	for i, res := range results {
		totals[i] = report.PaymentMethodTotal{
			Method: res.Method,
			Count:  res.Count,
			Total:  res.Total,
		}
	}
	return totals, nil
}

// applyPeriod bounds a query on the given timestamp column
func (r *GormReportRepository) applyPeriod(query *gorm.DB, column string, period report.Period) *gorm.DB {
	if !period.From.IsZero() {
		query = query.Where(column+" >= ?", period.From)
	}
	if !period.To.IsZero() {
		query = query.Where(column+" <= ?", period.To)
	}
	return query
}

// Ensure GormReportRepository implements ReportRepository
var _ report.ReportRepository = (*GormReportRepository)(nil)
