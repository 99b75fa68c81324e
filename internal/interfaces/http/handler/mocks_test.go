package handler

import (
	"context"

	appinvoicing "github.com/erpsuite/finance/internal/application/invoicing"
	appreport "github.com/erpsuite/finance/internal/application/report"
	"github.com/erpsuite/finance/internal/domain/invoicing"
	"github.com/erpsuite/finance/internal/domain/partner"
	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockInvoiceRepository struct {
	mock.Mock
}

func (m *mockInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *mockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) UpdateLocked(ctx context.Context, tenantID, id uuid.UUID, fn func(inv *invoicing.Invoice) error) (*invoicing.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	inv := args.Get(0).(*invoicing.Invoice)
	if err := fn(inv); err != nil {
		return nil, err
	}
	return inv, args.Error(1)
}

func (m *mockInvoiceRepository) FindBySourceQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (*invoicing.Invoice, error) {
	args := m.Called(ctx, tenantID, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoicing.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]invoicing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockQuoteRepository struct {
	mock.Mock
}

func (m *mockQuoteRepository) Save(ctx context.Context, quote *invoicing.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *mockQuoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Quote, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Quote), args.Error(1)
}

func (m *mockQuoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoicing.Quote, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]invoicing.Quote), args.Error(1)
}

func (m *mockQuoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockSequenceRepository struct {
	mock.Mock
}

func (m *mockSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, name string) (int64, error) {
	args := m.Called(ctx, tenantID, name)
	return args.Get(0).(int64), args.Error(1)
}

type mockSettingsRepository struct {
	mock.Mock
}

func (m *mockSettingsRepository) GetOrCreate(ctx context.Context, tenantID uuid.UUID) (*invoicing.FinanceSettings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.FinanceSettings), args.Error(1)
}

func (m *mockSettingsRepository) Save(ctx context.Context, settings *invoicing.FinanceSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

type mockCompanyGateway struct {
	mock.Mock
}

func (m *mockCompanyGateway) FetchProfile(ctx context.Context, token string) (*partner.CompanyProfile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CompanyProfile), args.Error(1)
}

type mockCustomerGateway struct {
	mock.Mock
}

func (m *mockCustomerGateway) FindByTaxID(ctx context.Context, token, taxID string) (*partner.CustomerRecord, error) {
	args := m.Called(ctx, token, taxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CustomerRecord), args.Error(1)
}

type mockProductGateway struct {
	mock.Mock
}

func (m *mockProductGateway) FetchByID(ctx context.Context, token string, id uuid.UUID) (*partner.ProductSnapshot, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.ProductSnapshot), args.Error(1)
}

func (m *mockProductGateway) FetchMany(ctx context.Context, token string, ids []uuid.UUID) (map[uuid.UUID]*partner.ProductSnapshot, error) {
	args := m.Called(ctx, token, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*partner.ProductSnapshot), args.Error(1)
}

type mockRateSource struct {
	mock.Mock
}

func (m *mockRateSource) CurrentRate(ctx context.Context, base, secondary string) (*decimal.Decimal, error) {
	args := m.Called(ctx, base, secondary)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*decimal.Decimal), args.Error(1)
}

type mockInvoiceCreator struct {
	mock.Mock
}

func (m *mockInvoiceCreator) CreateForQuote(ctx context.Context, caller appinvoicing.CallerContext, req appinvoicing.CreateInvoiceRequest, quoteID uuid.UUID) (*appinvoicing.InvoiceResponse, error) {
	args := m.Called(ctx, caller, req, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appinvoicing.InvoiceResponse), args.Error(1)
}

type mockReportRepository struct {
	mock.Mock
}

func (m *mockReportRepository) DashboardMetrics(ctx context.Context, tenantID uuid.UUID, period appreport.Period) (*appreport.DashboardMetrics, error) {
	args := m.Called(ctx, tenantID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreport.DashboardMetrics), args.Error(1)
}

func (m *mockReportRepository) SalesByPaymentMethod(ctx context.Context, tenantID uuid.UUID, period appreport.Period) ([]appreport.PaymentMethodTotal, error) {
	args := m.Called(ctx, tenantID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appreport.PaymentMethodTotal), args.Error(1)
}
