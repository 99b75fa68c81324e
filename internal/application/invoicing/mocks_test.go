package invoicing

import (
	"context"

	"github.com/erpsuite/finance/internal/domain/invoicing"
	"github.com/erpsuite/finance/internal/domain/partner"
	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockInvoiceRepository is a mock implementation of invoicing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Invoice), args.Error(1)
}

// UpdateLocked runs fn against the invoice configured in the expectation,
// mirroring the real repository's load-mutate-persist cycle
func (m *MockInvoiceRepository) UpdateLocked(ctx context.Context, tenantID, id uuid.UUID, fn func(inv *invoicing.Invoice) error) (*invoicing.Invoice, error) {
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

func (m *MockInvoiceRepository) FindBySourceQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (*invoicing.Invoice, error) {
	args := m.Called(ctx, tenantID, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoicing.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockQuoteRepository is a mock implementation of invoicing.QuoteRepository
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) Save(ctx context.Context, quote *invoicing.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *MockQuoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Quote, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoicing.Quote, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]invoicing.Quote), args.Error(1)
}

func (m *MockQuoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSequenceRepository is a mock implementation of invoicing.SequenceRepository
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, name string) (int64, error) {
	args := m.Called(ctx, tenantID, name)
	return args.Get(0).(int64), args.Error(1)
}

// MockSettingsRepository is a mock implementation of invoicing.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetOrCreate(ctx context.Context, tenantID uuid.UUID) (*invoicing.FinanceSettings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.FinanceSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, settings *invoicing.FinanceSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockCompanyGateway is a mock implementation of partner.CompanyGateway
type MockCompanyGateway struct {
	mock.Mock
}

func (m *MockCompanyGateway) FetchProfile(ctx context.Context, token string) (*partner.CompanyProfile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CompanyProfile), args.Error(1)
}

// MockCustomerGateway is a mock implementation of partner.CustomerGateway
type MockCustomerGateway struct {
	mock.Mock
}

func (m *MockCustomerGateway) FindByTaxID(ctx context.Context, token, taxID string) (*partner.CustomerRecord, error) {
	args := m.Called(ctx, token, taxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CustomerRecord), args.Error(1)
}

// MockProductGateway is a mock implementation of partner.ProductGateway
type MockProductGateway struct {
	mock.Mock
}

func (m *MockProductGateway) FetchByID(ctx context.Context, token string, id uuid.UUID) (*partner.ProductSnapshot, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.ProductSnapshot), args.Error(1)
}

func (m *MockProductGateway) FetchMany(ctx context.Context, token string, ids []uuid.UUID) (map[uuid.UUID]*partner.ProductSnapshot, error) {
	args := m.Called(ctx, token, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*partner.ProductSnapshot), args.Error(1)
}

// MockRateSource is a mock implementation of RateSource
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) CurrentRate(ctx context.Context, base, secondary string) (*decimal.Decimal, error) {
	args := m.Called(ctx, base, secondary)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*decimal.Decimal), args.Error(1)
}

// MockInvoiceCreator is a mock implementation of InvoiceCreator
type MockInvoiceCreator struct {
	mock.Mock
}

func (m *MockInvoiceCreator) CreateForQuote(ctx context.Context, caller CallerContext, req CreateInvoiceRequest, quoteID uuid.UUID) (*InvoiceResponse, error) {
	args := m.Called(ctx, caller, req, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*InvoiceResponse), args.Error(1)
}
