package invoicing

import (
	"time"

	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Default finance settings applied when a tenant has none stored
const (
	DefaultCurrency          = "USD"
	DefaultSecondaryCurrency = "VES"
)

// FinanceSettings holds per-tenant invoicing configuration.
// One row per tenant, created lazily on first access.
type FinanceSettings struct {
	shared.BaseEntity
	TenantID          uuid.UUID
	Currency          string
	SecondaryCurrency string
	TaxRate           decimal.Decimal
	TrackSalesperson  bool
}

// NewFinanceSettings creates settings with platform defaults
func NewFinanceSettings(tenantID uuid.UUID) *FinanceSettings {
	return &FinanceSettings{
		BaseEntity:        shared.NewBaseEntity(),
		TenantID:          tenantID,
		Currency:          DefaultCurrency,
		SecondaryCurrency: DefaultSecondaryCurrency,
		TaxRate:           DefaultTaxRate,
		TrackSalesperson:  false,
	}
}

// Update applies new configuration values
func (s *FinanceSettings) Update(currency, secondaryCurrency string, taxRate decimal.Decimal, trackSalesperson bool) error {
	if currency == "" {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}

	s.Currency = currency
	if secondaryCurrency != "" {
		s.SecondaryCurrency = secondaryCurrency
	}
	s.TaxRate = taxRate
	s.TrackSalesperson = trackSalesperson
	s.UpdatedAt = time.Now()
	return nil
}
