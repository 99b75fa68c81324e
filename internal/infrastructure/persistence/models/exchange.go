package models

import (
	"time"

	"github.com/erpsuite/finance/internal/domain/exchange"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRateModel is the persistence model for the append-only
// exchange rate time series.
type ExchangeRateModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	BaseCurrency      string          `gorm:"type:varchar(10);not null;index:idx_rate_pair_fetched,priority:1"`
	SecondaryCurrency string          `gorm:"type:varchar(10);not null;index:idx_rate_pair_fetched,priority:2"`
	Rate              decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	Source            string          `gorm:"type:varchar(50);not null"`
	FetchedAt         time.Time       `gorm:"not null;index:idx_rate_pair_fetched,priority:3,sort:desc"`
	CreatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExchangeRateModel) TableName() string {
	return "exchange_rates"
}

// ToDomain converts the persistence model to a domain Rate.
func (m *ExchangeRateModel) ToDomain() *exchange.Rate {
	return &exchange.Rate{
		ID:                m.ID,
		BaseCurrency:      m.BaseCurrency,
		SecondaryCurrency: m.SecondaryCurrency,
		Rate:              m.Rate,
		Source:            m.Source,
		FetchedAt:         m.FetchedAt,
		CreatedAt:         m.CreatedAt,
	}
}

// ExchangeRateModelFromDomain creates a new persistence model from a domain Rate.
func ExchangeRateModelFromDomain(r *exchange.Rate) *ExchangeRateModel {
	return &ExchangeRateModel{
		ID:                r.ID,
		BaseCurrency:      r.BaseCurrency,
		SecondaryCurrency: r.SecondaryCurrency,
		Rate:              r.Rate,
		Source:            r.Source,
		FetchedAt:         r.FetchedAt,
		CreatedAt:         r.CreatedAt,
	}
}
