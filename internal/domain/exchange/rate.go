package exchange

import (
	"context"
	"time"

	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Default currency pair tracked by the rate feed
const (
	BaseCurrencyUSD      = "USD"
	SecondaryCurrencyVES = "VES"
)

// Rate is one observation in the append-only exchange rate time series.
// Rows are never updated or deleted; the current rate for a pair is the
// most recently fetched row.
type Rate struct {
	ID                uuid.UUID
	BaseCurrency      string
	SecondaryCurrency string
	Rate              decimal.Decimal
	Source            string
	FetchedAt         time.Time
	CreatedAt         time.Time
}

// NewRate records a freshly fetched exchange rate observation
func NewRate(base, secondary string, value decimal.Decimal, source string) (*Rate, error) {
	if base == "" || secondary == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency pair cannot be empty")
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}

	now := time.Now()
	return &Rate{
		ID:                uuid.New(),
		BaseCurrency:      base,
		SecondaryCurrency: secondary,
		Rate:              value.Round(6),
		Source:            source,
		FetchedAt:         now,
		CreatedAt:         now,
	}, nil
}

// RateRepository defines the interface for exchange rate persistence
type RateRepository interface {
	// Append stores a new rate observation
	Append(ctx context.Context, rate *Rate) error

	// Latest returns the most recent rate for a currency pair,
	// shared.ErrNotFound when none has been stored yet
	Latest(ctx context.Context, base, secondary string) (*Rate, error)
}
