package exchange

import (
	"context"
	"errors"
	"time"

	"github.com/erpsuite/finance/internal/domain/exchange"
	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateCache is a read-through cache in front of the rate time series.
// Get returns nil on a miss; cache failures are never fatal.
type RateCache interface {
	Get(ctx context.Context, base, secondary string) (*exchange.Rate, error)
	Set(ctx context.Context, rate *exchange.Rate) error
}

// RateResponse represents the current exchange rate in API responses
type RateResponse struct {
	BaseCurrency      string          `json:"base_currency"`
	SecondaryCurrency string          `json:"secondary_currency"`
	Rate              decimal.Decimal `json:"rate"`
	Source            string          `json:"source"`
	FetchedAt         time.Time       `json:"fetched_at"`
}

// RateService reads and records exchange rates. Invoice creation reads
// through CurrentRate; the background feed appends through Record.
type RateService struct {
	rates  exchange.RateRepository
	cache  RateCache
	logger *zap.Logger
}

// NewRateService creates a new RateService. cache may be nil.
func NewRateService(rates exchange.RateRepository, cache RateCache, logger *zap.Logger) *RateService {
	return &RateService{rates: rates, cache: cache, logger: logger}
}

// Current returns the most recent rate for the pair,
// shared.ErrNotFound when none has been recorded yet
func (s *RateService) Current(ctx context.Context, base, secondary string) (*RateResponse, error) {
	rate, err := s.latest(ctx, base, secondary)
	if err != nil {
		return nil, err
	}
	return &RateResponse{
		BaseCurrency:      rate.BaseCurrency,
		SecondaryCurrency: rate.SecondaryCurrency,
		Rate:              rate.Rate,
		Source:            rate.Source,
		FetchedAt:         rate.FetchedAt,
	}, nil
}

// CurrentRate returns the most recent rate value, or nil when no rate
// has been recorded. Used by document creation for snapshot semantics.
func (s *RateService) CurrentRate(ctx context.Context, base, secondary string) (*decimal.Decimal, error) {
	rate, err := s.latest(ctx, base, secondary)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	value := rate.Rate
	return &value, nil
}

func (s *RateService) latest(ctx context.Context, base, secondary string) (*exchange.Rate, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, base, secondary); err == nil && cached != nil {
			return cached, nil
		}
	}

	rate, err := s.rates.Latest(ctx, base, secondary)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, rate); err != nil {
			s.logger.Warn("failed to repopulate rate cache", zap.Error(err))
		}
	}
	return rate, nil
}

// Record appends a freshly fetched observation to the time series and
// refreshes the cache.
func (s *RateService) Record(ctx context.Context, base, secondary string, value decimal.Decimal, source string) (*exchange.Rate, error) {
	rate, err := exchange.NewRate(base, secondary, value, source)
	if err != nil {
		return nil, err
	}
	if err := s.rates.Append(ctx, rate); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, rate); err != nil {
			s.logger.Warn("failed to update rate cache", zap.Error(err))
		}
	}
	return rate, nil
}
