package persistence

import (
	"context"
	"errors"

	"github.com/erpsuite/finance/internal/domain/exchange"
	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/erpsuite/finance/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRateRepository implements exchange.RateRepository using GORM.
// The exchange_rates table is append-only.
type GormRateRepository struct {
	db *gorm.DB
}

// NewGormRateRepository creates a new GormRateRepository
func NewGormRateRepository(db *gorm.DB) *GormRateRepository {
	return &GormRateRepository{db: db}
}

// Append stores a new rate observation
func (r *GormRateRepository) Append(ctx context.Context, rate *exchange.Rate) error {
	model := models.ExchangeRateModelFromDomain(rate)
	return r.db.WithContext(ctx).Create(model).Error
}

// Latest returns the most recent rate for a currency pair
func (r *GormRateRepository) Latest(ctx context.Context, base, secondary string) (*exchange.Rate, error) {
	var model models.ExchangeRateModel
	if err := r.db.WithContext(ctx).
		Where("base_currency = ? AND secondary_currency = ?", base, secondary).
		Order("fetched_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormRateRepository implements RateRepository
var _ exchange.RateRepository = (*GormRateRepository)(nil)
