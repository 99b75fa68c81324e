package persistence

import (
	"context"
	"errors"

	"github.com/erpsuite/finance/internal/domain/invoicing"
	"github.com/erpsuite/finance/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository implements invoicing.SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// GetOrCreate returns the tenant's settings, inserting the default row on
// first access. A concurrent first access loses the insert race and reads
// the winner's row instead.
func (r *GormSettingsRepository) GetOrCreate(ctx context.Context, tenantID uuid.UUID) (*invoicing.FinanceSettings, error) {
	var model models.FinanceSettingsModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&model).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	defaults := invoicing.NewFinanceSettings(tenantID)
	defaultModel := models.FinanceSettingsModelFromDomain(defaults)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			DoNothing: true,
		}).
		Create(defaultModel).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&model).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists updated settings
func (r *GormSettingsRepository) Save(ctx context.Context, settings *invoicing.FinanceSettings) error {
	model := models.FinanceSettingsModelFromDomain(settings)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormSettingsRepository implements SettingsRepository
var _ invoicing.SettingsRepository = (*GormSettingsRepository)(nil)
