package persistence

import (
	"context"

	"github.com/erpsuite/finance/internal/domain/invoicing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSequenceRepository implements invoicing.SequenceRepository using a
// per-tenant counter row. The increment happens in a single statement so
// two concurrent callers can never observe the same value; the database
// serializes the row update.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next atomically increments and returns the named counter for a tenant.
// The first call for a (tenant, name) pair creates the row and returns 1.
func (r *GormSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, name string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO tenant_sequences (tenant_id, name, value, updated_at)
		VALUES (?, ?, 1, NOW())
		ON CONFLICT (tenant_id, name)
		DO UPDATE SET value = tenant_sequences.value + 1, updated_at = NOW()
		RETURNING value`,
		tenantID, name,
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Ensure GormSequenceRepository implements SequenceRepository
var _ invoicing.SequenceRepository = (*GormSequenceRepository)(nil)
