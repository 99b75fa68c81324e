package invoicing

import (
	"context"

	"github.com/erpsuite/finance/internal/domain/invoicing"
	"github.com/google/uuid"
)

// SettingsService manages per-tenant finance settings
type SettingsService struct {
	settingsRepo invoicing.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo invoicing.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// Get returns the tenant's settings, creating the default row on first access
func (s *SettingsService) Get(ctx context.Context, tenantID uuid.UUID) (*SettingsResponse, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	response := ToSettingsResponse(settings)
	return &response, nil
}

// Update applies new configuration values for the tenant
func (s *SettingsService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateSettingsRequest) (*SettingsResponse, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := settings.Update(req.Currency, req.SecondaryCurrency, req.TaxRate, req.TrackSalesperson); err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	response := ToSettingsResponse(settings)
	return &response, nil
}
