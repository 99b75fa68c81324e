package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/erpsuite/finance/internal/domain/partner"
	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/erpsuite/finance/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyHTTPGateway fetches the tenant's company profile from the
// profile service.
type CompanyHTTPGateway struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewCompanyHTTPGateway creates a new CompanyHTTPGateway
func NewCompanyHTTPGateway(cfg config.GatewayConfig, logger *zap.Logger) *CompanyHTTPGateway {
	return &CompanyHTTPGateway{
		baseURL:    strings.TrimRight(cfg.CompanyURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type companyProfileResponse struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Name     string    `json:"name"`
	TaxID    string    `json:"tax_id"`
	Address  string    `json:"address"`
	Phone    string    `json:"phone"`
	Email    string    `json:"email"`
}

// FetchProfile returns the tenant's company profile, or nil when the
// profile service has no profile for the tenant.
func (g *CompanyHTTPGateway) FetchProfile(ctx context.Context, token string) (*partner.CompanyProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/v1/tenant/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build profile request: %w", err)
	}
	authorize(req, token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn("profile service unreachable", zap.Error(err))
		return nil, shared.NewDomainError("UPSTREAM_UNAVAILABLE", "Profile service is unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		g.logger.Warn("profile service returned unexpected status",
			zap.Int("status", resp.StatusCode),
		)
		return nil, shared.NewDomainErrorf("UPSTREAM_UNAVAILABLE", "Profile service returned status %d", resp.StatusCode)
	}

	var body companyProfileResponse
	if err := decodeResponse(resp, &body); err != nil {
		return nil, err
	}

	return &partner.CompanyProfile{
		TenantID: body.TenantID,
		Name:     body.Name,
		TaxID:    body.TaxID,
		Address:  body.Address,
		Phone:    body.Phone,
		Email:    body.Email,
	}, nil
}

// Ensure CompanyHTTPGateway implements CompanyGateway
var _ partner.CompanyGateway = (*CompanyHTTPGateway)(nil)
