package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/erpsuite/finance/internal/domain/partner"
	"github.com/erpsuite/finance/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerHTTPGateway looks up customers in the directory service.
type CustomerHTTPGateway struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewCustomerHTTPGateway creates a new CustomerHTTPGateway
func NewCustomerHTTPGateway(cfg config.GatewayConfig, logger *zap.Logger) *CustomerHTTPGateway {
	return &CustomerHTTPGateway{
		baseURL:    strings.TrimRight(cfg.CustomerURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type customerResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	TaxID   string    `json:"tax_id"`
	Email   string    `json:"email"`
	Address string    `json:"address"`
	Phone   string    `json:"phone"`
}

// FindByTaxID returns the customer record matching the tax ID, or nil
// when the directory has no match. Lookup failures degrade to a miss so
// document creation can fall back to the customer data on the request.
func (g *CustomerHTTPGateway) FindByTaxID(ctx context.Context, token, taxID string) (*partner.CustomerRecord, error) {
	endpoint := g.baseURL + "/api/v1/customers?tax_id=" + url.QueryEscape(taxID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build customer request: %w", err)
	}
	authorize(req, token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn("customer directory unreachable", zap.Error(err))
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode != http.StatusNotFound {
			g.logger.Warn("customer directory returned unexpected status",
				zap.Int("status", resp.StatusCode),
			)
		}
		return nil, nil
	}

	var body customerResponse
	if err := decodeResponse(resp, &body); err != nil {
		g.logger.Warn("customer directory returned malformed body", zap.Error(err))
		return nil, nil
	}

	return &partner.CustomerRecord{
		ID:      body.ID,
		Name:    body.Name,
		TaxID:   body.TaxID,
		Email:   body.Email,
		Address: body.Address,
		Phone:   body.Phone,
	}, nil
}

// Ensure CustomerHTTPGateway implements CustomerGateway
var _ partner.CustomerGateway = (*CustomerHTTPGateway)(nil)
