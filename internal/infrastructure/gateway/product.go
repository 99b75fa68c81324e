package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/erpsuite/finance/internal/domain/partner"
	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/erpsuite/finance/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductHTTPGateway fetches product snapshots from the catalog service.
type ProductHTTPGateway struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewProductHTTPGateway creates a new ProductHTTPGateway
func NewProductHTTPGateway(cfg config.GatewayConfig, logger *zap.Logger) *ProductHTTPGateway {
	return &ProductHTTPGateway{
		baseURL:    strings.TrimRight(cfg.ProductURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type productResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	AvailableStock decimal.Decimal `json:"available_stock"`
}

// FetchByID returns the product snapshot, or nil when the catalog has
// no product with that ID.
func (g *ProductHTTPGateway) FetchByID(ctx context.Context, token string, id uuid.UUID) (*partner.ProductSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/v1/products/"+id.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build product request: %w", err)
	}
	authorize(req, token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn("catalog service unreachable", zap.Error(err))
		return nil, shared.NewDomainError("UPSTREAM_UNAVAILABLE", "Catalog service is unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		g.logger.Warn("catalog service returned unexpected status",
			zap.Int("status", resp.StatusCode),
			zap.String("product_id", id.String()),
		)
		return nil, shared.NewDomainErrorf("UPSTREAM_UNAVAILABLE", "Catalog service returned status %d", resp.StatusCode)
	}

	var body productResponse
	if err := decodeResponse(resp, &body); err != nil {
		return nil, err
	}

	return &partner.ProductSnapshot{
		ID:             body.ID,
		Name:           body.Name,
		Price:          body.Price,
		AvailableStock: body.AvailableStock,
	}, nil
}

// FetchMany fetches product snapshots concurrently. Missing products
// appear as nil entries in the result; the first hard failure aborts
// the whole lookup.
func (g *ProductHTTPGateway) FetchMany(ctx context.Context, token string, ids []uuid.UUID) (map[uuid.UUID]*partner.ProductSnapshot, error) {
	result := make(map[uuid.UUID]*partner.ProductSnapshot, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()

			snapshot, err := g.FetchByID(ctx, token, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				return
			}
			result[id] = snapshot
		}(id)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return result, nil
}

// Ensure ProductHTTPGateway implements ProductGateway
var _ partner.ProductGateway = (*ProductHTTPGateway)(nil)
