package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/erpsuite/finance/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testGatewayConfig(companyURL, customerURL, productURL string) config.GatewayConfig {
	return config.GatewayConfig{
		CompanyURL:  companyURL,
		CustomerURL: customerURL,
		ProductURL:  productURL,
		Timeout:     2 * time.Second,
	}
}

func TestCompanyHTTPGateway_FetchProfile(t *testing.T) {
	t.Run("returns profile on success", func(t *testing.T) {
		tenantID := uuid.New()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/tenant/profile", r.URL.Path)
			assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"tenant_id":"` + tenantID.String() + `","name":"Acme C.A.","tax_id":"J-12345678-9","address":"Av. Principal","phone":"+58-212-5551234","email":"admin@acme.example"}`))
		}))
		defer server.Close()

		g := NewCompanyHTTPGateway(testGatewayConfig(server.URL, "", ""), zap.NewNop())

		profile, err := g.FetchProfile(context.Background(), "token-abc")
		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, tenantID, profile.TenantID)
		assert.Equal(t, "Acme C.A.", profile.Name)
		assert.Equal(t, "J-12345678-9", profile.TaxID)
	})

	t.Run("returns nil on 404", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		g := NewCompanyHTTPGateway(testGatewayConfig(server.URL, "", ""), zap.NewNop())

		profile, err := g.FetchProfile(context.Background(), "token-abc")
		require.NoError(t, err)
		assert.Nil(t, profile)
	})

	t.Run("returns error on server failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		g := NewCompanyHTTPGateway(testGatewayConfig(server.URL, "", ""), zap.NewNop())

		profile, err := g.FetchProfile(context.Background(), "token-abc")
		assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
		assert.Nil(t, profile)
	})

	t.Run("returns error when unreachable", func(t *testing.T) {
		g := NewCompanyHTTPGateway(testGatewayConfig("http://127.0.0.1:1", "", ""), zap.NewNop())

		profile, err := g.FetchProfile(context.Background(), "token-abc")
		assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
		assert.Nil(t, profile)
	})
}

func TestCustomerHTTPGateway_FindByTaxID(t *testing.T) {
	t.Run("returns record on match", func(t *testing.T) {
		customerID := uuid.New()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/customers", r.URL.Path)
			assert.Equal(t, "V-11222333", r.URL.Query().Get("tax_id"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"` + customerID.String() + `","name":"Maria Perez","tax_id":"V-11222333","email":"maria@example.com","address":"Calle 1","phone":"+58-414-5556677"}`))
		}))
		defer server.Close()

		g := NewCustomerHTTPGateway(testGatewayConfig("", server.URL, ""), zap.NewNop())

		record, err := g.FindByTaxID(context.Background(), "token-abc", "V-11222333")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, customerID, record.ID)
		assert.Equal(t, "Maria Perez", record.Name)
	})

	t.Run("returns nil on no match", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		g := NewCustomerHTTPGateway(testGatewayConfig("", server.URL, ""), zap.NewNop())

		record, err := g.FindByTaxID(context.Background(), "token-abc", "V-00000000")
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("degrades to miss when directory is down", func(t *testing.T) {
		g := NewCustomerHTTPGateway(testGatewayConfig("", "http://127.0.0.1:1", ""), zap.NewNop())

		record, err := g.FindByTaxID(context.Background(), "token-abc", "V-11222333")
		require.NoError(t, err)
		assert.Nil(t, record)
	})
}

func TestProductHTTPGateway_FetchByID(t *testing.T) {
	t.Run("returns snapshot on success", func(t *testing.T) {
		productID := uuid.New()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/products/"+productID.String(), r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"` + productID.String() + `","name":"Laptop","price":"899.99","available_stock":"12"}`))
		}))
		defer server.Close()

		g := NewProductHTTPGateway(testGatewayConfig("", "", server.URL), zap.NewNop())

		snapshot, err := g.FetchByID(context.Background(), "token-abc", productID)
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.Equal(t, "Laptop", snapshot.Name)
		assert.True(t, snapshot.Price.Equal(decimal.RequireFromString("899.99")))
		assert.True(t, snapshot.AvailableStock.Equal(decimal.NewFromInt(12)))
	})

	t.Run("returns nil for unknown product", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		g := NewProductHTTPGateway(testGatewayConfig("", "", server.URL), zap.NewNop())

		snapshot, err := g.FetchByID(context.Background(), "token-abc", uuid.New())
		require.NoError(t, err)
		assert.Nil(t, snapshot)
	})
}

func TestProductHTTPGateway_FetchMany(t *testing.T) {
	t.Run("fetches all products concurrently", func(t *testing.T) {
		known := uuid.New()
		missing := uuid.New()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/v1/products/"+known.String() {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"id":"` + known.String() + `","name":"Mouse","price":"19.90","available_stock":"40"}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		g := NewProductHTTPGateway(testGatewayConfig("", "", server.URL), zap.NewNop())

		result, err := g.FetchMany(context.Background(), "token-abc", []uuid.UUID{known, missing})
		require.NoError(t, err)
		require.Len(t, result, 2)
		require.NotNil(t, result[known])
		assert.Equal(t, "Mouse", result[known].Name)
		assert.Nil(t, result[missing])
	})

	t.Run("empty input returns empty map", func(t *testing.T) {
		g := NewProductHTTPGateway(testGatewayConfig("", "", "http://127.0.0.1:1"), zap.NewNop())

		result, err := g.FetchMany(context.Background(), "token-abc", nil)
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("aborts on hard failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		g := NewProductHTTPGateway(testGatewayConfig("", "", server.URL), zap.NewNop())

		result, err := g.FetchMany(context.Background(), "token-abc", []uuid.UUID{uuid.New(), uuid.New()})
		assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
		assert.Nil(t, result)
	})
}
