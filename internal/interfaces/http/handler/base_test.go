package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erpsuite/finance/internal/domain/invoicing"
	"github.com/erpsuite/finance/internal/interfaces/http/dto"
	"github.com/erpsuite/finance/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// authContext simulates the JWT middleware for handler tests
func authContext(tenantID, userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, tenantID.String())
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Set(middleware.JWTRoleKey, "admin")
		c.Set(middleware.JWTTokenKey, "test-token")
		c.Next()
	}
}

// newTestRouter builds an authenticated test router and registers the
// given handlers under /api/v1
func newTestRouter(tenantID, userID uuid.UUID, registrars ...interface {
	RegisterRoutes(rg *gin.RouterGroup)
}) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(authContext(tenantID, userID))
	api := router.Group("/api/v1")
	for _, r := range registrars {
		r.RegisterRoutes(api)
	}
	return router
}

// newUnauthenticatedRouter builds a router with no identity in context
func newUnauthenticatedRouter(registrars ...interface {
	RegisterRoutes(rg *gin.RouterGroup)
}) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	for _, r := range registrars {
		r.RegisterRoutes(api)
	}
	return router
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func newIssuedInvoice(t *testing.T, tenantID uuid.UUID) *invoicing.Invoice {
	t.Helper()
	inv, err := invoicing.NewInvoice(invoicing.NewInvoiceParams{
		TenantID:      tenantID,
		CreatedBy:     uuid.New(),
		InvoiceNumber: 7,
		Company:       invoicing.CompanySnapshot{Name: "Comercial Andina", TaxID: "J-12345678-9"},
		Customer:      invoicing.CustomerSnapshot{Name: "Cliente ocasional", TaxID: "V-11222333"},
		Currency:      "USD",
		TaxRate:       dec("16"),
		Lines: []invoicing.InvoiceLineInput{
			{ProductID: uuid.New(), ProductName: "Producto A", UnitPrice: dec("10.00"), Quantity: dec("2")},
		},
	})
	require.NoError(t, err)
	inv.ClearDomainEvents()
	return inv
}

func newSentQuote(t *testing.T, tenantID uuid.UUID) *invoicing.Quote {
	t.Helper()
	q, err := invoicing.NewQuote(invoicing.NewQuoteParams{
		TenantID:  tenantID,
		CreatedBy: uuid.New(),
		QuoteSeq:  3,
		Customer:  invoicing.CustomerSnapshot{Name: "Cliente ocasional", TaxID: "V-11222333"},
		Currency:  "USD",
		TaxRate:   dec("16"),
		Lines: []invoicing.QuoteLineInput{
			{ProductID: uuid.New(), ProductName: "Producto A", CatalogPrice: dec("10.00"), Quantity: dec("1")},
		},
	})
	require.NoError(t, err)
	q.ClearDomainEvents()
	return q
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
