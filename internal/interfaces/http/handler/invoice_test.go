package handler

import (
	"fmt"
	"net/http"
	"testing"

	appinvoicing "github.com/erpsuite/finance/internal/application/invoicing"
	"github.com/erpsuite/finance/internal/domain/invoicing"
	"github.com/erpsuite/finance/internal/domain/partner"
	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/erpsuite/finance/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type invoiceHandlerFixture struct {
	invoiceRepo  *mockInvoiceRepository
	sequences    *mockSequenceRepository
	settingsRepo *mockSettingsRepository
	companies    *mockCompanyGateway
	customers    *mockCustomerGateway
	products     *mockProductGateway
	rates        *mockRateSource
	metrics      *telemetry.Metrics
	tenantID     uuid.UUID
	userID       uuid.UUID
	productID    uuid.UUID
	router       *gin.Engine
}

func newInvoiceHandlerFixture() *invoiceHandlerFixture {
	f := &invoiceHandlerFixture{
		invoiceRepo:  new(mockInvoiceRepository),
		sequences:    new(mockSequenceRepository),
		settingsRepo: new(mockSettingsRepository),
		companies:    new(mockCompanyGateway),
		customers:    new(mockCustomerGateway),
		products:     new(mockProductGateway),
		rates:        new(mockRateSource),
		metrics:      telemetry.NewMetrics("finance_test"),
		tenantID:     uuid.New(),
		userID:       uuid.New(),
		productID:    uuid.New(),
	}
	service := appinvoicing.NewInvoiceService(
		f.invoiceRepo, f.sequences, f.settingsRepo,
		f.companies, f.customers, f.products, f.rates,
	)
	f.router = newTestRouter(f.tenantID, f.userID, NewInvoiceHandler(service, f.metrics))
	return f
}

// expectCreate wires the collaborators for a successful creation of one
// line at $10.00 x 2 with the default tax rate
func (f *invoiceHandlerFixture) expectCreate() {
	settings := invoicing.NewFinanceSettings(f.tenantID)
	f.settingsRepo.On("GetOrCreate", mock.Anything, f.tenantID).Return(settings, nil)
	f.companies.On("FetchProfile", mock.Anything, "test-token").Return(&partner.CompanyProfile{
		TenantID: f.tenantID,
		Name:     "Comercial Andina C.A.",
		TaxID:    "J-12345678-9",
	}, nil)
	f.customers.On("FindByTaxID", mock.Anything, "test-token", "V-11222333").Return(
		(*partner.CustomerRecord)(nil), nil)
	f.products.On("FetchMany", mock.Anything, "test-token", []uuid.UUID{f.productID}).Return(
		map[uuid.UUID]*partner.ProductSnapshot{
			f.productID: {ID: f.productID, Name: "Producto A", Price: dec("10.00"), AvailableStock: dec("5")},
		}, nil)
	rate := dec("36.5")
	f.rates.On("CurrentRate", mock.Anything, "USD", "VES").Return(&rate, nil)
	f.sequences.On("Next", mock.Anything, f.tenantID, invoicing.SequenceInvoice).Return(int64(1), nil)
	f.invoiceRepo.On("Save", mock.Anything, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)
}

func TestInvoiceHandler_Create(t *testing.T) {
	t.Run("issues invoice and returns 201", func(t *testing.T) {
		f := newInvoiceHandlerFixture()
		f.expectCreate()

		body := fmt.Sprintf(`{"customer_tax_id":"V-11222333","items":[{"product_id":"%s","quantity":"2"}]}`, f.productID)
		w := performRequest(f.router, http.MethodPost, "/api/v1/invoices", body)

		require.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "ISSUED", data["status"])
		assert.Equal(t, "00-00000001", data["control_number"])
		// Walk-in fallback when the customer lookup misses
		assert.Equal(t, "Cliente ocasional", data["customer_name"])

		counter := f.metrics.InvoicesCreatedTotal.WithLabelValues("ISSUED")
		assert.Equal(t, float64(1), testutil.ToFloat64(counter))
	})

	t.Run("missing items returns 400", func(t *testing.T) {
		f := newInvoiceHandlerFixture()

		w := performRequest(f.router, http.MethodPost, "/api/v1/invoices",
			`{"customer_tax_id":"V-11222333","items":[]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		f := newInvoiceHandlerFixture()

		w := performRequest(f.router, http.MethodPost, "/api/v1/invoices", `{not json`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing company profile returns 503", func(t *testing.T) {
		f := newInvoiceHandlerFixture()
		settings := invoicing.NewFinanceSettings(f.tenantID)
		f.settingsRepo.On("GetOrCreate", mock.Anything, f.tenantID).Return(settings, nil)
		f.companies.On("FetchProfile", mock.Anything, "test-token").Return(
			(*partner.CompanyProfile)(nil), nil)

		body := fmt.Sprintf(`{"customer_tax_id":"V-11222333","items":[{"product_id":"%s","quantity":"2"}]}`, f.productID)
		w := performRequest(f.router, http.MethodPost, "/api/v1/invoices", body)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "UPSTREAM_UNAVAILABLE", resp.Error.Code)
	})

	t.Run("unauthenticated returns 401", func(t *testing.T) {
		service := appinvoicing.NewInvoiceService(
			new(mockInvoiceRepository), new(mockSequenceRepository), new(mockSettingsRepository),
			new(mockCompanyGateway), new(mockCustomerGateway), new(mockProductGateway), new(mockRateSource),
		)
		router := newUnauthenticatedRouter(NewInvoiceHandler(service, nil))

		w := performRequest(router, http.MethodPost, "/api/v1/invoices", `{}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestInvoiceHandler_GetByID(t *testing.T) {
	t.Run("returns invoice", func(t *testing.T) {
		f := newInvoiceHandlerFixture()
		inv := newIssuedInvoice(t, f.tenantID)
		f.invoiceRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, inv.ID).Return(inv, nil)

		w := performRequest(f.router, http.MethodGet, "/api/v1/invoices/"+inv.ID.String(), "")

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, inv.ID.String(), data["id"])
		assert.Equal(t, "23.2", data["total"])
	})

	t.Run("unknown invoice returns 404", func(t *testing.T) {
		f := newInvoiceHandlerFixture()
		missing := uuid.New()
		f.invoiceRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, missing).Return(nil, shared.ErrNotFound)

		w := performRequest(f.router, http.MethodGet, "/api/v1/invoices/"+missing.String(), "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	})

	t.Run("invalid id returns 400", func(t *testing.T) {
		f := newInvoiceHandlerFixture()

		w := performRequest(f.router, http.MethodGet, "/api/v1/invoices/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInvoiceHandler_List(t *testing.T) {
	f := newInvoiceHandlerFixture()
	inv := newIssuedInvoice(t, f.tenantID)
	f.invoiceRepo.On("FindAllForTenant", mock.Anything, f.tenantID, mock.Anything).Return(
		[]invoicing.Invoice{*inv}, nil)
	f.invoiceRepo.On("CountForTenant", mock.Anything, f.tenantID, mock.Anything).Return(int64(1), nil)

	w := performRequest(f.router, http.MethodGet, "/api/v1/invoices?page=1&page_size=20", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
}

func TestInvoiceHandler_ApplyPayment(t *testing.T) {
	t.Run("records payment", func(t *testing.T) {
		f := newInvoiceHandlerFixture()
		inv := newIssuedInvoice(t, f.tenantID)
		f.invoiceRepo.On("UpdateLocked", mock.Anything, f.tenantID, inv.ID).Return(inv, nil)

		w := performRequest(f.router, http.MethodPost, "/api/v1/invoices/"+inv.ID.String()+"/payments",
			`{"amount":"23.20","method":"TRANSFER","reference":"TX-9"}`)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "PAID", data["status"])

		counter := f.metrics.PaymentsRecordedTotal.WithLabelValues("TRANSFER")
		assert.Equal(t, float64(1), testutil.ToFloat64(counter))
	})

	t.Run("overpayment returns 422", func(t *testing.T) {
		f := newInvoiceHandlerFixture()
		inv := newIssuedInvoice(t, f.tenantID)
		f.invoiceRepo.On("UpdateLocked", mock.Anything, f.tenantID, inv.ID).Return(inv, nil)

		w := performRequest(f.router, http.MethodPost, "/api/v1/invoices/"+inv.ID.String()+"/payments",
			`{"amount":"100.00","method":"CASH"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "PAYMENT_EXCEEDS_BALANCE", resp.Error.Code)
	})

	t.Run("missing method returns 400", func(t *testing.T) {
		f := newInvoiceHandlerFixture()

		w := performRequest(f.router, http.MethodPost, "/api/v1/invoices/"+uuid.NewString()+"/payments",
			`{"amount":"10.00"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInvoiceHandler_Void(t *testing.T) {
	t.Run("voids invoice", func(t *testing.T) {
		f := newInvoiceHandlerFixture()
		inv := newIssuedInvoice(t, f.tenantID)
		f.invoiceRepo.On("UpdateLocked", mock.Anything, f.tenantID, inv.ID).Return(inv, nil)

		w := performRequest(f.router, http.MethodPost, "/api/v1/invoices/"+inv.ID.String()+"/void", "")

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "VOID", data["status"])
		assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.InvoicesVoidedTotal))
	})

	t.Run("voiding a voided invoice returns 422", func(t *testing.T) {
		f := newInvoiceHandlerFixture()
		inv := newIssuedInvoice(t, f.tenantID)
		require.NoError(t, inv.Void())
		f.invoiceRepo.On("UpdateLocked", mock.Anything, f.tenantID, inv.ID).Return(inv, nil)

		w := performRequest(f.router, http.MethodPost, "/api/v1/invoices/"+inv.ID.String()+"/void", "")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "INVOICE_VOID", resp.Error.Code)
	})
}
