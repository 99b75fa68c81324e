package invoicing

import (
	"context"

	"github.com/erpsuite/finance/internal/domain/invoicing"
	"github.com/erpsuite/finance/internal/domain/partner"
	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateSource provides the most recent exchange rate for a currency pair.
// A nil rate with nil error means no rate has been recorded yet.
type RateSource interface {
	CurrentRate(ctx context.Context, base, secondary string) (*decimal.Decimal, error)
}

// InvoiceService orchestrates the invoice lifecycle: aggregation of
// external snapshots, pricing, numbering, persistence and event emission.
type InvoiceService struct {
	invoiceRepo  invoicing.InvoiceRepository
	sequences    invoicing.SequenceRepository
	settingsRepo invoicing.SettingsRepository
	companies    partner.CompanyGateway
	customers    partner.CustomerGateway
	products     partner.ProductGateway
	rates        RateSource
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo invoicing.InvoiceRepository,
	sequences invoicing.SequenceRepository,
	settingsRepo invoicing.SettingsRepository,
	companies partner.CompanyGateway,
	customers partner.CustomerGateway,
	products partner.ProductGateway,
	rates RateSource,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		sequences:    sequences,
		settingsRepo: settingsRepo,
		companies:    companies,
		customers:    customers,
		products:     products,
		rates:        rates,
	}
}

// Create issues a new invoice. All external snapshots are fetched and
// validated before anything is written; header, items, optional initial
// payment and outbox events persist in one transaction.
func (s *InvoiceService) Create(ctx context.Context, caller CallerContext, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	return s.create(ctx, caller, req, nil)
}

// CreateForQuote issues an invoice on behalf of a quote conversion,
// stamping the quote id as the conversion idempotency key.
func (s *InvoiceService) CreateForQuote(ctx context.Context, caller CallerContext, req CreateInvoiceRequest, quoteID uuid.UUID) (*InvoiceResponse, error) {
	return s.create(ctx, caller, req, &quoteID)
}

func (s *InvoiceService) create(ctx context.Context, caller CallerContext, req CreateInvoiceRequest, sourceQuoteID *uuid.UUID) (*InvoiceResponse, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx, caller.TenantID)
	if err != nil {
		return nil, err
	}

	company, err := s.companies.FetchProfile(ctx, caller.Token)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, shared.NewDomainError("UPSTREAM_UNAVAILABLE", "Tenant profile unavailable")
	}

	customer := s.resolveCustomer(ctx, caller.Token, req.CustomerTaxID)

	productIDs := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		productIDs[i] = item.ProductID
	}
	snapshots, err := s.products.FetchMany(ctx, caller.Token, productIDs)
	if err != nil {
		return nil, err
	}

	lines := make([]invoicing.InvoiceLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		product := snapshots[item.ProductID]
		if product == nil {
			return nil, shared.NewDomainErrorf("PRODUCT_NOT_FOUND", "Product %s not found", item.ProductID)
		}
		if product.AvailableStock.LessThan(item.Quantity) {
			return nil, shared.NewDomainErrorf("INSUFFICIENT_STOCK",
				"Insufficient stock for %s: requested %s, available %s",
				product.Name, item.Quantity.String(), product.AvailableStock.String())
		}
		lines = append(lines, invoicing.InvoiceLineInput{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
		})
	}

	currency := req.Currency
	if currency == "" {
		currency = settings.Currency
	}

	rate, err := s.rates.CurrentRate(ctx, currency, settings.SecondaryCurrency)
	if err != nil {
		return nil, err
	}

	number, err := s.sequences.Next(ctx, caller.TenantID, invoicing.SequenceInvoice)
	if err != nil {
		return nil, err
	}

	var salespersonID *uuid.UUID
	if settings.TrackSalesperson {
		salespersonID = req.SalespersonID
	}

	inv, err := invoicing.NewInvoice(invoicing.NewInvoiceParams{
		TenantID:      caller.TenantID,
		CreatedBy:     caller.UserID,
		CreatorRole:   caller.Role,
		SalespersonID: salespersonID,
		InvoiceNumber: number,
		Company: invoicing.CompanySnapshot{
			Name:    company.Name,
			TaxID:   company.TaxID,
			Address: company.Address,
		},
		Customer:      customer,
		Currency:      currency,
		TaxRate:       settings.TaxRate,
		ExchangeRate:  rate,
		Lines:         lines,
		SourceQuoteID: sourceQuoteID,
	})
	if err != nil {
		return nil, err
	}

	if req.Payment != nil && req.Payment.Amount.GreaterThan(decimal.Zero) {
		if _, err := inv.RecordInitialPayment(
			req.Payment.Amount,
			invoicing.PaymentMethod(req.Payment.Method),
			req.Payment.Reference,
			req.Payment.Notes,
		); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// resolveCustomer looks up the customer directory; absence falls back to
// a walk-in snapshot carrying only the requested tax id.
func (s *InvoiceService) resolveCustomer(ctx context.Context, token, taxID string) invoicing.CustomerSnapshot {
	record, err := s.customers.FindByTaxID(ctx, token, taxID)
	if err != nil || record == nil {
		return invoicing.WalkInCustomer(taxID)
	}
	return invoicing.CustomerSnapshot{
		Name:    record.Name,
		TaxID:   record.TaxID,
		Email:   record.Email,
		Address: record.Address,
		Phone:   record.Phone,
	}
}

// GetByID retrieves an invoice with items and payments
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// List retrieves invoices for a tenant with pagination and filtering
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) (*shared.Paginated[InvoiceListItemResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search
	if filter.Status != "" {
		status := invoicing.InvoiceStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainErrorf("INVALID_STATUS", "Unknown invoice status %s", filter.Status)
		}
		f.Filters["status"] = status
	}

	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceListItemResponse, len(invoices))
	for i := range invoices {
		items[i] = ToInvoiceListItemResponse(&invoices[i])
	}
	result := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &result, nil
}

// ApplyPayment records a payment against the invoice under a row lock.
// Concurrent attempts on the same invoice serialize in the repository;
// the second caller sees the first payment's effect on the balance.
func (s *InvoiceService) ApplyPayment(ctx context.Context, tenantID, invoiceID uuid.UUID, req ApplyPaymentRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.UpdateLocked(ctx, tenantID, invoiceID, func(inv *invoicing.Invoice) error {
		_, err := inv.ApplyPayment(req.Amount, invoicing.PaymentMethod(req.Method), req.Reference, req.Notes)
		return err
	})
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Void marks the invoice VOID. Recorded payments are not reversed.
func (s *InvoiceService) Void(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.UpdateLocked(ctx, tenantID, invoiceID, func(inv *invoicing.Invoice) error {
		return inv.Void()
	})
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}
