package invoicing

import (
	"context"
	"errors"

	"github.com/erpsuite/finance/internal/domain/invoicing"
	"github.com/erpsuite/finance/internal/domain/partner"
	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceCreator issues invoices on behalf of quote conversions
type InvoiceCreator interface {
	CreateForQuote(ctx context.Context, caller CallerContext, req CreateInvoiceRequest, quoteID uuid.UUID) (*InvoiceResponse, error)
}

// QuoteService handles the quote workflow: draft pricing without stock
// commitment, and promotion into an invoice.
type QuoteService struct {
	quoteRepo    invoicing.QuoteRepository
	invoiceRepo  invoicing.InvoiceRepository
	sequences    invoicing.SequenceRepository
	settingsRepo invoicing.SettingsRepository
	customers    partner.CustomerGateway
	products     partner.ProductGateway
	rates        RateSource
	invoices     InvoiceCreator
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	quoteRepo invoicing.QuoteRepository,
	invoiceRepo invoicing.InvoiceRepository,
	sequences invoicing.SequenceRepository,
	settingsRepo invoicing.SettingsRepository,
	customers partner.CustomerGateway,
	products partner.ProductGateway,
	rates RateSource,
	invoices InvoiceCreator,
) *QuoteService {
	return &QuoteService{
		quoteRepo:    quoteRepo,
		invoiceRepo:  invoiceRepo,
		sequences:    sequences,
		settingsRepo: settingsRepo,
		customers:    customers,
		products:     products,
		rates:        rates,
		invoices:     invoices,
	}
}

// Create creates a new quote. A positive per-line unit price in the
// request overrides the catalog price for that line.
func (s *QuoteService) Create(ctx context.Context, caller CallerContext, req CreateQuoteRequest) (*QuoteResponse, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx, caller.TenantID)
	if err != nil {
		return nil, err
	}

	customer := invoicing.WalkInCustomer(req.CustomerTaxID)
	if record, err := s.customers.FindByTaxID(ctx, caller.Token, req.CustomerTaxID); err == nil && record != nil {
		customer = invoicing.CustomerSnapshot{
			Name:    record.Name,
			TaxID:   record.TaxID,
			Email:   record.Email,
			Address: record.Address,
			Phone:   record.Phone,
		}
	}

	productIDs := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		productIDs[i] = item.ProductID
	}
	snapshots, err := s.products.FetchMany(ctx, caller.Token, productIDs)
	if err != nil {
		return nil, err
	}

	lines := make([]invoicing.QuoteLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		product := snapshots[item.ProductID]
		if product == nil {
			return nil, shared.NewDomainErrorf("PRODUCT_NOT_FOUND", "Product %s not found", item.ProductID)
		}
		lines = append(lines, invoicing.QuoteLineInput{
			ProductID:    product.ID,
			ProductName:  product.Name,
			CatalogPrice: product.Price,
			Override:     item.UnitPrice,
			Quantity:     item.Quantity,
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

	seq, err := s.sequences.Next(ctx, caller.TenantID, invoicing.SequenceQuote)
	if err != nil {
		return nil, err
	}

	quote, err := invoicing.NewQuote(invoicing.NewQuoteParams{
		TenantID:     caller.TenantID,
		CreatedBy:    caller.UserID,
		QuoteSeq:     seq,
		Customer:     customer,
		Currency:     currency,
		TaxRate:      settings.TaxRate,
		ExchangeRate: rate,
		Lines:        lines,
	})
	if err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// GetByID retrieves a quote with items
func (s *QuoteService) GetByID(ctx context.Context, tenantID, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// List retrieves quotes for a tenant with pagination and filtering
func (s *QuoteService) List(ctx context.Context, tenantID uuid.UUID, filter QuoteListFilter) (*shared.Paginated[QuoteResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search
	if filter.Status != "" {
		status := invoicing.QuoteStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainErrorf("INVALID_STATUS", "Unknown quote status %s", filter.Status)
		}
		f.Filters["status"] = status
	}

	quotes, err := s.quoteRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.quoteRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}

	items := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		items[i] = ToQuoteResponse(&quotes[i])
	}
	result := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &result, nil
}

// UpdateStatus moves a quote among its pre-conversion statuses
func (s *QuoteService) UpdateStatus(ctx context.Context, tenantID, quoteID uuid.UUID, req UpdateQuoteStatusRequest) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	if err := quote.UpdateStatus(invoicing.QuoteStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// Convert promotes a quote into an invoice. Quantities carry over but
// prices are re-derived from the current catalog. The quote id acts as
// an idempotency key: a retry after a partial failure finds the invoice
// already created and finishes marking the quote instead of issuing a
// duplicate.
func (s *QuoteService) Convert(ctx context.Context, caller CallerContext, quoteID uuid.UUID) (*InvoiceResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, caller.TenantID, quoteID)
	if err != nil {
		return nil, err
	}
	if err := quote.CanConvert(); err != nil {
		return nil, err
	}

	// Recover from an earlier conversion that failed after the invoice commit
	existing, err := s.invoiceRepo.FindBySourceQuote(ctx, caller.TenantID, quoteID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if err := quote.MarkInvoiced(existing.ID); err != nil {
			return nil, err
		}
		if err := s.quoteRepo.Save(ctx, quote); err != nil {
			return nil, err
		}
		response := ToInvoiceResponse(existing)
		return &response, nil
	}

	req := CreateInvoiceRequest{
		CustomerTaxID: quote.CustomerTaxID,
		Currency:      quote.Currency,
		Items:         make([]CreateInvoiceItemInput, len(quote.Items)),
	}
	for i, item := range quote.Items {
		req.Items[i] = CreateInvoiceItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	invoice, err := s.invoices.CreateForQuote(ctx, caller, req, quoteID)
	if err != nil {
		return nil, err
	}

	if err := quote.MarkInvoiced(invoice.ID); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	return invoice, nil
}
