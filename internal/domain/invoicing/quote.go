package invoicing

import (
	"fmt"
	"time"

	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the lifecycle status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusAccepted QuoteStatus = "ACCEPTED"
	QuoteStatusRejected QuoteStatus = "REJECTED"
	QuoteStatusInvoiced QuoteStatus = "INVOICED"
)

// IsValid checks if the status is a valid QuoteStatus
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusInvoiced:
		return true
	}
	return false
}

// String returns the string representation of QuoteStatus
func (s QuoteStatus) String() string {
	return string(s)
}

// FormatQuoteNumber derives the human-facing quote number from the
// internal per-tenant sequence.
func FormatQuoteNumber(n int64) string {
	return fmt.Sprintf("COT-%05d", n)
}

// QuoteItem represents a line item in a quote. ManualPrice is true when
// the caller overrode the catalog price for this line.
type QuoteItem struct {
	ID          uuid.UUID
	QuoteID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	ManualPrice bool
	CreatedAt   time.Time
}

// QuoteLineInput carries product snapshot, quantity and the optional
// manual price override for one quote line. Override is used verbatim
// when positive, otherwise CatalogPrice applies.
type QuoteLineInput struct {
	ProductID    uuid.UUID
	ProductName  string
	CatalogPrice decimal.Decimal
	Override     decimal.Decimal
	Quantity     decimal.Decimal
}

// NewQuoteParams carries everything needed to create a quote
type NewQuoteParams struct {
	TenantID     uuid.UUID
	CreatedBy    uuid.UUID
	QuoteSeq     int64
	Customer     CustomerSnapshot
	Currency     string
	TaxRate      decimal.Decimal
	ExchangeRate *decimal.Decimal
	Lines        []QuoteLineInput
}

// Quote represents a draft pricing document aggregate root.
// Structurally parallel to Invoice but with no payment relation and no
// stock commitment; it can be promoted into an invoice exactly once.
type Quote struct {
	shared.TenantAggregateRoot
	QuoteSeq           int64
	QuoteNumber        string
	CustomerName       string
	CustomerTaxID      string
	CustomerEmail      string
	CustomerAddress    string
	CustomerPhone      string
	Items              []QuoteItem
	Subtotal           decimal.Decimal
	TaxAmount          decimal.Decimal
	Total              decimal.Decimal
	Currency           string
	ExchangeRate       *decimal.Decimal
	SecondaryTotal     *decimal.Decimal
	Status             QuoteStatus
	ConvertedInvoiceID *uuid.UUID
}

// NewQuote creates a new quote with the same rounding rules as invoices
func NewQuote(p NewQuoteParams) (*Quote, error) {
	if p.QuoteSeq <= 0 {
		return nil, shared.NewDomainError("INVALID_QUOTE_NUMBER", "Quote number must be positive")
	}
	if p.Currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if len(p.Lines) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Quote must have at least one line")
	}

	if p.ExchangeRate != nil {
		snapped := p.ExchangeRate.Round(4)
		p.ExchangeRate = &snapped
	}

	q := &Quote{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(p.TenantID, p.CreatedBy),
		QuoteSeq:            p.QuoteSeq,
		QuoteNumber:         FormatQuoteNumber(p.QuoteSeq),
		CustomerName:        p.Customer.Name,
		CustomerTaxID:       p.Customer.TaxID,
		CustomerEmail:       p.Customer.Email,
		CustomerAddress:     p.Customer.Address,
		CustomerPhone:       p.Customer.Phone,
		Items:               make([]QuoteItem, 0, len(p.Lines)),
		Currency:            p.Currency,
		ExchangeRate:        p.ExchangeRate,
		Status:              QuoteStatusSent,
	}

	priceLines := make([]PriceLine, 0, len(p.Lines))
	now := time.Now()
	for _, line := range p.Lines {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainErrorf("INVALID_QUANTITY", "Quantity for product %s must be positive", line.ProductName)
		}
		price := line.CatalogPrice
		manual := false
		if line.Override.GreaterThan(decimal.Zero) {
			price = line.Override
			manual = true
		}
		if price.IsNegative() {
			return nil, shared.NewDomainErrorf("INVALID_PRICE", "Unit price for product %s cannot be negative", line.ProductName)
		}
		q.Items = append(q.Items, QuoteItem{
			ID:          uuid.New(),
			QuoteID:     q.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   price,
			LineTotal:   line.Quantity.Mul(price).Round(2),
			ManualPrice: manual,
			CreatedAt:   now,
		})
		priceLines = append(priceLines, PriceLine{Quantity: line.Quantity, UnitPrice: price})
	}

	totals := ComputeTotals(priceLines, p.TaxRate, p.ExchangeRate)
	q.Subtotal = totals.Subtotal
	q.TaxAmount = totals.TaxAmount
	q.Total = totals.Total
	q.SecondaryTotal = totals.SecondaryTotal

	q.AddDomainEvent(NewQuoteCreatedEvent(q))

	return q, nil
}

// UpdateStatus moves the quote among the pre-conversion statuses.
// INVOICED is reached only through MarkInvoiced and is immutable.
func (q *Quote) UpdateStatus(target QuoteStatus) error {
	if q.Status == QuoteStatusInvoiced {
		return shared.NewDomainError("QUOTE_INVOICED", "Quote has already been invoiced")
	}
	if !target.IsValid() || target == QuoteStatusInvoiced {
		return shared.NewDomainErrorf("INVALID_STATUS", "Cannot set quote status to %s", target)
	}

	q.Status = target
	q.UpdatedAt = time.Now()
	return nil
}

// CanConvert returns an error when the quote must not be converted
func (q *Quote) CanConvert() error {
	if q.Status == QuoteStatusInvoiced {
		return shared.NewDomainError("QUOTE_INVOICED", "Quote has already been invoiced")
	}
	if q.Status == QuoteStatusRejected {
		return shared.NewDomainError("QUOTE_REJECTED", "Cannot convert a rejected quote")
	}
	return nil
}

// MarkInvoiced records the successful conversion into an invoice
func (q *Quote) MarkInvoiced(invoiceID uuid.UUID) error {
	if err := q.CanConvert(); err != nil {
		return err
	}

	q.Status = QuoteStatusInvoiced
	q.ConvertedInvoiceID = &invoiceID
	q.UpdatedAt = time.Now()
	q.AddDomainEvent(NewQuoteConvertedEvent(q, invoiceID))

	return nil
}
