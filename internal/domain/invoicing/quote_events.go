package invoicing

import (
	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants for quotes
const (
	EventTypeQuoteCreated   = "quote.created"
	EventTypeQuoteConverted = "quote.converted"
)

// QuoteItemInfo represents line information carried inside quote events
type QuoteItemInfo struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    PlainDecimal    `json:"quantity"`
	UnitPrice   PlainDecimal    `json:"unit_price"`
}

func quoteItemInfos(q *Quote) []QuoteItemInfo {
	items := make([]QuoteItemInfo, len(q.Items))
	for i, item := range q.Items {
		items[i] = QuoteItemInfo{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    PlainDecimal{item.Quantity},
			UnitPrice:   PlainDecimal{item.UnitPrice},
		}
	}
	return items
}

// QuoteCreatedEvent is raised when a new quote is created
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	QuoteID      uuid.UUID       `json:"quote_id"`
	QuoteNumber  string          `json:"quote_number"`
	CustomerName string          `json:"customer_name"`
	Total        PlainDecimal    `json:"total"`
	Currency     string          `json:"currency"`
	Items        []QuoteItemInfo `json:"items"`
}

// NewQuoteCreatedEvent creates a new QuoteCreatedEvent
func NewQuoteCreatedEvent(q *Quote) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCreated, AggregateTypeQuote, q.ID, q.TenantID),
		QuoteID:         q.ID,
		QuoteNumber:     q.QuoteNumber,
		CustomerName:    q.CustomerName,
		Total:           PlainDecimal{q.Total},
		Currency:        q.Currency,
		Items:           quoteItemInfos(q),
	}
}

// EventType returns the event type name
func (e *QuoteCreatedEvent) EventType() string {
	return EventTypeQuoteCreated
}

// QuoteConvertedEvent is raised when a quote is promoted into an invoice
type QuoteConvertedEvent struct {
	shared.BaseDomainEvent
	QuoteID     uuid.UUID `json:"quote_id"`
	QuoteNumber string    `json:"quote_number"`
	InvoiceID   uuid.UUID `json:"invoice_id"`
}

// NewQuoteConvertedEvent creates a new QuoteConvertedEvent
func NewQuoteConvertedEvent(q *Quote, invoiceID uuid.UUID) *QuoteConvertedEvent {
	return &QuoteConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteConverted, AggregateTypeQuote, q.ID, q.TenantID),
		QuoteID:         q.ID,
		QuoteNumber:     q.QuoteNumber,
		InvoiceID:       invoiceID,
	}
}

// EventType returns the event type name
func (e *QuoteConvertedEvent) EventType() string {
	return EventTypeQuoteConverted
}
