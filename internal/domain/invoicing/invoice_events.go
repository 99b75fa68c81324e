package invoicing

import (
	"time"

	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeInvoice = "Invoice"
	AggregateTypeQuote   = "Quote"
)

// Event type constants double as routing keys on the message bus
const (
	EventTypeInvoiceCreated = "invoice.created"
	EventTypeInvoicePaid    = "invoice.paid"
	EventTypeInvoiceVoided  = "invoice.voided"
)

// Origin values for the paid event
const (
	PaidOriginCreation = "creation"
	PaidOriginPayment  = "payment"
)

// PlainDecimal serializes as a bare JSON number. Amounts on the message
// bus are numeric so consumers in other runtimes do not have to strip
// quotes; parsing still accepts both forms.
type PlainDecimal struct {
	decimal.Decimal
}

// MarshalJSON emits the decimal without surrounding quotes
func (d PlainDecimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

// InvoiceItemInfo represents line information carried inside events so
// consumers (stock decrement, ledger) can act without a lookback query.
type InvoiceItemInfo struct {
	ItemID      uuid.UUID    `json:"item_id"`
	ProductID   uuid.UUID    `json:"product_id"`
	ProductName string       `json:"product_name"`
	Quantity    PlainDecimal `json:"quantity"`
	UnitPrice   PlainDecimal `json:"unit_price"`
	LineTotal   PlainDecimal `json:"line_total"`
}

func invoiceItemInfos(inv *Invoice) []InvoiceItemInfo {
	items := make([]InvoiceItemInfo, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemInfo{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    PlainDecimal{item.Quantity},
			UnitPrice:   PlainDecimal{item.UnitPrice},
			LineTotal:   PlainDecimal{item.LineTotal},
		}
	}
	return items
}

// InvoiceCreatedEvent is raised when an invoice is issued
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID         `json:"invoice_id"`
	InvoiceNumber int64             `json:"invoice_number"`
	ControlNumber string            `json:"control_number"`
	CustomerName  string            `json:"customer_name"`
	Total         PlainDecimal      `json:"total"`
	Currency      string            `json:"currency"`
	Status        string            `json:"status"`
	Date          time.Time         `json:"date"`
	Items         []InvoiceItemInfo `json:"items"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		ControlNumber:   inv.ControlNumber,
		CustomerName:    inv.CustomerName,
		Total:           PlainDecimal{inv.Total},
		Currency:        inv.Currency,
		Status:          inv.Status.String(),
		Date:            inv.CreatedAt,
		Items:           invoiceItemInfos(inv),
	}
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return EventTypeInvoiceCreated
}

// InvoicePaidEvent is raised exactly once, when an invoice reaches PAID.
// Origin distinguishes a fully paid creation from a later payment.
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID         `json:"invoice_id"`
	Total     PlainDecimal      `json:"total"`
	Currency  string            `json:"currency"`
	PaidAt    time.Time         `json:"paid_at"`
	Items     []InvoiceItemInfo `json:"items"`
	Origin    string            `json:"origin"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice, origin string) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		Total:           PlainDecimal{inv.Total},
		Currency:        inv.Currency,
		PaidAt:          time.Now(),
		Items:           invoiceItemInfos(inv),
		Origin:          origin,
	}
}

// EventType returns the event type name
func (e *InvoicePaidEvent) EventType() string {
	return EventTypeInvoicePaid
}

// InvoiceVoidedEvent is raised when an invoice is voided so consumers
// can restore stock and reverse ledger entries.
type InvoiceVoidedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID         `json:"invoice_id"`
	Items     []InvoiceItemInfo `json:"items"`
}

// NewInvoiceVoidedEvent creates a new InvoiceVoidedEvent
func NewInvoiceVoidedEvent(inv *Invoice) *InvoiceVoidedEvent {
	return &InvoiceVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceVoided, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		Items:           invoiceItemInfos(inv),
	}
}

// EventType returns the event type name
func (e *InvoiceVoidedEvent) EventType() string {
	return EventTypeInvoiceVoided
}
