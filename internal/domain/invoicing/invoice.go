package invoicing

import (
	"fmt"
	"time"

	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusIssued        InvoiceStatus = "ISSUED"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusVoid          InvoiceStatus = "VOID"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusIssued, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusIssued:
		return target == InvoiceStatusPartiallyPaid || target == InvoiceStatusPaid || target == InvoiceStatusVoid
	case InvoiceStatusPartiallyPaid:
		return target == InvoiceStatusPaid || target == InvoiceStatusVoid
	case InvoiceStatusPaid:
		return target == InvoiceStatusVoid
	case InvoiceStatusVoid:
		return false // Terminal state
	}
	return false
}

// CanApplyPayment returns true if payments may still be recorded
func (s InvoiceStatus) CanApplyPayment() bool {
	return s == InvoiceStatusIssued || s == InvoiceStatusPartiallyPaid
}

// PaymentTolerance is the rounding slack allowed when comparing a payment
// against the outstanding balance.
var PaymentTolerance = decimal.NewFromFloat(0.01)

// FormatControlNumber derives the human-facing fiscal control number
// from the internal invoice sequence number.
func FormatControlNumber(n int64) string {
	return fmt.Sprintf("00-%08d", n)
}

// CompanySnapshot is the issuing company profile frozen into a document
type CompanySnapshot struct {
	Name    string
	TaxID   string
	Address string
}

// CustomerSnapshot is the customer record frozen into a document
type CustomerSnapshot struct {
	Name    string
	TaxID   string
	Email   string
	Address string
	Phone   string
}

// WalkInCustomer returns the fallback snapshot used when no customer
// record matches the requested tax id.
func WalkInCustomer(taxID string) CustomerSnapshot {
	return CustomerSnapshot{
		Name:  "Cliente ocasional",
		TaxID: taxID,
	}
}

// InvoiceItem represents a line item in an invoice, immutable after creation
type InvoiceItem struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal // Quantity * UnitPrice
	CreatedAt   time.Time
}

// PaymentMethod is the declared means of payment
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodMobile   PaymentMethod = "MOBILE"
	PaymentMethodOther    PaymentMethod = "OTHER"
)

// Payment represents a recorded payment against an invoice, append-only
type Payment struct {
	ID        uuid.UUID
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
	Currency  string
	Method    PaymentMethod
	Reference string
	Notes     string
	CreatedAt time.Time
}

// InvoiceLineInput carries the product snapshot and quantity for one line
// at invoice creation time.
type InvoiceLineInput struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    decimal.Decimal
}

// NewInvoiceParams carries everything needed to issue an invoice.
// Snapshots are taken by the caller before construction; the aggregate
// never reaches out to external services.
type NewInvoiceParams struct {
	TenantID      uuid.UUID
	CreatedBy     uuid.UUID
	CreatorRole   string
	SalespersonID *uuid.UUID
	InvoiceNumber int64
	Company       CompanySnapshot
	Customer      CustomerSnapshot
	Currency      string
	TaxRate       decimal.Decimal
	ExchangeRate  *decimal.Decimal
	Lines         []InvoiceLineInput
	SourceQuoteID *uuid.UUID
}

// Invoice represents an issued financial document aggregate root.
// Header, items and payments are persisted atomically; items are frozen
// at issuance and payments are append-only.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber   int64
	ControlNumber   string
	SourceQuoteID   *uuid.UUID
	SalespersonID   *uuid.UUID
	CreatorRole     string
	CompanyName     string
	CompanyTaxID    string
	CompanyAddress  string
	CustomerName    string
	CustomerTaxID   string
	CustomerEmail   string
	CustomerAddress string
	CustomerPhone   string
	Items           []InvoiceItem
	Payments        []Payment
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	Total           decimal.Decimal
	Currency        string
	ExchangeRate    *decimal.Decimal
	SecondaryTotal  *decimal.Decimal
	Status          InvoiceStatus
}

// NewInvoice issues a new invoice from the given snapshots and lines.
// Totals are computed here so the arithmetic invariants hold for every
// invoice regardless of the caller.
func NewInvoice(p NewInvoiceParams) (*Invoice, error) {
	if p.InvoiceNumber <= 0 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number must be positive")
	}
	if p.Company.Name == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company snapshot is required")
	}
	if p.Currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if len(p.Lines) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Invoice must have at least one line")
	}

	// The rate snapshot carries 4 decimals; the feed series keeps 6.
	if p.ExchangeRate != nil {
		snapped := p.ExchangeRate.Round(4)
		p.ExchangeRate = &snapped
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(p.TenantID, p.CreatedBy),
		InvoiceNumber:       p.InvoiceNumber,
		ControlNumber:       FormatControlNumber(p.InvoiceNumber),
		SourceQuoteID:       p.SourceQuoteID,
		SalespersonID:       p.SalespersonID,
		CreatorRole:         p.CreatorRole,
		CompanyName:         p.Company.Name,
		CompanyTaxID:        p.Company.TaxID,
		CompanyAddress:      p.Company.Address,
		CustomerName:        p.Customer.Name,
		CustomerTaxID:       p.Customer.TaxID,
		CustomerEmail:       p.Customer.Email,
		CustomerAddress:     p.Customer.Address,
		CustomerPhone:       p.Customer.Phone,
		Items:               make([]InvoiceItem, 0, len(p.Lines)),
		Currency:            p.Currency,
		ExchangeRate:        p.ExchangeRate,
		Status:              InvoiceStatusIssued,
	}

	priceLines := make([]PriceLine, 0, len(p.Lines))
	now := time.Now()
	for _, line := range p.Lines {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainErrorf("INVALID_QUANTITY", "Quantity for product %s must be positive", line.ProductName)
		}
		if line.UnitPrice.IsNegative() {
			return nil, shared.NewDomainErrorf("INVALID_PRICE", "Unit price for product %s cannot be negative", line.ProductName)
		}
		inv.Items = append(inv.Items, InvoiceItem{
			ID:          uuid.New(),
			InvoiceID:   inv.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.Quantity.Mul(line.UnitPrice).Round(2),
			CreatedAt:   now,
		})
		priceLines = append(priceLines, PriceLine{Quantity: line.Quantity, UnitPrice: line.UnitPrice})
	}

	totals := ComputeTotals(priceLines, p.TaxRate, p.ExchangeRate)
	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total
	inv.SecondaryTotal = totals.SecondaryTotal

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// AmountPaid returns the cumulative amount of recorded payments
func (inv *Invoice) AmountPaid() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range inv.Payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// BalanceDue returns the outstanding balance (total minus payments)
func (inv *Invoice) BalanceDue() decimal.Decimal {
	return inv.Total.Sub(inv.AmountPaid())
}

// RecordInitialPayment records a payment supplied together with the
// creation request. The paid amount is clamped to the invoice total;
// status moves directly to PAID or PARTIALLY_PAID before first persist.
func (inv *Invoice) RecordInitialPayment(amount decimal.Decimal, method PaymentMethod, reference, notes string) (*Payment, error) {
	if inv.Status != InvoiceStatusIssued || len(inv.Payments) > 0 {
		return nil, shared.ErrInvalidState
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
	}

	paid := decimal.Min(amount.Round(2), inv.Total)
	payment := Payment{
		ID:        uuid.New(),
		InvoiceID: inv.ID,
		Amount:    paid,
		Currency:  inv.Currency,
		Method:    method,
		Reference: reference,
		Notes:     notes,
		CreatedAt: time.Now(),
	}
	inv.Payments = append(inv.Payments, payment)

	if paid.GreaterThanOrEqual(inv.Total) {
		inv.Status = InvoiceStatusPaid
		inv.AddDomainEvent(NewInvoicePaidEvent(inv, PaidOriginCreation))
	} else {
		inv.Status = InvoiceStatusPartiallyPaid
	}
	inv.UpdatedAt = time.Now()

	// The created event was queued before the payment was recorded;
	// refresh it so the published snapshot carries the final status.
	for _, ev := range inv.GetDomainEvents() {
		if created, ok := ev.(*InvoiceCreatedEvent); ok {
			created.Status = inv.Status.String()
		}
	}

	return &payment, nil
}

// ApplyPayment records a payment against the outstanding balance.
// A payment exceeding the balance by more than the tolerance is rejected
// and leaves the aggregate untouched. The paid event is raised only on
// the transition into PAID.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal, method PaymentMethod, reference, notes string) (*Payment, error) {
	if inv.Status == InvoiceStatusVoid {
		return nil, shared.NewDomainError("INVOICE_VOID", "Cannot apply a payment to a voided invoice")
	}
	if !inv.Status.CanApplyPayment() {
		return nil, shared.NewDomainError("INVOICE_ALREADY_PAID", "Invoice is already fully paid")
	}

	// Round first so a sub-cent amount cannot slip through as a 0.00
	// payment row.
	amount = amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
	}

	balance := inv.BalanceDue()
	if amount.GreaterThan(balance.Add(PaymentTolerance)) {
		return nil, shared.NewDomainErrorf("PAYMENT_EXCEEDS_BALANCE",
			"Payment of %s exceeds outstanding balance of %s", amount.StringFixed(2), balance.StringFixed(2))
	}

	payment := Payment{
		ID:        uuid.New(),
		InvoiceID: inv.ID,
		Amount:    amount,
		Currency:  inv.Currency,
		Method:    method,
		Reference: reference,
		Notes:     notes,
		CreatedAt: time.Now(),
	}
	inv.Payments = append(inv.Payments, payment)

	wasPaid := inv.Status == InvoiceStatusPaid
	if inv.AmountPaid().GreaterThanOrEqual(inv.Total) {
		inv.Status = InvoiceStatusPaid
	} else {
		inv.Status = InvoiceStatusPartiallyPaid
	}
	inv.UpdatedAt = time.Now()

	if inv.Status == InvoiceStatusPaid && !wasPaid {
		inv.AddDomainEvent(NewInvoicePaidEvent(inv, PaidOriginPayment))
	}

	return &payment, nil
}

// Void marks the invoice as VOID. Existing payments are left untouched;
// reconciliation of already-collected money is a downstream concern.
func (inv *Invoice) Void() error {
	if inv.Status == InvoiceStatusVoid {
		return shared.NewDomainError("INVOICE_VOID", "Invoice is already void")
	}

	inv.Status = InvoiceStatusVoid
	inv.UpdatedAt = time.Now()
	inv.AddDomainEvent(NewInvoiceVoidedEvent(inv))

	return nil
}
