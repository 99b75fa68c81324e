package invoicing

import (
	"time"

	"github.com/erpsuite/finance/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CallerContext carries the authenticated caller's identity and the
// bearer token forwarded to sibling services.
type CallerContext struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Role     string
	Token    string
}

// ==================== Invoice DTOs ====================

// CreateInvoiceRequest represents a request to issue an invoice
type CreateInvoiceRequest struct {
	CustomerTaxID string                   `json:"customer_tax_id" binding:"required,min=1,max=20"`
	Currency      string                   `json:"currency"`
	SalespersonID *uuid.UUID               `json:"salesperson_id"`
	Items         []CreateInvoiceItemInput `json:"items" binding:"required,min=1,dive"`
	Payment       *InitialPaymentInput     `json:"payment"`
}

// CreateInvoiceItemInput represents one requested line: the price is
// always taken from the current catalog, never from the caller
type CreateInvoiceItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// InitialPaymentInput represents a payment supplied with the creation request
type InitialPaymentInput struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required,min=1,max=30"`
	Reference string          `json:"reference" binding:"max=100"`
	Notes     string          `json:"notes" binding:"max=500"`
}

// ApplyPaymentRequest represents a request to record a payment
type ApplyPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required,min=1,max=30"`
	Reference string          `json:"reference" binding:"max=100"`
	Notes     string          `json:"notes" binding:"max=500"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// PaymentResponse represents a recorded payment in API responses
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID             `json:"id"`
	TenantID        uuid.UUID             `json:"tenant_id"`
	InvoiceNumber   int64                 `json:"invoice_number"`
	ControlNumber   string                `json:"control_number"`
	SourceQuoteID   *uuid.UUID            `json:"source_quote_id,omitempty"`
	SalespersonID   *uuid.UUID            `json:"salesperson_id,omitempty"`
	CompanyName     string                `json:"company_name"`
	CompanyTaxID    string                `json:"company_tax_id"`
	CompanyAddress  string                `json:"company_address,omitempty"`
	CustomerName    string                `json:"customer_name"`
	CustomerTaxID   string                `json:"customer_tax_id"`
	CustomerEmail   string                `json:"customer_email,omitempty"`
	CustomerAddress string                `json:"customer_address,omitempty"`
	CustomerPhone   string                `json:"customer_phone,omitempty"`
	Items           []InvoiceItemResponse `json:"items"`
	Payments        []PaymentResponse     `json:"payments"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	TaxAmount       decimal.Decimal       `json:"tax_amount"`
	Total           decimal.Decimal       `json:"total"`
	Currency        string                `json:"currency"`
	ExchangeRate    *decimal.Decimal      `json:"exchange_rate,omitempty"`
	SecondaryTotal  *decimal.Decimal      `json:"secondary_currency_total,omitempty"`
	AmountPaid      decimal.Decimal       `json:"amount_paid"`
	BalanceDue      decimal.Decimal       `json:"balance_due"`
	Status          string                `json:"status"`
	CreatedAt       time.Time             `json:"created_at"`
}

// InvoiceListItemResponse represents an invoice in list responses
type InvoiceListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber int64           `json:"invoice_number"`
	ControlNumber string          `json:"control_number"`
	CustomerName  string          `json:"customer_name"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToInvoiceResponse converts a domain Invoice to a response DTO
func ToInvoiceResponse(inv *invoicing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		}
	}
	payments := make([]PaymentResponse, len(inv.Payments))
	for i, p := range inv.Payments {
		payments[i] = PaymentResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			Currency:  p.Currency,
			Method:    string(p.Method),
			Reference: p.Reference,
			Notes:     p.Notes,
			CreatedAt: p.CreatedAt,
		}
	}

	return InvoiceResponse{
		ID:              inv.ID,
		TenantID:        inv.TenantID,
		InvoiceNumber:   inv.InvoiceNumber,
		ControlNumber:   inv.ControlNumber,
		SourceQuoteID:   inv.SourceQuoteID,
		SalespersonID:   inv.SalespersonID,
		CompanyName:     inv.CompanyName,
		CompanyTaxID:    inv.CompanyTaxID,
		CompanyAddress:  inv.CompanyAddress,
		CustomerName:    inv.CustomerName,
		CustomerTaxID:   inv.CustomerTaxID,
		CustomerEmail:   inv.CustomerEmail,
		CustomerAddress: inv.CustomerAddress,
		CustomerPhone:   inv.CustomerPhone,
		Items:           items,
		Payments:        payments,
		Subtotal:        inv.Subtotal,
		TaxAmount:       inv.TaxAmount,
		Total:           inv.Total,
		Currency:        inv.Currency,
		ExchangeRate:    inv.ExchangeRate,
		SecondaryTotal:  inv.SecondaryTotal,
		AmountPaid:      inv.AmountPaid(),
		BalanceDue:      inv.BalanceDue(),
		Status:          inv.Status.String(),
		CreatedAt:       inv.CreatedAt,
	}
}

// ToInvoiceListItemResponse converts a domain Invoice to a list item DTO
func ToInvoiceListItemResponse(inv *invoicing.Invoice) InvoiceListItemResponse {
	return InvoiceListItemResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		ControlNumber: inv.ControlNumber,
		CustomerName:  inv.CustomerName,
		Total:         inv.Total,
		Currency:      inv.Currency,
		AmountPaid:    inv.AmountPaid(),
		Status:        inv.Status.String(),
		CreatedAt:     inv.CreatedAt,
	}
}

// ==================== Quote DTOs ====================

// CreateQuoteRequest represents a request to create a quote
type CreateQuoteRequest struct {
	CustomerTaxID string                 `json:"customer_tax_id" binding:"required,min=1,max=20"`
	Currency      string                 `json:"currency"`
	Items         []CreateQuoteItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreateQuoteItemInput represents one quote line; UnitPrice overrides
// the catalog price when positive
type CreateQuoteItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// UpdateQuoteStatusRequest represents a status change request
type UpdateQuoteStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// QuoteListFilter represents filter options for the quote list
type QuoteListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// QuoteItemResponse represents a quote line in API responses
type QuoteItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	ManualPrice bool            `json:"manual_price"`
}

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID                 uuid.UUID           `json:"id"`
	TenantID           uuid.UUID           `json:"tenant_id"`
	QuoteNumber        string              `json:"quote_number"`
	CustomerName       string              `json:"customer_name"`
	CustomerTaxID      string              `json:"customer_tax_id"`
	Items              []QuoteItemResponse `json:"items"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	TaxAmount          decimal.Decimal     `json:"tax_amount"`
	Total              decimal.Decimal     `json:"total"`
	Currency           string              `json:"currency"`
	SecondaryTotal     *decimal.Decimal    `json:"secondary_currency_total,omitempty"`
	Status             string              `json:"status"`
	ConvertedInvoiceID *uuid.UUID          `json:"converted_invoice_id,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// ToQuoteResponse converts a domain Quote to a response DTO
func ToQuoteResponse(q *invoicing.Quote) QuoteResponse {
	items := make([]QuoteItemResponse, len(q.Items))
	for i, item := range q.Items {
		items[i] = QuoteItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			ManualPrice: item.ManualPrice,
		}
	}

	return QuoteResponse{
		ID:                 q.ID,
		TenantID:           q.TenantID,
		QuoteNumber:        q.QuoteNumber,
		CustomerName:       q.CustomerName,
		CustomerTaxID:      q.CustomerTaxID,
		Items:              items,
		Subtotal:           q.Subtotal,
		TaxAmount:          q.TaxAmount,
		Total:              q.Total,
		Currency:           q.Currency,
		SecondaryTotal:     q.SecondaryTotal,
		Status:             q.Status.String(),
		ConvertedInvoiceID: q.ConvertedInvoiceID,
		CreatedAt:          q.CreatedAt,
	}
}

// ==================== Settings DTOs ====================

// UpdateSettingsRequest represents a finance settings update
type UpdateSettingsRequest struct {
	Currency          string          `json:"currency" binding:"required,len=3"`
	SecondaryCurrency string          `json:"secondary_currency" binding:"omitempty,len=3"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	TrackSalesperson  bool            `json:"track_salesperson"`
}

// SettingsResponse represents finance settings in API responses
type SettingsResponse struct {
	TenantID          uuid.UUID       `json:"tenant_id"`
	Currency          string          `json:"currency"`
	SecondaryCurrency string          `json:"secondary_currency"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	TrackSalesperson  bool            `json:"track_salesperson"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToSettingsResponse converts domain FinanceSettings to a response DTO
func ToSettingsResponse(s *invoicing.FinanceSettings) SettingsResponse {
	return SettingsResponse{
		TenantID:          s.TenantID,
		Currency:          s.Currency,
		SecondaryCurrency: s.SecondaryCurrency,
		TaxRate:           s.TaxRate,
		TrackSalesperson:  s.TrackSalesperson,
		UpdatedAt:         s.UpdatedAt,
	}
}
