package models

import (
	"time"

	"github.com/erpsuite/finance/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber   int64                   `gorm:"not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	ControlNumber   string                  `gorm:"type:varchar(20);not null"`
	SourceQuoteID   *uuid.UUID              `gorm:"type:uuid;uniqueIndex:idx_invoice_tenant_source_quote,priority:2"`
	SalespersonID   *uuid.UUID              `gorm:"type:uuid;index"`
	CreatorRole     string                  `gorm:"type:varchar(50)"`
	CompanyName     string                  `gorm:"type:varchar(200);not null"`
	CompanyTaxID    string                  `gorm:"type:varchar(50)"`
	CompanyAddress  string                  `gorm:"type:varchar(500)"`
	CustomerName    string                  `gorm:"type:varchar(200);not null"`
	CustomerTaxID   string                  `gorm:"type:varchar(50);index"`
	CustomerEmail   string                  `gorm:"type:varchar(200)"`
	CustomerAddress string                  `gorm:"type:varchar(500)"`
	CustomerPhone   string                  `gorm:"type:varchar(50)"`
	Items           []InvoiceItemModel      `gorm:"foreignKey:InvoiceID;references:ID"`
	Payments        []PaymentModel          `gorm:"foreignKey:InvoiceID;references:ID"`
	Subtotal        decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount       decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	Total           decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	Currency        string                  `gorm:"type:varchar(10);not null"`
	ExchangeRate    *decimal.Decimal        `gorm:"type:decimal(18,4)"`
	SecondaryTotal  *decimal.Decimal        `gorm:"type:decimal(18,2)"`
	Status          invoicing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'ISSUED';index"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	inv := &invoicing.Invoice{
		InvoiceNumber:   m.InvoiceNumber,
		ControlNumber:   m.ControlNumber,
		SourceQuoteID:   m.SourceQuoteID,
		SalespersonID:   m.SalespersonID,
		CreatorRole:     m.CreatorRole,
		CompanyName:     m.CompanyName,
		CompanyTaxID:    m.CompanyTaxID,
		CompanyAddress:  m.CompanyAddress,
		CustomerName:    m.CustomerName,
		CustomerTaxID:   m.CustomerTaxID,
		CustomerEmail:   m.CustomerEmail,
		CustomerAddress: m.CustomerAddress,
		CustomerPhone:   m.CustomerPhone,
		Subtotal:        m.Subtotal,
		TaxAmount:       m.TaxAmount,
		Total:           m.Total,
		Currency:        m.Currency,
		ExchangeRate:    m.ExchangeRate,
		SecondaryTotal:  m.SecondaryTotal,
		Status:          m.Status,
		Items:           make([]invoicing.InvoiceItem, len(m.Items)),
		Payments:        make([]invoicing.Payment, len(m.Payments)),
	}
	m.PopulateTenantAggregateRoot(&inv.TenantAggregateRoot)
	for i, item := range m.Items {
		inv.Items[i] = *item.ToDomain()
	}
	for i, p := range m.Payments {
		inv.Payments[i] = *p.ToDomain()
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *invoicing.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.ControlNumber = inv.ControlNumber
	m.SourceQuoteID = inv.SourceQuoteID
	m.SalespersonID = inv.SalespersonID
	m.CreatorRole = inv.CreatorRole
	m.CompanyName = inv.CompanyName
	m.CompanyTaxID = inv.CompanyTaxID
	m.CompanyAddress = inv.CompanyAddress
	m.CustomerName = inv.CustomerName
	m.CustomerTaxID = inv.CustomerTaxID
	m.CustomerEmail = inv.CustomerEmail
	m.CustomerAddress = inv.CustomerAddress
	m.CustomerPhone = inv.CustomerPhone
	m.Subtotal = inv.Subtotal
	m.TaxAmount = inv.TaxAmount
	m.Total = inv.Total
	m.Currency = inv.Currency
	m.ExchangeRate = inv.ExchangeRate
	m.SecondaryTotal = inv.SecondaryTotal
	m.Status = inv.Status
	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i, item := range inv.Items {
		m.Items[i] = *InvoiceItemModelFromDomain(&item)
	}
	m.Payments = make([]PaymentModel, len(inv.Payments))
	for i, p := range inv.Payments {
		m.Payments[i] = *PaymentModelFromDomain(&p)
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(inv *invoicing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is the persistence model for the InvoiceItem entity.
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem entity.
func (m *InvoiceItemModel) ToDomain() *invoicing.InvoiceItem {
	return &invoicing.InvoiceItem{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
		CreatedAt:   m.CreatedAt,
	}
}

// InvoiceItemModelFromDomain creates a new persistence model from a domain InvoiceItem entity.
func InvoiceItemModelFromDomain(i *invoicing.InvoiceItem) *InvoiceItemModel {
	return &InvoiceItemModel{
		ID:          i.ID,
		InvoiceID:   i.InvoiceID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		LineTotal:   i.LineTotal,
		CreatedAt:   i.CreatedAt,
	}
}

// PaymentModel is the persistence model for the Payment entity.
// Payments are append-only; rows are never updated after insert.
type PaymentModel struct {
	ID        uuid.UUID               `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID               `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	Currency  string                  `gorm:"type:varchar(10);not null"`
	Method    invoicing.PaymentMethod `gorm:"type:varchar(20);not null"`
	Reference string                  `gorm:"type:varchar(100)"`
	Notes     string                  `gorm:"type:varchar(500)"`
	CreatedAt time.Time               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *invoicing.Payment {
	return &invoicing.Payment{
		ID:        m.ID,
		InvoiceID: m.InvoiceID,
		Amount:    m.Amount,
		Currency:  m.Currency,
		Method:    m.Method,
		Reference: m.Reference,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment entity.
func PaymentModelFromDomain(p *invoicing.Payment) *PaymentModel {
	return &PaymentModel{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Method:    p.Method,
		Reference: p.Reference,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

// QuoteModel is the persistence model for the Quote aggregate root.
type QuoteModel struct {
	TenantAggregateModel
	QuoteSeq           int64                 `gorm:"not null;uniqueIndex:idx_quote_tenant_seq,priority:2"`
	QuoteNumber        string                `gorm:"type:varchar(20);not null"`
	CustomerName       string                `gorm:"type:varchar(200);not null"`
	CustomerTaxID      string                `gorm:"type:varchar(50);index"`
	CustomerEmail      string                `gorm:"type:varchar(200)"`
	CustomerAddress    string                `gorm:"type:varchar(500)"`
	CustomerPhone      string                `gorm:"type:varchar(50)"`
	Items              []QuoteItemModel      `gorm:"foreignKey:QuoteID;references:ID"`
	Subtotal           decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount          decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Total              decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Currency           string                `gorm:"type:varchar(10);not null"`
	ExchangeRate       *decimal.Decimal      `gorm:"type:decimal(18,4)"`
	SecondaryTotal     *decimal.Decimal      `gorm:"type:decimal(18,2)"`
	Status             invoicing.QuoteStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ConvertedInvoiceID *uuid.UUID            `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// ToDomain converts the persistence model to a domain Quote entity.
func (m *QuoteModel) ToDomain() *invoicing.Quote {
	q := &invoicing.Quote{
		QuoteSeq:           m.QuoteSeq,
		QuoteNumber:        m.QuoteNumber,
		CustomerName:       m.CustomerName,
		CustomerTaxID:      m.CustomerTaxID,
		CustomerEmail:      m.CustomerEmail,
		CustomerAddress:    m.CustomerAddress,
		CustomerPhone:      m.CustomerPhone,
		Subtotal:           m.Subtotal,
		TaxAmount:          m.TaxAmount,
		Total:              m.Total,
		Currency:           m.Currency,
		ExchangeRate:       m.ExchangeRate,
		SecondaryTotal:     m.SecondaryTotal,
		Status:             m.Status,
		ConvertedInvoiceID: m.ConvertedInvoiceID,
		Items:              make([]invoicing.QuoteItem, len(m.Items)),
	}
	m.PopulateTenantAggregateRoot(&q.TenantAggregateRoot)
	for i, item := range m.Items {
		q.Items[i] = *item.ToDomain()
	}
	return q
}

// FromDomain populates the persistence model from a domain Quote entity.
func (m *QuoteModel) FromDomain(q *invoicing.Quote) {
	m.FromDomainTenantAggregateRoot(q.TenantAggregateRoot)
	m.QuoteSeq = q.QuoteSeq
	m.QuoteNumber = q.QuoteNumber
	m.CustomerName = q.CustomerName
	m.CustomerTaxID = q.CustomerTaxID
	m.CustomerEmail = q.CustomerEmail
	m.CustomerAddress = q.CustomerAddress
	m.CustomerPhone = q.CustomerPhone
	m.Subtotal = q.Subtotal
	m.TaxAmount = q.TaxAmount
	m.Total = q.Total
	m.Currency = q.Currency
	m.ExchangeRate = q.ExchangeRate
	m.SecondaryTotal = q.SecondaryTotal
	m.Status = q.Status
	m.ConvertedInvoiceID = q.ConvertedInvoiceID
	m.Items = make([]QuoteItemModel, len(q.Items))
	for i, item := range q.Items {
		m.Items[i] = *QuoteItemModelFromDomain(&item)
	}
}

// QuoteModelFromDomain creates a new persistence model from a domain Quote entity.
func QuoteModelFromDomain(q *invoicing.Quote) *QuoteModel {
	m := &QuoteModel{}
	m.FromDomain(q)
	return m
}

// QuoteItemModel is the persistence model for the QuoteItem entity.
type QuoteItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	QuoteID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ManualPrice bool            `gorm:"not null;default:false"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (QuoteItemModel) TableName() string {
	return "quote_items"
}

// ToDomain converts the persistence model to a domain QuoteItem entity.
func (m *QuoteItemModel) ToDomain() *invoicing.QuoteItem {
	return &invoicing.QuoteItem{
		ID:          m.ID,
		QuoteID:     m.QuoteID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
		ManualPrice: m.ManualPrice,
		CreatedAt:   m.CreatedAt,
	}
}

// QuoteItemModelFromDomain creates a new persistence model from a domain QuoteItem entity.
func QuoteItemModelFromDomain(i *invoicing.QuoteItem) *QuoteItemModel {
	return &QuoteItemModel{
		ID:          i.ID,
		QuoteID:     i.QuoteID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		LineTotal:   i.LineTotal,
		ManualPrice: i.ManualPrice,
		CreatedAt:   i.CreatedAt,
	}
}

// FinanceSettingsModel is the persistence model for per-tenant finance settings.
type FinanceSettingsModel struct {
	BaseModel
	TenantID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Currency          string          `gorm:"type:varchar(10);not null"`
	SecondaryCurrency string          `gorm:"type:varchar(10);not null"`
	TaxRate           decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	TrackSalesperson  bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (FinanceSettingsModel) TableName() string {
	return "finance_settings"
}

// ToDomain converts the persistence model to domain FinanceSettings.
func (m *FinanceSettingsModel) ToDomain() *invoicing.FinanceSettings {
	return &invoicing.FinanceSettings{
		BaseEntity:        m.BaseModel.ToDomain(),
		TenantID:          m.TenantID,
		Currency:          m.Currency,
		SecondaryCurrency: m.SecondaryCurrency,
		TaxRate:           m.TaxRate,
		TrackSalesperson:  m.TrackSalesperson,
	}
}

// FromDomain populates the persistence model from domain FinanceSettings.
func (m *FinanceSettingsModel) FromDomain(s *invoicing.FinanceSettings) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.TenantID = s.TenantID
	m.Currency = s.Currency
	m.SecondaryCurrency = s.SecondaryCurrency
	m.TaxRate = s.TaxRate
	m.TrackSalesperson = s.TrackSalesperson
}

// FinanceSettingsModelFromDomain creates a new persistence model from domain FinanceSettings.
func FinanceSettingsModelFromDomain(s *invoicing.FinanceSettings) *FinanceSettingsModel {
	m := &FinanceSettingsModel{}
	m.FromDomain(s)
	return m
}

// TenantSequenceModel backs the per-tenant atomic counters used for
// invoice and quote numbering. Rows are only ever incremented.
type TenantSequenceModel struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(50);primaryKey"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TenantSequenceModel) TableName() string {
	return "tenant_sequences"
}
