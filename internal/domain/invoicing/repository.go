package invoicing

import (
	"context"

	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// Save persists the invoice with items and payments atomically,
	// writing pending domain events to the outbox in the same transaction
	Save(ctx context.Context, invoice *Invoice) error

	// FindByIDForTenant finds an invoice by ID for a specific tenant,
	// with items and payments loaded
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// UpdateLocked loads the invoice with items and payments under a
	// row-level write lock, applies fn, and persists the mutated state
	// together with new payments and outbox events in one transaction.
	// Concurrent payment attempts on the same invoice serialize here.
	UpdateLocked(ctx context.Context, tenantID, id uuid.UUID, fn func(inv *Invoice) error) (*Invoice, error)

	// FindBySourceQuote finds the invoice created from the given quote, if any
	FindBySourceQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (*Invoice, error)

	// FindAllForTenant finds invoices for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// CountForTenant counts invoices for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	// Save persists the quote with items atomically, writing pending
	// domain events to the outbox in the same transaction
	Save(ctx context.Context, quote *Quote) error

	// FindByIDForTenant finds a quote by ID for a specific tenant with items loaded
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quote, error)

	// FindAllForTenant finds quotes for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Quote, error)

	// CountForTenant counts quotes for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// SettingsRepository defines the interface for finance settings persistence
type SettingsRepository interface {
	// GetOrCreate returns the tenant's settings, creating the default row
	// on first access
	GetOrCreate(ctx context.Context, tenantID uuid.UUID) (*FinanceSettings, error)

	// Save persists updated settings
	Save(ctx context.Context, settings *FinanceSettings) error
}

// Sequence names used with SequenceRepository
const (
	SequenceInvoice = "invoice"
	SequenceQuote   = "quote"
)

// SequenceRepository hands out per-tenant monotonic numbers.
// Next must be safe under concurrent callers; two concurrent invoice
// creations for the same tenant must never receive the same value.
type SequenceRepository interface {
	Next(ctx context.Context, tenantID uuid.UUID, name string) (int64, error)
}
