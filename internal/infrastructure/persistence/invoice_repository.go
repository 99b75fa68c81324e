package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erpsuite/finance/internal/domain/invoicing"
	"github.com/erpsuite/finance/internal/domain/shared"
	"github.com/erpsuite/finance/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements invoicing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormInvoiceRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Save persists the invoice header, items and payments atomically.
// Pending domain events are written to the outbox in the same transaction.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.InvoiceModelFromDomain(invoice)

		if err := tx.Omit("Items", "Payments").Save(model).Error; err != nil {
			return err
		}

		// Items are frozen at issuance; payments are append-only.
		// Save handles both insert and update by primary key.
		for i := range invoice.Items {
			invoice.Items[i].InvoiceID = invoice.ID
			itemModel := models.InvoiceItemModelFromDomain(&invoice.Items[i])
			if err := tx.Save(itemModel).Error; err != nil {
				return err
			}
		}
		for i := range invoice.Payments {
			invoice.Payments[i].InvoiceID = invoice.ID
			paymentModel := models.PaymentModelFromDomain(&invoice.Payments[i])
			if err := tx.Save(paymentModel).Error; err != nil {
				return err
			}
		}

		events := invoice.GetDomainEvents()
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	invoice.ClearDomainEvents()
	return nil
}

// FindByIDForTenant finds an invoice by ID within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// UpdateLocked loads the invoice under a row-level write lock, applies fn
// and persists the mutated state in the same transaction. Concurrent
// payments against the same invoice serialize on the row lock, so each
// caller sees the balance left by the previous one.
func (r *GormInvoiceRepository) UpdateLocked(ctx context.Context, tenantID, id uuid.UUID, fn func(inv *invoicing.Invoice) error) (*invoicing.Invoice, error) {
	var result *invoicing.Invoice

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.InvoiceModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND id = ?", tenantID, id).
			First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Where("invoice_id = ?", model.ID).Find(&model.Items).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", model.ID).Find(&model.Payments).Error; err != nil {
			return err
		}

		invoice := model.ToDomain()
		existingPayments := make(map[uuid.UUID]struct{}, len(invoice.Payments))
		for _, p := range invoice.Payments {
			existingPayments[p.ID] = struct{}{}
		}

		if err := fn(invoice); err != nil {
			return err
		}

		invoice.IncrementVersion()
		invoice.UpdatedAt = time.Now()

		updates := tx.Model(&models.InvoiceModel{}).
			Where("id = ?", invoice.ID).
			Updates(map[string]interface{}{
				"status":     invoice.Status,
				"version":    invoice.Version,
				"updated_at": invoice.UpdatedAt,
			})
		if updates.Error != nil {
			return updates.Error
		}

		// Insert only payments appended by fn
		for i := range invoice.Payments {
			if _, ok := existingPayments[invoice.Payments[i].ID]; ok {
				continue
			}
			invoice.Payments[i].InvoiceID = invoice.ID
			paymentModel := models.PaymentModelFromDomain(&invoice.Payments[i])
			if err := tx.Create(paymentModel).Error; err != nil {
				return err
			}
		}

		events := invoice.GetDomainEvents()
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		invoice.ClearDomainEvents()
		result = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// FindBySourceQuote finds the invoice created from the given quote, if any
func (r *GormInvoiceRepository) FindBySourceQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("tenant_id = ? AND source_quote_id = ?", tenantID, quoteID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all invoices for a tenant with filtering
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoicing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Preload("Items").Preload("Payments").Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]invoicing.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, nil
}

// CountForTenant counts invoices for a tenant with optional filters
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, InvoiceSortFields, "invoice_number")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("customer_name ILIKE ? OR control_number ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_tax_id":
			query = query.Where("customer_tax_id = ?", value)
		case "salesperson_id":
			query = query.Where("salesperson_id = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)
