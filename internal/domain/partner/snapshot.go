package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanyProfile is the issuing company snapshot fetched from the
// tenant-profile service at document creation time.
type CompanyProfile struct {
	TenantID uuid.UUID
	Name     string
	TaxID    string
	Address  string
	Phone    string
	Email    string
}

// CustomerRecord is a customer directory snapshot
type CustomerRecord struct {
	ID      uuid.UUID
	Name    string
	TaxID   string
	Email   string
	Address string
	Phone   string
}

// ProductSnapshot is a product catalog snapshot carrying the current
// price and available stock.
type ProductSnapshot struct {
	ID             uuid.UUID
	Name           string
	Price          decimal.Decimal
	AvailableStock decimal.Decimal
}

// CompanyGateway fetches the caller's company profile.
// A nil profile with nil error means the profile was unavailable.
type CompanyGateway interface {
	FetchProfile(ctx context.Context, token string) (*CompanyProfile, error)
}

// CustomerGateway looks up customers in the directory service.
// A nil record with nil error means no match was found.
type CustomerGateway interface {
	FindByTaxID(ctx context.Context, token, taxID string) (*CustomerRecord, error)
}

// ProductGateway fetches product snapshots from the catalog service.
// FetchMany issues lookups concurrently; missing products come back as
// nil entries in the result map rather than errors.
type ProductGateway interface {
	FetchByID(ctx context.Context, token string, id uuid.UUID) (*ProductSnapshot, error)
	FetchMany(ctx context.Context, token string, ids []uuid.UUID) (map[uuid.UUID]*ProductSnapshot, error)
}
