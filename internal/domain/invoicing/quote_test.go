package invoicing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuoteParams() NewQuoteParams {
	return NewQuoteParams{
		TenantID:  uuid.New(),
		CreatedBy: uuid.New(),
		QuoteSeq:  7,
		Customer:  CustomerSnapshot{Name: "Cliente Uno", TaxID: "V-11222333"},
		Currency:  "USD",
		TaxRate:   decimal.NewFromInt(16),
		Lines: []QuoteLineInput{
			{ProductID: uuid.New(), ProductName: "Producto A", CatalogPrice: dec("10.00"), Quantity: dec("2")},
		},
	}
}

func createTestQuote(t *testing.T) *Quote {
	q, err := NewQuote(testQuoteParams())
	require.NoError(t, err)
	q.ClearDomainEvents()
	return q
}

func TestFormatQuoteNumber(t *testing.T) {
	assert.Equal(t, "COT-00001", FormatQuoteNumber(1))
	assert.Equal(t, "COT-00123", FormatQuoteNumber(123))
}

func TestNewQuote(t *testing.T) {
	t.Run("computes totals with catalog price", func(t *testing.T) {
		q, err := NewQuote(testQuoteParams())
		require.NoError(t, err)

		assert.Equal(t, "COT-00007", q.QuoteNumber)
		assert.Equal(t, QuoteStatusSent, q.Status)
		assert.True(t, q.Subtotal.Equal(dec("20.00")))
		assert.True(t, q.TaxAmount.Equal(dec("3.20")))
		assert.True(t, q.Total.Equal(dec("23.20")))
		require.Len(t, q.Items, 1)
		assert.False(t, q.Items[0].ManualPrice)
	})

	t.Run("positive override replaces catalog price", func(t *testing.T) {
		p := testQuoteParams()
		p.Lines[0].Override = dec("8.00")
		q, err := NewQuote(p)
		require.NoError(t, err)

		assert.True(t, q.Items[0].UnitPrice.Equal(dec("8.00")))
		assert.True(t, q.Items[0].ManualPrice)
		assert.True(t, q.Subtotal.Equal(dec("16.00")))
	})

	t.Run("zero override falls back to catalog price", func(t *testing.T) {
		p := testQuoteParams()
		p.Lines[0].Override = decimal.Zero
		q, err := NewQuote(p)
		require.NoError(t, err)

		assert.True(t, q.Items[0].UnitPrice.Equal(dec("10.00")))
		assert.False(t, q.Items[0].ManualPrice)
	})

	t.Run("raises created event", func(t *testing.T) {
		q, err := NewQuote(testQuoteParams())
		require.NoError(t, err)

		events := q.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeQuoteCreated, events[0].EventType())
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		p := testQuoteParams()
		p.Lines = nil
		_, err := NewQuote(p)
		assert.Error(t, err)
	})
}

func TestQuote_UpdateStatus(t *testing.T) {
	t.Run("moves among pre-conversion statuses", func(t *testing.T) {
		q := createTestQuote(t)

		require.NoError(t, q.UpdateStatus(QuoteStatusAccepted))
		assert.Equal(t, QuoteStatusAccepted, q.Status)

		require.NoError(t, q.UpdateStatus(QuoteStatusRejected))
		assert.Equal(t, QuoteStatusRejected, q.Status)
	})

	t.Run("cannot set INVOICED directly", func(t *testing.T) {
		q := createTestQuote(t)
		err := q.UpdateStatus(QuoteStatusInvoiced)
		assert.Error(t, err)
	})

	t.Run("invoiced quote is immutable", func(t *testing.T) {
		q := createTestQuote(t)
		require.NoError(t, q.MarkInvoiced(uuid.New()))

		err := q.UpdateStatus(QuoteStatusAccepted)
		assert.Error(t, err)
	})
}

func TestQuote_MarkInvoiced(t *testing.T) {
	t.Run("records conversion and raises converted event", func(t *testing.T) {
		q := createTestQuote(t)
		invoiceID := uuid.New()

		require.NoError(t, q.MarkInvoiced(invoiceID))

		assert.Equal(t, QuoteStatusInvoiced, q.Status)
		require.NotNil(t, q.ConvertedInvoiceID)
		assert.Equal(t, invoiceID, *q.ConvertedInvoiceID)
		events := q.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeQuoteConverted, events[0].EventType())
	})

	t.Run("second conversion fails naming already invoiced", func(t *testing.T) {
		q := createTestQuote(t)
		require.NoError(t, q.MarkInvoiced(uuid.New()))

		err := q.MarkInvoiced(uuid.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already been invoiced")
	})

	t.Run("rejected quote cannot convert", func(t *testing.T) {
		q := createTestQuote(t)
		require.NoError(t, q.UpdateStatus(QuoteStatusRejected))

		err := q.CanConvert()
		assert.Error(t, err)
	})
}

func TestFinanceSettings(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s := NewFinanceSettings(uuid.New())
		assert.Equal(t, "USD", s.Currency)
		assert.Equal(t, "VES", s.SecondaryCurrency)
		assert.True(t, s.TaxRate.Equal(decimal.NewFromInt(16)))
		assert.False(t, s.TrackSalesperson)
	})

	t.Run("update validates tax rate bounds", func(t *testing.T) {
		s := NewFinanceSettings(uuid.New())

		err := s.Update("USD", "VES", decimal.NewFromInt(101), true)
		assert.Error(t, err)

		err = s.Update("USD", "VES", decimal.NewFromInt(8), true)
		require.NoError(t, err)
		assert.True(t, s.TaxRate.Equal(decimal.NewFromInt(8)))
		assert.True(t, s.TrackSalesperson)
	})
}
