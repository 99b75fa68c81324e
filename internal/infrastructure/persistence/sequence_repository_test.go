package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSequenceRepository_Next(t *testing.T) {
	t.Run("first call creates counter and returns 1", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		repo := NewGormSequenceRepository(db.DB)
		tenantID := uuid.New()

		mock.ExpectQuery(`INSERT INTO tenant_sequences`).
			WithArgs(tenantID, "invoice_number").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(1)))

		value, err := repo.Next(context.Background(), tenantID, "invoice_number")
		require.NoError(t, err)
		assert.Equal(t, int64(1), value)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("subsequent call returns incremented value", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		repo := NewGormSequenceRepository(db.DB)
		tenantID := uuid.New()

		mock.ExpectQuery(`INSERT INTO tenant_sequences`).
			WithArgs(tenantID, "quote_number").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(42)))

		value, err := repo.Next(context.Background(), tenantID, "quote_number")
		require.NoError(t, err)
		assert.Equal(t, int64(42), value)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		repo := NewGormSequenceRepository(db.DB)
		tenantID := uuid.New()

		mock.ExpectQuery(`INSERT INTO tenant_sequences`).
			WithArgs(tenantID, "invoice_number").
			WillReturnError(assert.AnError)

		value, err := repo.Next(context.Background(), tenantID, "invoice_number")
		assert.Error(t, err)
		assert.Equal(t, int64(0), value)
	})

	t.Run("counters are independent per name", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		repo := NewGormSequenceRepository(db.DB)
		tenantID := uuid.New()

		mock.ExpectQuery(`INSERT INTO tenant_sequences`).
			WithArgs(tenantID, "invoice_number").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(7)))
		mock.ExpectQuery(`INSERT INTO tenant_sequences`).
			WithArgs(tenantID, "quote_number").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(3)))

		invoiceSeq, err := repo.Next(context.Background(), tenantID, "invoice_number")
		require.NoError(t, err)
		quoteSeq, err := repo.Next(context.Background(), tenantID, "quote_number")
		require.NoError(t, err)

		assert.Equal(t, int64(7), invoiceSeq)
		assert.Equal(t, int64(3), quoteSeq)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
