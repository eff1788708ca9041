package postgres

import (
	"context"
	"errors"
	"testing"

	"invoice-dashboard/internal/domain/invoice"
	"invoice-dashboard/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupInvoiceRepo(t *testing.T) (context.Context, *InvoiceRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}
	t.Cleanup(mockPool.Close)

	return context.Background(), NewInvoiceRepository(mockPool, logger), mockPool
}

func TestInvoiceRepository_Insert(t *testing.T) {
	t.Run("persists cents, status and date", func(t *testing.T) {
		ctx, repo, mockPool := setupInvoiceRepo(t)
		inv := &invoice.Invoice{CustomerID: "c1", Amount: 5000, Status: invoice.StatusPending, Date: "2025-01-31"}

		mockPool.ExpectBegin()
		mockPool.ExpectQuery("INSERT INTO invoices").
			WithArgs("c1", int64(5000), "pending", "2025-01-31").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("inv-1"))
		mockPool.ExpectCommit()

		require.NoError(t, repo.Insert(ctx, inv))
		assert.Equal(t, "inv-1", inv.ID)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("foreign key violation", func(t *testing.T) {
		ctx, repo, mockPool := setupInvoiceRepo(t)
		inv := &invoice.Invoice{CustomerID: "ghost", Amount: 100, Status: invoice.StatusPaid, Date: "2025-01-31"}

		mockPool.ExpectBegin()
		mockPool.ExpectQuery("INSERT INTO invoices").
			WithArgs("ghost", int64(100), "paid", "2025-01-31").
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "invoices_customer_id_fkey"})
		mockPool.ExpectRollback()

		err := repo.Insert(ctx, inv)

		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		assert.Empty(t, inv.ID)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})
}

func TestInvoiceRepository_Update(t *testing.T) {
	t.Run("updates without touching the date", func(t *testing.T) {
		ctx, repo, mockPool := setupInvoiceRepo(t)
		inv := &invoice.Invoice{ID: "inv-1", CustomerID: "c1", Amount: 5000, Status: invoice.StatusPaid}

		mockPool.ExpectBegin()
		mockPool.ExpectExec(`UPDATE invoices SET customer_id = \$1, amount = \$2, status = \$3 WHERE id = \$4`).
			WithArgs("c1", int64(5000), "paid", "inv-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectCommit()

		require.NoError(t, repo.Update(ctx, inv))
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("zero rows is not found", func(t *testing.T) {
		ctx, repo, mockPool := setupInvoiceRepo(t)

		mockPool.ExpectBegin()
		mockPool.ExpectExec("UPDATE invoices").
			WithArgs("c1", int64(1), "paid", "missing").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mockPool.ExpectRollback()

		err := repo.Update(ctx, &invoice.Invoice{ID: "missing", CustomerID: "c1", Amount: 1, Status: invoice.StatusPaid})

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("database failure", func(t *testing.T) {
		ctx, repo, mockPool := setupInvoiceRepo(t)

		mockPool.ExpectBegin()
		mockPool.ExpectExec("UPDATE invoices").
			WithArgs("c1", int64(1), "paid", "inv-1").
			WillReturnError(errors.New("connection reset"))
		mockPool.ExpectRollback()

		err := repo.Update(ctx, &invoice.Invoice{ID: "inv-1", CustomerID: "c1", Amount: 1, Status: invoice.StatusPaid})

		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestInvoiceRepository_Delete(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		ctx, repo, mockPool := setupInvoiceRepo(t)

		mockPool.ExpectBegin()
		mockPool.ExpectExec("DELETE FROM invoices").WithArgs("inv-1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mockPool.ExpectCommit()
		mockPool.ExpectBegin()
		mockPool.ExpectExec("DELETE FROM invoices").WithArgs("inv-1").WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mockPool.ExpectCommit()

		require.NoError(t, repo.Delete(ctx, "inv-1"))
		require.NoError(t, repo.Delete(ctx, "inv-1"))
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("database failure", func(t *testing.T) {
		ctx, repo, mockPool := setupInvoiceRepo(t)

		mockPool.ExpectBegin()
		mockPool.ExpectExec("DELETE FROM invoices").WithArgs("inv-1").WillReturnError(errors.New("timeout"))
		mockPool.ExpectRollback()

		assert.ErrorIs(t, repo.Delete(ctx, "inv-1"), apperrors.ErrDatabase)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})
}
