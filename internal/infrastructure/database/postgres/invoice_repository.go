package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"invoice-dashboard/internal/domain/invoice"
	"invoice-dashboard/internal/infrastructure/monitoring"
	"invoice-dashboard/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const (
	insertInvoiceSQL = `INSERT INTO invoices (customer_id, amount, status, date) VALUES ($1, $2, $3, $4) RETURNING id::text`
	updateInvoiceSQL = `UPDATE invoices SET customer_id = $1, amount = $2, status = $3 WHERE id = $4`
	deleteInvoiceSQL = `DELETE FROM invoices WHERE id = $1`
)

type InvoiceRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ invoice.Repository = (*InvoiceRepository)(nil)

func NewInvoiceRepository(db DBPool, logger *slog.Logger) *InvoiceRepository {
	if db == nil {
		panic("DBPool cannot be nil for InvoiceRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &InvoiceRepository{db: db, logger: logger.With("component", "InvoiceRepository")}
}

func (r *InvoiceRepository) Insert(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return fmt.Errorf("%w: invoice cannot be nil", apperrors.ErrInvalidArgument)
	}
	logCtx := r.logger.With(slog.String("customerID", inv.CustomerID))

	startTime := time.Now()
	err := withTx(ctx, r.db, r.logger, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, insertInvoiceSQL, inv.CustomerID, inv.Amount, string(inv.Status), inv.Date).Scan(&inv.ID)
	})
	monitoring.RecordDBQuery("InsertInvoice", monitoring.QueryStatus(err), time.Since(startTime))

	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to insert invoice", slog.Any("error", err))
		return translateDBError(err, logCtx)
	}

	logCtx.InfoContext(ctx, "Invoice inserted successfully", slog.String("invoiceID", inv.ID))
	return nil
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return fmt.Errorf("%w: invoice cannot be nil", apperrors.ErrInvalidArgument)
	}
	logCtx := r.logger.With(slog.String("invoiceID", inv.ID))

	startTime := time.Now()
	err := withTx(ctx, r.db, r.logger, func(tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, updateInvoiceSQL, inv.CustomerID, inv.Amount, string(inv.Status), inv.ID)
		if err != nil {
			return err
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
	monitoring.RecordDBQuery("UpdateInvoice", monitoring.QueryStatus(err), time.Since(startTime))

	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Update affected zero rows, invoice likely not found")
			return err
		}
		translated := translateDBError(err, logCtx)
		if !errors.Is(translated, apperrors.ErrNotFound) {
			logCtx.ErrorContext(ctx, "Failed to update invoice", slog.Any("error", err))
		}
		return translated
	}

	logCtx.InfoContext(ctx, "Invoice updated successfully")
	return nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, invoiceID string) error {
	logCtx := r.logger.With(slog.String("invoiceID", invoiceID))

	var affected int64
	startTime := time.Now()
	err := withTx(ctx, r.db, r.logger, func(tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, deleteInvoiceSQL, invoiceID)
		affected = cmdTag.RowsAffected()
		return err
	})
	monitoring.RecordDBQuery("DeleteInvoice", monitoring.QueryStatus(err), time.Since(startTime))

	if err != nil {
		translated := translateDBError(err, logCtx)
		if errors.Is(translated, apperrors.ErrNotFound) {
			logCtx.InfoContext(ctx, "Delete skipped, identifier cannot match an invoice")
			return nil
		}
		logCtx.ErrorContext(ctx, "Failed to delete invoice", slog.Any("error", err))
		return translated
	}

	if affected == 0 {
		logCtx.InfoContext(ctx, "Delete affected zero rows, invoice already absent")
		return nil
	}

	logCtx.InfoContext(ctx, "Invoice deleted successfully")
	return nil
}
