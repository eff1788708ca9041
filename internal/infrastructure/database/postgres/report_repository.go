package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"invoice-dashboard/internal/domain/report"
	"invoice-dashboard/internal/infrastructure/monitoring"
	"invoice-dashboard/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const invoicesByAmountSQL = `
	SELECT invoices.amount, customers.name
	FROM invoices
	JOIN customers ON invoices.customer_id = customers.id
	WHERE invoices.amount = $1
	ORDER BY customers.name ASC`

const customerTotalsSQL = `
	SELECT
		customers.id::text,
		customers.name,
		customers.email,
		customers.image_url,
		COUNT(invoices.id) AS total_invoices,
		COALESCE(SUM(CASE WHEN invoices.status = 'pending' THEN invoices.amount ELSE 0 END), 0)::bigint AS total_pending,
		COALESCE(SUM(CASE WHEN invoices.status = 'paid' THEN invoices.amount ELSE 0 END), 0)::bigint AS total_paid
	FROM customers
	LEFT JOIN invoices ON customers.id = invoices.customer_id
	GROUP BY customers.id, customers.name, customers.email, customers.image_url
	ORDER BY customers.name ASC`

type ReportRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ report.Repository = (*ReportRepository)(nil)

func NewReportRepository(db DBPool, logger *slog.Logger) *ReportRepository {
	if db == nil {
		panic("DBPool cannot be nil for ReportRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &ReportRepository{db: db, logger: logger.With("component", "ReportRepository")}
}

func (r *ReportRepository) InvoicesByAmount(ctx context.Context, amountCents int64) ([]report.InvoiceAmount, error) {
	logCtx := r.logger.With(slog.String("operation", "InvoicesByAmount"), slog.Int64("amountCents", amountCents))

	startTime := time.Now()
	rows, err := r.db.Query(ctx, invoicesByAmountSQL, amountCents)
	if err != nil {
		monitoring.RecordDBQuery("InvoicesByAmount", "error", time.Since(startTime))
		logCtx.ErrorContext(ctx, "Failed to query invoices by amount", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query invoices by amount: %w", apperrors.ErrDatabase, err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (report.InvoiceAmount, error) {
		var ia report.InvoiceAmount
		err := row.Scan(&ia.Amount, &ia.Name)
		return ia, err
	})
	monitoring.RecordDBQuery("InvoicesByAmount", monitoring.QueryStatus(err), time.Since(startTime))
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to read invoice rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to read invoice rows: %w", apperrors.ErrDatabase, err)
	}

	logCtx.DebugContext(ctx, "Invoices by amount loaded", slog.Int("count", len(result)))
	return result, nil
}

func (r *ReportRepository) CustomerTotals(ctx context.Context) ([]report.CustomerTotals, error) {
	logCtx := r.logger.With(slog.String("operation", "CustomerTotals"))

	startTime := time.Now()
	rows, err := r.db.Query(ctx, customerTotalsSQL)
	if err != nil {
		monitoring.RecordDBQuery("CustomerTotals", "error", time.Since(startTime))
		logCtx.ErrorContext(ctx, "Failed to query customer totals", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query customer totals: %w", apperrors.ErrDatabase, err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (report.CustomerTotals, error) {
		var ct report.CustomerTotals
		err := row.Scan(&ct.ID, &ct.Name, &ct.Email, &ct.ImageURL, &ct.TotalInvoices, &ct.TotalPending, &ct.TotalPaid)
		return ct, err
	})
	monitoring.RecordDBQuery("CustomerTotals", monitoring.QueryStatus(err), time.Since(startTime))
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to read customer totals rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to read customer totals rows: %w", apperrors.ErrDatabase, err)
	}

	logCtx.DebugContext(ctx, "Customer totals loaded", slog.Int("count", len(result)))
	return result, nil
}
