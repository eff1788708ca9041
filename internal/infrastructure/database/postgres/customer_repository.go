package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"invoice-dashboard/internal/domain/customer"
	"invoice-dashboard/internal/infrastructure/monitoring"
	"invoice-dashboard/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const (
	insertCustomerSQL = `INSERT INTO customers (name, email, image_url) VALUES ($1, $2, $3) RETURNING id::text`

	updateCustomerSQL = `UPDATE customers SET name = $1, email = $2, ` +
		`image_url = CASE WHEN $3::boolean THEN NULL ELSE COALESCE($4, image_url) END ` +
		`WHERE id = $5`

	deleteCustomerSQL = `DELETE FROM customers WHERE id = $1`

	listImageURLsSQL = `SELECT image_url FROM customers WHERE image_url IS NOT NULL`
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Insert(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	startTime := time.Now()
	err := withTx(ctx, r.db, r.logger, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, insertCustomerSQL, cust.Name, cust.Email, cust.ImageURL).Scan(&cust.ID)
	})
	monitoring.RecordDBQuery("InsertCustomer", monitoring.QueryStatus(err), time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.String("customerID", cust.ID))
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, cust *customer.Customer, clearImage bool) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	logCtx := r.logger.With(slog.String("customerID", cust.ID))

	startTime := time.Now()
	err := withTx(ctx, r.db, r.logger, func(tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, updateCustomerSQL, cust.Name, cust.Email, clearImage, cust.ImageURL, cust.ID)
		if err != nil {
			return err
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
	monitoring.RecordDBQuery("UpdateCustomer", monitoring.QueryStatus(err), time.Since(startTime))

	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Update affected zero rows, customer likely not found")
			return err
		}
		translated := translateDBError(err, logCtx)
		if !errors.Is(translated, apperrors.ErrNotFound) {
			logCtx.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		}
		return translated
	}

	logCtx.InfoContext(ctx, "Customer updated successfully")
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID string) error {
	logCtx := r.logger.With(slog.String("customerID", customerID))

	var affected int64
	startTime := time.Now()
	err := withTx(ctx, r.db, r.logger, func(tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, deleteCustomerSQL, customerID)
		affected = cmdTag.RowsAffected()
		return err
	})
	monitoring.RecordDBQuery("DeleteCustomer", monitoring.QueryStatus(err), time.Since(startTime))

	if err != nil {
		translated := translateDBError(err, logCtx)
		if errors.Is(translated, apperrors.ErrNotFound) {
			logCtx.InfoContext(ctx, "Delete skipped, identifier cannot match a customer")
			return nil
		}
		logCtx.ErrorContext(ctx, "Failed to delete customer", slog.Any("error", err))
		return translated
	}

	if affected == 0 {
		logCtx.InfoContext(ctx, "Delete affected zero rows, customer already absent")
		return nil
	}

	logCtx.InfoContext(ctx, "Customer deleted successfully")
	return nil
}

// ListImageURLs returns every image reference currently stored on a customer.
func (r *CustomerRepository) ListImageURLs(ctx context.Context) ([]string, error) {
	startTime := time.Now()
	rows, err := r.db.Query(ctx, listImageURLsSQL)
	if err != nil {
		monitoring.RecordDBQuery("ListImageURLs", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to query image urls", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query image urls: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	urls := make([]string, 0)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			monitoring.RecordDBQuery("ListImageURLs", "error", time.Since(startTime))
			r.logger.ErrorContext(ctx, "Failed to scan image url row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan image url row: %w", apperrors.ErrDatabase, err)
		}
		urls = append(urls, url)
	}

	if err := rows.Err(); err != nil {
		monitoring.RecordDBQuery("ListImageURLs", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Error iterating image url rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating image url rows: %w", apperrors.ErrDatabase, err)
	}

	monitoring.RecordDBQuery("ListImageURLs", "success", time.Since(startTime))
	r.logger.DebugContext(ctx, "Listed customer image urls", slog.Int("count", len(urls)))
	return urls, nil
}
