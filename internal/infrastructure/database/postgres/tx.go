package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"invoice-dashboard/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

// withTx runs fn in its own transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func withTx(ctx context.Context, db DBPool, logger *slog.Logger, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrDatabase, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logger.ErrorContext(ctx, "Failed to rollback transaction", slog.Any("error", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%w: failed to commit transaction: %w", apperrors.ErrDatabase, err)
	}
	return nil
}
