package invoice

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"invoice-dashboard/internal/domain/mutation"
	"invoice-dashboard/internal/infrastructure/monitoring"
	"invoice-dashboard/internal/pkg/apperrors"
	"invoice-dashboard/internal/pkg/validation"
)

type Service interface {
	Create(ctx context.Context, in Input) (mutation.Result, error)
	Update(ctx context.Context, id string, in Input) (mutation.Result, error)
	Delete(ctx context.Context, id string) (mutation.Result, error)
}

var _ Service = (*invoiceService)(nil)

type invoiceService struct {
	repo        Repository
	invalidator mutation.Invalidator
	pub         mutation.Publisher
	validator   *validation.Validator
	now         func() time.Time
	logger      *slog.Logger
}

func NewInvoiceService(repo Repository, invalidator mutation.Invalidator, pub mutation.Publisher, logger *slog.Logger) Service {
	if repo == nil {
		panic("invoice repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewInvoiceService, using default stderr handler")
	}
	return &invoiceService{
		repo:        repo,
		invalidator: invalidator,
		pub:         pub,
		validator:   validation.New(),
		now:         time.Now,
		logger:      logger.With(slog.String("component", "invoiceService")),
	}
}

func (s *invoiceService) Create(ctx context.Context, in Input) (mutation.Result, error) {
	inv, err := s.prepare(ctx, in, MsgCreateMissingFields)
	if err != nil {
		monitoring.RecordMutation(mutation.EntityInvoice, "create", "rejected")
		return mutation.Result{}, err
	}
	inv.Date = Today(s.now())

	if err := s.repo.Insert(ctx, &inv); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to insert invoice", slog.Any("error", err))
		monitoring.RecordMutation(mutation.EntityInvoice, "create", "failed")
		return mutation.Result{}, apperrors.WrapDatabaseError(err, MsgCreateFail)
	}

	s.logger.InfoContext(ctx, "Invoice created",
		slog.String("invoiceID", inv.ID),
		slog.String("customerID", inv.CustomerID),
		slog.Int64("amountCents", inv.Amount),
	)
	s.afterCommit(ctx, mutation.ActionCreated, inv.ID)
	monitoring.RecordMutation(mutation.EntityInvoice, "create", "success")
	return mutation.Redirect(mutation.InvoicesPath), nil
}

func (s *invoiceService) Update(ctx context.Context, id string, in Input) (mutation.Result, error) {
	logCtx := s.logger.With(slog.String("invoiceID", id))

	inv, err := s.prepare(ctx, in, MsgUpdateMissingFields)
	if err != nil {
		monitoring.RecordMutation(mutation.EntityInvoice, "update", "rejected")
		return mutation.Result{}, err
	}
	inv.ID = id

	if err := s.repo.Update(ctx, &inv); err != nil {
		monitoring.RecordMutation(mutation.EntityInvoice, "update", "failed")
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Invoice to update not found")
			return mutation.Result{}, &apperrors.AppError{Code: "NOT_FOUND", Message: MsgNotFound, Cause: err}
		}
		logCtx.ErrorContext(ctx, "Repository failed to update invoice", slog.Any("error", err))
		return mutation.Result{}, apperrors.WrapDatabaseError(err, MsgUpdateFail)
	}

	logCtx.InfoContext(ctx, "Invoice updated", slog.String("status", string(inv.Status)))
	s.afterCommit(ctx, mutation.ActionUpdated, id)
	monitoring.RecordMutation(mutation.EntityInvoice, "update", "success")
	return mutation.Redirect(mutation.InvoicesPath), nil
}

func (s *invoiceService) Delete(ctx context.Context, id string) (mutation.Result, error) {
	logCtx := s.logger.With(slog.String("invoiceID", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		logCtx.ErrorContext(ctx, "Repository failed to delete invoice", slog.Any("error", err))
		monitoring.RecordMutation(mutation.EntityInvoice, "delete", "failed")
		return mutation.Result{}, apperrors.WrapDatabaseError(err, MsgDeleteFail)
	}

	logCtx.InfoContext(ctx, "Invoice deleted")
	s.afterCommit(ctx, mutation.ActionDeleted, id)
	monitoring.RecordMutation(mutation.EntityInvoice, "delete", "success")
	return mutation.Redirect(mutation.InvoicesPath), nil
}

func (s *invoiceService) prepare(ctx context.Context, in Input, rejectMsg string) (Invoice, error) {
	if err := ValidateInput(s.validator, in, rejectMsg); err != nil {
		s.logger.InfoContext(ctx, "Invoice input rejected", slog.Any("error", err))
		return Invoice{}, err
	}
	inv, ok := ToRecord(in)
	if !ok {
		// Validation already rejects amounts below one cent.
		fields := apperrors.FieldErrors{}
		fields.Add("amount", inputMessages["amount"][""])
		return Invoice{}, apperrors.NewFormValidationError(rejectMsg, fields)
	}
	return inv, nil
}

func (s *invoiceService) afterCommit(ctx context.Context, action, id string) {
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, mutation.InvoicesPath); err != nil {
			s.logger.WarnContext(ctx, "Failed to invalidate cached views", slog.String("path", mutation.InvoicesPath), slog.Any("error", err))
		}
	}

	if s.pub != nil {
		evt := mutation.Event{Entity: mutation.EntityInvoice, Action: action, ID: id}
		if err := s.pub.Publish(ctx, evt); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish invoice event", slog.String("routingKey", evt.RoutingKey()), slog.Any("error", err))
		}
	}
}
