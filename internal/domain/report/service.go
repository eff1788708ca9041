package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"invoice-dashboard/internal/domain/mutation"
	"invoice-dashboard/internal/infrastructure/monitoring"
	"invoice-dashboard/internal/pkg/apperrors"
	"invoice-dashboard/internal/pkg/validation"
)

// Query selects a report. Amount optionally overrides the invoice amount
// filter and is ignored for the customers report.
type Query struct {
	Type   string
	Amount string
}

type Service interface {
	Run(ctx context.Context, q Query) (any, error)
	InvoicesByAmount(ctx context.Context, amountCents int64) ([]InvoiceAmount, error)
	CustomerTotals(ctx context.Context) ([]CustomerTotals, error)
}

var _ Service = (*reportService)(nil)

type reportService struct {
	repo          Repository
	cache         ViewCache
	defaultAmount int64
	logger        *slog.Logger
}

// NewReportService builds the report service. cache may be nil, in which case
// every query goes to the repository.
func NewReportService(repo Repository, cache ViewCache, defaultAmountCents int64, logger *slog.Logger) Service {
	if repo == nil {
		panic("report repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &reportService{
		repo:          repo,
		cache:         cache,
		defaultAmount: defaultAmountCents,
		logger:        logger.With(slog.String("component", "reportService")),
	}
}

func (s *reportService) Run(ctx context.Context, q Query) (any, error) {
	switch q.Type {
	case TypeInvoices:
		amount := s.defaultAmount
		if strings.TrimSpace(q.Amount) != "" {
			cents, ok := validation.ToCents(q.Amount)
			if !ok {
				return nil, &apperrors.AppError{Code: "INVALID_ARGUMENT", Message: MsgInvalidAmount, Cause: apperrors.ErrInvalidArgument}
			}
			amount = cents
		}
		return s.InvoicesByAmount(ctx, amount)
	case TypeCustomers:
		return s.CustomerTotals(ctx)
	default:
		s.logger.InfoContext(ctx, "Rejected report query", slog.String("type", q.Type))
		return nil, &apperrors.AppError{Code: "INVALID_ARGUMENT", Message: MsgInvalidType, Cause: apperrors.ErrInvalidArgument}
	}
}

func (s *reportService) InvoicesByAmount(ctx context.Context, amountCents int64) ([]InvoiceAmount, error) {
	key := fmt.Sprintf("report:%s:%d", TypeInvoices, amountCents)
	return cached(ctx, s, key, func() ([]InvoiceAmount, error) {
		return s.repo.InvoicesByAmount(ctx, amountCents)
	})
}

func (s *reportService) CustomerTotals(ctx context.Context) ([]CustomerTotals, error) {
	key := "report:" + TypeCustomers
	return cached(ctx, s, key, func() ([]CustomerTotals, error) {
		return s.repo.CustomerTotals(ctx)
	})
}

// dependsOn lists the listing paths every report is derived from. Both
// reports join customers with invoices.
var dependsOn = []string{mutation.CustomersPath, mutation.InvoicesPath}

// cached reads key from the view cache and falls back to load. Cache errors
// are logged and treated as misses. The result is only stored if no
// dependent path was invalidated while load ran.
func cached[T any](ctx context.Context, s *reportService, key string, load func() ([]T, error)) ([]T, error) {
	logCtx := s.logger.With(slog.String("key", key))

	var snap Snapshot
	if s.cache != nil {
		var rows []T
		hit, err := s.cache.Get(ctx, key, &rows)
		if err != nil {
			logCtx.WarnContext(ctx, "View cache read failed", slog.Any("error", err))
		}
		monitoring.RecordCacheLookup(hit)
		if hit && err == nil {
			if rows == nil {
				rows = []T{}
			}
			return rows, nil
		}

		snap, err = s.cache.Snapshot(ctx, dependsOn...)
		if err != nil {
			logCtx.WarnContext(ctx, "View cache snapshot failed, result will not be cached", slog.Any("error", err))
			snap = nil
		}
	}

	rows, err := load()
	if err != nil {
		logCtx.ErrorContext(ctx, "Report query failed", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, MsgQueryFailed)
	}
	if rows == nil {
		rows = []T{}
	}

	if snap != nil {
		if err := s.cache.Set(ctx, key, rows, snap); err != nil {
			logCtx.WarnContext(ctx, "View cache write failed", slog.Any("error", err))
		}
	}
	return rows, nil
}
