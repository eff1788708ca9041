package customer

import (
	"context"
	"errors"
	"log/slog"
	"os"

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

var _ Service = (*customerService)(nil)

type customerService struct {
	repo        Repository
	assets      AssetStore
	invalidator mutation.Invalidator
	pub         mutation.Publisher
	validator   *validation.Validator
	logger      *slog.Logger
}

func NewCustomerService(
	repo Repository,
	assets AssetStore,
	invalidator mutation.Invalidator,
	pub mutation.Publisher,
	logger *slog.Logger,
) Service {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if assets == nil {
		panic("asset store cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	return &customerService{
		repo:        repo,
		assets:      assets,
		invalidator: invalidator,
		pub:         pub,
		validator:   validation.New(),
		logger:      logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) Create(ctx context.Context, in Input) (mutation.Result, error) {
	in = normalize(in)
	if err := ValidateInput(s.validator, in); err != nil {
		s.logger.InfoContext(ctx, "Customer input rejected", slog.Any("error", err))
		monitoring.RecordMutation(mutation.EntityCustomer, "create", "rejected")
		return mutation.Result{}, err
	}

	imageURL, err := s.storeImage(ctx, in)
	if err != nil {
		monitoring.RecordMutation(mutation.EntityCustomer, "create", "failed")
		return mutation.Result{}, err
	}

	cust := &Customer{Name: in.Name, Email: in.Email, ImageURL: imageURL}
	if err := s.repo.Insert(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to insert customer", slog.Any("error", err))
		s.discardImage(ctx, imageURL)
		monitoring.RecordMutation(mutation.EntityCustomer, "create", "failed")
		return mutation.Result{}, apperrors.WrapDatabaseError(err, MsgCreateFail)
	}

	s.logger.InfoContext(ctx, "Customer created", slog.String("customerID", cust.ID))
	s.afterCommit(ctx, mutation.ActionCreated, cust.ID)
	monitoring.RecordMutation(mutation.EntityCustomer, "create", "success")
	return mutation.Rendered(MsgCreated), nil
}

func (s *customerService) Update(ctx context.Context, id string, in Input) (mutation.Result, error) {
	logCtx := s.logger.With(slog.String("customerID", id))

	in = normalize(in)
	if err := ValidateInput(s.validator, in); err != nil {
		logCtx.InfoContext(ctx, "Customer input rejected", slog.Any("error", err))
		monitoring.RecordMutation(mutation.EntityCustomer, "update", "rejected")
		return mutation.Result{}, err
	}

	imageURL, err := s.storeImage(ctx, in)
	if err != nil {
		monitoring.RecordMutation(mutation.EntityCustomer, "update", "failed")
		return mutation.Result{}, err
	}

	cust := &Customer{ID: id, Name: in.Name, Email: in.Email, ImageURL: imageURL}
	clearImage := in.ClearImage && imageURL == nil
	if err := s.repo.Update(ctx, cust, clearImage); err != nil {
		s.discardImage(ctx, imageURL)
		monitoring.RecordMutation(mutation.EntityCustomer, "update", "failed")
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Customer to update not found")
			return mutation.Result{}, &apperrors.AppError{Code: "NOT_FOUND", Message: MsgNotFound, Cause: err}
		}
		logCtx.ErrorContext(ctx, "Repository failed to update customer", slog.Any("error", err))
		return mutation.Result{}, apperrors.WrapDatabaseError(err, MsgUpdateFail)
	}

	logCtx.InfoContext(ctx, "Customer updated", slog.Bool("imageReplaced", imageURL != nil), slog.Bool("imageCleared", clearImage))
	s.afterCommit(ctx, mutation.ActionUpdated, id)
	monitoring.RecordMutation(mutation.EntityCustomer, "update", "success")
	return mutation.Redirect(mutation.CustomersPath), nil
}

func (s *customerService) Delete(ctx context.Context, id string) (mutation.Result, error) {
	logCtx := s.logger.With(slog.String("customerID", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		logCtx.ErrorContext(ctx, "Repository failed to delete customer", slog.Any("error", err))
		monitoring.RecordMutation(mutation.EntityCustomer, "delete", "failed")
		return mutation.Result{}, apperrors.WrapDatabaseError(err, MsgDeleteFail)
	}

	logCtx.InfoContext(ctx, "Customer deleted")
	s.afterCommit(ctx, mutation.ActionDeleted, id)
	monitoring.RecordMutation(mutation.EntityCustomer, "delete", "success")
	return mutation.Redirect(mutation.CustomersPath), nil
}

// storeImage writes the uploaded image, if any, and returns its reference.
func (s *customerService) storeImage(ctx context.Context, in Input) (*string, error) {
	if !in.HasImage() {
		return nil, nil
	}

	ref, err := s.assets.Save(ctx, in.Image.Filename, in.Image.Data)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to store customer image", slog.String("filename", in.Image.Filename), slog.Any("error", err))
		return nil, apperrors.WrapStorageError(err, MsgSaveImageFail)
	}

	monitoring.RecordAssetWritten(in.Image.Size())
	s.logger.DebugContext(ctx, "Customer image stored", slog.String("ref", ref))
	return &ref, nil
}

// discardImage removes an image written for a mutation that did not commit.
// Leftovers are picked up by the asset sweep job.
func (s *customerService) discardImage(ctx context.Context, ref *string) {
	if ref == nil {
		return
	}
	if err := s.assets.Remove(ctx, *ref); err != nil {
		s.logger.WarnContext(ctx, "Failed to remove image of failed mutation", slog.String("ref", *ref), slog.Any("error", err))
		return
	}
	monitoring.RecordAssetRemoved("compensation")
}

func (s *customerService) afterCommit(ctx context.Context, action, id string) {
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, mutation.CustomersPath); err != nil {
			s.logger.WarnContext(ctx, "Failed to invalidate cached views", slog.String("path", mutation.CustomersPath), slog.Any("error", err))
		}
	}

	if s.pub != nil {
		evt := mutation.Event{Entity: mutation.EntityCustomer, Action: action, ID: id}
		if err := s.pub.Publish(ctx, evt); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish customer event", slog.String("routingKey", evt.RoutingKey()), slog.Any("error", err))
		}
	}
}
