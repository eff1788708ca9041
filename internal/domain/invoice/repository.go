package invoice

import "context"

type Repository interface {
	// Insert stores inv and sets its ID.
	Insert(ctx context.Context, inv *Invoice) error

	// Update replaces customer, amount and status. The date is never touched.
	// Returns apperrors.ErrNotFound when no row matches inv.ID.
	Update(ctx context.Context, inv *Invoice) error

	Delete(ctx context.Context, id string) error
}
