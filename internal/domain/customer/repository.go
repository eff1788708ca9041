package customer

import "context"

type Repository interface {
	// Insert stores c and sets its ID.
	Insert(ctx context.Context, c *Customer) error

	// Update rewrites name and email. A nil ImageURL keeps the stored image
	// unless clearImage is set. Returns apperrors.ErrNotFound when no row
	// matches c.ID.
	Update(ctx context.Context, c *Customer, clearImage bool) error

	// Delete is a no-op when the customer does not exist.
	Delete(ctx context.Context, id string) error
}

// AssetStore persists uploaded customer images and hands back the public
// reference stored in image_url.
type AssetStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
	Remove(ctx context.Context, ref string) error
}
