package product

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no product matches the given product_id.
	ErrNotFound = errors.New("product not found")
	// ErrDuplicate is returned when an insert collides with an existing product_id.
	ErrDuplicate = errors.New("product already exists")
)

// Repository is the persistence boundary for products.
type Repository interface {
	// Create inserts a product and fills its database-assigned timestamps.
	Create(ctx context.Context, p *Product) error
	// GetByID returns the product with the given product_id, or ErrNotFound.
	GetByID(ctx context.Context, productID string) (*Product, error)
	// Update applies the non-nil fields of req and returns the stored row.
	// A request with no populated fields reads the current row instead.
	Update(ctx context.Context, productID string, req *UpdateProductRequest) (*Product, error)
	// Delete removes a product, reporting whether a row existed.
	Delete(ctx context.Context, productID string) (bool, error)
	// Search returns products matching the filters, newest first.
	Search(ctx context.Context, f *SearchFilters) ([]*Product, error)
}
