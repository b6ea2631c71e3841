package interaction

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no interaction matches the given identity.
var ErrNotFound = errors.New("interaction not found")

// Repository is the persistence boundary for interactions and the joined
// interaction-with-product view.
type Repository interface {
	// Create inserts an interaction and fills its database-assigned timestamps.
	Create(ctx context.Context, in *Interaction) error
	// GetByID returns the interaction with the given interaction_id, or ErrNotFound.
	GetByID(ctx context.Context, interactionID string) (*Interaction, error)
	// LatestForPair returns the most recent interaction for a user-product
	// pair, or ErrNotFound. Pair-addressed updates and deletes target this row.
	LatestForPair(ctx context.Context, userID, productID string) (*Interaction, error)
	// UpdateByID applies the non-nil fields of req and returns the stored row.
	UpdateByID(ctx context.Context, interactionID string, req *UpdateInteractionRequest) (*Interaction, error)
	// DeleteByID removes an interaction, reporting whether a row existed.
	DeleteByID(ctx context.Context, interactionID string) (bool, error)
	// List returns joined interaction rows matching the filters, newest first.
	List(ctx context.Context, f *ListFilters) ([]*InteractionWithProduct, error)
	// SentimentByAttributes returns a user's joined interaction rows for
	// products matching the attribute filters, newest first.
	SentimentByAttributes(ctx context.Context, userID string, f *SentimentFilters) ([]*InteractionWithProduct, error)
}
