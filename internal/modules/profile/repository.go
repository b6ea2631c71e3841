package profile

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no profile matches the given user_id.
	ErrNotFound = errors.New("user profile not found")
	// ErrDuplicate is returned when an insert collides with an existing user_id.
	ErrDuplicate = errors.New("user profile already exists")
)

// Repository is the persistence boundary for user profiles.
type Repository interface {
	Create(ctx context.Context, p *UserProfile) error
	GetByID(ctx context.Context, userID string) (*UserProfile, error)
	Update(ctx context.Context, userID string, req *UpdateUserProfileRequest) (*UserProfile, error)
	Delete(ctx context.Context, userID string) (bool, error)
}
