package profile

import (
	"time"

	"github.com/talkshopapp/talkshop-backend/internal/storage"
)

// UserProfile is the taste memory kept per user. The products bag holds
// aggregated preference state keyed by the upstream profiler; it is stored
// and returned verbatim.
type UserProfile struct {
	UserID             string          `json:"user_id"`
	Gender             string          `json:"gender,omitempty"`
	Products           storage.JSONMap `json:"products"`
	Metadata           storage.JSONMap `json:"metadata"`
	ProfileCreatedAt   *time.Time      `json:"profile_created_at,omitempty"`
	ProfileLastUpdated *time.Time      `json:"profile_last_updated,omitempty"`
	TotalSelections    *int            `json:"total_selections,omitempty"`
	TotalRejections    *int            `json:"total_rejections,omitempty"`
	ProfileConfidence  *float64        `json:"profile_confidence,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type CreateUserProfileRequest struct {
	UserID             string          `json:"user_id" validate:"required"`
	Gender             string          `json:"gender,omitempty"`
	Products           storage.JSONMap `json:"products,omitempty"`
	Metadata           storage.JSONMap `json:"metadata,omitempty"`
	ProfileCreatedAt   *time.Time      `json:"profile_created_at,omitempty"`
	ProfileLastUpdated *time.Time      `json:"profile_last_updated,omitempty"`
	TotalSelections    *int            `json:"total_selections,omitempty" validate:"omitempty,min=0"`
	TotalRejections    *int            `json:"total_rejections,omitempty" validate:"omitempty,min=0"`
	ProfileConfidence  *float64        `json:"profile_confidence,omitempty" validate:"omitempty,min=0,max=1"`
}

// UpdateUserProfileRequest carries a partial update; nil fields stay untouched.
type UpdateUserProfileRequest struct {
	Gender             *string         `json:"gender,omitempty"`
	Products           storage.JSONMap `json:"products,omitempty"`
	Metadata           storage.JSONMap `json:"metadata,omitempty"`
	ProfileCreatedAt   *time.Time      `json:"profile_created_at,omitempty"`
	ProfileLastUpdated *time.Time      `json:"profile_last_updated,omitempty"`
	TotalSelections    *int            `json:"total_selections,omitempty" validate:"omitempty,min=0"`
	TotalRejections    *int            `json:"total_rejections,omitempty" validate:"omitempty,min=0"`
	ProfileConfidence  *float64        `json:"profile_confidence,omitempty" validate:"omitempty,min=0,max=1"`
}
