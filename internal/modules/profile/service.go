package profile

import (
	"context"

	"github.com/talkshopapp/talkshop-backend/internal/storage"
	"github.com/talkshopapp/talkshop-backend/internal/validation"
)

// Service exposes user profile operations to the transport layer.
type Service interface {
	CreateUserProfile(ctx context.Context, req *CreateUserProfileRequest) (*UserProfile, error)
	GetUserProfile(ctx context.Context, userID string) (*UserProfile, error)
	UpdateUserProfile(ctx context.Context, userID string, req *UpdateUserProfileRequest) (*UserProfile, error)
	DeleteUserProfile(ctx context.Context, userID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateUserProfile(ctx context.Context, req *CreateUserProfileRequest) (*UserProfile, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	p := &UserProfile{
		UserID:             req.UserID,
		Gender:             req.Gender,
		Products:           req.Products,
		Metadata:           req.Metadata,
		ProfileCreatedAt:   req.ProfileCreatedAt,
		ProfileLastUpdated: req.ProfileLastUpdated,
		TotalSelections:    req.TotalSelections,
		TotalRejections:    req.TotalRejections,
		ProfileConfidence:  req.ProfileConfidence,
	}
	if p.Products == nil {
		p.Products = storage.JSONMap{}
	}
	if p.Metadata == nil {
		p.Metadata = storage.JSONMap{}
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *service) UpdateUserProfile(ctx context.Context, userID string, req *UpdateUserProfileRequest) (*UserProfile, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, userID, req)
}

func (s *service) DeleteUserProfile(ctx context.Context, userID string) error {
	removed, err := s.repo.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}
