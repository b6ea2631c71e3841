package interaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/talkshopapp/talkshop-backend/internal/modules/product"
	"github.com/talkshopapp/talkshop-backend/internal/modules/profile"
	"github.com/talkshopapp/talkshop-backend/internal/validation"
)

// Service exposes interaction operations to the transport layer.
type Service interface {
	// CreateInteraction records a sentiment event after verifying that both
	// the user profile and the product exist.
	CreateInteraction(ctx context.Context, req *CreateInteractionRequest) (*Interaction, error)
	// GetInteraction fetches an interaction by its interaction_id.
	GetInteraction(ctx context.Context, interactionID string) (*Interaction, error)
	// UpdateInteractionByPair updates the most recent interaction for a
	// user-product pair. With no fields supplied it returns that row as-is.
	UpdateInteractionByPair(ctx context.Context, userID, productID string, req *UpdateInteractionRequest) (*Interaction, error)
	// DeleteInteractionByPair removes the most recent interaction for a pair.
	DeleteInteractionByPair(ctx context.Context, userID, productID string) error
	// DeleteInteraction removes one interaction by interaction_id.
	DeleteInteraction(ctx context.Context, interactionID string) error
	// ListInteractions lists joined rows. With neither user_id nor
	// product_id set it returns an empty list without touching storage.
	ListInteractions(ctx context.Context, f *ListFilters) ([]*InteractionWithProduct, error)
	// SentimentByAttributes lists a user's joined rows for products
	// matching the attribute filters.
	SentimentByAttributes(ctx context.Context, userID string, f *SentimentFilters) ([]*InteractionWithProduct, error)
}

type service struct {
	repo     Repository
	products product.Repository
	profiles profile.Repository
}

func NewService(repo Repository, products product.Repository, profiles profile.Repository) Service {
	return &service{repo: repo, products: products, profiles: profiles}
}

func (s *service) CreateInteraction(ctx context.Context, req *CreateInteractionRequest) (*Interaction, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.profiles.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", req.UserID, profile.ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.products.GetByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", req.ProductID, product.ErrNotFound)
		}
		return nil, err
	}
	in := &Interaction{
		InteractionID:  uuid.New().String(),
		UserID:         req.UserID,
		ProductID:      req.ProductID,
		Sentiment:      req.Sentiment,
		SentimentNotes: req.SentimentNotes,
	}
	if err := s.repo.Create(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *service) GetInteraction(ctx context.Context, interactionID string) (*Interaction, error) {
	return s.repo.GetByID(ctx, interactionID)
}

func (s *service) UpdateInteractionByPair(ctx context.Context, userID, productID string, req *UpdateInteractionRequest) (*Interaction, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	latest, err := s.repo.LatestForPair(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if req.Sentiment == nil && req.SentimentNotes == nil {
		return latest, nil
	}
	return s.repo.UpdateByID(ctx, latest.InteractionID, req)
}

func (s *service) DeleteInteractionByPair(ctx context.Context, userID, productID string) error {
	latest, err := s.repo.LatestForPair(ctx, userID, productID)
	if err != nil {
		return err
	}
	return s.DeleteInteraction(ctx, latest.InteractionID)
}

func (s *service) DeleteInteraction(ctx context.Context, interactionID string) error {
	removed, err := s.repo.DeleteByID(ctx, interactionID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

func (s *service) ListInteractions(ctx context.Context, f *ListFilters) ([]*InteractionWithProduct, error) {
	if err := validation.Struct(f); err != nil {
		return nil, err
	}
	if f.UserID == "" && f.ProductID == "" {
		return []*InteractionWithProduct{}, nil
	}
	return s.repo.List(ctx, f)
}

func (s *service) SentimentByAttributes(ctx context.Context, userID string, f *SentimentFilters) ([]*InteractionWithProduct, error) {
	if err := validation.Struct(f); err != nil {
		return nil, err
	}
	return s.repo.SentimentByAttributes(ctx, userID, f)
}
