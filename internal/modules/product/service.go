package product

import (
	"context"

	"github.com/talkshopapp/talkshop-backend/internal/storage"
	"github.com/talkshopapp/talkshop-backend/internal/validation"
)

// Service exposes product memory operations to the transport layer.
type Service interface {
	// CreateProduct validates and inserts a new product.
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*Product, error)
	// GetProduct fetches a product by its product_id.
	GetProduct(ctx context.Context, productID string) (*Product, error)
	// UpdateProduct applies a partial update and returns the stored product.
	UpdateProduct(ctx context.Context, productID string, req *UpdateProductRequest) (*Product, error)
	// DeleteProduct removes a product, returning ErrNotFound if it never existed.
	DeleteProduct(ctx context.Context, productID string) error
	// SearchProducts lists products matching the filters, newest first.
	SearchProducts(ctx context.Context, f *SearchFilters) ([]*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateProduct(ctx context.Context, req *CreateProductRequest) (*Product, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	p := &Product{
		ProductID:      req.ProductID,
		Name:           req.Name,
		Brand:          req.Brand,
		Category:       req.Category,
		SubCategory:    req.SubCategory,
		Price:          req.Price,
		Currency:       req.Currency,
		Size:           req.Size,
		Color:          req.Color,
		Material:       req.Material,
		Attributes:     req.Attributes,
		ProductURL:     req.ProductURL,
		ImagePath:      req.ImagePath,
		ProductSummary: req.ProductSummary,
		Metadata:       req.Metadata,
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if p.Attributes == nil {
		p.Attributes = storage.JSONMap{}
	}
	if p.Metadata == nil {
		p.Metadata = storage.JSONMap{}
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, productID string) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

func (s *service) UpdateProduct(ctx context.Context, productID string, req *UpdateProductRequest) (*Product, error) {
	return s.repo.Update(ctx, productID, req)
}

func (s *service) DeleteProduct(ctx context.Context, productID string) error {
	removed, err := s.repo.Delete(ctx, productID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

func (s *service) SearchProducts(ctx context.Context, f *SearchFilters) ([]*Product, error) {
	if err := validation.Struct(f); err != nil {
		return nil, err
	}
	return s.repo.Search(ctx, f)
}
