package product

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	createFn func(ctx context.Context, req *CreateProductRequest) (*Product, error)
	getFn    func(ctx context.Context, productID string) (*Product, error)
	updateFn func(ctx context.Context, productID string, req *UpdateProductRequest) (*Product, error)
	deleteFn func(ctx context.Context, productID string) error
	searchFn func(ctx context.Context, f *SearchFilters) ([]*Product, error)
}

func (s *stubService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*Product, error) {
	return s.createFn(ctx, req)
}
func (s *stubService) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.getFn(ctx, id)
}
func (s *stubService) UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*Product, error) {
	return s.updateFn(ctx, id, req)
}
func (s *stubService) DeleteProduct(ctx context.Context, id string) error { return s.deleteFn(ctx, id) }
func (s *stubService) SearchProducts(ctx context.Context, f *SearchFilters) ([]*Product, error) {
	return s.searchFn(ctx, f)
}

func newTestRouter(svc Service) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func TestGetProductRoute(t *testing.T) {
	router := newTestRouter(&stubService{
		getFn: func(_ context.Context, id string) (*Product, error) {
			assert.Equal(t, "prd_001", id)
			return &Product{ProductID: id, Name: "Air Zoom", Category: "shoes", Currency: "USD"}, nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/read/product/prd_001", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Air Zoom", got.Name)
}

func TestGetProductRouteNotFound(t *testing.T) {
	router := newTestRouter(&stubService{
		getFn: func(_ context.Context, _ string) (*Product, error) { return nil, ErrNotFound },
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/read/product/prd_missing", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "product not found"}`, rec.Body.String())
}

func TestCreateProductRoute(t *testing.T) {
	router := newTestRouter(&stubService{
		createFn: func(_ context.Context, req *CreateProductRequest) (*Product, error) {
			assert.Equal(t, "prd_001", req.ProductID)
			return &Product{ProductID: req.ProductID, Name: req.Name, Category: req.Category, Currency: "USD"}, nil
		},
	})

	body := []byte(`{"product_id": "prd_001", "name": "Air Zoom", "category": "shoes"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/write/product", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateProductRouteConflict(t *testing.T) {
	router := newTestRouter(&stubService{
		createFn: func(_ context.Context, _ *CreateProductRequest) (*Product, error) {
			return nil, ErrDuplicate
		},
	})

	body := []byte(`{"product_id": "prd_001", "name": "Air Zoom", "category": "shoes"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/write/product", bytes.NewReader(body)))

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateProductRouteBadBody(t *testing.T) {
	router := newTestRouter(&stubService{
		createFn: func(_ context.Context, _ *CreateProductRequest) (*Product, error) {
			t.Fatal("service must not be reached on malformed body")
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/write/product", bytes.NewReader([]byte(`{`))))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchProductsRouteParsesFilters(t *testing.T) {
	router := newTestRouter(&stubService{
		searchFn: func(_ context.Context, f *SearchFilters) ([]*Product, error) {
			assert.Equal(t, []string{"Nike", "Adidas"}, f.Brands)
			assert.Equal(t, "shoes", f.Category)
			require.NotNil(t, f.PriceMin)
			assert.Equal(t, 100.0, *f.PriceMin)
			assert.Equal(t, []string{"sporty"}, f.StyleTags)
			assert.Equal(t, "running", f.Text)
			assert.Equal(t, 5, f.Limit)
			return []*Product{}, nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/read/products/search?brand=Nike&brand=Adidas&category=shoes&price_min=100&style_tags=sporty&text=running&limit=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSearchProductsRouteRejectsBadLimit(t *testing.T) {
	router := newTestRouter(&stubService{
		searchFn: func(_ context.Context, _ *SearchFilters) ([]*Product, error) {
			t.Fatal("service must not be reached on malformed query")
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/read/products/search?limit=abc", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "limit must be an integer"}`, rec.Body.String())
}

func TestSearchProductsRouteRejectsBadPrice(t *testing.T) {
	router := newTestRouter(&stubService{
		searchFn: func(_ context.Context, _ *SearchFilters) ([]*Product, error) {
			t.Fatal("service must not be reached on malformed query")
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/read/products/search?price_min=cheap", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "price_min must be a number"}`, rec.Body.String())
}

func TestUpdateProductRoute(t *testing.T) {
	router := newTestRouter(&stubService{
		updateFn: func(_ context.Context, id string, req *UpdateProductRequest) (*Product, error) {
			assert.Equal(t, "prd_001", id)
			require.NotNil(t, req.Price)
			assert.Equal(t, 149.99, *req.Price)
			assert.Nil(t, req.Name)
			return &Product{ProductID: id, Name: "Air Zoom", Category: "shoes", Currency: "USD", Price: req.Price}, nil
		},
	})

	body := []byte(`{"price": 149.99}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/write/product/prd_001", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteProductRoute(t *testing.T) {
	router := newTestRouter(&stubService{
		deleteFn: func(_ context.Context, id string) error {
			assert.Equal(t, "prd_001", id)
			return nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/write/product/prd_001", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted": true}`, rec.Body.String())
}

func TestDeleteProductRouteNotFound(t *testing.T) {
	router := newTestRouter(&stubService{
		deleteFn: func(_ context.Context, _ string) error { return ErrNotFound },
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/write/product/prd_missing", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}
