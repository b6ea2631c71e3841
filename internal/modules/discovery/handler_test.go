package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkshopapp/talkshop-backend/internal/validation"
)

type stubService struct {
	discoverFn func(ctx context.Context, req *DiscoverRequest) (*DiscoverResponse, error)
}

func (s *stubService) Discover(ctx context.Context, req *DiscoverRequest) (*DiscoverResponse, error) {
	return s.discoverFn(ctx, req)
}

func newTestRouter(svc Service) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func postSearch(router *chi.Mux, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestDiscoverRoute(t *testing.T) {
	sourceURL := "https://www.nike.com/w/mens-shoes"
	router := newTestRouter(&stubService{
		discoverFn: func(_ context.Context, req *DiscoverRequest) (*DiscoverResponse, error) {
			assert.Equal(t, "nike shoes size 10 men", req.Query)
			return &DiscoverResponse{
				Query:     req.Query,
				SourceURL: &sourceURL,
				Products: []ScrapedProduct{
					{Title: "Air Max 90", Price: "$120.00", Image: "https://img.com/1.jpg", URL: "https://nike.com/air-max-90"},
					{Title: "Air Force 1", Price: "$110.00"},
				},
			}, nil
		},
	})

	rec := postSearch(router, `{"query": "nike shoes size 10 men"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "nike shoes size 10 men", body["query"])
	assert.Equal(t, "https://www.nike.com/w/mens-shoes", body["source_url"])
	products := body["products"].([]interface{})
	require.Len(t, products, 2)
	assert.Equal(t, "Air Max 90", products[0].(map[string]interface{})["title"])
	assert.Equal(t, "$120.00", products[0].(map[string]interface{})["price"])

	rawResults, present := body["raw_results"]
	assert.True(t, present, "raw_results is always part of the payload")
	assert.Nil(t, rawResults, "raw_results stays null outside raw mode")
	_, present = body["stored"]
	assert.False(t, present, "stored only appears when an import ran")
}

func TestDiscoverRouteRawMode(t *testing.T) {
	router := newTestRouter(&stubService{
		discoverFn: func(_ context.Context, req *DiscoverRequest) (*DiscoverResponse, error) {
			assert.True(t, req.Raw)
			return &DiscoverResponse{
				Query:    req.Query,
				Products: []ScrapedProduct{},
				Raw:      true,
				RawResults: []WebResult{
					{URL: "https://www.nike.com/shoes", Title: "Nike Shoes", Description: "Shop Nike"},
					{URL: "https://www.adidas.com/shoes", Title: "Adidas Shoes"},
				},
			}, nil
		},
	})

	rec := postSearch(router, `{"query": "shoes", "raw": true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["raw"])
	assert.Nil(t, body["source_url"])
	assert.Empty(t, body["products"])
	raw := body["raw_results"].([]interface{})
	require.Len(t, raw, 2)
	assert.Equal(t, "https://www.nike.com/shoes", raw[0].(map[string]interface{})["url"])
	assert.Equal(t, "Adidas Shoes", raw[1].(map[string]interface{})["title"])
}

func TestDiscoverRouteStoredCount(t *testing.T) {
	stored := 3
	router := newTestRouter(&stubService{
		discoverFn: func(_ context.Context, req *DiscoverRequest) (*DiscoverResponse, error) {
			assert.True(t, req.Store)
			assert.Equal(t, "shoes", req.Category)
			return &DiscoverResponse{Query: req.Query, Products: []ScrapedProduct{}, Stored: &stored}, nil
		},
	})

	rec := postSearch(router, `{"query": "nike", "store": true, "category": "shoes"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["stored"])
}

func TestDiscoverRouteEmptyQuery(t *testing.T) {
	router := newTestRouter(&stubService{
		discoverFn: func(_ context.Context, req *DiscoverRequest) (*DiscoverResponse, error) {
			return nil, validation.Errorf("query is required")
		},
	})

	rec := postSearch(router, `{"query": ""}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "query is required"}`, rec.Body.String())
}

func TestDiscoverRouteBadBody(t *testing.T) {
	router := newTestRouter(&stubService{})

	rec := postSearch(router, `{not json`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiscoverRouteSearchFailure(t *testing.T) {
	router := newTestRouter(&stubService{
		discoverFn: func(_ context.Context, _ *DiscoverRequest) (*DiscoverResponse, error) {
			return nil, fmt.Errorf("%w: api timeout", ErrSearchUnavailable)
		},
	})

	rec := postSearch(router, `{"query": "nike shoes"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error": "Search service unavailable"}`, rec.Body.String())
}

func TestDiscoverRouteScrapeFailure(t *testing.T) {
	router := newTestRouter(&stubService{
		discoverFn: func(_ context.Context, _ *DiscoverRequest) (*DiscoverResponse, error) {
			return nil, fmt.Errorf("%w: connection refused", ErrScrapeFailed)
		},
	})

	rec := postSearch(router, `{"query": "shoes"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error": "Failed to scrape products"}`, rec.Body.String())
}

func TestDiscoverRouteRateLimited(t *testing.T) {
	router := newTestRouter(&stubService{
		discoverFn: func(_ context.Context, req *DiscoverRequest) (*DiscoverResponse, error) {
			return &DiscoverResponse{Query: req.Query, Products: []ScrapedProduct{}}, nil
		},
	})

	limited := 0
	for i := 0; i < 40; i++ {
		rec := postSearch(router, `{"query": "shoes"}`)
		if i == 0 {
			require.Equal(t, http.StatusOK, rec.Code)
		}
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Greater(t, limited, 0, "burst traffic from one IP should hit the limiter")
}
