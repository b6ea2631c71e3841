package discovery

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talkshopapp/talkshop-backend/internal/logging"
	"github.com/talkshopapp/talkshop-backend/internal/modules/product"
	"github.com/talkshopapp/talkshop-backend/internal/storage"
	"github.com/talkshopapp/talkshop-backend/internal/validation"
)

// Collaborator failures surface as 502 at the HTTP layer; they must stay
// distinguishable from an empty result set.
var (
	ErrSearchUnavailable = errors.New("search service unavailable")
	ErrScrapeFailed      = errors.New("failed to scrape products")
)

const defaultSearchCount = 10

// Service runs the discovery pipeline: web search, scrape of the top hit,
// and optional import of the scraped listings into the product catalog.
type Service interface {
	Discover(ctx context.Context, req *DiscoverRequest) (*DiscoverResponse, error)
}

type service struct {
	search   SearchClient
	scraper  Scraper
	products product.Service
}

func NewService(search SearchClient, scraper Scraper, products product.Service) Service {
	return &service{search: search, scraper: scraper, products: products}
}

func (s *service) Discover(ctx context.Context, req *DiscoverRequest) (*DiscoverResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Store && req.Category == "" {
		return nil, validation.Errorf("category is required when store is true")
	}
	count := req.Count
	if count <= 0 {
		count = defaultSearchCount
	}

	hits, err := s.search.Search(ctx, req.Query, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}

	resp := &DiscoverResponse{
		Query:    req.Query,
		Products: []ScrapedProduct{},
		Raw:      req.Raw,
	}
	if req.Raw {
		resp.RawResults = hits
		if resp.RawResults == nil {
			resp.RawResults = []WebResult{}
		}
		return resp, nil
	}
	if len(hits) == 0 {
		return resp, nil
	}

	sourceURL := hits[0].URL
	scraped, err := s.scraper.ScrapeProducts(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScrapeFailed, err)
	}
	resp.SourceURL = &sourceURL
	if scraped != nil {
		resp.Products = scraped
	}

	if req.Store {
		stored := s.importProducts(ctx, resp.Products, req.Category, sourceURL)
		resp.Stored = &stored
	}
	return resp, nil
}

// importProducts persists scraped listings as catalog products. One bad
// listing must not abort the batch, so failures are logged and skipped.
func (s *service) importProducts(ctx context.Context, items []ScrapedProduct, category, sourceURL string) int {
	discoveredAt := time.Now().UTC().Format(time.RFC3339)
	stored := 0
	for _, item := range items {
		create := &product.CreateProductRequest{
			ProductID:  "prd_" + uuid.New().String(),
			Name:       item.Title,
			Category:   category,
			ProductURL: item.URL,
			ImagePath:  item.Image,
			Metadata: storage.JSONMap{
				"source_url":    sourceURL,
				"discovered_at": discoveredAt,
			},
		}
		if price, currency, ok := parsePrice(item.Price); ok {
			create.Price = &price
			create.Currency = currency
		}
		if _, err := s.products.CreateProduct(ctx, create); err != nil {
			logging.Warn().Err(err).Str("title", item.Title).Msg("skipping scraped product")
			continue
		}
		stored++
	}
	return stored
}

var priceNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

var currencyMarks = []struct{ mark, code string }{
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"USD", "USD"},
	{"EUR", "EUR"},
	{"GBP", "GBP"},
}

// parsePrice extracts a numeric amount and a currency code from scraped
// price text such as "$120.00" or "USD 79.99". An empty currency means the
// page named none.
func parsePrice(raw string) (float64, string, bool) {
	if raw == "" {
		return 0, "", false
	}
	currency := ""
	for _, cm := range currencyMarks {
		if strings.Contains(raw, cm.mark) {
			currency = cm.code
			break
		}
	}
	match := priceNumber.FindString(raw)
	if match == "" {
		return 0, "", false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", "."), 64)
	if err != nil {
		return 0, "", false
	}
	return value, currency, true
}
