package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultSearchBaseURL = "https://ydc-index.io/v1"
	maxSearchCount       = 50
	searchTimeout        = 30 * time.Second
)

// SearchClient is the external web-search collaborator.
type SearchClient interface {
	// Search returns up to count web hits for query. The upstream API caps
	// count at 50.
	Search(ctx context.Context, query string, count int) ([]WebResult, error)
}

type youClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewSearchClient builds a client for the You.com search API. An empty
// baseURL selects the production endpoint.
func NewSearchClient(apiKey, baseURL string) SearchClient {
	if baseURL == "" {
		baseURL = defaultSearchBaseURL
	}
	return &youClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: searchTimeout},
	}
}

type searchEnvelope struct {
	Results struct {
		Web []WebResult `json:"web"`
	} `json:"results"`
}

func (c *youClient) Search(ctx context.Context, query string, count int) ([]WebResult, error) {
	if count > maxSearchCount {
		count = maxSearchCount
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search", nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	q := req.URL.Query()
	q.Set("query", query)
	q.Set("count", strconv.Itoa(count))
	q.Set("language", "EN")
	q.Set("offset", "0")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, &upstreamError{status: resp.StatusCode, body: string(body)}
	}

	var envelope searchEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return envelope.Results.Web, nil
}

// upstreamError keeps the upstream status and body visible in logs.
type upstreamError struct {
	status int
	body   string
}

func (e *upstreamError) Error() string {
	return fmt.Sprintf("search API status %d: %s", e.status, e.body)
}
