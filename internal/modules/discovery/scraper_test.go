package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHTML(t *testing.T, page string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, browserUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScrapeJSONLDProduct(t *testing.T) {
	srv := serveHTML(t, `<html><head>
		<script type="application/ld+json">{not valid json</script>
		<script type="application/ld+json">
		{"@context": "https://schema.org", "@type": "Product", "name": "Air Max 90",
		 "url": "https://nike.com/air-max-90",
		 "image": ["https://img.nike.com/1.jpg", "https://img.nike.com/2.jpg"],
		 "offers": {"@type": "Offer", "price": "120.00", "priceCurrency": "USD"}}
		</script>
		</head><body></body></html>`)

	products, err := NewScraper().ScrapeProducts(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Air Max 90", products[0].Title)
	assert.Equal(t, "USD 120.00", products[0].Price)
	assert.Equal(t, "https://img.nike.com/1.jpg", products[0].Image)
	assert.Equal(t, "https://nike.com/air-max-90", products[0].URL)
}

func TestScrapeJSONLDItemList(t *testing.T) {
	srv := serveHTML(t, `<html><head>
		<script type="application/ld+json">
		{"@type": "ItemList", "itemListElement": [
			{"@type": "ListItem", "position": 1, "item":
				{"@type": "Product", "name": "Air Force 1", "url": "https://nike.com/af1",
				 "image": {"@type": "ImageObject", "url": "https://img.nike.com/af1.jpg"},
				 "offers": {"price": 110.5, "priceCurrency": "USD"}}},
			{"@type": "Product", "name": "Blazer Mid",
			 "offers": [{"lowPrice": "89.99", "priceCurrency": "GBP"}]}
		]}
		</script>
		</head><body></body></html>`)

	products, err := NewScraper().ScrapeProducts(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Air Force 1", products[0].Title)
	assert.Equal(t, "USD 110.5", products[0].Price)
	assert.Equal(t, "https://img.nike.com/af1.jpg", products[0].Image)
	assert.Equal(t, "Blazer Mid", products[1].Title)
	assert.Equal(t, "GBP 89.99", products[1].Price)
	assert.Empty(t, products[1].Image)
}

func TestScrapeCardFallback(t *testing.T) {
	srv := serveHTML(t, `<html><body>
		<div class="product-card">
			<h3 class="product-title">Court Vision Low</h3>
			<span class="price">
				$89.99
			</span>
			<img src="https://img.example.com/cv.jpg">
			<a href="/shoes/court-vision-low">view</a>
		</div>
		<div class="product-card">
			<div class="product-name">Retro Runner</div>
			<img data-src="https://img.example.com/rr.jpg">
		</div>
		<div class="product-card">
			<img src="https://img.example.com/no-title.jpg">
		</div>
		</body></html>`)

	products, err := NewScraper().ScrapeProducts(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Court Vision Low", products[0].Title)
	assert.Equal(t, "$89.99", products[0].Price, "price should be whitespace-normalized")
	assert.Equal(t, "https://img.example.com/cv.jpg", products[0].Image)
	assert.Equal(t, "/shoes/court-vision-low", products[0].URL, "link should be the raw attribute value")

	assert.Equal(t, "Retro Runner", products[1].Title)
	assert.Empty(t, products[1].Price)
	assert.Equal(t, "https://img.example.com/rr.jpg", products[1].Image, "lazy-loaded images fall back to data-src")
	assert.Empty(t, products[1].URL)
}

func TestScrapeAmazonStyleCards(t *testing.T) {
	srv := serveHTML(t, `<html><body>
		<div class="s-result-item" data-asin="B001">
			<h2><a href="/dp/B001">Trail Shoe</a></h2>
			<span class="a-price"><span class="a-offscreen">$74.95</span></span>
			<img src="https://img.example.com/trail.jpg">
		</div>
		<div class="s-result-item">
			<h2><a>No ASIN means no product</a></h2>
		</div>
		</body></html>`)

	products, err := NewScraper().ScrapeProducts(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Trail Shoe", products[0].Title)
	assert.Equal(t, "$74.95", products[0].Price)
	assert.Equal(t, "/dp/B001", products[0].URL)
}

func TestScrapeCardSelectorPriority(t *testing.T) {
	srv := serveHTML(t, `<html><body>
		<div data-component="product-card"><h2>Primary Card</h2></div>
		<div class="product-card"><h2>Secondary Card</h2></div>
		</body></html>`)

	products, err := NewScraper().ScrapeProducts(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, products, 1, "only the first matching card pattern should be used")
	assert.Equal(t, "Primary Card", products[0].Title)
}

func TestScrapeJSONLDWinsOverCards(t *testing.T) {
	srv := serveHTML(t, `<html><head>
		<script type="application/ld+json">
		{"@type": "Product", "name": "Structured Sneaker"}
		</script>
		</head><body>
		<div class="product-card"><h2>Card Sneaker</h2></div>
		</body></html>`)

	products, err := NewScraper().ScrapeProducts(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Structured Sneaker", products[0].Title)
	assert.Empty(t, products[0].Price)
}

func TestScrapeNoProductsFound(t *testing.T) {
	srv := serveHTML(t, `<html><body><p>About us</p></body></html>`)

	products, err := NewScraper().ScrapeProducts(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestScrapePageError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewScraper().ScrapeProducts(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
