package discovery

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"
)

// Retail sites serve bot-flagged user agents a stripped or blocked page, so
// the scraper identifies itself as a desktop browser.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const scrapeTimeout = 30 * time.Second

// Scraper extracts product listings from a retail page.
type Scraper interface {
	ScrapeProducts(ctx context.Context, pageURL string) ([]ScrapedProduct, error)
}

type pageScraper struct{ client *http.Client }

func NewScraper() Scraper {
	return &pageScraper{client: &http.Client{Timeout: scrapeTimeout}}
}

// ScrapeProducts fetches pageURL and extracts listings, preferring JSON-LD
// product markup and falling back to heuristic card selectors when the page
// embeds none.
func (s *pageScraper) ScrapeProducts(ctx context.Context, pageURL string) ([]ScrapedProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building page request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	if products := productsFromJSONLD(doc); len(products) > 0 {
		return products, nil
	}
	return productsFromCards(doc), nil
}

// ── JSON-LD extraction ──────────────────────────────────────────────────────

func productsFromJSONLD(doc *goquery.Document) []ScrapedProduct {
	var products []ScrapedProduct
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, script *goquery.Selection) {
		var data interface{}
		if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
			return // malformed blocks are common in the wild
		}
		items, ok := data.([]interface{})
		if !ok {
			items = []interface{}{data}
		}
		for _, raw := range items {
			item, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			if item["@type"] == "Product" {
				products = append(products, parseProductLD(item))
			}
			// ItemList pages wrap each product in a ListItem whose "item"
			// holds the actual Product; some sites inline it instead.
			members, _ := item["itemListElement"].([]interface{})
			for _, m := range members {
				member, ok := m.(map[string]interface{})
				if !ok {
					continue
				}
				inner := member
				if wrapped, ok := member["item"].(map[string]interface{}); ok {
					inner = wrapped
				}
				if inner["@type"] == "Product" {
					products = append(products, parseProductLD(inner))
				}
			}
		}
	})
	return products
}

func parseProductLD(item map[string]interface{}) ScrapedProduct {
	offers, _ := item["offers"].(map[string]interface{})
	if list, ok := item["offers"].([]interface{}); ok {
		offers = nil
		if len(list) > 0 {
			offers, _ = list[0].(map[string]interface{})
		}
	}
	price := ldString(offers["price"])
	if price == "" {
		price = ldString(offers["lowPrice"])
	}
	if price != "" {
		price = strings.TrimSpace(ldString(offers["priceCurrency"]) + " " + price)
	}
	return ScrapedProduct{
		Title: ldString(item["name"]),
		Price: price,
		Image: ldImage(item["image"]),
		URL:   ldString(item["url"]),
	}
}

// ldImage handles the image shapes seen in feeds: a bare URL, a list of
// URLs, or an ImageObject with a url field.
func ldImage(v interface{}) string {
	if list, ok := v.([]interface{}); ok {
		if len(list) == 0 {
			return ""
		}
		v = list[0]
	}
	if m, ok := v.(map[string]interface{}); ok {
		v = m["url"]
	}
	return ldString(v)
}

// ldString renders a JSON-LD scalar; prices in particular appear as both
// strings and numbers in the wild.
func ldString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// ── HTML fallback ────────────────────────────────────────────────────────────

// Card container patterns across common storefront markups, tried in order;
// the first selector yielding any matches wins.
var cardSelectors = []string{
	"[data-component='product-card']",
	".product-card",
	".product-tile",
	".product-grid__item",
	".s-result-item[data-asin]",
	".product-item",
	".grid-item",
}

var titleSelectors = []string{
	"[data-component='product-title']",
	".product-title",
	".product-card__title",
	".product-name",
	"h2 a",
	"h3 a",
	"h2",
	"h3",
	".title",
	"[class*='title']",
}

var priceSelectors = []string{
	"[data-component='product-price']",
	".product-price",
	".price",
	".product-card__price",
	"[class*='price']",
	"span.a-price > span.a-offscreen",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func productsFromCards(doc *goquery.Document) []ScrapedProduct {
	var cards *goquery.Selection
	for _, sel := range cardSelectors {
		cards = doc.Find(sel)
		if cards.Length() > 0 {
			break
		}
	}

	var products []ScrapedProduct
	cards.Each(func(_ int, card *goquery.Selection) {
		// A card without a title is navigation chrome, not a product.
		title := firstText(card, titleSelectors)
		if title == "" {
			return
		}
		price := firstText(card, priceSelectors)
		if price != "" {
			price = strings.TrimSpace(whitespaceRun.ReplaceAllString(price, " "))
		}
		image := firstAttr(card, "img", "src")
		if image == "" {
			image = firstAttr(card, "img", "data-src")
		}
		products = append(products, ScrapedProduct{
			Title: title,
			Price: price,
			Image: image,
			URL:   firstAttr(card, "a", "href"),
		})
	})
	return products
}

func firstText(parent *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(parent.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func firstAttr(parent *goquery.Selection, selector, attr string) string {
	value, _ := parent.Find(selector).First().Attr(attr)
	return value
}
