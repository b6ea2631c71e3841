package product

import (
	"time"

	"github.com/talkshopapp/talkshop-backend/internal/storage"
)

// Product is one item in the product memory. product_id is caller-assigned
// and globally unique. The attributes bag is open: its list-valued keys
// (style_tags, colors, materials, use_cases) drive containment filtering,
// while metadata stays opaque to queries.
type Product struct {
	ProductID      string          `json:"product_id"`
	Name           string          `json:"name"`
	Brand          string          `json:"brand,omitempty"`
	Category       string          `json:"category"`
	SubCategory    string          `json:"sub_category,omitempty"`
	Price          *float64        `json:"price,omitempty"`
	Currency       string          `json:"currency"`
	Size           string          `json:"size,omitempty"`
	Color          string          `json:"color,omitempty"`
	Material       string          `json:"material,omitempty"`
	Attributes     storage.JSONMap `json:"attributes"`
	ProductURL     string          `json:"product_url,omitempty"`
	ImagePath      string          `json:"image_path,omitempty"`
	ProductSummary string          `json:"product_summary,omitempty"`
	Metadata       storage.JSONMap `json:"metadata"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CreateProductRequest is the payload for inserting a product.
type CreateProductRequest struct {
	ProductID      string          `json:"product_id" validate:"required"`
	Name           string          `json:"name" validate:"required"`
	Brand          string          `json:"brand,omitempty"`
	Category       string          `json:"category" validate:"required"`
	SubCategory    string          `json:"sub_category,omitempty"`
	Price          *float64        `json:"price,omitempty"`
	Currency       string          `json:"currency,omitempty"` // defaults to USD
	Size           string          `json:"size,omitempty"`
	Color          string          `json:"color,omitempty"`
	Material       string          `json:"material,omitempty"`
	Attributes     storage.JSONMap `json:"attributes,omitempty"`
	ProductURL     string          `json:"product_url,omitempty"`
	ImagePath      string          `json:"image_path,omitempty"`
	ProductSummary string          `json:"product_summary,omitempty"`
	Metadata       storage.JSONMap `json:"metadata,omitempty"`
}

// UpdateProductRequest carries a partial update: nil fields stay untouched,
// and a request with no fields at all degenerates to a read.
type UpdateProductRequest struct {
	Name           *string         `json:"name,omitempty"`
	Brand          *string         `json:"brand,omitempty"`
	Category       *string         `json:"category,omitempty"`
	SubCategory    *string         `json:"sub_category,omitempty"`
	Price          *float64        `json:"price,omitempty"`
	Currency       *string         `json:"currency,omitempty"`
	Size           *string         `json:"size,omitempty"`
	Color          *string         `json:"color,omitempty"`
	Material       *string         `json:"material,omitempty"`
	Attributes     storage.JSONMap `json:"attributes,omitempty"`
	ProductURL     *string         `json:"product_url,omitempty"`
	ImagePath      *string         `json:"image_path,omitempty"`
	ProductSummary *string         `json:"product_summary,omitempty"`
	Metadata       storage.JSONMap `json:"metadata,omitempty"`
}

// SearchFilters is the recognized filter set for product search. Zero values
// and empty lists contribute no predicate; populated options AND together.
type SearchFilters struct {
	Brands      []string `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	SubCategory string   `json:"sub_category,omitempty"`
	PriceMin    *float64 `json:"price_min,omitempty"`
	PriceMax    *float64 `json:"price_max,omitempty"`
	Size        string   `json:"size,omitempty"`
	StyleTags   []string `json:"style_tags,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Materials   []string `json:"materials,omitempty"`
	UseCases    []string `json:"use_cases,omitempty"`
	Text        string   `json:"text,omitempty"`
	Limit       int      `json:"limit,omitempty" validate:"min=0,max=100"`
	Offset      int      `json:"offset,omitempty" validate:"min=0"`
}

// Compile stages one predicate per populated option. prefix qualifies column
// names when products appear under an alias in a join (for example "p.").
// Pagination is staged separately because defaults differ per query.
func (f *SearchFilters) Compile(qb *storage.QueryBuilder, prefix string) {
	qb.AnyOf(prefix+"brand", f.Brands)
	if f.Category != "" {
		qb.Equal(prefix+"category", f.Category)
	}
	if f.SubCategory != "" {
		qb.Equal(prefix+"sub_category", f.SubCategory)
	}
	if f.PriceMin != nil {
		qb.AtLeast(prefix+"price", *f.PriceMin)
	}
	if f.PriceMax != nil {
		qb.AtMost(prefix+"price", *f.PriceMax)
	}
	if f.Size != "" {
		qb.Equal(prefix+"size", f.Size)
	}
	qb.ContainsJSON(prefix+"attributes", "style_tags", f.StyleTags)
	qb.ContainsJSON(prefix+"attributes", "colors", f.Colors)
	qb.ContainsJSON(prefix+"attributes", "materials", f.Materials)
	qb.ContainsJSON(prefix+"attributes", "use_cases", f.UseCases)
	if f.Text != "" {
		qb.MatchesText(prefix+"name || ' ' || COALESCE("+prefix+"brand, '')", f.Text)
	}
}
