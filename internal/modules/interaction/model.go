package interaction

import (
	"time"

	"github.com/talkshopapp/talkshop-backend/internal/modules/product"
	"github.com/talkshopapp/talkshop-backend/internal/storage"
)

// Sentiment is the binary signal recorded per user-product interaction.
type Sentiment string

const (
	SentimentGood Sentiment = "good"
	SentimentBad  Sentiment = "bad"
)

func (s Sentiment) Valid() bool { return s == SentimentGood || s == SentimentBad }

// Interaction is one sentiment event. A user may interact with the same
// product repeatedly; rows are never collapsed.
type Interaction struct {
	InteractionID  string    `json:"interaction_id"`
	UserID         string    `json:"user_id"`
	ProductID      string    `json:"product_id"`
	Sentiment      Sentiment `json:"sentiment"`
	SentimentNotes string    `json:"sentiment_notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// InteractionWithProduct is an interaction fused with the referenced
// product's current row. Interaction timestamps are aliased so they never
// collide with the product's own.
type InteractionWithProduct struct {
	InteractionID        string    `json:"interaction_id"`
	UserID               string    `json:"user_id"`
	ProductID            string    `json:"product_id"`
	Sentiment            Sentiment `json:"sentiment"`
	SentimentNotes       string    `json:"sentiment_notes,omitempty"`
	InteractionCreatedAt time.Time `json:"interaction_created_at"`
	InteractionUpdatedAt time.Time `json:"interaction_updated_at"`

	ProductName      string          `json:"product_name"`
	Brand            string          `json:"brand,omitempty"`
	Category         string          `json:"category"`
	SubCategory      string          `json:"sub_category,omitempty"`
	Price            *float64        `json:"price,omitempty"`
	Currency         string          `json:"currency"`
	Size             string          `json:"size,omitempty"`
	Color            string          `json:"color,omitempty"`
	Material         string          `json:"material,omitempty"`
	Attributes       storage.JSONMap `json:"attributes"`
	ProductURL       string          `json:"product_url,omitempty"`
	ImagePath        string          `json:"image_path,omitempty"`
	ProductSummary   string          `json:"product_summary,omitempty"`
	ProductMetadata  storage.JSONMap `json:"product_metadata"`
	ProductCreatedAt time.Time       `json:"product_created_at"`
	ProductUpdatedAt time.Time       `json:"product_updated_at"`
}

type CreateInteractionRequest struct {
	UserID         string    `json:"user_id" validate:"required"`
	ProductID      string    `json:"product_id" validate:"required"`
	Sentiment      Sentiment `json:"sentiment" validate:"required,oneof=good bad"`
	SentimentNotes string    `json:"sentiment_notes,omitempty"`
}

// UpdateInteractionRequest carries a partial update; nil fields stay untouched.
type UpdateInteractionRequest struct {
	Sentiment      *Sentiment `json:"sentiment,omitempty" validate:"omitempty,oneof=good bad"`
	SentimentNotes *string    `json:"sentiment_notes,omitempty"`
}

// ListFilters narrows interaction listings. user_id and product_id combine
// when both are set.
type ListFilters struct {
	UserID    string    `json:"user_id,omitempty"`
	ProductID string    `json:"product_id,omitempty"`
	Sentiment Sentiment `json:"sentiment,omitempty" validate:"omitempty,oneof=good bad"`
	Limit     int       `json:"limit,omitempty" validate:"min=0,max=100"`
	Offset    int       `json:"offset,omitempty" validate:"min=0"`
}

// SentimentFilters scopes a user's interaction history by product
// attributes. Size and text search are not part of this view; the embedded
// fields stay zero.
type SentimentFilters struct {
	product.SearchFilters
	Sentiment Sentiment `json:"sentiment,omitempty" validate:"omitempty,oneof=good bad"`
}

// Compile stages the product-side predicates under the join alias, then the
// sentiment predicate, preserving the documented filter order.
func (f *SentimentFilters) Compile(qb *storage.QueryBuilder) {
	f.SearchFilters.Compile(qb, "p.")
	if f.Sentiment != "" {
		qb.Equal("upi.sentiment", string(f.Sentiment))
	}
}
