package interaction

import (
	"context"
	"database/sql"
	"errors"

	"github.com/talkshopapp/talkshop-backend/internal/storage"
)

const defaultListLimit = 50

const interactionColumns = `interaction_id, user_id, product_id, sentiment, sentiment_notes, created_at, updated_at`

// joinSelect fuses each interaction with the referenced product's current
// row. The inner join drops interactions whose product has been deleted.
const joinSelect = `
	SELECT
	    upi.interaction_id,
	    upi.user_id,
	    upi.product_id,
	    upi.sentiment,
	    upi.sentiment_notes,
	    upi.created_at AS interaction_created_at,
	    upi.updated_at AS interaction_updated_at,
	    p.name AS product_name,
	    p.brand,
	    p.category,
	    p.sub_category,
	    p.price,
	    p.currency,
	    p.size,
	    p.color,
	    p.material,
	    p.attributes,
	    p.product_url,
	    p.image_path,
	    p.product_summary,
	    p.metadata AS product_metadata,
	    p.created_at AS product_created_at,
	    p.updated_at AS product_updated_at
	FROM user_product_interactions upi
	JOIN products p ON upi.product_id = p.product_id
	WHERE 1=1`

type postgresRepo struct{ db *storage.DB }

func NewPostgresRepository(db *storage.DB) Repository { return &postgresRepo{db: db} }

// ── Writes ────────────────────────────────────────────────────────────────────

func (r *postgresRepo) Create(ctx context.Context, in *Interaction) error {
	ctx, cancel := r.db.OperationContext(ctx)
	defer cancel()

	return r.db.QueryRowContext(ctx, `
		INSERT INTO user_product_interactions
		  (interaction_id, user_id, product_id, sentiment, sentiment_notes)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		in.InteractionID, in.UserID, in.ProductID, string(in.Sentiment),
		nullable(in.SentimentNotes)).
		Scan(&in.CreatedAt, &in.UpdatedAt)
}

func (r *postgresRepo) UpdateByID(ctx context.Context, interactionID string, req *UpdateInteractionRequest) (*Interaction, error) {
	ub := storage.NewUpdateBuilder()
	if req.Sentiment != nil {
		ub.Set("sentiment", string(*req.Sentiment))
	}
	if req.SentimentNotes != nil {
		ub.Set("sentiment_notes", nullable(*req.SentimentNotes))
	}
	if !ub.HasChanges() {
		return r.GetByID(ctx, interactionID)
	}
	ub.SetExpr("updated_at = NOW()")
	ub.Key("interaction_id", interactionID)
	query, args := ub.Build("user_product_interactions", interactionColumns)

	ctx, cancel := r.db.OperationContext(ctx)
	defer cancel()

	in, err := scanInteraction(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return in, err
}

func (r *postgresRepo) DeleteByID(ctx context.Context, interactionID string) (bool, error) {
	ctx, cancel := r.db.OperationContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM user_product_interactions WHERE interaction_id = $1`, interactionID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (r *postgresRepo) GetByID(ctx context.Context, interactionID string) (*Interaction, error) {
	ctx, cancel := r.db.OperationContext(ctx)
	defer cancel()

	in, err := scanInteraction(r.db.QueryRowContext(ctx, `
		SELECT `+interactionColumns+`
		FROM user_product_interactions WHERE interaction_id = $1`, interactionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return in, err
}

func (r *postgresRepo) LatestForPair(ctx context.Context, userID, productID string) (*Interaction, error) {
	ctx, cancel := r.db.OperationContext(ctx)
	defer cancel()

	in, err := scanInteraction(r.db.QueryRowContext(ctx, `
		SELECT `+interactionColumns+`
		FROM user_product_interactions
		WHERE user_id = $1 AND product_id = $2
		ORDER BY created_at DESC LIMIT 1`, userID, productID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return in, err
}

func (r *postgresRepo) List(ctx context.Context, f *ListFilters) ([]*InteractionWithProduct, error) {
	qb := storage.NewQueryBuilder()
	if f.UserID != "" {
		qb.Equal("upi.user_id", f.UserID)
	}
	if f.ProductID != "" {
		qb.Equal("upi.product_id", f.ProductID)
	}
	if f.Sentiment != "" {
		qb.Equal("upi.sentiment", string(f.Sentiment))
	}
	qb.OrderBy("upi.created_at DESC")
	qb.Paginate(f.Limit, f.Offset, defaultListLimit)
	query, args := qb.Build(joinSelect)

	return r.queryJoined(ctx, query, args)
}

func (r *postgresRepo) SentimentByAttributes(ctx context.Context, userID string, f *SentimentFilters) ([]*InteractionWithProduct, error) {
	qb := storage.NewQueryBuilder()
	qb.Equal("upi.user_id", userID)
	f.Compile(qb)
	qb.OrderBy("upi.created_at DESC")
	qb.Paginate(f.Limit, f.Offset, defaultListLimit)
	query, args := qb.Build(joinSelect)

	return r.queryJoined(ctx, query, args)
}

func (r *postgresRepo) queryJoined(ctx context.Context, query string, args []interface{}) ([]*InteractionWithProduct, error) {
	ctx, cancel := r.db.OperationContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	// Ensure non-nil slice for JSON output
	interactions := []*InteractionWithProduct{}
	for rows.Next() {
		in, err := scanInteractionWithProduct(rows)
		if err != nil {
			return nil, err
		}
		interactions = append(interactions, in)
	}
	return interactions, rows.Err()
}

// ── Scanners ──────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanInteraction(row rowScanner) (*Interaction, error) {
	in := &Interaction{}
	var notes sql.NullString
	err := row.Scan(&in.InteractionID, &in.UserID, &in.ProductID, &in.Sentiment,
		&notes, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		in.SentimentNotes = notes.String
	}
	return in, nil
}

func scanInteractionWithProduct(row rowScanner) (*InteractionWithProduct, error) {
	in := &InteractionWithProduct{}
	var notes, brand, subCategory, size, color, material sql.NullString
	var productURL, imagePath, productSummary sql.NullString
	var price sql.NullFloat64
	err := row.Scan(&in.InteractionID, &in.UserID, &in.ProductID, &in.Sentiment,
		&notes, &in.InteractionCreatedAt, &in.InteractionUpdatedAt,
		&in.ProductName, &brand, &in.Category, &subCategory, &price,
		&in.Currency, &size, &color, &material, &in.Attributes,
		&productURL, &imagePath, &productSummary, &in.ProductMetadata,
		&in.ProductCreatedAt, &in.ProductUpdatedAt)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		in.SentimentNotes = notes.String
	}
	if brand.Valid {
		in.Brand = brand.String
	}
	if subCategory.Valid {
		in.SubCategory = subCategory.String
	}
	if price.Valid {
		in.Price = &price.Float64
	}
	if size.Valid {
		in.Size = size.String
	}
	if color.Valid {
		in.Color = color.String
	}
	if material.Valid {
		in.Material = material.String
	}
	if productURL.Valid {
		in.ProductURL = productURL.String
	}
	if imagePath.Valid {
		in.ImagePath = imagePath.String
	}
	if productSummary.Valid {
		in.ProductSummary = productSummary.String
	}
	return in, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
