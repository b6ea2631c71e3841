package product

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/talkshopapp/talkshop-backend/internal/storage"
)

const defaultSearchLimit = 20

const productColumns = `product_id, name, brand, category, sub_category, price, currency, size, color, material, attributes, product_url, image_path, product_summary, metadata, created_at, updated_at`

type postgresRepo struct{ db *storage.DB }

func NewPostgresRepository(db *storage.DB) Repository { return &postgresRepo{db: db} }

// ── Writes ────────────────────────────────────────────────────────────────────

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := r.db.OperationContext(ctx)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products
		  (product_id, name, brand, category, sub_category, price, currency,
		   size, color, material, attributes, product_url, image_path,
		   product_summary, metadata)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING created_at, updated_at`,
		p.ProductID, p.Name, nullable(p.Brand), p.Category, nullable(p.SubCategory),
		p.Price, p.Currency, nullable(p.Size), nullable(p.Color), nullable(p.Material),
		p.Attributes, nullable(p.ProductURL), nullable(p.ImagePath),
		nullable(p.ProductSummary), p.Metadata).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (r *postgresRepo) Update(ctx context.Context, productID string, req *UpdateProductRequest) (*Product, error) {
	ub := storage.NewUpdateBuilder()
	if req.Name != nil {
		ub.Set("name", *req.Name)
	}
	if req.Brand != nil {
		ub.Set("brand", nullable(*req.Brand))
	}
	if req.Category != nil {
		ub.Set("category", *req.Category)
	}
	if req.SubCategory != nil {
		ub.Set("sub_category", nullable(*req.SubCategory))
	}
	if req.Price != nil {
		ub.Set("price", *req.Price)
	}
	if req.Currency != nil {
		ub.Set("currency", *req.Currency)
	}
	if req.Size != nil {
		ub.Set("size", nullable(*req.Size))
	}
	if req.Color != nil {
		ub.Set("color", nullable(*req.Color))
	}
	if req.Material != nil {
		ub.Set("material", nullable(*req.Material))
	}
	if req.Attributes != nil {
		ub.Set("attributes", req.Attributes)
	}
	if req.ProductURL != nil {
		ub.Set("product_url", nullable(*req.ProductURL))
	}
	if req.ImagePath != nil {
		ub.Set("image_path", nullable(*req.ImagePath))
	}
	if req.ProductSummary != nil {
		ub.Set("product_summary", nullable(*req.ProductSummary))
	}
	if req.Metadata != nil {
		ub.Set("metadata", req.Metadata)
	}
	// Nothing to change: an empty update degenerates to a read and must not
	// touch updated_at.
	if !ub.HasChanges() {
		return r.GetByID(ctx, productID)
	}
	ub.SetExpr("updated_at = NOW()")
	ub.Key("product_id", productID)
	query, args := ub.Build("products", productColumns)

	ctx, cancel := r.db.OperationContext(ctx)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *postgresRepo) Delete(ctx context.Context, productID string) (bool, error) {
	ctx, cancel := r.db.OperationContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE product_id = $1`, productID)
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

func (r *postgresRepo) GetByID(ctx context.Context, productID string) (*Product, error) {
	ctx, cancel := r.db.OperationContext(ctx)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE product_id = $1`, productID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *postgresRepo) Search(ctx context.Context, f *SearchFilters) ([]*Product, error) {
	qb := storage.NewQueryBuilder()
	f.Compile(qb, "")
	qb.OrderBy("created_at DESC")
	qb.Paginate(f.Limit, f.Offset, defaultSearchLimit)
	query, args := qb.Build(`SELECT ` + productColumns + ` FROM products WHERE 1=1`)

	ctx, cancel := r.db.OperationContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	// Ensure non-nil slice for JSON output
	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ── Scanners ──────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanProduct(row rowScanner) (*Product, error) {
	p := &Product{}
	var brand, subCategory, size, color, material sql.NullString
	var productURL, imagePath, productSummary sql.NullString
	var price sql.NullFloat64
	err := row.Scan(&p.ProductID, &p.Name, &brand, &p.Category, &subCategory,
		&price, &p.Currency, &size, &color, &material, &p.Attributes,
		&productURL, &imagePath, &productSummary, &p.Metadata,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if brand.Valid {
		p.Brand = brand.String
	}
	if subCategory.Valid {
		p.SubCategory = subCategory.String
	}
	if price.Valid {
		p.Price = &price.Float64
	}
	if size.Valid {
		p.Size = size.String
	}
	if color.Valid {
		p.Color = color.String
	}
	if material.Valid {
		p.Material = material.String
	}
	if productURL.Valid {
		p.ProductURL = productURL.String
	}
	if imagePath.Valid {
		p.ImagePath = imagePath.String
	}
	if productSummary.Valid {
		p.ProductSummary = productSummary.String
	}
	return p, nil
}

// nullable maps empty strings to NULL so optional text columns stay NULL
// instead of collecting empty strings.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
