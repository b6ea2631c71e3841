package profile

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/talkshopapp/talkshop-backend/internal/storage"
)

const profileColumns = `user_id, gender, products, metadata, profile_created_at, profile_last_updated, total_selections, total_rejections, profile_confidence, created_at, updated_at`

type postgresRepo struct{ db *storage.DB }

func NewPostgresRepository(db *storage.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, p *UserProfile) error {
	ctx, cancel := r.db.OperationContext(ctx)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO user_profiles
		  (user_id, gender, products, metadata, profile_created_at,
		   profile_last_updated, total_selections, total_rejections, profile_confidence)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		p.UserID, nullable(p.Gender), p.Products, p.Metadata, p.ProfileCreatedAt,
		p.ProfileLastUpdated, p.TotalSelections, p.TotalRejections, p.ProfileConfidence).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, userID string) (*UserProfile, error) {
	ctx, cancel := r.db.OperationContext(ctx)
	defer cancel()

	p, err := scanProfile(r.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM user_profiles WHERE user_id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *postgresRepo) Update(ctx context.Context, userID string, req *UpdateUserProfileRequest) (*UserProfile, error) {
	ub := storage.NewUpdateBuilder()
	if req.Gender != nil {
		ub.Set("gender", nullable(*req.Gender))
	}
	if req.Products != nil {
		ub.Set("products", req.Products)
	}
	if req.Metadata != nil {
		ub.Set("metadata", req.Metadata)
	}
	if req.ProfileCreatedAt != nil {
		ub.Set("profile_created_at", *req.ProfileCreatedAt)
	}
	if req.ProfileLastUpdated != nil {
		ub.Set("profile_last_updated", *req.ProfileLastUpdated)
	}
	if req.TotalSelections != nil {
		ub.Set("total_selections", *req.TotalSelections)
	}
	if req.TotalRejections != nil {
		ub.Set("total_rejections", *req.TotalRejections)
	}
	if req.ProfileConfidence != nil {
		ub.Set("profile_confidence", *req.ProfileConfidence)
	}
	if !ub.HasChanges() {
		return r.GetByID(ctx, userID)
	}
	ub.SetExpr("updated_at = NOW()")
	ub.Key("user_id", userID)
	query, args := ub.Build("user_profiles", profileColumns)

	ctx, cancel := r.db.OperationContext(ctx)
	defer cancel()

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *postgresRepo) Delete(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := r.db.OperationContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM user_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanProfile(row rowScanner) (*UserProfile, error) {
	p := &UserProfile{}
	var gender sql.NullString
	var profileCreatedAt, profileLastUpdated sql.NullTime
	var totalSelections, totalRejections sql.NullInt64
	var profileConfidence sql.NullFloat64
	err := row.Scan(&p.UserID, &gender, &p.Products, &p.Metadata,
		&profileCreatedAt, &profileLastUpdated, &totalSelections,
		&totalRejections, &profileConfidence, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if gender.Valid {
		p.Gender = gender.String
	}
	if profileCreatedAt.Valid {
		p.ProfileCreatedAt = &profileCreatedAt.Time
	}
	if profileLastUpdated.Valid {
		p.ProfileLastUpdated = &profileLastUpdated.Time
	}
	if totalSelections.Valid {
		n := int(totalSelections.Int64)
		p.TotalSelections = &n
	}
	if totalRejections.Valid {
		n := int(totalRejections.Int64)
		p.TotalRejections = &n
	}
	if profileConfidence.Valid {
		p.ProfileConfidence = &profileConfidence.Float64
	}
	return p, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
