package postgres

import (
	"context"
	"time"

	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/metrics"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type reviewRepository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewReviewRepository(db *bun.DB, m *metrics.Metrics) domain.ReviewStore {
	return &reviewRepository{db: db, metrics: m}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(review).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "reviews", time.Since(start), err)

	return mapError(err)
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	start := time.Now()
	review := new(domain.Review)
	err := r.db.NewSelect().Model(review).Where("r.id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "reviews", time.Since(start), err)

	if err != nil {
		return nil, mapError(err)
	}
	return review, nil
}

func (r *reviewRepository) List(ctx context.Context, filter domain.ReviewFilter) ([]domain.Review, int, error) {
	start := time.Now()
	reviews := make([]domain.Review, 0)
	q := r.db.NewSelect().Model(&reviews)

	if filter.ReviewerID != nil {
		q = q.Where("r.reviewer_id = ?", *filter.ReviewerID)
	}
	if filter.RevieweeID != nil {
		q = q.Where("r.reviewee_id = ?", *filter.RevieweeID)
	}

	total, err := q.
		Order("r.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ScanAndCount(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "reviews", time.Since(start), err)

	if err != nil {
		return nil, 0, mapError(err)
	}
	return reviews, total, nil
}

func (r *reviewRepository) AverageRating(ctx context.Context, revieweeID uuid.UUID) (float64, error) {
	start := time.Now()
	var avg float64
	err := r.db.NewSelect().
		Model((*domain.Review)(nil)).
		ColumnExpr("COALESCE(AVG(r.rating), 0)::float8").
		Where("r.reviewee_id = ?", revieweeID).
		Scan(ctx, &avg)

	r.metrics.Database.RecordQuery(ctx, "select", "reviews", time.Since(start), err)

	return avg, mapError(err)
}

func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	start := time.Now()
	res, err := r.db.NewUpdate().
		Model(review).
		Column("rating", "comment", "updated_at").
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "reviews", time.Since(start), err)

	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	res, err := r.db.NewDelete().
		Model((*domain.Review)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "reviews", time.Since(start), err)

	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}
