package postgres

import (
	"context"
	"time"

	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/metrics"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type userRepository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewUserRepository(db *bun.DB, m *metrics.Metrics) domain.UserStore {
	return &userRepository{db: db, metrics: m}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(user).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "users", time.Since(start), err)

	return mapError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	start := time.Now()
	user := new(domain.User)
	err := r.db.NewSelect().Model(user).Where("u.id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), err)

	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	start := time.Now()
	user := new(domain.User)
	err := r.db.NewSelect().
		Model(user).
		Where("u.email = ?", email).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), err)

	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}
