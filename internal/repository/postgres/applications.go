package postgres

import (
	"context"
	"time"

	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/metrics"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type applicationRepository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewApplicationRepository(db *bun.DB, m *metrics.Metrics) domain.ApplicationStore {
	return &applicationRepository{db: db, metrics: m}
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(app).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "applications", time.Since(start), err)

	return mapError(err)
}

func (r *applicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	start := time.Now()
	app := new(domain.Application)
	err := r.db.NewSelect().Model(app).Where("a.id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "applications", time.Since(start), err)

	if err != nil {
		return nil, mapError(err)
	}
	return app, nil
}

func (r *applicationRepository) GetByTaskAndStudent(ctx context.Context, taskID, studentID uuid.UUID) (*domain.Application, error) {
	start := time.Now()
	app := new(domain.Application)
	err := r.db.NewSelect().
		Model(app).
		Where("a.task_id = ? AND a.student_id = ?", taskID, studentID).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "applications", time.Since(start), err)

	if err != nil {
		return nil, mapError(err)
	}
	return app, nil
}

func (r *applicationRepository) List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.Application, int, error) {
	start := time.Now()
	apps := make([]domain.Application, 0)
	q := r.db.NewSelect().Model(&apps)

	if filter.TaskID != nil {
		q = q.Where("a.task_id = ?", *filter.TaskID)
	}
	if filter.StudentID != nil {
		q = q.Where("a.student_id = ?", *filter.StudentID)
	}

	total, err := q.
		Order("a.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ScanAndCount(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "applications", time.Since(start), err)

	if err != nil {
		return nil, 0, mapError(err)
	}
	return apps, total, nil
}

func (r *applicationRepository) CountByTask(ctx context.Context, taskID uuid.UUID) (int, error) {
	start := time.Now()
	count, err := r.db.NewSelect().
		Model((*domain.Application)(nil)).
		Where("a.task_id = ?", taskID).
		Count(ctx)

	r.metrics.Database.RecordQuery(ctx, "count", "applications", time.Since(start), err)

	return count, mapError(err)
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus) (*domain.Application, error) {
	start := time.Now()
	app := new(domain.Application)
	res, err := r.db.NewUpdate().
		Model(app).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("a.id = ?", id).
		Returning("*").
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "applications", time.Since(start), err)

	if err != nil {
		return nil, mapError(err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	res, err := r.db.NewDelete().
		Model((*domain.Application)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "applications", time.Since(start), err)

	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}
