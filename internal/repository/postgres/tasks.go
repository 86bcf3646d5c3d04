package postgres

import (
	"context"
	"time"

	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/metrics"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type taskRepository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewTaskRepository(db *bun.DB, m *metrics.Metrics) domain.TaskStore {
	return &taskRepository{db: db, metrics: m}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(task).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "tasks", time.Since(start), err)

	return mapError(err)
}

func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	start := time.Now()
	task := new(domain.Task)
	err := r.db.NewSelect().Model(task).Where("t.id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "tasks", time.Since(start), err)

	if err != nil {
		return nil, mapError(err)
	}
	return task, nil
}

func (r *taskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int, error) {
	start := time.Now()
	tasks := make([]domain.Task, 0)
	q := r.db.NewSelect().Model(&tasks)

	if filter.Domain != nil {
		q = q.Where("t.domain = ?", *filter.Domain)
	}
	if filter.Status != nil {
		q = q.Where("t.status = ?", *filter.Status)
	}
	if filter.CompanyID != nil {
		q = q.Where("t.company_id = ?", *filter.CompanyID)
	}

	total, err := q.
		Order("t.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ScanAndCount(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "tasks", time.Since(start), err)

	if err != nil {
		return nil, 0, mapError(err)
	}
	return tasks, total, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	start := time.Now()
	res, err := r.db.NewUpdate().
		Model(task).
		ExcludeColumn("id", "company_id", "created_at").
		Where("t.id = ? AND t.company_id = ?", task.ID, task.CompanyID).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "tasks", time.Since(start), err)

	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

func (r *taskRepository) Delete(ctx context.Context, id, companyID uuid.UUID) error {
	start := time.Now()
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*domain.Application)(nil)).
			Where("task_id IN (SELECT id FROM tasks WHERE id = ? AND company_id = ?)", id, companyID).
			Exec(ctx)
		if err != nil {
			return err
		}

		res, err := tx.NewDelete().
			Model((*domain.Task)(nil)).
			Where("id = ? AND company_id = ?", id, companyID).
			Exec(ctx)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})

	r.metrics.Database.RecordQuery(ctx, "delete", "tasks", time.Since(start), err)

	return mapError(err)
}
