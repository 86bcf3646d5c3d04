// Package postgres implements the storage ports on PostgreSQL through bun.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/samuelcg20/Apt/internal/db"
	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/metrics"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const uniqueViolation = "23505"

// Tables lists the schema in dependency order
func Tables() []db.Table {
	return []db.Table{
		{Model: (*domain.User)(nil)},
		{
			Model:       (*domain.StudentProfile)(nil),
			ForeignKeys: []string{`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`},
		},
		{
			Model:       (*domain.PortfolioProject)(nil),
			ForeignKeys: []string{`("student_id") REFERENCES "student_profiles" ("id") ON DELETE CASCADE`},
		},
		{
			Model:       (*domain.Task)(nil),
			ForeignKeys: []string{`("company_id") REFERENCES "users" ("id") ON DELETE CASCADE`},
		},
		{
			Model: (*domain.Application)(nil),
			ForeignKeys: []string{
				`("task_id") REFERENCES "tasks" ("id") ON DELETE CASCADE`,
				`("student_id") REFERENCES "student_profiles" ("id") ON DELETE CASCADE`,
			},
		},
		{
			Model: (*domain.Review)(nil),
			ForeignKeys: []string{
				`("reviewer_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
				`("reviewee_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
			},
		},
	}
}

func Migrate(ctx context.Context, bunDB *bun.DB, logger *slog.Logger) error {
	return db.RunMigrations(ctx, bunDB, logger, Tables()...)
}

func NewStores(bunDB *bun.DB, m *metrics.Metrics) domain.Stores {
	return domain.Stores{
		Users:        NewUserRepository(bunDB, m),
		Profiles:     NewProfileRepository(bunDB, m),
		Tasks:        NewTaskRepository(bunDB, m),
		Applications: NewApplicationRepository(bunDB, m),
		Reviews:      NewReviewRepository(bunDB, m),
		Ping:         bunDB.PingContext,
	}
}

// mapError translates driver errors into the domain sentinels
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
		return domain.ErrConflict
	}
	return err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
