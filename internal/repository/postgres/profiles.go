package postgres

import (
	"context"
	"time"

	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/metrics"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type profileRepository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewProfileRepository(db *bun.DB, m *metrics.Metrics) domain.ProfileStore {
	return &profileRepository{db: db, metrics: m}
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.StudentProfile) error {
	start := time.Now()
	_, err := r.db.NewInsert().
		Model(profile).
		On("CONFLICT (user_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("university = EXCLUDED.university").
		Set("year_of_study = EXCLUDED.year_of_study").
		Set("skills = EXCLUDED.skills").
		Set("bio = EXCLUDED.bio").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("id, created_at, updated_at").
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "upsert", "student_profiles", time.Since(start), err)

	return mapError(err)
}

func (r *profileRepository) selectWithProjects(profile *domain.StudentProfile) *bun.SelectQuery {
	return r.db.NewSelect().
		Model(profile).
		Relation("Projects", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("pp.created_at ASC")
		})
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudentProfile, error) {
	start := time.Now()
	profile := new(domain.StudentProfile)
	err := r.selectWithProjects(profile).Where("sp.id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "student_profiles", time.Since(start), err)

	if err != nil {
		return nil, mapError(err)
	}
	return profile, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.StudentProfile, error) {
	start := time.Now()
	profile := new(domain.StudentProfile)
	err := r.selectWithProjects(profile).Where("sp.user_id = ?", userID).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "student_profiles", time.Since(start), err)

	if err != nil {
		return nil, mapError(err)
	}
	return profile, nil
}

func (r *profileRepository) CreateProject(ctx context.Context, project *domain.PortfolioProject) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(project).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "portfolio_projects", time.Since(start), err)

	return mapError(err)
}

func (r *profileRepository) UpdateProject(ctx context.Context, project *domain.PortfolioProject) error {
	start := time.Now()
	res, err := r.db.NewUpdate().
		Model(project).
		Column("title", "description", "link").
		Where("pp.id = ? AND pp.student_id = ?", project.ID, project.StudentID).
		Returning("created_at").
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "portfolio_projects", time.Since(start), err)

	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

func (r *profileRepository) DeleteProject(ctx context.Context, studentID, projectID uuid.UUID) error {
	start := time.Now()
	res, err := r.db.NewDelete().
		Model((*domain.PortfolioProject)(nil)).
		Where("id = ? AND student_id = ?", projectID, studentID).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "portfolio_projects", time.Since(start), err)

	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}
