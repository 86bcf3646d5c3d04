package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/metrics"
	"github.com/samuelcg20/Apt/internal/pagination"
	"github.com/samuelcg20/Apt/testing/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTables = []string{"reviews", "applications", "tasks", "portfolio_projects", "student_profiles", "users"}

func TestRepositories(t *testing.T) {
	pg := testdb.SetupSharedPostgres(t)
	defer pg.Cleanup(t)

	pg.Migrate(t, Tables()...)
	stores := NewStores(pg.DB, metrics.NewMock())
	ctx := context.Background()

	createUser := func(t *testing.T, email string, role domain.Role) *domain.User {
		t.Helper()
		u := &domain.User{ID: uuid.New(), Email: email, PasswordHash: "hash", Role: role, CreatedAt: time.Now().UTC()}
		require.NoError(t, stores.Users.Create(ctx, u))
		return u
	}

	t.Run("users", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, allTables...)

		u := createUser(t, "student@example.com", domain.RoleStudent)

		got, err := stores.Users.GetByEmail(ctx, "student@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		err = stores.Users.Create(ctx, &domain.User{ID: uuid.New(), Email: "student@example.com", PasswordHash: "h", Role: domain.RoleCompany})
		assert.ErrorIs(t, err, domain.ErrConflict)

		_, err = stores.Users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("profile upsert and projects", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, allTables...)

		u := createUser(t, "ann@example.com", domain.RoleStudent)
		now := time.Now().UTC()
		p := &domain.StudentProfile{ID: uuid.New(), UserID: u.ID, Name: "Ann", University: "NUS", YearOfStudy: 2, Skills: []string{"go"}, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, stores.Profiles.Upsert(ctx, p))

		again := &domain.StudentProfile{ID: uuid.New(), UserID: u.ID, Name: "Ann B", University: "NUS", YearOfStudy: 3, Skills: []string{"go", "sql"}, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, stores.Profiles.Upsert(ctx, again))
		assert.Equal(t, p.ID, again.ID)

		link := "https://example.com"
		proj := &domain.PortfolioProject{ID: uuid.New(), StudentID: p.ID, Title: "site", Description: "d", Link: &link, CreatedAt: now}
		require.NoError(t, stores.Profiles.CreateProject(ctx, proj))

		got, err := stores.Profiles.GetByUserID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ann B", got.Name)
		assert.Equal(t, []string{"go", "sql"}, got.Skills)
		require.Len(t, got.Projects, 1)
		assert.Equal(t, "site", got.Projects[0].Title)

		err = stores.Profiles.DeleteProject(ctx, uuid.New(), proj.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		proj.Title = "renamed"
		require.NoError(t, stores.Profiles.UpdateProject(ctx, proj))
		require.NoError(t, stores.Profiles.DeleteProject(ctx, p.ID, proj.ID))
	})

	t.Run("tasks applications and cascade", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, allTables...)

		company := createUser(t, "co@example.com", domain.RoleCompany)
		student := createUser(t, "st@example.com", domain.RoleStudent)
		now := time.Now().UTC()
		profile := &domain.StudentProfile{ID: uuid.New(), UserID: student.ID, Name: "S", University: "U", YearOfStudy: 1, Skills: []string{"x"}, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, stores.Profiles.Upsert(ctx, profile))

		var ids []uuid.UUID
		for i := 0; i < 3; i++ {
			task := &domain.Task{
				ID: uuid.New(), CompanyID: company.ID, Title: "task", Description: "d",
				Domain: domain.DomainCoding, Duration: "1w", Deliverables: "code", Status: domain.TaskOpen,
				CreatedAt: now.Add(time.Duration(i) * time.Second), UpdatedAt: now,
			}
			require.NoError(t, stores.Tasks.Create(ctx, task))
			ids = append(ids, task.ID)
		}

		list, total, err := stores.Tasks.List(ctx, domain.TaskFilter{CompanyID: &company.ID, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, list, 2)
		assert.Equal(t, ids[2], list[0].ID)

		last := pagination.Normalize(pagination.MaxPage, pagination.MaxLimit)
		beyond, total, err := stores.Tasks.List(ctx, domain.TaskFilter{Offset: last.Offset(), Limit: last.Limit})
		require.NoError(t, err)
		assert.Empty(t, beyond)
		assert.Equal(t, 3, total)

		app := &domain.Application{ID: uuid.New(), TaskID: ids[0], StudentID: profile.ID, Status: domain.ApplicationApplied, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, stores.Applications.Create(ctx, app))

		dup := &domain.Application{ID: uuid.New(), TaskID: ids[0], StudentID: profile.ID, Status: domain.ApplicationApplied}
		assert.ErrorIs(t, stores.Applications.Create(ctx, dup), domain.ErrConflict)

		updated, err := stores.Applications.UpdateStatus(ctx, app.ID, domain.ApplicationAccepted)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationAccepted, updated.Status)

		count, err := stores.Applications.CountByTask(ctx, ids[0])
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		assert.ErrorIs(t, stores.Tasks.Delete(ctx, ids[0], student.ID), domain.ErrNotFound)
		require.NoError(t, stores.Tasks.Delete(ctx, ids[0], company.ID))

		_, err = stores.Applications.GetByID(ctx, app.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("reviews", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, allTables...)

		a := createUser(t, "a@example.com", domain.RoleStudent)
		b := createUser(t, "b@example.com", domain.RoleCompany)
		c := createUser(t, "c@example.com", domain.RoleCompany)
		now := time.Now().UTC()

		require.NoError(t, stores.Reviews.Create(ctx, &domain.Review{ID: uuid.New(), ReviewerID: b.ID, RevieweeID: a.ID, Rating: 4, CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, stores.Reviews.Create(ctx, &domain.Review{ID: uuid.New(), ReviewerID: c.ID, RevieweeID: a.ID, Rating: 5, CreatedAt: now, UpdatedAt: now}))

		err := stores.Reviews.Create(ctx, &domain.Review{ID: uuid.New(), ReviewerID: b.ID, RevieweeID: a.ID, Rating: 1})
		assert.ErrorIs(t, err, domain.ErrConflict)

		avg, err := stores.Reviews.AverageRating(ctx, a.ID)
		require.NoError(t, err)
		assert.InDelta(t, 4.5, avg, 0.0001)

		avg, err = stores.Reviews.AverageRating(ctx, b.ID)
		require.NoError(t, err)
		assert.Zero(t, avg)
	})
}
