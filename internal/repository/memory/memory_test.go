package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/samuelcg20/Apt/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string, role domain.Role) *domain.User {
	return &domain.User{ID: uuid.New(), Email: email, PasswordHash: "x", Role: role}
}

func TestUsers_EmailIsUnique(t *testing.T) {
	ctx := context.Background()
	stores := NewStores(New())

	require.NoError(t, stores.Users.Create(ctx, newUser("a@example.com", domain.RoleStudent)))
	err := stores.Users.Create(ctx, newUser("A@example.com", domain.RoleCompany))
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := stores.Users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, got.Role)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = stores.Users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfiles_UpsertKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	stores := NewStores(New())
	userID := uuid.New()

	first := &domain.StudentProfile{ID: uuid.New(), UserID: userID, Name: "Ann", University: "NUS", YearOfStudy: 2, Skills: []string{"go"}}
	require.NoError(t, stores.Profiles.Upsert(ctx, first))

	second := &domain.StudentProfile{ID: uuid.New(), UserID: userID, Name: "Ann B", University: "NUS", YearOfStudy: 3, Skills: []string{"go", "sql"}}
	require.NoError(t, stores.Profiles.Upsert(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	got, err := stores.Profiles.GetByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Ann B", got.Name)
	assert.Equal(t, []string{"go", "sql"}, got.Skills)
	assert.Empty(t, got.Projects)
}

func TestProfiles_ProjectsAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	stores := NewStores(New())

	profile := &domain.StudentProfile{ID: uuid.New(), UserID: uuid.New(), Name: "Ann", University: "NUS", YearOfStudy: 1, Skills: []string{"go"}}
	require.NoError(t, stores.Profiles.Upsert(ctx, profile))

	older := &domain.PortfolioProject{ID: uuid.New(), StudentID: profile.ID, Title: "one", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &domain.PortfolioProject{ID: uuid.New(), StudentID: profile.ID, Title: "two"}
	require.NoError(t, stores.Profiles.CreateProject(ctx, newer))
	require.NoError(t, stores.Profiles.CreateProject(ctx, older))

	got, err := stores.Profiles.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	require.Len(t, got.Projects, 2)
	assert.Equal(t, "one", got.Projects[0].Title)

	stranger := uuid.New()
	err = stores.Profiles.UpdateProject(ctx, &domain.PortfolioProject{ID: newer.ID, StudentID: stranger, Title: "hijack"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, stores.Profiles.DeleteProject(ctx, stranger, newer.ID), domain.ErrNotFound)

	require.NoError(t, stores.Profiles.DeleteProject(ctx, profile.ID, newer.ID))
	got, err = stores.Profiles.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Len(t, got.Projects, 1)
}

func TestTasks_ListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	stores := NewStores(New())
	company := uuid.New()
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		d := domain.DomainCoding
		if i%2 == 1 {
			d = domain.DomainFinance
		}
		require.NoError(t, stores.Tasks.Create(ctx, &domain.Task{
			ID:        uuid.New(),
			CompanyID: company,
			Title:     string(rune('a' + i)),
			Domain:    d,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, total, err := stores.Tasks.List(ctx, domain.TaskFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, all, 2)
	assert.Equal(t, "e", all[0].Title)
	assert.Equal(t, "d", all[1].Title)

	last, _, err := stores.Tasks.List(ctx, domain.TaskFilter{Offset: 4, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, last, 1)

	beyond, total, err := stores.Tasks.List(ctx, domain.TaskFilter{Offset: 10, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.Equal(t, 5, total)

	finance := domain.DomainFinance
	filtered, total, err := stores.Tasks.List(ctx, domain.TaskFilter{Domain: &finance})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, task := range filtered {
		assert.Equal(t, domain.DomainFinance, task.Domain)
		assert.Equal(t, domain.TaskOpen, task.Status)
	}
}

func TestTasks_DeleteCascadesApplications(t *testing.T) {
	ctx := context.Background()
	stores := NewStores(New())
	company := uuid.New()

	task := &domain.Task{ID: uuid.New(), CompanyID: company, Title: "t", Domain: domain.DomainUIUX}
	require.NoError(t, stores.Tasks.Create(ctx, task))
	app := &domain.Application{ID: uuid.New(), TaskID: task.ID, StudentID: uuid.New()}
	require.NoError(t, stores.Applications.Create(ctx, app))

	assert.ErrorIs(t, stores.Tasks.Delete(ctx, task.ID, uuid.New()), domain.ErrNotFound)
	require.NoError(t, stores.Tasks.Delete(ctx, task.ID, company))

	_, err := stores.Applications.GetByID(ctx, app.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplications_PairIsUniqueUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	stores := NewStores(New())

	task := &domain.Task{ID: uuid.New(), CompanyID: uuid.New(), Domain: domain.DomainCoding}
	require.NoError(t, stores.Tasks.Create(ctx, task))
	student := uuid.New()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := stores.Applications.Create(ctx, &domain.Application{ID: uuid.New(), TaskID: task.ID, StudentID: student})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	count, err := stores.Applications.CountByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestApplications_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	stores := NewStores(New())

	task := &domain.Task{ID: uuid.New(), CompanyID: uuid.New(), Domain: domain.DomainCoding}
	require.NoError(t, stores.Tasks.Create(ctx, task))
	app := &domain.Application{ID: uuid.New(), TaskID: task.ID, StudentID: uuid.New()}
	require.NoError(t, stores.Applications.Create(ctx, app))
	assert.Equal(t, domain.ApplicationApplied, app.Status)

	updated, err := stores.Applications.UpdateStatus(ctx, app.ID, domain.ApplicationAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationAccepted, updated.Status)

	_, err = stores.Applications.UpdateStatus(ctx, uuid.New(), domain.ApplicationRejected)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviews_UniquePairAndAverage(t *testing.T) {
	ctx := context.Background()
	stores := NewStores(New())
	reviewee := uuid.New()

	avg, err := stores.Reviews.AverageRating(ctx, reviewee)
	require.NoError(t, err)
	assert.Zero(t, avg)

	reviewer := uuid.New()
	require.NoError(t, stores.Reviews.Create(ctx, &domain.Review{ID: uuid.New(), ReviewerID: reviewer, RevieweeID: reviewee, Rating: 5}))
	require.NoError(t, stores.Reviews.Create(ctx, &domain.Review{ID: uuid.New(), ReviewerID: uuid.New(), RevieweeID: reviewee, Rating: 2}))

	err = stores.Reviews.Create(ctx, &domain.Review{ID: uuid.New(), ReviewerID: reviewer, RevieweeID: reviewee, Rating: 1})
	assert.ErrorIs(t, err, domain.ErrConflict)

	avg, err = stores.Reviews.AverageRating(ctx, reviewee)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, avg, 0.0001)

	list, total, err := stores.Reviews.List(ctx, domain.ReviewFilter{RevieweeID: &reviewee, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)
}
