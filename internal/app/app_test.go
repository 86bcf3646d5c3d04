package app_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samuelcg20/Apt/internal/app"
	"github.com/samuelcg20/Apt/internal/application"
	"github.com/samuelcg20/Apt/internal/auth"
	"github.com/samuelcg20/Apt/internal/config"
	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/fixture"
	"github.com/samuelcg20/Apt/internal/logger"
	"github.com/samuelcg20/Apt/internal/pagination"
	"github.com/samuelcg20/Apt/internal/profile"
	"github.com/samuelcg20/Apt/internal/review"
	"github.com/samuelcg20/Apt/internal/task"
	"github.com/samuelcg20/Apt/testing/testapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:     "test",
		Server:  config.ServerConfig{Port: "0", CORSOrigins: []string{"http://localhost:3000"}},
		Storage: config.StorageConfig{Driver: config.StorageMemory},
		Auth:    testapi.AuthConfig,
		RateLimit: config.RateLimitConfig{
			Enabled:     true,
			LoginLimit:  100,
			LoginWindow: time.Minute,
			ApplyLimit:  100,
			ApplyWindow: time.Minute,
		},
		Events:      config.EventsConfig{Driver: config.EventsNoop},
		Maintenance: config.MaintenanceConfig{Message: "closed"},
	}
}

func newApp(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	a, err := app.New(context.Background(), cfg, app.WithLogger(logger.NewNop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a.Handler()
}

func register(t *testing.T, h http.Handler, email string, role domain.Role) auth.AuthResponse {
	t.Helper()

	w := testapi.Do(t, h, http.MethodPost, "/auth/register", map[string]string{
		"email": email, "password": "secret1", "role": string(role),
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testapi.Decode[auth.AuthResponse](t, w)
}

func TestApp_RegisterThenLoginResolvesSameUser(t *testing.T) {
	h := newApp(t, testConfig())

	reg := register(t, h, "ann@example.com", domain.RoleStudent)

	w := testapi.Do(t, h, http.MethodPost, "/auth/login", map[string]string{"email": "ann@example.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	login := testapi.Decode[auth.AuthResponse](t, w)
	assert.Equal(t, reg.User.ID, login.User.ID)

	w = testapi.Do(t, h, http.MethodGet, "/auth/me", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	me := testapi.Decode[auth.MeResponse](t, w)
	assert.Equal(t, reg.User.ID, me.User.ID)
	assert.Nil(t, me.User.StudentProfile)
}

func TestApp_AccessRules(t *testing.T) {
	cfg := testConfig()
	h := newApp(t, cfg)
	student := register(t, h, "st@example.com", domain.RoleStudent)

	expired, err := auth.NewTokenCodec(cfg.Auth).
		WithClock(func() time.Time { return time.Now().Add(-time.Hour) }).
		IssuePair(student.User.ID, domain.RoleStudent)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no authorization header", http.MethodGet, "/auth/me", "", http.StatusUnauthorized},
		{"expired access token", http.MethodGet, "/auth/me", expired.AccessToken, http.StatusForbidden},
		{"student on company route", http.MethodGet, "/tasks/company/my-tasks", student.AccessToken, http.StatusForbidden},
		{"public task list", http.MethodGet, "/tasks", "", http.StatusOK},
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"ready", http.MethodGet, "/ready", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testapi.Do(t, h, tt.method, tt.path, nil, tt.token)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	t.Run("expired refresh token", func(t *testing.T) {
		w := testapi.Do(t, h, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": expired.RefreshToken}, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.NotContains(t, w.Body.String(), "accessToken")
	})
}

func TestApp_CompanyPostsStudentApplies(t *testing.T) {
	h := newApp(t, testConfig())
	company := register(t, h, "co@example.com", domain.RoleCompany)
	student := register(t, h, "st@example.com", domain.RoleStudent)

	w := testapi.Do(t, h, http.MethodPost, "/tasks", map[string]string{
		"title": "Landing page", "description": "Build it", "domain": "CODING",
		"duration": "2 weeks", "deliverables": "Repo",
	}, company.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := testapi.Decode[task.TaskResponse](t, w)
	assert.Equal(t, domain.TaskOpen, created.Task.Status)
	assert.Equal(t, company.User.ID, created.Task.CompanyID)

	w = testapi.Do(t, h, http.MethodGet, "/tasks", nil, "")
	list := testapi.Decode[task.ListResponse](t, w)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, 0, list.Tasks[0].ApplicationCount)
	require.NotNil(t, list.Tasks[0].Company)
	assert.Equal(t, "co@example.com", list.Tasks[0].Company.Email)

	applyPath := fmt.Sprintf("/applications/apply/%s", created.Task.ID)

	w = testapi.Do(t, h, http.MethodPost, applyPath, nil, student.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code, "profile is required first")

	w = testapi.Do(t, h, http.MethodPut, "/users/profile", map[string]interface{}{
		"name": "Ann", "university": "NUS", "yearOfStudy": 2, "skills": []string{"Go"},
	}, student.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotNil(t, testapi.Decode[profile.ProfileResponse](t, w).Profile)

	w = testapi.Do(t, h, http.MethodPost, applyPath, nil, student.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	applied := testapi.Decode[application.ApplicationResponse](t, w)
	assert.Equal(t, domain.ApplicationApplied, applied.Application.Status)

	w = testapi.Do(t, h, http.MethodPost, applyPath, nil, student.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "You have already applied to this task")

	w = testapi.Do(t, h, http.MethodGet, fmt.Sprintf("/applications/task/%s", created.Task.ID), nil, company.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	forTask := testapi.Decode[application.ListResponse](t, w)
	require.Len(t, forTask.Applications, 1)
	require.NotNil(t, forTask.Applications[0].Student)
	assert.Equal(t, "Ann", forTask.Applications[0].Student.Name)

	w = testapi.Do(t, h, http.MethodPut, fmt.Sprintf("/applications/%s/status", applied.Application.ID),
		map[string]string{"status": "ACCEPTED"}, company.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.ApplicationAccepted, testapi.Decode[application.ApplicationResponse](t, w).Application.Status)

	w = testapi.Do(t, h, http.MethodPut, fmt.Sprintf("/tasks/%s", created.Task.ID),
		map[string]string{"status": "CLOSED"}, company.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	late := register(t, h, "late@example.com", domain.RoleStudent)
	w = testapi.Do(t, h, http.MethodPut, "/users/profile", map[string]interface{}{
		"name": "Late", "university": "NTU", "yearOfStudy": 1, "skills": []string{"SQL"},
	}, late.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = testapi.Do(t, h, http.MethodPost, applyPath, nil, late.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Task is not open for applications")
}

func TestApp_RegisteredCompanyTaskIsListedOpen(t *testing.T) {
	h := newApp(t, testConfig())

	w := testapi.Do(t, h, http.MethodPost, "/auth/register", map[string]string{
		"email": "c1@x.com", "password": "pw123456", "role": "COMPANY",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	company := testapi.Decode[auth.AuthResponse](t, w)

	w = testapi.Do(t, h, http.MethodPost, "/tasks", map[string]string{
		"title": "T", "description": "d", "domain": "CODING", "duration": "1 week", "deliverables": "code",
	}, company.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = testapi.Do(t, h, http.MethodGet, "/tasks", nil, "")
	list := testapi.Decode[task.ListResponse](t, w)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, "T", list.Tasks[0].Title)
	assert.Equal(t, domain.TaskOpen, list.Tasks[0].Status)
}

func TestApp_Reviews(t *testing.T) {
	h := newApp(t, testConfig())
	company := register(t, h, "co@example.com", domain.RoleCompany)
	student := register(t, h, "st@example.com", domain.RoleStudent)

	w := testapi.Do(t, h, http.MethodPost, "/reviews", map[string]interface{}{
		"revieweeId": company.User.ID, "rating": 9,
	}, company.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot review yourself")

	w = testapi.Do(t, h, http.MethodPost, "/reviews", map[string]interface{}{
		"revieweeId": student.User.ID, "rating": 4,
	}, company.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = testapi.Do(t, h, http.MethodGet, fmt.Sprintf("/reviews/user/%s", student.User.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := testapi.Decode[review.UserReviewsResponse](t, w)
	assert.Equal(t, 1, got.TotalReviews)
	assert.InDelta(t, 4.0, got.AverageRating, 0.0001)
}

func TestApp_Pagination(t *testing.T) {
	h := newApp(t, testConfig())
	company := register(t, h, "co@example.com", domain.RoleCompany)

	for i := 0; i < 7; i++ {
		w := testapi.Do(t, h, http.MethodPost, "/tasks", map[string]string{
			"title": fmt.Sprintf("task %d", i), "description": "d", "domain": "FINANCE",
			"duration": "1 week", "deliverables": "sheet",
		}, company.AccessToken)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	tests := []struct {
		query     string
		wantItems int
		wantPage  int
		wantLimit int
		wantPages int
	}{
		{"", 7, 1, 10, 1},
		{"?page=2&limit=3", 3, 2, 3, 3},
		{"?page=3&limit=3", 1, 3, 3, 3},
		{"?page=9&limit=3", 0, 9, 3, 3},
		{"?page=abc&limit=-1", 7, 1, 10, 1},
		{"?limit=1000", 7, 1, 100, 1},
		{"?page=1000000000000000000", 0, pagination.MaxPage, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := testapi.Do(t, h, http.MethodGet, "/tasks"+tt.query, nil, "")
			require.Equal(t, http.StatusOK, w.Code)
			got := testapi.Decode[task.ListResponse](t, w)
			assert.Len(t, got.Tasks, tt.wantItems)
			assert.LessOrEqual(t, len(got.Tasks), got.Pagination.Limit)
			assert.Equal(t, 7, got.Pagination.Total)
			assert.Equal(t, tt.wantPage, got.Pagination.Page)
			assert.Equal(t, tt.wantLimit, got.Pagination.Limit)
			assert.Equal(t, tt.wantPages, got.Pagination.Pages)
		})
	}
}

func TestApp_SeededDemo(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Seed = true
	cfg.Maintenance.DemoDefaults = true
	h := newApp(t, cfg)

	w := testapi.Do(t, h, http.MethodPost, "/auth/login", map[string]string{
		"email": "mike.chen@company.com", "password": fixture.DemoPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	mike := testapi.Decode[auth.AuthResponse](t, w)

	w = testapi.Do(t, h, http.MethodGet, "/tasks/company/my-tasks", nil, mike.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, testapi.Decode[task.ListResponse](t, w).Pagination.Total)

	w = testapi.Do(t, h, http.MethodPost, "/tasks", map[string]string{
		"title": "t", "description": "d", "domain": "CODING", "duration": "1 week", "deliverables": "x",
	}, mike.AccessToken)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "closed")

	w = testapi.Do(t, h, http.MethodPut, fmt.Sprintf("/tasks/%s", fixture.ID("task_1")),
		map[string]string{"title": "Renamed"}, mike.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code, "updates stay open in the demo")
}

func TestApp_CORSPreflight(t *testing.T) {
	h := newApp(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/tasks", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNew_RejectsUnknownMaintenanceOperation(t *testing.T) {
	cfg := testConfig()
	cfg.Maintenance.DisabledWrites = []string{"tasks.explode"}

	_, err := app.New(context.Background(), cfg, app.WithLogger(logger.NewNop()))
	assert.Error(t, err)
}
