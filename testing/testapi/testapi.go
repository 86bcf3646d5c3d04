// Package testapi builds an in-memory request environment for handler tests.
package testapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samuelcg20/Apt/internal/auth"
	"github.com/samuelcg20/Apt/internal/config"
	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/events"
	"github.com/samuelcg20/Apt/internal/metrics"
	"github.com/samuelcg20/Apt/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var AuthConfig = config.AuthConfig{
	AccessSecret:  "access-secret-for-tests",
	RefreshSecret: "refresh-secret-for-tests",
	AccessTTL:     15 * time.Minute,
	RefreshTTL:    7 * 24 * time.Hour,
	BcryptCost:    4,
}

type Env struct {
	Stores       domain.Stores
	Codec        *auth.TokenCodec
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Events       *events.Recorder
	Emitter      *events.Emitter
	Authenticate func(http.Handler) http.Handler
}

func New(t *testing.T) *Env {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewMock()
	stores := memory.NewStores(memory.New())
	codec := auth.NewTokenCodec(AuthConfig)
	recorder := &events.Recorder{}

	return &Env{
		Stores:       stores,
		Codec:        codec,
		Logger:       logger,
		Metrics:      m,
		Events:       recorder,
		Emitter:      events.NewEmitter(recorder, "test", logger, m),
		Authenticate: auth.Authenticate(codec, stores.Users, logger),
	}
}

// User stores a user and returns it with a valid access token
func (e *Env) User(t *testing.T, email string, role domain.Role) (*domain.User, string) {
	t.Helper()

	u := &domain.User{ID: uuid.New(), Email: email, PasswordHash: "unused", Role: role}
	require.NoError(t, e.Stores.Users.Create(context.Background(), u))

	pair, err := e.Codec.IssuePair(u.ID, u.Role)
	require.NoError(t, err)
	return u, pair.AccessToken
}

// Student stores a student with a profile
func (e *Env) Student(t *testing.T, email string) (*domain.User, *domain.StudentProfile, string) {
	t.Helper()

	u, token := e.User(t, email, domain.RoleStudent)
	p := &domain.StudentProfile{
		ID:          uuid.New(),
		UserID:      u.ID,
		Name:        email,
		University:  "NUS",
		YearOfStudy: 2,
		Skills:      []string{"Go"},
	}
	require.NoError(t, e.Stores.Profiles.Upsert(context.Background(), p))
	return u, p, token
}

// Task stores a task owned by companyID
func (e *Env) Task(t *testing.T, companyID uuid.UUID, status domain.TaskStatus) *domain.Task {
	t.Helper()

	task := &domain.Task{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Title:        "Landing page",
		Description:  "Build it",
		Domain:       domain.DomainCoding,
		Duration:     "2 weeks",
		Deliverables: "Repo",
		Status:       status,
	}
	require.NoError(t, e.Stores.Tasks.Create(context.Background(), task))
	return task
}

// Do sends a JSON request through handler
func Do(t *testing.T, handler http.Handler, method, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader = http.NoBody
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func Decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
