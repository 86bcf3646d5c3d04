package auth_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samuelcg20/Apt/internal/auth"
	"github.com/samuelcg20/Apt/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequireRole(t *testing.T) {
	guarded := auth.RequireCompany()(http.HandlerFunc(okHandler))

	tests := []struct {
		name string
		user *auth.CurrentUser
		want int
	}{
		{"NoUser", nil, http.StatusUnauthorized},
		{"WrongRole", &auth.CurrentUser{ID: uuid.New(), Role: domain.RoleStudent}, http.StatusForbidden},
		{"Allowed", &auth.CurrentUser{ID: uuid.New(), Role: domain.RoleCompany}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				req = req.WithContext(auth.WithUser(req.Context(), *tt.user))
			}
			w := httptest.NewRecorder()
			guarded.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var seen auth.CurrentUser
	handler := auth.Authenticate(env.codec, env.stores.Users, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	registered := env.register(t, "gate@example.com", domain.RoleStudent)
	ghost, err := env.codec.IssuePair(uuid.New(), domain.RoleStudent)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
		want   int
		body   string
	}{
		{"Missing", "", http.StatusUnauthorized, "Access token required"},
		{"WrongScheme", "Basic " + registered.AccessToken, http.StatusUnauthorized, "Access token required"},
		{"BlankToken", "Bearer ", http.StatusUnauthorized, "Access token required"},
		{"Garbage", "Bearer nope", http.StatusForbidden, "Invalid or expired token"},
		{"RefreshAsAccess", "Bearer " + registered.RefreshToken, http.StatusForbidden, "Invalid or expired token"},
		{"UnknownUser", "Bearer " + ghost.AccessToken, http.StatusForbidden, "User not found"},
		{"Valid", "Bearer " + registered.AccessToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.body != "" {
				assert.Contains(t, w.Body.String(), tt.body)
			}
		})
	}

	assert.Equal(t, registered.User.ID, seen.ID)
	assert.Equal(t, domain.RoleStudent, seen.Role)
	assert.Equal(t, "gate@example.com", seen.Email)
}
