package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/httputil"

	"github.com/google/uuid"
)

// Authenticate resolves the bearer access token to a user and attaches it
// to the request context.
func Authenticate(codec *TokenCodec, users domain.UserStore, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondWithError(w, http.StatusUnauthorized, "Access token required")
				return
			}

			claims, ok := codec.Verify(token, KindAccess)
			if !ok {
				logger.DebugContext(r.Context(), "invalid access token", "path", r.URL.Path)
				httputil.RespondWithError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				httputil.RespondWithError(w, http.StatusForbidden, "User not found")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					httputil.RespondWithError(w, http.StatusForbidden, "User not found")
					return
				}
				logger.ErrorContext(r.Context(), "authentication lookup failed", "error", err)
				httputil.RespondWithError(w, http.StatusInternalServerError, "Authentication failed")
				return
			}

			ctx := WithUser(r.Context(), CurrentUser{ID: user.ID, Role: user.Role, Email: user.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireRole admits only users whose role is in roles
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				httputil.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !slices.Contains(roles, user.Role) {
				httputil.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireStudent() func(http.Handler) http.Handler {
	return RequireRole(domain.RoleStudent)
}

func RequireCompany() func(http.Handler) http.Handler {
	return RequireRole(domain.RoleCompany)
}
