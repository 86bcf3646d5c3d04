package auth

import (
	"context"

	"github.com/samuelcg20/Apt/internal/domain"

	"github.com/google/uuid"
)

type contextKey string

const userKey contextKey = "current_user"

// CurrentUser is the authenticated caller attached by Authenticate
type CurrentUser struct {
	ID    uuid.UUID
	Role  domain.Role
	Email string
}

func WithUser(ctx context.Context, u CurrentUser) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (CurrentUser, bool) {
	u, ok := ctx.Value(userKey).(CurrentUser)
	return u, ok
}
