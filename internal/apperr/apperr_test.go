package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/samuelcg20/Apt/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindValidation, http.StatusBadRequest},
		{apperr.KindConflict, http.StatusBadRequest},
		{apperr.KindUnauthenticated, http.StatusUnauthorized},
		{apperr.KindForbidden, http.StatusForbidden},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindUnavailable, http.StatusServiceUnavailable},
		{apperr.KindRateLimited, http.StatusTooManyRequests},
		{apperr.KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, apperr.Status(tt.kind))
	}
}

func TestSentinelMatching(t *testing.T) {
	errTaskNotFound := apperr.NotFound("Task not found")

	wrapped := fmt.Errorf("apply: %w", apperr.NotFound("Task not found"))
	assert.True(t, errors.Is(wrapped, errTaskNotFound))
	assert.False(t, errors.Is(wrapped, apperr.NotFound("Profile not found")))
	assert.False(t, errors.Is(wrapped, apperr.Conflict("Task not found")))

	appErr, ok := apperr.As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, apperr.KindNotFound, appErr.Kind)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(errors.New("boom")))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(apperr.Conflict("dup")))
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Wrap(apperr.KindInternal, "store failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store failed: connection reset", err.Error())
}
