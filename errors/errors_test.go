package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "with detail",
			err:      New(ValidationError, "invalid amount", "amount must be positive"),
			expected: "VALIDATION_ERROR: invalid amount (amount must be positive)",
		},
		{
			name:     "without detail",
			err:      AuthenticationFailed("token expired"),
			expected: "AUTHENTICATION_ERROR: token expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_HTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"validation", ValidationFailed("bad", "detail"), http.StatusBadRequest},
		{"not found", NotFound("expense", "abc"), http.StatusNotFound},
		{"group not found", GroupNotFound("g1"), http.StatusNotFound},
		{"group access denied", GroupAccessDenied("u1", "g1"), http.StatusForbidden},
		{"forbidden", Forbidden("no", "details"), http.StatusForbidden},
		{"conflict", Conflict("dup", "details"), http.StatusConflict},
		{"rate limited", RateLimited("slow down", ""), http.StatusTooManyRequests},
		{"database", NewDatabaseError(errors.New("conn refused")), http.StatusInternalServerError},
		{"recompute", RecomputeFailed(errors.New("insert failed")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.GetHTTPStatus())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("wraps raw error", func(t *testing.T) {
		raw := errors.New("underlying failure")
		wrapped := Wrap(raw, DatabaseError, "query failed")

		assert.Equal(t, DatabaseError, wrapped.Type)
		assert.Equal(t, "query failed", wrapped.Message)
		assert.Equal(t, raw.Error(), wrapped.Detail)
		assert.True(t, errors.Is(wrapped, raw))
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, DatabaseError, "query failed"))
	})
}

func TestRecomputeFailed_GenericMessage(t *testing.T) {
	// Callers must never see the underlying cause of a recompute failure.
	err := RecomputeFailed(errors.New("pq: deadlock detected"))
	assert.Equal(t, "Failed to calculate debts", err.Message)
	assert.NotContains(t, err.Message, "deadlock")
	assert.NotContains(t, err.Detail, "deadlock")
}
