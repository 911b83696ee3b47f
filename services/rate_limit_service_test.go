package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("allows requests under the limit", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		s := NewRateLimitService(db)

		mock.ExpectIncr("rate_limit:user-1").SetVal(3)
		mock.ExpectExpire("rate_limit:user-1", time.Minute).SetVal(true)

		allowed, retryAfter, err := s.CheckLimit(ctx, "user-1", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Zero(t, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("blocks requests over the limit with retry-after", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		s := NewRateLimitService(db)

		mock.ExpectIncr("rate_limit:user-1").SetVal(6)
		mock.ExpectExpire("rate_limit:user-1", time.Minute).SetVal(true)
		mock.ExpectTTL("rate_limit:user-1").SetVal(42 * time.Second)

		allowed, retryAfter, err := s.CheckLimit(ctx, "user-1", 5, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, 42*time.Second, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates redis errors", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		s := NewRateLimitService(db)

		mock.ExpectIncr("rate_limit:user-1").SetErr(assert.AnError)

		_, _, err := s.CheckLimit(ctx, "user-1", 5, time.Minute)
		assert.Error(t, err)
	})
}
