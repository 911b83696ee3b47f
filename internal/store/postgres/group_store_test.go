package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/TallyCrew/tally-crew-backend/internal/store"
	"github.com/TallyCrew/tally-crew-backend/types"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroup(t *testing.T) {
	ctx := context.Background()
	mock := newMockDB(t)
	s := NewGroupStore(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO groups").
		WithArgs("Ski Trip", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("group-1"))
	mock.ExpectExec("INSERT INTO group_members").
		WithArgs("group-1", "user-1", "Avery").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	id, err := s.CreateGroup(ctx, types.Group{Name: "Ski Trip", CreatedBy: "user-1"}, "Avery")
	require.NoError(t, err)
	assert.Equal(t, "group-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGroupMembershipFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	mock := newMockDB(t)
	s := NewGroupStore(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO groups").
		WithArgs("Ski Trip", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("group-1"))
	mock.ExpectExec("INSERT INTO group_members").
		WithArgs("group-1", "user-1", "Avery").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := s.CreateGroup(ctx, types.Group{Name: "Ski Trip", CreatedBy: "user-1"}, "Avery")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGroup(t *testing.T) {
	ctx := context.Background()
	mock := newMockDB(t)
	s := NewGroupStore(mock)

	now := time.Now()
	mock.ExpectQuery("SELECT id, name, created_by").
		WithArgs("group-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "created_by", "last_calculated_debts_at", "created_at", "updated_at",
		}).AddRow("group-1", "Ski Trip", "user-1", nil, now, now))

	g, err := s.GetGroup(ctx, "group-1")
	require.NoError(t, err)
	assert.Equal(t, "Ski Trip", g.Name)
	assert.Nil(t, g.LastCalculatedDebtsAt)

	mock.ExpectQuery("SELECT id, name, created_by").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = s.GetGroup(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteGroup(t *testing.T) {
	ctx := context.Background()
	mock := newMockDB(t)
	s := NewGroupStore(mock)

	mock.ExpectExec("UPDATE groups").
		WithArgs("group-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, s.SoftDeleteGroup(ctx, "group-1"))

	mock.ExpectExec("UPDATE groups").
		WithArgs("gone").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, s.SoftDeleteGroup(ctx, "gone"), store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
