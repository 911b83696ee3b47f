package models

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/TallyCrew/tally-crew-backend/errors"
	"github.com/TallyCrew/tally-crew-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebtModel_GetGroupDebts(t *testing.T) {
	ctx := context.Background()
	mockGroups := memberGroupStore(ctx)
	mockDebts := new(MockDebtStore)
	model := NewDebtModel(mockDebts, mockGroups, NewGroupModel(mockGroups, nil), nil, 5*time.Minute)

	debts := []types.SimplifiedDebt{
		{ID: "debt-1", GroupID: "group-1", FromMemberID: "member-2", ToMemberID: "member-1", Amount: 1250},
	}
	balances := []types.MemberBalance{
		{MemberID: "member-1", Balance: 1250},
		{MemberID: "member-2", Balance: -1250},
	}
	mockDebts.On("ListGroupDebts", ctx, "group-1").Return(debts, nil).Once()
	mockDebts.On("GetGroupBalances", ctx, "group-1").Return(balances, nil).Once()

	resp, err := model.GetGroupDebts(ctx, "group-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, debts, resp.Debts)
	assert.Equal(t, balances, resp.Balances)
	assert.Nil(t, resp.LastCalculatedDebtsAt)
	mockDebts.AssertExpectations(t)
}

func TestDebtModel_RecalculateDebts(t *testing.T) {
	ctx := context.Background()

	t.Run("recalculates and stamps", func(t *testing.T) {
		mockGroups := memberGroupStore(ctx)
		mockDebts := new(MockDebtStore)
		model := NewDebtModel(mockDebts, mockGroups, NewGroupModel(mockGroups, nil), nil, 5*time.Minute)

		mockDebts.On("RecomputeGroupDebts", ctx, "group-1", true).Return(nil).Once()
		mockDebts.On("ListGroupDebts", ctx, "group-1").Return([]types.SimplifiedDebt{}, nil).Once()
		mockDebts.On("GetGroupBalances", ctx, "group-1").Return([]types.MemberBalance{}, nil).Once()

		resp, err := model.RecalculateDebts(ctx, "group-1", "user-1")
		require.NoError(t, err)
		assert.NotNil(t, resp)
		mockDebts.AssertExpectations(t)
	})

	t.Run("cooldown blocks rapid recalculation", func(t *testing.T) {
		recent := time.Now().Add(-time.Minute)
		mockGroups := new(MockGroupStore)
		mockGroups.On("GetGroup", ctx, "group-1").
			Return(&types.Group{ID: "group-1", LastCalculatedDebtsAt: &recent}, nil)
		mockGroups.On("GetMemberByUserID", ctx, "group-1", "user-1").
			Return(&types.GroupMember{ID: "member-1"}, nil)

		mockDebts := new(MockDebtStore)
		model := NewDebtModel(mockDebts, mockGroups, NewGroupModel(mockGroups, nil), nil, 5*time.Minute)

		_, err := model.RecalculateDebts(ctx, "group-1", "user-1")
		require.Error(t, err)
		appErr := &apperrors.AppError{}
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.RateLimitError, appErr.Type)
		mockDebts.AssertNotCalled(t, "RecomputeGroupDebts")
	})

	t.Run("stale stamp allows recalculation", func(t *testing.T) {
		old := time.Now().Add(-time.Hour)
		mockGroups := new(MockGroupStore)
		mockGroups.On("GetGroup", ctx, "group-1").
			Return(&types.Group{ID: "group-1", LastCalculatedDebtsAt: &old}, nil)
		mockGroups.On("GetMemberByUserID", ctx, "group-1", "user-1").
			Return(&types.GroupMember{ID: "member-1"}, nil)

		mockDebts := new(MockDebtStore)
		model := NewDebtModel(mockDebts, mockGroups, NewGroupModel(mockGroups, nil), nil, 5*time.Minute)

		mockDebts.On("RecomputeGroupDebts", ctx, "group-1", true).Return(nil).Once()
		mockDebts.On("ListGroupDebts", ctx, "group-1").Return([]types.SimplifiedDebt{}, nil).Once()
		mockDebts.On("GetGroupBalances", ctx, "group-1").Return([]types.MemberBalance{}, nil).Once()

		_, err := model.RecalculateDebts(ctx, "group-1", "user-1")
		require.NoError(t, err)
		mockDebts.AssertExpectations(t)
	})

	t.Run("recompute failure is reported generically", func(t *testing.T) {
		mockGroups := memberGroupStore(ctx)
		mockDebts := new(MockDebtStore)
		model := NewDebtModel(mockDebts, mockGroups, NewGroupModel(mockGroups, nil), nil, 5*time.Minute)

		mockDebts.On("RecomputeGroupDebts", ctx, "group-1", true).Return(assert.AnError).Once()

		_, err := model.RecalculateDebts(ctx, "group-1", "user-1")
		require.Error(t, err)
		appErr := &apperrors.AppError{}
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.RecomputeErrorTyp, appErr.Type)
		assert.Equal(t, "Failed to calculate debts", appErr.Message)
	})
}
