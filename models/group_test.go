package models

import (
	"context"
	"testing"

	apperrors "github.com/TallyCrew/tally-crew-backend/errors"
	"github.com/TallyCrew/tally-crew-backend/internal/store"
	"github.com/TallyCrew/tally-crew-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGroupModel_CreateGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		mockStore := new(MockGroupStore)
		model := NewGroupModel(mockStore, nil)

		mockStore.On("CreateGroup", ctx, types.Group{Name: "Ski Trip", CreatedBy: "user-1"}, "Avery").
			Return("group-1", nil).Once()
		mockStore.On("GetGroup", ctx, "group-1").
			Return(&types.Group{ID: "group-1", Name: "Ski Trip", CreatedBy: "user-1"}, nil).Once()

		group, err := model.CreateGroup(ctx, "user-1", "Avery", types.CreateGroupRequest{Name: "  Ski Trip  "})
		require.NoError(t, err)
		assert.Equal(t, "group-1", group.ID)
		mockStore.AssertExpectations(t)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		mockStore := new(MockGroupStore)
		model := NewGroupModel(mockStore, nil)

		_, err := model.CreateGroup(ctx, "user-1", "Avery", types.CreateGroupRequest{Name: "   "})
		require.Error(t, err)
		assert.IsType(t, &apperrors.AppError{}, err)
		mockStore.AssertNotCalled(t, "CreateGroup")
	})
}

func TestGroupModel_VerifyMembership(t *testing.T) {
	ctx := context.Background()

	t.Run("member passes", func(t *testing.T) {
		mockStore := new(MockGroupStore)
		model := NewGroupModel(mockStore, nil)

		mockStore.On("GetGroup", ctx, "group-1").
			Return(&types.Group{ID: "group-1"}, nil).Once()
		mockStore.On("GetMemberByUserID", ctx, "group-1", "user-1").
			Return(&types.GroupMember{ID: "member-1"}, nil).Once()

		assert.NoError(t, model.VerifyMembership(ctx, "group-1", "user-1"))
		mockStore.AssertExpectations(t)
	})

	t.Run("unknown group", func(t *testing.T) {
		mockStore := new(MockGroupStore)
		model := NewGroupModel(mockStore, nil)

		mockStore.On("GetGroup", ctx, "missing").
			Return(nil, store.ErrNotFound).Once()

		err := model.VerifyMembership(ctx, "missing", "user-1")
		require.Error(t, err)
		appErr := &apperrors.AppError{}
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.GroupNotFoundErr, appErr.Type)
	})

	t.Run("non-member denied", func(t *testing.T) {
		mockStore := new(MockGroupStore)
		model := NewGroupModel(mockStore, nil)

		mockStore.On("GetGroup", ctx, "group-1").
			Return(&types.Group{ID: "group-1"}, nil).Once()
		mockStore.On("GetMemberByUserID", ctx, "group-1", "outsider").
			Return(nil, store.ErrNotFound).Once()

		err := model.VerifyMembership(ctx, "group-1", "outsider")
		require.Error(t, err)
		appErr := &apperrors.AppError{}
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.GroupAccessErr, appErr.Type)
	})
}

func TestGroupModel_DeleteGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("only creator can delete", func(t *testing.T) {
		mockStore := new(MockGroupStore)
		model := NewGroupModel(mockStore, nil)

		mockStore.On("GetGroup", ctx, "group-1").
			Return(&types.Group{ID: "group-1", CreatedBy: "user-1"}, nil).Once()

		err := model.DeleteGroup(ctx, "group-1", "user-2")
		require.Error(t, err)
		appErr := &apperrors.AppError{}
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ForbiddenError, appErr.Type)
		mockStore.AssertNotCalled(t, "SoftDeleteGroup")
	})

	t.Run("creator deletes", func(t *testing.T) {
		mockStore := new(MockGroupStore)
		model := NewGroupModel(mockStore, nil)

		mockStore.On("GetGroup", ctx, "group-1").
			Return(&types.Group{ID: "group-1", CreatedBy: "user-1"}, nil).Once()
		mockStore.On("SoftDeleteGroup", ctx, "group-1").Return(nil).Once()

		assert.NoError(t, model.DeleteGroup(ctx, "group-1", "user-1"))
		mockStore.AssertExpectations(t)
	})
}

func TestGroupModel_RemoveMember(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockGroupStore)
	model := NewGroupModel(mockStore, nil)

	mockStore.On("GetGroup", ctx, "group-1").
		Return(&types.Group{ID: "group-1"}, nil)
	mockStore.On("GetMemberByUserID", ctx, "group-1", "user-1").
		Return(&types.GroupMember{ID: "member-1"}, nil)
	mockStore.On("RemoveMember", ctx, "group-1", mock.Anything).
		Return(store.ErrConflict).Once()

	err := model.RemoveMember(ctx, "group-1", "member-2", "user-1")
	require.Error(t, err)
	appErr := &apperrors.AppError{}
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ConflictError, appErr.Type)
}
