package models

import (
	"context"
	"time"

	"github.com/TallyCrew/tally-crew-backend/types"
	"github.com/stretchr/testify/mock"
)

type MockGroupStore struct {
	mock.Mock
}

func (m *MockGroupStore) CreateGroup(ctx context.Context, group types.Group, creatorDisplayName string) (string, error) {
	args := m.Called(ctx, group, creatorDisplayName)
	return args.String(0), args.Error(1)
}

func (m *MockGroupStore) GetGroup(ctx context.Context, id string) (*types.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Group), args.Error(1)
}

func (m *MockGroupStore) ListGroupsByUser(ctx context.Context, userID string) ([]*types.Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Group), args.Error(1)
}

func (m *MockGroupStore) UpdateGroup(ctx context.Context, id string, update types.UpdateGroupRequest) (*types.Group, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Group), args.Error(1)
}

func (m *MockGroupStore) SoftDeleteGroup(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGroupStore) SetLastCalculatedDebtsAt(ctx context.Context, groupID string, at time.Time) error {
	args := m.Called(ctx, groupID, at)
	return args.Error(0)
}

func (m *MockGroupStore) AddMember(ctx context.Context, member types.GroupMember) (string, error) {
	args := m.Called(ctx, member)
	return args.String(0), args.Error(1)
}

func (m *MockGroupStore) GetMember(ctx context.Context, groupID, memberID string) (*types.GroupMember, error) {
	args := m.Called(ctx, groupID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GroupMember), args.Error(1)
}

func (m *MockGroupStore) ListMembers(ctx context.Context, groupID string) ([]types.GroupMember, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.GroupMember), args.Error(1)
}

func (m *MockGroupStore) RemoveMember(ctx context.Context, groupID, memberID string) error {
	args := m.Called(ctx, groupID, memberID)
	return args.Error(0)
}

func (m *MockGroupStore) GetMemberByUserID(ctx context.Context, groupID, userID string) (*types.GroupMember, error) {
	args := m.Called(ctx, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GroupMember), args.Error(1)
}

type MockExpenseStore struct {
	mock.Mock
}

func (m *MockExpenseStore) CreateExpense(ctx context.Context, params types.CreateExpenseStoreParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *MockExpenseStore) GetExpense(ctx context.Context, id string) (*types.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Expense), args.Error(1)
}

func (m *MockExpenseStore) ListExpenses(ctx context.Context, groupID string, limit, offset int) ([]*types.Expense, int, error) {
	args := m.Called(ctx, groupID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*types.Expense), args.Int(1), args.Error(2)
}

func (m *MockExpenseStore) UpdateExpense(ctx context.Context, params types.UpdateExpenseStoreParams) (*types.Expense, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Expense), args.Error(1)
}

func (m *MockExpenseStore) DeleteExpense(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSettlementStore struct {
	mock.Mock
}

func (m *MockSettlementStore) CreateSettlement(ctx context.Context, params types.CreateSettlementStoreParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *MockSettlementStore) GetSettlement(ctx context.Context, id string) (*types.Settlement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Settlement), args.Error(1)
}

func (m *MockSettlementStore) ListSettlements(ctx context.Context, groupID string, limit, offset int) ([]*types.Settlement, int, error) {
	args := m.Called(ctx, groupID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*types.Settlement), args.Int(1), args.Error(2)
}

func (m *MockSettlementStore) DeleteSettlement(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDebtStore struct {
	mock.Mock
}

func (m *MockDebtStore) RecomputeGroupDebts(ctx context.Context, groupID string, stampCalculatedAt bool) error {
	args := m.Called(ctx, groupID, stampCalculatedAt)
	return args.Error(0)
}

func (m *MockDebtStore) ListGroupDebts(ctx context.Context, groupID string) ([]types.SimplifiedDebt, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.SimplifiedDebt), args.Error(1)
}

func (m *MockDebtStore) GetGroupBalances(ctx context.Context, groupID string) ([]types.MemberBalance, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.MemberBalance), args.Error(1)
}
