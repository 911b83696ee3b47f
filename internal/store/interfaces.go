// Package store defines the persistence interfaces the model layer depends
// on. Concrete implementations live in store/postgres.
package store

import (
	"context"
	"time"

	"github.com/TallyCrew/tally-crew-backend/types"
)

// GroupStore manages groups and their members.
type GroupStore interface {
	// CreateGroup inserts the group and enrolls the creator as its first
	// member under the given display name.
	CreateGroup(ctx context.Context, group types.Group, creatorDisplayName string) (string, error)
	GetGroup(ctx context.Context, id string) (*types.Group, error)
	ListGroupsByUser(ctx context.Context, userID string) ([]*types.Group, error)
	UpdateGroup(ctx context.Context, id string, update types.UpdateGroupRequest) (*types.Group, error)
	// SoftDeleteGroup marks the group deleted; its rows are retained.
	SoftDeleteGroup(ctx context.Context, id string) error
	// SetLastCalculatedDebtsAt stamps the manual-recalculation timestamp.
	SetLastCalculatedDebtsAt(ctx context.Context, groupID string, at time.Time) error

	AddMember(ctx context.Context, member types.GroupMember) (string, error)
	GetMember(ctx context.Context, groupID, memberID string) (*types.GroupMember, error)
	ListMembers(ctx context.Context, groupID string) ([]types.GroupMember, error)
	RemoveMember(ctx context.Context, groupID, memberID string) error
	// GetMemberByUserID resolves the caller's membership within a group.
	GetMemberByUserID(ctx context.Context, groupID, userID string) (*types.GroupMember, error)
}

// ExpenseStore manages expenses with their payment and split rows.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, params types.CreateExpenseStoreParams) (string, error)
	GetExpense(ctx context.Context, id string) (*types.Expense, error)
	ListExpenses(ctx context.Context, groupID string, limit, offset int) ([]*types.Expense, int, error)
	UpdateExpense(ctx context.Context, params types.UpdateExpenseStoreParams) (*types.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
}

// SettlementStore manages direct repayments between members.
type SettlementStore interface {
	CreateSettlement(ctx context.Context, params types.CreateSettlementStoreParams) (string, error)
	GetSettlement(ctx context.Context, id string) (*types.Settlement, error)
	ListSettlements(ctx context.Context, groupID string, limit, offset int) ([]*types.Settlement, int, error)
	DeleteSettlement(ctx context.Context, id string) error
}

// DebtStore owns the simplified debt rows and the recompute that produces
// them.
type DebtStore interface {
	// RecomputeGroupDebts atomically replaces the group's simplified debts
	// with a fresh netting of all payments, splits and settlements. When
	// stampCalculatedAt is true the group's lastCalculatedDebtsAt is updated
	// in the same transaction.
	RecomputeGroupDebts(ctx context.Context, groupID string, stampCalculatedAt bool) error
	ListGroupDebts(ctx context.Context, groupID string) ([]types.SimplifiedDebt, error)
	// GetGroupBalances returns every member's signed net balance.
	GetGroupBalances(ctx context.Context, groupID string) ([]types.MemberBalance, error)
}
