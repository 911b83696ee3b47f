package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/TallyCrew/tally-crew-backend/errors"
	"github.com/TallyCrew/tally-crew-backend/internal/store"
	"github.com/TallyCrew/tally-crew-backend/logger"
	"github.com/TallyCrew/tally-crew-backend/pkg/valueobjects"
	"github.com/TallyCrew/tally-crew-backend/types"
)

const maxDescriptionLength = 255

// ExpenseModel implements expense business rules. Every successful mutation
// triggers a debt recompute for the group.
type ExpenseModel struct {
	store      store.ExpenseStore
	debtStore  store.DebtStore
	groupModel *GroupModel
	publisher  types.EventPublisher
}

func NewExpenseModel(store store.ExpenseStore, debtStore store.DebtStore, groupModel *GroupModel, publisher types.EventPublisher) *ExpenseModel {
	return &ExpenseModel{
		store:      store,
		debtStore:  debtStore,
		groupModel: groupModel,
		publisher:  publisher,
	}
}

// CreateExpense validates, stores and recomputes. The expense itself commits
// before the recompute runs; if the recompute fails the expense stays
// recorded and the caller receives the recompute error.
func (em *ExpenseModel) CreateExpense(ctx context.Context, groupID, userID string, req types.CreateExpenseRequest) (*types.Expense, error) {
	log := logger.GetLogger()

	if err := em.groupModel.VerifyMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, errors.ValidationFailed("Invalid expense", "description is required")
	}
	if len(description) > maxDescriptionLength {
		return nil, errors.ValidationFailed("Invalid expense", "description is too long")
	}

	members, err := em.groupModel.MemberSet(ctx, groupID)
	if err != nil {
		return nil, err
	}

	payments, paymentsTotal, err := parseMemberAmounts(req.Payments, "payments", members)
	if err != nil {
		return nil, err
	}
	splits, splitsTotal, err := parseMemberAmounts(req.Splits, "splits", members)
	if err != nil {
		return nil, err
	}
	if paymentsTotal != splitsTotal {
		return nil, errors.ValidationFailed("Unbalanced expense",
			fmt.Sprintf("payments total %d does not match splits total %d", paymentsTotal, splitsTotal))
	}

	expenseID, err := em.store.CreateExpense(ctx, types.CreateExpenseStoreParams{
		GroupID:     groupID,
		Description: description,
		Category:    strings.TrimSpace(req.Category),
		CreatedBy:   userID,
		Payments:    payments,
		Splits:      splits,
	})
	if err != nil {
		log.Errorw("Failed to create expense", "groupId", groupID, "error", err)
		return nil, errors.NewDatabaseError(err)
	}

	if err := em.debtStore.RecomputeGroupDebts(ctx, groupID, false); err != nil {
		return nil, errors.RecomputeFailed(err)
	}

	expense, err := em.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, mapStoreError(err, "Expense")
	}

	publishEvent(ctx, em.publisher, types.EventTypeExpenseCreated, groupID, userID, expense)
	return expense, nil
}

func (em *ExpenseModel) GetExpense(ctx context.Context, groupID, expenseID, userID string) (*types.Expense, error) {
	if err := em.groupModel.VerifyMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	expense, err := em.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, mapStoreError(err, "Expense")
	}
	if expense.GroupID != groupID {
		return nil, errors.NotFound("Expense", expenseID)
	}
	return expense, nil
}

func (em *ExpenseModel) ListExpenses(ctx context.Context, groupID, userID string, params types.PaginationParams) (*types.PaginatedResponse, error) {
	if err := em.groupModel.VerifyMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	expenses, total, err := em.store.ListExpenses(ctx, groupID, params.Limit, params.Offset)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	return &types.PaginatedResponse{
		Data: expenses,
		Pagination: types.Pagination{
			Limit:  params.Limit,
			Offset: params.Offset,
			Total:  total,
		},
	}, nil
}

// UpdateExpense patches the expense. Payments and splits must be replaced
// together so the balanced-expense invariant can be checked.
func (em *ExpenseModel) UpdateExpense(ctx context.Context, groupID, expenseID, userID string, req types.UpdateExpenseRequest) (*types.Expense, error) {
	if _, err := em.GetExpense(ctx, groupID, expenseID, userID); err != nil {
		return nil, err
	}

	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		if trimmed == "" {
			return nil, errors.ValidationFailed("Invalid update", "description cannot be empty")
		}
		if len(trimmed) > maxDescriptionLength {
			return nil, errors.ValidationFailed("Invalid update", "description is too long")
		}
		req.Description = &trimmed
	}

	params := types.UpdateExpenseStoreParams{
		ID:          expenseID,
		GroupID:     groupID,
		Description: req.Description,
		Category:    req.Category,
	}

	if req.Payments != nil || req.Splits != nil {
		if req.Payments == nil || req.Splits == nil {
			return nil, errors.ValidationFailed("Invalid update", "payments and splits must be updated together")
		}

		members, err := em.groupModel.MemberSet(ctx, groupID)
		if err != nil {
			return nil, err
		}
		payments, paymentsTotal, err := parseMemberAmounts(req.Payments, "payments", members)
		if err != nil {
			return nil, err
		}
		splits, splitsTotal, err := parseMemberAmounts(req.Splits, "splits", members)
		if err != nil {
			return nil, err
		}
		if paymentsTotal != splitsTotal {
			return nil, errors.ValidationFailed("Unbalanced expense",
				fmt.Sprintf("payments total %d does not match splits total %d", paymentsTotal, splitsTotal))
		}
		params.Payments = payments
		params.Splits = splits
	}

	expense, err := em.store.UpdateExpense(ctx, params)
	if err != nil {
		return nil, mapStoreError(err, "Expense")
	}

	if err := em.debtStore.RecomputeGroupDebts(ctx, groupID, false); err != nil {
		return nil, errors.RecomputeFailed(err)
	}

	publishEvent(ctx, em.publisher, types.EventTypeExpenseUpdated, groupID, userID, expense)
	return expense, nil
}

func (em *ExpenseModel) DeleteExpense(ctx context.Context, groupID, expenseID, userID string) error {
	if _, err := em.GetExpense(ctx, groupID, expenseID, userID); err != nil {
		return err
	}

	if err := em.store.DeleteExpense(ctx, expenseID); err != nil {
		return mapStoreError(err, "Expense")
	}

	if err := em.debtStore.RecomputeGroupDebts(ctx, groupID, false); err != nil {
		return errors.RecomputeFailed(err)
	}

	publishEvent(ctx, em.publisher, types.EventTypeExpenseDeleted, groupID, userID, map[string]string{"expenseId": expenseID})
	return nil
}

// parseMemberAmounts converts wire amounts to minor units, enforcing that
// every amount is positive, every member belongs to the group, and no member
// appears twice. Returns the rows and their sum.
func parseMemberAmounts(entries []types.MemberAmount, side string, members map[string]struct{}) ([]types.MemberAmountMinor, int64, error) {
	if len(entries) == 0 {
		return nil, 0, errors.ValidationFailed("Invalid expense", fmt.Sprintf("at least one entry is required in %s", side))
	}

	seen := make(map[string]struct{}, len(entries))
	out := make([]types.MemberAmountMinor, 0, len(entries))
	var total int64

	for _, e := range entries {
		if _, ok := members[e.MemberID]; !ok {
			return nil, 0, errors.ValidationFailed("Invalid expense",
				fmt.Sprintf("member %s in %s does not belong to the group", e.MemberID, side))
		}
		if _, dup := seen[e.MemberID]; dup {
			return nil, 0, errors.ValidationFailed("Invalid expense",
				fmt.Sprintf("member %s appears more than once in %s", e.MemberID, side))
		}
		seen[e.MemberID] = struct{}{}

		m, err := valueobjects.ParsePositiveMoney(e.Amount)
		if err != nil {
			return nil, 0, errors.ValidationFailed("Invalid amount", err.Error())
		}
		out = append(out, types.MemberAmountMinor{MemberID: e.MemberID, Amount: m.MinorUnits()})
		total += m.MinorUnits()
	}
	return out, total, nil
}
