package models

import (
	"context"
	"fmt"
	"time"

	"github.com/TallyCrew/tally-crew-backend/errors"
	"github.com/TallyCrew/tally-crew-backend/internal/store"
	"github.com/TallyCrew/tally-crew-backend/types"
)

// DebtModel exposes the simplified debt read model and the manual
// recalculation trigger.
type DebtModel struct {
	store      store.DebtStore
	groupStore store.GroupStore
	groupModel *GroupModel
	publisher  types.EventPublisher
	// recalculateCooldown is the minimum time between manual recalculations
	// of the same group.
	recalculateCooldown time.Duration
}

func NewDebtModel(debtStore store.DebtStore, groupStore store.GroupStore, groupModel *GroupModel, publisher types.EventPublisher, recalculateCooldown time.Duration) *DebtModel {
	return &DebtModel{
		store:               debtStore,
		groupStore:          groupStore,
		groupModel:          groupModel,
		publisher:           publisher,
		recalculateCooldown: recalculateCooldown,
	}
}

// GetGroupDebts returns the stored simplified debts together with the raw
// member balances.
func (dm *DebtModel) GetGroupDebts(ctx context.Context, groupID, userID string) (*types.GroupDebtsResponse, error) {
	if err := dm.groupModel.VerifyMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	group, err := dm.groupStore.GetGroup(ctx, groupID)
	if err != nil {
		return nil, mapStoreError(err, "Group")
	}

	debts, err := dm.store.ListGroupDebts(ctx, groupID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	balances, err := dm.store.GetGroupBalances(ctx, groupID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	return &types.GroupDebtsResponse{
		GroupID:               groupID,
		Debts:                 debts,
		Balances:              balances,
		LastCalculatedDebtsAt: group.LastCalculatedDebtsAt,
	}, nil
}

// RecalculateDebts runs a manual debt recompute. Manual runs are throttled
// per group via last_calculated_debts_at; the timestamp is stamped inside the
// recompute transaction so a failed run never consumes the cooldown.
func (dm *DebtModel) RecalculateDebts(ctx context.Context, groupID, userID string) (*types.GroupDebtsResponse, error) {
	if err := dm.groupModel.VerifyMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	group, err := dm.groupStore.GetGroup(ctx, groupID)
	if err != nil {
		return nil, mapStoreError(err, "Group")
	}

	if group.LastCalculatedDebtsAt != nil {
		elapsed := time.Since(*group.LastCalculatedDebtsAt)
		if elapsed < dm.recalculateCooldown {
			wait := (dm.recalculateCooldown - elapsed).Round(time.Second)
			return nil, errors.RateLimited("Debts were calculated recently",
				fmt.Sprintf("try again in %s", wait))
		}
	}

	if err := dm.store.RecomputeGroupDebts(ctx, groupID, true); err != nil {
		return nil, errors.RecomputeFailed(err)
	}

	publishEvent(ctx, dm.publisher, types.EventTypeDebtsRecalculated, groupID, userID, nil)
	return dm.GetGroupDebts(ctx, groupID, userID)
}
