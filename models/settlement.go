package models

import (
	"context"
	"strings"

	"github.com/TallyCrew/tally-crew-backend/errors"
	"github.com/TallyCrew/tally-crew-backend/internal/store"
	"github.com/TallyCrew/tally-crew-backend/logger"
	"github.com/TallyCrew/tally-crew-backend/pkg/valueobjects"
	"github.com/TallyCrew/tally-crew-backend/types"
)

const maxNoteLength = 255

// SettlementModel implements settlement business rules. Like expenses, every
// successful mutation triggers a debt recompute for the group.
type SettlementModel struct {
	store      store.SettlementStore
	debtStore  store.DebtStore
	groupModel *GroupModel
	publisher  types.EventPublisher
}

func NewSettlementModel(store store.SettlementStore, debtStore store.DebtStore, groupModel *GroupModel, publisher types.EventPublisher) *SettlementModel {
	return &SettlementModel{
		store:      store,
		debtStore:  debtStore,
		groupModel: groupModel,
		publisher:  publisher,
	}
}

func (sm *SettlementModel) CreateSettlement(ctx context.Context, groupID, userID string, req types.CreateSettlementRequest) (*types.Settlement, error) {
	log := logger.GetLogger()

	if err := sm.groupModel.VerifyMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	if req.FromMemberID == req.ToMemberID {
		return nil, errors.ValidationFailed("Invalid settlement", "payer and payee must be different members")
	}
	note := strings.TrimSpace(req.Note)
	if len(note) > maxNoteLength {
		return nil, errors.ValidationFailed("Invalid settlement", "note is too long")
	}

	members, err := sm.groupModel.MemberSet(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if _, ok := members[req.FromMemberID]; !ok {
		return nil, errors.ValidationFailed("Invalid settlement", "payer does not belong to the group")
	}
	if _, ok := members[req.ToMemberID]; !ok {
		return nil, errors.ValidationFailed("Invalid settlement", "payee does not belong to the group")
	}

	amount, err := valueobjects.ParsePositiveMoney(req.Amount)
	if err != nil {
		return nil, errors.ValidationFailed("Invalid amount", err.Error())
	}

	settlementID, err := sm.store.CreateSettlement(ctx, types.CreateSettlementStoreParams{
		GroupID:      groupID,
		FromMemberID: req.FromMemberID,
		ToMemberID:   req.ToMemberID,
		Amount:       amount.MinorUnits(),
		Note:         note,
		CreatedBy:    userID,
	})
	if err != nil {
		log.Errorw("Failed to create settlement", "groupId", groupID, "error", err)
		return nil, mapStoreError(err, "Settlement")
	}

	if err := sm.debtStore.RecomputeGroupDebts(ctx, groupID, false); err != nil {
		return nil, errors.RecomputeFailed(err)
	}

	settlement, err := sm.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, mapStoreError(err, "Settlement")
	}

	publishEvent(ctx, sm.publisher, types.EventTypeSettlementCreated, groupID, userID, settlement)
	return settlement, nil
}

func (sm *SettlementModel) GetSettlement(ctx context.Context, groupID, settlementID, userID string) (*types.Settlement, error) {
	if err := sm.groupModel.VerifyMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	settlement, err := sm.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, mapStoreError(err, "Settlement")
	}
	if settlement.GroupID != groupID {
		return nil, errors.NotFound("Settlement", settlementID)
	}
	return settlement, nil
}

func (sm *SettlementModel) ListSettlements(ctx context.Context, groupID, userID string, params types.PaginationParams) (*types.PaginatedResponse, error) {
	if err := sm.groupModel.VerifyMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	settlements, total, err := sm.store.ListSettlements(ctx, groupID, params.Limit, params.Offset)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	return &types.PaginatedResponse{
		Data: settlements,
		Pagination: types.Pagination{
			Limit:  params.Limit,
			Offset: params.Offset,
			Total:  total,
		},
	}, nil
}

func (sm *SettlementModel) DeleteSettlement(ctx context.Context, groupID, settlementID, userID string) error {
	if _, err := sm.GetSettlement(ctx, groupID, settlementID, userID); err != nil {
		return err
	}

	if err := sm.store.DeleteSettlement(ctx, settlementID); err != nil {
		return mapStoreError(err, "Settlement")
	}

	if err := sm.debtStore.RecomputeGroupDebts(ctx, groupID, false); err != nil {
		return errors.RecomputeFailed(err)
	}

	publishEvent(ctx, sm.publisher, types.EventTypeSettlementDeleted, groupID, userID, map[string]string{"settlementId": settlementID})
	return nil
}
