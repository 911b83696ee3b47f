package models

import (
	"context"
	goerrors "errors"
	"strings"

	"github.com/TallyCrew/tally-crew-backend/errors"
	"github.com/TallyCrew/tally-crew-backend/internal/store"
	"github.com/TallyCrew/tally-crew-backend/logger"
	"github.com/TallyCrew/tally-crew-backend/types"
)

const maxGroupNameLength = 120

// GroupModel implements group and membership business rules.
type GroupModel struct {
	store     store.GroupStore
	publisher types.EventPublisher
}

func NewGroupModel(store store.GroupStore, publisher types.EventPublisher) *GroupModel {
	return &GroupModel{store: store, publisher: publisher}
}

// CreateGroup creates a group with the caller enrolled as its first member.
func (gm *GroupModel) CreateGroup(ctx context.Context, userID, displayName string, req types.CreateGroupRequest) (*types.Group, error) {
	log := logger.GetLogger()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.ValidationFailed("Invalid group", "group name is required")
	}
	if len(name) > maxGroupNameLength {
		return nil, errors.ValidationFailed("Invalid group", "group name is too long")
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = userID
	}

	groupID, err := gm.store.CreateGroup(ctx, types.Group{Name: name, CreatedBy: userID}, displayName)
	if err != nil {
		log.Errorw("Failed to create group", "userId", userID, "error", err)
		return nil, errors.NewDatabaseError(err)
	}

	group, err := gm.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, mapStoreError(err, "Group")
	}

	publishEvent(ctx, gm.publisher, types.EventTypeGroupCreated, groupID, userID, group)
	return group, nil
}

// GetGroup returns the group if the caller is a member.
func (gm *GroupModel) GetGroup(ctx context.Context, groupID, userID string) (*types.GroupWithMembers, error) {
	if err := gm.VerifyMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	group, err := gm.store.GetGroup(ctx, groupID)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return nil, errors.GroupNotFound(groupID)
		}
		return nil, errors.NewDatabaseError(err)
	}

	members, err := gm.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	return &types.GroupWithMembers{Group: *group, Members: members}, nil
}

func (gm *GroupModel) ListUserGroups(ctx context.Context, userID string) ([]*types.Group, error) {
	groups, err := gm.store.ListGroupsByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return groups, nil
}

func (gm *GroupModel) UpdateGroup(ctx context.Context, groupID, userID string, req types.UpdateGroupRequest) (*types.Group, error) {
	if err := gm.VerifyMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, errors.ValidationFailed("Invalid update", "group name cannot be empty")
		}
		if len(trimmed) > maxGroupNameLength {
			return nil, errors.ValidationFailed("Invalid update", "group name is too long")
		}
		req.Name = &trimmed
	}

	group, err := gm.store.UpdateGroup(ctx, groupID, req)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return nil, errors.GroupNotFound(groupID)
		}
		return nil, errors.NewDatabaseError(err)
	}

	publishEvent(ctx, gm.publisher, types.EventTypeGroupUpdated, groupID, userID, group)
	return group, nil
}

// DeleteGroup soft-deletes the group. Only the creator may delete it.
func (gm *GroupModel) DeleteGroup(ctx context.Context, groupID, userID string) error {
	group, err := gm.store.GetGroup(ctx, groupID)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return errors.GroupNotFound(groupID)
		}
		return errors.NewDatabaseError(err)
	}
	if group.CreatedBy != userID {
		return errors.Forbidden("Cannot delete group", "only the group creator can delete it")
	}

	if err := gm.store.SoftDeleteGroup(ctx, groupID); err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return errors.GroupNotFound(groupID)
		}
		return errors.NewDatabaseError(err)
	}

	publishEvent(ctx, gm.publisher, types.EventTypeGroupDeleted, groupID, userID, nil)
	return nil
}

// AddMember adds a member to the group. The member may be a placeholder
// without a linked user account.
func (gm *GroupModel) AddMember(ctx context.Context, groupID, userID string, req types.AddMemberRequest) (*types.GroupMember, error) {
	if err := gm.VerifyMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, errors.ValidationFailed("Invalid member", "display name is required")
	}

	memberID, err := gm.store.AddMember(ctx, types.GroupMember{
		GroupID:     groupID,
		UserID:      req.UserID,
		DisplayName: displayName,
	})
	if err != nil {
		return nil, mapStoreError(err, "Member")
	}

	member, err := gm.store.GetMember(ctx, groupID, memberID)
	if err != nil {
		return nil, mapStoreError(err, "Member")
	}

	publishEvent(ctx, gm.publisher, types.EventTypeMemberAdded, groupID, userID, member)
	return member, nil
}

func (gm *GroupModel) ListMembers(ctx context.Context, groupID, userID string) ([]types.GroupMember, error) {
	if err := gm.VerifyMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	members, err := gm.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return members, nil
}

// RemoveMember removes a member. Members with ledger activity cannot be
// removed, the store rejects that with a conflict.
func (gm *GroupModel) RemoveMember(ctx context.Context, groupID, memberID, userID string) error {
	if err := gm.VerifyMembership(ctx, groupID, userID); err != nil {
		return err
	}

	if err := gm.store.RemoveMember(ctx, groupID, memberID); err != nil {
		if goerrors.Is(err, store.ErrConflict) {
			return errors.Conflict("Cannot remove member", "member has recorded expenses or settlements")
		}
		return mapStoreError(err, "Member")
	}

	publishEvent(ctx, gm.publisher, types.EventTypeMemberRemoved, groupID, userID, map[string]string{"memberId": memberID})
	return nil
}

// VerifyMembership checks that the user belongs to the group. A missing group
// and a missing membership are reported distinctly.
func (gm *GroupModel) VerifyMembership(ctx context.Context, groupID, userID string) error {
	if _, err := gm.store.GetGroup(ctx, groupID); err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return errors.GroupNotFound(groupID)
		}
		return errors.NewDatabaseError(err)
	}

	if _, err := gm.store.GetMemberByUserID(ctx, groupID, userID); err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return errors.GroupAccessDenied(userID, groupID)
		}
		return errors.NewDatabaseError(err)
	}
	return nil
}

// MemberSet returns the group's member IDs for reference validation.
func (gm *GroupModel) MemberSet(ctx context.Context, groupID string) (map[string]struct{}, error) {
	members, err := gm.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m.ID] = struct{}{}
	}
	return set, nil
}
