package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TallyCrew/tally-crew-backend/internal/store"
	"github.com/TallyCrew/tally-crew-backend/logger"
	"github.com/TallyCrew/tally-crew-backend/types"
	"github.com/jackc/pgx/v5"
)

var _ store.GroupStore = (*GroupStore)(nil)

// GroupStore persists groups and their members.
type GroupStore struct {
	db DB
}

func NewGroupStore(db DB) *GroupStore {
	return &GroupStore{db: db}
}

// CreateGroup inserts a group and its creator's membership in one
// transaction, so a group can never exist without at least one member.
func (s *GroupStore) CreateGroup(ctx context.Context, group types.Group, creatorDisplayName string) (string, error) {
	log := logger.GetLogger()
	var groupID string

	err := WithTx(ctx, s.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
            INSERT INTO groups (name, created_by)
            VALUES ($1, $2)
            RETURNING id`,
			group.Name,
			group.CreatedBy,
		).Scan(&groupID)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		_, err = tx.Exec(ctx, `
            INSERT INTO group_members (group_id, user_id, display_name)
            VALUES ($1, $2, $3)`,
			groupID,
			group.CreatedBy,
			creatorDisplayName,
		)
		if err != nil {
			return fmt.Errorf("failed to add creator membership: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Errorw("CreateGroup transaction failed", "error", err)
		return "", err
	}

	return groupID, nil
}

func (s *GroupStore) GetGroup(ctx context.Context, id string) (*types.Group, error) {
	query := `
        SELECT id, name, created_by, last_calculated_debts_at, created_at, updated_at
        FROM groups
        WHERE id = $1 AND deleted_at IS NULL`

	var g types.Group
	err := s.db.QueryRow(ctx, query, id).Scan(
		&g.ID, &g.Name, &g.CreatedBy, &g.LastCalculatedDebtsAt, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("group %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &g, nil
}

// ListGroupsByUser returns the groups the user belongs to, newest first.
func (s *GroupStore) ListGroupsByUser(ctx context.Context, userID string) ([]*types.Group, error) {
	query := `
        SELECT g.id, g.name, g.created_by, g.last_calculated_debts_at, g.created_at, g.updated_at
        FROM groups g
        JOIN group_members gm ON gm.group_id = g.id
        WHERE gm.user_id = $1 AND g.deleted_at IS NULL
        ORDER BY g.created_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	groups := []*types.Group{}
	for rows.Next() {
		var g types.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedBy, &g.LastCalculatedDebtsAt, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}
	return groups, nil
}

func (s *GroupStore) UpdateGroup(ctx context.Context, id string, update types.UpdateGroupRequest) (*types.Group, error) {
	query := `
        UPDATE groups
        SET name = COALESCE($2, name), updated_at = NOW()
        WHERE id = $1 AND deleted_at IS NULL
        RETURNING id, name, created_by, last_calculated_debts_at, created_at, updated_at`

	var g types.Group
	err := s.db.QueryRow(ctx, query, id, update.Name).Scan(
		&g.ID, &g.Name, &g.CreatedBy, &g.LastCalculatedDebtsAt, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("group %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return &g, nil
}

func (s *GroupStore) SoftDeleteGroup(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE groups
        SET deleted_at = NOW(), updated_at = NOW()
        WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("group %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func (s *GroupStore) SetLastCalculatedDebtsAt(ctx context.Context, groupID string, at time.Time) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE groups
        SET last_calculated_debts_at = $2, updated_at = NOW()
        WHERE id = $1 AND deleted_at IS NULL`, groupID, at)
	if err != nil {
		return fmt.Errorf("failed to stamp last_calculated_debts_at: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("group %s: %w", groupID, store.ErrNotFound)
	}
	return nil
}

func (s *GroupStore) AddMember(ctx context.Context, member types.GroupMember) (string, error) {
	var memberID string
	err := s.db.QueryRow(ctx, `
        INSERT INTO group_members (group_id, user_id, display_name)
        VALUES ($1, $2, $3)
        RETURNING id`,
		member.GroupID,
		member.UserID,
		member.DisplayName,
	).Scan(&memberID)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("user already a member of group %s: %w", member.GroupID, store.ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return "", fmt.Errorf("group %s: %w", member.GroupID, store.ErrNotFound)
		}
		return "", fmt.Errorf("failed to add member: %w", err)
	}
	return memberID, nil
}

func (s *GroupStore) GetMember(ctx context.Context, groupID, memberID string) (*types.GroupMember, error) {
	var m types.GroupMember
	err := s.db.QueryRow(ctx, `
        SELECT id, group_id, user_id, display_name, created_at
        FROM group_members
        WHERE id = $1 AND group_id = $2`, memberID, groupID).Scan(
		&m.ID, &m.GroupID, &m.UserID, &m.DisplayName, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("member %s in group %s: %w", memberID, groupID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &m, nil
}

// ListMembers returns group members in join order.
func (s *GroupStore) ListMembers(ctx context.Context, groupID string) ([]types.GroupMember, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, group_id, user_id, display_name, created_at
        FROM group_members
        WHERE group_id = $1
        ORDER BY created_at, id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := []types.GroupMember{}
	for rows.Next() {
		var m types.GroupMember
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.DisplayName, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}
	return members, nil
}

func (s *GroupStore) RemoveMember(ctx context.Context, groupID, memberID string) error {
	tag, err := s.db.Exec(ctx, `
        DELETE FROM group_members
        WHERE id = $1 AND group_id = $2`, memberID, groupID)
	if err != nil {
		if isForeignKeyViolation(err) {
			// The member is still referenced by payments, splits, settlements
			// or simplified debts.
			return fmt.Errorf("member %s has ledger activity: %w", memberID, store.ErrConflict)
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("member %s in group %s: %w", memberID, groupID, store.ErrNotFound)
	}
	return nil
}

func (s *GroupStore) GetMemberByUserID(ctx context.Context, groupID, userID string) (*types.GroupMember, error) {
	var m types.GroupMember
	err := s.db.QueryRow(ctx, `
        SELECT id, group_id, user_id, display_name, created_at
        FROM group_members
        WHERE group_id = $1 AND user_id = $2`, groupID, userID).Scan(
		&m.ID, &m.GroupID, &m.UserID, &m.DisplayName, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s in group %s: %w", userID, groupID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get member by user: %w", err)
	}
	return &m, nil
}
