package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/TallyCrew/tally-crew-backend/internal/store"
	"github.com/TallyCrew/tally-crew-backend/types"
	"github.com/jackc/pgx/v5"
)

var _ store.SettlementStore = (*SettlementStore)(nil)

// SettlementStore persists direct repayments between members.
type SettlementStore struct {
	db DB
}

func NewSettlementStore(db DB) *SettlementStore {
	return &SettlementStore{db: db}
}

func (s *SettlementStore) CreateSettlement(ctx context.Context, params types.CreateSettlementStoreParams) (string, error) {
	var settlementID string
	err := s.db.QueryRow(ctx, `
        INSERT INTO settlements (group_id, from_member_id, to_member_id, amount, note, created_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`,
		params.GroupID,
		params.FromMemberID,
		params.ToMemberID,
		params.Amount,
		params.Note,
		params.CreatedBy,
	).Scan(&settlementID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return "", fmt.Errorf("settlement references unknown group or member: %w", store.ErrNotFound)
		}
		return "", fmt.Errorf("failed to insert settlement: %w", err)
	}
	return settlementID, nil
}

func (s *SettlementStore) GetSettlement(ctx context.Context, id string) (*types.Settlement, error) {
	var st types.Settlement
	err := s.db.QueryRow(ctx, `
        SELECT id, group_id, from_member_id, to_member_id, amount, note, created_by, created_at
        FROM settlements
        WHERE id = $1`, id).Scan(
		&st.ID, &st.GroupID, &st.FromMemberID, &st.ToMemberID, &st.Amount, &st.Note, &st.CreatedBy, &st.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("settlement %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return &st, nil
}

func (s *SettlementStore) ListSettlements(ctx context.Context, groupID string, limit, offset int) ([]*types.Settlement, int, error) {
	var total int
	if err := s.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM settlements WHERE group_id = $1`, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	rows, err := s.db.Query(ctx, `
        SELECT id, group_id, from_member_id, to_member_id, amount, note, created_by, created_at
        FROM settlements
        WHERE group_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query settlements: %w", err)
	}
	defer rows.Close()

	settlements := []*types.Settlement{}
	for rows.Next() {
		var st types.Settlement
		if err := rows.Scan(&st.ID, &st.GroupID, &st.FromMemberID, &st.ToMemberID, &st.Amount, &st.Note, &st.CreatedBy, &st.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan settlement row: %w", err)
		}
		settlements = append(settlements, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating settlement rows: %w", err)
	}
	return settlements, total, nil
}

func (s *SettlementStore) DeleteSettlement(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM settlements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("settlement %s: %w", id, store.ErrNotFound)
	}
	return nil
}
