package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/TallyCrew/tally-crew-backend/internal/netting"
	"github.com/TallyCrew/tally-crew-backend/internal/store"
	"github.com/TallyCrew/tally-crew-backend/logger"
	"github.com/TallyCrew/tally-crew-backend/types"
	"github.com/jackc/pgx/v5"
)

var _ store.DebtStore = (*DebtStore)(nil)

// DebtStore owns the simplified_debts table. Rows are only ever written by
// RecomputeGroupDebts, which replaces the whole set for a group atomically.
type DebtStore struct {
	db DB
}

func NewDebtStore(db DB) *DebtStore {
	return &DebtStore{db: db}
}

// querier is satisfied by both DB and pgx.Tx, so balance reads can run inside
// or outside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// RecomputeGroupDebts rebuilds the group's simplified debts from scratch in a
// single transaction: take the group's row lock, delete the old debts, read
// the full ledger in creation order, net it, and insert the new transfers.
// The row lock serializes concurrent recomputes of the same group. When
// stampCalculatedAt is set the group's last_calculated_debts_at is updated in
// the same transaction, so the stamp never outlives a failed recompute.
func (s *DebtStore) RecomputeGroupDebts(ctx context.Context, groupID string, stampCalculatedAt bool) error {
	log := logger.GetLogger()

	err := WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var id string
		err := tx.QueryRow(ctx, `
            SELECT id FROM groups
            WHERE id = $1 AND deleted_at IS NULL
            FOR UPDATE`, groupID).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("group %s: %w", groupID, store.ErrNotFound)
			}
			return fmt.Errorf("failed to lock group: %w", err)
		}

		if _, err := tx.Exec(ctx, `
            DELETE FROM simplified_debts WHERE group_id = $1`, groupID); err != nil {
			return fmt.Errorf("failed to clear simplified debts: %w", err)
		}

		sheet, err := readBalanceSheet(ctx, tx, groupID)
		if err != nil {
			return err
		}

		for _, tr := range sheet.Simplify() {
			if _, err := tx.Exec(ctx, `
                INSERT INTO simplified_debts (group_id, from_member_id, to_member_id, amount)
                VALUES ($1, $2, $3, $4)`,
				groupID, tr.FromMemberID, tr.ToMemberID, tr.Amount,
			); err != nil {
				return fmt.Errorf("failed to insert simplified debt: %w", err)
			}
		}

		if stampCalculatedAt {
			if _, err := tx.Exec(ctx, `
                UPDATE groups
                SET last_calculated_debts_at = NOW(), updated_at = NOW()
                WHERE id = $1`, groupID); err != nil {
				return fmt.Errorf("failed to stamp last_calculated_debts_at: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Errorw("RecomputeGroupDebts failed", "groupId", groupID, "error", err)
		return err
	}
	return nil
}

// readBalanceSheet folds every payment, split and settlement of the group
// into a balance sheet. Rows are read in creation order so that members enter
// the sheet deterministically, which fixes the tie-break order in Simplify.
func readBalanceSheet(ctx context.Context, q querier, groupID string) (*netting.BalanceSheet, error) {
	sheet := netting.NewBalanceSheet()

	// Payments credit the member who fronted the money.
	rows, err := q.Query(ctx, `
        SELECT p.member_id, p.amount
        FROM expense_payments p
        JOIN expenses e ON e.id = p.expense_id
        WHERE e.group_id = $1
        ORDER BY p.created_at, p.id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense payments: %w", err)
	}
	if err := foldRows(rows, func(memberID string, amount int64) {
		sheet.Add(memberID, amount)
	}); err != nil {
		return nil, fmt.Errorf("expense payments: %w", err)
	}

	// Splits debit the member who owes their share.
	rows, err = q.Query(ctx, `
        SELECT sp.member_id, sp.amount
        FROM expense_splits sp
        JOIN expenses e ON e.id = sp.expense_id
        WHERE e.group_id = $1
        ORDER BY sp.created_at, sp.id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense splits: %w", err)
	}
	if err := foldRows(rows, func(memberID string, amount int64) {
		sheet.Add(memberID, -amount)
	}); err != nil {
		return nil, fmt.Errorf("expense splits: %w", err)
	}

	// A settlement credits the payer and debits the payee.
	rows, err = q.Query(ctx, `
        SELECT from_member_id, to_member_id, amount
        FROM settlements
        WHERE group_id = $1
        ORDER BY created_at, id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var from, to string
		var amount int64
		if err := rows.Scan(&from, &to, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan settlement row: %w", err)
		}
		sheet.Add(from, amount)
		sheet.Add(to, -amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settlement rows: %w", err)
	}

	return sheet, nil
}

// foldRows scans (member_id, amount) rows and applies fn to each.
func foldRows(rows pgx.Rows, fn func(memberID string, amount int64)) error {
	defer rows.Close()
	for rows.Next() {
		var memberID string
		var amount int64
		if err := rows.Scan(&memberID, &amount); err != nil {
			return fmt.Errorf("failed to scan ledger row: %w", err)
		}
		fn(memberID, amount)
	}
	return rows.Err()
}

// ListGroupDebts returns the stored simplified debts in creation order.
func (s *DebtStore) ListGroupDebts(ctx context.Context, groupID string) ([]types.SimplifiedDebt, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, group_id, from_member_id, to_member_id, amount, created_at
        FROM simplified_debts
        WHERE group_id = $1
        ORDER BY created_at, id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query simplified debts: %w", err)
	}
	defer rows.Close()

	debts := []types.SimplifiedDebt{}
	for rows.Next() {
		var d types.SimplifiedDebt
		if err := rows.Scan(&d.ID, &d.GroupID, &d.FromMemberID, &d.ToMemberID, &d.Amount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan simplified debt row: %w", err)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating simplified debt rows: %w", err)
	}
	return debts, nil
}

// GetGroupBalances recomputes every member's signed net balance from the
// ledger. Members with no ledger activity are omitted.
func (s *DebtStore) GetGroupBalances(ctx context.Context, groupID string) ([]types.MemberBalance, error) {
	sheet, err := readBalanceSheet(ctx, s.db, groupID)
	if err != nil {
		return nil, err
	}

	entries := sheet.Balances()
	balances := make([]types.MemberBalance, 0, len(entries))
	for _, e := range entries {
		balances = append(balances, types.MemberBalance{MemberID: e.MemberID, Balance: e.Balance})
	}
	return balances, nil
}
