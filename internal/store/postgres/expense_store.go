package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/TallyCrew/tally-crew-backend/internal/store"
	"github.com/TallyCrew/tally-crew-backend/logger"
	"github.com/TallyCrew/tally-crew-backend/types"
	"github.com/jackc/pgx/v5"
)

var _ store.ExpenseStore = (*ExpenseStore)(nil)

// ExpenseStore persists expenses together with their payment and split rows.
type ExpenseStore struct {
	db DB
}

func NewExpenseStore(db DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

// CreateExpense inserts the expense header plus every payment and split row
// in one transaction. Callers have already verified that both sides sum to
// the same total.
func (s *ExpenseStore) CreateExpense(ctx context.Context, params types.CreateExpenseStoreParams) (string, error) {
	log := logger.GetLogger()
	var expenseID string

	err := WithTx(ctx, s.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
            INSERT INTO expenses (group_id, description, category, created_by)
            VALUES ($1, $2, $3, $4)
            RETURNING id`,
			params.GroupID,
			params.Description,
			params.Category,
			params.CreatedBy,
		).Scan(&expenseID)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		if err := insertExpenseRows(ctx, tx, expenseID, params.Payments, params.Splits); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Errorw("CreateExpense transaction failed", "groupId", params.GroupID, "error", err)
		return "", err
	}
	return expenseID, nil
}

// insertExpenseRows writes the payment and split rows for an expense.
func insertExpenseRows(ctx context.Context, tx pgx.Tx, expenseID string, payments, splits []types.MemberAmountMinor) error {
	for _, p := range payments {
		if _, err := tx.Exec(ctx, `
            INSERT INTO expense_payments (expense_id, member_id, amount)
            VALUES ($1, $2, $3)`,
			expenseID, p.MemberID, p.Amount,
		); err != nil {
			return fmt.Errorf("failed to insert expense payment: %w", err)
		}
	}
	for _, sp := range splits {
		if _, err := tx.Exec(ctx, `
            INSERT INTO expense_splits (expense_id, member_id, amount)
            VALUES ($1, $2, $3)`,
			expenseID, sp.MemberID, sp.Amount,
		); err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}
	return nil
}

func (s *ExpenseStore) GetExpense(ctx context.Context, id string) (*types.Expense, error) {
	var e types.Expense
	err := s.db.QueryRow(ctx, `
        SELECT id, group_id, description, category, created_by, created_at, updated_at
        FROM expenses
        WHERE id = $1`, id).Scan(
		&e.ID, &e.GroupID, &e.Description, &e.Category, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("expense %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadExpenseRows(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *ExpenseStore) loadExpenseRows(ctx context.Context, e *types.Expense) error {
	rows, err := s.db.Query(ctx, `
        SELECT id, expense_id, member_id, amount
        FROM expense_payments
        WHERE expense_id = $1
        ORDER BY created_at, id`, e.ID)
	if err != nil {
		return fmt.Errorf("failed to query expense payments: %w", err)
	}
	defer rows.Close()

	e.Payments = []types.ExpensePayment{}
	for rows.Next() {
		var p types.ExpensePayment
		if err := rows.Scan(&p.ID, &p.ExpenseID, &p.MemberID, &p.Amount); err != nil {
			return fmt.Errorf("failed to scan payment row: %w", err)
		}
		e.Payments = append(e.Payments, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating payment rows: %w", err)
	}
	rows.Close()

	rows, err = s.db.Query(ctx, `
        SELECT id, expense_id, member_id, amount
        FROM expense_splits
        WHERE expense_id = $1
        ORDER BY created_at, id`, e.ID)
	if err != nil {
		return fmt.Errorf("failed to query expense splits: %w", err)
	}
	defer rows.Close()

	e.Splits = []types.ExpenseSplit{}
	for rows.Next() {
		var sp types.ExpenseSplit
		if err := rows.Scan(&sp.ID, &sp.ExpenseID, &sp.MemberID, &sp.Amount); err != nil {
			return fmt.Errorf("failed to scan split row: %w", err)
		}
		e.Splits = append(e.Splits, sp)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating split rows: %w", err)
	}
	return nil
}

// ListExpenses returns a page of the group's expenses, newest first, along
// with the total count. Payment and split rows are loaded per expense.
func (s *ExpenseStore) ListExpenses(ctx context.Context, groupID string, limit, offset int) ([]*types.Expense, int, error) {
	var total int
	if err := s.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM expenses WHERE group_id = $1`, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	rows, err := s.db.Query(ctx, `
        SELECT id, group_id, description, category, created_by, created_at, updated_at
        FROM expenses
        WHERE group_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*types.Expense{}
	for rows.Next() {
		var e types.Expense
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Description, &e.Category, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating expense rows: %w", err)
	}
	rows.Close()

	for _, e := range expenses {
		if err := s.loadExpenseRows(ctx, e); err != nil {
			return nil, 0, err
		}
	}
	return expenses, total, nil
}

// UpdateExpense patches the expense header and, when new payments or splits
// are provided, replaces the old rows wholesale within the same transaction.
func (s *ExpenseStore) UpdateExpense(ctx context.Context, params types.UpdateExpenseStoreParams) (*types.Expense, error) {
	log := logger.GetLogger()

	err := WithTx(ctx, s.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
            UPDATE expenses
            SET description = COALESCE($3, description),
                category = COALESCE($4, category),
                updated_at = NOW()
            WHERE id = $1 AND group_id = $2`,
			params.ID, params.GroupID, params.Description, params.Category,
		)
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("expense %s: %w", params.ID, store.ErrNotFound)
		}

		if params.Payments != nil || params.Splits != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM expense_payments WHERE expense_id = $1`, params.ID); err != nil {
				return fmt.Errorf("failed to clear expense payments: %w", err)
			}
			if _, err := tx.Exec(ctx, `DELETE FROM expense_splits WHERE expense_id = $1`, params.ID); err != nil {
				return fmt.Errorf("failed to clear expense splits: %w", err)
			}
			if err := insertExpenseRows(ctx, tx, params.ID, params.Payments, params.Splits); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Errorw("UpdateExpense transaction failed", "expenseId", params.ID, "error", err)
		return nil, err
	}

	return s.GetExpense(ctx, params.ID)
}

// DeleteExpense removes the expense; payment and split rows go with it via
// ON DELETE CASCADE.
func (s *ExpenseStore) DeleteExpense(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense %s: %w", id, store.ErrNotFound)
	}
	return nil
}
