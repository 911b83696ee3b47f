package types

import "time"

// Expense represents a shared cost event within a group. The money itself is
// carried by the attached payments (who fronted it) and splits (who owes it);
// both sides must sum to the same total. All amounts are integer minor
// currency units (cents).
type Expense struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"groupId"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Payments []ExpensePayment `json:"payments"`
	Splits   []ExpenseSplit   `json:"splits"`
}

// ExpensePayment records that a member fronted part of an expense.
// One expense may have multiple payments (split payment).
type ExpensePayment struct {
	ID        string `json:"id"`
	ExpenseID string `json:"expenseId"`
	MemberID  string `json:"memberId"`
	Amount    int64  `json:"amount"`
}

// ExpenseSplit records that a member owes part of an expense's cost.
type ExpenseSplit struct {
	ID        string `json:"id"`
	ExpenseID string `json:"expenseId"`
	MemberID  string `json:"memberId"`
	Amount    int64  `json:"amount"`
}

// MemberAmount pairs a member with a decimal amount string as accepted on the
// wire ("12.34"). Fractional minor units are truncated at ingestion.
type MemberAmount struct {
	MemberID string `json:"memberId" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
}

type CreateExpenseRequest struct {
	Description string         `json:"description" binding:"required"`
	Category    string         `json:"category,omitempty"`
	Payments    []MemberAmount `json:"payments" binding:"required"`
	Splits      []MemberAmount `json:"splits" binding:"required"`
}

type UpdateExpenseRequest struct {
	Description *string        `json:"description,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Payments    []MemberAmount `json:"payments,omitempty"`
	Splits      []MemberAmount `json:"splits,omitempty"`
}

// CreateExpenseStoreParams carries a fully validated expense, with amounts
// already converted to minor units, into the store layer.
type CreateExpenseStoreParams struct {
	GroupID     string
	Description string
	Category    string
	CreatedBy   string
	Payments    []MemberAmountMinor
	Splits      []MemberAmountMinor
}

type UpdateExpenseStoreParams struct {
	ID          string
	GroupID     string
	Description *string
	Category    *string
	// Non-nil Payments/Splits replace the existing sets wholesale.
	Payments []MemberAmountMinor
	Splits   []MemberAmountMinor
}

// MemberAmountMinor is a (member, amount) pair in integer minor units.
type MemberAmountMinor struct {
	MemberID string
	Amount   int64
}
