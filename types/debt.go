package types

import "time"

// SimplifiedDebt is one transfer of the minimal pairwise set that would bring
// every member's net balance to zero. Rows are written exclusively by the
// debt simplification engine and fully replaced on every recompute; an amount
// is always strictly positive.
type SimplifiedDebt struct {
	ID           string    `json:"id"`
	GroupID      string    `json:"groupId"`
	FromMemberID string    `json:"fromMemberId"`
	ToMemberID   string    `json:"toMemberId"`
	Amount       int64     `json:"amount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MemberBalance is a member's signed net position in minor units:
// positive means the member is owed money, negative means they owe.
type MemberBalance struct {
	MemberID string `json:"memberId"`
	Balance  int64  `json:"balance"`
}

// GroupDebtsResponse is the read model for the debts endpoint.
type GroupDebtsResponse struct {
	GroupID               string           `json:"groupId"`
	Debts                 []SimplifiedDebt `json:"debts"`
	Balances              []MemberBalance  `json:"balances"`
	LastCalculatedDebtsAt *time.Time       `json:"lastCalculatedDebtsAt,omitempty"`
}
