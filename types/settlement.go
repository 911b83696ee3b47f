package types

import "time"

// Settlement records a direct repayment already made between two members,
// outside of expense bookkeeping. Amount is integer minor units.
type Settlement struct {
	ID           string    `json:"id"`
	GroupID      string    `json:"groupId"`
	FromMemberID string    `json:"fromMemberId"`
	ToMemberID   string    `json:"toMemberId"`
	Amount       int64     `json:"amount"`
	Note         string    `json:"note,omitempty"`
	CreatedBy    string    `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateSettlementRequest struct {
	FromMemberID string `json:"fromMemberId" binding:"required"`
	ToMemberID   string `json:"toMemberId" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
	Note         string `json:"note,omitempty"`
}

type CreateSettlementStoreParams struct {
	GroupID      string
	FromMemberID string
	ToMemberID   string
	Amount       int64
	Note         string
	CreatedBy    string
}
