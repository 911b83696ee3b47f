package types

import "time"

// Group represents a set of members sharing expenses.
type Group struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedBy string     `json:"createdBy"`
	// LastCalculatedDebtsAt is stamped only by manual debt recalculations and
	// is used upstream to rate-limit manual triggers.
	LastCalculatedDebtsAt *time.Time `json:"lastCalculatedDebtsAt,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
	DeletedAt             *time.Time `json:"-"`
}

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateGroupRequest struct {
	Name *string `json:"name,omitempty"`
}

// GroupMember is a participant within one group, distinct from a global user
// account. UserID is nil for placeholder members that have not linked an
// account yet (e.g. an invitee added by name).
type GroupMember struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"groupId"`
	UserID      *string   `json:"userId,omitempty"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AddMemberRequest struct {
	DisplayName string  `json:"displayName" binding:"required"`
	UserID      *string `json:"userId,omitempty"`
}

type GroupWithMembers struct {
	Group   Group         `json:"group"`
	Members []GroupMember `json:"members"`
}
