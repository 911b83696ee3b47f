package types

import (
	"context"
	"encoding/json"
	"time"
)

type EventType string

const (
	EventTypeGroupCreated      EventType = "GROUP_CREATED"
	EventTypeGroupUpdated      EventType = "GROUP_UPDATED"
	EventTypeGroupDeleted      EventType = "GROUP_DELETED"
	EventTypeMemberAdded       EventType = "MEMBER_ADDED"
	EventTypeMemberRemoved     EventType = "MEMBER_REMOVED"
	EventTypeExpenseCreated    EventType = "EXPENSE_CREATED"
	EventTypeExpenseUpdated    EventType = "EXPENSE_UPDATED"
	EventTypeExpenseDeleted    EventType = "EXPENSE_DELETED"
	EventTypeSettlementCreated EventType = "SETTLEMENT_CREATED"
	EventTypeSettlementDeleted EventType = "SETTLEMENT_DELETED"
	EventTypeDebtsRecalculated EventType = "DEBTS_RECALCULATED"
)

// BaseEvent contains the fields common to all events.
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	GroupID   string    `json:"groupId"`
	UserID    string    `json:"userId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Version   int       `json:"version"`
}

type Event struct {
	BaseEvent
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EventPublisher publishes group events to subscribers. Publishing is
// best-effort from the caller's point of view; a failed publish must never
// fail the request that triggered it.
type EventPublisher interface {
	Publish(ctx context.Context, groupID string, event Event) error
	Subscribe(ctx context.Context, groupID string, userID string) (<-chan Event, error)
	Unsubscribe(ctx context.Context, groupID string, userID string) error
}
