// Package models implements the application's business rules on top of the
// store interfaces. Handlers call models; models call stores and publish
// events.
package models

import (
	"context"
	"encoding/json"
	goerrors "errors"

	"github.com/TallyCrew/tally-crew-backend/errors"
	"github.com/TallyCrew/tally-crew-backend/internal/store"
	"github.com/TallyCrew/tally-crew-backend/logger"
	"github.com/TallyCrew/tally-crew-backend/types"
)

// mapStoreError converts store sentinel errors into the AppError taxonomy.
// Unknown errors become database errors.
func mapStoreError(err error, resource string) error {
	switch {
	case goerrors.Is(err, store.ErrNotFound):
		return errors.NotFound(resource, "")
	case goerrors.Is(err, store.ErrConflict):
		return errors.Conflict(resource, err.Error())
	default:
		return errors.NewDatabaseError(err)
	}
}

// publishEvent marshals the payload and publishes the event. Publishing is
// best-effort; failures are logged and never fail the caller's request.
func publishEvent(ctx context.Context, publisher types.EventPublisher, eventType types.EventType, groupID, userID string, payload interface{}) {
	if publisher == nil {
		return
	}
	log := logger.GetLogger()

	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Errorw("Failed to marshal event payload",
				"eventType", eventType,
				"groupId", groupID,
				"error", err)
			return
		}
		raw = data
	}

	event := types.Event{
		BaseEvent: types.BaseEvent{
			Type:    eventType,
			GroupID: groupID,
			UserID:  userID,
		},
		Payload: raw,
	}
	if err := publisher.Publish(ctx, groupID, event); err != nil {
		log.Errorw("Failed to publish event",
			"eventType", eventType,
			"groupId", groupID,
			"error", err)
	}
}
