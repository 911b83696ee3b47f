package handlers

import (
	"encoding/json"
	"io"
	"time"

	"github.com/TallyCrew/tally-crew-backend/logger"
	"github.com/TallyCrew/tally-crew-backend/middleware"
	"github.com/TallyCrew/tally-crew-backend/models"
	"github.com/TallyCrew/tally-crew-backend/types"
	"github.com/gin-gonic/gin"
)

const sseHeartbeatInterval = 30 * time.Second

// EventsHandler streams group events to clients over SSE.
type EventsHandler struct {
	groupModel *models.GroupModel
	publisher  types.EventPublisher
}

func NewEventsHandler(groupModel *models.GroupModel, publisher types.EventPublisher) *EventsHandler {
	return &EventsHandler{groupModel: groupModel, publisher: publisher}
}

// StreamEventsHandler godoc
// @Summary Stream group events
// @Description Streams expense, settlement and debt events for a group as server-sent events
// @Tags events
// @Produce text/event-stream
// @Param groupId path string true "Group ID"
// @Success 200 {object} types.Event
// @Failure 403 {object} types.ErrorResponse
// @Router /groups/{groupId}/events [get]
// @Security BearerAuth
func (h *EventsHandler) StreamEventsHandler(c *gin.Context) {
	log := logger.GetLogger()
	groupID := c.Param("groupId")
	userID := middleware.GetUserID(c)

	if err := h.groupModel.VerifyMembership(c.Request.Context(), groupID, userID); err != nil {
		handleModelError(c, err)
		return
	}

	events, err := h.publisher.Subscribe(c.Request.Context(), groupID, userID)
	if err != nil {
		handleModelError(c, err)
		return
	}
	defer func() {
		if err := h.publisher.Unsubscribe(c.Request.Context(), groupID, userID); err != nil {
			log.Warnw("Failed to unsubscribe from group events",
				"groupId", groupID,
				"userId", userID,
				"error", err)
		}
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	heartbeat := time.NewTicker(sseHeartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			data, err := json.Marshal(event)
			if err != nil {
				log.Errorw("Failed to marshal event for SSE", "error", err)
				return true
			}
			c.SSEvent(string(event.Type), string(data))
			return true
		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
