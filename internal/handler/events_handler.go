package handler

import (
	"net/http"

	"gamecatalog/backend/internal/hub"

	"github.com/gin-gonic/gin"
)

const subscriberBuffer = 16

// EventsHandler streams catalog changes as server-sent events.
type EventsHandler struct {
	hub *hub.Hub
}

func NewEventsHandler(h *hub.Hub) *EventsHandler {
	return &EventsHandler{hub: h}
}

// Stream godoc
// @Summary      Subscribe to catalog changes
// @Description  Server-sent events for every create, update and delete on a topic.
// @Tags         events
// @Produce      text/event-stream
// @Param        topic path string true "category or game"
// @Success      200
// @Failure      400 {object} ErrorResponse
// @Router       /events/{topic} [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	topic := c.Param("topic")
	if !hub.ValidTopic(topic) {
		badRequest(c, "Unknown topic: "+topic)
		return
	}

	client := make(hub.Client, subscriberBuffer)
	h.hub.Subscribe(topic, client)
	defer h.hub.Unsubscribe(topic, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-client:
			if !ok {
				return
			}
			c.SSEvent(topic, string(msg))
			c.Writer.Flush()
		}
	}
}
