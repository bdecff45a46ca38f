package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *httpHandler) handleNotificationList(c *gin.Context) {
	notifications, err := h.deps.Notify.List(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *httpHandler) handleNotificationUnread(c *gin.Context) {
	count, err := h.deps.Notify.UnreadCount(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *httpHandler) handleNotificationMarkRead(c *gin.Context) {
	notification, err := h.deps.Notify.MarkRead(c.Request.Context(), c.GetString(userIDContextKey), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

func (h *httpHandler) handleNotificationMarkAllRead(c *gin.Context) {
	if err := h.deps.Notify.MarkAllRead(c.Request.Context(), c.GetString(userIDContextKey)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleNotificationDelete(c *gin.Context) {
	if err := h.deps.Notify.Delete(c.Request.Context(), c.GetString(userIDContextKey), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleNotificationClear(c *gin.Context) {
	if err := h.deps.Notify.ClearAll(c.Request.Context(), c.GetString(userIDContextKey)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

const streamHeartbeatInterval = 25 * time.Second

// handleNotificationStream serves the live notification feed over SSE.
// Heartbeat comments keep intermediaries from closing idle connections.
func (h *httpHandler) handleNotificationStream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming_unsupported"})
		return
	}

	userID := c.GetString(userIDContextKey)
	stream, cancel := h.deps.Notify.Relay().Subscribe(c.Request.Context(), userID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(streamHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case message, open := <-stream:
			if !open {
				return
			}
			payload, err := json.Marshal(message.Notification)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "event: notification\ndata: %s\n\n", payload)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
