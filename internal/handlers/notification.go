package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"match-service/internal/fanout"
	"match-service/internal/repositories"
)

// NotificationHandler manages notification endpoints.
type NotificationHandler struct {
	repo       repositories.NotificationRepository
	dispatcher *fanout.Dispatcher
}

// NewNotificationHandler builds a NotificationHandler.
func NewNotificationHandler(repo repositories.NotificationRepository, dispatcher *fanout.Dispatcher) *NotificationHandler {
	return &NotificationHandler{repo: repo, dispatcher: dispatcher}
}

// ListNotifications returns the caller's notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	list, err := h.repo.ListForUser(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// CreateNotification persists and best-effort delivers a notification,
// targeted or global.
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req struct {
		UserID  int             `json:"user_id"`
		Title   string          `json:"title" binding:"required"`
		Body    string          `json:"body"`
		Payload json.RawMessage `json:"payload"`
		Global  bool            `json:"global"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Global {
		created, err := h.dispatcher.NotifyAll(c.Request.Context(), req.Title, req.Body, req.Payload)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send notification"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"created": created})
		return
	}

	if req.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required for targeted notifications"})
		return
	}

	n, err := h.dispatcher.Notify(c.Request.Context(), req.UserID, req.Title, req.Body, req.Payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send notification"})
		return
	}
	c.JSON(http.StatusCreated, n)
}

// MarkAllRead marks every unread notification of the caller. Pure
// persistence update, no real-time side effect.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	count, err := h.repo.MarkAllRead(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark notifications read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_read": count})
}

// UnreadCount returns the caller's unread notification count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.repo.UnreadCount(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load unread count"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}
