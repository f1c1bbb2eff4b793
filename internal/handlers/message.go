package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"match-service/internal/models"
	"match-service/internal/observability"
	"match-service/internal/repositories"
	"match-service/internal/telemetry"
	"match-service/internal/ws"
)

// MessageHandler manages message endpoints.
type MessageHandler struct {
	matchRepo repositories.MatchRepository
	msgRepo   repositories.MessageRepository
	hub       *ws.Hub
	emitter   *telemetry.Emitter
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(matchRepo repositories.MatchRepository, msgRepo repositories.MessageRepository, hub *ws.Hub, emitter *telemetry.Emitter) *MessageHandler {
	return &MessageHandler{matchRepo: matchRepo, msgRepo: msgRepo, hub: hub, emitter: emitter}
}

// activeMatchForParticipant loads the match and verifies the caller may
// write to it. It answers with the right status itself and returns ok=false
// when the request is already handled.
func (h *MessageHandler) activeMatchForParticipant(c *gin.Context, matchID, userID int, requireActive bool) (models.Match, bool) {
	match, err := h.matchRepo.GetMatch(c.Request.Context(), matchID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMatchNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "match not found"})
		return models.Match{}, false
	}
	if !match.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
		return models.Match{}, false
	}
	if requireActive && match.Status != models.MatchActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "match is no longer active"})
		return models.Match{}, false
	}
	return match, true
}

// PostMessage stores a message and pushes it to the recipient's room.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	var req struct {
		MatchID     int    `json:"match_id" binding:"required"`
		Content     string `json:"content" binding:"required"`
		MessageType string `json:"message_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	match, ok := h.activeMatchForParticipant(c, req.MatchID, userID, true)
	if !ok {
		return
	}

	msg, err := h.msgRepo.CreateMessage(c.Request.Context(), req.MatchID, userID, req.Content, req.MessageType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}
	observability.IncMessageSent()
	h.emitter.Emit(c.Request.Context(), telemetry.EventMessageSent, userID, msg)

	if h.hub != nil {
		h.hub.EmitToUser(match.OtherUser(userID), models.WSEvent{Event: models.EventReceiveMessage, Data: msg})
	}
	c.JSON(http.StatusCreated, msg)
}

// GetMatchMessages returns the conversation; historical messages stay
// readable after an unmatch.
func (h *MessageHandler) GetMatchMessages(c *gin.Context) {
	matchID, err := strconv.Atoi(c.Param("match_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}

	userID := c.GetInt("userID")
	if _, ok := h.activeMatchForParticipant(c, matchID, userID, false); !ok {
		return
	}

	msgs, err := h.msgRepo.ListForMatch(c.Request.Context(), matchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// MarkMessageRead marks one message read.
func (h *MessageHandler) MarkMessageRead(c *gin.Context) {
	messageID, err := strconv.Atoi(c.Param("message_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	userID := c.GetInt("userID")
	msg, err := h.msgRepo.GetMessage(c.Request.Context(), messageID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMessageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "message not found"})
		return
	}
	if _, ok := h.activeMatchForParticipant(c, msg.MatchID, userID, false); !ok {
		return
	}

	if err := h.msgRepo.MarkRead(c.Request.Context(), messageID, userID); err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message already read or not addressed to you"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark read"})
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkMatchRead marks every unread message addressed to the caller in a match.
func (h *MessageHandler) MarkMatchRead(c *gin.Context) {
	matchID, err := strconv.Atoi(c.Param("match_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}

	userID := c.GetInt("userID")
	if _, ok := h.activeMatchForParticipant(c, matchID, userID, false); !ok {
		return
	}

	count, err := h.msgRepo.MarkMatchRead(c.Request.Context(), matchID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_read": count})
}

// UnreadCounts returns per-match unread counts for the caller.
func (h *MessageHandler) UnreadCounts(c *gin.Context) {
	counts, err := h.msgRepo.UnreadCountsForUser(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load unread counts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": counts})
}

// EditMessage updates the caller's own message.
func (h *MessageHandler) EditMessage(c *gin.Context) {
	messageID, err := strconv.Atoi(c.Param("message_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.msgRepo.EditMessage(c.Request.Context(), messageID, c.GetInt("userID"), req.Content)
	if err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not edit message"})
		return
	}
	c.JSON(http.StatusOK, msg)
}

// DeleteMessage soft-deletes the caller's own message.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	messageID, err := strconv.Atoi(c.Param("message_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	if err := h.msgRepo.SoftDelete(c.Request.Context(), messageID, c.GetInt("userID")); err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete message"})
		return
	}
	c.Status(http.StatusNoContent)
}
