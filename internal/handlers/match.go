package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"match-service/internal/models"
	"match-service/internal/repositories"
	"match-service/internal/telemetry"
)

// MatchHandler manages match endpoints.
type MatchHandler struct {
	matchRepo   repositories.MatchRepository
	profileRepo repositories.ProfileRepository
	emitter     *telemetry.Emitter
}

// NewMatchHandler builds a MatchHandler.
func NewMatchHandler(matchRepo repositories.MatchRepository, profileRepo repositories.ProfileRepository, emitter *telemetry.Emitter) *MatchHandler {
	return &MatchHandler{matchRepo: matchRepo, profileRepo: profileRepo, emitter: emitter}
}

// ListMatches returns the caller's active matches joined with profile data.
func (h *MatchHandler) ListMatches(c *gin.Context) {
	userID := c.GetInt("userID")

	matches, err := h.matchRepo.ListMatchesForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load matches"})
		return
	}

	otherIDs := make([]int, 0, len(matches))
	for _, m := range matches {
		otherIDs = append(otherIDs, m.OtherUser(userID))
	}
	profiles, err := h.profileRepo.BulkProfiles(c.Request.Context(), otherIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profiles"})
		return
	}

	summaries := make([]models.MatchSummary, 0, len(matches))
	for _, m := range matches {
		otherID := m.OtherUser(userID)
		summaries = append(summaries, models.MatchSummary{
			MatchID:     m.ID,
			OtherUserID: otherID,
			OtherName:   profiles[otherID].Name,
			Status:      m.Status,
			CreatedAt:   m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"matches": summaries})
}

// GetMatch fetches one match; participants only.
func (h *MatchHandler) GetMatch(c *gin.Context) {
	matchID, err := strconv.Atoi(c.Param("match_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}

	match, err := h.matchRepo.GetMatch(c.Request.Context(), matchID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMatchNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "match not found"})
		return
	}
	if !match.HasParticipant(c.GetInt("userID")) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
		return
	}

	c.JSON(http.StatusOK, match)
}

// PairMatch returns the match between the caller and another user, when one
// exists.
func (h *MatchHandler) PairMatch(c *gin.Context) {
	otherID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	match, err := h.matchRepo.GetMatchForPair(c.Request.Context(), c.GetInt("userID"), otherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load match"})
		return
	}
	if match == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no match for this pair"})
		return
	}
	c.JSON(http.StatusOK, match)
}

// Unmatch moves a match to its terminal unmatched state.
func (h *MatchHandler) Unmatch(c *gin.Context) {
	matchID, err := strconv.Atoi(c.Param("match_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}

	userID := c.GetInt("userID")
	if err := h.matchRepo.Unmatch(c.Request.Context(), matchID, userID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
		case errors.Is(err, repositories.ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
		case errors.Is(err, repositories.ErrMatchInactive):
			c.JSON(http.StatusBadRequest, gin.H{"error": "match already unmatched"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not unmatch"})
		}
		return
	}

	h.emitter.Emit(c.Request.Context(), telemetry.EventMatchEnded, userID, gin.H{"match_id": matchID})
	c.Status(http.StatusNoContent)
}
