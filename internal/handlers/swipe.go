package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"match-service/internal/models"
	"match-service/internal/observability"
	"match-service/internal/presence"
	"match-service/internal/repositories"
	"match-service/internal/telemetry"
)

// dailySuperlikeGrant is the free allowance replenished once a day.
const dailySuperlikeGrant = 1

// SwipeHandler manages swipe endpoints.
type SwipeHandler struct {
	matchmaker  repositories.Matchmaker
	swipeRepo   repositories.SwipeRepository
	balanceRepo repositories.BalanceRepository
	profileRepo repositories.ProfileRepository
	tracker     presence.Tracker
	emitter     *telemetry.Emitter
}

// NewSwipeHandler builds a SwipeHandler.
func NewSwipeHandler(matchmaker repositories.Matchmaker, swipeRepo repositories.SwipeRepository, balanceRepo repositories.BalanceRepository, profileRepo repositories.ProfileRepository, tracker presence.Tracker, emitter *telemetry.Emitter) *SwipeHandler {
	return &SwipeHandler{
		matchmaker:  matchmaker,
		swipeRepo:   swipeRepo,
		balanceRepo: balanceRepo,
		profileRepo: profileRepo,
		tracker:     tracker,
		emitter:     emitter,
	}
}

// PostSwipe records a swipe and evaluates mutual interest.
func (h *SwipeHandler) PostSwipe(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		SwiperUserID int    `json:"swiper_user_id"`
		SwipedUserID int    `json:"swiped_user_id" binding:"required"`
		Action       string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SwiperUserID != 0 && req.SwiperUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot swipe on behalf of another user"})
		return
	}
	if !models.ValidSwipeAction(req.Action) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}

	if req.Action == models.SwipeSuperlike {
		if err := h.balanceRepo.ResetIfStale(c.Request.Context(), userID, dailySuperlikeGrant, 24*time.Hour); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not refresh balance"})
			return
		}
	}

	result, err := h.matchmaker.SwipeAndEvaluate(c.Request.Context(), userID, req.SwipedUserID, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSelfSwipe):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot swipe on yourself"})
		case errors.Is(err, repositories.ErrDuplicateSwipe):
			c.JSON(http.StatusBadRequest, gin.H{"error": "already swiped on this user"})
		case errors.Is(err, repositories.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no superlikes left"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record swipe"})
		}
		return
	}

	observability.IncSwipe(req.Action)
	h.emitter.Emit(c.Request.Context(), telemetry.EventSwipeRecorded, userID, result.Swipe)
	if result.IsMatch {
		observability.IncMatchCreated()
		h.emitter.Emit(c.Request.Context(), telemetry.EventMatchCreated, userID, result.Match)
	}

	c.JSON(http.StatusCreated, result)
}

// UndoSwipe deletes a previously recorded swipe. A match the swipe already
// produced stays in place.
func (h *SwipeHandler) UndoSwipe(c *gin.Context) {
	swiperID, err := strconv.Atoi(c.Param("swiper_user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid swiper id"})
		return
	}
	swipedID, err := strconv.Atoi(c.Param("swiped_user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid swiped id"})
		return
	}

	if swiperID != c.GetInt("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot undo another user's swipe"})
		return
	}

	if err := h.swipeRepo.UndoSwipe(c.Request.Context(), swiperID, swipedID); err != nil {
		if errors.Is(err, repositories.ErrSwipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "swipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not undo swipe"})
		return
	}

	c.Status(http.StatusNoContent)
}

// CheckSwipe reports whether the caller has already swiped on a user.
func (h *SwipeHandler) CheckSwipe(c *gin.Context) {
	swipedID, err := strconv.Atoi(c.Param("swiped_user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid swiped id"})
		return
	}

	swipe, err := h.swipeRepo.HasSwiped(c.Request.Context(), c.GetInt("userID"), swipedID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check swipe"})
		return
	}
	if swipe == nil {
		c.JSON(http.StatusOK, gin.H{"swiped": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"swiped": true, "swipe": swipe})
}

// Swipers returns the users who swiped on a user, joined with profile data.
// An optional action query param narrows the projection.
func (h *SwipeHandler) Swipers(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	swipes, err := h.swipeRepo.ListSwipersOf(c.Request.Context(), userID, c.Query("action"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load swipers"})
		return
	}
	h.respondSwipeProjection(c, swipes, func(s models.Swipe) int { return s.SwiperID })
}

// SwipeHistory returns the swipes a user has made, joined with profile data.
func (h *SwipeHandler) SwipeHistory(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	swipes, err := h.swipeRepo.ListSwipedBy(c.Request.Context(), userID, c.Query("action"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load swipe history"})
		return
	}
	h.respondSwipeProjection(c, swipes, func(s models.Swipe) int { return s.SwipedID })
}

func (h *SwipeHandler) respondSwipeProjection(c *gin.Context, swipes []models.Swipe, otherID func(models.Swipe) int) {
	ids := make([]int, 0, len(swipes))
	for _, s := range swipes {
		ids = append(ids, otherID(s))
	}
	profiles, err := h.profileRepo.BulkProfiles(c.Request.Context(), ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profiles"})
		return
	}

	type entry struct {
		Swipe   models.Swipe   `json:"swipe"`
		Profile models.Profile `json:"profile"`
	}
	entries := make([]entry, 0, len(swipes))
	for _, s := range swipes {
		entries = append(entries, entry{Swipe: s, Profile: profiles[otherID(s)]})
	}
	c.JSON(http.StatusOK, gin.H{"swipes": entries})
}

// SwipeStats returns aggregate swipe activity for a user.
func (h *SwipeHandler) SwipeStats(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	stats, err := h.swipeRepo.SwipeStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// PotentialMatches returns profiles the user has not swiped on yet,
// annotated with presence.
func (h *SwipeHandler) PotentialMatches(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	profiles, err := h.profileRepo.PotentialMatches(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load potential matches"})
		return
	}

	cards := make([]models.ProfileCard, 0, len(profiles))
	for _, p := range profiles {
		online, _ := h.tracker.IsOnline(c.Request.Context(), p.ID)
		cards = append(cards, models.ProfileCard{Profile: p, Online: online})
	}
	c.JSON(http.StatusOK, gin.H{"profiles": cards})
}
