package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"match-service/internal/mocks"
	"match-service/internal/models"
	"match-service/internal/presence"
	"match-service/internal/repositories"
	"match-service/internal/telemetry"
)

func testEmitter() *telemetry.Emitter {
	return telemetry.NewEmitter("test_events", "match-service", "test")
}

func setupSwipeRouter(handler *SwipeHandler, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	r.POST("/swipe", handler.PostSwipe)
	r.DELETE("/swipe/:swiper_user_id/:swiped_user_id", handler.UndoSwipe)
	r.GET("/swipe/check/:swiped_user_id", handler.CheckSwipe)
	r.GET("/swipe/stats/:user_id", handler.SwipeStats)
	r.GET("/swipe/swipers/:user_id", handler.Swipers)
	r.GET("/swipe/potential-matches/:user_id", handler.PotentialMatches)
	return r
}

func TestPostSwipeNoReciprocal(t *testing.T) {
	matchmaker := new(mocks.MatchmakerMock)
	handler := NewSwipeHandler(matchmaker, nil, nil, nil, presence.NewRedisTracker(""), testEmitter())
	router := setupSwipeRouter(handler, 3)

	matchmaker.On("SwipeAndEvaluate", mock.Anything, 3, 7, "like").
		Return(models.SwipeResult{Swipe: models.Swipe{ID: 1, SwiperID: 3, SwipedID: 7, Action: "like"}}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/swipe", bytes.NewBufferString(`{"swiped_user_id":7,"action":"like"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.SwipeResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.False(t, resp.IsMatch)
	require.Nil(t, resp.Match)
	matchmaker.AssertExpectations(t)
}

func TestPostSwipeReciprocalCreatesMatch(t *testing.T) {
	matchmaker := new(mocks.MatchmakerMock)
	handler := NewSwipeHandler(matchmaker, nil, nil, nil, presence.NewRedisTracker(""), testEmitter())
	router := setupSwipeRouter(handler, 7)

	match := &models.Match{ID: 12, UserLowID: 3, UserHighID: 7, Status: models.MatchActive}
	matchmaker.On("SwipeAndEvaluate", mock.Anything, 7, 3, "like").
		Return(models.SwipeResult{
			Swipe:   models.Swipe{ID: 2, SwiperID: 7, SwipedID: 3, Action: "like"},
			Match:   match,
			IsMatch: true,
		}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/swipe", bytes.NewBufferString(`{"swiped_user_id":3,"action":"like"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.SwipeResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.IsMatch)
	require.NotNil(t, resp.Match)
	require.Equal(t, 3, resp.Match.UserLowID)
	require.Equal(t, 7, resp.Match.UserHighID)
	require.Equal(t, models.MatchActive, resp.Match.Status)
	matchmaker.AssertExpectations(t)
}

func TestPostSwipeDuplicate(t *testing.T) {
	matchmaker := new(mocks.MatchmakerMock)
	handler := NewSwipeHandler(matchmaker, nil, nil, nil, presence.NewRedisTracker(""), testEmitter())
	router := setupSwipeRouter(handler, 7)

	matchmaker.On("SwipeAndEvaluate", mock.Anything, 7, 3, "like").
		Return(models.SwipeResult{}, repositories.ErrDuplicateSwipe).Once()

	req := httptest.NewRequest(http.MethodPost, "/swipe", bytes.NewBufferString(`{"swiped_user_id":3,"action":"like"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	matchmaker.AssertExpectations(t)
}

func TestPostSwipeSuperlikeInsufficientBalance(t *testing.T) {
	matchmaker := new(mocks.MatchmakerMock)
	balanceRepo := new(mocks.BalanceRepositoryMock)
	handler := NewSwipeHandler(matchmaker, nil, balanceRepo, nil, presence.NewRedisTracker(""), testEmitter())
	router := setupSwipeRouter(handler, 5)

	balanceRepo.On("ResetIfStale", mock.Anything, 5, dailySuperlikeGrant, mock.Anything).Return(nil).Once()
	matchmaker.On("SwipeAndEvaluate", mock.Anything, 5, 9, "superlike").
		Return(models.SwipeResult{}, repositories.ErrInsufficientBalance).Once()

	req := httptest.NewRequest(http.MethodPost, "/swipe", bytes.NewBufferString(`{"swiped_user_id":9,"action":"superlike"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	balanceRepo.AssertExpectations(t)
	matchmaker.AssertExpectations(t)
}

func TestPostSwipeSelf(t *testing.T) {
	matchmaker := new(mocks.MatchmakerMock)
	handler := NewSwipeHandler(matchmaker, nil, nil, nil, presence.NewRedisTracker(""), testEmitter())
	router := setupSwipeRouter(handler, 3)

	matchmaker.On("SwipeAndEvaluate", mock.Anything, 3, 3, "like").
		Return(models.SwipeResult{}, repositories.ErrSelfSwipe).Once()

	req := httptest.NewRequest(http.MethodPost, "/swipe", bytes.NewBufferString(`{"swiped_user_id":3,"action":"like"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostSwipeUnknownAction(t *testing.T) {
	handler := NewSwipeHandler(new(mocks.MatchmakerMock), nil, nil, nil, presence.NewRedisTracker(""), testEmitter())
	router := setupSwipeRouter(handler, 3)

	req := httptest.NewRequest(http.MethodPost, "/swipe", bytes.NewBufferString(`{"swiped_user_id":7,"action":"wink"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostSwipeOnBehalfOfOther(t *testing.T) {
	handler := NewSwipeHandler(new(mocks.MatchmakerMock), nil, nil, nil, presence.NewRedisTracker(""), testEmitter())
	router := setupSwipeRouter(handler, 3)

	req := httptest.NewRequest(http.MethodPost, "/swipe",
		bytes.NewBufferString(`{"swiper_user_id":4,"swiped_user_id":7,"action":"like"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUndoSwipeNotFound(t *testing.T) {
	swipeRepo := new(mocks.SwipeRepositoryMock)
	handler := NewSwipeHandler(new(mocks.MatchmakerMock), swipeRepo, nil, nil, presence.NewRedisTracker(""), testEmitter())
	router := setupSwipeRouter(handler, 3)

	swipeRepo.On("UndoSwipe", mock.Anything, 3, 7).Return(repositories.ErrSwipeNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/swipe/3/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	swipeRepo.AssertExpectations(t)
}

func TestUndoSwipeSuccess(t *testing.T) {
	swipeRepo := new(mocks.SwipeRepositoryMock)
	handler := NewSwipeHandler(new(mocks.MatchmakerMock), swipeRepo, nil, nil, presence.NewRedisTracker(""), testEmitter())
	router := setupSwipeRouter(handler, 3)

	swipeRepo.On("UndoSwipe", mock.Anything, 3, 7).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/swipe/3/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	swipeRepo.AssertExpectations(t)
}

func TestUndoSwipeForbiddenForOtherUser(t *testing.T) {
	handler := NewSwipeHandler(new(mocks.MatchmakerMock), new(mocks.SwipeRepositoryMock), nil, nil, presence.NewRedisTracker(""), testEmitter())
	router := setupSwipeRouter(handler, 3)

	req := httptest.NewRequest(http.MethodDelete, "/swipe/4/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSwipeStats(t *testing.T) {
	swipeRepo := new(mocks.SwipeRepositoryMock)
	handler := NewSwipeHandler(new(mocks.MatchmakerMock), swipeRepo, nil, nil, presence.NewRedisTracker(""), testEmitter())
	router := setupSwipeRouter(handler, 3)

	swipeRepo.On("SwipeStats", mock.Anything, 3).
		Return(models.SwipeStats{LikesGiven: 4, Matches: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/swipe/stats/3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.SwipeStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	require.Equal(t, 4, stats.LikesGiven)
	require.Equal(t, 2, stats.Matches)
	swipeRepo.AssertExpectations(t)
}

func TestPotentialMatches(t *testing.T) {
	profileRepo := new(mocks.ProfileRepositoryMock)
	handler := NewSwipeHandler(new(mocks.MatchmakerMock), nil, nil, profileRepo, presence.NewRedisTracker(""), testEmitter())
	router := setupSwipeRouter(handler, 3)

	profileRepo.On("PotentialMatches", mock.Anything, 3, 20).
		Return([]models.Profile{{ID: 8, Name: "sam"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/swipe/potential-matches/3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	profileRepo.AssertExpectations(t)
}

func TestCheckSwipeNotYetSwiped(t *testing.T) {
	swipeRepo := new(mocks.SwipeRepositoryMock)
	handler := NewSwipeHandler(new(mocks.MatchmakerMock), swipeRepo, nil, nil, presence.NewRedisTracker(""), testEmitter())
	router := setupSwipeRouter(handler, 3)

	swipeRepo.On("HasSwiped", mock.Anything, 3, 7).Return((*models.Swipe)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/swipe/check/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"swiped":false`)
	swipeRepo.AssertExpectations(t)
}

func TestCheckSwipeAlreadySwiped(t *testing.T) {
	swipeRepo := new(mocks.SwipeRepositoryMock)
	handler := NewSwipeHandler(new(mocks.MatchmakerMock), swipeRepo, nil, nil, presence.NewRedisTracker(""), testEmitter())
	router := setupSwipeRouter(handler, 3)

	swipeRepo.On("HasSwiped", mock.Anything, 3, 7).
		Return(&models.Swipe{ID: 1, SwiperID: 3, SwipedID: 7, Action: "like"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/swipe/check/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"swiped":true`)
	swipeRepo.AssertExpectations(t)
}

func TestSwipersProjection(t *testing.T) {
	swipeRepo := new(mocks.SwipeRepositoryMock)
	profileRepo := new(mocks.ProfileRepositoryMock)
	handler := NewSwipeHandler(new(mocks.MatchmakerMock), swipeRepo, nil, profileRepo, presence.NewRedisTracker(""), testEmitter())
	router := setupSwipeRouter(handler, 7)

	swipeRepo.On("ListSwipersOf", mock.Anything, 7, "like").
		Return([]models.Swipe{{ID: 1, SwiperID: 3, SwipedID: 7, Action: "like"}}, nil).Once()
	profileRepo.On("BulkProfiles", mock.Anything, []int{3}).
		Return(map[int]models.Profile{3: {ID: 3, Name: "alex"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/swipe/swipers/7?action=like", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"alex"`)
	swipeRepo.AssertExpectations(t)
	profileRepo.AssertExpectations(t)
}
