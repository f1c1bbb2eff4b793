package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"match-service/internal/fanout"
	"match-service/internal/mocks"
	"match-service/internal/models"
	"match-service/internal/ws"
)

func setupNotificationRouter(handler *NotificationHandler, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	r.GET("/notifications", handler.ListNotifications)
	r.POST("/notifications", handler.CreateNotification)
	r.PUT("/notifications/read", handler.MarkAllRead)
	r.GET("/notifications/unread-count", handler.UnreadCount)
	return r
}

func TestCreateTargetedNotification(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	dispatcher := fanout.NewDispatcher(repo, ws.NewHub(), testEmitter())
	handler := NewNotificationHandler(repo, dispatcher)
	router := setupNotificationRouter(handler, 1)

	repo.On("Create", mock.Anything, 7, "hello", "world", mock.Anything).
		Return(models.Notification{ID: 2, UserID: 7, Title: "hello", Body: "world"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/notifications",
		bytes.NewBufferString(`{"user_id":7,"title":"hello","body":"world"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	repo.AssertExpectations(t)
}

func TestCreateTargetedNotificationMissingUser(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(repo, fanout.NewDispatcher(repo, ws.NewHub(), testEmitter()))
	router := setupNotificationRouter(handler, 1)

	req := httptest.NewRequest(http.MethodPost, "/notifications", bytes.NewBufferString(`{"title":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateGlobalNotification(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(repo, fanout.NewDispatcher(repo, ws.NewHub(), testEmitter()))
	router := setupNotificationRouter(handler, 1)

	repo.On("AllUserIDs", mock.Anything).Return([]int{1, 2}, nil).Once()
	repo.On("Create", mock.Anything, 1, "hello", "", mock.Anything).
		Return(models.Notification{ID: 3, UserID: 1, Title: "hello"}, nil).Once()
	repo.On("Create", mock.Anything, 2, "hello", "", mock.Anything).
		Return(models.Notification{ID: 4, UserID: 2, Title: "hello"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/notifications",
		bytes.NewBufferString(`{"title":"hello","global":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"created":2`)
	repo.AssertExpectations(t)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(repo, fanout.NewDispatcher(repo, ws.NewHub(), testEmitter()))
	router := setupNotificationRouter(handler, 4)

	repo.On("MarkAllRead", mock.Anything, 4).Return(3, nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/notifications/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"marked_read":3`)
	repo.AssertExpectations(t)
}

func TestNotificationUnreadCount(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(repo, fanout.NewDispatcher(repo, ws.NewHub(), testEmitter()))
	router := setupNotificationRouter(handler, 4)

	repo.On("UnreadCount", mock.Anything, 4).Return(5, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/notifications/unread-count", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"unread":5`)
}
