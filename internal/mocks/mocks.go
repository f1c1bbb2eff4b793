package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"match-service/internal/models"
)

type MatchmakerMock struct {
	mock.Mock
}

func (m *MatchmakerMock) SwipeAndEvaluate(ctx context.Context, swiperID, swipedID int, action string) (models.SwipeResult, error) {
	args := m.Called(ctx, swiperID, swipedID, action)
	var result models.SwipeResult
	if val := args.Get(0); val != nil {
		result = val.(models.SwipeResult)
	}
	return result, args.Error(1)
}

type SwipeRepositoryMock struct {
	mock.Mock
}

func (m *SwipeRepositoryMock) RecordSwipe(ctx context.Context, swiperID, swipedID int, action string) (models.Swipe, error) {
	args := m.Called(ctx, swiperID, swipedID, action)
	var swipe models.Swipe
	if val := args.Get(0); val != nil {
		swipe = val.(models.Swipe)
	}
	return swipe, args.Error(1)
}

func (m *SwipeRepositoryMock) HasSwiped(ctx context.Context, swiperID, swipedID int) (*models.Swipe, error) {
	args := m.Called(ctx, swiperID, swipedID)
	var swipe *models.Swipe
	if val := args.Get(0); val != nil {
		swipe = val.(*models.Swipe)
	}
	return swipe, args.Error(1)
}

func (m *SwipeRepositoryMock) UndoSwipe(ctx context.Context, swiperID, swipedID int) error {
	args := m.Called(ctx, swiperID, swipedID)
	return args.Error(0)
}

func (m *SwipeRepositoryMock) ListSwipedBy(ctx context.Context, userID int, actionFilter string) ([]models.Swipe, error) {
	args := m.Called(ctx, userID, actionFilter)
	var swipes []models.Swipe
	if val := args.Get(0); val != nil {
		swipes = val.([]models.Swipe)
	}
	return swipes, args.Error(1)
}

func (m *SwipeRepositoryMock) ListSwipersOf(ctx context.Context, userID int, actionFilter string) ([]models.Swipe, error) {
	args := m.Called(ctx, userID, actionFilter)
	var swipes []models.Swipe
	if val := args.Get(0); val != nil {
		swipes = val.([]models.Swipe)
	}
	return swipes, args.Error(1)
}

func (m *SwipeRepositoryMock) SwipeStats(ctx context.Context, userID int) (models.SwipeStats, error) {
	args := m.Called(ctx, userID)
	var stats models.SwipeStats
	if val := args.Get(0); val != nil {
		stats = val.(models.SwipeStats)
	}
	return stats, args.Error(1)
}

type BalanceRepositoryMock struct {
	mock.Mock
}

func (m *BalanceRepositoryMock) GetBalance(ctx context.Context, userID int) (models.Balance, error) {
	args := m.Called(ctx, userID)
	var bal models.Balance
	if val := args.Get(0); val != nil {
		bal = val.(models.Balance)
	}
	return bal, args.Error(1)
}

func (m *BalanceRepositoryMock) CanConsume(ctx context.Context, userID int, kind string) (bool, error) {
	args := m.Called(ctx, userID, kind)
	return args.Bool(0), args.Error(1)
}

func (m *BalanceRepositoryMock) Consume(ctx context.Context, userID int, kind string) error {
	args := m.Called(ctx, userID, kind)
	return args.Error(0)
}

func (m *BalanceRepositoryMock) Credit(ctx context.Context, userID int, kind string, amount int) (models.Balance, error) {
	args := m.Called(ctx, userID, kind, amount)
	var bal models.Balance
	if val := args.Get(0); val != nil {
		bal = val.(models.Balance)
	}
	return bal, args.Error(1)
}

func (m *BalanceRepositoryMock) ResetIfStale(ctx context.Context, userID int, grant int, interval time.Duration) error {
	args := m.Called(ctx, userID, grant, interval)
	return args.Error(0)
}

type MatchRepositoryMock struct {
	mock.Mock
}

func (m *MatchRepositoryMock) GetMatch(ctx context.Context, matchID int) (models.Match, error) {
	args := m.Called(ctx, matchID)
	var match models.Match
	if val := args.Get(0); val != nil {
		match = val.(models.Match)
	}
	return match, args.Error(1)
}

func (m *MatchRepositoryMock) GetMatchForPair(ctx context.Context, a, b int) (*models.Match, error) {
	args := m.Called(ctx, a, b)
	var match *models.Match
	if val := args.Get(0); val != nil {
		match = val.(*models.Match)
	}
	return match, args.Error(1)
}

func (m *MatchRepositoryMock) ListMatchesForUser(ctx context.Context, userID int) ([]models.Match, error) {
	args := m.Called(ctx, userID)
	var matches []models.Match
	if val := args.Get(0); val != nil {
		matches = val.([]models.Match)
	}
	return matches, args.Error(1)
}

func (m *MatchRepositoryMock) Unmatch(ctx context.Context, matchID, requestingUserID int) error {
	args := m.Called(ctx, matchID, requestingUserID)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, matchID, senderID int, content, msgType string) (models.Message, error) {
	args := m.Called(ctx, matchID, senderID, content, msgType)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListForMatch(ctx context.Context, matchID int) ([]models.Message, error) {
	args := m.Called(ctx, matchID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) MarkRead(ctx context.Context, messageID, readerID int) error {
	args := m.Called(ctx, messageID, readerID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) MarkMatchRead(ctx context.Context, matchID, readerID int) (int, error) {
	args := m.Called(ctx, matchID, readerID)
	return args.Int(0), args.Error(1)
}

func (m *MessageRepositoryMock) UnreadCountsForUser(ctx context.Context, userID int) ([]models.UnreadCount, error) {
	args := m.Called(ctx, userID)
	var counts []models.UnreadCount
	if val := args.Get(0); val != nil {
		counts = val.([]models.UnreadCount)
	}
	return counts, args.Error(1)
}

func (m *MessageRepositoryMock) EditMessage(ctx context.Context, messageID, senderID int, content string) (models.Message, error) {
	args := m.Called(ctx, messageID, senderID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) SoftDelete(ctx context.Context, messageID, senderID int) error {
	args := m.Called(ctx, messageID, senderID)
	return args.Error(0)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) Create(ctx context.Context, userID int, title, body string, payload json.RawMessage) (models.Notification, error) {
	args := m.Called(ctx, userID, title, body, payload)
	var n models.Notification
	if val := args.Get(0); val != nil {
		n = val.(models.Notification)
	}
	return n, args.Error(1)
}

func (m *NotificationRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	var list []models.Notification
	if val := args.Get(0); val != nil {
		list = val.([]models.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationRepositoryMock) MarkAllRead(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepositoryMock) UnreadCount(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepositoryMock) AllUserIDs(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	var ids []int
	if val := args.Get(0); val != nil {
		ids = val.([]int)
	}
	return ids, args.Error(1)
}

type ProfileRepositoryMock struct {
	mock.Mock
}

func (m *ProfileRepositoryMock) GetProfile(ctx context.Context, userID int) (models.Profile, error) {
	args := m.Called(ctx, userID)
	var p models.Profile
	if val := args.Get(0); val != nil {
		p = val.(models.Profile)
	}
	return p, args.Error(1)
}

func (m *ProfileRepositoryMock) BulkProfiles(ctx context.Context, ids []int) (map[int]models.Profile, error) {
	args := m.Called(ctx, ids)
	var profiles map[int]models.Profile
	if val := args.Get(0); val != nil {
		profiles = val.(map[int]models.Profile)
	}
	return profiles, args.Error(1)
}

func (m *ProfileRepositoryMock) PotentialMatches(ctx context.Context, userID int, limit int) ([]models.Profile, error) {
	args := m.Called(ctx, userID, limit)
	var profiles []models.Profile
	if val := args.Get(0); val != nil {
		profiles = val.([]models.Profile)
	}
	return profiles, args.Error(1)
}
