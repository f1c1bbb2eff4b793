package repositories

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"match-service/internal/models"
)

// NotificationRepository abstracts notification persistence.
type NotificationRepository interface {
	Create(ctx context.Context, userID int, title, body string, payload json.RawMessage) (models.Notification, error)
	ListForUser(ctx context.Context, userID int) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID int) (int, error)
	UnreadCount(ctx context.Context, userID int) (int, error)
	AllUserIDs(ctx context.Context) ([]int, error)
}

// NotificationRepo is a sqlx implementation of NotificationRepository.
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create persists a notification row.
func (r *NotificationRepo) Create(ctx context.Context, userID int, title, body string, payload json.RawMessage) (models.Notification, error) {
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}
	var n models.Notification
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO notifications (user_id, title, body, payload) VALUES ($1, $2, $3, $4)
         RETURNING id, user_id, title, body, payload, sent_at, read_at`,
		userID, title, body, []byte(payload)).StructScan(&n)
	return n, err
}

// ListForUser returns the user's notifications, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.SelectContext(ctx, &list,
		`SELECT id, user_id, title, body, payload, sent_at, read_at FROM notifications
         WHERE user_id=$1 ORDER BY sent_at DESC`, userID)
	return list, err
}

// MarkAllRead marks every unread notification for the user and returns the count.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID int) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read_at=NOW() WHERE user_id=$1 AND read_at IS NULL`, userID)
	if err != nil {
		return 0, err
	}
	count, err := res.RowsAffected()
	return int(count), err
}

// UnreadCount returns how many unread notifications the user has.
func (r *NotificationRepo) UnreadCount(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND read_at IS NULL`, userID)
	return count, err
}

// AllUserIDs lists every known user id, used for global broadcasts.
func (r *NotificationRepo) AllUserIDs(ctx context.Context) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids, `SELECT id FROM users ORDER BY id`)
	return ids, err
}
