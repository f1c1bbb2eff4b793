package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"match-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository defines interactions for match messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, matchID, senderID int, content, msgType string) (models.Message, error)
	GetMessage(ctx context.Context, messageID int) (models.Message, error)
	ListForMatch(ctx context.Context, matchID int) ([]models.Message, error)
	MarkRead(ctx context.Context, messageID, readerID int) error
	MarkMatchRead(ctx context.Context, matchID, readerID int) (int, error)
	UnreadCountsForUser(ctx context.Context, userID int) ([]models.UnreadCount, error)
	EditMessage(ctx context.Context, messageID, senderID int, content string) (models.Message, error)
	SoftDelete(ctx context.Context, messageID, senderID int) error
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const selectMessageColumns = `id, match_id, sender_id, content, type, sent_at, edited_at, read_at, deleted_at`

// CreateMessage stores a message in a match conversation. Participant and
// match-status checks happen at the boundary before this is called.
func (r *MessageRepo) CreateMessage(ctx context.Context, matchID, senderID int, content, msgType string) (models.Message, error) {
	if msgType == "" {
		msgType = models.MessageText
	}
	var msg models.Message
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO messages (match_id, sender_id, content, type) VALUES ($1, $2, $3, $4)
         RETURNING `+selectMessageColumns,
		matchID, senderID, content, msgType).StructScan(&msg)
	return msg, err
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`SELECT `+selectMessageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// ListForMatch returns a match's messages oldest first, excluding soft-deleted ones.
func (r *MessageRepo) ListForMatch(ctx context.Context, matchID int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT `+selectMessageColumns+` FROM messages
         WHERE match_id=$1 AND deleted_at IS NULL
         ORDER BY sent_at ASC`, matchID)
	return msgs, err
}

// MarkRead sets the read timestamp. Only the recipient can mark a message
// read, and a message already read keeps its original timestamp.
func (r *MessageRepo) MarkRead(ctx context.Context, messageID, readerID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET read_at=NOW() WHERE id=$1 AND sender_id<>$2 AND read_at IS NULL`,
		messageID, readerID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// MarkMatchRead marks all unread messages addressed to the reader in one
// match and returns how many were affected.
func (r *MessageRepo) MarkMatchRead(ctx context.Context, matchID, readerID int) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET read_at=NOW() WHERE match_id=$1 AND sender_id<>$2 AND read_at IS NULL`,
		matchID, readerID)
	if err != nil {
		return 0, err
	}
	count, err := res.RowsAffected()
	return int(count), err
}

// UnreadCountsForUser returns per-match unread counts across the user's matches.
func (r *MessageRepo) UnreadCountsForUser(ctx context.Context, userID int) ([]models.UnreadCount, error) {
	var counts []models.UnreadCount
	err := r.db.SelectContext(ctx, &counts,
		`SELECT m.match_id, COUNT(*) AS count FROM messages m
         JOIN matches ma ON ma.id = m.match_id
         WHERE (ma.user_low_id=$1 OR ma.user_high_id=$1)
           AND m.sender_id<>$1 AND m.read_at IS NULL AND m.deleted_at IS NULL
         GROUP BY m.match_id`, userID)
	return counts, err
}

// EditMessage updates the content of the sender's own message.
func (r *MessageRepo) EditMessage(ctx context.Context, messageID, senderID int, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx,
		`UPDATE messages SET content=$3, edited_at=NOW()
         WHERE id=$1 AND sender_id=$2 AND deleted_at IS NULL
         RETURNING `+selectMessageColumns,
		messageID, senderID, content).StructScan(&msg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// SoftDelete marks the sender's own message deleted.
func (r *MessageRepo) SoftDelete(ctx context.Context, messageID, senderID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET deleted_at=NOW() WHERE id=$1 AND sender_id=$2 AND deleted_at IS NULL`,
		messageID, senderID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}
