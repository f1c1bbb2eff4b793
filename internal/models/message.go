package models

import "time"

// Message types.
const (
	MessageText = "text"
	MessageGif  = "gif"
)

// Message represents a chat message inside a match conversation.
type Message struct {
	ID        int        `db:"id" json:"id"`
	MatchID   int        `db:"match_id" json:"match_id"`
	SenderID  int        `db:"sender_id" json:"sender_id"`
	Content   string     `db:"content" json:"content"`
	Type      string     `db:"type" json:"type"`
	SentAt    time.Time  `db:"sent_at" json:"sent_at"`
	EditedAt  *time.Time `db:"edited_at" json:"edited_at,omitempty"`
	ReadAt    *time.Time `db:"read_at" json:"read_at,omitempty"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// UnreadCount reports how many unread messages wait for a user in one match.
type UnreadCount struct {
	MatchID int `db:"match_id" json:"match_id"`
	Count   int `db:"count" json:"count"`
}
