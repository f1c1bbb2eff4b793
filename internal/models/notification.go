package models

import (
	"encoding/json"
	"time"
)

// Notification is a persisted message delivered to a user, created
// independently of match state.
type Notification struct {
	ID      int             `db:"id" json:"id"`
	UserID  int             `db:"user_id" json:"user_id"`
	Title   string          `db:"title" json:"title"`
	Body    string          `db:"body" json:"body"`
	Payload json.RawMessage `db:"payload" json:"payload,omitempty"`
	SentAt  time.Time       `db:"sent_at" json:"sent_at"`
	ReadAt  *time.Time      `db:"read_at" json:"read_at,omitempty"`
}
