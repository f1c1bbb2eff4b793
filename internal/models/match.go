package models

import "time"

// Match statuses. Unmatched is terminal.
const (
	MatchActive    = "active"
	MatchUnmatched = "unmatched"
)

// Match represents mutual interest between two users. The pair is stored in
// canonical order (UserLowID < UserHighID) so an unordered pair can never
// produce two rows.
type Match struct {
	ID          int        `db:"id" json:"id"`
	UserLowID   int        `db:"user_low_id" json:"user_low_id"`
	UserHighID  int        `db:"user_high_id" json:"user_high_id"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UnmatchedAt *time.Time `db:"unmatched_at" json:"unmatched_at,omitempty"`
}

// OtherUser returns the participant that is not userID, or 0 when userID is
// not a participant.
func (m Match) OtherUser(userID int) int {
	switch userID {
	case m.UserLowID:
		return m.UserHighID
	case m.UserHighID:
		return m.UserLowID
	}
	return 0
}

// HasParticipant reports whether userID belongs to the match.
func (m Match) HasParticipant(userID int) bool {
	return m.UserLowID == userID || m.UserHighID == userID
}

// CanonicalPair orders two user ids so the smaller one comes first.
func CanonicalPair(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

// MatchSummary is the API-friendly view of a match for one user.
type MatchSummary struct {
	MatchID     int       `json:"match_id"`
	OtherUserID int       `json:"other_user_id"`
	OtherName   string    `json:"other_name,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// SwipeResult is returned by the match coordinator after a swipe is recorded.
type SwipeResult struct {
	Swipe   Swipe  `json:"swipe"`
	Match   *Match `json:"match"`
	IsMatch bool   `json:"isMatch"`
}
