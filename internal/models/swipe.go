package models

import "time"

// SwipeAction enumerates the kinds of one-directional interest actions.
const (
	SwipeLike      = "like"
	SwipePass      = "pass"
	SwipeSuperlike = "superlike"
)

// Swipe represents a one-directional interest action from one user toward another.
// At most one row exists per ordered (swiper, swiped) pair.
type Swipe struct {
	ID        int       `db:"id" json:"id"`
	SwiperID  int       `db:"swiper_id" json:"swiper_id"`
	SwipedID  int       `db:"swiped_id" json:"swiped_id"`
	Action    string    `db:"action" json:"action"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ValidSwipeAction reports whether action is one of the known swipe kinds.
func ValidSwipeAction(action string) bool {
	switch action {
	case SwipeLike, SwipePass, SwipeSuperlike:
		return true
	}
	return false
}

// InterestAction reports whether action expresses positive interest,
// i.e. counts toward reciprocity.
func InterestAction(action string) bool {
	return action == SwipeLike || action == SwipeSuperlike
}

// SwipeStats aggregates a user's swipe activity.
type SwipeStats struct {
	LikesGiven     int `db:"likes_given" json:"likes_given"`
	LikesReceived  int `db:"likes_received" json:"likes_received"`
	Passes         int `db:"passes" json:"passes"`
	SuperlikesUsed int `db:"superlikes_used" json:"superlikes_used"`
	Matches        int `db:"matches" json:"matches"`
}
