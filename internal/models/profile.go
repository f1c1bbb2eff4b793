package models

import "time"

// Profile is the narrow read view of a user exposed to this service.
// Profile management itself lives outside the core.
type Profile struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Age       int       `db:"age" json:"age"`
	Bio       string    `db:"bio" json:"bio"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ProfileCard is a profile joined with swipe/presence context for
// discovery and list projections.
type ProfileCard struct {
	Profile
	SwipeAction string     `json:"swipe_action,omitempty"`
	SwipedAt    *time.Time `json:"swiped_at,omitempty"`
	Online      bool       `json:"online"`
}
