package models

import "time"

// Consumable kinds tracked by the consumable ledger.
const (
	ConsumableSuperlike = "superlike"
	ConsumableBoost     = "boost"
)

// Balance holds a user's spendable consumable balances. Mutated only through
// the ledger's atomic operations; the columns never go negative.
type Balance struct {
	UserID            int       `db:"user_id" json:"user_id"`
	SuperlikesBalance int       `db:"superlikes_balance" json:"superlikes_balance"`
	BoostsBalance     int       `db:"boosts_balance" json:"boosts_balance"`
	LastReset         time.Time `db:"last_reset" json:"last_reset"`
}

// ValidConsumable reports whether kind is a known consumable.
func ValidConsumable(kind string) bool {
	return kind == ConsumableSuperlike || kind == ConsumableBoost
}
