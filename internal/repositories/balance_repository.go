package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"match-service/internal/models"
)

var ErrInsufficientBalance = errors.New("insufficient consumable balance")

// BalanceRepository abstracts the consumable ledger.
type BalanceRepository interface {
	GetBalance(ctx context.Context, userID int) (models.Balance, error)
	CanConsume(ctx context.Context, userID int, kind string) (bool, error)
	Consume(ctx context.Context, userID int, kind string) error
	Credit(ctx context.Context, userID int, kind string, amount int) (models.Balance, error)
	ResetIfStale(ctx context.Context, userID int, grant int, interval time.Duration) error
}

// BalanceRepo is a sqlx implementation of BalanceRepository.
type BalanceRepo struct {
	db *sqlx.DB
}

// NewBalanceRepo constructs a BalanceRepo.
func NewBalanceRepo(db *sqlx.DB) *BalanceRepo {
	return &BalanceRepo{db: db}
}

func balanceColumn(kind string) string {
	if kind == models.ConsumableBoost {
		return "boosts_balance"
	}
	return "superlikes_balance"
}

// GetBalance returns the user's balances, zero-valued when no row exists yet.
func (r *BalanceRepo) GetBalance(ctx context.Context, userID int) (models.Balance, error) {
	var bal models.Balance
	err := r.db.GetContext(ctx, &bal,
		`SELECT user_id, superlikes_balance, boosts_balance, last_reset FROM consumable_balances WHERE user_id=$1`,
		userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Balance{UserID: userID}, nil
	}
	return bal, err
}

// CanConsume reports whether the user has at least one unit of the kind left.
func (r *BalanceRepo) CanConsume(ctx context.Context, userID int, kind string) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok,
		`SELECT EXISTS(SELECT 1 FROM consumable_balances WHERE user_id=$1 AND `+balanceColumn(kind)+` > 0)`,
		userID)
	return ok, err
}

// Consume decrements the balance by one. The conditional update is the
// atomic check-and-decrement: two concurrent callers racing on a balance of
// one cannot both succeed.
func (r *BalanceRepo) Consume(ctx context.Context, userID int, kind string) error {
	col := balanceColumn(kind)
	res, err := r.db.ExecContext(ctx,
		`UPDATE consumable_balances SET `+col+` = `+col+` - 1 WHERE user_id=$1 AND `+col+` > 0`,
		userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// Credit adds amount units of the kind, creating the row when needed.
func (r *BalanceRepo) Credit(ctx context.Context, userID int, kind string, amount int) (models.Balance, error) {
	col := balanceColumn(kind)
	var bal models.Balance
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO consumable_balances (user_id, `+col+`) VALUES ($1, $2)
         ON CONFLICT (user_id) DO UPDATE SET `+col+` = consumable_balances.`+col+` + EXCLUDED.`+col+`
         RETURNING user_id, superlikes_balance, boosts_balance, last_reset`,
		userID, amount).StructScan(&bal)
	return bal, err
}

// ResetIfStale tops the superlike balance up to the free daily grant when the
// last reset is older than interval. The balance is raised, never lowered, so
// purchased superlikes survive the reset.
func (r *BalanceRepo) ResetIfStale(ctx context.Context, userID int, grant int, interval time.Duration) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO consumable_balances (user_id, superlikes_balance) VALUES ($1, $2)
         ON CONFLICT (user_id) DO UPDATE
         SET superlikes_balance = GREATEST(consumable_balances.superlikes_balance, $2), last_reset = NOW()
         WHERE consumable_balances.last_reset < NOW() - ($3 * interval '1 second')`,
		userID, grant, int(interval.Seconds()))
	return err
}
