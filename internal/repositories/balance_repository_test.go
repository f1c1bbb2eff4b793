package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"match-service/internal/models"
)

func TestConsumeDecrementsOnlyPositiveBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBalanceRepo(db)

	// The WHERE guard is the atomic check-and-decrement: racing callers on
	// a balance of one cannot both match the row.
	mock.ExpectExec(regexp.QuoteMeta("SET boosts_balance = boosts_balance - 1 WHERE user_id=$1 AND boosts_balance > 0")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Consume(context.Background(), 5, models.ConsumableBoost))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeEmptyBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBalanceRepo(db)

	mock.ExpectExec("UPDATE consumable_balances").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Consume(context.Background(), 5, models.ConsumableSuperlike)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditUpsertsBalanceRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBalanceRepo(db)

	mock.ExpectQuery("INSERT INTO consumable_balances").
		WithArgs(5, 3).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "superlikes_balance", "boosts_balance", "last_reset"}).
			AddRow(5, 3, 0, time.Now()))

	bal, err := repo.Credit(context.Background(), 5, models.ConsumableSuperlike, 3)
	require.NoError(t, err)
	require.Equal(t, 3, bal.SuperlikesBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBalanceMissingRowIsZero(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBalanceRepo(db)

	mock.ExpectQuery("SELECT user_id, superlikes_balance").
		WithArgs(5).
		WillReturnError(sql.ErrNoRows)

	bal, err := repo.GetBalance(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 5, bal.UserID)
	require.Zero(t, bal.SuperlikesBalance)
	require.Zero(t, bal.BoostsBalance)
}

func TestResetIfStaleRaisesNeverLowers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBalanceRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("GREATEST(consumable_balances.superlikes_balance, $2)")).
		WithArgs(5, 3, 86400).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ResetIfStale(context.Background(), 5, 3, 24*time.Hour))
	require.NoError(t, mock.ExpectationsWereMet())
}
