package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"match-service/internal/models"
)

// Matchmaker coordinates swipe recording with match evaluation.
type Matchmaker interface {
	SwipeAndEvaluate(ctx context.Context, swiperID, swipedID int, action string) (models.SwipeResult, error)
}

// MatchmakerRepo runs the swipe/consume/evaluate sequence as one database
// transaction so a superlike is never spent without its swipe being recorded
// and two concurrent reciprocal swipes cannot both miss the match.
type MatchmakerRepo struct {
	db *sqlx.DB
}

// NewMatchmakerRepo constructs a MatchmakerRepo.
func NewMatchmakerRepo(db *sqlx.DB) *MatchmakerRepo {
	return &MatchmakerRepo{db: db}
}

// SwipeAndEvaluate records a swipe and, when the reverse swipe expresses
// interest too, creates the match for the canonical pair. A concurrent
// attempt to create the same match hits the unique constraint and is
// absorbed as success rather than surfaced as a failure.
func (r *MatchmakerRepo) SwipeAndEvaluate(ctx context.Context, swiperID, swipedID int, action string) (models.SwipeResult, error) {
	if swiperID == swipedID {
		return models.SwipeResult{}, ErrSelfSwipe
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.SwipeResult{}, err
	}
	defer tx.Rollback()

	if action == models.SwipeSuperlike {
		if err := consumeTx(ctx, tx, swiperID, models.ConsumableSuperlike); err != nil {
			return models.SwipeResult{}, err
		}
	}

	var swipe models.Swipe
	if err := tx.QueryRowxContext(ctx, insertSwipeQuery, swiperID, swipedID, action).StructScan(&swipe); err != nil {
		if isUniqueViolation(err) {
			return models.SwipeResult{}, ErrDuplicateSwipe
		}
		return models.SwipeResult{}, err
	}

	result := models.SwipeResult{Swipe: swipe}

	if models.InterestAction(action) {
		reciprocal, err := reverseInterestExists(ctx, tx, swipedID, swiperID)
		if err != nil {
			return models.SwipeResult{}, err
		}
		if reciprocal {
			match, err := createMatchTx(ctx, tx, swiperID, swipedID)
			if err != nil {
				return models.SwipeResult{}, err
			}
			result.Match = &match
			result.IsMatch = true
		}
	}

	if err := tx.Commit(); err != nil {
		return models.SwipeResult{}, err
	}
	return result, nil
}

func consumeTx(ctx context.Context, tx *sqlx.Tx, userID int, kind string) error {
	col := balanceColumn(kind)
	res, err := tx.ExecContext(ctx,
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

func reverseInterestExists(ctx context.Context, tx *sqlx.Tx, swiperID, swipedID int) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM swipes WHERE swiper_id=$1 AND swiped_id=$2 AND action IN ('like', 'superlike'))`,
		swiperID, swipedID)
	return exists, err
}

func createMatchTx(ctx context.Context, tx *sqlx.Tx, a, b int) (models.Match, error) {
	low, high := models.CanonicalPair(a, b)

	var match models.Match
	err := tx.QueryRowxContext(ctx,
		`INSERT INTO matches (user_low_id, user_high_id) VALUES ($1, $2)
         ON CONFLICT (user_low_id, user_high_id) DO NOTHING
         RETURNING `+selectMatchColumns,
		low, high).StructScan(&match)
	if err == nil {
		return match, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Match{}, err
	}

	// Another transaction won the insert race; its row is the match.
	err = tx.GetContext(ctx, &match,
		`SELECT `+selectMatchColumns+` FROM matches WHERE user_low_id=$1 AND user_high_id=$2`,
		low, high)
	return match, err
}
