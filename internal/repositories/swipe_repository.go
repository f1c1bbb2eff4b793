package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"match-service/internal/models"
)

var (
	ErrDuplicateSwipe = errors.New("swipe already recorded for this pair")
	ErrSelfSwipe      = errors.New("cannot swipe on yourself")
	ErrSwipeNotFound  = errors.New("swipe not found")
)

// SwipeRepository abstracts the swipe ledger.
type SwipeRepository interface {
	RecordSwipe(ctx context.Context, swiperID, swipedID int, action string) (models.Swipe, error)
	HasSwiped(ctx context.Context, swiperID, swipedID int) (*models.Swipe, error)
	UndoSwipe(ctx context.Context, swiperID, swipedID int) error
	ListSwipedBy(ctx context.Context, userID int, actionFilter string) ([]models.Swipe, error)
	ListSwipersOf(ctx context.Context, userID int, actionFilter string) ([]models.Swipe, error)
	SwipeStats(ctx context.Context, userID int) (models.SwipeStats, error)
}

// SwipeRepo is a sqlx implementation of SwipeRepository.
type SwipeRepo struct {
	db *sqlx.DB
}

// NewSwipeRepo constructs a SwipeRepo.
func NewSwipeRepo(db *sqlx.DB) *SwipeRepo {
	return &SwipeRepo{db: db}
}

const insertSwipeQuery = `INSERT INTO swipes (swiper_id, swiped_id, action) VALUES ($1, $2, $3)
    RETURNING id, swiper_id, swiped_id, action, created_at`

// RecordSwipe inserts a swipe row. The unique constraint on
// (swiper_id, swiped_id) turns a repeat swipe into ErrDuplicateSwipe.
func (r *SwipeRepo) RecordSwipe(ctx context.Context, swiperID, swipedID int, action string) (models.Swipe, error) {
	if swiperID == swipedID {
		return models.Swipe{}, ErrSelfSwipe
	}
	var swipe models.Swipe
	err := r.db.QueryRowxContext(ctx, insertSwipeQuery, swiperID, swipedID, action).StructScan(&swipe)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Swipe{}, ErrDuplicateSwipe
		}
		return models.Swipe{}, err
	}
	return swipe, nil
}

// HasSwiped returns the swipe row for the ordered pair, or nil when none exists.
func (r *SwipeRepo) HasSwiped(ctx context.Context, swiperID, swipedID int) (*models.Swipe, error) {
	var swipe models.Swipe
	err := r.db.GetContext(ctx, &swipe,
		`SELECT id, swiper_id, swiped_id, action, created_at FROM swipes WHERE swiper_id=$1 AND swiped_id=$2`,
		swiperID, swipedID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &swipe, nil
}

// UndoSwipe deletes the swipe row for the ordered pair. An already-created
// match is left untouched.
func (r *SwipeRepo) UndoSwipe(ctx context.Context, swiperID, swipedID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM swipes WHERE swiper_id=$1 AND swiped_id=$2`, swiperID, swipedID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrSwipeNotFound
	}
	return nil
}

// ListSwipedBy returns the swipes a user has made, optionally filtered by action.
func (r *SwipeRepo) ListSwipedBy(ctx context.Context, userID int, actionFilter string) ([]models.Swipe, error) {
	return r.listSwipes(ctx, "swiper_id", userID, actionFilter)
}

// ListSwipersOf returns the swipes targeting a user, optionally filtered by action.
func (r *SwipeRepo) ListSwipersOf(ctx context.Context, userID int, actionFilter string) ([]models.Swipe, error) {
	return r.listSwipes(ctx, "swiped_id", userID, actionFilter)
}

func (r *SwipeRepo) listSwipes(ctx context.Context, column string, userID int, actionFilter string) ([]models.Swipe, error) {
	query := `SELECT id, swiper_id, swiped_id, action, created_at FROM swipes WHERE ` + column + `=$1`
	args := []any{userID}
	if actionFilter != "" {
		query += ` AND action=$2`
		args = append(args, actionFilter)
	}
	query += ` ORDER BY created_at DESC`

	var swipes []models.Swipe
	err := r.db.SelectContext(ctx, &swipes, query, args...)
	return swipes, err
}

// SwipeStats aggregates the user's swipe activity and match count.
func (r *SwipeRepo) SwipeStats(ctx context.Context, userID int) (models.SwipeStats, error) {
	query := `SELECT
        (SELECT COUNT(*) FROM swipes WHERE swiper_id=$1 AND action IN ('like', 'superlike')) AS likes_given,
        (SELECT COUNT(*) FROM swipes WHERE swiped_id=$1 AND action IN ('like', 'superlike')) AS likes_received,
        (SELECT COUNT(*) FROM swipes WHERE swiper_id=$1 AND action='pass') AS passes,
        (SELECT COUNT(*) FROM swipes WHERE swiper_id=$1 AND action='superlike') AS superlikes_used,
        (SELECT COUNT(*) FROM matches WHERE user_low_id=$1 OR user_high_id=$1) AS matches`
	var stats models.SwipeStats
	err := r.db.GetContext(ctx, &stats, query, userID)
	return stats, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
