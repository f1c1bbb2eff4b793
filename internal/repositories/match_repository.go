package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"match-service/internal/models"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrNotParticipant = errors.New("user is not a participant of the match")
	ErrMatchInactive  = errors.New("match is no longer active")
)

// MatchRepository abstracts match persistence.
type MatchRepository interface {
	GetMatch(ctx context.Context, matchID int) (models.Match, error)
	GetMatchForPair(ctx context.Context, a, b int) (*models.Match, error)
	ListMatchesForUser(ctx context.Context, userID int) ([]models.Match, error)
	Unmatch(ctx context.Context, matchID, requestingUserID int) error
}

// MatchRepo is a sqlx implementation of MatchRepository.
type MatchRepo struct {
	db *sqlx.DB
}

// NewMatchRepo constructs a MatchRepo.
func NewMatchRepo(db *sqlx.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

const selectMatchColumns = `id, user_low_id, user_high_id, status, created_at, unmatched_at`

// GetMatch fetches a match by id.
func (r *MatchRepo) GetMatch(ctx context.Context, matchID int) (models.Match, error) {
	var match models.Match
	err := r.db.GetContext(ctx, &match,
		`SELECT `+selectMatchColumns+` FROM matches WHERE id=$1`, matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Match{}, ErrMatchNotFound
	}
	return match, err
}

// GetMatchForPair fetches the match for an unordered user pair, or nil.
func (r *MatchRepo) GetMatchForPair(ctx context.Context, a, b int) (*models.Match, error) {
	low, high := models.CanonicalPair(a, b)
	var match models.Match
	err := r.db.GetContext(ctx, &match,
		`SELECT `+selectMatchColumns+` FROM matches WHERE user_low_id=$1 AND user_high_id=$2`, low, high)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ListMatchesForUser returns the user's active matches, newest first.
func (r *MatchRepo) ListMatchesForUser(ctx context.Context, userID int) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.SelectContext(ctx, &matches,
		`SELECT `+selectMatchColumns+` FROM matches
         WHERE (user_low_id=$1 OR user_high_id=$1) AND status='active'
         ORDER BY created_at DESC`, userID)
	return matches, err
}

// Unmatch moves an active match to the terminal unmatched state. Only a
// participant may unmatch; an already-unmatched match stays unmatched.
func (r *MatchRepo) Unmatch(ctx context.Context, matchID, requestingUserID int) error {
	match, err := r.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if !match.HasParticipant(requestingUserID) {
		return ErrNotParticipant
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE matches SET status='unmatched', unmatched_at=NOW() WHERE id=$1 AND status='active'`,
		matchID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMatchInactive
	}
	return nil
}
