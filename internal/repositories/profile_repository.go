package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"match-service/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository is the narrow read contract this service holds against
// the profile store. Profile management lives in another service.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID int) (models.Profile, error)
	BulkProfiles(ctx context.Context, ids []int) (map[int]models.Profile, error)
	PotentialMatches(ctx context.Context, userID int, limit int) ([]models.Profile, error)
}

// ProfileRepo is a sqlx implementation of ProfileRepository.
type ProfileRepo struct {
	db *sqlx.DB
}

// NewProfileRepo constructs a ProfileRepo.
func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

const selectProfileColumns = `id, name, age, bio, created_at`

// GetProfile fetches a profile by user id.
func (r *ProfileRepo) GetProfile(ctx context.Context, userID int) (models.Profile, error) {
	var p models.Profile
	err := r.db.GetContext(ctx, &p,
		`SELECT `+selectProfileColumns+` FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	return p, err
}

// BulkProfiles fetches multiple profiles keyed by user id.
func (r *ProfileRepo) BulkProfiles(ctx context.Context, ids []int) (map[int]models.Profile, error) {
	result := make(map[int]models.Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`SELECT `+selectProfileColumns+` FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, err
	}
	for _, p := range profiles {
		result[p.ID] = p
	}
	return result, nil
}

// PotentialMatches returns profiles the user has not swiped on yet.
func (r *ProfileRepo) PotentialMatches(ctx context.Context, userID int, limit int) ([]models.Profile, error) {
	if limit <= 0 {
		limit = 20
	}
	var profiles []models.Profile
	err := r.db.SelectContext(ctx, &profiles,
		`SELECT `+selectProfileColumns+` FROM users u
         WHERE u.id <> $1
           AND NOT EXISTS (SELECT 1 FROM swipes s WHERE s.swiper_id=$1 AND s.swiped_id=u.id)
         ORDER BY u.created_at DESC
         LIMIT $2`, userID, limit)
	return profiles, err
}
