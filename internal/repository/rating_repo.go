package repository

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type RatingRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, rating *models.Rating) error
	RecomputeUserAverage(ctx context.Context, tx *sqlx.Tx, userID string, role models.RatingRole) (float64, int, error)
	ListByToUser(ctx context.Context, toUserID string) ([]models.Rating, error)
}

type ratingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, tx *sqlx.Tx, rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	rating.CreatedAt = time.Now()

	query := `
		INSERT INTO ratings (id, from_user_id, to_user_id, booking_id, rated_role, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		rating.ID, rating.FromUserID, rating.ToUserID, rating.BookingID,
		rating.RatedRole, rating.Score, rating.Comment, rating.CreatedAt)
	if isUniqueViolation(err) {
		// bookings carry at most one rating (unique index on booking_id)
		return apperrors.ErrBookingRated
	}
	return err
}

// RecomputeUserAverage refreshes the target user's per-role average and
// count in a single statement, so concurrent ratings for the same user
// cannot lose updates.
func (r *ratingRepository) RecomputeUserAverage(ctx context.Context, tx *sqlx.Tx, userID string, role models.RatingRole) (float64, int, error) {
	avgColumn := "avg_rating_as_driver"
	countColumn := "rating_count_as_driver"
	if role == models.RatingRoleRider {
		avgColumn = "avg_rating_as_rider"
		countColumn = "rating_count_as_rider"
	}

	query := `
		UPDATE users
		SET ` + avgColumn + ` = agg.avg, ` + countColumn + ` = agg.count, updated_at = $3
		FROM (
			SELECT COALESCE(AVG(score), 0) AS avg, COUNT(*) AS count
			FROM ratings WHERE to_user_id = $1 AND rated_role = $2
		) AS agg
		WHERE users.id = $1
		RETURNING agg.avg, agg.count
	`
	var result struct {
		Avg   float64 `db:"avg"`
		Count int     `db:"count"`
	}
	err := tx.GetContext(ctx, &result, query, userID, role, time.Now())
	if err != nil {
		return 0, 0, err
	}
	return result.Avg, result.Count, nil
}

func (r *ratingRepository) ListByToUser(ctx context.Context, toUserID string) ([]models.Rating, error) {
	ratings := []models.Rating{}
	query := `SELECT * FROM ratings WHERE to_user_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &ratings, query, toUserID)
	return ratings, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
