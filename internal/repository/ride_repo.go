package repository

import (
	"context"
	"database/sql"
	"time"

	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type RideRepository interface {
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id string) (*models.Ride, error)
	ListUpcoming(ctx context.Context, from, until time.Time) ([]models.Ride, error)
	ListByDriver(ctx context.Context, driverID string) ([]models.Ride, error)
	UpdateStatus(ctx context.Context, id string, status models.RideStatus) error
	ReserveSeats(ctx context.Context, tx *sqlx.Tx, rideID string, seats int) error
	ReleaseSeats(ctx context.Context, tx *sqlx.Tx, rideID string, seats int) error
}

type rideRepository struct {
	db *sqlx.DB
}

func NewRideRepository(db *sqlx.DB) RideRepository {
	return &rideRepository{db: db}
}

func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	if ride.ID == "" {
		ride.ID = uuid.New().String()
	}
	ride.CreatedAt = time.Now()
	ride.UpdatedAt = time.Now()
	ride.Status = models.RideStatusPosted
	ride.AvailableSeats = ride.TotalSeats

	query := `
		INSERT INTO rides (id, driver_id, vehicle, origin, destination, departure_time,
			total_seats, available_seats, base_price, price_per_seat, status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		ride.ID, ride.DriverID, ride.Vehicle, ride.Origin, ride.Destination, ride.DepartureTime,
		ride.TotalSeats, ride.AvailableSeats, ride.BasePrice, ride.PricePerSeat, ride.Status,
		ride.CreatedAt, ride.UpdatedAt)
	return err
}

func (r *rideRepository) GetByID(ctx context.Context, id string) (*models.Ride, error) {
	var ride models.Ride
	query := `SELECT * FROM rides WHERE id = $1`
	err := r.db.GetContext(ctx, &ride, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &ride, err
}

func (r *rideRepository) ListUpcoming(ctx context.Context, from, until time.Time) ([]models.Ride, error) {
	rides := []models.Ride{}
	query := `
		SELECT * FROM rides
		WHERE status = $1 AND departure_time > $2 AND departure_time <= $3
		ORDER BY departure_time ASC
	`
	err := r.db.SelectContext(ctx, &rides, query, models.RideStatusPosted, from, until)
	return rides, err
}

func (r *rideRepository) ListByDriver(ctx context.Context, driverID string) ([]models.Ride, error) {
	rides := []models.Ride{}
	query := `SELECT * FROM rides WHERE driver_id = $1 ORDER BY departure_time DESC`
	err := r.db.SelectContext(ctx, &rides, query, driverID)
	return rides, err
}

func (r *rideRepository) UpdateStatus(ctx context.Context, id string, status models.RideStatus) error {
	query := `UPDATE rides SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

// ReserveSeats atomically decrements available seats. The conditional UPDATE
// is the only seat decrement in the system; its affected-row count decides
// success, so two racing reservations can never oversell a ride.
func (r *rideRepository) ReserveSeats(ctx context.Context, tx *sqlx.Tx, rideID string, seats int) error {
	query := `
		UPDATE rides
		SET available_seats = available_seats - $1, updated_at = $2
		WHERE id = $3 AND status = $4 AND available_seats >= $1
	`
	res, err := tx.ExecContext(ctx, query, seats, time.Now(), rideID, models.RideStatusPosted)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Zero rows: classify why the reservation failed.
	var ride struct {
		Status         models.RideStatus `db:"status"`
		AvailableSeats int               `db:"available_seats"`
	}
	err = tx.GetContext(ctx, &ride, `SELECT status, available_seats FROM rides WHERE id = $1`, rideID)
	if err == sql.ErrNoRows {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return err
	}
	if ride.Status != models.RideStatusPosted {
		return apperrors.ErrRideNotBookable
	}
	return apperrors.ErrInsufficientSeats
}

// ReleaseSeats returns seats to inventory, capped at total capacity so a
// duplicate release can never push available above total.
func (r *rideRepository) ReleaseSeats(ctx context.Context, tx *sqlx.Tx, rideID string, seats int) error {
	query := `
		UPDATE rides
		SET available_seats = LEAST(total_seats, available_seats + $1), updated_at = $2
		WHERE id = $3
	`
	res, err := tx.ExecContext(ctx, query, seats, time.Now(), rideID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
