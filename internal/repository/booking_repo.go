package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/campuspool/campuspool/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*models.Booking, error)
	MarkCancelled(ctx context.Context, tx *sqlx.Tx, id string, at time.Time) (bool, error)
	ListByRider(ctx context.Context, riderID string) ([]models.Booking, error)
	ListByRide(ctx context.Context, rideID string) ([]models.Booking, error)
	ListConfirmedByRide(ctx context.Context, rideID string) ([]models.Booking, error)
}

type bookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, tx *sqlx.Tx, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	booking.CreatedAt = time.Now()
	booking.Status = models.BookingStatusConfirmed

	query := `
		INSERT INTO bookings (id, ride_id, rider_id, seats, status, cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.ExecContext(ctx, query,
		booking.ID, booking.RideID, booking.RiderID, booking.Seats,
		booking.Status, booking.Cost, booking.CreatedAt)
	return err
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT * FROM bookings WHERE id = $1`
	err := r.db.GetContext(ctx, &booking, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &booking, err
}

// GetByIDForUpdate locks the booking row for the duration of the
// cancellation transaction.
func (r *bookingRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT * FROM bookings WHERE id = $1 FOR UPDATE`
	err := tx.GetContext(ctx, &booking, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &booking, err
}

// MarkCancelled flips a non-cancelled booking to cancelled. Returns false
// when the booking was already cancelled, so seats are released at most once.
func (r *bookingRepository) MarkCancelled(ctx context.Context, tx *sqlx.Tx, id string, at time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1, cancelled_at = $2
		WHERE id = $3 AND status <> $1
	`
	res, err := tx.ExecContext(ctx, query, models.BookingStatusCancelled, at, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *bookingRepository) ListByRider(ctx context.Context, riderID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	query := `SELECT * FROM bookings WHERE rider_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &bookings, query, riderID)
	return bookings, err
}

func (r *bookingRepository) ListByRide(ctx context.Context, rideID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	query := `SELECT * FROM bookings WHERE ride_id = $1 ORDER BY created_at ASC`
	err := r.db.SelectContext(ctx, &bookings, query, rideID)
	return bookings, err
}

func (r *bookingRepository) ListConfirmedByRide(ctx context.Context, rideID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	query := `SELECT * FROM bookings WHERE ride_id = $1 AND status = $2 ORDER BY created_at ASC`
	err := r.db.SelectContext(ctx, &bookings, query, rideID, models.BookingStatusConfirmed)
	return bookings, err
}
