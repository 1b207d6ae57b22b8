package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/campuspool/campuspool/internal/database"
	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
	"github.com/jmoiron/sqlx"
)

// TxManager runs a function inside a single database transaction.
// Implemented by database.PostgresDB.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// BookingService is the booking ledger: the sole writer of booking status
// and ride seat counts.
type BookingService interface {
	CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.BookingResponse, error)
	CancelBooking(ctx context.Context, callerID, bookingID string) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookingsForRider(ctx context.Context, riderID string) ([]models.Booking, error)
	ListBookingsForRide(ctx context.Context, rideID string) ([]models.Booking, error)
}

type bookingService struct {
	txm          TxManager
	bookingRepo  repository.BookingRepository
	rideRepo     repository.RideRepository
	userRepo     repository.UserRepository
	pricing      PricingService
	notifier     NotificationService
	maxRetries   int
	retryBackoff time.Duration
}

func NewBookingService(
	txm TxManager,
	bookingRepo repository.BookingRepository,
	rideRepo repository.RideRepository,
	userRepo repository.UserRepository,
	pricing PricingService,
	notifier NotificationService,
	maxRetries int,
	retryBackoff time.Duration,
) BookingService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &bookingService{
		txm:          txm,
		bookingRepo:  bookingRepo,
		rideRepo:     rideRepo,
		userRepo:     userRepo,
		pricing:      pricing,
		notifier:     notifier,
		maxRetries:   maxRetries,
		retryBackoff: retryBackoff,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.BookingResponse, error) {
	if req.Seats < 1 {
		return nil, apperrors.BadRequest("seats must be at least 1")
	}

	rider, err := s.userRepo.GetByID(ctx, req.RiderID)
	if err != nil {
		return nil, err
	}
	if rider == nil {
		return nil, apperrors.NotFound("rider")
	}
	if !rider.Enabled {
		return nil, apperrors.UserDisabled()
	}

	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, apperrors.NotFound("ride")
	}

	// Per-seat price comes from total capacity, not remaining seats.
	perSeat := s.pricing.PerSeatPrice(ride.BasePrice, ride.TotalSeats)
	cost := s.pricing.CostFor(req.Seats, perSeat)

	booking := &models.Booking{
		RideID:  req.RideID,
		RiderID: req.RiderID,
		Seats:   req.Seats,
		Cost:    cost,
	}

	// Reservation and booking insert commit or fail as one unit. Transient
	// errors retry the whole unit; seat-count failures surface immediately.
	err = s.withRetry(ctx, func() error {
		return s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
			if err := s.rideRepo.ReserveSeats(ctx, tx, req.RideID, req.Seats); err != nil {
				return err
			}
			return s.bookingRepo.Create(ctx, tx, booking)
		})
	})
	if err != nil {
		return nil, mapReservationError(err)
	}

	return booking.ToResponse(), nil
}

// CancelBooking is idempotent: cancelling an already-cancelled booking is a
// no-op success, and seats are released exactly once.
func (s *bookingService) CancelBooking(ctx context.Context, callerID, bookingID string) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return apperrors.NotFound("booking")
	}

	ride, err := s.rideRepo.GetByID(ctx, booking.RideID)
	if err != nil {
		return err
	}

	if !canCancel(callerID, booking, ride) {
		return apperrors.Forbidden("only the booking's rider or the ride's driver may cancel")
	}

	if booking.IsCancelled() {
		return nil
	}

	released := false
	err = s.withRetry(ctx, func() error {
		return s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
			current, err := s.bookingRepo.GetByIDForUpdate(ctx, tx, bookingID)
			if err != nil {
				return err
			}
			if current == nil {
				return apperrors.ErrNotFound
			}
			cancelled, err := s.bookingRepo.MarkCancelled(ctx, tx, bookingID, time.Now())
			if err != nil {
				return err
			}
			if !cancelled {
				// lost the race to another cancel; nothing to release
				return nil
			}
			released = true
			return s.rideRepo.ReleaseSeats(ctx, tx, current.RideID, current.Seats)
		})
	})
	if err == apperrors.ErrNotFound {
		return apperrors.NotFound("booking")
	}
	if err != nil {
		return mapReservationError(err)
	}

	if released && ride != nil && s.notifier != nil {
		body := fmt.Sprintf("A booking for %d seat(s) on your ride to %s was cancelled", booking.Seats, ride.Destination)
		if _, err := s.notifier.Notify(ctx, ride.DriverID, models.NotificationTypeBookingCancelled, "Booking cancelled", body); err != nil {
			log.Printf("failed to notify driver of cancellation: %v", err)
		}
	}

	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperrors.NotFound("booking")
	}
	return booking, nil
}

func (s *bookingService) ListBookingsForRider(ctx context.Context, riderID string) ([]models.Booking, error) {
	return s.bookingRepo.ListByRider(ctx, riderID)
}

func (s *bookingService) ListBookingsForRide(ctx context.Context, rideID string) ([]models.Booking, error) {
	return s.bookingRepo.ListByRide(ctx, rideID)
}

// withRetry re-runs fn on transient persistence errors, backing off between
// attempts. fn must be safe to retry as a whole unit.
func (s *bookingService) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.retryBackoff * time.Duration(attempt)):
			}
		}
		err = fn()
		if err == nil || !database.IsRetryable(err) {
			return err
		}
	}
	return err
}

func canCancel(callerID string, booking *models.Booking, ride *models.Ride) bool {
	if callerID == "" {
		return false
	}
	if callerID == booking.RiderID {
		return true
	}
	return ride != nil && callerID == ride.DriverID
}

func mapReservationError(err error) error {
	switch err {
	case apperrors.ErrNotFound:
		return apperrors.NotFound("ride")
	case apperrors.ErrRideNotBookable:
		return apperrors.RideNotBookable()
	case apperrors.ErrInsufficientSeats:
		return apperrors.InsufficientSeats()
	default:
		return err
	}
}
