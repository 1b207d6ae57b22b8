package service

import (
	"context"
	"fmt"
	"log"
	"time"

	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
)

type RideService interface {
	CreateRide(ctx context.Context, req *models.CreateRideRequest) (*models.RideResponse, error)
	GetRide(ctx context.Context, id string) (*models.RideResponse, error)
	ListUpcomingRides(ctx context.Context) ([]models.RideResponse, error)
	ListRidesForDriver(ctx context.Context, driverID string) ([]models.RideResponse, error)
	StartRide(ctx context.Context, callerID, rideID string) error
	CompleteRide(ctx context.Context, callerID, rideID string) error
	CancelRide(ctx context.Context, callerID, rideID string) error
}

type rideService struct {
	rideRepo    repository.RideRepository
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	pricing     PricingService
	notifier    NotificationService
}

func NewRideService(
	rideRepo repository.RideRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	pricing PricingService,
	notifier NotificationService,
) RideService {
	return &rideService{
		rideRepo:    rideRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		pricing:     pricing,
		notifier:    notifier,
	}
}

func (s *rideService) CreateRide(ctx context.Context, req *models.CreateRideRequest) (*models.RideResponse, error) {
	if req.TotalSeats < 1 {
		return nil, apperrors.BadRequest("total_seats must be at least 1")
	}
	if req.BasePrice < 0 {
		return nil, apperrors.BadRequest("base_price must not be negative")
	}
	if req.DepartureTime.Before(time.Now()) {
		return nil, apperrors.BadRequest("departure_time must be in the future")
	}

	driver, err := s.userRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, apperrors.NotFound("driver")
	}
	if !driver.Enabled {
		return nil, apperrors.UserDisabled()
	}
	if !driver.CanDrive() {
		return nil, apperrors.Forbidden("user is not registered as a driver")
	}

	ride := &models.Ride{
		DriverID:      req.DriverID,
		Vehicle:       req.Vehicle,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		TotalSeats:    req.TotalSeats,
		BasePrice:     req.BasePrice,
		PricePerSeat:  s.pricing.PerSeatPrice(req.BasePrice, req.TotalSeats),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	resp := ride.ToResponse()
	resp.Driver = driver.ToResponse()
	return resp, nil
}

func (s *rideService) GetRide(ctx context.Context, id string) (*models.RideResponse, error) {
	ride, err := s.rideRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, apperrors.NotFound("ride")
	}

	resp := ride.ToResponse()
	if driver, err := s.userRepo.GetByID(ctx, ride.DriverID); err == nil && driver != nil {
		resp.Driver = driver.ToResponse()
	}
	return resp, nil
}

func (s *rideService) ListUpcomingRides(ctx context.Context) ([]models.RideResponse, error) {
	now := time.Now()
	rides, err := s.rideRepo.ListUpcoming(ctx, now, now.AddDate(0, 0, 14))
	if err != nil {
		return nil, err
	}
	return toRideResponses(rides), nil
}

func (s *rideService) ListRidesForDriver(ctx context.Context, driverID string) ([]models.RideResponse, error) {
	rides, err := s.rideRepo.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	return toRideResponses(rides), nil
}

func (s *rideService) StartRide(ctx context.Context, callerID, rideID string) error {
	return s.transition(ctx, callerID, rideID, models.RideStatusInProgress)
}

func (s *rideService) CompleteRide(ctx context.Context, callerID, rideID string) error {
	return s.transition(ctx, callerID, rideID, models.RideStatusCompleted)
}

// CancelRide closes the ride to bookings and tells confirmed riders.
func (s *rideService) CancelRide(ctx context.Context, callerID, rideID string) error {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return err
	}
	if ride == nil {
		return apperrors.NotFound("ride")
	}

	if err := s.transition(ctx, callerID, rideID, models.RideStatusCancelled); err != nil {
		return err
	}

	if s.notifier == nil {
		return nil
	}
	bookings, err := s.bookingRepo.ListConfirmedByRide(ctx, rideID)
	if err != nil {
		log.Printf("failed to list bookings for cancelled ride %s: %v", rideID, err)
		return nil
	}
	body := fmt.Sprintf("The ride to %s on %s was cancelled by the driver",
		ride.Destination, ride.DepartureTime.Format("Jan 2 15:04"))
	for _, b := range bookings {
		if _, err := s.notifier.Notify(ctx, b.RiderID, models.NotificationTypeBookingCancelled, "Ride cancelled", body); err != nil {
			log.Printf("failed to notify rider %s: %v", b.RiderID, err)
		}
	}
	return nil
}

func (s *rideService) transition(ctx context.Context, callerID, rideID string, next models.RideStatus) error {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return err
	}
	if ride == nil {
		return apperrors.NotFound("ride")
	}
	if callerID != ride.DriverID {
		return apperrors.Forbidden("only the ride's driver may change its status")
	}
	if !ride.Status.CanTransitionTo(next) {
		return apperrors.InvalidTransition(string(ride.Status), string(next))
	}
	return s.rideRepo.UpdateStatus(ctx, rideID, next)
}

func toRideResponses(rides []models.Ride) []models.RideResponse {
	responses := make([]models.RideResponse, 0, len(rides))
	for i := range rides {
		responses = append(responses, *rides[i].ToResponse())
	}
	return responses
}
