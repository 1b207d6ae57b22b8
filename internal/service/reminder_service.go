package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/campuspool/campuspool/internal/cache"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
)

// ReminderService periodically finds posted rides departing soon and
// notifies the driver and every confirmed booker. It reads booking and
// ride data but never touches seat inventory.
type ReminderService struct {
	rideRepo      repository.RideRepository
	bookingRepo   repository.BookingRepository
	notifier      NotificationService
	reminderCache cache.ReminderCache
	interval      time.Duration
	lead          time.Duration
}

func NewReminderService(
	rideRepo repository.RideRepository,
	bookingRepo repository.BookingRepository,
	notifier NotificationService,
	reminderCache cache.ReminderCache,
	interval, lead time.Duration,
) *ReminderService {
	return &ReminderService{
		rideRepo:      rideRepo,
		bookingRepo:   bookingRepo,
		notifier:      notifier,
		reminderCache: reminderCache,
		interval:      interval,
		lead:          lead,
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (s *ReminderService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				log.Printf("reminder sweep failed: %v", err)
			}
		}
	}
}

// RunOnce performs a single reminder sweep.
func (s *ReminderService) RunOnce(ctx context.Context) error {
	now := time.Now()
	rides, err := s.rideRepo.ListUpcoming(ctx, now, now.Add(s.lead))
	if err != nil {
		return err
	}

	reminded := 0
	for i := range rides {
		ride := &rides[i]

		if s.reminderCache != nil {
			first, err := s.reminderCache.MarkReminded(ctx, ride.ID, 2*s.lead)
			if err != nil {
				log.Printf("reminder dedupe check failed for ride %s: %v", ride.ID, err)
			} else if !first {
				continue
			}
		}

		if err := s.remindRide(ctx, ride); err != nil {
			log.Printf("failed to remind ride %s: %v", ride.ID, err)
			continue
		}
		reminded++
	}

	log.Printf("reminder sweep: %d upcoming rides, %d reminded", len(rides), reminded)
	return nil
}

func (s *ReminderService) remindRide(ctx context.Context, ride *models.Ride) error {
	body := fmt.Sprintf("Your ride to %s departs at %s", ride.Destination, ride.DepartureTime.Format("15:04"))

	if _, err := s.notifier.Notify(ctx, ride.DriverID, models.NotificationTypeRideReminder, "Ride starting soon", body); err != nil {
		return err
	}

	bookings, err := s.bookingRepo.ListConfirmedByRide(ctx, ride.ID)
	if err != nil {
		return err
	}
	for _, booking := range bookings {
		if _, err := s.notifier.Notify(ctx, booking.RiderID, models.NotificationTypeRideReminder, "Ride starting soon", body); err != nil {
			log.Printf("failed to remind rider %s: %v", booking.RiderID, err)
		}
	}
	return nil
}
