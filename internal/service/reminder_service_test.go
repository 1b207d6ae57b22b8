package service

import (
	"context"
	"testing"
	"time"

	"github.com/campuspool/campuspool/internal/models"
)

func newReminderTestEnv(t *testing.T) (*memStore, *memNotifier, BookingService, *ReminderService) {
	t.Helper()
	store := newMemStore()
	notifier := &memNotifier{}
	bookingSvc := NewBookingService(
		memTxManager{},
		&memBookingRepo{store: store},
		&memRideRepo{store: store},
		&memUserRepo{store: store},
		NewPricingService(),
		notifier,
		3,
		time.Millisecond,
	)
	reminder := NewReminderService(
		&memRideRepo{store: store},
		&memBookingRepo{store: store},
		notifier,
		newMemReminderCache(),
		time.Minute,
		10*time.Minute,
	)
	return store, notifier, bookingSvc, reminder
}

func countByType(notifications []models.Notification, notificationType string) int {
	n := 0
	for _, notification := range notifications {
		if notification.Type == notificationType {
			n++
		}
	}
	return n
}

func TestReminderSweepNotifiesDriverAndRiders(t *testing.T) {
	ctx := context.Background()
	store, notifier, bookingSvc, reminder := newReminderTestEnv(t)

	driver := store.addUser(models.UserRoleDriver, true)
	alice := store.addUser(models.UserRoleRider, true)
	bob := store.addUser(models.UserRoleRider, true)
	carol := store.addUser(models.UserRoleRider, true)
	ride := store.addRide(driver.ID, 4, 4000, time.Now().Add(5*time.Minute))

	for _, riderID := range []string{alice.ID, bob.ID, carol.ID} {
		if _, err := bookingSvc.CreateBooking(ctx, &models.CreateBookingRequest{
			RideID:  ride.ID,
			RiderID: riderID,
			Seats:   1,
		}); err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
	}

	// Carol cancels; she must not be reminded.
	carolBookings, err := bookingSvc.ListBookingsForRider(ctx, carol.ID)
	if err != nil || len(carolBookings) != 1 {
		t.Fatalf("carol bookings: %v (%d)", err, len(carolBookings))
	}
	if err := bookingSvc.CancelBooking(ctx, carol.ID, carolBookings[0].ID); err != nil {
		t.Fatalf("carol cancels: %v", err)
	}

	if err := reminder.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	for _, userID := range []string{driver.ID, alice.ID, bob.ID} {
		if got := countByType(notifier.sentTo(userID), models.NotificationTypeRideReminder); got != 1 {
			t.Errorf("user %s got %d reminders, want 1", userID, got)
		}
	}
	if got := countByType(notifier.sentTo(carol.ID), models.NotificationTypeRideReminder); got != 0 {
		t.Errorf("cancelled rider got %d reminders, want 0", got)
	}
}

func TestReminderSweepDedupesAcrossRuns(t *testing.T) {
	ctx := context.Background()
	store, notifier, bookingSvc, reminder := newReminderTestEnv(t)

	driver := store.addUser(models.UserRoleDriver, true)
	rider := store.addUser(models.UserRoleRider, true)
	ride := store.addRide(driver.ID, 2, 2000, time.Now().Add(5*time.Minute))

	if _, err := bookingSvc.CreateBooking(ctx, &models.CreateBookingRequest{
		RideID:  ride.ID,
		RiderID: rider.ID,
		Seats:   1,
	}); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := reminder.RunOnce(ctx); err != nil {
			t.Fatalf("RunOnce #%d: %v", i+1, err)
		}
	}

	if got := countByType(notifier.sentTo(driver.ID), models.NotificationTypeRideReminder); got != 1 {
		t.Errorf("driver got %d reminders after 3 sweeps, want 1", got)
	}
	if got := countByType(notifier.sentTo(rider.ID), models.NotificationTypeRideReminder); got != 1 {
		t.Errorf("rider got %d reminders after 3 sweeps, want 1", got)
	}
}

func TestReminderSweepSkipsDistantAndInactiveRides(t *testing.T) {
	ctx := context.Background()
	store, notifier, _, reminder := newReminderTestEnv(t)

	driver := store.addUser(models.UserRoleDriver, true)

	// Departs well outside the reminder window.
	store.addRide(driver.ID, 2, 2000, time.Now().Add(3*time.Hour))

	// Departs soon but already cancelled.
	cancelled := store.addRide(driver.ID, 2, 2000, time.Now().Add(5*time.Minute))
	store.mu.Lock()
	store.rides[cancelled.ID].Status = models.RideStatusCancelled
	store.mu.Unlock()

	if err := reminder.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if got := len(notifier.sentTo(driver.ID)); got != 0 {
		t.Errorf("driver got %d notifications, want 0", got)
	}
}
