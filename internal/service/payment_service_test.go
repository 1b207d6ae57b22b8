package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/campuspool/campuspool/internal/models"
)

type memPaymentRepo struct {
	store    *memStore
	payments []*models.Payment
}

func (r *memPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	payment.ID = r.store.nextID("payment")
	payment.CreatedAt = time.Now()
	copied := *payment
	r.payments = append(r.payments, &copied)
	return nil
}

func (r *memPaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, payment := range r.payments {
		if payment.ID == id {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memPaymentRepo) ListByPayer(ctx context.Context, payerID string) ([]models.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	payments := []models.Payment{}
	for _, payment := range r.payments {
		if payment.PayerID == payerID {
			payments = append(payments, *payment)
		}
	}
	return payments, nil
}

func (r *memPaymentRepo) ListByBooking(ctx context.Context, bookingID string) ([]models.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	payments := []models.Payment{}
	for _, payment := range r.payments {
		if payment.BookingID == bookingID {
			payments = append(payments, *payment)
		}
	}
	return payments, nil
}

func newPaymentTestEnv(t *testing.T) (*memStore, BookingService, PaymentService) {
	t.Helper()
	store := newMemStore()
	bookingSvc := NewBookingService(
		memTxManager{},
		&memBookingRepo{store: store},
		&memRideRepo{store: store},
		&memUserRepo{store: store},
		NewPricingService(),
		&memNotifier{},
		3,
		time.Millisecond,
	)
	paymentSvc := NewPaymentService(
		&memPaymentRepo{store: store},
		&memBookingRepo{store: store},
		&memUserRepo{store: store},
	)
	return store, bookingSvc, paymentSvc
}

func TestInitiatePaymentUsesStoredBookingCost(t *testing.T) {
	ctx := context.Background()
	store, bookingSvc, paymentSvc := newPaymentTestEnv(t)

	driver := store.addUser(models.UserRoleDriver, true)
	rider := store.addUser(models.UserRoleRider, true)
	ride := store.addRide(driver.ID, 3, mustMoney(t, "60.00"), time.Now().Add(time.Hour))

	booking, err := bookingSvc.CreateBooking(ctx, &models.CreateBookingRequest{
		RideID:  ride.ID,
		RiderID: rider.ID,
		Seats:   2,
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	payment, err := paymentSvc.InitiatePayment(ctx, &models.CreatePaymentRequest{
		BookingID: booking.ID,
		PayerID:   rider.ID,
		Method:    models.PaymentMethodCampusWallet,
	})
	if err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}

	if payment.Amount != booking.Cost {
		t.Errorf("payment amount = %s, want booking cost %s", payment.Amount, booking.Cost)
	}
	if payment.Status != models.PaymentStatusSettled {
		t.Errorf("payment status = %s, want %s", payment.Status, models.PaymentStatusSettled)
	}
	if !strings.HasPrefix(payment.TransactionRef, "SIM-") {
		t.Errorf("transaction ref = %q, want SIM- prefix", payment.TransactionRef)
	}
}

func TestInitiatePaymentRejectsCancelledBooking(t *testing.T) {
	ctx := context.Background()
	store, bookingSvc, paymentSvc := newPaymentTestEnv(t)

	driver := store.addUser(models.UserRoleDriver, true)
	rider := store.addUser(models.UserRoleRider, true)
	ride := store.addRide(driver.ID, 2, mustMoney(t, "20.00"), time.Now().Add(time.Hour))

	booking, err := bookingSvc.CreateBooking(ctx, &models.CreateBookingRequest{
		RideID:  ride.ID,
		RiderID: rider.ID,
		Seats:   1,
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if err := bookingSvc.CancelBooking(ctx, rider.ID, booking.ID); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}

	_, err = paymentSvc.InitiatePayment(ctx, &models.CreatePaymentRequest{
		BookingID: booking.ID,
		PayerID:   rider.ID,
		Method:    models.PaymentMethodCash,
	})
	if err == nil {
		t.Fatal("payment accepted for cancelled booking")
	}
	if code := apiErrorCode(t, err); code != "bad_request" {
		t.Errorf("error code = %s, want bad_request", code)
	}
}

func TestInitiatePaymentUnknownBookingOrPayer(t *testing.T) {
	ctx := context.Background()
	store, bookingSvc, paymentSvc := newPaymentTestEnv(t)

	driver := store.addUser(models.UserRoleDriver, true)
	rider := store.addUser(models.UserRoleRider, true)
	ride := store.addRide(driver.ID, 2, mustMoney(t, "20.00"), time.Now().Add(time.Hour))

	booking, err := bookingSvc.CreateBooking(ctx, &models.CreateBookingRequest{
		RideID:  ride.ID,
		RiderID: rider.ID,
		Seats:   1,
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if _, err := paymentSvc.InitiatePayment(ctx, &models.CreatePaymentRequest{
		BookingID: "nope",
		PayerID:   rider.ID,
		Method:    models.PaymentMethodCash,
	}); err == nil {
		t.Fatal("payment accepted for unknown booking")
	}

	if _, err := paymentSvc.InitiatePayment(ctx, &models.CreatePaymentRequest{
		BookingID: booking.ID,
		PayerID:   "nope",
		Method:    models.PaymentMethodCash,
	}); err == nil {
		t.Fatal("payment accepted for unknown payer")
	}
}
