package service

import (
	"context"
	"fmt"

	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
	"github.com/google/uuid"
)

// PaymentService records a settled amount against a booking. There is no
// real gateway; settlement is simulated instantly with a SIM- reference.
type PaymentService interface {
	InitiatePayment(ctx context.Context, req *models.CreatePaymentRequest) (*models.PaymentResponse, error)
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	ListPaymentsForUser(ctx context.Context, userID string) ([]models.Payment, error)
	ListPaymentsForBooking(ctx context.Context, bookingID string) ([]models.Payment, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
	}
}

func (s *paymentService) InitiatePayment(ctx context.Context, req *models.CreatePaymentRequest) (*models.PaymentResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperrors.NotFound("booking")
	}
	if booking.IsCancelled() {
		return nil, apperrors.BadRequest("cannot pay for a cancelled booking")
	}

	payer, err := s.userRepo.GetByID(ctx, req.PayerID)
	if err != nil {
		return nil, err
	}
	if payer == nil {
		return nil, apperrors.NotFound("payer")
	}

	// The amount is the booking's stored cost, never recomputed.
	payment := &models.Payment{
		BookingID:      req.BookingID,
		PayerID:        req.PayerID,
		Amount:         booking.Cost,
		Method:         req.Method,
		Status:         models.PaymentStatusSettled,
		TransactionRef: fmt.Sprintf("SIM-%s", uuid.New().String()[:8]),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return payment.ToResponse(), nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperrors.NotFound("payment")
	}
	return payment, nil
}

func (s *paymentService) ListPaymentsForUser(ctx context.Context, userID string) ([]models.Payment, error) {
	return s.paymentRepo.ListByPayer(ctx, userID)
}

func (s *paymentService) ListPaymentsForBooking(ctx context.Context, bookingID string) ([]models.Payment, error) {
	return s.paymentRepo.ListByBooking(ctx, bookingID)
}
