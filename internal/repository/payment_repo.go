package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/campuspool/campuspool/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	ListByPayer(ctx context.Context, payerID string) ([]models.Payment, error)
	ListByBooking(ctx context.Context, bookingID string) ([]models.Payment, error)
}

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()

	query := `
		INSERT INTO payments (id, booking_id, payer_id, amount, method, status, transaction_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		payment.ID, payment.BookingID, payment.PayerID, payment.Amount,
		payment.Method, payment.Status, payment.TransactionRef,
		payment.CreatedAt, payment.UpdatedAt)
	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	query := `SELECT * FROM payments WHERE id = $1`
	err := r.db.GetContext(ctx, &payment, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) ListByPayer(ctx context.Context, payerID string) ([]models.Payment, error) {
	payments := []models.Payment{}
	query := `SELECT * FROM payments WHERE payer_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &payments, query, payerID)
	return payments, err
}

func (r *paymentRepository) ListByBooking(ctx context.Context, bookingID string) ([]models.Payment, error) {
	payments := []models.Payment{}
	query := `SELECT * FROM payments WHERE booking_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &payments, query, bookingID)
	return payments, err
}
