package models

import (
	"time"
)

// Payment status constants
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusSettled   = "settled"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment methods
const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCampusWallet = "campus_wallet"
)

type Payment struct {
	ID             string    `db:"id" json:"id"`
	BookingID      string    `db:"booking_id" json:"booking_id"`
	PayerID        string    `db:"payer_id" json:"payer_id"`
	Amount         Money     `db:"amount" json:"amount"`
	Method         string    `db:"method" json:"method"`
	Status         string    `db:"status" json:"status"`
	TransactionRef string    `db:"transaction_ref" json:"transaction_ref"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type CreatePaymentRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	PayerID   string `json:"payer_id" validate:"required,uuid"`
	Method    string `json:"method" validate:"required,oneof=cash bank_transfer campus_wallet"`
}

type PaymentResponse struct {
	ID             string `json:"id"`
	BookingID      string `json:"booking_id"`
	PayerID        string `json:"payer_id"`
	Amount         Money  `json:"amount"`
	Method         string `json:"method"`
	Status         string `json:"status"`
	TransactionRef string `json:"transaction_ref"`
}

func (p *Payment) ToResponse() *PaymentResponse {
	return &PaymentResponse{
		ID:             p.ID,
		BookingID:      p.BookingID,
		PayerID:        p.PayerID,
		Amount:         p.Amount,
		Method:         p.Method,
		Status:         p.Status,
		TransactionRef: p.TransactionRef,
	}
}
