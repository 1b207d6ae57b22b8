package models

import (
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid booking state transitions. Bookings are created confirmed;
// cancellation is terminal and happens at most once.
var ValidBookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCancelled},
	BookingStatusCancelled: {},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range ValidBookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Booking struct {
	ID          string        `db:"id" json:"id"`
	RideID      string        `db:"ride_id" json:"ride_id"`
	RiderID     string        `db:"rider_id" json:"rider_id"`
	Seats       int           `db:"seats" json:"seats"`
	Status      BookingStatus `db:"status" json:"status"`
	Cost        Money         `db:"cost" json:"cost"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	CancelledAt *time.Time    `db:"cancelled_at" json:"cancelled_at,omitempty"`
}

type CreateBookingRequest struct {
	RideID  string `json:"ride_id" validate:"required,uuid"`
	RiderID string `json:"rider_id" validate:"required,uuid"`
	Seats   int    `json:"seats" validate:"required,min=1"`
}

type BookingResponse struct {
	ID          string        `json:"id"`
	RideID      string        `json:"ride_id"`
	RiderID     string        `json:"rider_id"`
	Seats       int           `json:"seats"`
	Status      BookingStatus `json:"status"`
	Cost        Money         `json:"cost"`
	CreatedAt   time.Time     `json:"created_at"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`
}

func (b *Booking) ToResponse() *BookingResponse {
	return &BookingResponse{
		ID:          b.ID,
		RideID:      b.RideID,
		RiderID:     b.RiderID,
		Seats:       b.Seats,
		Status:      b.Status,
		Cost:        b.Cost,
		CreatedAt:   b.CreatedAt,
		CancelledAt: b.CancelledAt,
	}
}

// IsCancelled reports whether the booking has been cancelled.
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}
