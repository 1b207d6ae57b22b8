package models

import (
	"time"
)

// Notification kinds emitted by the booking ledger and reminder sweep
const (
	NotificationTypeRideReminder     = "ride_reminder"
	NotificationTypeBookingCancelled = "booking_cancelled"
)

type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Type      string    `db:"type" json:"type"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
