package models

import (
	"time"
)

// RideStatus is the lifecycle state of a posted ride.
type RideStatus string

const (
	RideStatusPosted     RideStatus = "posted"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

// Valid ride state transitions
var ValidRideTransitions = map[RideStatus][]RideStatus{
	RideStatusPosted:     {RideStatusInProgress, RideStatusCancelled},
	RideStatusInProgress: {RideStatusCompleted, RideStatusCancelled},
	RideStatusCompleted:  {},
	RideStatusCancelled:  {},
}

// CanTransitionTo checks if a status change is allowed
func (s RideStatus) CanTransitionTo(next RideStatus) bool {
	for _, allowed := range ValidRideTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Ride struct {
	ID             string     `db:"id" json:"id"`
	DriverID       string     `db:"driver_id" json:"driver_id"`
	Vehicle        string     `db:"vehicle" json:"vehicle"`
	Origin         string     `db:"origin" json:"origin"`
	Destination    string     `db:"destination" json:"destination"`
	DepartureTime  time.Time  `db:"departure_time" json:"departure_time"`
	TotalSeats     int        `db:"total_seats" json:"total_seats"`
	AvailableSeats int        `db:"available_seats" json:"available_seats"`
	BasePrice      Money      `db:"base_price" json:"base_price"`
	PricePerSeat   Money      `db:"price_per_seat" json:"price_per_seat"`
	Status         RideStatus `db:"status" json:"status"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

type CreateRideRequest struct {
	DriverID      string    `json:"driver_id" validate:"required,uuid"`
	Vehicle       string    `json:"vehicle" validate:"required,min=2,max=100"`
	Origin        string    `json:"origin" validate:"required,min=2,max=200"`
	Destination   string    `json:"destination" validate:"required,min=2,max=200"`
	DepartureTime time.Time `json:"departure_time" validate:"required"`
	TotalSeats    int       `json:"total_seats" validate:"required,min=1,max=8"`
	BasePrice     Money     `json:"base_price"`
}

type RideResponse struct {
	ID             string        `json:"id"`
	Status         RideStatus    `json:"status"`
	Driver         *UserResponse `json:"driver,omitempty"`
	Vehicle        string        `json:"vehicle"`
	Origin         string        `json:"origin"`
	Destination    string        `json:"destination"`
	DepartureTime  time.Time     `json:"departure_time"`
	TotalSeats     int           `json:"total_seats"`
	AvailableSeats int           `json:"available_seats"`
	BasePrice      Money         `json:"base_price"`
	PricePerSeat   Money         `json:"price_per_seat"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (r *Ride) ToResponse() *RideResponse {
	return &RideResponse{
		ID:             r.ID,
		Status:         r.Status,
		Vehicle:        r.Vehicle,
		Origin:         r.Origin,
		Destination:    r.Destination,
		DepartureTime:  r.DepartureTime,
		TotalSeats:     r.TotalSeats,
		AvailableSeats: r.AvailableSeats,
		BasePrice:      r.BasePrice,
		PricePerSeat:   r.PricePerSeat,
		CreatedAt:      r.CreatedAt,
	}
}

// IsBookable reports whether new bookings may reserve seats on this ride.
func (r *Ride) IsBookable() bool {
	return r.Status == RideStatusPosted
}
