package models

import (
	"time"
)

// RatingRole says which side of the ride the rated user played. The rated
// user's per-role average is the only one the rating touches; callers must
// state the role explicitly rather than the service guessing it.
type RatingRole string

const (
	RatingRoleDriver RatingRole = "driver"
	RatingRoleRider  RatingRole = "rider"
)

type Rating struct {
	ID         string     `db:"id" json:"id"`
	FromUserID string     `db:"from_user_id" json:"from_user_id"`
	ToUserID   string     `db:"to_user_id" json:"to_user_id"`
	BookingID  string     `db:"booking_id" json:"booking_id"`
	RatedRole  RatingRole `db:"rated_role" json:"rated_role"`
	Score      int        `db:"score" json:"score"`
	Comment    *string    `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

type CreateRatingRequest struct {
	FromUserID string `json:"from_user_id" validate:"required,uuid"`
	ToUserID   string `json:"to_user_id" validate:"required,uuid"`
	BookingID  string `json:"booking_id" validate:"required,uuid"`
	RatedRole  string `json:"rated_role" validate:"required,oneof=driver rider"`
	Score      int    `json:"score" validate:"required"`
	Comment    string `json:"comment,omitempty" validate:"omitempty,max=500"`
}

// RatingResponse carries the stored rating plus the target user's
// recomputed average for the rated role.
type RatingResponse struct {
	Rating      *Rating `json:"rating"`
	AvgRating   float64 `json:"avg_rating"`
	RatingCount int     `json:"rating_count"`
}
