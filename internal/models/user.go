package models

import (
	"time"
)

// User roles
const (
	UserRoleDriver = "driver"
	UserRoleRider  = "rider"
	UserRoleBoth   = "both"
)

type User struct {
	ID                  string    `db:"id" json:"id"`
	UniversityID        string    `db:"university_id" json:"university_id"`
	Email               string    `db:"email" json:"email"`
	FullName            string    `db:"full_name" json:"full_name"`
	Phone               *string   `db:"phone" json:"phone,omitempty"`
	Role                string    `db:"role" json:"role"`
	Enabled             bool      `db:"enabled" json:"enabled"`
	AvgRatingAsDriver   float64   `db:"avg_rating_as_driver" json:"avg_rating_as_driver"`
	RatingCountAsDriver int       `db:"rating_count_as_driver" json:"rating_count_as_driver"`
	AvgRatingAsRider    float64   `db:"avg_rating_as_rider" json:"avg_rating_as_rider"`
	RatingCountAsRider  int       `db:"rating_count_as_rider" json:"rating_count_as_rider"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

type CreateUserRequest struct {
	UniversityID string `json:"university_id" validate:"required,min=3,max=20"`
	Email        string `json:"email" validate:"required,email"`
	FullName     string `json:"full_name" validate:"required,min=2,max=100"`
	Phone        string `json:"phone,omitempty" validate:"omitempty,min=8,max=15"`
	Role         string `json:"role" validate:"required,oneof=driver rider both"`
}

type UserResponse struct {
	ID                  string  `json:"id"`
	UniversityID        string  `json:"university_id"`
	Email               string  `json:"email"`
	FullName            string  `json:"full_name"`
	Phone               *string `json:"phone,omitempty"`
	Role                string  `json:"role"`
	AvgRatingAsDriver   float64 `json:"avg_rating_as_driver"`
	RatingCountAsDriver int     `json:"rating_count_as_driver"`
	AvgRatingAsRider    float64 `json:"avg_rating_as_rider"`
	RatingCountAsRider  int     `json:"rating_count_as_rider"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:                  u.ID,
		UniversityID:        u.UniversityID,
		Email:               u.Email,
		FullName:            u.FullName,
		Phone:               u.Phone,
		Role:                u.Role,
		AvgRatingAsDriver:   u.AvgRatingAsDriver,
		RatingCountAsDriver: u.RatingCountAsDriver,
		AvgRatingAsRider:    u.AvgRatingAsRider,
		RatingCountAsRider:  u.RatingCountAsRider,
	}
}

// CanDrive reports whether the user may post rides.
func (u *User) CanDrive() bool {
	return u.Role == UserRoleDriver || u.Role == UserRoleBoth
}
