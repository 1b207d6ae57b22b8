package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource conflict")
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")

	// Business errors
	ErrInsufficientSeats = errors.New("not enough seats available")
	ErrRideNotBookable   = errors.New("ride is not open for booking")
	ErrInvalidScore      = errors.New("score must be between 1 and 5")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrBookingRated      = errors.New("booking already rated")
	ErrUserDisabled      = errors.New("user account is disabled")
)

// APIError represents a structured API error
type APIError struct {
	Code       string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new API error
func NewAPIError(code, message string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Common API errors
func NotFound(resource string) *APIError {
	return NewAPIError("not_found", fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func BadRequest(message string) *APIError {
	return NewAPIError("bad_request", message, http.StatusBadRequest)
}

func Conflict(message string) *APIError {
	return NewAPIError("conflict", message, http.StatusConflict)
}

func InternalError(message string) *APIError {
	return NewAPIError("internal_error", message, http.StatusInternalServerError)
}

func Unauthorized(message string) *APIError {
	return NewAPIError("unauthorized", message, http.StatusUnauthorized)
}

func Forbidden(message string) *APIError {
	return NewAPIError("forbidden", message, http.StatusForbidden)
}

func InsufficientSeats() *APIError {
	return NewAPIError("insufficient_seats", "not enough seats available on this ride", http.StatusConflict)
}

func RideNotBookable() *APIError {
	return NewAPIError("ride_not_bookable", "ride is not open for booking", http.StatusConflict)
}

func InvalidScore() *APIError {
	return NewAPIError("invalid_score", "score must be between 1 and 5", http.StatusBadRequest)
}

func InvalidTransition(from, to string) *APIError {
	return NewAPIError("invalid_transition", fmt.Sprintf("cannot transition from %s to %s", from, to), http.StatusBadRequest)
}

func BookingAlreadyRated() *APIError {
	return NewAPIError("booking_rated", "this booking has already been rated", http.StatusConflict)
}

func UserDisabled() *APIError {
	return NewAPIError("user_disabled", "user account is disabled", http.StatusForbidden)
}
