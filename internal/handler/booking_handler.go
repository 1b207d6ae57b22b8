package handler

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/service"
	"github.com/campuspool/campuspool/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// CallerHeader carries the acting user's id. Authentication is handled
// upstream; the core only needs an explicit caller identity.
const CallerHeader = "X-User-ID"

type BookingHandler struct {
	bookingService service.BookingService
	validate       *validator.Validate
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		validate:       validator.New(),
	}
}

func (h *BookingHandler) RegisterRoutes(r chi.Router) {
	r.Post("/bookings", h.CreateBooking)
	r.Get("/bookings/{id}", h.GetBooking)
	r.Post("/bookings/{id}/cancel", h.CancelBooking)
	r.Get("/riders/{id}/bookings", h.ListForRider)
}

// POST /v1/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	booking, err := h.bookingService.CreateBooking(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, booking)
}

// GET /v1/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "booking id is required")
		return
	}

	booking, err := h.bookingService.GetBooking(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, booking.ToResponse())
}

// POST /v1/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "booking id is required")
		return
	}

	caller := r.Header.Get(CallerHeader)
	if caller == "" {
		utils.Unauthorized(w, "caller identity required")
		return
	}

	if err := h.bookingService.CancelBooking(r.Context(), caller, id); err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{
		"status":  "cancelled",
		"message": "booking cancelled",
	})
}

// GET /v1/riders/{id}/bookings
func (h *BookingHandler) ListForRider(w http.ResponseWriter, r *http.Request) {
	riderID := chi.URLParam(r, "id")
	if riderID == "" {
		utils.BadRequest(w, "rider id is required")
		return
	}

	bookings, err := h.bookingService.ListBookingsForRider(r.Context(), riderID)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, toBookingResponses(bookings))
}

func toBookingResponses(bookings []models.Booking) []models.BookingResponse {
	responses := make([]models.BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, *bookings[i].ToResponse())
	}
	return responses
}

func handleError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*apperrors.APIError); ok {
		utils.Error(w, apiErr)
		return
	}

	// Check for specific errors
	switch err {
	case apperrors.ErrInsufficientSeats:
		utils.Error(w, apperrors.InsufficientSeats())
	case apperrors.ErrRideNotBookable:
		utils.Error(w, apperrors.RideNotBookable())
	case apperrors.ErrInvalidScore:
		utils.Error(w, apperrors.InvalidScore())
	case apperrors.ErrBookingRated:
		utils.Error(w, apperrors.BookingAlreadyRated())
	case apperrors.ErrNotFound:
		utils.Error(w, apperrors.NotFound("resource"))
	default:
		utils.InternalError(w, "internal server error")
	}
}
