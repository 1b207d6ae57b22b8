package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/service"
	"github.com/campuspool/campuspool/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type RideHandler struct {
	rideService    service.RideService
	bookingService service.BookingService
	validate       *validator.Validate
}

func NewRideHandler(rideService service.RideService, bookingService service.BookingService) *RideHandler {
	return &RideHandler{
		rideService:    rideService,
		bookingService: bookingService,
		validate:       validator.New(),
	}
}

func (h *RideHandler) RegisterRoutes(r chi.Router) {
	r.Post("/rides", h.CreateRide)
	r.Get("/rides", h.ListRides)
	r.Get("/rides/{id}", h.GetRide)
	r.Post("/rides/{id}/start", h.StartRide)
	r.Post("/rides/{id}/complete", h.CompleteRide)
	r.Post("/rides/{id}/cancel", h.CancelRide)
	r.Get("/rides/{id}/bookings", h.ListBookings)
	r.Get("/drivers/{id}/rides", h.ListForDriver)
}

// POST /v1/rides
func (h *RideHandler) CreateRide(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ride, err := h.rideService.CreateRide(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, ride)
}

// GET /v1/rides
func (h *RideHandler) ListRides(w http.ResponseWriter, r *http.Request) {
	rides, err := h.rideService.ListUpcomingRides(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, rides)
}

// GET /v1/rides/{id}
func (h *RideHandler) GetRide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "ride id is required")
		return
	}

	ride, err := h.rideService.GetRide(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, ride)
}

// POST /v1/rides/{id}/start
func (h *RideHandler) StartRide(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rideService.StartRide, "started")
}

// POST /v1/rides/{id}/complete
func (h *RideHandler) CompleteRide(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rideService.CompleteRide, "completed")
}

// POST /v1/rides/{id}/cancel
func (h *RideHandler) CancelRide(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rideService.CancelRide, "cancelled")
}

// GET /v1/rides/{id}/bookings
func (h *RideHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	rideID := chi.URLParam(r, "id")
	if rideID == "" {
		utils.BadRequest(w, "ride id is required")
		return
	}

	bookings, err := h.bookingService.ListBookingsForRide(r.Context(), rideID)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, toBookingResponses(bookings))
}

// GET /v1/drivers/{id}/rides
func (h *RideHandler) ListForDriver(w http.ResponseWriter, r *http.Request) {
	driverID := chi.URLParam(r, "id")
	if driverID == "" {
		utils.BadRequest(w, "driver id is required")
		return
	}

	rides, err := h.rideService.ListRidesForDriver(r.Context(), driverID)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, rides)
}

func (h *RideHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, callerID, rideID string) error, verb string) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "ride id is required")
		return
	}

	caller := r.Header.Get(CallerHeader)
	if caller == "" {
		utils.Unauthorized(w, "caller identity required")
		return
	}

	if err := fn(r.Context(), caller, id); err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{"status": verb})
}
