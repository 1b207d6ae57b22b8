package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/service"
	"github.com/campuspool/campuspool/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	validate       *validator.Validate
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validate:       validator.New(),
	}
}

func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/payments", h.InitiatePayment)
	r.Get("/payments/{id}", h.GetPayment)
	r.Get("/users/{id}/payments", h.ListForUser)
	r.Get("/bookings/{id}/payments", h.ListForBooking)
}

// POST /v1/payments
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	payment, err := h.paymentService.InitiatePayment(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, payment)
}

// GET /v1/payments/{id}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "payment id is required")
		return
	}

	payment, err := h.paymentService.GetPayment(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, payment.ToResponse())
}

// GET /v1/users/{id}/payments
func (h *PaymentHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		utils.BadRequest(w, "user id is required")
		return
	}

	payments, err := h.paymentService.ListPaymentsForUser(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, toPaymentResponses(payments))
}

// GET /v1/bookings/{id}/payments
func (h *PaymentHandler) ListForBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.BadRequest(w, "booking id is required")
		return
	}

	payments, err := h.paymentService.ListPaymentsForBooking(r.Context(), bookingID)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, toPaymentResponses(payments))
}

func toPaymentResponses(payments []models.Payment) []models.PaymentResponse {
	responses := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, *payments[i].ToResponse())
	}
	return responses
}
