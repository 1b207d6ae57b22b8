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

type RatingHandler struct {
	ratingService service.RatingService
	validate      *validator.Validate
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		validate:      validator.New(),
	}
}

func (h *RatingHandler) RegisterRoutes(r chi.Router) {
	r.Post("/ratings", h.CreateRating)
	r.Get("/users/{id}/ratings", h.ListForUser)
}

// POST /v1/ratings
func (h *RatingHandler) CreateRating(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	rating, err := h.ratingService.RecordRating(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, rating)
}

// GET /v1/users/{id}/ratings
func (h *RatingHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		utils.BadRequest(w, "user id is required")
		return
	}

	ratings, err := h.ratingService.ListRatingsForUser(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, ratings)
}
