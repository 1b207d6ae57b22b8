package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
	"github.com/campuspool/campuspool/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	userRepo repository.UserRepository
	validate *validator.Validate
}

func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
		validate: validator.New(),
	}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/users", h.CreateUser)
	r.Get("/users/{id}", h.GetUser)
}

// POST /v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	// University id and email must both be unique
	existing, err := h.userRepo.GetByUniversityID(r.Context(), req.UniversityID)
	if err != nil {
		utils.InternalError(w, "failed to check existing user")
		return
	}
	if existing == nil {
		existing, err = h.userRepo.GetByEmail(r.Context(), req.Email)
		if err != nil {
			utils.InternalError(w, "failed to check existing user")
			return
		}
	}
	if existing != nil {
		utils.JSON(w, http.StatusConflict, map[string]string{
			"error":   "conflict",
			"message": "user with this university id or email already exists",
		})
		return
	}

	user := &models.User{
		UniversityID: req.UniversityID,
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         req.Role,
	}

	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := h.userRepo.Create(r.Context(), user); err != nil {
		utils.InternalError(w, "failed to create user")
		return
	}

	utils.Created(w, user.ToResponse())
}

// GET /v1/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "user id is required")
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), id)
	if err != nil {
		utils.InternalError(w, "failed to get user")
		return
	}
	if user == nil {
		utils.NotFound(w, "user")
		return
	}

	utils.Success(w, http.StatusOK, user.ToResponse())
}
