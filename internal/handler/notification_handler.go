package handler

import (
	"net/http"

	"github.com/campuspool/campuspool/internal/service"
	"github.com/campuspool/campuspool/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users/{id}/notifications", h.ListForUser)
	r.Post("/notifications/{id}/read", h.MarkRead)
	r.Post("/users/{id}/notifications/read-all", h.MarkAllRead)
}

// GET /v1/users/{id}/notifications
func (h *NotificationHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		utils.BadRequest(w, "user id is required")
		return
	}

	notifications, err := h.notificationService.ListForUser(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, notifications)
}

// POST /v1/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "notification id is required")
		return
	}

	caller := r.Header.Get(CallerHeader)
	if caller == "" {
		utils.Unauthorized(w, "caller identity required")
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), caller, id); err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{"status": "read"})
}

// POST /v1/users/{id}/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		utils.BadRequest(w, "user id is required")
		return
	}

	caller := r.Header.Get(CallerHeader)
	if caller != userID {
		utils.Unauthorized(w, "caller identity required")
		return
	}

	if err := h.notificationService.MarkAllRead(r.Context(), userID); err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{"status": "read"})
}
