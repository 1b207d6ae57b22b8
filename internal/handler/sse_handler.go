package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/campuspool/campuspool/internal/database"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

// SSEHandler streams a user's notifications as they are created. New
// notifications arrive via Redis pub/sub from the notification service.
type SSEHandler struct {
	userRepo repository.UserRepository
	redis    *redis.Client
	clients  map[string]map[chan []byte]bool // userID -> clients
	mu       sync.RWMutex
}

func NewSSEHandler(userRepo repository.UserRepository, redisClient *redis.Client) *SSEHandler {
	handler := &SSEHandler{
		userRepo: userRepo,
		redis:    redisClient,
		clients:  make(map[string]map[chan []byte]bool),
	}

	// Start Redis pub/sub listener
	go handler.startPubSubListener()

	return handler
}

func (h *SSEHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users/{id}/notifications/stream", h.StreamNotifications)
}

// StreamNotifications handles SSE connections for live notifications
func (h *SSEHandler) StreamNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		http.Error(w, "user id required", http.StatusBadRequest)
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil || user == nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	clientChan := make(chan []byte, 10)
	h.registerClient(userID, clientChan)
	defer h.unregisterClient(userID, clientChan)

	ctx := r.Context()
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-clientChan:
			fmt.Fprintf(w, "event: notification\ndata: %s\n\n", msg)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, "event: heartbeat\ndata: {\"time\": \"%s\"}\n\n", time.Now().Format(time.RFC3339))
			flusher.Flush()
		}
	}
}

func (h *SSEHandler) registerClient(userID string, ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[userID] == nil {
		h.clients[userID] = make(map[chan []byte]bool)
	}
	h.clients[userID][ch] = true
}

func (h *SSEHandler) unregisterClient(userID string, ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[userID]; ok {
		delete(clients, ch)
		if len(clients) == 0 {
			delete(h.clients, userID)
		}
	}
	close(ch)
}

func (h *SSEHandler) broadcast(userID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[userID]; ok {
		for ch := range clients {
			select {
			case ch <- data:
			default:
				// Client too slow, skip
			}
		}
	}
}

// startPubSubListener forwards published notifications to connected clients
func (h *SSEHandler) startPubSubListener() {
	ctx := context.Background()
	pubsub := h.redis.Subscribe(ctx, database.NotificationChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var notification models.Notification
		if err := json.Unmarshal([]byte(msg.Payload), &notification); err != nil {
			continue
		}
		h.broadcast(notification.UserID, []byte(msg.Payload))
	}
}
