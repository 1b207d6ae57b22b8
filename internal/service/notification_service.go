package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/campuspool/campuspool/internal/database"
	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
	"github.com/redis/go-redis/v9"
)

// NotificationService stores notifications and fans them out to the live
// SSE stream via redis pub/sub. Delivery state (read/unread) lives here,
// not in the booking ledger.
type NotificationService interface {
	Notify(ctx context.Context, userID, notificationType, title, body string) (*models.Notification, error)
	ListForUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, callerID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	redis            *redis.Client
}

func NewNotificationService(notificationRepo repository.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		redis:            redisClient,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID, notificationType, title, body string) (*models.Notification, error) {
	notification := &models.Notification{
		UserID: userID,
		Type:   notificationType,
		Title:  title,
		Body:   body,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	// Best-effort fan-out; the stored row is the source of truth.
	if s.redis != nil {
		payload, err := json.Marshal(notification)
		if err == nil {
			if err := s.redis.Publish(ctx, database.NotificationChannel, payload).Err(); err != nil {
				log.Printf("failed to publish notification %s: %v", notification.ID, err)
			}
		}
	}

	return notification, nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, callerID, notificationID string) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification == nil {
		return apperrors.NotFound("notification")
	}
	if notification.UserID != callerID {
		return apperrors.Forbidden("only the recipient may mark a notification read")
	}
	return s.notificationRepo.MarkRead(ctx, notificationID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
