package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/yichenzhao/buddyup/internal/models"
	"github.com/yichenzhao/buddyup/internal/repository"
)

// Notifier is the fire-and-forget notification sink consumed by the event
// and participation services.
type Notifier interface {
	Notify(ctx context.Context, recipientIDs []uuid.UUID, senderID *uuid.UUID, event *models.Event, typ models.NotificationType, title, message string) error
}

// Publisher pushes a message to the broker. A nil publisher disables
// publishing; the stored row remains the source of truth either way.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

type NotificationService struct {
	repo      repository.NotificationRepository
	publisher Publisher
}

func NewNotificationService(repo repository.NotificationRepository, publisher Publisher) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher}
}

func (s *NotificationService) Notify(ctx context.Context, recipientIDs []uuid.UUID, senderID *uuid.UUID, event *models.Event, typ models.NotificationType, title, message string) error {
	if len(recipientIDs) == 0 {
		return nil
	}

	metadata := models.NotificationMetadata{}
	var eventID *uuid.UUID
	if event != nil {
		id := event.ID
		eventID = &id
		metadata.EventTitle = event.Title
		metadata.EventTime = event.StartTime
		metadata.EventLocation = event.Location
	}

	notifications := make([]models.Notification, 0, len(recipientIDs))
	for _, recipientID := range recipientIDs {
		notifications = append(notifications, models.Notification{
			RecipientID: recipientID,
			SenderID:    senderID,
			Type:        typ,
			Title:       title,
			Message:     message,
			EventID:     eventID,
			Metadata:    metadata,
		})
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		return err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("notification."+string(typ), notifications)
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, recipientID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.FindByRecipient(ctx, recipientID, limit, offset, unreadOnly)
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

func (s *NotificationService) MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.MarkRead(ctx, recipientID, ids)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, recipientID)
}

func (s *NotificationService) Delete(ctx context.Context, recipientID, id uuid.UUID) error {
	rows, err := s.repo.Delete(ctx, recipientID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
