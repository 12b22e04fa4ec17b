package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yichenzhao/buddyup/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateBatch(ctx context.Context, notifications []models.Notification) error
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	Delete(ctx context.Context, recipientID, id uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *notificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	err := query.
		Preload("Sender").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND id IN ?", recipientID, ids).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) Delete(ctx context.Context, recipientID, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("recipient_id = ? AND id = ?", recipientID, id).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
