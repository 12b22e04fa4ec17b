package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yichenzhao/buddyup/internal/models"
)

type ExternalEventRepository interface {
	Create(ctx context.Context, event *models.ExternalEvent) error
	FindUpcoming(ctx context.Context, now time.Time) ([]models.ExternalEvent, error)
	DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type externalEventRepository struct {
	db *gorm.DB
}

func NewExternalEventRepository(db *gorm.DB) ExternalEventRepository {
	return &externalEventRepository{db: db}
}

func (r *externalEventRepository) Create(ctx context.Context, event *models.ExternalEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *externalEventRepository) FindUpcoming(ctx context.Context, now time.Time) ([]models.ExternalEvent, error) {
	var events []models.ExternalEvent
	err := r.db.WithContext(ctx).
		Where("time >= ?", now).
		Order("time ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *externalEventRepository) DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("time < ?", cutoff).
		Delete(&models.ExternalEvent{})
	return result.RowsAffected, result.Error
}
