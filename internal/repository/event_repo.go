package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yichenzhao/buddyup/internal/models"
)

// EventRepository persists the event aggregate and its roster. Methods taking
// a tx argument run inside a per-aggregate transaction opened via Transact;
// every state-machine mutation locks the event row first so capacity checks
// and writes commit as one atomic unit.
type EventRepository interface {
	Transact(ctx context.Context, fn func(tx *gorm.DB) error) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Event, error)
	FindAll(ctx context.Context, category string) ([]models.Event, error)
	FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Event, error)
	FindByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Event, error)
	FindUnexpired(ctx context.Context) ([]models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Save(ctx context.Context, tx *gorm.DB, event *models.Event) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	MarkExpired(ctx context.Context, id uuid.UUID) error
	FindParticipant(ctx context.Context, tx *gorm.DB, eventID, userID uuid.UUID) (*models.Participant, error)
	CreateParticipant(ctx context.Context, tx *gorm.DB, participant *models.Participant) error
	SaveParticipant(ctx context.Context, tx *gorm.DB, participant *models.Participant) error
	DeleteParticipant(ctx context.Context, eventID, userID uuid.UUID) (int64, error)
	CountParticipants(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, status models.ParticipantStatus) (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("participants.created_at ASC")
		}).
		Preload("Participants.User").
		Preload("Creator").
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// FindByIDForUpdate acquires a row-level lock on the event within the given
// transaction. Concurrent joins and reviews against the same aggregate
// serialize on this lock.
func (r *eventRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindAll(ctx context.Context, category string) ([]models.Event, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var events []models.Event
	err := query.
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("participants.created_at ASC")
		}).
		Preload("Participants.User").
		Preload("Creator").
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("participants.created_at ASC")
		}).
		Preload("Participants.User").
		Preload("Creator").
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) FindByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Joins("JOIN participants ON participants.event_id = events.id").
		Where("participants.user_id = ?", userID).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("participants.created_at ASC")
		}).
		Preload("Participants.User").
		Preload("Creator").
		Order("events.created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) FindUnexpired(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("expired = ?", false).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Save(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	return tx.WithContext(ctx).Omit("Participants", "Creator").Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Event{})
	return result.RowsAffected, result.Error
}

// MarkExpired flips the expiry flag. The predicate only ever moves the flag
// from false to true, so a plain column update is safe to repeat.
func (r *eventRepository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", id).
		Update("expired", true).Error
}

func (r *eventRepository) FindParticipant(ctx context.Context, tx *gorm.DB, eventID, userID uuid.UUID) (*models.Participant, error) {
	var participant models.Participant
	err := tx.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *eventRepository) CreateParticipant(ctx context.Context, tx *gorm.DB, participant *models.Participant) error {
	return tx.WithContext(ctx).Create(participant).Error
}

func (r *eventRepository) SaveParticipant(ctx context.Context, tx *gorm.DB, participant *models.Participant) error {
	return tx.WithContext(ctx).Omit("User").Save(participant).Error
}

func (r *eventRepository) DeleteParticipant(ctx context.Context, eventID, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&models.Participant{})
	return result.RowsAffected, result.Error
}

func (r *eventRepository) CountParticipants(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, status models.ParticipantStatus) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Participant{}).
		Where("event_id = ? AND status = ?", eventID, status).
		Count(&count).Error
	return count, err
}
