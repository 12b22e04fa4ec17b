package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yichenzhao/buddyup/internal/models"
	"github.com/yichenzhao/buddyup/internal/repository"
	"github.com/yichenzhao/buddyup/internal/sydtime"
)

const maxEventTags = 10

type CreateEventInput struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	StartTime       string   `json:"startTime"`
	DurationMinutes int      `json:"durationMinutes"`
	MaxParticipants int      `json:"maxParticipants"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags"`
}

// UpdateEventInput carries partial edits; nil fields are left untouched.
type UpdateEventInput struct {
	Title           *string   `json:"title"`
	Description     *string   `json:"description"`
	Location        *string   `json:"location"`
	StartTime       *string   `json:"startTime"`
	DurationMinutes *int      `json:"durationMinutes"`
	MaxParticipants *int      `json:"maxParticipants"`
	Category        *string   `json:"category"`
	Tags            *[]string `json:"tags"`
}

type EventService interface {
	Create(ctx context.Context, creatorID uuid.UUID, input CreateEventInput) (*models.Event, error)
	Update(ctx context.Context, eventID, editorID uuid.UUID, input UpdateEventInput) (*models.Event, error)
	Delete(ctx context.Context, eventID, actorID uuid.UUID) error
	Get(ctx context.Context, eventID uuid.UUID) (*models.Event, error)
	List(ctx context.Context, category string) ([]models.Event, error)
	Manageable(ctx context.Context, creatorID uuid.UUID) ([]models.Event, error)
	CreatedBy(ctx context.Context, creatorID uuid.UUID) ([]models.Event, error)
	ParticipatedBy(ctx context.Context, userID uuid.UUID) ([]models.Event, error)
	RemoveParticipant(ctx context.Context, eventID, actorID, targetUserID uuid.UUID) (*models.Event, error)
	SweepExpired(ctx context.Context) (int, error)
}

type eventService struct {
	events   repository.EventRepository
	users    repository.UserRepository
	notifier Notifier
	now      func() time.Time
}

func NewEventService(events repository.EventRepository, users repository.UserRepository, notifier Notifier) EventService {
	return &eventService{events: events, users: users, notifier: notifier, now: sydtime.Now}
}

func validateEventFields(title, location, startTime, category string, durationMinutes, maxParticipants int, tags []string) error {
	if title == "" {
		return invalidInput("title is required")
	}
	if location == "" {
		return invalidInput("location is required")
	}
	if _, err := sydtime.Parse(startTime); err != nil {
		return invalidInput("startTime must be formatted as 2006-01-02T15:04")
	}
	if durationMinutes <= 0 {
		return invalidInput("durationMinutes must be positive")
	}
	if maxParticipants < 1 {
		return invalidInput("maxParticipants must be at least 1")
	}
	if !models.IsValidCategory(category) {
		return invalidInput("unknown category")
	}
	if len(tags) > maxEventTags {
		return invalidInput("too many tags")
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, creatorID uuid.UUID, input CreateEventInput) (*models.Event, error) {
	if err := validateEventFields(input.Title, input.Location, input.StartTime, input.Category,
		input.DurationMinutes, input.MaxParticipants, input.Tags); err != nil {
		return nil, err
	}

	creator, err := s.users.FindByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if creator.Score < MinScoreToCreateEvent {
		return nil, ErrScoreTooLow
	}

	event := &models.Event{
		Title:           input.Title,
		Description:     input.Description,
		Location:        input.Location,
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
		MaxParticipants: input.MaxParticipants,
		Category:        input.Category,
		Tags:            input.Tags,
		CreatorID:       creatorID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	return s.events.FindByID(ctx, event.ID)
}

func (s *eventService) Update(ctx context.Context, eventID, editorID uuid.UUID, input UpdateEventInput) (*models.Event, error) {
	var timeChanged, locationChanged bool

	err := s.events.Transact(ctx, func(tx *gorm.DB) error {
		event, err := s.events.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return asEventErr(err)
		}
		if event.CreatorID != editorID {
			editor, err := s.users.FindByID(ctx, editorID)
			if err != nil || editor.Role != models.RoleAdmin {
				return ErrNotCreator
			}
		}

		if input.MaxParticipants != nil {
			// Edit-time capacity guard, independent of the join-time guard:
			// capacity can never drop below the current approved count.
			approved, err := s.events.CountParticipants(ctx, tx, eventID, models.StatusApproved)
			if err != nil {
				return err
			}
			if int64(*input.MaxParticipants) < approved {
				return ErrCapacityBelowApproved
			}
			event.MaxParticipants = *input.MaxParticipants
		}

		if input.Title != nil {
			event.Title = *input.Title
		}
		if input.Description != nil {
			event.Description = *input.Description
		}
		if input.Location != nil && *input.Location != event.Location {
			event.Location = *input.Location
			locationChanged = true
		}
		if input.StartTime != nil && *input.StartTime != event.StartTime {
			event.StartTime = *input.StartTime
			timeChanged = true
		}
		if input.DurationMinutes != nil && *input.DurationMinutes != event.DurationMinutes {
			event.DurationMinutes = *input.DurationMinutes
			timeChanged = true
		}
		if input.Category != nil {
			event.Category = *input.Category
		}
		if input.Tags != nil {
			event.Tags = *input.Tags
		}

		if err := validateEventFields(event.Title, event.Location, event.StartTime, event.Category,
			event.DurationMinutes, event.MaxParticipants, event.Tags); err != nil {
			return err
		}

		// A schedule edit re-evaluates expiry immediately instead of waiting
		// for the next sweep. The flag only ever moves false -> true.
		if timeChanged && !event.Expired {
			expired, err := sydtime.HasExpired(event.StartTime, event.DurationMinutes, s.now())
			if err != nil {
				return invalidInput("startTime must be formatted as 2006-01-02T15:04")
			}
			if expired {
				event.Expired = true
			}
		}

		return s.events.Save(ctx, tx, event)
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if (timeChanged || locationChanged) && s.notifier != nil {
		s.notifyScheduleChange(ctx, event, editorID, timeChanged, locationChanged)
	}

	return event, nil
}

// notifyScheduleChange fans out to every participant still attached to the
// event (pending or approved), describing exactly what changed.
func (s *eventService) notifyScheduleChange(ctx context.Context, event *models.Event, editorID uuid.UUID, timeChanged, locationChanged bool) {
	var recipients []uuid.UUID
	for _, p := range event.Participants {
		if p.Status == models.StatusPending || p.Status == models.StatusApproved {
			recipients = append(recipients, p.UserID)
		}
	}
	if len(recipients) == 0 {
		return
	}

	var message string
	switch {
	case timeChanged && locationChanged:
		message = "The time and location of \"" + event.Title + "\" have changed."
	case timeChanged:
		message = "The time of \"" + event.Title + "\" has changed."
	default:
		message = "The location of \"" + event.Title + "\" has changed."
	}

	err := s.notifier.Notify(ctx, recipients, &editorID, event,
		models.NotificationEventUpdate, "Event updated", message)
	if err != nil {
		log.Printf("notify schedule change for event %s: %v", event.ID, err)
	}
}

func (s *eventService) Delete(ctx context.Context, eventID, actorID uuid.UUID) error {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if actor.Role != models.RoleAdmin {
		return ErrAdminOnly
	}

	rows, err := s.events.Delete(ctx, eventID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (s *eventService) Get(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, asEventErr(err)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, category string) ([]models.Event, error) {
	return s.events.FindAll(ctx, category)
}

// Manageable returns the creator's events that still have pending or approved
// participants, with the roster narrowed to those participants.
func (s *eventService) Manageable(ctx context.Context, creatorID uuid.UUID) ([]models.Event, error) {
	events, err := s.events.FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	manageable := make([]models.Event, 0, len(events))
	for _, event := range events {
		var relevant []models.Participant
		for _, p := range event.Participants {
			if p.Status == models.StatusPending || p.Status == models.StatusApproved {
				relevant = append(relevant, p)
			}
		}
		if len(relevant) == 0 {
			continue
		}
		event.Participants = relevant
		manageable = append(manageable, event)
	}
	return manageable, nil
}

func (s *eventService) CreatedBy(ctx context.Context, creatorID uuid.UUID) ([]models.Event, error) {
	return s.events.FindByCreator(ctx, creatorID)
}

// ParticipatedBy excludes events where the user's record is denied or
// cancelled; those no longer count as participation.
func (s *eventService) ParticipatedBy(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	events, err := s.events.FindByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	participated := make([]models.Event, 0, len(events))
	for _, event := range events {
		for _, p := range event.Participants {
			if p.UserID != userID {
				continue
			}
			if p.Status != models.StatusDenied && p.Status != models.StatusCancelled {
				participated = append(participated, event)
			}
			break
		}
	}
	return participated, nil
}

func (s *eventService) RemoveParticipant(ctx context.Context, eventID, actorID, targetUserID uuid.UUID) (*models.Event, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		return nil, ErrAdminOnly
	}

	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, asEventErr(err)
	}

	rows, err := s.events.DeleteParticipant(ctx, eventID, targetUserID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrParticipantNotFound
	}

	return s.events.FindByID(ctx, eventID)
}

// SweepExpired is the scheduler entry point. It evaluates every active event
// against the expiry predicate and flips the flag for those past their end.
// Failures on individual events are logged and skipped; the next sweep
// retries them.
func (s *eventService) SweepExpired(ctx context.Context) (int, error) {
	events, err := s.events.FindUnexpired(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	count := 0
	for _, event := range events {
		expired, err := sydtime.HasExpired(event.StartTime, event.DurationMinutes, now)
		if err != nil {
			log.Printf("sweep: event %s has an unreadable start time: %v", event.ID, err)
			continue
		}
		if !expired {
			continue
		}
		if err := s.events.MarkExpired(ctx, event.ID); err != nil {
			log.Printf("sweep: mark event %s expired: %v", event.ID, err)
			continue
		}
		count++
	}
	return count, nil
}
