package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yichenzhao/buddyup/internal/models"
	"github.com/yichenzhao/buddyup/internal/repository"
)

// externalEventRetention is how long aggregated third-party listings are kept
// after their event time has passed.
const externalEventRetention = 7 * 24 * time.Hour

type CreateExternalEventInput struct {
	Title                 string    `json:"title"`
	TitleTranslated       string    `json:"titleTranslated"`
	Description           string    `json:"description"`
	DescriptionTranslated string    `json:"descriptionTranslated"`
	Time                  time.Time `json:"time"`
	Location              string    `json:"location"`
	Link                  string    `json:"link"`
}

type ExternalEventService struct {
	repo  repository.ExternalEventRepository
	users repository.UserRepository
	now   func() time.Time
}

func NewExternalEventService(repo repository.ExternalEventRepository, users repository.UserRepository) *ExternalEventService {
	return &ExternalEventService{repo: repo, users: users, now: time.Now}
}

func (s *ExternalEventService) Create(ctx context.Context, creatorID uuid.UUID, input CreateExternalEventInput) (*models.ExternalEvent, error) {
	creator, err := s.users.FindByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if creator.Role != models.RoleAdmin {
		return nil, ErrAdminOnly
	}

	if input.Title == "" || input.Description == "" || input.Location == "" || input.Link == "" {
		return nil, invalidInput("title, description, location and link are required")
	}
	if input.Time.IsZero() {
		return nil, invalidInput("time is required")
	}

	event := &models.ExternalEvent{
		Title:                 input.Title,
		TitleTranslated:       input.TitleTranslated,
		Description:           input.Description,
		DescriptionTranslated: input.DescriptionTranslated,
		Time:                  input.Time,
		Location:              input.Location,
		Link:                  input.Link,
		CreatedByID:           creatorID,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *ExternalEventService) ListUpcoming(ctx context.Context) ([]models.ExternalEvent, error) {
	return s.repo.FindUpcoming(ctx, s.now())
}

// PurgeOld is the daily scheduler entry point; it deletes listings whose time
// passed more than the retention window ago.
func (s *ExternalEventService) PurgeOld(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-externalEventRetention)
	return s.repo.DeleteEndedBefore(ctx, cutoff)
}
