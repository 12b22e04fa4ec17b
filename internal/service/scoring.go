package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yichenzhao/buddyup/internal/models"
	"github.com/yichenzhao/buddyup/internal/repository"
)

const (
	// CheckInReward is credited to a participant marked present.
	CheckInReward = 5
	// NoShowPenalty is deducted from a participant marked absent.
	NoShowPenalty = 10
	// FirstCheckInCreatorBonus is credited to the creator on the event's
	// first check-in; the base hosting bonus is folded into it.
	FirstCheckInCreatorBonus = 6
	// CreatorCheckInReward is credited to the creator per subsequent check-in.
	CreatorCheckInReward = 1
	// MinScoreToCreateEvent gates event creation, checked at creation only.
	MinScoreToCreateEvent = 30
)

// ScoringEngine applies the reputation side effects of attendance
// transitions. It runs after the status write commits; callers treat its
// failures as non-fatal.
type ScoringEngine struct {
	users repository.UserRepository
}

func NewScoringEngine(users repository.UserRepository) *ScoringEngine {
	return &ScoringEngine{users: users}
}

func (e *ScoringEngine) ApplyCheckIn(ctx context.Context, event *models.Event, userID uuid.UUID, firstCheckIn bool) error {
	if err := e.users.IncrementScore(ctx, userID, CheckInReward); err != nil {
		return fmt.Errorf("credit participant: %w", err)
	}

	creatorDelta := CreatorCheckInReward
	if firstCheckIn {
		creatorDelta = FirstCheckInCreatorBonus
	}
	if err := e.users.IncrementScore(ctx, event.CreatorID, creatorDelta); err != nil {
		return fmt.Errorf("credit creator: %w", err)
	}
	return nil
}

func (e *ScoringEngine) ApplyNoShow(ctx context.Context, userID uuid.UUID) error {
	if err := e.users.IncrementScore(ctx, userID, -NoShowPenalty); err != nil {
		return fmt.Errorf("penalize no-show: %w", err)
	}
	return nil
}
