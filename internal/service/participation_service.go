package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yichenzhao/buddyup/internal/models"
	"github.com/yichenzhao/buddyup/internal/repository"
)

// ParticipationService drives a participant's status through its lifecycle:
// pending -> approved/denied -> checkedIn/noShow, with the cancellation flows
// in between. Every transition runs inside a transaction holding a row lock
// on the event, so the approved count can never exceed the capacity limit
// even when joins and approvals race.
type ParticipationService interface {
	Join(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, error)
	Leave(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, error)
	Review(ctx context.Context, eventID, reviewerID, targetUserID uuid.UUID, approve bool) (*models.Event, error)
	MarkAttendance(ctx context.Context, eventID, reviewerID, targetUserID uuid.UUID, attended bool) (*models.Event, error)
	RequestCancellation(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, error)
	ReviewCancellation(ctx context.Context, eventID, reviewerID, targetUserID uuid.UUID, approve bool) (*models.Event, error)
}

type participationService struct {
	events   repository.EventRepository
	scoring  *ScoringEngine
	notifier Notifier
}

func NewParticipationService(events repository.EventRepository, scoring *ScoringEngine, notifier Notifier) ParticipationService {
	return &participationService{events: events, scoring: scoring, notifier: notifier}
}

func (s *participationService) Join(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, error) {
	err := s.events.Transact(ctx, func(tx *gorm.DB) error {
		event, err := s.events.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return asEventErr(err)
		}
		if event.CreatorID == userID {
			return ErrCreatorJoin
		}

		participant, err := s.events.FindParticipant(ctx, tx, eventID, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if participant != nil {
			switch participant.Status {
			case models.StatusCancelled, models.StatusDenied:
				if participant.CancelCount >= models.MaxCancelCount {
					return ErrRejoinLimitExceeded
				}
			default:
				return ErrAlreadyJoined
			}
		}

		approved, err := s.events.CountParticipants(ctx, tx, eventID, models.StatusApproved)
		if err != nil {
			return err
		}
		if approved >= int64(event.MaxParticipants) {
			return ErrCapacityExceeded
		}

		if participant != nil {
			participant.Status = models.StatusPending
			return s.events.SaveParticipant(ctx, tx, participant)
		}
		return s.events.CreateParticipant(ctx, tx, &models.Participant{
			EventID: eventID,
			UserID:  userID,
			Status:  models.StatusPending,
		})
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	return s.events.FindByID(ctx, eventID)
}

func (s *participationService) Leave(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, error) {
	err := s.events.Transact(ctx, func(tx *gorm.DB) error {
		if _, err := s.events.FindByIDForUpdate(ctx, tx, eventID); err != nil {
			return asEventErr(err)
		}

		participant, err := s.events.FindParticipant(ctx, tx, eventID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotParticipant
			}
			return err
		}
		if participant.Status != models.StatusPending && participant.Status != models.StatusDenied {
			return invalidState("your request has been reviewed, ask the organizer to cancel instead")
		}

		participant.Status = models.StatusCancelled
		participant.CancelCount++
		return s.events.SaveParticipant(ctx, tx, participant)
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	return s.events.FindByID(ctx, eventID)
}

func (s *participationService) Review(ctx context.Context, eventID, reviewerID, targetUserID uuid.UUID, approve bool) (*models.Event, error) {
	err := s.events.Transact(ctx, func(tx *gorm.DB) error {
		event, err := s.events.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return asEventErr(err)
		}
		if event.CreatorID != reviewerID {
			return ErrNotCreator
		}

		participant, err := s.events.FindParticipant(ctx, tx, eventID, targetUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}
		if participant.Status != models.StatusPending {
			return invalidState("only pending participants can be reviewed")
		}

		if approve {
			// Re-check capacity at commit time: a concurrent approval may
			// have taken the last slot since this request was issued.
			approved, err := s.events.CountParticipants(ctx, tx, eventID, models.StatusApproved)
			if err != nil {
				return err
			}
			if approved >= int64(event.MaxParticipants) {
				return ErrCapacityExceeded
			}
			participant.Status = models.StatusApproved
		} else {
			participant.Status = models.StatusDenied
		}
		return s.events.SaveParticipant(ctx, tx, participant)
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if approve && s.notifier != nil {
		notifyErr := s.notifier.Notify(ctx, []uuid.UUID{targetUserID}, &reviewerID, event,
			models.NotificationEventApproved, "Join request approved",
			"Your request to join \""+event.Title+"\" has been approved.")
		if notifyErr != nil {
			log.Printf("notify approval for event %s: %v", eventID, notifyErr)
		}
	}

	return event, nil
}

func (s *participationService) MarkAttendance(ctx context.Context, eventID, reviewerID, targetUserID uuid.UUID, attended bool) (*models.Event, error) {
	var firstCheckIn bool

	err := s.events.Transact(ctx, func(tx *gorm.DB) error {
		event, err := s.events.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return asEventErr(err)
		}
		if event.CreatorID != reviewerID {
			return ErrNotCreator
		}

		participant, err := s.events.FindParticipant(ctx, tx, eventID, targetUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}
		if participant.Status != models.StatusApproved {
			return invalidState("attendance can only be marked for approved participants")
		}

		if attended {
			checkedIn, err := s.events.CountParticipants(ctx, tx, eventID, models.StatusCheckedIn)
			if err != nil {
				return err
			}
			firstCheckIn = checkedIn == 0
			participant.Status = models.StatusCheckedIn
		} else {
			participant.Status = models.StatusNoShow
		}
		return s.events.SaveParticipant(ctx, tx, participant)
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// The status transition above is the authoritative record. Score updates
	// are applied after it commits; a scoring failure is logged, never
	// propagated, and never rolls the transition back.
	if attended {
		if scoreErr := s.scoring.ApplyCheckIn(ctx, event, targetUserID, firstCheckIn); scoreErr != nil {
			log.Printf("apply check-in scoring for event %s user %s: %v", eventID, targetUserID, scoreErr)
		}
		if s.notifier != nil {
			notifyErr := s.notifier.Notify(ctx, []uuid.UUID{targetUserID}, &reviewerID, event,
				models.NotificationEventCheckin, "Checked in",
				"You have been checked in to \""+event.Title+"\".")
			if notifyErr != nil {
				log.Printf("notify check-in for event %s: %v", eventID, notifyErr)
			}
		}
	} else {
		if scoreErr := s.scoring.ApplyNoShow(ctx, targetUserID); scoreErr != nil {
			log.Printf("apply no-show scoring for event %s user %s: %v", eventID, targetUserID, scoreErr)
		}
	}

	return event, nil
}

func (s *participationService) RequestCancellation(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, error) {
	err := s.events.Transact(ctx, func(tx *gorm.DB) error {
		if _, err := s.events.FindByIDForUpdate(ctx, tx, eventID); err != nil {
			return asEventErr(err)
		}

		participant, err := s.events.FindParticipant(ctx, tx, eventID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotParticipant
			}
			return err
		}
		if participant.Status != models.StatusApproved {
			return invalidState("only approved participants can request cancellation")
		}

		participant.Status = models.StatusRequestingCancellation
		return s.events.SaveParticipant(ctx, tx, participant)
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	return s.events.FindByID(ctx, eventID)
}

func (s *participationService) ReviewCancellation(ctx context.Context, eventID, reviewerID, targetUserID uuid.UUID, approve bool) (*models.Event, error) {
	err := s.events.Transact(ctx, func(tx *gorm.DB) error {
		event, err := s.events.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return asEventErr(err)
		}
		if event.CreatorID != reviewerID {
			return ErrNotCreator
		}

		participant, err := s.events.FindParticipant(ctx, tx, eventID, targetUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}
		if participant.Status != models.StatusRequestingCancellation {
			return invalidState("this participant has not requested cancellation")
		}

		if approve {
			participant.Status = models.StatusCancelled
			participant.CancelCount++
		} else {
			participant.Status = models.StatusApproved
		}
		return s.events.SaveParticipant(ctx, tx, participant)
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	return s.events.FindByID(ctx, eventID)
}
