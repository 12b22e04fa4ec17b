package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrForbidden   = errors.New("you do not have permission to perform this action")
	ErrNotCreator  = errors.New("only the event creator can perform this action")
	ErrCreatorJoin = errors.New("you created this event and cannot join it")
	ErrAdminOnly   = errors.New("only administrators can perform this action")
	ErrScoreTooLow = errors.New("your score is too low to create an event")

	ErrCapacityExceeded      = errors.New("event is full")
	ErrAlreadyJoined         = errors.New("you have already joined this event")
	ErrRejoinLimitExceeded   = errors.New("you have cancelled twice and can no longer join this event")
	ErrNotParticipant        = errors.New("you have not joined this event")
	ErrCapacityBelowApproved = errors.New("capacity cannot be lowered below the approved participant count")

	// ErrInvalidState covers transition guard failures; callers wrap it with
	// the specific guard that failed.
	ErrInvalidState = errors.New("invalid participant state")

	// ErrValidation covers malformed input; callers wrap it with detail.
	ErrValidation = errors.New("validation failed")

	// ErrConcurrencyConflict means a capacity guard lost a race against a
	// concurrent writer. The operation is safe to retry.
	ErrConcurrencyConflict = errors.New("the event was modified concurrently, please retry")
)

func invalidState(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, detail)
}

func invalidInput(detail string) error {
	return fmt.Errorf("%w: %s", ErrValidation, detail)
}

// asEventErr maps a missing event row to the domain error.
func asEventErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEventNotFound
	}
	return err
}

// translateTxError surfaces Postgres serialization and deadlock failures as a
// retryable conflict. Everything else passes through untouched.
func translateTxError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: %s", ErrConcurrencyConflict, pgErr.Message)
		}
	}
	return err
}
