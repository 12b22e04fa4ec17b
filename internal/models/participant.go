package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParticipantStatus string

const (
	StatusPending                ParticipantStatus = "pending"
	StatusApproved               ParticipantStatus = "approved"
	StatusDenied                 ParticipantStatus = "denied"
	StatusCheckedIn              ParticipantStatus = "checkedIn"
	StatusNoShow                 ParticipantStatus = "noShow"
	StatusCancelled              ParticipantStatus = "cancelled"
	StatusRequestingCancellation ParticipantStatus = "requestingCancellation"
)

// MaxCancelCount is the number of cancellations after which a user is
// permanently barred from rejoining an event.
const MaxCancelCount = 2

// Participant is one user's relationship to one event. The unique index on
// (event_id, user_id) guarantees at most one record per pair; rejoining
// mutates the existing record instead of creating a new one.
type Participant struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"-"`
	EventID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_event_user" json:"-"`
	UserID      uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_event_user" json:"userId"`
	User        *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status      ParticipantStatus `gorm:"type:varchar(32);not null;default:'pending'" json:"status"`
	CancelCount int               `gorm:"not null;default:0" json:"cancelCount"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"-"`
}

func (participant *Participant) BeforeCreate(tx *gorm.DB) (err error) {
	if participant.ID == uuid.Nil {
		participant.ID = uuid.New()
	}
	return
}

// CanRejoin reports whether a user with this record may submit a new join
// request. Only cancelled and denied participants re-enter, and never after
// cancelling MaxCancelCount times.
func (participant *Participant) CanRejoin() bool {
	if participant.CancelCount >= MaxCancelCount {
		return false
	}
	return participant.Status == StatusCancelled || participant.Status == StatusDenied
}
