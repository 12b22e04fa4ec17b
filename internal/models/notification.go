package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationEventApproved NotificationType = "event_approved"
	NotificationEventDenied   NotificationType = "event_denied"
	NotificationJoinRequest   NotificationType = "event_join_request"
	NotificationEventCancel   NotificationType = "event_cancelled"
	NotificationEventCheckin  NotificationType = "event_checkin"
	NotificationEventUpdate   NotificationType = "event_update"
)

type NotificationMetadata struct {
	EventTitle    string `json:"eventTitle,omitempty"`
	EventTime     string `json:"eventTime,omitempty"`
	EventLocation string `json:"eventLocation,omitempty"`
	UserName      string `json:"userName,omitempty"`
}

type Notification struct {
	ID          uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	RecipientID uuid.UUID            `gorm:"type:uuid;not null;index" json:"recipientId"`
	SenderID    *uuid.UUID           `gorm:"type:uuid" json:"senderId,omitempty"`
	Sender      *User                `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Type        NotificationType     `gorm:"type:varchar(32);not null" json:"type"`
	Title       string               `gorm:"not null" json:"title"`
	Message     string               `gorm:"not null" json:"message"`
	EventID     *uuid.UUID           `gorm:"type:uuid;index" json:"eventId,omitempty"`
	Read        bool                 `gorm:"not null;default:false" json:"read"`
	Metadata    NotificationMetadata `gorm:"serializer:json" json:"metadata"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"-"`
}

func (notification *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	return
}
