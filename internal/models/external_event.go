package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExternalEvent is an aggregated third-party listing. Unlike Event.StartTime,
// Time is a real instant: external feeds publish absolute times.
type ExternalEvent struct {
	ID                    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title                 string    `gorm:"not null" json:"title"`
	TitleTranslated       string    `json:"titleTranslated,omitempty"`
	Description           string    `gorm:"not null" json:"description"`
	DescriptionTranslated string    `json:"descriptionTranslated,omitempty"`
	Time                  time.Time `gorm:"not null;index" json:"time"`
	Location              string    `gorm:"not null" json:"location"`
	Link                  string    `gorm:"not null" json:"link"`
	CreatedByID           uuid.UUID `gorm:"type:uuid;not null" json:"createdBy"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"-"`
}

func (event *ExternalEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
