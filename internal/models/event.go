package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event categories form a closed set, validated at create and update time.
const (
	CategorySportsOutdoors = "sports-outdoors"
	CategoryMusicFilm      = "music-film"
	CategoryFoodSocial     = "food-social"
	CategoryTravelPhoto    = "travel-photography"
	CategoryStudyCareer    = "study-career"
	CategoryOther          = "other"
)

var EventCategories = []string{
	CategorySportsOutdoors,
	CategoryMusicFilm,
	CategoryFoodSocial,
	CategoryTravelPhoto,
	CategoryStudyCareer,
	CategoryOther,
}

func IsValidCategory(category string) bool {
	for _, c := range EventCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Location    string    `gorm:"not null" json:"location"`
	// StartTime is a Sydney-local wall-clock string ("2006-01-02T15:04"),
	// not a UTC instant. Interpret it through the sydtime package.
	StartTime       string         `gorm:"not null" json:"startTime"`
	DurationMinutes int            `gorm:"not null" json:"durationMinutes"`
	MaxParticipants int            `gorm:"not null" json:"maxParticipants"`
	Category        string         `gorm:"not null" json:"category"`
	Tags            []string       `gorm:"serializer:json" json:"tags"`
	CreatorID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"creatorId"`
	Creator         *User          `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Participants    []Participant  `gorm:"foreignKey:EventID" json:"participants"`
	Expired         bool           `gorm:"not null;default:false" json:"expired"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// ApprovedCount counts over the loaded roster. The authoritative count used by
// the capacity guard is taken inside the aggregate's transaction, not here.
func (event *Event) ApprovedCount() int {
	count := 0
	for _, p := range event.Participants {
		if p.Status == StatusApproved {
			count++
		}
	}
	return count
}
