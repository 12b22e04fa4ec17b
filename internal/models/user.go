package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultScore is the reputation score assigned to new accounts.
const DefaultScore = 30

type User struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Username   string         `gorm:"not null" json:"username"`
	Email      string         `gorm:"unique;not null" json:"email"`
	Password   string         `gorm:"not null" json:"-"`
	MBTI       string         `json:"mbti,omitempty"`
	Interests  []string       `gorm:"serializer:json" json:"interests,omitempty"`
	Tags       []string       `gorm:"serializer:json" json:"tags,omitempty"`
	WhyJoin    string         `json:"whyJoin,omitempty"`
	IdealBuddy string         `json:"idealBuddy,omitempty"`
	Role       string         `gorm:"not null;default:'user'" json:"role"`
	Score      int            `gorm:"not null;default:30" json:"score"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
