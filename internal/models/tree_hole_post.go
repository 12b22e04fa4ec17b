package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TreeHolePostMaxLength bounds the content of an anonymous post.
const TreeHolePostMaxLength = 300

// TreeHolePost is an anonymous post. The author and the identities of users
// who liked it are stored for bookkeeping but never serialized.
type TreeHolePost struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Content   string      `gorm:"not null" json:"content"`
	AuthorID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"-"`
	Likes     []uuid.UUID `gorm:"serializer:json" json:"-"`
	LikeCount int         `gorm:"not null;default:0" json:"likeCount"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"-"`
}

func (post *TreeHolePost) BeforeCreate(tx *gorm.DB) (err error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	return
}

func (post *TreeHolePost) LikedBy(userID uuid.UUID) bool {
	for _, id := range post.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
