package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuizID   uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	ImageURL *string   `gorm:"size:512" json:"image_url,omitempty"`

	Options []Option `gorm:"foreignkey:QuestionID" json:"options,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
