package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultQuizDuration is substituted whenever a quiz has no usable duration.
const DefaultQuizDuration = 600

type Quiz struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	DurationSeconds int       `gorm:"not null;default:600" json:"duration_seconds"`
	IsVisible       bool      `gorm:"not null;default:true" json:"is_visible"`
	AllowReattempts bool      `gorm:"not null;default:false" json:"allow_reattempts"`
	ShowScore       bool      `gorm:"not null;default:true" json:"show_score"`

	Questions []Question `gorm:"foreignkey:QuizID" json:"questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
