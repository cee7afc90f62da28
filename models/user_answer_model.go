package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserAnswer snapshots correctness at submission time. A nil
// SelectedOptionID means the question was left unanswered, recorded
// distinctly from an answered-but-wrong selection.
type UserAnswer struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ResultID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"result_id"`
	QuestionID       uuid.UUID  `gorm:"type:uuid;not null" json:"question_id"`
	SelectedOptionID *uuid.UUID `gorm:"type:uuid" json:"selected_option_id"`
	IsCorrect        bool       `gorm:"not null" json:"is_correct"`

	Question Question `gorm:"foreignkey:QuestionID" json:"-"`
}

func (a *UserAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
