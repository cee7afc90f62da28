package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Result is one completed attempt. The composite unique index on
// (user_id, quiz_id, attempt_number) makes concurrent first attempts on a
// non-reattemptable quiz collide instead of both committing.
type Result struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_results_attempt" json:"user_id"`
	QuizID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_results_attempt" json:"quiz_id"`
	AttemptNumber  int       `gorm:"not null;uniqueIndex:idx_results_attempt" json:"attempt_number"`
	Score          int       `gorm:"not null" json:"score"`
	TotalQuestions int       `gorm:"not null" json:"total_questions"`
	CertificateURL *string   `gorm:"size:512" json:"certificate_url,omitempty"`
	CompletedAt    time.Time `gorm:"not null" json:"completed_at"`

	User    User         `gorm:"foreignkey:UserID" json:"-"`
	Quiz    Quiz         `gorm:"foreignkey:QuizID" json:"-"`
	Answers []UserAnswer `gorm:"foreignkey:ResultID" json:"answers,omitempty"`
}

func (r *Result) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
