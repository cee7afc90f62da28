package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sahilm23/quiz_master/models"
	"gorm.io/gorm"
)

// CanAttempt reports whether a user may start or submit an attempt for a
// quiz. Reattemptable quizzes are always open; otherwise the user must not
// already have a result for it. Callers run this both when presenting a
// quiz and again at submission time, each against current state.
func CanAttempt(db *gorm.DB, quizID, userID uuid.UUID) (bool, error) {
	var quiz models.Quiz
	if err := db.Select("id", "allow_reattempts").First(&quiz, "id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrQuizNotFound
		}
		return false, &PersistenceError{Op: "attempt check", Err: err}
	}

	if quiz.AllowReattempts {
		return true, nil
	}

	var count int64
	err := db.Model(&models.Result{}).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Count(&count).Error
	if err != nil {
		return false, &PersistenceError{Op: "attempt check", Err: err}
	}

	return count == 0, nil
}

// EffectiveDuration returns the quiz duration in seconds, substituting the
// default when the stored value is unset or nonsensical. Display and any
// future server-side enforcement must agree on this value.
func EffectiveDuration(quiz *models.Quiz) int {
	if quiz.DurationSeconds <= 0 {
		return models.DefaultQuizDuration
	}
	return quiz.DurationSeconds
}
