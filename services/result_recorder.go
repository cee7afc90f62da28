package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sahilm23/quiz_master/models"
	"gorm.io/gorm"
)

// RecordResult persists one attempt: the result row and its full answer
// trail, as a single transaction. The reattempt policy is re-checked inside
// the transaction, and the unique index on (user_id, quiz_id,
// attempt_number) backstops it: if two submissions race past the check,
// exactly one commits. Nothing is left behind on failure.
func RecordResult(db *gorm.DB, userID, quizID uuid.UUID, score, total int, records []AnswerRecord) (*models.Result, error) {
	result, err := insertAttempt(db, userID, quizID, score, total, records)
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent submission took this attempt number. For a
		// non-reattemptable quiz that submission was the one allowed
		// attempt; otherwise recount and try once more.
		allowed, perr := CanAttempt(db, quizID, userID)
		if perr != nil {
			return nil, perr
		}
		if !allowed {
			return nil, ErrAttemptNotAllowed
		}
		result, err = insertAttempt(db, userID, quizID, score, total, records)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func insertAttempt(db *gorm.DB, userID, quizID uuid.UUID, score, total int, records []AnswerRecord) (*models.Result, error) {
	var result models.Result

	err := db.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.Select("id", "allow_reattempts").First(&quiz, "id = ?", quizID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuizNotFound
			}
			return err
		}

		var prior int64
		if err := tx.Model(&models.Result{}).
			Where("quiz_id = ? AND user_id = ?", quizID, userID).
			Count(&prior).Error; err != nil {
			return err
		}
		if prior > 0 && !quiz.AllowReattempts {
			return ErrAttemptNotAllowed
		}

		result = models.Result{
			UserID:         userID,
			QuizID:         quizID,
			AttemptNumber:  int(prior) + 1,
			Score:          score,
			TotalQuestions: total,
			CompletedAt:    time.Now(),
		}
		if err := tx.Create(&result).Error; err != nil {
			return err
		}

		if len(records) == 0 {
			return nil
		}
		answers := make([]models.UserAnswer, len(records))
		for i, rec := range records {
			answers[i] = models.UserAnswer{
				ResultID:         result.ID,
				QuestionID:       rec.QuestionID,
				SelectedOptionID: rec.SelectedOptionID,
				IsCorrect:        rec.IsCorrect,
			}
		}
		if err := tx.Create(&answers).Error; err != nil {
			return err
		}
		result.Answers = answers
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrQuizNotFound) || errors.Is(err, ErrAttemptNotAllowed) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		return nil, &PersistenceError{Op: "result recording", Err: err}
	}
	return &result, nil
}
