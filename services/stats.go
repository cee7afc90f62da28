package services

import (
	"github.com/google/uuid"
	"github.com/sahilm23/quiz_master/models"
	"gorm.io/gorm"
)

// QuizAverage is the mean score percentage across all results of one quiz.
type QuizAverage struct {
	QuizID      uuid.UUID
	Title       string
	ResultCount int
	AveragePct  float64
}

// QuizAverages computes the average score percent per quiz. Results with
// zero total questions are skipped rather than divided by.
func QuizAverages(db *gorm.DB) ([]QuizAverage, error) {
	var quizzes []models.Quiz
	if err := db.Select("id", "title").Find(&quizzes).Error; err != nil {
		return nil, &PersistenceError{Op: "stats aggregation", Err: err}
	}

	averages := make([]QuizAverage, 0, len(quizzes))
	for _, quiz := range quizzes {
		var results []models.Result
		if err := db.Select("score", "total_questions").
			Where("quiz_id = ?", quiz.ID).
			Find(&results).Error; err != nil {
			return nil, &PersistenceError{Op: "stats aggregation", Err: err}
		}

		avg := QuizAverage{QuizID: quiz.ID, Title: quiz.Title, ResultCount: len(results)}
		totalPct := 0.0
		counted := 0
		for _, r := range results {
			if r.TotalQuestions > 0 {
				totalPct += float64(r.Score) / float64(r.TotalQuestions) * 100
				counted++
			}
		}
		if counted > 0 {
			avg.AveragePct = totalPct / float64(counted)
		}
		averages = append(averages, avg)
	}
	return averages, nil
}
