package jobs

import (
	"log"

	"github.com/sahilm23/quiz_master/database"
	"github.com/sahilm23/quiz_master/services"
)

// LogQuizAverages recomputes the per-quiz average score percent and logs a
// snapshot, so operators get a periodic pulse without hitting the dashboard.
func LogQuizAverages() {
	log.Println("Running job: LogQuizAverages...")

	averages, err := services.QuizAverages(database.DB)
	if err != nil {
		log.Printf("Error computing quiz averages: %v", err)
		return
	}

	if len(averages) == 0 {
		log.Println("No quizzes found.")
		return
	}

	for _, avg := range averages {
		if avg.ResultCount == 0 {
			log.Printf("Quiz %q: no results yet", avg.Title)
			continue
		}
		log.Printf("Quiz %q: %d result(s), average %.1f%%", avg.Title, avg.ResultCount, avg.AveragePct)
	}
}
