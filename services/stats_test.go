package services

import (
	"testing"
	"time"

	"github.com/sahilm23/quiz_master/models"
)

func TestQuizAverages(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	quiz := seedQuiz(t, db, true)
	empty := seedQuiz(t, db, false)

	results := []models.Result{
		{UserID: alice.ID, QuizID: quiz.ID, AttemptNumber: 1, Score: 3, TotalQuestions: 4, CompletedAt: time.Now()},
		{UserID: bob.ID, QuizID: quiz.ID, AttemptNumber: 1, Score: 1, TotalQuestions: 4, CompletedAt: time.Now()},
		// Zero-question result must be skipped, not divided by.
		{UserID: bob.ID, QuizID: quiz.ID, AttemptNumber: 2, Score: 0, TotalQuestions: 0, CompletedAt: time.Now()},
	}
	for i := range results {
		if err := db.Create(&results[i]).Error; err != nil {
			t.Fatalf("failed to seed result: %v", err)
		}
	}

	averages, err := QuizAverages(db)
	if err != nil {
		t.Fatalf("QuizAverages failed: %v", err)
	}
	if len(averages) != 2 {
		t.Fatalf("averages for %d quizzes, want 2", len(averages))
	}

	byID := make(map[string]QuizAverage)
	for _, avg := range averages {
		byID[avg.QuizID.String()] = avg
	}

	got := byID[quiz.ID.String()]
	if got.ResultCount != 3 {
		t.Fatalf("result count = %d, want 3", got.ResultCount)
	}
	if want := 50.0; got.AveragePct != want {
		t.Fatalf("average = %.2f, want %.2f", got.AveragePct, want)
	}

	if untouched := byID[empty.ID.String()]; untouched.ResultCount != 0 || untouched.AveragePct != 0 {
		t.Fatalf("quiz without results = %+v, want zero values", untouched)
	}
}
