package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sahilm23/quiz_master/models"
	"gorm.io/gorm"
)

func scoreQuiz(t *testing.T, db *gorm.DB, quizID uuid.UUID, selections map[string]string) (int, []AnswerRecord, int) {
	t.Helper()
	var questions []models.Question
	if err := db.Preload("Options").Where("quiz_id = ?", quizID).Find(&questions).Error; err != nil {
		t.Fatalf("failed to load questions: %v", err)
	}
	score, records := ScoreSubmission(questions, selections)
	return score, records, len(questions)
}

func TestRecordResultPersistsAnswerTrail(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	quiz := seedQuiz(t, db, false)
	q1 := seedQuestion(t, db, quiz.ID, 1)
	q2 := seedQuestion(t, db, quiz.ID, 0)
	seedQuestion(t, db, quiz.ID, 3)

	selections := map[string]string{
		q1.ID.String(): q1.Options[1].ID.String(),
		q2.ID.String(): q2.Options[2].ID.String(),
	}
	score, records, total := scoreQuiz(t, db, quiz.ID, selections)

	result, err := RecordResult(db, user.ID, quiz.ID, score, total, records)
	if err != nil {
		t.Fatalf("RecordResult failed: %v", err)
	}
	if result.ID == uuid.Nil {
		t.Fatalf("result has no id")
	}
	if result.Score != 1 || result.TotalQuestions != 3 || result.AttemptNumber != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var answers []models.UserAnswer
	if err := db.Where("result_id = ?", result.ID).Find(&answers).Error; err != nil {
		t.Fatalf("failed to load answers: %v", err)
	}
	if len(answers) != 3 {
		t.Fatalf("answer trail has %d rows, want one per question (3)", len(answers))
	}

	unanswered := 0
	for _, ans := range answers {
		if ans.SelectedOptionID == nil {
			unanswered++
			if ans.IsCorrect {
				t.Fatalf("unanswered question stored as correct: %+v", ans)
			}
		}
	}
	if unanswered != 1 {
		t.Fatalf("unanswered rows = %d, want 1", unanswered)
	}
}

func TestRecordResultRejectsRepeatWhenReattemptsOff(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	quiz := seedQuiz(t, db, false)
	q := seedQuestion(t, db, quiz.ID, 0)

	selections := map[string]string{q.ID.String(): q.Options[0].ID.String()}
	score, records, total := scoreQuiz(t, db, quiz.ID, selections)

	if _, err := RecordResult(db, user.ID, quiz.ID, score, total, records); err != nil {
		t.Fatalf("first RecordResult failed: %v", err)
	}

	_, err := RecordResult(db, user.ID, quiz.ID, score, total, records)
	if !errors.Is(err, ErrAttemptNotAllowed) {
		t.Fatalf("second RecordResult error = %v, want ErrAttemptNotAllowed", err)
	}

	var resultCount, answerCount int64
	db.Model(&models.Result{}).Where("quiz_id = ? AND user_id = ?", quiz.ID, user.ID).Count(&resultCount)
	db.Model(&models.UserAnswer{}).Count(&answerCount)
	if resultCount != 1 {
		t.Fatalf("result rows = %d, want 1", resultCount)
	}
	if answerCount != 1 {
		t.Fatalf("answer rows = %d, want 1 (no partial trail from rejected attempt)", answerCount)
	}
}

func TestRecordResultAllowsIndependentReattempts(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	quiz := seedQuiz(t, db, true)
	q := seedQuestion(t, db, quiz.ID, 0)

	right := map[string]string{q.ID.String(): q.Options[0].ID.String()}
	wrong := map[string]string{q.ID.String(): q.Options[1].ID.String()}

	score1, records1, total := scoreQuiz(t, db, quiz.ID, wrong)
	first, err := RecordResult(db, user.ID, quiz.ID, score1, total, records1)
	if err != nil {
		t.Fatalf("first RecordResult failed: %v", err)
	}

	score2, records2, _ := scoreQuiz(t, db, quiz.ID, right)
	second, err := RecordResult(db, user.ID, quiz.ID, score2, total, records2)
	if err != nil {
		t.Fatalf("second RecordResult failed: %v", err)
	}

	if first.AttemptNumber != 1 || second.AttemptNumber != 2 {
		t.Fatalf("attempt numbers = %d, %d, want 1, 2", first.AttemptNumber, second.AttemptNumber)
	}
	if first.Score != 0 || second.Score != 1 {
		t.Fatalf("scores = %d, %d, want 0, 1", first.Score, second.Score)
	}

	var trail1, trail2 int64
	db.Model(&models.UserAnswer{}).Where("result_id = ?", first.ID).Count(&trail1)
	db.Model(&models.UserAnswer{}).Where("result_id = ?", second.ID).Count(&trail2)
	if trail1 != 1 || trail2 != 1 {
		t.Fatalf("answer trails = %d, %d, want independent trails of 1 each", trail1, trail2)
	}
}

func TestRecordResultUnknownQuiz(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")

	_, err := RecordResult(db, user.ID, uuid.New(), 0, 0, nil)
	if !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("RecordResult error = %v, want ErrQuizNotFound", err)
	}
}

func TestRecordResultRollsBackWhenAnswerInsertFails(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	quiz := seedQuiz(t, db, false)
	q := seedQuestion(t, db, quiz.ID, 0)

	selections := map[string]string{q.ID.String(): q.Options[0].ID.String()}
	score, records, total := scoreQuiz(t, db, quiz.ID, selections)

	// Break the answer-trail insert: the result insert alone succeeds, so
	// the whole transaction must roll back rather than leave an orphaned
	// result behind.
	if err := db.Migrator().DropTable(&models.UserAnswer{}); err != nil {
		t.Fatalf("failed to drop user_answers table: %v", err)
	}

	_, err := RecordResult(db, user.ID, quiz.ID, score, total, records)
	if err == nil {
		t.Fatalf("RecordResult succeeded with no user_answers table")
	}
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("RecordResult error = %v, want *PersistenceError", err)
	}

	var resultCount int64
	db.Model(&models.Result{}).Count(&resultCount)
	if resultCount != 0 {
		t.Fatalf("result rows = %d, want 0 (orphaned result survived the rollback)", resultCount)
	}

	// The failed attempt must not count against the user either.
	allowed, aerr := CanAttempt(db, quiz.ID, user.ID)
	if aerr != nil || !allowed {
		t.Fatalf("CanAttempt after failed record = (%t, %v), want (true, nil)", allowed, aerr)
	}
}

func TestRecordResultDuplicateAttemptNumberBlocked(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	quiz := seedQuiz(t, db, false)

	// Simulate the losing side of a concurrent first attempt: a committed
	// result already occupies (user, quiz, 1), so the unique index rejects
	// a second insert even if it raced past the policy check.
	existing := models.Result{
		UserID:         user.ID,
		QuizID:         quiz.ID,
		AttemptNumber:  1,
		TotalQuestions: 1,
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("failed to seed result: %v", err)
	}

	duplicate := models.Result{
		UserID:         user.ID,
		QuizID:         quiz.ID,
		AttemptNumber:  1,
		TotalQuestions: 1,
	}
	if err := db.Create(&duplicate).Error; err == nil {
		t.Fatalf("duplicate (user, quiz, attempt) insert succeeded; unique index missing")
	}
}
