package services

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/sahilm23/quiz_master/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.Result{},
		&models.UserAnswer{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedQuiz(t *testing.T, db *gorm.DB, allowReattempts bool) models.Quiz {
	t.Helper()
	quiz := models.Quiz{
		Title:           "Capitals",
		DurationSeconds: 300,
		IsVisible:       true,
		AllowReattempts: allowReattempts,
		ShowScore:       true,
	}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("failed to seed quiz: %v", err)
	}
	return quiz
}

func seedQuestion(t *testing.T, db *gorm.DB, quizID uuid.UUID, correctIndex int) models.Question {
	t.Helper()
	question := models.Question{QuizID: quizID, Text: "pick one"}
	for i := 0; i < 4; i++ {
		question.Options = append(question.Options, models.Option{
			Text:      "opt",
			IsCorrect: i == correctIndex,
		})
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("failed to seed question: %v", err)
	}
	return question
}
