package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sahilm23/quiz_master/database"
	"github.com/sahilm23/quiz_master/models"
	"github.com/sahilm23/quiz_master/services"
	"gorm.io/gorm"
)

type CreateQuizRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Hours       int    `json:"hours" validate:"gte=0"`
	Minutes     int    `json:"minutes" validate:"gte=0"`
	Seconds     int    `json:"seconds" validate:"gte=0"`
}

func CreateQuiz(c *fiber.Ctx) error {
	var req CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	duration := req.Hours*3600 + req.Minutes*60 + req.Seconds
	if duration <= 0 {
		duration = models.DefaultQuizDuration
	}

	quiz := models.Quiz{
		Title:           req.Title,
		Description:     req.Description,
		DurationSeconds: duration,
		IsVisible:       true,
		ShowScore:       true,
	}
	if err := database.DB.Create(&quiz).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create quiz"})
	}

	return c.Status(fiber.StatusCreated).JSON(quiz)
}

type DashboardQuiz struct {
	models.Quiz
	QuestionCount int      `json:"question_count"`
	ResultCount   int      `json:"result_count"`
	AverageScore  *float64 `json:"average_score"`
}

// AdminDashboard lists all quizzes with question counts and the average
// score percent across their results.
func AdminDashboard(c *fiber.Ctx) error {
	var quizzes []models.Quiz
	if err := database.DB.Find(&quizzes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch quizzes"})
	}

	averages, err := services.QuizAverages(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute averages"})
	}
	averageByQuiz := make(map[uuid.UUID]services.QuizAverage, len(averages))
	for _, avg := range averages {
		averageByQuiz[avg.QuizID] = avg
	}

	dashboard := make([]DashboardQuiz, len(quizzes))
	for i, quiz := range quizzes {
		var questionCount int64
		database.DB.Model(&models.Question{}).Where("quiz_id = ?", quiz.ID).Count(&questionCount)

		entry := DashboardQuiz{Quiz: quiz, QuestionCount: int(questionCount)}
		if avg, ok := averageByQuiz[quiz.ID]; ok && avg.ResultCount > 0 {
			pct := avg.AveragePct
			entry.AverageScore = &pct
			entry.ResultCount = avg.ResultCount
		}
		dashboard[i] = entry
	}

	return c.JSON(dashboard)
}

func GetQuizDetails(c *fiber.Ctx) error {
	quizID := c.Params("quizId")

	var quiz models.Quiz
	if err := database.DB.Preload("Questions.Options").First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	var results []models.Result
	if err := database.DB.Preload("User").
		Where("quiz_id = ?", quizID).
		Order("completed_at desc").
		Find(&results).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch results"})
	}

	type ResultRow struct {
		models.Result
		Username string `json:"username"`
	}
	resultRows := make([]ResultRow, len(results))
	for i, r := range results {
		resultRows[i] = ResultRow{Result: r, Username: r.User.Username}
	}

	return c.JSON(fiber.Map{
		"quiz":    quiz,
		"results": resultRows,
	})
}

type QuizSettingsRequest struct {
	Hours   int `json:"hours" validate:"gte=0"`
	Minutes int `json:"minutes" validate:"gte=0"`
	Seconds int `json:"seconds" validate:"gte=0"`
}

func UpdateQuizSettings(c *fiber.Ctx) error {
	quizID := c.Params("quizId")

	var req QuizSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	duration := req.Hours*3600 + req.Minutes*60 + req.Seconds
	if duration <= 0 {
		duration = models.DefaultQuizDuration
	}

	return updateQuizColumn(c, quizID, "duration_seconds", duration)
}

type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

func ToggleShowScore(c *fiber.Ctx) error {
	return toggleQuizFlag(c, "show_score")
}

func ToggleReattempts(c *fiber.Ctx) error {
	return toggleQuizFlag(c, "allow_reattempts")
}

func ToggleVisibility(c *fiber.Ctx) error {
	return toggleQuizFlag(c, "is_visible")
}

func toggleQuizFlag(c *fiber.Ctx, column string) error {
	var req ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	return updateQuizColumn(c, c.Params("quizId"), column, req.Enabled)
}

func updateQuizColumn(c *fiber.Ctx, quizID, column string, value interface{}) error {
	res := database.DB.Model(&models.Quiz{}).Where("id = ?", quizID).Update(column, value)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update quiz"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}
	return c.JSON(fiber.Map{"success": true})
}

func DeleteQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quizId")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		resultIDs := tx.Model(&models.Result{}).Select("id").Where("quiz_id = ?", quizID)
		if err := tx.Where("result_id IN (?)", resultIDs).Delete(&models.UserAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Result{}).Error; err != nil {
			return err
		}

		questionIDs := tx.Model(&models.Question{}).Select("id").Where("quiz_id = ?", quizID)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Quiz{}, "id = ?", quizID).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete quiz"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type OptionRequest struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionRequest struct {
	Text     string          `json:"text" validate:"required"`
	ImageURL *string         `json:"image_url"`
	Options  []OptionRequest `json:"options" validate:"required,min=2,dive"`
}

func AddQuestion(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	question := models.Question{
		QuizID:   quizID,
		Text:     req.Text,
		ImageURL: req.ImageURL,
	}
	for _, opt := range req.Options {
		question.Options = append(question.Options, models.Option{
			Text:      opt.Text,
			IsCorrect: opt.IsCorrect,
		})
	}

	if err := database.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add question"})
	}

	return c.Status(fiber.StatusCreated).JSON(question)
}

func UpdateQuestion(c *fiber.Ctx) error {
	questionID := c.Params("questionId")

	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var question models.Question
	if err := database.DB.First(&question, "id = ?", questionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		question.Text = req.Text
		if req.ImageURL != nil {
			question.ImageURL = req.ImageURL
		}
		if err := tx.Save(&question).Error; err != nil {
			return err
		}

		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		options := make([]models.Option, len(req.Options))
		for i, opt := range req.Options {
			options[i] = models.Option{
				QuestionID: question.ID,
				Text:       opt.Text,
				IsCorrect:  opt.IsCorrect,
			}
		}
		return tx.Create(&options).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update question"})
	}

	database.DB.Preload("Options").First(&question, "id = ?", question.ID)
	return c.JSON(question)
}

func DeleteQuestion(c *fiber.Ctx) error {
	questionID := c.Params("questionId")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Question{}, "id = ?", questionID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete question"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminResultDetails returns one result with its full answer trail: each
// answer joined to its question and that question's options, plus the
// correctness snapshot taken at submission time.
func AdminResultDetails(c *fiber.Ctx) error {
	resultID := c.Params("resultId")

	var result models.Result
	if err := database.DB.Preload("User").Preload("Quiz").
		Preload("Answers.Question.Options").
		First(&result, "id = ?", resultID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Result not found"})
	}

	type AnswerDetail struct {
		QuestionID       uuid.UUID       `json:"question_id"`
		QuestionText     string          `json:"question_text"`
		ImageURL         *string         `json:"image_url,omitempty"`
		Options          []models.Option `json:"options"`
		SelectedOptionID *uuid.UUID      `json:"selected_option_id"`
		IsCorrect        bool            `json:"is_correct"`
	}
	answers := make([]AnswerDetail, len(result.Answers))
	for i, ans := range result.Answers {
		answers[i] = AnswerDetail{
			QuestionID:       ans.QuestionID,
			QuestionText:     ans.Question.Text,
			ImageURL:         ans.Question.ImageURL,
			Options:          ans.Question.Options,
			SelectedOptionID: ans.SelectedOptionID,
			IsCorrect:        ans.IsCorrect,
		}
	}

	return c.JSON(fiber.Map{
		"id":              result.ID,
		"username":        result.User.Username,
		"quiz_title":      result.Quiz.Title,
		"score":           result.Score,
		"total_questions": result.TotalQuestions,
		"attempt_number":  result.AttemptNumber,
		"completed_at":    result.CompletedAt,
		"answers":         answers,
	})
}
