package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sahilm23/quiz_master/database"
	"github.com/sahilm23/quiz_master/middleware"
	"github.com/sahilm23/quiz_master/models"
	"github.com/sahilm23/quiz_master/services"
	"github.com/sahilm23/quiz_master/websocket"
)

type QuizSummary struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DurationSeconds int       `json:"duration_seconds"`
	ShowScore       bool      `json:"show_score"`
}

// ListQuizzes returns the visible quizzes for the student dashboard.
func ListQuizzes(c *fiber.Ctx) error {
	var quizzes []models.Quiz
	if err := database.DB.Where("is_visible = ?", true).Find(&quizzes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch quizzes"})
	}

	summaries := make([]QuizSummary, len(quizzes))
	for i, quiz := range quizzes {
		summaries[i] = QuizSummary{
			ID:              quiz.ID,
			Title:           quiz.Title,
			Description:     quiz.Description,
			DurationSeconds: services.EffectiveDuration(&quiz),
			ShowScore:       quiz.ShowScore,
		}
	}
	return c.JSON(summaries)
}

type OptionForStudent struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

type QuestionForStudent struct {
	ID       uuid.UUID          `json:"id"`
	Text     string             `json:"text"`
	ImageURL *string            `json:"image_url,omitempty"`
	Options  []OptionForStudent `json:"options"`
}

// TakeQuiz presents a quiz for an attempt. The reattempt policy is checked
// here and again at submission; both read current state. Correctness flags
// are stripped from the options sent to the student.
func TakeQuiz(c *fiber.Ctx) error {
	auth, err := middleware.AuthFromContext(c)
	if err != nil {
		return err
	}
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}
	if !quiz.IsVisible && auth.Role != "admin" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	allowed, err := services.CanAttempt(database.DB, quizID, auth.UserID)
	if err != nil {
		return attemptErrorResponse(c, err, "Failed to check attempt eligibility")
	}
	if !allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You have already attempted this quiz. Reattempts are not allowed.",
		})
	}

	var questions []models.Question
	if err := database.DB.Preload("Options").
		Where("quiz_id = ?", quizID).
		Find(&questions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch questions"})
	}

	questionsForStudent := make([]QuestionForStudent, len(questions))
	for i, q := range questions {
		options := make([]OptionForStudent, len(q.Options))
		for j, opt := range q.Options {
			options[j] = OptionForStudent{ID: opt.ID, Text: opt.Text}
		}
		questionsForStudent[i] = QuestionForStudent{
			ID:       q.ID,
			Text:     q.Text,
			ImageURL: q.ImageURL,
			Options:  options,
		}
	}

	return c.JSON(fiber.Map{
		"id":               quiz.ID,
		"title":            quiz.Title,
		"description":      quiz.Description,
		"duration_seconds": services.EffectiveDuration(&quiz),
		"questions":        questionsForStudent,
	})
}

// SubmitQuiz grades a submission against the current question snapshot and
// records the result with its answer trail in one transaction.
func SubmitQuiz(c *fiber.Ctx) error {
	auth, err := middleware.AuthFromContext(c)
	if err != nil {
		return err
	}
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	allowed, err := services.CanAttempt(database.DB, quizID, auth.UserID)
	if err != nil {
		return attemptErrorResponse(c, err, "Failed to check attempt eligibility")
	}
	if !allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Reattempts not allowed"})
	}

	selections, err := parseSubmission(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse submission"})
	}

	var questions []models.Question
	if err := database.DB.Preload("Options").
		Where("quiz_id = ?", quizID).
		Find(&questions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch questions"})
	}

	score, records := services.ScoreSubmission(questions, selections)

	result, err := services.RecordResult(database.DB, auth.UserID, quizID, score, len(questions), records)
	if err != nil {
		return attemptErrorResponse(c, err, "Failed to save results")
	}

	websocket.NotifyResult(result)
	go services.CheckAndGenerateCertificate(database.DB, *result)

	response := fiber.Map{
		"message":        "Quiz submitted successfully",
		"result_id":      result.ID,
		"attempt_number": result.AttemptNumber,
	}
	if quiz.ShowScore {
		response["score"] = result.Score
		response["total_questions"] = result.TotalQuestions
	}
	return c.JSON(response)
}

// GetMyCertificate returns the stored certificate URL for one of the
// caller's own results.
func GetMyCertificate(c *fiber.Ctx) error {
	auth, err := middleware.AuthFromContext(c)
	if err != nil {
		return err
	}
	resultID := c.Params("resultId")

	var result models.Result
	if err := database.DB.First(&result, "id = ? AND user_id = ?", resultID, auth.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Result not found"})
	}
	if result.CertificateURL == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No certificate for this result"})
	}
	return c.JSON(fiber.Map{"certificate_url": *result.CertificateURL})
}

type submissionBody struct {
	Answers map[string]string `json:"answers"`
}

// parseSubmission normalizes either body shape into one map of question id
// to selected option id, so the scoring engine only ever sees that map.
// JSON bodies carry {"answers": {questionId: optionId}}; form bodies carry
// one q-<questionId>=<optionId> field per answered question.
func parseSubmission(c *fiber.Ctx) (map[string]string, error) {
	if strings.Contains(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var body submissionBody
		if err := c.BodyParser(&body); err != nil {
			return nil, err
		}
		if body.Answers == nil {
			return map[string]string{}, nil
		}
		return body.Answers, nil
	}

	selections := make(map[string]string)
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		if questionID, ok := strings.CutPrefix(string(key), "q-"); ok {
			selections[questionID] = string(value)
		}
	})
	return selections, nil
}

func attemptErrorResponse(c *fiber.Ctx, err error, failureMessage string) error {
	switch {
	case errors.Is(err, services.ErrQuizNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	case errors.Is(err, services.ErrAttemptNotAllowed):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Reattempts not allowed"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": failureMessage})
	}
}
