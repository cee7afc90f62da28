package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilm23/quiz_master/handlers"
	"github.com/sahilm23/quiz_master/middleware"
)

func QuizRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	api.Get("/quizzes", handlers.ListQuizzes)

	quiz := api.Group("/quiz")
	quiz.Get("/:quizId", handlers.TakeQuiz)
	quiz.Post("/:quizId/submit", handlers.SubmitQuiz)

	api.Get("/results/:resultId/certificate", handlers.GetMyCertificate)
}
