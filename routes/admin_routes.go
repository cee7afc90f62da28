package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sahilm23/quiz_master/handlers"
	"github.com/sahilm23/quiz_master/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/dashboard", handlers.AdminDashboard)

	quizzes := admin.Group("/quizzes")
	quizzes.Post("", handlers.CreateQuiz)
	quizzes.Get("/:quizId", handlers.GetQuizDetails)
	quizzes.Patch("/:quizId/settings", handlers.UpdateQuizSettings)
	quizzes.Patch("/:quizId/show-score", handlers.ToggleShowScore)
	quizzes.Patch("/:quizId/reattempts", handlers.ToggleReattempts)
	quizzes.Patch("/:quizId/visibility", handlers.ToggleVisibility)
	quizzes.Delete("/:quizId", handlers.DeleteQuiz)
	quizzes.Post("/:quizId/questions", handlers.AddQuestion)

	admin.Put("/questions/:questionId", handlers.UpdateQuestion)
	admin.Delete("/questions/:questionId", handlers.DeleteQuestion)

	admin.Get("/results/:resultId", handlers.AdminResultDetails)
	admin.Get("/uploads/signature", handlers.GenerateUploadSignature)

	// Live result feed; the socket authenticates itself with an auth frame.
	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(handlers.ServeResultFeed))
}
