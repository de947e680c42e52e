package quizRoutes

import (
	"lms/config"
	quizController "lms/controllers/quiz"
	"lms/middleware"
	"lms/policy"
	quizValidator "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupQuizRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := quizController.New(db, cfg)
	auth := middleware.Protected(cfg)

	app.Get("/courses/:courseId/quizzes", auth, ctrl.ListByCourse)

	quizGroup := app.Group("/quizzes", auth)
	quizGroup.Post("", policy.Require(policy.ActionContentMutate), quizValidator.CreateQuiz(), ctrl.Create)
	quizGroup.Get("/:id", ctrl.GetOne)
	quizGroup.Patch("/:id", policy.Require(policy.ActionContentMutate), ctrl.Update)
	quizGroup.Delete("/:id", policy.Require(policy.ActionContentMutate), ctrl.Delete)
	quizGroup.Post("/:id/questions", policy.Require(policy.ActionContentMutate), quizValidator.AddQuestion(), ctrl.AddQuestion)
	quizGroup.Get("/:id/questions", ctrl.Questions)
	quizGroup.Patch("/questions/:questionId", policy.Require(policy.ActionContentMutate), quizValidator.AddQuestion(), ctrl.UpdateQuestion)
	quizGroup.Delete("/questions/:questionId", policy.Require(policy.ActionContentMutate), ctrl.DeleteQuestion)
	quizGroup.Post("/:id/attempts", policy.Require(policy.ActionSubmit), quizValidator.Attempt(), ctrl.Attempt)
	quizGroup.Get("/:id/attempts/my", ctrl.MyAttempts)
	quizGroup.Get("/:id/attempts", policy.Require(policy.ActionGrade), ctrl.Attempts)
}
