package assignmentRoutes

import (
	"lms/config"
	assignmentController "lms/controllers/assignment"
	"lms/middleware"
	"lms/policy"
	assignmentValidator "lms/validators/assignment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAssignmentRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := assignmentController.New(db, cfg)
	auth := middleware.Protected(cfg)

	app.Get("/courses/:courseId/assignments", auth, ctrl.ListByCourse)

	assignmentGroup := app.Group("/assignments", auth)
	assignmentGroup.Post("", policy.Require(policy.ActionContentMutate), assignmentValidator.CreateAssignment(), ctrl.Create)
	assignmentGroup.Get("/:id", ctrl.GetOne)
	assignmentGroup.Put("/:id", policy.Require(policy.ActionContentMutate), assignmentValidator.UpdateAssignment(), ctrl.Update)
	assignmentGroup.Patch("/:id", policy.Require(policy.ActionContentMutate), assignmentValidator.UpdateAssignment(), ctrl.Update)
	assignmentGroup.Delete("/:id", policy.Require(policy.ActionContentMutate), ctrl.Delete)
	assignmentGroup.Post("/:id/submissions", policy.Require(policy.ActionSubmit), assignmentValidator.Submit(), ctrl.Submit)
	assignmentGroup.Get("/:id/submissions", policy.Require(policy.ActionGrade), ctrl.Submissions)

	submissionGroup := app.Group("/submissions", auth)
	submissionGroup.Get("/my", policy.Require(policy.ActionSubmit), ctrl.MySubmissions)
	submissionGroup.Get("/:id", ctrl.GetSubmission)
	submissionGroup.Delete("/:id", policy.Require(policy.ActionGrade), ctrl.DeleteSubmission)
	submissionGroup.Patch("/:id/grade", policy.Require(policy.ActionGrade), assignmentValidator.Grade(), ctrl.GradeSubmission)
}
