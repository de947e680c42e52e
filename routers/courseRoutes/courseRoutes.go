package courseRoutes

import (
	"lms/config"
	courseController "lms/controllers/course"
	ratingController "lms/controllers/rating"
	"lms/middleware"
	"lms/policy"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCourseRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := courseController.New(db, cfg)
	ratings := ratingController.New(db, cfg)
	auth := middleware.Protected(cfg)

	courseGroup := app.Group("/courses")

	// static paths before /:id
	courseGroup.Get("/public", ctrl.Public)
	courseGroup.Get("/enrolled", auth, ctrl.Enrolled)

	courseGroup.Get("", auth, ctrl.List)
	courseGroup.Post("", auth, policy.Require(policy.ActionCourseCreate), courseValidator.CreateCourse(), ctrl.Create)
	courseGroup.Get("/:id", auth, ctrl.GetOne)
	courseGroup.Put("/:id", auth, policy.Require(policy.ActionCourseMutate), courseValidator.UpdateCourse(), ctrl.Update)
	courseGroup.Patch("/:id", auth, policy.Require(policy.ActionCourseMutate), courseValidator.UpdateCourse(), ctrl.Update)
	courseGroup.Delete("/:id", auth, policy.Require(policy.ActionCourseMutate), ctrl.Delete)
	courseGroup.Patch("/:id/status", auth, policy.Require(policy.ActionCourseModerate), courseValidator.CourseStatus(), ctrl.UpdateStatus)

	courseGroup.Get("/:courseId/ratings", ratings.ListByCourse)
	courseGroup.Post("/:courseId/ratings", auth, policy.Require(policy.ActionRatingWrite), ratings.Rate)
}
