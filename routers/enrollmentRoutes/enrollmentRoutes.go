package enrollmentRoutes

import (
	"lms/config"
	enrollmentController "lms/controllers/enrollment"
	"lms/middleware"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupEnrollmentRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := enrollmentController.New(db, cfg)
	enrollGroup := app.Group("/enrollments", middleware.Protected(cfg))

	enrollGroup.Get("", ctrl.List)
	enrollGroup.Post("", ctrl.Create)
	enrollGroup.Patch("/:id/progress", ctrl.UpdateProgress)
	enrollGroup.Delete("/:id", policy.Require(policy.ActionEnrollOther), ctrl.Delete)
}
