package dashboardRoutes

import (
	"lms/config"
	dashboardController "lms/controllers/dashboard"
	"lms/middleware"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupDashboardRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := dashboardController.New(db, cfg)
	auth := middleware.Protected(cfg)

	app.Get("/ping", ctrl.Ping)
	app.Get("/admin/stats", auth, policy.Require(policy.ActionAdminView), ctrl.AdminStats)
	app.Get("/student/dashboard-data", auth, ctrl.StudentDashboard)
	app.Get("/instructor/dashboard-data", auth, ctrl.InstructorDashboard)
}
