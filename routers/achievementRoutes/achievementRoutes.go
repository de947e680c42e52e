package achievementRoutes

import (
	"lms/config"
	achievementController "lms/controllers/achievement"
	"lms/middleware"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAchievementRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := achievementController.New(db, cfg)
	auth := middleware.Protected(cfg)

	achievementGroup := app.Group("/achievements", auth)
	achievementGroup.Get("/my", ctrl.My)
	achievementGroup.Get("", policy.Require(policy.ActionAchieveAward), ctrl.List)
	achievementGroup.Post("", policy.Require(policy.ActionAchieveAward), ctrl.Award)
	achievementGroup.Delete("/:id", policy.Require(policy.ActionAchieveAward), ctrl.Delete)
}
