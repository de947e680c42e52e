package userRoutes

import (
	"lms/config"
	userController "lms/controllers/user"
	"lms/middleware"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupUserRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := userController.New(db, cfg)
	userGroup := app.Group("/users", middleware.Protected(cfg), policy.Require(policy.ActionUserManage))

	userGroup.Get("", ctrl.List)
	userGroup.Put("/:id", ctrl.Update)
	userGroup.Patch("/:id", ctrl.Patch)
	userGroup.Delete("/:id", ctrl.Delete)
}
