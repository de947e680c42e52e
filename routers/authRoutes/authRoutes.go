package authRoutes

import (
	"lms/config"
	authController "lms/controllers/auth"
	"lms/middleware"
	authValidator "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := authController.New(db, cfg)
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidator.Register(), ctrl.Register)
	authGroup.Post("/login", authValidator.Login(), ctrl.Login)
	authGroup.Get("/me", middleware.Protected(cfg), ctrl.Me)
}
