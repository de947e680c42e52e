package wishlistRoutes

import (
	"lms/config"
	wishlistController "lms/controllers/wishlist"
	"lms/middleware"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupWishlistRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := wishlistController.New(db, cfg)
	wishlistGroup := app.Group("/wishlist", middleware.Protected(cfg), policy.Require(policy.ActionWishlistUse))

	wishlistGroup.Get("", ctrl.List)
	wishlistGroup.Post("", ctrl.Add)
	wishlistGroup.Delete("/:courseId", ctrl.Remove)
}
