package cartRoutes

import (
	"lms/config"
	cartController "lms/controllers/cart"
	"lms/middleware"
	"lms/policy"
	cartValidator "lms/validators/cart"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCartRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := cartController.New(db, cfg)
	auth := middleware.Protected(cfg)

	cartGroup := app.Group("/cart", auth, policy.Require(policy.ActionCartUse))
	cartGroup.Get("", ctrl.List)
	cartGroup.Post("", cartValidator.AddToCart(), ctrl.Add)
	cartGroup.Delete("/:id", ctrl.Remove)
	cartGroup.Post("/checkout", cartValidator.Checkout(), ctrl.Checkout)

	txGroup := app.Group("/transactions", auth)
	txGroup.Get("/my", ctrl.MyTransactions)
	txGroup.Get("", policy.Require(policy.ActionTxListAll), ctrl.AllTransactions)
	txGroup.Patch("/:id/refund", policy.Require(policy.ActionRefund), ctrl.Refund)
}
