package payoutRoutes

import (
	"lms/config"
	payoutController "lms/controllers/payout"
	"lms/middleware"
	"lms/policy"
	payoutValidator "lms/validators/payout"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPayoutRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := payoutController.New(db, cfg)
	auth := middleware.Protected(cfg)

	payoutGroup := app.Group("/payouts", auth)

	payoutGroup.Get("/my", policy.Require(policy.ActionPayoutViewOwn), ctrl.My)
	payoutGroup.Get("", policy.Require(policy.ActionPayoutManage), ctrl.List)
	payoutGroup.Post("", policy.Require(policy.ActionPayoutManage), payoutValidator.CreatePayout(), ctrl.Create)
	payoutGroup.Patch("/:id/paid", policy.Require(policy.ActionPayoutManage), ctrl.MarkPaid)
}
