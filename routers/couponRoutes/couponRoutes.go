package couponRoutes

import (
	"lms/config"
	couponController "lms/controllers/coupon"
	"lms/middleware"
	"lms/policy"
	couponValidator "lms/validators/coupon"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCouponRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := couponController.New(db, cfg)
	auth := middleware.Protected(cfg)

	couponGroup := app.Group("/coupons")

	couponGroup.Get("/validate/:code", auth, ctrl.Validate)

	couponGroup.Get("", auth, policy.Require(policy.ActionCouponManage), ctrl.List)
	couponGroup.Post("", auth, policy.Require(policy.ActionCouponManage), couponValidator.CreateCoupon(), ctrl.Create)
	couponGroup.Patch("/:code", auth, policy.Require(policy.ActionCouponManage), couponValidator.UpdateCoupon(), ctrl.Update)
	couponGroup.Delete("/:code", auth, policy.Require(policy.ActionCouponManage), ctrl.Delete)
}
