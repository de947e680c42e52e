package couponController

import (
	"errors"
	"strings"
	"time"

	"lms/apperrors"
	"lms/config"
	"lms/middleware"
	"lms/models"
	couponValidator "lms/validators/coupon"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Controller struct {
	db  *gorm.DB
	cfg *config.Config
}

func New(db *gorm.DB, cfg *config.Config) *Controller {
	return &Controller{db: db, cfg: cfg}
}

// List returns all coupons (admin).
func (ctrl *Controller) List(c *fiber.Ctx) error {
	var coupons []models.Coupon
	if err := ctrl.db.Order("id desc").Find(&coupons).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Coupons fetched successfully!", coupons)
}

// Create adds a coupon. Codes are stored upper-cased; duplicates are a
// conflict, not a validation failure.
func (ctrl *Controller) Create(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCoupon").(*couponValidator.CreateCouponRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	coupon := models.Coupon{
		Code:       reqData.Code,
		PercentOff: *reqData.PercentOff,
		IsActive:   true,
		ExpiresAt:  reqData.ExpiresAt,
		MaxUses:    reqData.MaxUses,
	}
	if reqData.IsActive != nil {
		coupon.IsActive = *reqData.IsActive
	}

	if err := ctrl.db.Create(&coupon).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			return middleware.ErrorResponse(c, apperrors.Conflict("Coupon code already exists"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Coupon created", coupon)
}

// Update mutates a coupon's terms. The code itself is immutable; change
// of code means a new coupon.
func (ctrl *Controller) Update(c *fiber.Ctx) error {
	code := strings.ToUpper(strings.TrimSpace(c.Params("code")))
	if code == "" {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid coupon code"))
	}

	reqData, ok := c.Locals("validatedCouponUpdate").(*couponValidator.UpdateCouponRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	var coupon models.Coupon
	if err := ctrl.db.Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Coupon not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if reqData.PercentOff != nil {
		coupon.PercentOff = *reqData.PercentOff
	}
	if reqData.IsActive != nil {
		coupon.IsActive = *reqData.IsActive
	}
	if reqData.ExpiresAt != nil {
		coupon.ExpiresAt = reqData.ExpiresAt
	}
	if reqData.MaxUses != nil {
		coupon.MaxUses = reqData.MaxUses
	}

	if err := ctrl.db.Save(&coupon).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Coupon updated!", coupon)
}

// Delete removes a coupon. Past transactions keep the code as a string
// snapshot, so deleting is safe.
func (ctrl *Controller) Delete(c *fiber.Ctx) error {
	code := strings.ToUpper(strings.TrimSpace(c.Params("code")))
	if code == "" {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid coupon code"))
	}

	res := ctrl.db.Where("code = ?", code).Delete(&models.Coupon{})
	if res.Error != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(res.Error))
	}
	if res.RowsAffected == 0 {
		return middleware.ErrorResponse(c, apperrors.NotFound("Coupon not found"))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Coupon deleted", nil)
}

// Validate checks a code for the storefront without consuming a use.
func (ctrl *Controller) Validate(c *fiber.Ctx) error {
	code := strings.ToUpper(strings.TrimSpace(c.Params("code")))

	var coupon models.Coupon
	err := ctrl.db.Where("code = ?", code).First(&coupon).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}
	if err != nil || !coupon.Usable(time.Now()) {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid or expired coupon"))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Coupon is valid", fiber.Map{
		"code":        coupon.Code,
		"percent_off": coupon.PercentOff,
	})
}
