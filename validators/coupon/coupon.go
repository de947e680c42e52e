package couponValidator

import (
	"strings"
	"time"

	"lms/apperrors"
	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateCouponRequest struct {
	Code       string     `json:"code" validate:"required,min=2,max=50"`
	PercentOff *int       `json:"percent_off" validate:"required,gte=1,lte=100"`
	IsActive   *bool      `json:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at"`
	MaxUses    *int       `json:"max_uses" validate:"omitempty,gte=1"`
}

type UpdateCouponRequest struct {
	PercentOff *int       `json:"percent_off" validate:"omitempty,gte=1,lte=100"`
	IsActive   *bool      `json:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at"`
	MaxUses    *int       `json:"max_uses" validate:"omitempty,gte=1"`
}

func CreateCoupon() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCouponRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		reqData.Code = strings.ToUpper(strings.TrimSpace(reqData.Code))
		c.Locals("validatedCoupon", reqData)
		return c.Next()
	}
}

func UpdateCoupon() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCouponRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedCouponUpdate", reqData)
		return c.Next()
	}
}
