package cartValidator

import (
	"lms/apperrors"
	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type AddToCartRequest struct {
	CourseID uint `json:"course_id" validate:"required"`
	Qty      int  `json:"qty" validate:"omitempty,gte=1"`
}

type CheckoutRequest struct {
	CouponCode    string `json:"coupon_code"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,max=50"`
}

func AddToCart() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddToCartRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		if reqData.Qty < 1 {
			reqData.Qty = 1
		}
		c.Locals("validatedAddToCart", reqData)
		return c.Next()
	}
}

func Checkout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CheckoutRequest)
		// an empty body is a valid checkout (no coupon, default method)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
			}
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		if reqData.PaymentMethod == "" {
			reqData.PaymentMethod = "card"
		}
		c.Locals("validatedCheckout", reqData)
		return c.Next()
	}
}
