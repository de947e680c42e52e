package payoutValidator

import (
	"lms/apperrors"
	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type CreatePayoutRequest struct {
	TransactionID uint     `json:"transaction_id" validate:"required"`
	Amount        *float64 `json:"amount" validate:"omitempty,gt=0"`
}

func CreatePayout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreatePayoutRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedPayout", reqData)
		return c.Next()
	}
}
