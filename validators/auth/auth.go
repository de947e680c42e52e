package authValidator

import (
	"lms/apperrors"
	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=student instructor"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedRegister", reqData)
		return c.Next()
	}
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}
