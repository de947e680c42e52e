package courseValidator

import (
	"lms/apperrors"
	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateCourseRequest struct {
	Title        string   `json:"title" validate:"required,min=3,max=200"`
	Description  string   `json:"description"`
	Price        *float64 `json:"price" validate:"required,gte=0"`
	ThumbnailURL string   `json:"thumbnail_url"`
	IsPublic     *bool    `json:"is_public"`
	InstructorID *uint    `json:"instructor_id"` // admin only
}

type UpdateCourseRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	ThumbnailURL *string  `json:"thumbnail_url"`
	IsPublic     *bool    `json:"is_public"`
}

type CourseStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

func CourseStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseStatusRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedCourseStatus", reqData)
		return c.Next()
	}
}
