package assignmentValidator

import (
	"time"

	"lms/apperrors"
	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateAssignmentRequest struct {
	CourseID    uint       `json:"course_id" validate:"required"`
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at"`
}

type UpdateAssignmentRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string    `json:"description"`
	DueAt       *time.Time `json:"due_at"`
}

type SubmitRequest struct {
	FileURL    *string `json:"file_url" validate:"omitempty,url"`
	TextAnswer *string `json:"text_answer"`
}

type GradeRequest struct {
	Grade    *float64 `json:"grade" validate:"required,gte=0,lte=100"`
	Feedback *string  `json:"feedback"`
}

func CreateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateAssignmentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedAssignment", reqData)
		return c.Next()
	}
}

func UpdateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateAssignmentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedAssignmentUpdate", reqData)
		return c.Next()
	}
}

func Submit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		if reqData.FileURL == nil && reqData.TextAnswer == nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Submission needs a file_url or a text_answer"))
		}
		c.Locals("validatedSubmit", reqData)
		return c.Next()
	}
}

func Grade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GradeRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}
