package quizValidator

import (
	"lms/apperrors"
	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateQuizRequest struct {
	CourseID    uint   `json:"course_id" validate:"required"`
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description"`
}

type QuestionRequest struct {
	Prompt       string   `json:"prompt" validate:"required,min=3"`
	Options      []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectIndex *int     `json:"correct_index" validate:"required,gte=0"`
}

type AttemptRequest struct {
	Answers []int `json:"answers" validate:"required,min=1"`
}

func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateQuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

func AddQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuestionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		if *reqData.CorrectIndex >= len(reqData.Options) {
			return middleware.ErrorResponse(c, apperrors.Validation("correct_index is out of range"))
		}
		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

func Attempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AttemptRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedAttempt", reqData)
		return c.Next()
	}
}
