package quizController

import (
	"encoding/json"
	"errors"

	"lms/apperrors"
	"lms/config"
	"lms/middleware"
	"lms/models"
	"lms/policy"
	"lms/utils"
	quizValidator "lms/validators/quiz"

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

func (ctrl *Controller) findQuiz(id int) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := ctrl.db.First(&quiz, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Quiz not found")
		}
		return nil, apperrors.Internal(err)
	}
	return &quiz, nil
}

// questionView hides the answer key from students.
type questionView struct {
	QuestionID uint     `json:"question_id"`
	QuizID     uint     `json:"quiz_id"`
	Prompt     string   `json:"prompt"`
	Options    []string `json:"options"`
}

// ListByCourse returns a course's quizzes to managers and enrolled
// students.
func (ctrl *Controller) ListByCourse(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid course id"))
	}

	var course models.Course
	if err := ctrl.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Course not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	user, _ := middleware.CurrentUser(c)
	if user.IsStudent() {
		if perr := policy.RequireEnrollment(ctrl.db, user.ID, course.ID); perr != nil {
			return middleware.ErrorResponse(c, perr)
		}
	} else if perr := policy.CanManageCourse(user, &course); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	var quizzes []models.Quiz
	if err := ctrl.db.Where("course_id = ?", course.ID).Order("id desc").Find(&quizzes).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Quizzes fetched successfully!", quizzes)
}

// Create adds a quiz to a course the caller manages.
func (ctrl *Controller) Create(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	reqData, ok := c.Locals("validatedQuiz").(*quizValidator.CreateQuizRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	var course models.Course
	if err := ctrl.db.First(&course, reqData.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Course not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if perr := policy.CanManageCourse(user, &course); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	quiz := models.Quiz{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
	}
	if err := ctrl.db.Create(&quiz).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Quiz created", quiz)
}

// GetOne returns the quiz together with its questions, with the answer
// key stripped for students.
func (ctrl *Controller) GetOne(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid quiz id"))
	}

	quiz, qerr := ctrl.findQuiz(id)
	if qerr != nil {
		return middleware.ErrorResponse(c, qerr)
	}

	user, _ := middleware.CurrentUser(c)
	manager := policy.RequireCourseOwnership(ctrl.db, user, quiz.CourseID) == nil
	if !manager {
		if perr := policy.RequireEnrollment(ctrl.db, user.ID, quiz.CourseID); perr != nil {
			return middleware.ErrorResponse(c, perr)
		}
	}

	var questions []models.Question
	if err := ctrl.db.Where("quiz_id = ?", quiz.ID).Order("id").Find(&questions).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if manager {
		return middleware.JsonResponse(c, fiber.StatusOK, "Quiz fetched successfully!", fiber.Map{
			"quiz":      quiz,
			"questions": questions,
		})
	}

	views := make([]questionView, 0, len(questions))
	for _, q := range questions {
		var opts []string
		if err := json.Unmarshal([]byte(q.Options), &opts); err != nil {
			return middleware.ErrorResponse(c, apperrors.Internal(err))
		}
		views = append(views, questionView{
			QuestionID: q.ID,
			QuizID:     q.QuizID,
			Prompt:     q.Prompt,
			Options:    opts,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Quiz fetched successfully!", fiber.Map{
		"quiz":      quiz,
		"questions": views,
	})
}

// Update mutates a quiz's title and description.
func (ctrl *Controller) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid quiz id"))
	}

	quiz, qerr := ctrl.findQuiz(id)
	if qerr != nil {
		return middleware.ErrorResponse(c, qerr)
	}

	user, _ := middleware.CurrentUser(c)
	if perr := policy.RequireCourseOwnership(ctrl.db, user, quiz.CourseID); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	reqData := new(struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
	}

	if reqData.Title != nil && *reqData.Title != "" {
		quiz.Title = *reqData.Title
	}
	if reqData.Description != nil {
		quiz.Description = *reqData.Description
	}

	if err := ctrl.db.Save(quiz).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Quiz updated!", quiz)
}

// Delete removes a quiz and cascades its questions and attempts.
func (ctrl *Controller) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid quiz id"))
	}

	quiz, qerr := ctrl.findQuiz(id)
	if qerr != nil {
		return middleware.ErrorResponse(c, qerr)
	}

	user, _ := middleware.CurrentUser(c)
	if perr := policy.RequireCourseOwnership(ctrl.db, user, quiz.CourseID); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	if err := ctrl.db.Delete(quiz).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Quiz deleted", nil)
}

// AddQuestion appends a question to the quiz. Options are stored as a
// JSON array.
func (ctrl *Controller) AddQuestion(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid quiz id"))
	}

	quiz, qerr := ctrl.findQuiz(id)
	if qerr != nil {
		return middleware.ErrorResponse(c, qerr)
	}

	user, _ := middleware.CurrentUser(c)
	if perr := policy.RequireCourseOwnership(ctrl.db, user, quiz.CourseID); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	reqData, ok := c.Locals("validatedQuestion").(*quizValidator.QuestionRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	optionsJSON, err := json.Marshal(reqData.Options)
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	question := models.Question{
		QuizID:       quiz.ID,
		Prompt:       reqData.Prompt,
		Options:      string(optionsJSON),
		CorrectIndex: *reqData.CorrectIndex,
	}
	if err := ctrl.db.Create(&question).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Question added", question)
}

func (ctrl *Controller) findQuestion(id int) (*models.Question, *models.Quiz, error) {
	var question models.Question
	if err := ctrl.db.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFound("Question not found")
		}
		return nil, nil, apperrors.Internal(err)
	}
	var quiz models.Quiz
	if err := ctrl.db.First(&quiz, question.QuizID).Error; err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	return &question, &quiz, nil
}

// UpdateQuestion rewrites a question in place.
func (ctrl *Controller) UpdateQuestion(c *fiber.Ctx) error {
	id, err := c.ParamsInt("questionId")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid question id"))
	}

	question, quiz, qerr := ctrl.findQuestion(id)
	if qerr != nil {
		return middleware.ErrorResponse(c, qerr)
	}

	user, _ := middleware.CurrentUser(c)
	if perr := policy.RequireCourseOwnership(ctrl.db, user, quiz.CourseID); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	reqData, ok := c.Locals("validatedQuestion").(*quizValidator.QuestionRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	optionsJSON, err := json.Marshal(reqData.Options)
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	question.Prompt = reqData.Prompt
	question.Options = string(optionsJSON)
	question.CorrectIndex = *reqData.CorrectIndex

	if err := ctrl.db.Save(question).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Question updated!", question)
}

// DeleteQuestion removes one question.
func (ctrl *Controller) DeleteQuestion(c *fiber.Ctx) error {
	id, err := c.ParamsInt("questionId")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid question id"))
	}

	question, quiz, qerr := ctrl.findQuestion(id)
	if qerr != nil {
		return middleware.ErrorResponse(c, qerr)
	}

	user, _ := middleware.CurrentUser(c)
	if perr := policy.RequireCourseOwnership(ctrl.db, user, quiz.CourseID); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	if err := ctrl.db.Delete(question).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Question deleted", nil)
}

// Questions returns the quiz's questions. Students get them without the
// correct_index; the course manager sees everything.
func (ctrl *Controller) Questions(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid quiz id"))
	}

	quiz, qerr := ctrl.findQuiz(id)
	if qerr != nil {
		return middleware.ErrorResponse(c, qerr)
	}

	user, _ := middleware.CurrentUser(c)
	manager := policy.RequireCourseOwnership(ctrl.db, user, quiz.CourseID) == nil
	if !manager {
		if perr := policy.RequireEnrollment(ctrl.db, user.ID, quiz.CourseID); perr != nil {
			return middleware.ErrorResponse(c, perr)
		}
	}

	var questions []models.Question
	if err := ctrl.db.Where("quiz_id = ?", quiz.ID).Order("id").Find(&questions).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if manager {
		return middleware.JsonResponse(c, fiber.StatusOK, "Questions fetched successfully!", questions)
	}

	views := make([]questionView, 0, len(questions))
	for _, q := range questions {
		var opts []string
		if err := json.Unmarshal([]byte(q.Options), &opts); err != nil {
			return middleware.ErrorResponse(c, apperrors.Internal(err))
		}
		views = append(views, questionView{
			QuestionID: q.ID,
			QuizID:     q.QuizID,
			Prompt:     q.Prompt,
			Options:    opts,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Questions fetched successfully!", views)
}

// Attempt scores a student's answers against the quiz's questions in id
// order. Score is percent correct, rounded to two decimals. A quiz with
// no questions cannot be attempted.
func (ctrl *Controller) Attempt(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid quiz id"))
	}

	quiz, qerr := ctrl.findQuiz(id)
	if qerr != nil {
		return middleware.ErrorResponse(c, qerr)
	}

	if perr := policy.RequireEnrollment(ctrl.db, user.ID, quiz.CourseID); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	reqData, ok := c.Locals("validatedAttempt").(*quizValidator.AttemptRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	var questions []models.Question
	if err := ctrl.db.Where("quiz_id = ?", quiz.ID).Order("id").Find(&questions).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if len(questions) == 0 {
		return middleware.ErrorResponse(c, apperrors.InvalidState("Quiz has no questions"))
	}
	if len(reqData.Answers) != len(questions) {
		return middleware.ErrorResponse(c, apperrors.Validation("Answer count does not match question count"))
	}

	correct := 0
	for i, q := range questions {
		if reqData.Answers[i] == q.CorrectIndex {
			correct++
		}
	}
	score := utils.Round2(100 * float64(correct) / float64(len(questions)))

	attempt := models.QuizAttempt{
		QuizID:    quiz.ID,
		StudentID: user.ID,
		Score:     score,
	}
	if err := ctrl.db.Create(&attempt).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Attempt recorded", fiber.Map{
		"attempt": attempt,
		"correct": correct,
		"total":   len(questions),
	})
}

type attemptRow struct {
	AttemptID   uint    `json:"attempt_id"`
	StudentID   uint    `json:"student_id"`
	StudentName string  `json:"student_name"`
	Score       float64 `json:"score"`
	CompletedAt string  `json:"completed_at"`
}

// Attempts lists every attempt on a quiz for the course manager.
func (ctrl *Controller) Attempts(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid quiz id"))
	}

	quiz, qerr := ctrl.findQuiz(id)
	if qerr != nil {
		return middleware.ErrorResponse(c, qerr)
	}

	user, _ := middleware.CurrentUser(c)
	if perr := policy.RequireCourseOwnership(ctrl.db, user, quiz.CourseID); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	var rows []attemptRow
	if err := ctrl.db.Model(&models.QuizAttempt{}).
		Select("quiz_attempts.id AS attempt_id, quiz_attempts.student_id, users.name AS student_name, quiz_attempts.score, quiz_attempts.completed_at").
		Joins("JOIN users ON users.id = quiz_attempts.student_id").
		Where("quiz_attempts.quiz_id = ?", quiz.ID).
		Order("quiz_attempts.id desc").
		Scan(&rows).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Attempts fetched successfully!", rows)
}

// MyAttempts lists the calling student's attempts on one quiz.
func (ctrl *Controller) MyAttempts(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid quiz id"))
	}

	var attempts []models.QuizAttempt
	if err := ctrl.db.Where("quiz_id = ? AND student_id = ?", id, user.ID).Order("id desc").Find(&attempts).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Attempts fetched successfully!", attempts)
}
