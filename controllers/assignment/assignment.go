package assignmentController

import (
	"errors"

	"lms/apperrors"
	"lms/config"
	"lms/middleware"
	"lms/models"
	"lms/policy"
	assignmentValidator "lms/validators/assignment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Controller struct {
	db  *gorm.DB
	cfg *config.Config
}

func New(db *gorm.DB, cfg *config.Config) *Controller {
	return &Controller{db: db, cfg: cfg}
}

func (ctrl *Controller) findAssignment(id int) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := ctrl.db.First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Assignment not found")
		}
		return nil, apperrors.Internal(err)
	}
	return &assignment, nil
}

// requireCourseAccess gates reads: managers and enrolled students.
func (ctrl *Controller) requireCourseAccess(user middleware.AuthUser, courseID uint) error {
	if user.IsStudent() {
		return policy.RequireEnrollment(ctrl.db, user.ID, courseID)
	}
	return policy.RequireCourseOwnership(ctrl.db, user, courseID)
}

// ListByCourse returns a course's assignments to anyone with access to
// the course.
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
	if err := ctrl.requireCourseAccess(user, course.ID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var assignments []models.Assignment
	if err := ctrl.db.Where("course_id = ?", course.ID).Order("id desc").Find(&assignments).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Assignments fetched successfully!", assignments)
}

// GetOne returns a single assignment to anyone with course access.
func (ctrl *Controller) GetOne(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid assignment id"))
	}

	assignment, aerr := ctrl.findAssignment(id)
	if aerr != nil {
		return middleware.ErrorResponse(c, aerr)
	}

	user, _ := middleware.CurrentUser(c)
	if err := ctrl.requireCourseAccess(user, assignment.CourseID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Assignment fetched successfully!", assignment)
}

// Create adds an assignment to a course the caller manages.
func (ctrl *Controller) Create(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	reqData, ok := c.Locals("validatedAssignment").(*assignmentValidator.CreateAssignmentRequest)
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

	assignment := models.Assignment{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		DueAt:       reqData.DueAt,
	}
	if err := ctrl.db.Create(&assignment).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Assignment created", assignment)
}

// Update mutates an assignment (course manager only).
func (ctrl *Controller) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid assignment id"))
	}

	assignment, aerr := ctrl.findAssignment(id)
	if aerr != nil {
		return middleware.ErrorResponse(c, aerr)
	}

	user, _ := middleware.CurrentUser(c)
	if perr := policy.RequireCourseOwnership(ctrl.db, user, assignment.CourseID); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	reqData, ok := c.Locals("validatedAssignmentUpdate").(*assignmentValidator.UpdateAssignmentRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	if reqData.Title != nil {
		assignment.Title = *reqData.Title
	}
	if reqData.Description != nil {
		assignment.Description = *reqData.Description
	}
	if reqData.DueAt != nil {
		assignment.DueAt = reqData.DueAt
	}

	if err := ctrl.db.Save(assignment).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Assignment updated!", assignment)
}

// Delete removes an assignment and, via FK cascade, its submissions.
func (ctrl *Controller) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid assignment id"))
	}

	assignment, aerr := ctrl.findAssignment(id)
	if aerr != nil {
		return middleware.ErrorResponse(c, aerr)
	}

	user, _ := middleware.CurrentUser(c)
	if perr := policy.RequireCourseOwnership(ctrl.db, user, assignment.CourseID); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	if err := ctrl.db.Delete(assignment).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Assignment deleted", nil)
}

// Submit upserts the calling student's submission: one row per
// (assignment, student), re-submitting replaces the answer and clears
// any earlier grade.
func (ctrl *Controller) Submit(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid assignment id"))
	}

	assignment, aerr := ctrl.findAssignment(id)
	if aerr != nil {
		return middleware.ErrorResponse(c, aerr)
	}

	if perr := policy.RequireEnrollment(ctrl.db, user.ID, assignment.CourseID); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	reqData, ok := c.Locals("validatedSubmit").(*assignmentValidator.SubmitRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	submission := models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    user.ID,
		FileURL:      reqData.FileURL,
		TextAnswer:   reqData.TextAnswer,
	}

	if err := ctrl.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "assignment_id"}, {Name: "student_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"file_url":    reqData.FileURL,
			"text_answer": reqData.TextAnswer,
			"grade":       nil,
			"feedback":    nil,
		}),
	}).Create(&submission).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Submitted!", submission)
}

type submissionRow struct {
	SubmissionID uint     `json:"submission_id"`
	AssignmentID uint     `json:"assignment_id"`
	StudentID    uint     `json:"student_id"`
	StudentName  string   `json:"student_name"`
	FileURL      *string  `json:"file_url"`
	TextAnswer   *string  `json:"text_answer"`
	Grade        *float64 `json:"grade"`
	Feedback     *string  `json:"feedback"`
}

// Submissions lists an assignment's submissions for the course manager.
func (ctrl *Controller) Submissions(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid assignment id"))
	}

	assignment, aerr := ctrl.findAssignment(id)
	if aerr != nil {
		return middleware.ErrorResponse(c, aerr)
	}

	user, _ := middleware.CurrentUser(c)
	if perr := policy.RequireCourseOwnership(ctrl.db, user, assignment.CourseID); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	var rows []submissionRow
	if err := ctrl.db.Model(&models.Submission{}).
		Select("submissions.id AS submission_id, submissions.assignment_id, submissions.student_id, users.name AS student_name, submissions.file_url, submissions.text_answer, submissions.grade, submissions.feedback").
		Joins("JOIN users ON users.id = submissions.student_id").
		Where("submissions.assignment_id = ?", assignment.ID).
		Order("submissions.id desc").
		Scan(&rows).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Submissions fetched successfully!", rows)
}

// GradeSubmission sets the grade and feedback on one submission.
func (ctrl *Controller) GradeSubmission(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid submission id"))
	}

	var submission models.Submission
	if err := ctrl.db.First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Submission not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	var assignment models.Assignment
	if err := ctrl.db.First(&assignment, submission.AssignmentID).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	user, _ := middleware.CurrentUser(c)
	if perr := policy.RequireCourseOwnership(ctrl.db, user, assignment.CourseID); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	reqData, ok := c.Locals("validatedGrade").(*assignmentValidator.GradeRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	submission.Grade = reqData.Grade
	submission.Feedback = reqData.Feedback
	if err := ctrl.db.Save(&submission).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Submission graded!", submission)
}

// GetSubmission returns one submission to its student or the course
// manager.
func (ctrl *Controller) GetSubmission(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid submission id"))
	}

	var submission models.Submission
	if err := ctrl.db.First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Submission not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	user, _ := middleware.CurrentUser(c)
	if submission.StudentID != user.ID {
		var assignment models.Assignment
		if err := ctrl.db.First(&assignment, submission.AssignmentID).Error; err != nil {
			return middleware.ErrorResponse(c, apperrors.Internal(err))
		}
		if perr := policy.RequireCourseOwnership(ctrl.db, user, assignment.CourseID); perr != nil {
			return middleware.ErrorResponse(c, perr)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Submission fetched successfully!", submission)
}

// DeleteSubmission removes a submission (course manager only).
func (ctrl *Controller) DeleteSubmission(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid submission id"))
	}

	var submission models.Submission
	if err := ctrl.db.First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Submission not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	var assignment models.Assignment
	if err := ctrl.db.First(&assignment, submission.AssignmentID).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	user, _ := middleware.CurrentUser(c)
	if perr := policy.RequireCourseOwnership(ctrl.db, user, assignment.CourseID); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	if err := ctrl.db.Delete(&submission).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Submission deleted", nil)
}

// MySubmissions lists the calling student's own submissions.
func (ctrl *Controller) MySubmissions(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var submissions []models.Submission
	if err := ctrl.db.Where("student_id = ?", user.ID).Order("id desc").Find(&submissions).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Submissions fetched successfully!", submissions)
}
