package enrollmentController

import (
	"errors"
	"strings"

	"lms/apperrors"
	"lms/config"
	"lms/middleware"
	"lms/models"

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

type enrollmentRow struct {
	EnrollmentID uint    `json:"enrollment_id"`
	StudentID    uint    `json:"student_id"`
	CourseID     uint    `json:"course_id"`
	Progress     float64 `json:"progress"`
	StudentName  string  `json:"student_name"`
	CourseTitle  string  `json:"course_title"`
}

// List returns all enrollments for admins and own-course enrollments
// for instructors. Students are refused; their view is /courses/enrolled.
func (ctrl *Controller) List(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	query := ctrl.db.Model(&models.Enrollment{}).
		Select("enrollments.id AS enrollment_id, enrollments.student_id, enrollments.course_id, enrollments.progress, users.name AS student_name, courses.title AS course_title").
		Joins("JOIN users ON users.id = enrollments.student_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Order("enrollments.id desc")

	switch user.Role {
	case models.RoleAdmin:
	case models.RoleInstructor:
		query = query.Where("courses.instructor_id = ?", user.ID)
	default:
		return middleware.ErrorResponse(c, apperrors.Authorization("Students cannot view enrollments"))
	}

	var rows []enrollmentRow
	if err := query.Scan(&rows).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Enrollments fetched successfully!", rows)
}

// Create enrolls a student: students enroll themselves, admins must
// name the target student. The unique (student, course) index is the
// duplicate guard.
func (ctrl *Controller) Create(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	reqData := new(struct {
		CourseID  uint  `json:"course_id"`
		StudentID *uint `json:"student_id"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
	}
	if reqData.CourseID == 0 {
		return middleware.ErrorResponse(c, apperrors.Validation("course_id is required"))
	}

	var studentID uint
	if user.IsStudent() {
		studentID = user.ID
	} else {
		if !user.IsAdmin() {
			return middleware.ErrorResponse(c, apperrors.Authorization("Access forbidden: insufficient rights."))
		}
		if reqData.StudentID == nil {
			return middleware.ErrorResponse(c, apperrors.Validation("admin must specify student_id"))
		}
		var student models.User
		if err := ctrl.db.Where("id = ? AND role = ?", *reqData.StudentID, models.RoleStudent).First(&student).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return middleware.ErrorResponse(c, apperrors.NotFound("Student not found"))
			}
			return middleware.ErrorResponse(c, apperrors.Internal(err))
		}
		studentID = student.ID
	}

	var course models.Course
	if err := ctrl.db.First(&course, reqData.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Course not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	enrollment := models.Enrollment{
		StudentID: studentID,
		CourseID:  course.ID,
	}

	if err := ctrl.db.Create(&enrollment).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			return middleware.ErrorResponse(c, apperrors.Conflict("Student is already enrolled in this course"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Enrolled successfully", enrollment)
}

// UpdateProgress lets a student move their own progress marker.
func (ctrl *Controller) UpdateProgress(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid enrollment id"))
	}

	reqData := new(struct {
		Progress *float64 `json:"progress"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
	}
	if reqData.Progress == nil || *reqData.Progress < 0 || *reqData.Progress > 100 {
		return middleware.ErrorResponse(c, apperrors.Validation("progress must be 0..100"))
	}

	var enrollment models.Enrollment
	if err := ctrl.db.First(&enrollment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Enrollment not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if !user.IsAdmin() && enrollment.StudentID != user.ID {
		return middleware.ErrorResponse(c, apperrors.NotFound("Enrollment not found"))
	}

	enrollment.Progress = *reqData.Progress
	if err := ctrl.db.Save(&enrollment).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Progress updated!", enrollment)
}

// Delete removes an enrollment (admin only via route gate).
func (ctrl *Controller) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid enrollment id"))
	}

	var enrollment models.Enrollment
	if err := ctrl.db.First(&enrollment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Enrollment not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if err := ctrl.db.Delete(&enrollment).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Enrollment deleted", enrollment)
}
