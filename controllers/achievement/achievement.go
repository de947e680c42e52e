package achievementController

import (
	"errors"

	"lms/apperrors"
	"lms/config"
	"lms/middleware"
	"lms/models"
	"lms/policy"

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

// My lists the calling student's achievements.
func (ctrl *Controller) My(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var achievements []models.Achievement
	if err := ctrl.db.Where("student_id = ?", user.ID).Order("id desc").Find(&achievements).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Achievements fetched successfully!", achievements)
}

// List returns awarded achievements. Admins see everything, instructors
// only the awards scoped to their own courses. Optional student_id and
// course_id query filters narrow the result.
func (ctrl *Controller) List(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	query := ctrl.db.Model(&models.Achievement{})
	if !user.IsAdmin() {
		query = query.Joins("JOIN courses ON courses.id = achievements.course_id").
			Where("courses.instructor_id = ?", user.ID)
	}
	if sid := c.QueryInt("student_id"); sid > 0 {
		query = query.Where("achievements.student_id = ?", sid)
	}
	if cid := c.QueryInt("course_id"); cid > 0 {
		query = query.Where("achievements.course_id = ?", cid)
	}

	var achievements []models.Achievement
	if err := query.Order("achievements.id desc").Find(&achievements).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Achievements fetched successfully!", achievements)
}

// Delete revokes an achievement. Instructors can only revoke awards
// scoped to a course they own.
func (ctrl *Controller) Delete(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid achievement id"))
	}

	var achievement models.Achievement
	if err := ctrl.db.First(&achievement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Achievement not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if !user.IsAdmin() {
		if achievement.CourseID == nil {
			return middleware.ErrorResponse(c, apperrors.Authorization("Not your course"))
		}
		if perr := policy.RequireCourseOwnership(ctrl.db, user, *achievement.CourseID); perr != nil {
			return middleware.ErrorResponse(c, perr)
		}
	}

	if err := ctrl.db.Delete(&achievement).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Achievement removed", nil)
}

// Award grants an achievement to a student. Course-scoped awards need
// the student to be enrolled and the caller to manage the course.
func (ctrl *Controller) Award(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	reqData := new(struct {
		StudentID   uint   `json:"student_id"`
		CourseID    *uint  `json:"course_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
	}
	if reqData.StudentID == 0 || reqData.Title == "" {
		return middleware.ErrorResponse(c, apperrors.Validation("student_id and title are required"))
	}

	var student models.User
	if err := ctrl.db.Where("id = ? AND role = ?", reqData.StudentID, models.RoleStudent).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Student not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if reqData.CourseID != nil {
		if perr := policy.RequireCourseOwnership(ctrl.db, user, *reqData.CourseID); perr != nil {
			return middleware.ErrorResponse(c, perr)
		}
		if perr := policy.RequireEnrollment(ctrl.db, student.ID, *reqData.CourseID); perr != nil {
			return middleware.ErrorResponse(c, perr)
		}
	} else if !user.IsAdmin() {
		// instructors can only award within their own courses
		return middleware.ErrorResponse(c, apperrors.Authorization("Instructors must scope awards to a course"))
	}

	achievement := models.Achievement{
		StudentID:   student.ID,
		CourseID:    reqData.CourseID,
		Title:       reqData.Title,
		Description: reqData.Description,
	}
	if err := ctrl.db.Create(&achievement).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Achievement awarded", achievement)
}
