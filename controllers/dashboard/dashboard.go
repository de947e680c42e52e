package dashboardController

import (
	"lms/apperrors"
	"lms/config"
	"lms/middleware"
	"lms/models"
	"lms/utils"

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

// Ping is the unauthenticated health probe.
func (ctrl *Controller) Ping(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, "pong", nil)
}

// AdminStats aggregates platform-wide counts and revenue.
func (ctrl *Controller) AdminStats(c *fiber.Ctx) error {
	var (
		users        int64
		students     int64
		instructors  int64
		courses      int64
		enrollments  int64
		transactions int64
	)

	counts := []struct {
		model interface{}
		dest  *int64
		where []interface{}
	}{
		{&models.User{}, &users, nil},
		{&models.User{}, &students, []interface{}{"role = ?", models.RoleStudent}},
		{&models.User{}, &instructors, []interface{}{"role = ?", models.RoleInstructor}},
		{&models.Course{}, &courses, nil},
		{&models.Enrollment{}, &enrollments, nil},
		{&models.Transaction{}, &transactions, nil},
	}
	for _, q := range counts {
		query := ctrl.db.Model(q.model)
		if q.where != nil {
			query = query.Where(q.where[0], q.where[1:]...)
		}
		if err := query.Count(q.dest).Error; err != nil {
			return middleware.ErrorResponse(c, apperrors.Internal(err))
		}
	}

	var revenue float64
	if err := ctrl.db.Model(&models.Transaction{}).
		Where("status = ?", models.TransactionStatusPaid).
		Select("COALESCE(SUM(amount_paid), 0)").
		Scan(&revenue).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Stats fetched successfully!", fiber.Map{
		"total_users":        users,
		"total_students":     students,
		"total_instructors":  instructors,
		"total_courses":      courses,
		"total_enrollments":  enrollments,
		"total_transactions": transactions,
		"total_revenue":      utils.Round2(revenue),
	})
}

// StudentDashboard summarizes the calling student's activity.
func (ctrl *Controller) StudentDashboard(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var (
		enrolled     int64
		achievements int64
		attempts     int64
		avgProgress  float64
	)

	if err := ctrl.db.Model(&models.Enrollment{}).Where("student_id = ?", user.ID).Count(&enrolled).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}
	if err := ctrl.db.Model(&models.Achievement{}).Where("student_id = ?", user.ID).Count(&achievements).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}
	if err := ctrl.db.Model(&models.QuizAttempt{}).Where("student_id = ?", user.ID).Count(&attempts).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}
	if err := ctrl.db.Model(&models.Enrollment{}).
		Where("student_id = ?", user.ID).
		Select("COALESCE(AVG(progress), 0)").
		Scan(&avgProgress).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Dashboard fetched successfully!", fiber.Map{
		"enrolled_courses": enrolled,
		"achievements":     achievements,
		"quiz_attempts":    attempts,
		"average_progress": utils.Round2(avgProgress),
	})
}

// InstructorDashboard summarizes the calling instructor's courses,
// students and earnings.
func (ctrl *Controller) InstructorDashboard(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var (
		courses  int64
		students int64
		earned   float64
		pending  float64
	)

	if err := ctrl.db.Model(&models.Course{}).Where("instructor_id = ?", user.ID).Count(&courses).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}
	if err := ctrl.db.Model(&models.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.instructor_id = ?", user.ID).
		Count(&students).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}
	if err := ctrl.db.Model(&models.InstructorPayout{}).
		Where("instructor_id = ? AND status = ?", user.ID, models.PayoutStatusPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&earned).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}
	if err := ctrl.db.Model(&models.InstructorPayout{}).
		Where("instructor_id = ? AND status = ?", user.ID, models.PayoutStatusPending).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&pending).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Dashboard fetched successfully!", fiber.Map{
		"total_courses":   courses,
		"total_students":  students,
		"earned":          utils.Round2(earned),
		"pending_payouts": utils.Round2(pending),
	})
}
