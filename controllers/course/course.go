package courseController

import (
	"errors"

	"lms/apperrors"
	"lms/config"
	"lms/middleware"
	"lms/models"
	"lms/policy"
	courseValidator "lms/validators/course"

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

func (ctrl *Controller) findCourse(id int) (*models.Course, error) {
	var course models.Course
	if err := ctrl.db.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Course not found")
		}
		return nil, apperrors.Internal(err)
	}
	return &course, nil
}

// List is role-scoped: admins see everything, instructors their own
// courses, students the courses they are enrolled in.
func (ctrl *Controller) List(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var courses []models.Course
	var err error

	switch user.Role {
	case models.RoleAdmin:
		err = ctrl.db.Order("id desc").Find(&courses).Error
	case models.RoleInstructor:
		err = ctrl.db.Where("instructor_id = ?", user.ID).Order("id desc").Find(&courses).Error
	default:
		err = ctrl.db.
			Joins("JOIN enrollments ON enrollments.course_id = courses.id").
			Where("enrollments.student_id = ?", user.ID).
			Order("courses.id desc").
			Find(&courses).Error
	}
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Courses fetched successfully!", courses)
}

// Public is the unauthenticated catalog: approved, public courses only.
func (ctrl *Controller) Public(c *fiber.Ctx) error {
	var courses []models.Course
	if err := ctrl.db.
		Where("status = ? AND is_public = ?", models.CourseStatusApproved, true).
		Order("id desc").
		Find(&courses).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Courses fetched successfully!", courses)
}

// Enrolled lists the calling student's courses.
func (ctrl *Controller) Enrolled(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var courses []models.Course
	if err := ctrl.db.
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.student_id = ?", user.ID).
		Order("courses.id desc").
		Find(&courses).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Courses fetched successfully!", courses)
}

// GetOne returns a single course. Approved public courses are visible
// to any authenticated caller; everything else only to the owner or an
// admin.
func (ctrl *Controller) GetOne(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid course id"))
	}

	course, cerr := ctrl.findCourse(id)
	if cerr != nil {
		return middleware.ErrorResponse(c, cerr)
	}

	user, _ := middleware.CurrentUser(c)
	if course.Status != models.CourseStatusApproved || !course.IsPublic {
		if perr := policy.CanManageCourse(user, course); perr != nil {
			enrolled, eerr := policy.IsEnrolled(ctrl.db, user.ID, course.ID)
			if eerr != nil {
				return middleware.ErrorResponse(c, apperrors.Internal(eerr))
			}
			if !enrolled {
				return middleware.ErrorResponse(c, apperrors.NotFound("Course not found"))
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Course fetched successfully!", course)
}

// Create adds a course owned by the calling instructor, or by the
// instructor an admin names.
func (ctrl *Controller) Create(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	var instructorID uint
	if user.IsAdmin() {
		if reqData.InstructorID == nil {
			return middleware.ErrorResponse(c, apperrors.Validation("Admin must specify instructor_id"))
		}
		instructorID = *reqData.InstructorID

		var instructor models.User
		if err := ctrl.db.Where("id = ? AND role = ?", instructorID, models.RoleInstructor).First(&instructor).Error; err != nil {
			return middleware.ErrorResponse(c, apperrors.NotFound("Instructor not found"))
		}
	} else {
		instructorID = user.ID
	}

	isPublic := true
	if reqData.IsPublic != nil {
		isPublic = *reqData.IsPublic
	}

	course := models.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		Price:        *reqData.Price,
		InstructorID: instructorID,
		ThumbnailURL: reqData.ThumbnailURL,
		Status:       models.CourseStatusPending,
		IsPublic:     isPublic,
	}

	if err := ctrl.db.Create(&course).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Course added", course)
}

// Update mutates an existing course. A foreign instructor gets 403, not
// 404: the course exists, it just is not theirs.
func (ctrl *Controller) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid course id"))
	}

	course, cerr := ctrl.findCourse(id)
	if cerr != nil {
		return middleware.ErrorResponse(c, cerr)
	}

	user, _ := middleware.CurrentUser(c)
	if perr := policy.CanManageCourse(user, course); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.Price != nil {
		course.Price = *reqData.Price
	}
	if reqData.ThumbnailURL != nil {
		course.ThumbnailURL = *reqData.ThumbnailURL
	}
	if reqData.IsPublic != nil {
		course.IsPublic = *reqData.IsPublic
	}

	if err := ctrl.db.Save(course).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Course updated successfully!", course)
}

// Delete removes a course (owner or admin).
func (ctrl *Controller) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid course id"))
	}

	course, cerr := ctrl.findCourse(id)
	if cerr != nil {
		return middleware.ErrorResponse(c, cerr)
	}

	user, _ := middleware.CurrentUser(c)
	if perr := policy.CanManageCourse(user, course); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	if err := ctrl.db.Delete(course).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Course deleted", nil)
}

// UpdateStatus moves a course between pending/approved/rejected. Admin
// only; the route is gated by the policy matrix.
func (ctrl *Controller) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid course id"))
	}

	reqData, ok := c.Locals("validatedCourseStatus").(*courseValidator.CourseStatusRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	course, cerr := ctrl.findCourse(id)
	if cerr != nil {
		return middleware.ErrorResponse(c, cerr)
	}

	course.Status = reqData.Status
	if err := ctrl.db.Save(course).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Course status updated!", course)
}
