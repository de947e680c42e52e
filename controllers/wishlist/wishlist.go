package wishlistController

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

type wishlistRow struct {
	WishlistID uint    `json:"wishlist_id"`
	CourseID   uint    `json:"course_id"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
}

// List shows the student's wishlist with course details.
func (ctrl *Controller) List(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var rows []wishlistRow
	if err := ctrl.db.Model(&models.WishlistItem{}).
		Select("wishlist.id AS wishlist_id, courses.id AS course_id, courses.title, courses.price").
		Joins("JOIN courses ON courses.id = wishlist.course_id").
		Where("wishlist.student_id = ?", user.ID).
		Order("wishlist.id desc").
		Scan(&rows).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Wishlist fetched successfully!", rows)
}

// Add saves a course to the wishlist. Re-adding is a conflict.
func (ctrl *Controller) Add(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	reqData := new(struct {
		CourseID uint `json:"course_id"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
	}
	if reqData.CourseID == 0 {
		return middleware.ErrorResponse(c, apperrors.Validation("course_id is required"))
	}

	var course models.Course
	if err := ctrl.db.First(&course, reqData.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Course not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	item := models.WishlistItem{
		StudentID: user.ID,
		CourseID:  course.ID,
	}
	if err := ctrl.db.Create(&item).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			return middleware.ErrorResponse(c, apperrors.Conflict("Course is already in wishlist"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Added to wishlist!", item)
}

// Remove deletes a wishlist entry by course id.
func (ctrl *Controller) Remove(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid course id"))
	}

	res := ctrl.db.Where("student_id = ? AND course_id = ?", user.ID, courseID).Delete(&models.WishlistItem{})
	if res.Error != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(res.Error))
	}
	if res.RowsAffected == 0 {
		return middleware.ErrorResponse(c, apperrors.NotFound("Not found"))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Removed", nil)
}
