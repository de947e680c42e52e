package ratingController

import (
	"errors"

	"lms/apperrors"
	"lms/config"
	"lms/middleware"
	"lms/models"
	"lms/policy"
	"lms/utils"

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

type ratingRow struct {
	RatingID    uint    `json:"rating_id"`
	CourseID    uint    `json:"course_id"`
	StudentID   uint    `json:"student_id"`
	StudentName string  `json:"student_name"`
	Rating      int     `json:"rating"`
	Review      *string `json:"review"`
}

// ListByCourse returns a course's ratings plus the average.
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

	var rows []ratingRow
	if err := ctrl.db.Model(&models.Rating{}).
		Select("ratings.id AS rating_id, ratings.course_id, ratings.student_id, users.name AS student_name, ratings.rating, ratings.review").
		Joins("JOIN users ON users.id = ratings.student_id").
		Where("ratings.course_id = ?", course.ID).
		Order("ratings.id desc").
		Scan(&rows).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	var average float64
	if len(rows) > 0 {
		sum := 0
		for _, r := range rows {
			sum += r.Rating
		}
		average = utils.Round2(float64(sum) / float64(len(rows)))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Ratings fetched successfully!", fiber.Map{
		"ratings": rows,
		"average": average,
		"count":   len(rows),
	})
}

// Rate upserts the calling student's rating for a course they are
// enrolled in. Rating again replaces the old rating and review.
func (ctrl *Controller) Rate(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid course id"))
	}

	reqData := new(struct {
		Rating *int    `json:"rating"`
		Review *string `json:"review"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
	}
	if reqData.Rating == nil || *reqData.Rating < 1 || *reqData.Rating > 5 {
		return middleware.ErrorResponse(c, apperrors.Validation("rating must be 1..5"))
	}

	var course models.Course
	if err := ctrl.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Course not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if perr := policy.RequireEnrollment(ctrl.db, user.ID, course.ID); perr != nil {
		return middleware.ErrorResponse(c, perr)
	}

	rating := models.Rating{
		CourseID:  course.ID,
		StudentID: user.ID,
		Rating:    *reqData.Rating,
		Review:    reqData.Review,
	}

	if err := ctrl.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "course_id"}, {Name: "student_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"rating": *reqData.Rating,
			"review": reqData.Review,
		}),
	}).Create(&rating).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Rating saved", rating)
}

// Delete removes the caller's own rating, or any rating for admins.
func (ctrl *Controller) Delete(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid rating id"))
	}

	query := ctrl.db.Where("id = ?", id)
	if !user.IsAdmin() {
		query = query.Where("student_id = ?", user.ID)
	}

	res := query.Delete(&models.Rating{})
	if res.Error != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(res.Error))
	}
	if res.RowsAffected == 0 {
		return middleware.ErrorResponse(c, apperrors.NotFound("Rating not found"))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Rating deleted", nil)
}
