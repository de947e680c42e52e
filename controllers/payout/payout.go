package payoutController

import (
	"errors"
	"strings"
	"time"

	"lms/apperrors"
	"lms/config"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	payoutValidator "lms/validators/payout"

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

type payoutRow struct {
	PayoutID       uint       `json:"payout_id"`
	InstructorID   uint       `json:"instructor_id"`
	InstructorName string     `json:"instructor_name,omitempty"`
	CourseID       uint       `json:"course_id"`
	Title          string     `json:"title"`
	TransactionID  uint       `json:"transaction_id"`
	Amount         float64    `json:"amount"`
	Status         string     `json:"status"`
	RequestedAt    time.Time  `json:"requested_at"`
	PaidAt         *time.Time `json:"paid_at"`
}

// Create records the instructor revenue share for one paid transaction.
// At most one payout per transaction: a friendly pre-check gives the
// usual 409, the unique index on transaction_id is the hard guarantee.
func (ctrl *Controller) Create(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPayout").(*payoutValidator.CreatePayoutRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	var transaction models.Transaction
	if err := ctrl.db.First(&transaction, reqData.TransactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Transaction not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if transaction.Status != models.TransactionStatusPaid {
		return middleware.ErrorResponse(c, apperrors.InvalidState("Payouts require a paid transaction"))
	}

	var course models.Course
	if err := ctrl.db.First(&course, transaction.CourseID).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}
	if course.InstructorID == 0 {
		return middleware.ErrorResponse(c, apperrors.InvalidState("Course has no instructor to pay"))
	}

	var existing models.InstructorPayout
	err := ctrl.db.Where("transaction_id = ?", transaction.ID).First(&existing).Error
	if err == nil {
		return middleware.ErrorResponse(c, apperrors.Conflict("Payout already exists for this transaction"))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	amount := utils.Round2(transaction.AmountPaid * ctrl.cfg.InstructorShare)
	if reqData.Amount != nil {
		amount = utils.Round2(*reqData.Amount)
	}

	payout := models.InstructorPayout{
		InstructorID:  course.InstructorID,
		CourseID:      course.ID,
		TransactionID: transaction.ID,
		Amount:        amount,
		Status:        models.PayoutStatusPending,
	}

	if err := ctrl.db.Create(&payout).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			return middleware.ErrorResponse(c, apperrors.Conflict("Payout already exists for this transaction"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Payout created", payout)
}

// List returns every payout (admin).
func (ctrl *Controller) List(c *fiber.Ctx) error {
	var rows []payoutRow
	if err := ctrl.db.Model(&models.InstructorPayout{}).
		Select("instructor_payouts.id AS payout_id, instructor_payouts.instructor_id, users.name AS instructor_name, instructor_payouts.course_id, courses.title, instructor_payouts.transaction_id, instructor_payouts.amount, instructor_payouts.status, instructor_payouts.created_at AS requested_at, instructor_payouts.paid_at").
		Joins("JOIN users ON users.id = instructor_payouts.instructor_id").
		Joins("JOIN courses ON courses.id = instructor_payouts.course_id").
		Order("instructor_payouts.id desc").
		Scan(&rows).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Payouts fetched successfully!", rows)
}

// My returns the calling instructor's payouts plus a total of what has
// actually been paid out.
func (ctrl *Controller) My(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var rows []payoutRow
	if err := ctrl.db.Model(&models.InstructorPayout{}).
		Select("instructor_payouts.id AS payout_id, instructor_payouts.instructor_id, instructor_payouts.course_id, courses.title, instructor_payouts.transaction_id, instructor_payouts.amount, instructor_payouts.status, instructor_payouts.created_at AS requested_at, instructor_payouts.paid_at").
		Joins("JOIN courses ON courses.id = instructor_payouts.course_id").
		Where("instructor_payouts.instructor_id = ?", user.ID).
		Order("instructor_payouts.id desc").
		Scan(&rows).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	var totalPaid float64
	for _, r := range rows {
		if r.Status == models.PayoutStatusPaid {
			totalPaid += r.Amount
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Payouts fetched successfully!", fiber.Map{
		"payouts":    rows,
		"total_paid": utils.Round2(totalPaid),
	})
}

// MarkPaid settles a payout and notifies the instructor by email.
func (ctrl *Controller) MarkPaid(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid payout id"))
	}

	var payout models.InstructorPayout
	if err := ctrl.db.First(&payout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Payout not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if payout.Status == models.PayoutStatusPaid {
		return middleware.ErrorResponse(c, apperrors.InvalidState("Payout is already paid"))
	}

	now := time.Now()
	payout.Status = models.PayoutStatusPaid
	payout.PaidAt = &now
	if err := ctrl.db.Save(&payout).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	var instructor models.User
	var course models.Course
	if ctrl.db.First(&instructor, payout.InstructorID).Error == nil &&
		ctrl.db.First(&course, payout.CourseID).Error == nil {
		go utils.SendEmail(ctrl.cfg, []string{instructor.Email}, "Payout sent",
			utils.PayoutPaidEmailBody(instructor.Name, payout.Amount, course.Title))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Payout marked paid", payout)
}
