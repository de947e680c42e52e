package cartController

import (
	"errors"
	"strings"
	"time"

	"lms/apperrors"
	"lms/config"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	cartValidator "lms/validators/cart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
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

type cartRow struct {
	CartItemID uint    `json:"cart_item_id"`
	CourseID   uint    `json:"course_id"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Qty        int     `json:"qty"`
}

// List shows the student's cart with current course prices.
func (ctrl *Controller) List(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var rows []cartRow
	if err := ctrl.db.Model(&models.CartItem{}).
		Select("cart_items.id AS cart_item_id, courses.id AS course_id, courses.title, courses.price, cart_items.qty").
		Joins("JOIN courses ON courses.id = cart_items.course_id").
		Where("cart_items.student_id = ?", user.ID).
		Order("cart_items.id desc").
		Scan(&rows).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Cart fetched successfully!", rows)
}

// Add puts a course in the cart; adding again bumps the quantity.
func (ctrl *Controller) Add(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	reqData, ok := c.Locals("validatedAddToCart").(*cartValidator.AddToCartRequest)
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

	item := models.CartItem{
		StudentID: user.ID,
		CourseID:  course.ID,
		Qty:       reqData.Qty,
	}

	if err := ctrl.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"qty": gorm.Expr("cart_items.qty + ?", reqData.Qty)}),
	}).Create(&item).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Added to cart!", item)
}

// Remove deletes one cart line belonging to the caller.
func (ctrl *Controller) Remove(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid cart item id"))
	}

	res := ctrl.db.Where("id = ? AND student_id = ?", id, user.ID).Delete(&models.CartItem{})
	if res.Error != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(res.Error))
	}
	if res.RowsAffected == 0 {
		return middleware.ErrorResponse(c, apperrors.NotFound("Not found"))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Removed", nil)
}

type checkoutSummary struct {
	Subtotal  float64 `json:"subtotal"`
	Discount  float64 `json:"discount"`
	TotalPaid float64 `json:"total_paid"`
}

// Checkout converts the cart into enrollments and transactions in one
// atomic unit:
//
//  1. snapshot cart lines with current course prices
//  2. resolve the coupon; a supplied-but-unusable code aborts
//  3. per line: round2 money math, enrollment upsert (idempotent),
//     one paid transaction
//  4. bump coupon used_count once per checkout, via a conditional
//     UPDATE so the max_uses cap holds under concurrent redemptions
//  5. clear the cart
//
// Any failure rolls the whole unit back.
func (ctrl *Controller) Checkout(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	reqData, ok := c.Locals("validatedCheckout").(*cartValidator.CheckoutRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	couponCode := strings.ToUpper(strings.TrimSpace(reqData.CouponCode))
	now := time.Now()

	var summary checkoutSummary
	var created []models.Transaction

	err := ctrl.db.Transaction(func(tx *gorm.DB) error {
		type cartLine struct {
			CourseID uint
			Qty      int
			Price    float64
		}
		var lines []cartLine
		if err := tx.Model(&models.CartItem{}).
			Select("cart_items.course_id, cart_items.qty, courses.price").
			Joins("JOIN courses ON courses.id = cart_items.course_id").
			Where("cart_items.student_id = ?", user.ID).
			Scan(&lines).Error; err != nil {
			return apperrors.Internal(err)
		}

		if len(lines) == 0 {
			return apperrors.Validation("Cart is empty")
		}

		var coupon *models.Coupon
		if couponCode != "" {
			var found models.Coupon
			err := tx.Where("code = ?", couponCode).First(&found).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Internal(err)
			}
			if err != nil || !found.Usable(now) {
				return apperrors.Validation("Invalid or expired coupon")
			}
			coupon = &found
		}

		pct := 0
		if coupon != nil {
			pct = coupon.PercentOff
		}

		for _, line := range lines {
			qty := line.Qty
			if qty < 1 {
				qty = 1
			}

			// price at checkout time, rounded per line so the line
			// figures always sum to the reported totals
			lineOriginal := utils.Round2(line.Price * float64(qty))
			lineDiscount := utils.Round2(lineOriginal * float64(pct) / 100)
			linePaid := utils.Round2(lineOriginal - lineDiscount)
			if linePaid < 0 {
				linePaid = 0
			}

			summary.Subtotal += lineOriginal
			summary.Discount += lineDiscount
			summary.TotalPaid += linePaid

			// enrollment is per course; qty does not duplicate access
			enrollment := models.Enrollment{
				StudentID: user.ID,
				CourseID:  line.CourseID,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
				DoNothing: true,
			}).Create(&enrollment).Error; err != nil {
				return apperrors.Internal(err)
			}

			transaction := models.Transaction{
				StudentID:      user.ID,
				CourseID:       line.CourseID,
				OriginalPrice:  lineOriginal,
				DiscountAmount: lineDiscount,
				AmountPaid:     linePaid,
				PaymentMethod:  reqData.PaymentMethod,
				PaymentRef:     uuid.NewString(),
				Status:         models.TransactionStatusPaid,
			}
			if coupon != nil {
				code := coupon.Code
				transaction.CouponCode = &code
			}
			if err := tx.Create(&transaction).Error; err != nil {
				return apperrors.Internal(err)
			}
			created = append(created, transaction)
		}

		// one use per checkout, not per line. The conditions are
		// re-checked inside the UPDATE: if a concurrent checkout took
		// the last use since we read the coupon, zero rows match and
		// the whole checkout rolls back.
		if coupon != nil {
			res := tx.Model(&models.Coupon{}).
				Where("code = ? AND is_active = ? AND (expires_at IS NULL OR expires_at >= ?) AND (max_uses IS NULL OR used_count < max_uses)",
					coupon.Code, true, now).
				Update("used_count", gorm.Expr("used_count + 1"))
			if res.Error != nil {
				return apperrors.Internal(res.Error)
			}
			if res.RowsAffected == 0 {
				return apperrors.Validation("Invalid or expired coupon")
			}
		}

		if err := tx.Where("student_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
			return apperrors.Internal(err)
		}

		return nil
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	summary.Subtotal = utils.Round2(summary.Subtotal)
	summary.Discount = utils.Round2(summary.Discount)
	summary.TotalPaid = utils.Round2(summary.TotalPaid)

	return middleware.JsonResponse(c, fiber.StatusCreated, "Checkout complete", fiber.Map{
		"summary":      summary,
		"transactions": created,
	})
}

type transactionRow struct {
	TransactionID  uint      `json:"transaction_id"`
	StudentID      uint      `json:"student_id"`
	StudentName    string    `json:"student_name,omitempty"`
	CourseID       uint      `json:"course_id"`
	Title          string    `json:"title"`
	OriginalPrice  float64   `json:"original_price"`
	DiscountAmount float64   `json:"discount_amount"`
	AmountPaid     float64   `json:"amount_paid"`
	CouponCode     *string   `json:"coupon_code"`
	PaymentMethod  string    `json:"payment_method"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// MyTransactions lists the calling student's transactions.
func (ctrl *Controller) MyTransactions(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var rows []transactionRow
	if err := ctrl.db.Model(&models.Transaction{}).
		Select("transactions.id AS transaction_id, transactions.student_id, transactions.course_id, courses.title, transactions.original_price, transactions.discount_amount, transactions.amount_paid, transactions.coupon_code, transactions.payment_method, transactions.status, transactions.created_at").
		Joins("JOIN courses ON courses.id = transactions.course_id").
		Where("transactions.student_id = ?", user.ID).
		Order("transactions.id desc").
		Scan(&rows).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Transactions fetched successfully!", rows)
}

// AllTransactions lists every transaction (admin).
func (ctrl *Controller) AllTransactions(c *fiber.Ctx) error {
	var rows []transactionRow
	if err := ctrl.db.Model(&models.Transaction{}).
		Select("transactions.id AS transaction_id, transactions.student_id, users.name AS student_name, transactions.course_id, courses.title, transactions.original_price, transactions.discount_amount, transactions.amount_paid, transactions.coupon_code, transactions.payment_method, transactions.status, transactions.created_at").
		Joins("JOIN users ON users.id = transactions.student_id").
		Joins("JOIN courses ON courses.id = transactions.course_id").
		Order("transactions.id desc").
		Scan(&rows).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Transactions fetched successfully!", rows)
}

// Refund flips a paid transaction to refunded. It deliberately does not
// touch the enrollment or any payout; see DESIGN.md.
func (ctrl *Controller) Refund(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid transaction id"))
	}

	var transaction models.Transaction
	if err := ctrl.db.First(&transaction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Transaction not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if transaction.Status != models.TransactionStatusPaid {
		return middleware.ErrorResponse(c, apperrors.InvalidState("Only paid transactions can be refunded"))
	}

	transaction.Status = models.TransactionStatusRefunded
	if err := ctrl.db.Save(&transaction).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Refunded", transaction)
}
