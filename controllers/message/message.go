package messageController

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

type messageRow struct {
	MessageID    uint   `json:"message_id"`
	SenderID     uint   `json:"sender_id"`
	SenderName   string `json:"sender_name"`
	ReceiverID   uint   `json:"receiver_id"`
	ReceiverName string `json:"receiver_name"`
	CourseID     *uint  `json:"course_id"`
	Content      string `json:"content"`
	IsRead       bool   `json:"is_read"`
	SentAt       string `json:"sent_at"`
}

// Inbox lists messages received by the caller.
func (ctrl *Controller) Inbox(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	return ctrl.listFor(c, "messages.receiver_id = ?", user.ID)
}

// Sent lists messages sent by the caller.
func (ctrl *Controller) Sent(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	return ctrl.listFor(c, "messages.sender_id = ?", user.ID)
}

func (ctrl *Controller) listFor(c *fiber.Ctx, cond string, id uint) error {
	var rows []messageRow
	if err := ctrl.db.Model(&models.Message{}).
		Select("messages.id AS message_id, messages.sender_id, senders.name AS sender_name, messages.receiver_id, receivers.name AS receiver_name, messages.course_id, messages.content, messages.is_read, messages.sent_at").
		Joins("JOIN users AS senders ON senders.id = messages.sender_id").
		Joins("JOIN users AS receivers ON receivers.id = messages.receiver_id").
		Where(cond, id).
		Order("messages.id desc").
		Scan(&rows).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Messages fetched successfully!", rows)
}

// Send delivers a direct message. Students may only write to the
// instructor of a course they are enrolled in; instructors and admins
// can write to anyone.
func (ctrl *Controller) Send(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	reqData := new(struct {
		ReceiverID uint   `json:"receiver_id"`
		CourseID   *uint  `json:"course_id"`
		Content    string `json:"content"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
	}
	if reqData.ReceiverID == 0 || reqData.Content == "" {
		return middleware.ErrorResponse(c, apperrors.Validation("receiver_id and content are required"))
	}

	var receiver models.User
	if err := ctrl.db.First(&receiver, reqData.ReceiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("Receiver not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if user.IsStudent() {
		if reqData.CourseID == nil {
			return middleware.ErrorResponse(c, apperrors.Validation("course_id is required"))
		}
		if perr := policy.RequireEnrollment(ctrl.db, user.ID, *reqData.CourseID); perr != nil {
			return middleware.ErrorResponse(c, perr)
		}
		var course models.Course
		if err := ctrl.db.First(&course, *reqData.CourseID).Error; err != nil {
			return middleware.ErrorResponse(c, apperrors.Internal(err))
		}
		if course.InstructorID != receiver.ID {
			return middleware.ErrorResponse(c, apperrors.Authorization("Students can only message their course instructor"))
		}
	} else if user.IsInstructor() && reqData.CourseID != nil {
		// a course-scoped send must name the instructor's own course and
		// a student enrolled in it; unscoped sends are unrestricted
		if perr := policy.RequireCourseOwnership(ctrl.db, user, *reqData.CourseID); perr != nil {
			return middleware.ErrorResponse(c, perr)
		}
		if perr := policy.RequireEnrollment(ctrl.db, receiver.ID, *reqData.CourseID); perr != nil {
			return middleware.ErrorResponse(c, perr)
		}
	}

	message := models.Message{
		SenderID:   user.ID,
		ReceiverID: receiver.ID,
		CourseID:   reqData.CourseID,
		Content:    reqData.Content,
	}
	if err := ctrl.db.Create(&message).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Message sent", message)
}

// Thread returns the two-way conversation between the caller and
// another user, oldest first.
func (ctrl *Controller) Thread(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	otherID, err := c.ParamsInt("userId")
	if err != nil || otherID <= 0 {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid user id"))
	}

	return ctrl.threadBetween(c, user.ID, uint(otherID))
}

// AdminThread lets an admin inspect the conversation between any two
// users, passed as user_a and user_b query params.
func (ctrl *Controller) AdminThread(c *fiber.Ctx) error {
	userA := c.QueryInt("user_a")
	userB := c.QueryInt("user_b")
	if userA <= 0 || userB <= 0 {
		return middleware.ErrorResponse(c, apperrors.Validation("user_a and user_b are required"))
	}

	return ctrl.threadBetween(c, uint(userA), uint(userB))
}

func (ctrl *Controller) threadBetween(c *fiber.Ctx, a, b uint) error {
	var rows []messageRow
	if err := ctrl.db.Model(&models.Message{}).
		Select("messages.id AS message_id, messages.sender_id, senders.name AS sender_name, messages.receiver_id, receivers.name AS receiver_name, messages.course_id, messages.content, messages.is_read, messages.sent_at").
		Joins("JOIN users AS senders ON senders.id = messages.sender_id").
		Joins("JOIN users AS receivers ON receivers.id = messages.receiver_id").
		Where("(messages.sender_id = ? AND messages.receiver_id = ?) OR (messages.sender_id = ? AND messages.receiver_id = ?)", a, b, b, a).
		Order("messages.id asc").
		Scan(&rows).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Thread fetched successfully!", rows)
}

// MarkRead flips a received message to read. Only the receiver can.
func (ctrl *Controller) MarkRead(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid message id"))
	}

	res := ctrl.db.Model(&models.Message{}).
		Where("id = ? AND receiver_id = ?", id, user.ID).
		Update("is_read", true)
	if res.Error != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(res.Error))
	}
	if res.RowsAffected == 0 {
		return middleware.ErrorResponse(c, apperrors.NotFound("Message not found"))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Marked read", nil)
}

// Broadcast sends one message to every student enrolled in a course the
// caller manages. All rows are written in one transaction so a partial
// broadcast never lands.
func (ctrl *Controller) Broadcast(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	reqData := new(struct {
		CourseID uint   `json:"course_id"`
		Content  string `json:"content"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
	}
	if reqData.CourseID == 0 || reqData.Content == "" {
		return middleware.ErrorResponse(c, apperrors.Validation("course_id and content are required"))
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

	var sent int
	err := ctrl.db.Transaction(func(tx *gorm.DB) error {
		var studentIDs []uint
		if err := tx.Model(&models.Enrollment{}).
			Where("course_id = ?", course.ID).
			Pluck("student_id", &studentIDs).Error; err != nil {
			return apperrors.Internal(err)
		}

		for _, sid := range studentIDs {
			message := models.Message{
				SenderID:   user.ID,
				ReceiverID: sid,
				CourseID:   &course.ID,
				Content:    reqData.Content,
			}
			if err := tx.Create(&message).Error; err != nil {
				return apperrors.Internal(err)
			}
		}
		sent = len(studentIDs)
		return nil
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Broadcast sent", fiber.Map{"recipients": sent})
}
