// Package policy holds the role/action authorization matrix in one
// place. Route handlers ask Allowed (or mount Require) instead of
// comparing role strings inline; ownership and enrollment scoping are
// the two store-backed checks that cannot live in the static matrix.
package policy

import (
	"errors"

	"lms/apperrors"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Action string

const (
	ActionCourseCreate   Action = "course:create"
	ActionCourseMutate   Action = "course:mutate"   // ownership checked against the row
	ActionCourseModerate Action = "course:moderate" // approve/reject
	ActionContentMutate  Action = "content:mutate"  // assignments, quizzes, questions
	ActionEnrollSelf     Action = "enrollment:self"
	ActionEnrollOther    Action = "enrollment:other"
	ActionEnrollList     Action = "enrollment:list"
	ActionGrade          Action = "submission:grade"
	ActionSubmit         Action = "submission:create"
	ActionCartUse        Action = "cart:use"
	ActionCouponManage   Action = "coupon:manage"
	ActionRefund         Action = "transaction:refund"
	ActionTxListAll      Action = "transaction:list"
	ActionPayoutManage   Action = "payout:manage"
	ActionPayoutViewOwn  Action = "payout:view-own"
	ActionAchieveAward   Action = "achievement:award"
	ActionRatingWrite    Action = "rating:write"
	ActionUserManage     Action = "user:manage"
	ActionWishlistUse    Action = "wishlist:use"
	ActionBroadcast      Action = "message:broadcast"
	ActionAdminView      Action = "admin:view"
)

// matrix is the single declarative source of role capabilities.
var matrix = map[Action][]string{
	ActionCourseCreate:   {models.RoleInstructor, models.RoleAdmin},
	ActionCourseMutate:   {models.RoleInstructor, models.RoleAdmin},
	ActionCourseModerate: {models.RoleAdmin},
	ActionContentMutate:  {models.RoleInstructor, models.RoleAdmin},
	ActionEnrollSelf:     {models.RoleStudent},
	ActionEnrollOther:    {models.RoleAdmin},
	ActionEnrollList:     {models.RoleInstructor, models.RoleAdmin},
	ActionGrade:          {models.RoleInstructor, models.RoleAdmin},
	ActionSubmit:         {models.RoleStudent},
	ActionCartUse:        {models.RoleStudent},
	ActionCouponManage:   {models.RoleAdmin},
	ActionRefund:         {models.RoleAdmin},
	ActionTxListAll:      {models.RoleAdmin},
	ActionPayoutManage:   {models.RoleAdmin},
	ActionPayoutViewOwn:  {models.RoleInstructor},
	ActionAchieveAward:   {models.RoleInstructor, models.RoleAdmin},
	ActionRatingWrite:    {models.RoleStudent},
	ActionUserManage:     {models.RoleAdmin},
	ActionWishlistUse:    {models.RoleStudent},
	ActionBroadcast:      {models.RoleInstructor, models.RoleAdmin},
	ActionAdminView:      {models.RoleAdmin},
}

// Allowed reports whether the role may perform the action.
func Allowed(role string, action Action) bool {
	for _, r := range matrix[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Require gates a route on the matrix. It runs after Protected.
func Require(action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			return middleware.ErrorResponse(c, apperrors.Authentication("Not authenticated."))
		}
		if !Allowed(user.Role, action) {
			return middleware.ErrorResponse(c, apperrors.Authorization("Access forbidden: insufficient rights."))
		}
		return c.Next()
	}
}

// OwnsCourse reports whether instructorID owns the course.
func OwnsCourse(db *gorm.DB, instructorID, courseID uint) (bool, error) {
	var course models.Course
	err := db.Select("id").Where("id = ? AND instructor_id = ?", courseID, instructorID).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsEnrolled reports whether the student is enrolled in the course.
func IsEnrolled(db *gorm.DB, studentID, courseID uint) (bool, error) {
	var enrollment models.Enrollment
	err := db.Select("id").Where("student_id = ? AND course_id = ?", studentID, courseID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CanManageCourse allows the owning instructor or an admin to mutate a
// course that is known to exist. A foreign instructor gets forbidden,
// not "not found": the caller already resolved the row, so hiding its
// existence would be pointless and the distinction is deliberate.
func CanManageCourse(user middleware.AuthUser, course *models.Course) error {
	if user.IsAdmin() {
		return nil
	}
	if user.IsInstructor() && course.InstructorID == user.ID {
		return nil
	}
	return apperrors.Authorization("Not your course")
}

// RequireCourseOwnership resolves the course's instructor and applies
// CanManageCourse, for call sites that only hold the course id.
func RequireCourseOwnership(db *gorm.DB, user middleware.AuthUser, courseID uint) error {
	if user.IsAdmin() {
		return nil
	}
	owns, err := OwnsCourse(db, user.ID, courseID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !owns {
		return apperrors.Authorization("Not your course")
	}
	return nil
}

// RequireEnrollment rejects students who are not enrolled in the course.
func RequireEnrollment(db *gorm.DB, studentID, courseID uint) error {
	enrolled, err := IsEnrolled(db, studentID, courseID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !enrolled {
		return apperrors.Authorization("Not enrolled in course")
	}
	return nil
}
