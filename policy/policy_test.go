package policy

import (
	"testing"

	"lms/middleware"
	"lms/models"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	cases := []struct {
		role   string
		action Action
		want   bool
	}{
		{models.RoleStudent, ActionCartUse, true},
		{models.RoleStudent, ActionEnrollSelf, true},
		{models.RoleStudent, ActionSubmit, true},
		{models.RoleStudent, ActionRatingWrite, true},
		{models.RoleStudent, ActionWishlistUse, true},
		{models.RoleStudent, ActionCourseCreate, false},
		{models.RoleStudent, ActionGrade, false},
		{models.RoleStudent, ActionCouponManage, false},
		{models.RoleStudent, ActionRefund, false},

		{models.RoleInstructor, ActionCourseCreate, true},
		{models.RoleInstructor, ActionContentMutate, true},
		{models.RoleInstructor, ActionGrade, true},
		{models.RoleInstructor, ActionPayoutViewOwn, true},
		{models.RoleInstructor, ActionBroadcast, true},
		{models.RoleInstructor, ActionCartUse, false},
		{models.RoleInstructor, ActionCourseModerate, false},
		{models.RoleInstructor, ActionUserManage, false},
		{models.RoleInstructor, ActionPayoutManage, false},

		{models.RoleAdmin, ActionCourseModerate, true},
		{models.RoleAdmin, ActionUserManage, true},
		{models.RoleAdmin, ActionRefund, true},
		{models.RoleAdmin, ActionPayoutManage, true},
		{models.RoleAdmin, ActionAdminView, true},
		{models.RoleAdmin, ActionCartUse, false},
		{models.RoleAdmin, ActionSubmit, false},
		{models.RoleAdmin, ActionPayoutViewOwn, false},

		{"", ActionCartUse, false},
		{"superuser", ActionUserManage, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Allowed(tc.role, tc.action),
			"role %q action %q", tc.role, tc.action)
	}
}

func TestCanManageCourse(t *testing.T) {
	course := &models.Course{ID: 7, InstructorID: 3}

	admin := middleware.AuthUser{ID: 99, Role: models.RoleAdmin}
	owner := middleware.AuthUser{ID: 3, Role: models.RoleInstructor}
	other := middleware.AuthUser{ID: 4, Role: models.RoleInstructor}
	student := middleware.AuthUser{ID: 3, Role: models.RoleStudent}

	assert.NoError(t, CanManageCourse(admin, course))
	assert.NoError(t, CanManageCourse(owner, course))
	assert.Error(t, CanManageCourse(other, course))
	assert.Error(t, CanManageCourse(student, course))
}
