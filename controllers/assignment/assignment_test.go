package assignmentController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	assignmentRoutes "lms/routers/assignmentRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	app        *fiber.App
	db         *gorm.DB
	cfg        *config.Config
	instructor models.User
	student    models.User
	course     models.Course
	assignment models.Assignment
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{JWTKey: "test-secret", SaltRound: 4}
	app := fiber.New()
	assignmentRoutes.SetupAssignmentRoutes(app, db, cfg)

	f := &fixture{app: app, db: db, cfg: cfg}

	f.instructor = models.User{Name: "ina", Email: "ina@example.com", PasswordHash: "x", Role: models.RoleInstructor}
	f.student = models.User{Name: "sam", Email: "sam@example.com", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&f.instructor).Error)
	require.NoError(t, db.Create(&f.student).Error)

	f.course = models.Course{Title: "Go Basics", InstructorID: f.instructor.ID, Status: models.CourseStatusApproved, IsPublic: true}
	require.NoError(t, db.Create(&f.course).Error)
	require.NoError(t, db.Create(&models.Enrollment{StudentID: f.student.ID, CourseID: f.course.ID}).Error)

	f.assignment = models.Assignment{CourseID: f.course.ID, Title: "Homework 1"}
	require.NoError(t, db.Create(&f.assignment).Error)

	return f
}

func (f *fixture) do(t *testing.T, as models.User, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	token, err := middleware.GenerateJWT(f.cfg, &as)
	require.NoError(t, err)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp, payload
}

func TestSubmitReplacesPreviousAndClearsGrade(t *testing.T) {
	f := setupFixture(t)
	url := fmt.Sprintf("/assignments/%d/submissions", f.assignment.ID)

	resp, _ := f.do(t, f.student, "POST", url, fiber.Map{"text_answer": "first try"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var submission models.Submission
	require.NoError(t, f.db.Where("assignment_id = ? AND student_id = ?", f.assignment.ID, f.student.ID).First(&submission).Error)

	// grade it
	grade := 80.0
	require.NoError(t, f.db.Model(&submission).Update("grade", grade).Error)

	// re-submitting replaces the answer and resets the grade
	resp, _ = f.do(t, f.student, "POST", url, fiber.Map{"text_answer": "second try"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var count int64
	require.NoError(t, f.db.Model(&models.Submission{}).Where("assignment_id = ?", f.assignment.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.NoError(t, f.db.Where("assignment_id = ? AND student_id = ?", f.assignment.ID, f.student.ID).First(&submission).Error)
	require.NotNil(t, submission.TextAnswer)
	assert.Equal(t, "second try", *submission.TextAnswer)
	assert.Nil(t, submission.Grade)
}

func TestSubmitRequiresEnrollment(t *testing.T) {
	f := setupFixture(t)

	outsider := models.User{Name: "out", Email: "out@example.com", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, f.db.Create(&outsider).Error)

	resp, _ := f.do(t, outsider, "POST", fmt.Sprintf("/assignments/%d/submissions", f.assignment.ID),
		fiber.Map{"text_answer": "hi"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestSubmitNeedsContent(t *testing.T) {
	f := setupFixture(t)

	resp, _ := f.do(t, f.student, "POST", fmt.Sprintf("/assignments/%d/submissions", f.assignment.ID),
		fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGradeSubmission(t *testing.T) {
	f := setupFixture(t)

	text := "answer"
	submission := models.Submission{AssignmentID: f.assignment.ID, StudentID: f.student.ID, TextAnswer: &text}
	require.NoError(t, f.db.Create(&submission).Error)

	resp, _ := f.do(t, f.instructor, "PATCH", fmt.Sprintf("/submissions/%d/grade", submission.ID),
		fiber.Map{"grade": 87.5, "feedback": "good work"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.Submission
	require.NoError(t, f.db.First(&reloaded, submission.ID).Error)
	require.NotNil(t, reloaded.Grade)
	assert.Equal(t, 87.5, *reloaded.Grade)

	// out-of-range grade is rejected
	resp, _ = f.do(t, f.instructor, "PATCH", fmt.Sprintf("/submissions/%d/grade", submission.ID),
		fiber.Map{"grade": 150})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGradeForeignCourseForbidden(t *testing.T) {
	f := setupFixture(t)

	other := models.User{Name: "oli", Email: "oli@example.com", PasswordHash: "x", Role: models.RoleInstructor}
	require.NoError(t, f.db.Create(&other).Error)

	text := "answer"
	submission := models.Submission{AssignmentID: f.assignment.ID, StudentID: f.student.ID, TextAnswer: &text}
	require.NoError(t, f.db.Create(&submission).Error)

	resp, _ := f.do(t, other, "PATCH", fmt.Sprintf("/submissions/%d/grade", submission.ID),
		fiber.Map{"grade": 10})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestListAssignmentsByCourse(t *testing.T) {
	f := setupFixture(t)

	resp, payload := f.do(t, f.student, "GET", fmt.Sprintf("/courses/%d/assignments", f.course.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, payload["data"].([]interface{}), 1)
}
