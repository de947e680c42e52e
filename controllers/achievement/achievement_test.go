package achievementController_test

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
	achievementRoutes "lms/routers/achievementRoutes"

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
	achievementRoutes.SetupAchievementRoutes(app, db, cfg)

	f := &fixture{app: app, db: db, cfg: cfg}

	f.instructor = models.User{Name: "ina", Email: "ina@example.com", PasswordHash: "x", Role: models.RoleInstructor}
	f.student = models.User{Name: "sam", Email: "sam@example.com", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&f.instructor).Error)
	require.NoError(t, db.Create(&f.student).Error)

	f.course = models.Course{Title: "Go Basics", InstructorID: f.instructor.ID, Status: models.CourseStatusApproved, IsPublic: true}
	require.NoError(t, db.Create(&f.course).Error)
	require.NoError(t, db.Create(&models.Enrollment{StudentID: f.student.ID, CourseID: f.course.ID}).Error)

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

func TestAwardCourseScoped(t *testing.T) {
	f := setupFixture(t)

	resp, _ := f.do(t, f.instructor, "POST", "/achievements", fiber.Map{
		"student_id": f.student.ID, "course_id": f.course.ID, "title": "Top of class",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, payload := f.do(t, f.student, "GET", "/achievements/my", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, payload["data"].([]interface{}), 1)
}

func TestAwardRequiresEnrollment(t *testing.T) {
	f := setupFixture(t)

	outsider := models.User{Name: "olga", Email: "olga@example.com", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, f.db.Create(&outsider).Error)

	resp, _ := f.do(t, f.instructor, "POST", "/achievements", fiber.Map{
		"student_id": outsider.ID, "course_id": f.course.ID, "title": "Top of class",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestInstructorCannotAwardUnscoped(t *testing.T) {
	f := setupFixture(t)

	resp, _ := f.do(t, f.instructor, "POST", "/achievements", fiber.Map{
		"student_id": f.student.ID, "title": "Site-wide star",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestListScopedToOwnCourses(t *testing.T) {
	f := setupFixture(t)

	other := models.User{Name: "oli", Email: "oli@example.com", PasswordHash: "x", Role: models.RoleInstructor}
	require.NoError(t, f.db.Create(&other).Error)
	foreign := models.Course{Title: "SQL Basics", InstructorID: other.ID, Status: models.CourseStatusApproved}
	require.NoError(t, f.db.Create(&foreign).Error)

	require.NoError(t, f.db.Create(&models.Achievement{StudentID: f.student.ID, CourseID: &f.course.ID, Title: "Mine"}).Error)
	require.NoError(t, f.db.Create(&models.Achievement{StudentID: f.student.ID, CourseID: &foreign.ID, Title: "Theirs"}).Error)

	resp, payload := f.do(t, f.instructor, "GET", "/achievements", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	rows := payload["data"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, "Mine", rows[0].(map[string]interface{})["title"])

	admin := models.User{Name: "ada", Email: "ada@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, f.db.Create(&admin).Error)
	resp, payload = f.do(t, admin, "GET", "/achievements", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, payload["data"].([]interface{}), 2)
}

func TestDeleteForeignAchievementForbidden(t *testing.T) {
	f := setupFixture(t)

	other := models.User{Name: "oli", Email: "oli@example.com", PasswordHash: "x", Role: models.RoleInstructor}
	require.NoError(t, f.db.Create(&other).Error)

	achievement := models.Achievement{StudentID: f.student.ID, CourseID: &f.course.ID, Title: "Top of class"}
	require.NoError(t, f.db.Create(&achievement).Error)

	resp, _ := f.do(t, other, "DELETE", fmt.Sprintf("/achievements/%d", achievement.ID), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = f.do(t, f.instructor, "DELETE", fmt.Sprintf("/achievements/%d", achievement.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, f.db.Model(&models.Achievement{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
