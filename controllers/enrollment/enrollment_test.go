package enrollmentController_test

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
	enrollmentRoutes "lms/routers/enrollmentRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTest(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
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
	enrollmentRoutes.SetupEnrollmentRoutes(app, db, cfg)
	return app, db, cfg
}

func createUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createCourse(t *testing.T, db *gorm.DB, instructorID uint) models.Course {
	t.Helper()
	course := models.Course{Title: "Go Basics", Price: 10, InstructorID: instructorID, Status: models.CourseStatusApproved, IsPublic: true}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func doJSON(t *testing.T, app *fiber.App, cfg *config.Config, as models.User, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	token, err := middleware.GenerateJWT(cfg, &as)
	require.NoError(t, err)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp, payload
}

func TestStudentSelfEnroll(t *testing.T) {
	app, db, cfg := setupTest(t)
	instructor := createUser(t, db, "ina", models.RoleInstructor)
	student := createUser(t, db, "sam", models.RoleStudent)
	course := createCourse(t, db, instructor.ID)

	resp, _ := doJSON(t, app, cfg, student, "POST", "/enrollments", fiber.Map{"course_id": course.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// enrolling twice is a conflict
	resp, payload := doJSON(t, app, cfg, student, "POST", "/enrollments", fiber.Map{"course_id": course.ID})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Student is already enrolled in this course", payload["error"])
}

func TestAdminEnrollsNamedStudent(t *testing.T) {
	app, db, cfg := setupTest(t)
	instructor := createUser(t, db, "ina", models.RoleInstructor)
	student := createUser(t, db, "sam", models.RoleStudent)
	admin := createUser(t, db, "ada", models.RoleAdmin)
	course := createCourse(t, db, instructor.ID)

	// admin without a target student is a validation failure
	resp, _ := doJSON(t, app, cfg, admin, "POST", "/enrollments", fiber.Map{"course_id": course.ID})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// an unknown target student is not found, not a server error
	resp, _ = doJSON(t, app, cfg, admin, "POST", "/enrollments",
		fiber.Map{"course_id": course.ID, "student_id": 9999})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// naming a non-student is also not found
	resp, _ = doJSON(t, app, cfg, admin, "POST", "/enrollments",
		fiber.Map{"course_id": course.ID, "student_id": instructor.ID})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, cfg, admin, "POST", "/enrollments",
		fiber.Map{"course_id": course.ID, "student_id": student.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestInstructorCannotEnroll(t *testing.T) {
	app, db, cfg := setupTest(t)
	instructor := createUser(t, db, "ina", models.RoleInstructor)
	course := createCourse(t, db, instructor.ID)

	resp, _ := doJSON(t, app, cfg, instructor, "POST", "/enrollments",
		fiber.Map{"course_id": course.ID, "student_id": 1})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestEnrollMissingCourse(t *testing.T) {
	app, db, cfg := setupTest(t)
	student := createUser(t, db, "sam", models.RoleStudent)

	resp, _ := doJSON(t, app, cfg, student, "POST", "/enrollments", fiber.Map{"course_id": 9999})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProgressUpdateOwnership(t *testing.T) {
	app, db, cfg := setupTest(t)
	instructor := createUser(t, db, "ina", models.RoleInstructor)
	student := createUser(t, db, "sam", models.RoleStudent)
	other := createUser(t, db, "sue", models.RoleStudent)
	course := createCourse(t, db, instructor.ID)

	enrollment := models.Enrollment{StudentID: student.ID, CourseID: course.ID}
	require.NoError(t, db.Create(&enrollment).Error)

	resp, _ := doJSON(t, app, cfg, student, "PATCH", fmt.Sprintf("/enrollments/%d/progress", enrollment.ID),
		fiber.Map{"progress": 40.5})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.Enrollment
	require.NoError(t, db.First(&reloaded, enrollment.ID).Error)
	assert.Equal(t, 40.5, reloaded.Progress)

	// out of range
	resp, _ = doJSON(t, app, cfg, student, "PATCH", fmt.Sprintf("/enrollments/%d/progress", enrollment.ID),
		fiber.Map{"progress": 120})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// another student cannot even see the enrollment
	resp, _ = doJSON(t, app, cfg, other, "PATCH", fmt.Sprintf("/enrollments/%d/progress", enrollment.ID),
		fiber.Map{"progress": 10})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListScoping(t *testing.T) {
	app, db, cfg := setupTest(t)
	instructorA := createUser(t, db, "ina", models.RoleInstructor)
	instructorB := createUser(t, db, "oli", models.RoleInstructor)
	student := createUser(t, db, "sam", models.RoleStudent)
	admin := createUser(t, db, "ada", models.RoleAdmin)

	courseA := createCourse(t, db, instructorA.ID)
	courseB := createCourse(t, db, instructorB.ID)
	require.NoError(t, db.Create(&models.Enrollment{StudentID: student.ID, CourseID: courseA.ID}).Error)
	require.NoError(t, db.Create(&models.Enrollment{StudentID: student.ID, CourseID: courseB.ID}).Error)

	resp, payload := doJSON(t, app, cfg, admin, "GET", "/enrollments", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, payload["data"].([]interface{}), 2)

	resp, payload = doJSON(t, app, cfg, instructorA, "GET", "/enrollments", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, payload["data"].([]interface{}), 1)

	resp, _ = doJSON(t, app, cfg, student, "GET", "/enrollments", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
