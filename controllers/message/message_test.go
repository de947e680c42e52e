package messageController_test

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
	messageRoutes "lms/routers/messageRoutes"

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
	messageRoutes.SetupMessageRoutes(app, db, cfg)

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

func TestStudentMessagesOwnInstructor(t *testing.T) {
	f := setupFixture(t)

	resp, _ := f.do(t, f.student, "POST", "/messages", fiber.Map{
		"receiver_id": f.instructor.ID, "course_id": f.course.ID, "content": "question about week 2",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, payload := f.do(t, f.instructor, "GET", "/messages/inbox", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, payload["data"].([]interface{}), 1)
}

func TestStudentCannotMessageForeignInstructor(t *testing.T) {
	f := setupFixture(t)

	other := models.User{Name: "oli", Email: "oli@example.com", PasswordHash: "x", Role: models.RoleInstructor}
	require.NoError(t, f.db.Create(&other).Error)

	resp, _ := f.do(t, f.student, "POST", "/messages", fiber.Map{
		"receiver_id": other.ID, "course_id": f.course.ID, "content": "hi",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestInstructorScopedSendChecksOwnershipAndEnrollment(t *testing.T) {
	f := setupFixture(t)

	other := models.User{Name: "oli", Email: "oli@example.com", PasswordHash: "x", Role: models.RoleInstructor}
	require.NoError(t, f.db.Create(&other).Error)

	// a course the sender does not own
	resp, _ := f.do(t, other, "POST", "/messages", fiber.Map{
		"receiver_id": f.student.ID, "course_id": f.course.ID, "content": "hi",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// own course, but the receiver is not enrolled
	outsider := models.User{Name: "olga", Email: "olga@example.com", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, f.db.Create(&outsider).Error)
	resp, _ = f.do(t, f.instructor, "POST", "/messages", fiber.Map{
		"receiver_id": outsider.ID, "course_id": f.course.ID, "content": "hi",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// unscoped sends stay open
	resp, _ = f.do(t, other, "POST", "/messages", fiber.Map{
		"receiver_id": f.student.ID, "content": "hi",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// own course and an enrolled receiver
	resp, _ = f.do(t, f.instructor, "POST", "/messages", fiber.Map{
		"receiver_id": f.student.ID, "course_id": f.course.ID, "content": "office hours moved",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestMarkReadOnlyByReceiver(t *testing.T) {
	f := setupFixture(t)

	message := models.Message{SenderID: f.student.ID, ReceiverID: f.instructor.ID, Content: "hello"}
	require.NoError(t, f.db.Create(&message).Error)

	// the sender cannot mark it read
	resp, _ := f.do(t, f.student, "PATCH", fmt.Sprintf("/messages/%d/read", message.ID), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = f.do(t, f.instructor, "PATCH", fmt.Sprintf("/messages/%d/read", message.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.Message
	require.NoError(t, f.db.First(&reloaded, message.ID).Error)
	assert.True(t, reloaded.IsRead)
}

func TestBroadcastReachesEveryEnrolledStudent(t *testing.T) {
	f := setupFixture(t)

	second := models.User{Name: "sue", Email: "sue@example.com", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, f.db.Create(&second).Error)
	require.NoError(t, f.db.Create(&models.Enrollment{StudentID: second.ID, CourseID: f.course.ID}).Error)

	resp, payload := f.do(t, f.instructor, "POST", "/messages/broadcast", fiber.Map{
		"course_id": f.course.ID, "content": "class moved to friday",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, 2.0, payload["data"].(map[string]interface{})["recipients"])

	var count int64
	require.NoError(t, f.db.Model(&models.Message{}).Where("course_id = ?", f.course.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestThreadShowsBothDirections(t *testing.T) {
	f := setupFixture(t)

	require.NoError(t, f.db.Create(&models.Message{SenderID: f.student.ID, ReceiverID: f.instructor.ID, Content: "question"}).Error)
	require.NoError(t, f.db.Create(&models.Message{SenderID: f.instructor.ID, ReceiverID: f.student.ID, Content: "answer"}).Error)
	// unrelated conversation stays out
	other := models.User{Name: "oli", Email: "oli@example.com", PasswordHash: "x", Role: models.RoleInstructor}
	require.NoError(t, f.db.Create(&other).Error)
	require.NoError(t, f.db.Create(&models.Message{SenderID: other.ID, ReceiverID: f.student.ID, Content: "noise"}).Error)

	resp, payload := f.do(t, f.student, "GET", fmt.Sprintf("/messages/thread/%d", f.instructor.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	rows := payload["data"].([]interface{})
	require.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, "question", first["content"])
}

func TestAdminThreadRequiresAdmin(t *testing.T) {
	f := setupFixture(t)

	url := fmt.Sprintf("/admin/thread?user_a=%d&user_b=%d", f.student.ID, f.instructor.ID)
	resp, _ := f.do(t, f.student, "GET", url, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	admin := models.User{Name: "ada", Email: "ada@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, f.db.Create(&admin).Error)
	require.NoError(t, f.db.Create(&models.Message{SenderID: f.student.ID, ReceiverID: f.instructor.ID, Content: "hi"}).Error)

	resp, payload := f.do(t, admin, "GET", url, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, payload["data"].([]interface{}), 1)
}

func TestBroadcastForeignCourseForbidden(t *testing.T) {
	f := setupFixture(t)

	other := models.User{Name: "oli", Email: "oli@example.com", PasswordHash: "x", Role: models.RoleInstructor}
	require.NoError(t, f.db.Create(&other).Error)

	resp, _ := f.do(t, other, "POST", "/messages/broadcast", fiber.Map{
		"course_id": f.course.ID, "content": "spam",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
