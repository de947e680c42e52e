package payoutController_test

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
	payoutRoutes "lms/routers/payoutRoutes"

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
	admin      models.User
	instructor models.User
	student    models.User
	course     models.Course
	paidTx     models.Transaction
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

	cfg := &config.Config{JWTKey: "test-secret", SaltRound: 4, InstructorShare: 0.70}
	app := fiber.New()
	payoutRoutes.SetupPayoutRoutes(app, db, cfg)

	f := &fixture{app: app, db: db, cfg: cfg}

	f.admin = models.User{Name: "ada", Email: "ada@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	f.instructor = models.User{Name: "ina", Email: "ina@example.com", PasswordHash: "x", Role: models.RoleInstructor}
	f.student = models.User{Name: "sam", Email: "sam@example.com", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&f.admin).Error)
	require.NoError(t, db.Create(&f.instructor).Error)
	require.NoError(t, db.Create(&f.student).Error)

	f.course = models.Course{Title: "Go Basics", Price: 100, InstructorID: f.instructor.ID, Status: models.CourseStatusApproved, IsPublic: true}
	require.NoError(t, db.Create(&f.course).Error)

	f.paidTx = models.Transaction{
		StudentID: f.student.ID, CourseID: f.course.ID,
		OriginalPrice: 100, AmountPaid: 90,
		PaymentMethod: "card", Status: models.TransactionStatusPaid,
	}
	require.NoError(t, db.Create(&f.paidTx).Error)

	return f
}

func (f *fixture) token(t *testing.T, user models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(f.cfg, &user)
	require.NoError(t, err)
	return token
}

func (f *fixture) do(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

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

func TestCreatePayoutDefaultShare(t *testing.T) {
	f := setupFixture(t)
	token := f.token(t, f.admin)

	resp, payload := f.do(t, "POST", "/payouts", token, fiber.Map{"transaction_id": f.paidTx.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := payload["data"].(map[string]interface{})
	assert.Equal(t, 63.0, data["amount"]) // 90 * 0.70
	assert.Equal(t, models.PayoutStatusPending, data["status"])
	assert.EqualValues(t, f.instructor.ID, data["instructor_id"])
}

func TestCreatePayoutExplicitAmount(t *testing.T) {
	f := setupFixture(t)
	token := f.token(t, f.admin)

	resp, payload := f.do(t, "POST", "/payouts", token, fiber.Map{"transaction_id": f.paidTx.ID, "amount": 42.5})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := payload["data"].(map[string]interface{})
	assert.Equal(t, 42.5, data["amount"])
}

func TestCreatePayoutDuplicate(t *testing.T) {
	f := setupFixture(t)
	token := f.token(t, f.admin)

	resp, _ := f.do(t, "POST", "/payouts", token, fiber.Map{"transaction_id": f.paidTx.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = f.do(t, "POST", "/payouts", token, fiber.Map{"transaction_id": f.paidTx.ID})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestCreatePayoutRefundedTransaction(t *testing.T) {
	f := setupFixture(t)
	token := f.token(t, f.admin)

	require.NoError(t, f.db.Model(&f.paidTx).Update("status", models.TransactionStatusRefunded).Error)

	resp, _ := f.do(t, "POST", "/payouts", token, fiber.Map{"transaction_id": f.paidTx.ID})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCreatePayoutMissingTransaction(t *testing.T) {
	f := setupFixture(t)
	token := f.token(t, f.admin)

	resp, _ := f.do(t, "POST", "/payouts", token, fiber.Map{"transaction_id": 9999})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreatePayoutForbiddenForInstructor(t *testing.T) {
	f := setupFixture(t)
	token := f.token(t, f.instructor)

	resp, _ := f.do(t, "POST", "/payouts", token, fiber.Map{"transaction_id": f.paidTx.ID})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestMarkPaidAndMyPayouts(t *testing.T) {
	f := setupFixture(t)
	adminToken := f.token(t, f.admin)

	resp, payload := f.do(t, "POST", "/payouts", adminToken, fiber.Map{"transaction_id": f.paidTx.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	payoutID := payload["data"].(map[string]interface{})["payout_id"].(float64)

	resp, _ = f.do(t, "PATCH", fmt.Sprintf("/payouts/%.0f/paid", payoutID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payout models.InstructorPayout
	require.NoError(t, f.db.First(&payout, uint(payoutID)).Error)
	assert.Equal(t, models.PayoutStatusPaid, payout.Status)
	assert.NotNil(t, payout.PaidAt)

	// paying twice is rejected
	resp, _ = f.do(t, "PATCH", fmt.Sprintf("/payouts/%.0f/paid", payoutID), adminToken, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	instructorToken := f.token(t, f.instructor)
	resp, payload = f.do(t, "GET", "/payouts/my", instructorToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, 63.0, data["total_paid"])
}
