package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"lms/config"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Get("/secret", Protected(cfg), func(c *fiber.Ctx) error {
		user, _ := CurrentUser(c)
		return c.JSON(fiber.Map{"id": user.ID, "role": user.Role})
	})
	return app
}

func TestProtectedRoundtrip(t *testing.T) {
	cfg := &config.Config{JWTKey: "test-secret"}
	app := testApp(cfg)

	user := models.User{ID: 42, Name: "sam", Email: "sam@example.com", Role: models.RoleStudent}
	token, err := GenerateJWT(cfg, &user)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/secret", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectedMissingToken(t *testing.T) {
	cfg := &config.Config{JWTKey: "test-secret"}
	app := testApp(cfg)

	req := httptest.NewRequest("GET", "/secret", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedTamperedToken(t *testing.T) {
	cfg := &config.Config{JWTKey: "test-secret"}
	app := testApp(cfg)

	otherCfg := &config.Config{JWTKey: "another-secret"}
	user := models.User{ID: 42, Role: models.RoleAdmin}
	token, err := GenerateJWT(otherCfg, &user)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/secret", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestProtectedExpiredToken(t *testing.T) {
	cfg := &config.Config{JWTKey: "test-secret"}
	app := testApp(cfg)

	claims := jwt.MapClaims{
		"user_id": 42,
		"role":    models.RoleStudent,
		"iat":     time.Now().Add(-48 * time.Hour).Unix(),
		"exp":     time.Now().Add(-24 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTKey))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/secret", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedBadHeaderFormat(t *testing.T) {
	cfg := &config.Config{JWTKey: "test-secret"}
	app := testApp(cfg)

	req := httptest.NewRequest("GET", "/secret", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
