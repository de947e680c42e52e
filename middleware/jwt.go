package middleware

import (
	"fmt"
	"strings"
	"time"

	"lms/config"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const authUserKey = "authUser"

// AuthUser is the identity attached to the request context after token
// verification. The role always comes from the signed token, never from
// the request body.
type AuthUser struct {
	ID    uint
	Name  string
	Email string
	Role  string
}

func (u AuthUser) IsAdmin() bool      { return u.Role == models.RoleAdmin }
func (u AuthUser) IsInstructor() bool { return u.Role == models.RoleInstructor }
func (u AuthUser) IsStudent() bool    { return u.Role == models.RoleStudent }

// GenerateJWT generates a signed token for the user
func GenerateJWT(cfg *config.Config, user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"role":    user.Role,
		"email":   user.Email,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(24 * time.Hour).Unix(), // expiry 24h
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTKey))
}

// Protected verifies the bearer token and stores the AuthUser in the
// request context. Missing or expired tokens get 401; a token that
// fails verification gets 403.
func Protected(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Access denied. No token provided.",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid Authorization header format",
			})
		}

		tokenString := authHeader[len("Bearer "):]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.JWTKey), nil
		})

		if err != nil {
			if verr, ok := err.(*jwt.ValidationError); ok && verr.Errors&jwt.ValidationErrorExpired != 0 {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"success": false,
					"error":   "Token expired. Please log in again.",
				})
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid token.",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid || claims["user_id"] == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid token.",
			})
		}

		userID, ok := claims["user_id"].(float64) // JWT numbers decode as float64
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid token payload",
			})
		}

		role, _ := claims["role"].(string)
		name, _ := claims["name"].(string)
		email, _ := claims["email"].(string)

		c.Locals(authUserKey, AuthUser{
			ID:    uint(userID),
			Name:  name,
			Email: email,
			Role:  role,
		})

		return c.Next()
	}
}

// CurrentUser returns the verified identity for the request.
func CurrentUser(c *fiber.Ctx) (AuthUser, bool) {
	user, ok := c.Locals(authUserKey).(AuthUser)
	return user, ok
}
