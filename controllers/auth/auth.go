package authController

import (
	"errors"
	"strings"

	"lms/apperrors"
	"lms/config"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	authValidator "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Controller struct {
	db  *gorm.DB
	cfg *config.Config
}

func New(db *gorm.DB, cfg *config.Config) *Controller {
	return &Controller{db: db, cfg: cfg}
}

// Register creates a student or instructor account. Admin accounts are
// never created through the public endpoint.
func (ctrl *Controller) Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegister").(*authValidator.RegisterRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	email := strings.ToLower(strings.TrimSpace(reqData.Email))

	var existing models.User
	if err := ctrl.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return middleware.ErrorResponse(c, apperrors.Conflict("Email is already registered!"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), ctrl.cfg.SaltRound)
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	role := reqData.Role
	if role == "" {
		role = models.RoleStudent
	}

	user := models.User{
		Name:         strings.TrimSpace(reqData.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	if err := ctrl.db.Create(&user).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	go utils.SendEmail(ctrl.cfg, []string{user.Email}, "Welcome to LMS", utils.WelcomeEmailBody(user.Name))

	token, err := middleware.GenerateJWT(ctrl.cfg, &user)
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Registered successfully!", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Login verifies credentials and issues a token.
func (ctrl *Controller) Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request data!"))
	}

	email := strings.ToLower(strings.TrimSpace(reqData.Email))

	var user models.User
	if err := ctrl.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.Authentication("Invalid email or password!"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(reqData.Password)); err != nil {
		return middleware.ErrorResponse(c, apperrors.Authentication("Invalid email or password!"))
	}

	token, err := middleware.GenerateJWT(ctrl.cfg, &user)
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Logged in successfully!", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Me returns the account behind the presented token.
func (ctrl *Controller) Me(c *fiber.Ctx) error {
	authUser, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.ErrorResponse(c, apperrors.Authentication("Not authenticated."))
	}

	var user models.User
	if err := ctrl.db.First(&user, authUser.ID).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.NotFound("User not found"))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "User fetched successfully!", user)
}
