package userController

import (
	"errors"
	"strings"

	"lms/apperrors"
	"lms/config"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Controller struct {
	db  *gorm.DB
	cfg *config.Config
}

func New(db *gorm.DB, cfg *config.Config) *Controller {
	return &Controller{db: db, cfg: cfg}
}

func (ctrl *Controller) countAdmins() (int64, error) {
	var count int64
	err := ctrl.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error
	return count, err
}

// guardLastAdmin rejects removing or demoting the only remaining admin.
func (ctrl *Controller) guardLastAdmin(target *models.User) error {
	if target.Role != models.RoleAdmin {
		return nil
	}
	admins, err := ctrl.countAdmins()
	if err != nil {
		return apperrors.Internal(err)
	}
	if admins <= 1 {
		return apperrors.InvalidState("Cannot remove the last admin")
	}
	return nil
}

// List returns users with optional page/limit/q/role filters.
func (ctrl *Controller) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := ctrl.db.Model(&models.User{})

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" && models.ValidRole(role) {
		query = query.Where("role = ?", role)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Offset(offset).Limit(limit).Order("id desc").Find(&users).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Users fetched successfully!", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// Update changes role and optionally name/email. Demoting the last
// admin is refused.
func (ctrl *Controller) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid user id"))
	}

	reqData := new(struct {
		Role  string  `json:"role"`
		Name  *string `json:"name"`
		Email *string `json:"email"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
	}
	if !models.ValidRole(reqData.Role) {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid role provided"))
	}

	var user models.User
	if err := ctrl.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("User not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if reqData.Role != models.RoleAdmin {
		if err := ctrl.guardLastAdmin(&user); err != nil {
			return middleware.ErrorResponse(c, err)
		}
	}

	user.Role = reqData.Role
	if reqData.Name != nil && strings.TrimSpace(*reqData.Name) != "" {
		user.Name = strings.TrimSpace(*reqData.Name)
	}
	if reqData.Email != nil && strings.TrimSpace(*reqData.Email) != "" {
		user.Email = strings.ToLower(strings.TrimSpace(*reqData.Email))
	}

	if err := ctrl.db.Save(&user).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			return middleware.ErrorResponse(c, apperrors.Conflict("Email already in use"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "User updated successfully!", user)
}

// Patch applies a partial update with the same last-admin guard.
func (ctrl *Controller) Patch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid user id"))
	}

	reqData := new(struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Role  *string `json:"role"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid request body!"))
	}

	var user models.User
	if err := ctrl.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("User not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	updated := false
	if reqData.Name != nil && strings.TrimSpace(*reqData.Name) != "" {
		user.Name = strings.TrimSpace(*reqData.Name)
		updated = true
	}
	if reqData.Email != nil && strings.TrimSpace(*reqData.Email) != "" {
		user.Email = strings.ToLower(strings.TrimSpace(*reqData.Email))
		updated = true
	}
	if reqData.Role != nil && strings.TrimSpace(*reqData.Role) != "" {
		role := strings.TrimSpace(*reqData.Role)
		if !models.ValidRole(role) {
			return middleware.ErrorResponse(c, apperrors.Validation("Invalid role provided"))
		}
		if role != models.RoleAdmin {
			if err := ctrl.guardLastAdmin(&user); err != nil {
				return middleware.ErrorResponse(c, err)
			}
		}
		user.Role = role
		updated = true
	}

	if !updated {
		return middleware.ErrorResponse(c, apperrors.Validation("No valid fields provided for update"))
	}

	if err := ctrl.db.Save(&user).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			return middleware.ErrorResponse(c, apperrors.Conflict("Email already in use"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "User updated successfully!", user)
}

// Delete removes a user. Deleting the last admin is refused.
func (ctrl *Controller) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.ErrorResponse(c, apperrors.Validation("Invalid user id"))
	}

	var user models.User
	if err := ctrl.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, apperrors.NotFound("User not found"))
		}
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	if err := ctrl.guardLastAdmin(&user); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if err := ctrl.db.Delete(&user).Error; err != nil {
		return middleware.ErrorResponse(c, apperrors.Internal(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "User deleted successfully!", user)
}
