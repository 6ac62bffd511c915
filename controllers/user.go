package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hospitalshuttle/shuttle-booking/db"
	"github.com/hospitalshuttle/shuttle-booking/models"
	"golang.org/x/crypto/bcrypt"
)

// GetUsers returns active riders, used by staff when booking on behalf.
func GetUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := db.DB.Select("id", "name", "email").
		Where("role_id = ? AND is_active = ?", models.RoleRegular, true).
		Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch users",
		})
	}
	return c.JSON(users)
}

// GetAllUsers returns every user for the admin console.
func GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := db.DB.Select("id", "name", "email", "role_id", "is_active", "created_at").
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch users",
		})
	}
	return c.JSON(users)
}

// CreateUser adds a user directly; admin-created accounts skip OTP
// verification and start active.
func CreateUser(c *fiber.Ctx) error {
	type CreateInput struct {
		Name     string      `json:"name"`
		Email    string      `json:"email"`
		Password string      `json:"password"`
		RoleID   models.Role `json:"role_id"`
	}

	input := new(CreateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}
	if !input.RoleID.Valid() {
		input.RoleID = models.RoleRegular
	}

	var existing models.User
	if db.DB.Where("email = ?", input.Email).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Email is already registered",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
		RoleID:   input.RoleID,
		IsActive: true,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create user",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User created",
		"userId":  user.ID,
	})
}

// UpdateUser edits name, email, role and active flag (admin only).
func UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	type UpdateInput struct {
		Name     string      `json:"name"`
		Email    string      `json:"email"`
		RoleID   models.Role `json:"role_id"`
		IsActive *bool       `json:"is_active"`
	}
	input := new(UpdateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if !input.RoleID.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Unknown role",
		})
	}

	var user models.User
	if db.DB.Limit(1).Find(&user, uint(id)).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	updates := map[string]interface{}{
		"name":    input.Name,
		"email":   input.Email,
		"role_id": input.RoleID,
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update user",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated",
	})
}

// DeleteUser deactivates a user. Accounts are never hard-deleted so booking
// history keeps its linkage.
func DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	var user models.User
	if db.DB.Limit(1).Find(&user, uint(id)).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	if err := db.DB.Model(&user).Update("is_active", false).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to deactivate user",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deactivated",
	})
}

// GetProfile returns the public part of a user record.
func GetProfile(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	var user models.User
	if db.DB.Select("id", "name", "email").Limit(1).Find(&user, uint(id)).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}
	return c.JSON(user)
}

// UpdateProfile handles the combined profile endpoint: general name/email
// updates, password change (current password verified), admin password
// override and account soft-delete, switched on the "type" field.
func UpdateProfile(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	type ProfileInput struct {
		Type            string `json:"type"`
		Name            string `json:"name"`
		Email           string `json:"email"`
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	input := new(ProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var user models.User
	if db.DB.Limit(1).Find(&user, uint(id)).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	switch input.Type {
	case "password":
		if input.CurrentPassword == "" || input.NewPassword == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Current and new password are required",
			})
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Current password is incorrect",
			})
		}
		return setPassword(c, &user, input.NewPassword)

	case "admin_password":
		if _, role := actor(c); role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Only admin may reset passwords",
			})
		}
		if input.NewPassword == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "New password is required",
			})
		}
		return setPassword(c, &user, input.NewPassword)

	case "delete":
		if err := db.DB.Model(&user).Update("is_active", false).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to deactivate account",
			})
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Account deactivated",
		})

	default:
		if input.Name == "" || input.Email == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Name and email are required",
			})
		}
		var existing models.User
		if db.DB.Where("email = ? AND id != ?", input.Email, user.ID).First(&existing).RowsAffected > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Email is already registered",
			})
		}
		if err := db.DB.Model(&user).Updates(map[string]interface{}{
			"name":  input.Name,
			"email": input.Email,
		}).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to update profile",
			})
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Profile updated",
		})
	}
}

func setPassword(c *fiber.Ctx, user *models.User, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}
	if err := db.DB.Model(user).Update("password", string(hashed)).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update password",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password updated",
	})
}
