package user

import (
	"github.com/craftfolio/cms/internal/auth"
	"github.com/craftfolio/cms/internal/database"
	"github.com/craftfolio/cms/internal/models"
	"github.com/craftfolio/cms/internal/response"
	"github.com/gofiber/fiber/v2"
)

// LoginHandler exchanges credentials for a JWT.
func LoginHandler(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.Email == "" || body.Password == "" {
		return response.ValidationError(c, map[string]string{
			"email": "email and password are required",
		})
	}

	user, err := Authenticate(body.Email, body.Password)
	if err != nil {
		return response.Unauthorized(c, err.Error())
	}

	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}
	token, err := auth.GenerateToken(user.ID, roleName)
	if err != nil {
		return response.InternalError(c, "Failed to generate token")
	}

	return response.Success(c, fiber.Map{
		"token": token,
		"user":  user,
	}, "Login successful")
}

func CreateUserHandler(c *fiber.Ctx) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.Email == "" || body.Password == "" {
		return response.ValidationError(c, map[string]string{
			"email": "email and password are required",
		})
	}
	if len(body.Password) < 8 {
		return response.ValidationError(c, map[string]string{
			"password": "password must be at least 8 characters",
		})
	}
	if body.Role == "" {
		body.Role = "editor"
	}

	user, err := CreateUser(body.Name, body.Email, body.Password, body.Role)
	if err != nil {
		return response.BadRequest(c, err.Error(), nil)
	}

	return response.Created(c, user, "User created successfully")
}

func ListUsersHandler(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Preload("Role").Order("created_at DESC").Find(&users).Error; err != nil {
		return response.InternalError(c, "Failed to fetch users")
	}
	return response.Success(c, users, "Users retrieved successfully")
}

func UpdateUserHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return response.NotFound(c, "User")
	}

	var body struct {
		Name   string `json:"name"`
		Status string `json:"status"`
		Role   string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Name != "" {
		user.Name = body.Name
	}
	if body.Status == "active" || body.Status == "disabled" {
		user.Status = body.Status
	}
	if body.Role != "" {
		var role models.Role
		if err := database.DB.Where("name = ?", body.Role).First(&role).Error; err != nil {
			return response.BadRequest(c, "Unknown role", nil)
		}
		user.RoleID = role.ID
	}

	if err := database.DB.Save(&user).Error; err != nil {
		return response.InternalError(c, "Failed to update user")
	}

	return response.Success(c, user, "User updated successfully")
}

func DeleteUserHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	actorID := c.Locals("user_id").(uint)
	if uint(id) == actorID {
		return response.BadRequest(c, "Cannot delete your own account", nil)
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return response.NotFound(c, "User")
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		return response.InternalError(c, "Failed to delete user")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
