package user

import (
	"errors"
	"fmt"

	"github.com/craftfolio/cms/internal/database"
	"github.com/craftfolio/cms/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedPermissions = map[string][]string{
	"media":     {"view", "create", "delete"},
	"portfolio": {"view", "create", "update", "delete"},
	"sliders":   {"view", "create", "update", "delete"},
	"settings":  {"view", "update"},
	"orders":    {"view", "update"},
	"questions": {"view", "update", "delete"},
	"users":     {"view", "create", "update", "delete"},
}

// SeedRoles creates the admin and editor roles when missing. Admin holds
// every permission; editor gets content modules only.
func SeedRoles(db *gorm.DB) error {
	editorModules := map[string]bool{
		"media": true, "portfolio": true, "sliders": true, "questions": true,
	}

	for _, name := range []string{"admin", "editor"} {
		var role models.Role
		err := db.Where("name = ?", name).First(&role).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up role %s: %w", name, err)
		}

		role = models.Role{Name: name, Description: name + " role"}
		for module, actions := range seedPermissions {
			if name == "editor" && !editorModules[module] {
				continue
			}
			for _, action := range actions {
				role.Permissions = append(role.Permissions, models.Permission{
					Module: module,
					Action: action,
				})
			}
		}
		if err := db.Create(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
	}
	return nil
}

// CreateUser hashes the password and stores the user under the named role.
func CreateUser(name, email, password, roleName string) (*models.User, error) {
	var role models.Role
	if err := database.DB.Where("name = ?", roleName).First(&role).Error; err != nil {
		return nil, fmt.Errorf("role %s not found", roleName)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Status:   "active",
		RoleID:   role.ID,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.Role = &role
	return &user, nil
}

// Authenticate checks credentials and returns the user on success.
func Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := database.DB.Preload("Role").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, errors.New("invalid credentials")
	}
	if user.Status != "active" {
		return nil, errors.New("account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return &user, nil
}
