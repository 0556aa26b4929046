package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/craftfolio/cms/internal/auth"
	"github.com/craftfolio/cms/internal/database"
	"github.com/craftfolio/cms/internal/models"
	"github.com/craftfolio/cms/internal/server"
	"github.com/craftfolio/cms/internal/storage"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err, "Failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.MediaAsset{},
		&models.PortfolioItem{},
		&models.Slider{},
		&models.Setting{},
		&models.Order{},
		&models.ProductQuestion{},
	)
	assert.NoError(t, err, "Failed to migrate test database")

	return db
}

func SetupTestApp(t *testing.T) *fiber.App {
	db := TestDB(t)
	database.DB = db

	CreateTestRoles(t, db)

	local, err := storage.NewLocal()
	assert.NoError(t, err, "Failed to initialize storage")
	storage.SetBackend(local)

	app := server.New(db)
	return app
}

func CreateTestRoles(t *testing.T, db *gorm.DB) {
	adminRole := models.Role{
		Name:        "admin",
		Description: "Administrator with full access",
	}
	db.Create(&adminRole)

	adminPerms := []models.Permission{
		{RoleID: adminRole.ID, Module: "media", Action: "view"},
		{RoleID: adminRole.ID, Module: "media", Action: "create"},
		{RoleID: adminRole.ID, Module: "media", Action: "delete"},
		{RoleID: adminRole.ID, Module: "portfolio", Action: "view"},
		{RoleID: adminRole.ID, Module: "portfolio", Action: "create"},
		{RoleID: adminRole.ID, Module: "portfolio", Action: "update"},
		{RoleID: adminRole.ID, Module: "portfolio", Action: "delete"},
		{RoleID: adminRole.ID, Module: "sliders", Action: "view"},
		{RoleID: adminRole.ID, Module: "sliders", Action: "create"},
		{RoleID: adminRole.ID, Module: "sliders", Action: "update"},
		{RoleID: adminRole.ID, Module: "sliders", Action: "delete"},
		{RoleID: adminRole.ID, Module: "settings", Action: "view"},
		{RoleID: adminRole.ID, Module: "settings", Action: "update"},
		{RoleID: adminRole.ID, Module: "orders", Action: "view"},
		{RoleID: adminRole.ID, Module: "orders", Action: "update"},
		{RoleID: adminRole.ID, Module: "questions", Action: "view"},
		{RoleID: adminRole.ID, Module: "questions", Action: "update"},
		{RoleID: adminRole.ID, Module: "questions", Action: "delete"},
	}
	for _, perm := range adminPerms {
		db.Create(&perm)
	}

	editorRole := models.Role{
		Name:        "editor",
		Description: "Editor - manages content and media",
	}
	db.Create(&editorRole)

	editorPerms := []models.Permission{
		{RoleID: editorRole.ID, Module: "media", Action: "view"},
		{RoleID: editorRole.ID, Module: "media", Action: "create"},
		{RoleID: editorRole.ID, Module: "media", Action: "delete"},
		{RoleID: editorRole.ID, Module: "portfolio", Action: "view"},
		{RoleID: editorRole.ID, Module: "portfolio", Action: "create"},
		{RoleID: editorRole.ID, Module: "portfolio", Action: "update"},
		{RoleID: editorRole.ID, Module: "sliders", Action: "view"},
		{RoleID: editorRole.ID, Module: "sliders", Action: "update"},
	}
	for _, perm := range editorPerms {
		db.Create(&perm)
	}

	viewerRole := models.Role{
		Name:        "viewer",
		Description: "Viewer - read-only access",
	}
	db.Create(&viewerRole)

	viewerPerms := []models.Permission{
		{RoleID: viewerRole.ID, Module: "media", Action: "view"},
		{RoleID: viewerRole.ID, Module: "portfolio", Action: "view"},
	}
	for _, perm := range viewerPerms {
		db.Create(&perm)
	}
}

func CreateTestUser(t *testing.T, db *gorm.DB, email, password, roleName string) *models.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)

	var role models.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		t.Fatalf("Failed to find role '%s': %v. Make sure CreateTestRoles was called.", roleName, err)
	}

	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: string(hashed),
		Status:   "active",
		RoleID:   role.ID,
	}

	err := db.Create(user).Error
	assert.NoError(t, err, "Failed to create test user")

	db.Preload("Role.Permissions").First(user, user.ID)

	if user.Role == nil {
		t.Fatal("Role not loaded for user")
	}

	return user
}

func GetAuthToken(t *testing.T, userID uint, roleName string) string {
	token, err := auth.GenerateToken(userID, roleName)
	assert.NoError(t, err, "Failed to generate test token")
	return token
}

func MakeRequest(app *fiber.App, method, url string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode

	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

func ParseResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	if resp.Body.Len() == 0 {
		t.Log("Warning: Response body is empty")
		return
	}

	err := json.NewDecoder(resp.Body).Decode(v)
	if err != nil && err != io.EOF {
		t.Logf("Response body: %s", resp.Body.String())
		assert.NoError(t, err, "Failed to parse response")
	}
}

type StandardResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data"`
	Error   *ErrorDetail `json:"error"`
	Meta    *Meta        `json:"meta"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func AssertSuccess(t *testing.T, resp *httptest.ResponseRecorder) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.True(t, result.Success, "Expected success response")
	assert.Empty(t, result.Error, "Expected no error")
}

func AssertError(t *testing.T, resp *httptest.ResponseRecorder, expectedCode string) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.False(t, result.Success, "Expected error response")
	assert.NotNil(t, result.Error, "Expected error object")
	assert.Equal(t, expectedCode, result.Error.Code, "Error code mismatch")
}
