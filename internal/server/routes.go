package server

import (
	"time"

	"github.com/craftfolio/cms/internal/auth"
	"github.com/craftfolio/cms/internal/media"
	"github.com/craftfolio/cms/internal/orders"
	"github.com/craftfolio/cms/internal/portfolio"
	"github.com/craftfolio/cms/internal/qa"
	"github.com/craftfolio/cms/internal/settings"
	"github.com/craftfolio/cms/internal/slider"
	"github.com/craftfolio/cms/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "CMS API is running",
		})
	})

	// ==========================================
	// AUTH (No authentication required)
	// ==========================================
	app.Post("/api/admin/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), user.LoginHandler)

	// ==========================================
	// MEDIA LIBRARY
	// ==========================================
	admin := app.Group("/api/admin")
	admin.Use(auth.JWTProtected())

	admin.Post("/upload",
		auth.PermissionProtected("media", "create"),
		media.UploadMediaHandler)
	admin.Post("/upload/bulk",
		auth.PermissionProtected("media", "create"),
		media.BulkUploadMediaHandler)
	admin.Get("/media",
		auth.PermissionProtected("media", "view"),
		media.ListMediaHandler)
	admin.Get("/media/stats",
		auth.PermissionProtected("media", "view"),
		media.GetMediaStatsHandler)
	admin.Get("/media/:id",
		auth.PermissionProtected("media", "view"),
		media.GetMediaHandler)
	admin.Delete("/media/:id",
		auth.PermissionProtected("media", "delete"),
		media.DeleteMediaHandler)

	// ==========================================
	// PORTFOLIO
	// ==========================================
	admin.Post("/portfolio",
		auth.PermissionProtected("portfolio", "create"),
		portfolio.CreatePortfolioHandler)
	admin.Get("/portfolio",
		auth.PermissionProtected("portfolio", "view"),
		portfolio.ListPortfolioHandler)
	admin.Get("/portfolio/:id",
		auth.PermissionProtected("portfolio", "view"),
		portfolio.GetPortfolioHandler)
	admin.Put("/portfolio/:id",
		auth.PermissionProtected("portfolio", "update"),
		portfolio.UpdatePortfolioHandler)
	admin.Delete("/portfolio/:id",
		auth.PermissionProtected("portfolio", "delete"),
		portfolio.DeletePortfolioHandler)

	// ==========================================
	// SLIDERS
	// ==========================================
	admin.Post("/sliders",
		auth.PermissionProtected("sliders", "create"),
		slider.CreateSliderHandler)
	admin.Get("/sliders",
		auth.PermissionProtected("sliders", "view"),
		slider.ListSlidersHandler)
	admin.Put("/sliders/reorder",
		auth.PermissionProtected("sliders", "update"),
		slider.ReorderSlidersHandler)
	admin.Put("/sliders/:id",
		auth.PermissionProtected("sliders", "update"),
		slider.UpdateSliderHandler)
	admin.Delete("/sliders/:id",
		auth.PermissionProtected("sliders", "delete"),
		slider.DeleteSliderHandler)

	// ==========================================
	// SETTINGS
	// ==========================================
	admin.Get("/settings/:group",
		auth.PermissionProtected("settings", "view"),
		settings.GetSettingsHandler)
	admin.Put("/settings/:group",
		auth.PermissionProtected("settings", "update"),
		settings.SaveSettingsHandler)

	// ==========================================
	// ORDERS
	// ==========================================
	admin.Get("/orders",
		auth.PermissionProtected("orders", "view"),
		orders.ListOrdersHandler)
	admin.Get("/orders/:id",
		auth.PermissionProtected("orders", "view"),
		orders.GetOrderHandler)
	admin.Put("/orders/:id/status",
		auth.PermissionProtected("orders", "update"),
		orders.UpdateOrderStatusHandler)

	// ==========================================
	// PRODUCT QUESTIONS
	// ==========================================
	admin.Get("/questions",
		auth.PermissionProtected("questions", "view"),
		qa.ListQuestionsHandler)
	admin.Put("/questions/:id/answer",
		auth.PermissionProtected("questions", "update"),
		qa.AnswerQuestionHandler)
	admin.Delete("/questions/:id",
		auth.PermissionProtected("questions", "delete"),
		qa.DeleteQuestionHandler)

	// ==========================================
	// USER MANAGEMENT (Admin only)
	// ==========================================
	userGroup := app.Group("/api/admin/users")
	userGroup.Use(auth.JWTProtected())
	userGroup.Use(auth.RoleProtected("admin"))
	userGroup.Post("/", user.CreateUserHandler)
	userGroup.Get("/", user.ListUsersHandler)
	userGroup.Put("/:id", user.UpdateUserHandler)
	userGroup.Delete("/:id", user.DeleteUserHandler)
}
