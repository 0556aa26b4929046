package slider

import (
	"github.com/craftfolio/cms/internal/database"
	"github.com/craftfolio/cms/internal/events"
	"github.com/craftfolio/cms/internal/models"
	"github.com/craftfolio/cms/internal/response"
	"github.com/gofiber/fiber/v2"
)

var bus *events.Bus

// UseBus installs the event bus so slider edits notify interested parties
// (the public site cache listens). A nil bus disables publishing.
func UseBus(b *events.Bus) {
	bus = b
}

func publishChanged() {
	bus.Publish(events.TopicSliders)
}

type sliderBody struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url"`
	Active   *bool  `json:"active"`
}

func CreateSliderHandler(c *fiber.Ctx) error {
	var body sliderBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.ImageURL == "" {
		return response.ValidationError(c, map[string]string{
			"image_url": "image_url is required",
		})
	}

	var maxOrder int
	database.DB.Model(&models.Slider{}).
		Select("COALESCE(MAX(sort_order), 0)").
		Row().Scan(&maxOrder)

	slider := models.Slider{
		Title:     body.Title,
		Subtitle:  body.Subtitle,
		ImageURL:  body.ImageURL,
		LinkURL:   body.LinkURL,
		SortOrder: maxOrder + 1,
		Active:    true,
	}
	if body.Active != nil {
		slider.Active = *body.Active
	}

	if err := database.DB.Create(&slider).Error; err != nil {
		return response.InternalError(c, "Failed to create slider")
	}

	publishChanged()
	return response.Created(c, slider, "Slider created successfully")
}

func ListSlidersHandler(c *fiber.Ctx) error {
	var sliders []models.Slider
	query := database.DB.Model(&models.Slider{})
	if c.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("sort_order ASC").Find(&sliders).Error; err != nil {
		return response.InternalError(c, "Failed to fetch sliders")
	}

	return response.Success(c, sliders, "Sliders retrieved successfully")
}

func UpdateSliderHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid slider ID", nil)
	}

	var slider models.Slider
	if err := database.DB.First(&slider, id).Error; err != nil {
		return response.NotFound(c, "Slider")
	}

	var body sliderBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	slider.Title = body.Title
	slider.Subtitle = body.Subtitle
	if body.ImageURL != "" {
		slider.ImageURL = body.ImageURL
	}
	slider.LinkURL = body.LinkURL
	if body.Active != nil {
		slider.Active = *body.Active
	}

	if err := database.DB.Save(&slider).Error; err != nil {
		return response.InternalError(c, "Failed to update slider")
	}

	publishChanged()
	return response.Success(c, slider, "Slider updated successfully")
}

// ReorderSlidersHandler persists a full ordering in one request. The body
// carries slider ids in their new display order.
func ReorderSlidersHandler(c *fiber.Ctx) error {
	var body struct {
		IDs []uint `json:"ids"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if len(body.IDs) == 0 {
		return response.BadRequest(c, "No slider IDs provided", nil)
	}

	tx := database.DB.Begin()
	for i, id := range body.IDs {
		if err := tx.Model(&models.Slider{}).Where("id = ?", id).
			Update("sort_order", i+1).Error; err != nil {
			tx.Rollback()
			return response.InternalError(c, "Failed to reorder sliders")
		}
	}
	if err := tx.Commit().Error; err != nil {
		return response.InternalError(c, "Failed to reorder sliders")
	}

	publishChanged()
	return response.Success(c, nil, "Sliders reordered successfully")
}

func DeleteSliderHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid slider ID", nil)
	}

	var slider models.Slider
	if err := database.DB.First(&slider, id).Error; err != nil {
		return response.NotFound(c, "Slider")
	}

	if err := database.DB.Delete(&slider).Error; err != nil {
		return response.InternalError(c, "Failed to delete slider")
	}

	publishChanged()
	return c.SendStatus(fiber.StatusNoContent)
}
