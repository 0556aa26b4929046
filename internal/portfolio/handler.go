package portfolio

import (
	"encoding/json"

	"github.com/craftfolio/cms/internal/database"
	"github.com/craftfolio/cms/internal/models"
	"github.com/craftfolio/cms/internal/response"
	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

type itemBody struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Summary    string   `json:"summary"`
	Body       string   `json:"body"`
	Images     []string `json:"images"`
	CoverImage string   `json:"cover_image"`
	Published  *bool    `json:"published"`
}

// normalizeCover repairs the cover pointer so it is always empty or a
// member of images. The admin form keeps this invariant itself; the server
// restores it against hand-crafted payloads.
func normalizeCover(images []string, cover string) string {
	if len(images) == 0 {
		return ""
	}
	for _, u := range images {
		if u == cover {
			return cover
		}
	}
	return images[0]
}

func CreatePortfolioHandler(c *fiber.Ctx) error {
	var body itemBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Title == "" || body.Slug == "" {
		return response.ValidationError(c, map[string]string{
			"title": "title and slug are required",
		})
	}

	imagesJSON, _ := json.Marshal(body.Images)

	item := models.PortfolioItem{
		Title:      body.Title,
		Slug:       body.Slug,
		Summary:    body.Summary,
		Body:       policy.Sanitize(body.Body),
		Images:     imagesJSON,
		CoverImage: normalizeCover(body.Images, body.CoverImage),
	}
	if body.Published != nil {
		item.Published = *body.Published
	}

	if err := database.DB.Create(&item).Error; err != nil {
		return response.InternalError(c, "Failed to create portfolio item")
	}

	return response.Created(c, item, "Portfolio item created successfully")
}

func ListPortfolioHandler(c *fiber.Ctx) error {
	var items []models.PortfolioItem
	query := database.DB.Model(&models.PortfolioItem{})
	if c.Query("published") == "true" {
		query = query.Where("published = ?", true)
	}
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return response.InternalError(c, "Failed to fetch portfolio items")
	}

	return response.Success(c, items, "Portfolio items retrieved successfully")
}

func GetPortfolioHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid portfolio ID", nil)
	}

	var item models.PortfolioItem
	if err := database.DB.First(&item, id).Error; err != nil {
		return response.NotFound(c, "Portfolio item")
	}

	return response.Success(c, item, "Portfolio item retrieved successfully")
}

func UpdatePortfolioHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid portfolio ID", nil)
	}

	var item models.PortfolioItem
	if err := database.DB.First(&item, id).Error; err != nil {
		return response.NotFound(c, "Portfolio item")
	}

	var body itemBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Title != "" {
		item.Title = body.Title
	}
	if body.Slug != "" {
		item.Slug = body.Slug
	}
	item.Summary = body.Summary
	item.Body = policy.Sanitize(body.Body)
	if body.Published != nil {
		item.Published = *body.Published
	}

	if body.Images != nil {
		imagesJSON, _ := json.Marshal(body.Images)
		item.Images = imagesJSON
		item.CoverImage = normalizeCover(body.Images, body.CoverImage)
	} else if body.CoverImage != "" {
		var images []string
		json.Unmarshal(item.Images, &images)
		item.CoverImage = normalizeCover(images, body.CoverImage)
	}

	if err := database.DB.Save(&item).Error; err != nil {
		return response.InternalError(c, "Failed to update portfolio item")
	}

	return response.Success(c, item, "Portfolio item updated successfully")
}

func DeletePortfolioHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid portfolio ID", nil)
	}

	var item models.PortfolioItem
	if err := database.DB.First(&item, id).Error; err != nil {
		return response.NotFound(c, "Portfolio item")
	}

	if err := database.DB.Delete(&item).Error; err != nil {
		return response.InternalError(c, "Failed to delete portfolio item")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
