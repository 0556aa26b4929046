package qa

import (
	"time"

	"github.com/craftfolio/cms/internal/database"
	"github.com/craftfolio/cms/internal/models"
	"github.com/craftfolio/cms/internal/response"
	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

func ListQuestionsHandler(c *fiber.Ctx) error {
	query := database.DB.Model(&models.ProductQuestion{})
	if slug := c.Query("product"); slug != "" {
		query = query.Where("product_slug = ?", slug)
	}
	if c.Query("unanswered") == "true" {
		query = query.Where("answer = ''")
	}

	var questions []models.ProductQuestion
	if err := query.Order("created_at DESC").Find(&questions).Error; err != nil {
		return response.InternalError(c, "Failed to fetch questions")
	}

	return response.Success(c, questions, "Questions retrieved successfully")
}

// AnswerQuestionHandler sets or replaces the answer, recording who answered
// and when.
func AnswerQuestionHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid question ID", nil)
	}

	var body struct {
		Answer string `json:"answer"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	answer := policy.Sanitize(body.Answer)
	if answer == "" {
		return response.ValidationError(c, map[string]string{
			"answer": "answer is required",
		})
	}

	var question models.ProductQuestion
	if err := database.DB.First(&question, id).Error; err != nil {
		return response.NotFound(c, "Question")
	}

	userID := c.Locals("user_id").(uint)
	now := time.Now()
	question.Answer = answer
	question.AnsweredBy = &userID
	question.AnsweredAt = &now

	if err := database.DB.Save(&question).Error; err != nil {
		return response.InternalError(c, "Failed to save answer")
	}

	return response.Success(c, question, "Question answered successfully")
}

func DeleteQuestionHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid question ID", nil)
	}

	var question models.ProductQuestion
	if err := database.DB.First(&question, id).Error; err != nil {
		return response.NotFound(c, "Question")
	}

	if err := database.DB.Delete(&question).Error; err != nil {
		return response.InternalError(c, "Failed to delete question")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
