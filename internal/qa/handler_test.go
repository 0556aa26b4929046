package qa_test

import (
	"testing"

	"github.com/craftfolio/cms/internal/database"
	"github.com/craftfolio/cms/internal/models"
	"github.com/craftfolio/cms/internal/testutils"
	"github.com/stretchr/testify/assert"
)

func TestAnswerQuestionHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	admin := testutils.CreateTestUser(t, database.DB, "admin@test.com", "password", "admin")
	token := testutils.GetAuthToken(t, admin.ID, admin.Role.Name)

	question := models.ProductQuestion{
		ProductSlug: "walnut-table",
		AuthorName:  "Curious Visitor",
		Question:    "Does it ship assembled?",
	}
	assert.NoError(t, database.DB.Create(&question).Error)

	t.Run("Answer is stored with attribution", func(t *testing.T) {
		rec, err := testutils.MakeRequest(app, "PUT", "/api/admin/questions/1/answer", map[string]interface{}{
			"answer": "Yes, fully assembled.",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, rec.Code)

		var updated models.ProductQuestion
		database.DB.First(&updated, question.ID)
		assert.Equal(t, "Yes, fully assembled.", updated.Answer)
		assert.NotNil(t, updated.AnsweredBy)
		assert.Equal(t, admin.ID, *updated.AnsweredBy)
		assert.NotNil(t, updated.AnsweredAt)
	})

	t.Run("Markup is stripped from answers", func(t *testing.T) {
		rec, err := testutils.MakeRequest(app, "PUT", "/api/admin/questions/1/answer", map[string]interface{}{
			"answer": `Plain <b>bold</b> text`,
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, rec.Code)

		var updated models.ProductQuestion
		database.DB.First(&updated, question.ID)
		assert.Equal(t, "Plain bold text", updated.Answer)
	})

	t.Run("Empty answer rejected", func(t *testing.T) {
		rec, err := testutils.MakeRequest(app, "PUT", "/api/admin/questions/1/answer", map[string]interface{}{
			"answer": "",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 422, rec.Code)
	})
}

func TestListQuestionsHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	admin := testutils.CreateTestUser(t, database.DB, "admin@test.com", "password", "admin")
	token := testutils.GetAuthToken(t, admin.ID, admin.Role.Name)

	database.DB.Create(&models.ProductQuestion{ProductSlug: "chair", Question: "Q1"})
	database.DB.Create(&models.ProductQuestion{ProductSlug: "table", Question: "Q2", Answer: "done"})

	t.Run("Unanswered filter", func(t *testing.T) {
		rec, err := testutils.MakeRequest(app, "GET", "/api/admin/questions?unanswered=true", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, rec.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, rec, &result)
		data := result.Data.([]interface{})
		assert.Len(t, data, 1)
	})

	t.Run("Product filter", func(t *testing.T) {
		rec, err := testutils.MakeRequest(app, "GET", "/api/admin/questions?product=table", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, rec.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, rec, &result)
		data := result.Data.([]interface{})
		assert.Len(t, data, 1)
	})
}
