package settings

import (
	"encoding/json"

	"github.com/craftfolio/cms/internal/database"
	"github.com/craftfolio/cms/internal/events"
	"github.com/craftfolio/cms/internal/models"
	"github.com/craftfolio/cms/internal/response"
	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm/clause"
)

var (
	bus    *events.Bus
	policy = bluemonday.StrictPolicy()
)

// UseBus installs the event bus; settings saves publish so long-lived
// consumers can refresh without polling. A nil bus disables publishing.
func UseBus(b *events.Bus) {
	bus = b
}

// GetSettingsHandler returns all keys of one group as a flat key->value map.
func GetSettingsHandler(c *fiber.Ctx) error {
	group := c.Params("group")
	if group == "" {
		return response.BadRequest(c, "Settings group is required", nil)
	}

	var rows []models.Setting
	if err := database.DB.Where("\"group\" = ?", group).Find(&rows).Error; err != nil {
		return response.InternalError(c, "Failed to fetch settings")
	}

	out := make(map[string]json.RawMessage, len(rows))
	for _, row := range rows {
		out[row.Key] = json.RawMessage(row.Value)
	}

	return response.Success(c, out, "Settings retrieved successfully")
}

// SaveSettingsHandler upserts a key->value map into one group. String
// values are sanitized; settings render into admin and public pages.
func SaveSettingsHandler(c *fiber.Ctx) error {
	group := c.Params("group")
	if group == "" {
		return response.BadRequest(c, "Settings group is required", nil)
	}

	userID := c.Locals("user_id").(uint)

	var body map[string]json.RawMessage
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if len(body) == 0 {
		return response.BadRequest(c, "No settings provided", nil)
	}

	for key, raw := range body {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			clean, _ := json.Marshal(policy.Sanitize(s))
			raw = clean
		}

		row := models.Setting{
			Group:     group,
			Key:       key,
			Value:     []byte(raw),
			UpdatedBy: userID,
		}
		err := database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return response.InternalError(c, "Failed to save settings")
		}
	}

	bus.Publish(events.TopicSettings)

	return response.Success(c, nil, "Settings saved successfully")
}
