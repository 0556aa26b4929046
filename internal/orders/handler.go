package orders

import (
	"github.com/craftfolio/cms/internal/database"
	"github.com/craftfolio/cms/internal/models"
	"github.com/craftfolio/cms/internal/response"
	"github.com/gofiber/fiber/v2"
)

// allowedTransitions encodes the order lifecycle. Cancellation is reachable
// from every non-terminal state.
var allowedTransitions = map[string][]string{
	models.OrderStatusNew:       {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:   {models.OrderStatusDone, models.OrderStatusCancelled},
}

func canTransition(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func ListOrdersHandler(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := database.DB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var orders []models.Order
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		return response.InternalError(c, "Failed to fetch orders")
	}

	meta := response.CalculateMeta(page, limit, total)
	return response.SuccessWithMeta(c, orders, meta, "Orders retrieved successfully")
}

func GetOrderHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid order ID", nil)
	}

	var order models.Order
	if err := database.DB.First(&order, id).Error; err != nil {
		return response.NotFound(c, "Order")
	}

	return response.Success(c, order, "Order retrieved successfully")
}

// UpdateOrderStatusHandler applies one lifecycle transition.
func UpdateOrderStatusHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid order ID", nil)
	}

	var body struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	var order models.Order
	if err := database.DB.First(&order, id).Error; err != nil {
		return response.NotFound(c, "Order")
	}

	if !canTransition(order.Status, body.Status) {
		return response.BadRequest(c,
			"Cannot change status from "+order.Status+" to "+body.Status, nil)
	}

	order.Status = body.Status
	if body.Note != "" {
		order.Note = body.Note
	}

	if err := database.DB.Save(&order).Error; err != nil {
		return response.InternalError(c, "Failed to update order")
	}

	return response.Success(c, order, "Order status updated successfully")
}
