package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/kcx/internal/models"
	"github.com/example/kcx/internal/services"
	"github.com/example/kcx/internal/utils"
)

// AdminOrderHandler supervises the order ledger.
type AdminOrderHandler struct {
	db *gorm.DB
}

// NewAdminOrderHandler constructs AdminOrderHandler.
func NewAdminOrderHandler(db *gorm.DB) *AdminOrderHandler {
	return &AdminOrderHandler{db: db}
}

// List returns paginated orders, newest first, optionally filtered by
// fulfillment status.
func (h *AdminOrderHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// Detail returns a single order with its items.
func (h *AdminOrderHandler) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type setStatusRequest struct {
	Status string `json:"status" form:"status"`
}

// SetStatus moves an order through the fulfillment workflow. Payment
// status is never touched here.
func (h *AdminOrderHandler) SetStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req setStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !models.ValidOrderStatus(req.Status) {
		return fiber.NewError(fiber.StatusBadRequest, "unknown status")
	}

	res := h.db.Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", req.Status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	return c.JSON(fiber.Map{"success": true})
}

// Export streams all orders as CSV, newest first.
func (h *AdminOrderHandler) Export(c *fiber.Ctx) error {
	var orders []models.Order
	if err := h.db.Order("created_at desc").Find(&orders).Error; err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=orders.csv`)
	return c.SendString(services.BuildOrdersCSV(orders))
}
