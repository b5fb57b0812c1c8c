package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/kcx/internal/models"
)

// ShopHandler serves the public storefront reads.
type ShopHandler struct {
	db *gorm.DB
}

// NewShopHandler constructs ShopHandler.
func NewShopHandler(db *gorm.DB) *ShopHandler {
	return &ShopHandler{db: db}
}

// Home returns the landing page data: bestsellers and new launches.
func (h *ShopHandler) Home(c *fiber.Ctx) error {
	var bestsellers []models.Product
	if err := h.db.Preload("Images").
		Where("is_bestseller = ?", true).
		Find(&bestsellers).Error; err != nil {
		return err
	}

	var newLaunches []models.Product
	if err := h.db.Preload("Images").
		Where("is_new_launch = ?", true).
		Order("new_launch_date desc").
		Find(&newLaunches).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"bestsellers":  bestsellers,
		"new_launches": newLaunches,
	})
}

// Shop lists products, optionally filtered by category name.
func (h *ShopHandler) Shop(c *fiber.Ctx) error {
	query := h.db.Model(&models.Product{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var products []models.Product
	if err := query.Preload("Images").Preload("Variants").
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	var categories []models.Category
	if err := h.db.Order("sort_order asc").Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       products,
		"categories": categories,
	})
}

// ProductDetail loads one product with its images and variants.
func (h *ShopHandler) ProductDetail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order asc")
	}).Preload("Variants").
		First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}
