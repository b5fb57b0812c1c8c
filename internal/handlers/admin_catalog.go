package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/kcx/internal/models"
	"github.com/example/kcx/internal/services"
	"github.com/example/kcx/internal/utils"
)

// AdminCatalogHandler manages products and categories.
type AdminCatalogHandler struct {
	db      *gorm.DB
	catalog *services.CatalogService
}

// NewAdminCatalogHandler constructs AdminCatalogHandler.
func NewAdminCatalogHandler(db *gorm.DB, catalog *services.CatalogService) *AdminCatalogHandler {
	return &AdminCatalogHandler{db: db, catalog: catalog}
}

type variantRequest struct {
	Color           string  `json:"color"`
	Size            string  `json:"size"`
	PriceAdjustment int64   `json:"price_adjustment"`
	ImagePositions  []int64 `json:"image_positions"`
}

type productRequest struct {
	Name         string           `json:"name"`
	Price        int64            `json:"price"`
	SalePrice    *int64           `json:"sale_price"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	IsBestseller bool             `json:"is_bestseller"`
	IsNewLaunch  bool             `json:"is_new_launch"`
	ImageURLs    []string         `json:"image_urls"`
	Variants     []variantRequest `json:"variants"`
}

func (r *productRequest) toModel() (models.Product, error) {
	if r.Name == "" {
		return models.Product{}, errors.New("name is required")
	}
	if r.Price <= 0 {
		return models.Product{}, errors.New("price must be positive")
	}

	product := models.Product{
		Name:         r.Name,
		Price:        r.Price,
		SalePrice:    r.SalePrice,
		Description:  r.Description,
		Category:     r.Category,
		IsBestseller: r.IsBestseller,
		IsNewLaunch:  r.IsNewLaunch,
	}

	if r.IsNewLaunch {
		now := time.Now().UTC()
		product.NewLaunchDate = &now
	}

	for i, url := range r.ImageURLs {
		product.Images = append(product.Images, models.ProductImage{
			URL:          url,
			DisplayOrder: i,
		})
	}

	for _, v := range r.Variants {
		product.Variants = append(product.Variants, models.ProductVariant{
			Color:           v.Color,
			Size:            v.Size,
			PriceAdjustment: v.PriceAdjustment,
			ImagePositions:  pq.Int64Array(v.ImagePositions),
		})
	}

	return product, nil
}

// ListProducts returns paginated products for the back office.
func (h *AdminCatalogHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := h.db.Preload("Images").Preload("Variants").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// CreateProduct persists a new product with its images and variants.
func (h *AdminCatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	product, err := req.toModel()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&product).Error
	}); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct updates an existing product and replaces its images and
// variants.
func (h *AdminCatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var existing models.Product
	if err := h.db.First(&existing, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	product, err := req.toModel()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	product.ID = existing.ID

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&product).Error
	}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct removes a product; image files are cleaned up best effort.
func (h *AdminCatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.catalog.DeleteProduct(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type reorderImagesRequest struct {
	ImageIDs []string `json:"image_ids"`
}

// ReorderImages applies a client-supplied image ordering; the first image
// becomes the product's primary image.
func (h *AdminCatalogHandler) ReorderImages(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req reorderImagesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	imageIDs := make([]uuid.UUID, 0, len(req.ImageIDs))
	for _, raw := range req.ImageIDs {
		imageID, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid image id")
		}
		imageIDs = append(imageIDs, imageID)
	}

	if len(imageIDs) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "image_ids must not be empty")
	}

	if err := h.catalog.ReorderProductImages(c.Context(), productID, imageIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product or image not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListCategories returns all categories in display order.
func (h *AdminCatalogHandler) ListCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := h.db.Order("sort_order asc").Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": categories})
}

type categoryRequest struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// CreateCategory persists a new category.
func (h *AdminCatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	category := models.Category{Name: req.Name, SortOrder: req.SortOrder}
	if err := h.db.Create(&category).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": category})
}

// UpdateCategory updates a category's name or position.
func (h *AdminCatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	category.SortOrder = req.SortOrder

	if err := h.db.Save(&category).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// DeleteCategory removes a category; refused while products reference it.
func (h *AdminCatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.catalog.DeleteCategory(c.Context(), id); err != nil {
		var inUse *services.CategoryInUseError
		if errors.As(err, &inUse) {
			return fiber.NewError(fiber.StatusConflict, inUse.Error())
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
