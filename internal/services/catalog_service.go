package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/kcx/internal/logger"
	"github.com/example/kcx/internal/models"
)

// CatalogService holds the admin catalog operations with behavior beyond
// plain CRUD.
type CatalogService struct {
	db      *gorm.DB
	storage ImageStorage
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(db *gorm.DB, storage ImageStorage) *CatalogService {
	return &CatalogService{db: db, storage: storage}
}

// DeleteCategory removes a category unless products still reference it, in
// which case the deletion is refused with the blocking count.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category = ?", category.Name).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return &CategoryInUseError{Name: category.Name, Count: count}
	}

	return s.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

// DeleteProduct removes a product, its rows, and its image files. File
// removal is best effort: a storage failure is logged and the database
// delete proceeds.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("Images").
		First(&product, "id = ?", id).Error; err != nil {
		return err
	}

	for _, img := range product.Images {
		if err := s.storage.Remove(img.URL); err != nil {
			logger.L().Warn("failed to remove product image file",
				zap.String("product_id", id.String()),
				zap.String("url", img.URL),
				zap.Error(err),
			)
		}
	}

	return s.db.WithContext(ctx).Select("Images", "Variants").
		Delete(&models.Product{BaseModel: models.BaseModel{ID: id}}).Error
}

// ReorderProductImages applies a client-supplied ordering of image ids:
// each image gets its position index, and the first becomes the product's
// primary image.
func (s *CatalogService) ReorderProductImages(ctx context.Context, productID uuid.UUID, imageIDs []uuid.UUID) error {
	if len(imageIDs) == 0 {
		return errors.New("image_ids must not be empty")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			return err
		}

		for position, imageID := range imageIDs {
			res := tx.Model(&models.ProductImage{}).
				Where("id = ? AND product_id = ?", imageID, productID).
				Update("display_order", position)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		return tx.Model(&models.Product{}).
			Where("id = ?", productID).
			Update("main_image_id", imageIDs[0]).Error
	})
}
