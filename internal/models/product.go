package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	Name          string           `json:"name"`
	Price         int64            `json:"price"`
	SalePrice     *int64           `json:"sale_price"`
	Description   string           `json:"description"`
	Category      string           `gorm:"index" json:"category"`
	IsBestseller  bool             `json:"is_bestseller"`
	IsNewLaunch   bool             `json:"is_new_launch"`
	NewLaunchDate *time.Time       `json:"new_launch_date"`
	MainImageID   *uuid.UUID       `gorm:"type:uuid" json:"main_image_id"`
	Images        []ProductImage   `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Variants      []ProductVariant `gorm:"constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

// EffectivePrice returns the sale price when set, otherwise the list price.
func (p *Product) EffectivePrice() int64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

type ProductImage struct {
	BaseModel
	ProductID    uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	URL          string    `json:"url"`
	DisplayOrder int       `json:"display_order"`
}

// ProductVariant is a color/size combination with an optional price
// adjustment. ImagePositions references display positions of the owning
// product's image list.
type ProductVariant struct {
	BaseModel
	ProductID       uuid.UUID     `gorm:"type:uuid;index" json:"product_id"`
	Color           string        `json:"color"`
	Size            string        `json:"size"`
	PriceAdjustment int64         `json:"price_adjustment"`
	ImagePositions  pq.Int64Array `gorm:"type:integer[]" json:"image_positions"`
}

type Category struct {
	BaseModel
	Name      string `gorm:"uniqueIndex" json:"name"`
	SortOrder int    `json:"sort_order"`
}
