package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/kcx/internal/models"
)

// Cart maps a product id to an ordered quantity. It lives in the caller's
// session, never in the database.
type Cart map[string]int

// Add puts one more unit of the product into the cart.
func (c Cart) Add(productID string) {
	c[productID]++
}

// Increase is an alias of Add kept for route symmetry.
func (c Cart) Increase(productID string) {
	c[productID]++
}

// Decrease lowers the quantity by one and drops the entry when it would
// reach zero or below.
func (c Cart) Decrease(productID string) {
	if _, ok := c[productID]; !ok {
		return
	}
	c[productID]--
	if c[productID] <= 0 {
		delete(c, productID)
	}
}

// Remove deletes the product from the cart entirely.
func (c Cart) Remove(productID string) {
	delete(c, productID)
}

// CartLine is one resolved cart entry.
type CartLine struct {
	Product   models.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	UnitPrice int64          `json:"unit_price"`
}

// CartView is the resolved cart with derived totals.
type CartView struct {
	Lines     []CartLine `json:"items"`
	Total     int64      `json:"total"`
	ItemCount int        `json:"item_count"`
}

// CartService resolves session carts against the product catalog.
type CartService struct {
	db *gorm.DB
}

// NewCartService constructs CartService.
func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// BuildCart resolves each cart entry against the catalog and computes the
// derived totals. Entries whose product no longer exists are dropped
// silently; each line's unit price is the product's effective price.
func (s *CartService) BuildCart(ctx context.Context, cart Cart) (*CartView, error) {
	view := &CartView{Lines: []CartLine{}}

	ids := make([]string, 0, len(cart))
	for productID := range cart {
		ids = append(ids, productID)
	}
	sort.Strings(ids)

	for _, productID := range ids {
		qty := cart[productID]
		if qty <= 0 {
			continue
		}

		id, err := uuid.Parse(productID)
		if err != nil {
			continue
		}

		var product models.Product
		if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return nil, err
		}

		unit := product.EffectivePrice()
		view.Lines = append(view.Lines, CartLine{
			Product:   product,
			Quantity:  qty,
			UnitPrice: unit,
		})
		view.Total += unit * int64(qty)
		view.ItemCount += qty
	}

	return view, nil
}
