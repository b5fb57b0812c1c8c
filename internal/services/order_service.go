package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/kcx/internal/logger"
	"github.com/example/kcx/internal/models"
)

// Gift-wrap options and their surcharges, applied per wrapped line.
var WrapPrices = map[string]int64{
	"standard": 30,
	"premium":  60,
}

// CustomerInfo carries the checkout form fields.
type CustomerInfo struct {
	Name    string
	Phone   string
	Email   string
	Address string
	City    string
	Pincode string
	Notes   string
}

// LineOptions holds the optional per-product selections made at checkout.
type LineOptions struct {
	Size     string
	Color    string
	WrapType string
}

// OrderService converts carts into durable orders.
type OrderService struct {
	db       *gorm.DB
	carts    *CartService
	telegram *TelegramService
}

// NewOrderService constructs OrderService.
func NewOrderService(db *gorm.DB, carts *CartService, telegram *TelegramService) *OrderService {
	return &OrderService{db: db, carts: carts, telegram: telegram}
}

// Checkout converts the session cart into one Order with one OrderItem per
// resolvable line, committed as a single unit. Prices are frozen at the
// effective price read here. Returns ErrEmptyCart when nothing resolves.
func (s *OrderService) Checkout(ctx context.Context, cart Cart, customer CustomerInfo, options map[string]LineOptions) (*models.Order, error) {
	view, err := s.carts.BuildCart(ctx, cart)
	if err != nil {
		return nil, err
	}

	if len(view.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := models.Order{
		CustomerName:  customer.Name,
		Phone:         customer.Phone,
		Email:         customer.Email,
		Address:       customer.Address,
		City:          customer.City,
		Pincode:       customer.Pincode,
		Notes:         customer.Notes,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
	}

	total := view.Total
	for _, line := range view.Lines {
		item := models.OrderItem{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
		}

		if opts, ok := options[line.Product.ID.String()]; ok {
			item.SelectedSize = opts.Size
			item.SelectedColor = opts.Color
			if price, known := WrapPrices[opts.WrapType]; known {
				item.WrapType = opts.WrapType
				item.WrapPrice = price
				total += price
			}
		}

		order.Items = append(order.Items, item)
	}
	order.TotalAmount = total

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	}); err != nil {
		return nil, err
	}

	// Checkout success is defined by the ledger write alone. The operator
	// notification is best effort and never blocks the response.
	if s.telegram != nil {
		go func(o models.Order) {
			if err := s.telegram.NotifyNewOrder(o); err != nil {
				logger.L().Warn("order notification failed",
					zap.String("order_id", o.ID.String()),
					zap.Error(err),
				)
			}
		}(order)
	}

	return &order, nil
}
