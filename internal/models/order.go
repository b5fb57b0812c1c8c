package models

import "github.com/google/uuid"

// Fulfillment workflow states. Transitions are admin-driven only.
const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusShipped   = "Shipped"
	OrderStatusCompleted = "Completed"
	OrderStatusCancelled = "Cancelled"
)

// Payment states. Paid is terminal; Failed may still be overtaken by a
// later Paid signal when the gateway retries a failed attempt.
const (
	PaymentStatusUnpaid = "Unpaid"
	PaymentStatusPaid   = "Paid"
	PaymentStatusFailed = "Failed"
)

type Order struct {
	BaseModel
	CustomerName     string      `json:"customer_name"`
	Phone            string      `json:"phone"`
	Email            string      `json:"email"`
	Address          string      `json:"address"`
	City             string      `json:"city"`
	Pincode          string      `json:"pincode"`
	Notes            string      `json:"notes"`
	TotalAmount      int64       `json:"total_amount"`
	Status           string      `gorm:"default:Pending" json:"status"`
	PaymentStatus    string      `gorm:"default:Unpaid" json:"payment_status"`
	GatewayOrderID   string      `gorm:"index" json:"gateway_order_id"`
	GatewayPaymentID string      `json:"gateway_payment_id"`
	GatewaySignature string      `json:"gateway_signature"`
	Items            []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem snapshots the product at checkout time. ProductID is
// informational only: deleting a product must not touch historical items.
type OrderItem struct {
	BaseModel
	OrderID       uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID     uuid.UUID `gorm:"type:uuid" json:"product_id"`
	ProductName   string    `json:"product_name"`
	UnitPrice     int64     `json:"unit_price"`
	Quantity      int       `json:"quantity"`
	SelectedSize  string    `json:"selected_size"`
	SelectedColor string    `json:"selected_color"`
	WrapType      string    `json:"wrap_type"`
	WrapPrice     int64     `json:"wrap_price"`
}

// ValidOrderStatus reports whether s is a known fulfillment state.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}
