package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/kcx/internal/models"
	"github.com/example/kcx/internal/services"
)

// CheckoutHandler converts the session cart into an order.
type CheckoutHandler struct {
	db     *gorm.DB
	store  *session.Store
	carts  *services.CartService
	orders *services.OrderService
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(db *gorm.DB, store *session.Store, carts *services.CartService, orders *services.OrderService) *CheckoutHandler {
	return &CheckoutHandler{db: db, store: store, carts: carts, orders: orders}
}

type lineOptionsRequest struct {
	Size     string `json:"size"`
	Color    string `json:"color"`
	WrapType string `json:"wrap_type"`
}

type checkoutRequest struct {
	Name    string                        `json:"name" form:"name"`
	Phone   string                        `json:"phone" form:"phone"`
	Email   string                        `json:"email" form:"email"`
	Address string                        `json:"address" form:"address"`
	City    string                        `json:"city" form:"city"`
	Pincode string                        `json:"pincode" form:"pincode"`
	Notes   string                        `json:"notes" form:"notes"`
	Options map[string]lineOptionsRequest `json:"options"`
}

// Show returns the checkout summary for the current cart.
func (h *CheckoutHandler) Show(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return err
	}

	view, err := h.carts.BuildCart(c.Context(), getCart(sess))
	if err != nil {
		return err
	}

	if len(view.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "cart_empty",
			"redirect": "/shop",
		})
	}

	return c.JSON(fiber.Map{"success": true, "cart": view})
}

// Submit places the order from the checkout form.
func (h *CheckoutHandler) Submit(c *fiber.Ctx) error {
	return h.checkout(c, false)
}

// SubmitAJAX places the order from the JSON checkout flow and returns the
// order id for the payment step.
func (h *CheckoutHandler) SubmitAJAX(c *fiber.Ctx) error {
	return h.checkout(c, true)
}

func (h *CheckoutHandler) checkout(c *fiber.Ctx, ajax bool) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Phone == "" || req.Address == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name, phone and address are required")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return err
	}
	cart := getCart(sess)

	options := make(map[string]services.LineOptions, len(req.Options))
	for id, opts := range req.Options {
		options[id] = services.LineOptions{
			Size:     opts.Size,
			Color:    opts.Color,
			WrapType: opts.WrapType,
		}
	}

	order, err := h.orders.Checkout(c.Context(), cart, services.CustomerInfo{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		City:    req.City,
		Pincode: req.Pincode,
		Notes:   req.Notes,
	}, options)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":    "cart_empty",
				"redirect": "/shop",
			})
		}
		return err
	}

	clearCart(sess)
	if err := sess.Save(); err != nil {
		return err
	}

	if ajax {
		return c.JSON(fiber.Map{
			"order_id": order.ID,
			"total":    order.TotalAmount,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"order_id": order.ID,
		"redirect": "/order-success/" + order.ID.String(),
	})
}

// OrderSuccess returns the confirmation data for a placed order.
func (h *CheckoutHandler) OrderSuccess(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
