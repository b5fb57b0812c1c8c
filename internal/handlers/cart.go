package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/example/kcx/internal/services"
)

// CartHandler manages the session cart.
type CartHandler struct {
	store *session.Store
	carts *services.CartService
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(store *session.Store, carts *services.CartService) *CartHandler {
	return &CartHandler{store: store, carts: carts}
}

func (h *CartHandler) mutate(c *fiber.Ctx, fn func(cart services.Cart, productID string)) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return err
	}

	cart := getCart(sess)
	fn(cart, c.Params("id"))
	saveCart(sess, cart)

	if err := sess.Save(); err != nil {
		return err
	}

	view, err := h.carts.BuildCart(c.Context(), cart)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"cart":      view,
		"cart_open": true,
	})
}

// Add puts one unit of the product into the cart.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	return h.mutate(c, func(cart services.Cart, id string) { cart.Add(id) })
}

// Increase raises the quantity by one.
func (h *CartHandler) Increase(c *fiber.Ctx) error {
	return h.mutate(c, func(cart services.Cart, id string) { cart.Increase(id) })
}

// Decrease lowers the quantity by one, dropping the line at zero.
func (h *CartHandler) Decrease(c *fiber.Ctx) error {
	return h.mutate(c, func(cart services.Cart, id string) { cart.Decrease(id) })
}

// Remove deletes the line from the cart.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	return h.mutate(c, func(cart services.Cart, id string) { cart.Remove(id) })
}

// View resolves the cart and consumes the one-shot open flag.
func (h *CartHandler) View(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return err
	}

	cart := getCart(sess)
	open := consumeOpenCart(sess)

	if err := sess.Save(); err != nil {
		return err
	}

	view, err := h.carts.BuildCart(c.Context(), cart)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"cart":      view,
		"cart_open": open,
	})
}
