package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/kcx/internal/config"
	"github.com/example/kcx/internal/middleware"
	"github.com/example/kcx/internal/models"
	"github.com/example/kcx/internal/utils"
)

// AdminHandler manages the admin gate and the dashboard.
type AdminHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, cfg *config.Config) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg}
}

type adminLoginRequest struct {
	Password string `json:"password" form:"password"`
}

// Login checks the shared admin password and issues an expiring admin
// session token, set both as a cookie and returned in the body.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !utils.CheckPassword(h.cfg.AdminPassword, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "wrong password")
	}

	token, err := utils.GenerateAdminToken(h.cfg.AdminSessionSecret, h.cfg.AdminSessionTTL)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminSessionCookie,
		Value:    token,
		Expires:  time.Now().Add(h.cfg.AdminSessionTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{"success": true, "token": token})
}

// Logout clears the admin session cookie.
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminSessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{"success": true})
}

// Dashboard returns the quick admin metrics.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	var ordersCount, productsCount, todaysCount int64

	if err := h.db.Model(&models.Order{}).Count(&ordersCount).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Product{}).Count(&productsCount).Error; err != nil {
		return err
	}

	// Today's orders are counted from local midnight, not UTC.
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := h.db.Model(&models.Order{}).
		Where("created_at >= ?", startOfDay).
		Count(&todaysCount).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"orders_count":   ordersCount,
		"products_count": productsCount,
		"todays_count":   todaysCount,
	})
}
