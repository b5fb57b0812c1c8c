package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/kcx/internal/config"
	"github.com/example/kcx/internal/services"
)

// SignatureHeader carries the gateway's HMAC over the raw webhook body.
const SignatureHeader = "X-Razorpay-Signature"

// PaymentHandler exposes the three payment-reconciliation entry points.
type PaymentHandler struct {
	payments *services.PaymentService
	cfg      *config.Config
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *services.PaymentService, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{payments: payments, cfg: cfg}
}

type createOrderRequest struct {
	OrderID string `json:"order_id"`
}

// CreateOrder registers a gateway payment intent for a local order.
func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing order_id"})
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order_id"})
	}

	params, err := h.payments.CreateGatewayOrder(c.Context(), orderID)
	if err != nil {
		var invalidAmount *services.InvalidAmountError
		var gatewayErr *services.GatewayError

		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		case errors.As(err, &invalidAmount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "invalid_amount",
				"detail": invalidAmount.Error(),
			})
		case errors.As(err, &gatewayErr):
			resp := fiber.Map{"error": "gateway_error"}
			if !h.cfg.IsProduction() {
				resp["detail"] = gatewayErr.Error()
			}
			return c.Status(fiber.StatusBadGateway).JSON(resp)
		}
		return err
	}

	return c.JSON(params)
}

type verifyPaymentRequest struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewaySignature string `json:"gateway_signature"`
	LocalOrderID     string `json:"local_order_id"`
}

// VerifyPayment handles the client-side checkout callback.
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req verifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.GatewayOrderID == "" || req.GatewayPaymentID == "" ||
		req.GatewaySignature == "" || req.LocalOrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing fields"})
	}

	localOrderID, err := uuid.Parse(req.LocalOrderID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid local_order_id"})
	}

	err = h.payments.VerifyPayment(c.Context(), localOrderID, req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature)
	if err != nil {
		if errors.Is(err, services.ErrSignatureVerification) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status": "failure",
				"error":  "signature verification failed",
			})
		}
		if errors.Is(err, services.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		}
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// Webhook handles the asynchronous gateway notification. Only a bad
// signature is rejected; all other outcomes are acknowledged so the
// gateway stops retrying.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	err := h.payments.HandleWebhook(c.Context(), c.Body(), c.Get(SignatureHeader))
	if err != nil {
		if errors.Is(err, services.ErrSignatureVerification) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid signature")
		}
		return err
	}

	return c.JSON(fiber.Map{"ok": true})
}
