package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/kcx/internal/logger"
	"github.com/example/kcx/internal/models"
)

// minAmountMinor is the gateway's minimum chargeable amount in minor
// currency units.
const minAmountMinor = 100

const gatewayCurrency = "INR"

// PaymentService reconciles orders with the payment gateway. Its entry
// points (CreateGatewayOrder, VerifyPayment, HandleWebhook) are safe to
// call any number of times, in any order, including concurrently: every
// settlement write holds a row lock and short-circuits once the order is
// Paid.
type PaymentService struct {
	db            *gorm.DB
	gateway       *GatewayService
	webhookSecret string
	telegram      *TelegramService
}

// NewPaymentService constructs PaymentService.
func NewPaymentService(db *gorm.DB, gateway *GatewayService, webhookSecret string, telegram *TelegramService) *PaymentService {
	return &PaymentService{
		db:            db,
		gateway:       gateway,
		webhookSecret: webhookSecret,
		telegram:      telegram,
	}
}

// CheckoutParams is what the frontend needs to open the gateway checkout.
type CheckoutParams struct {
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Key            string `json:"key"`
}

// CreateGatewayOrder registers a payment intent for the local order and
// persists the returned gateway order id.
func (s *PaymentService) CreateGatewayOrder(ctx context.Context, orderID uuid.UUID) (*CheckoutParams, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	amountMinor := order.TotalAmount * 100
	if amountMinor < minAmountMinor {
		return nil, &InvalidAmountError{AmountMinor: amountMinor}
	}

	receipt := fmt.Sprintf("order_%s", order.ID)
	gatewayOrder, err := s.gateway.CreateOrder(ctx, amountMinor, gatewayCurrency, receipt)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("gateway_order_id", gatewayOrder.ID).Error; err != nil {
		return nil, err
	}

	return &CheckoutParams{
		GatewayOrderID: gatewayOrder.ID,
		Amount:         amountMinor,
		Currency:       gatewayCurrency,
		Key:            s.gateway.KeyID(),
	}, nil
}

// VerifyPayment handles the client-side verification callback. A valid
// signature settles the order; an invalid one marks it Failed unless it is
// already Paid, and surfaces ErrSignatureVerification to the caller.
func (s *PaymentService) VerifyPayment(ctx context.Context, localOrderID uuid.UUID, gatewayOrderID, gatewayPaymentID, signature string) error {
	if !s.gateway.VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature) {
		if err := s.markFailed(ctx, localOrderID); err != nil {
			logger.L().Error("failed to record failed payment",
				zap.String("order_id", localOrderID.String()),
				zap.Error(err),
			)
		}
		return ErrSignatureVerification
	}

	transitioned, order, err := s.settle(ctx, "id = ?", localOrderID, gatewayPaymentID, signature)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if transitioned {
		s.notifyPaid(order)
	}

	return nil
}

// webhookEvent mirrors the gateway's webhook payload. Only the fields the
// reconciliation needs are decoded.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook processes the asynchronous gateway notification. A bad
// signature is rejected; every other problem (unknown event, malformed
// payload, unknown order) is acknowledged without side effects so the
// gateway stops retrying.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !VerifyWebhookSignature(s.webhookSecret, body, signature) {
		return ErrSignatureVerification
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logger.L().Warn("ignoring malformed webhook payload", zap.Error(err))
		return nil
	}

	if event.Event != "payment.captured" {
		return nil
	}

	payment := event.Payload.Payment.Entity
	if payment.OrderID == "" || payment.ID == "" {
		logger.L().Warn("ignoring webhook event with missing ids",
			zap.String("event", event.Event),
		)
		return nil
	}

	// The order is located by the gateway order id embedded in the signed
	// event, never by an id supplied directly by the caller.
	transitioned, order, err := s.settle(ctx, "gateway_order_id = ?", payment.OrderID, payment.ID, "")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.L().Info("webhook for unknown gateway order acknowledged",
				zap.String("gateway_order_id", payment.OrderID),
			)
			return nil
		}
		return err
	}

	if transitioned {
		s.notifyPaid(order)
	}

	return nil
}

// settle marks the matched order Paid and records the gateway payment id
// (and signature, when present). The read-check-write runs as one
// transaction under a row lock; an already Paid order is left untouched
// and reported as a successful no-op.
func (s *PaymentService) settle(ctx context.Context, cond string, arg interface{}, gatewayPaymentID, gatewaySignature string) (bool, *models.Order, error) {
	var order models.Order
	transitioned := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, cond, arg).Error; err != nil {
			return err
		}

		if order.PaymentStatus == models.PaymentStatusPaid {
			return nil
		}

		updates := map[string]interface{}{
			"payment_status":     models.PaymentStatusPaid,
			"gateway_payment_id": gatewayPaymentID,
		}
		if gatewaySignature != "" {
			updates["gateway_signature"] = gatewaySignature
		}

		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		order.PaymentStatus = models.PaymentStatusPaid
		order.GatewayPaymentID = gatewayPaymentID
		transitioned = true
		return nil
	})

	return transitioned, &order, err
}

// markFailed records a failed payment attempt. Paid is terminal: a failure
// signal arriving after settlement is ignored.
func (s *PaymentService) markFailed(ctx context.Context, orderID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if order.PaymentStatus == models.PaymentStatusPaid {
			return nil
		}

		return tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("payment_status", models.PaymentStatusFailed).Error
	})
}

func (s *PaymentService) notifyPaid(order *models.Order) {
	if s.telegram == nil {
		return
	}

	go func(o models.Order) {
		if err := s.telegram.NotifyPaymentSuccess(o); err != nil {
			logger.L().Warn("payment notification failed",
				zap.String("order_id", o.ID.String()),
				zap.Error(err),
			)
		}
	}(*order)
}
