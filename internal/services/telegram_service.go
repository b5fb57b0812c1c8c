package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/example/kcx/internal/logger"
	"github.com/example/kcx/internal/models"
)

// TelegramService delivers operator notifications. Every send is best
// effort: a missing configuration or a delivery failure never affects the
// calling flow.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		logger.L().Debug("telegram bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		logger.L().Warn("telegram send failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the operator chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// FormatPrice renders an amount with thousand separators and a currency
// suffix.
func FormatPrice(amount int64) string {
	str := fmt.Sprintf("%d", amount)

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return "₹" + result.String()
}

// NotifyNewOrder sends the order summary to the operator chat.
func (s *TelegramService) NotifyNewOrder(order models.Order) error {
	if s.adminChatID == "" {
		return nil
	}

	var itemsList strings.Builder
	for i, item := range order.Items {
		line := fmt.Sprintf("%d. <b>%s</b>\n   %d x %s = %s\n",
			i+1,
			item.ProductName,
			item.Quantity,
			FormatPrice(item.UnitPrice),
			FormatPrice(item.UnitPrice*int64(item.Quantity)+item.WrapPrice),
		)
		itemsList.WriteString(line)
	}

	message := fmt.Sprintf(`<b>🧶 NEW ORDER</b>
<b>📋 Order:</b> %s
<b>👤 Customer:</b> %s
<b>📞 Phone:</b> %s
<b>📍 City:</b> %s %s
<b>📦 Items:</b>
%s
<b>💰 Total:</b> %s
<b>💳 Payment:</b> %s`,
		order.ID,
		order.CustomerName,
		order.Phone,
		order.City,
		order.Pincode,
		itemsList.String(),
		FormatPrice(order.TotalAmount),
		order.PaymentStatus,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}

// NotifyPaymentSuccess tells the operator a payment was captured.
func (s *TelegramService) NotifyPaymentSuccess(order models.Order) error {
	if s.adminChatID == "" {
		return nil
	}

	message := fmt.Sprintf(`<b>✅ PAYMENT CAPTURED</b>
<b>📋 Order:</b> %s
<b>💰 Amount:</b> %s
<b>🔖 Payment ID:</b> %s`,
		order.ID,
		FormatPrice(order.TotalAmount),
		order.GatewayPaymentID,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}
