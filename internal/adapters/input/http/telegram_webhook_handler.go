package http

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// UpdateHandler is the dispatch entry point shared with the long-poll adapter
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// TelegramWebhookHandler struct - Primary/Driving adapter for Telegram webhook delivery
type TelegramWebhookHandler struct {
	dispatcher UpdateHandler
}

// NewTelegramWebhookHandler func - Creates new Telegram webhook handler
func NewTelegramWebhookHandler(dispatcher UpdateHandler) *TelegramWebhookHandler {
	return &TelegramWebhookHandler{
		dispatcher: dispatcher,
	}
}

// HandleWebhook func - Handles incoming Telegram webhook requests.
// The update is dispatched on its own goroutine so a slow catalog fetch never
// delays acknowledging the webhook.
func (h *TelegramWebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(c.Body(), &update); err != nil {
		logrus.Errorf("Failed to parse webhook update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid update payload",
		})
	}

	go h.dispatcher.HandleUpdate(context.Background(), update)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
	})
}
