package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/oracoesapp/oracoes-backend/internal/service"
)

type WebhookHandler struct {
	webhookService *service.WebhookService
}

func NewWebhookHandler(webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// HandleStripeWebhook handles POST on the configured webhook path. Stripe
// retries any delivery that is not acknowledged with a 2xx, so once the
// signature checks out the handler acknowledges even when an individual event
// handler failed.
func (h *WebhookHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("Stripe-Signature")

	if err := h.webhookService.Process(payload, signature); err != nil {
		if errors.Is(err, service.ErrSignatureInvalid) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Falha na verificação da assinatura do webhook",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Falha ao processar webhook",
		})
	}

	return c.JSON(fiber.Map{
		"received": true,
	})
}
