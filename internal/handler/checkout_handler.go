package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/oracoesapp/oracoes-backend/internal/models"
	"github.com/oracoesapp/oracoes-backend/internal/service"
	"github.com/oracoesapp/oracoes-backend/pkg/utils"
)

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	validator       *utils.Validator
	publishableKey  string
}

func NewCheckoutHandler(checkoutService *service.CheckoutService, validator *utils.Validator, publishableKey string) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		validator:       validator,
		publishableKey:  publishableKey,
	}
}

// CreateSession handles POST /api/checkout/sessions.
func (h *CheckoutHandler) CreateSession(c *fiber.Ctx) error {
	var req models.CreateCheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido",
		})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Price ID é obrigatório",
		})
	}

	sessionID, err := h.checkoutService.CreateSession(req.PriceID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Price ID é obrigatório",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Erro interno do servidor",
		})
	}

	return c.JSON(models.CreateCheckoutSessionResponse{ID: sessionID})
}

// VerifySession handles GET /api/checkout/sessions/verify?session_id=...
func (h *CheckoutHandler) VerifySession(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session ID é obrigatório",
		})
	}

	details, err := h.checkoutService.VerifySession(sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Session ID é obrigatório",
			})
		case errors.Is(err, service.ErrSessionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Sessão não encontrada",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro interno do servidor",
			})
		}
	}

	return c.JSON(details)
}

// Config handles GET /api/checkout/config. The browser asks here for the
// publishable key before initiating checkout; a deployment without one gets a
// contact-support condition instead of a broken redirect.
func (h *CheckoutHandler) Config(c *fiber.Ctx) error {
	if h.publishableKey == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Pagamentos indisponíveis no momento. Entre em contato com o suporte.",
		})
	}

	return c.JSON(fiber.Map{
		"publishableKey": h.publishableKey,
	})
}
