package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oracoesapp/oracoes-backend/internal/service"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

// GetPlans handles GET /api/plans.
func (h *PlanHandler) GetPlans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"plans": h.planService.GetPlans(),
	})
}
