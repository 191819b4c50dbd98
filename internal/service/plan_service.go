package service

import "github.com/oracoesapp/oracoes-backend/internal/models"

// PlanService serves the static landing-page catalog.
type PlanService struct{}

func NewPlanService() *PlanService {
	return &PlanService{}
}

func (s *PlanService) GetPlans() []models.Plan {
	return models.SubscriptionPlans
}

func (s *PlanService) GetPlanByPriceID(priceID string) (*models.Plan, bool) {
	for i := range models.SubscriptionPlans {
		if models.SubscriptionPlans[i].PriceID == priceID {
			return &models.SubscriptionPlans[i], true
		}
	}
	return nil, false
}
