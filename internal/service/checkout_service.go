package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"

	"github.com/oracoesapp/oracoes-backend/internal/models"
	"github.com/oracoesapp/oracoes-backend/pkg/payment"
)

// FallbackPlanName is shown when a session comes back without line items.
const FallbackPlanName = "Plano não identificado"

type CheckoutService struct {
	gateway payment.Gateway
	logger  *zap.Logger
}

func NewCheckoutService(gateway payment.Gateway, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		gateway: gateway,
		logger:  logger,
	}
}

// CreateSession asks Stripe for a new subscription checkout session and
// returns its ID. The browser never sees the provider error; it gets a generic
// failure while the detail lands in the server log.
func (s *CheckoutService) CreateSession(priceID string) (string, error) {
	if priceID == "" {
		return "", fmt.Errorf("%w: priceId", ErrInvalidRequest)
	}

	sess, err := s.gateway.CreateSubscriptionCheckout(priceID)
	if err != nil {
		s.logger.Error("stripe checkout session create failed",
			zap.String("price_id", priceID),
			zap.Error(err),
		)
		return "", ErrUpstream
	}

	s.logger.Info("checkout session created",
		zap.String("session_id", sess.ID),
		zap.String("price_id", priceID),
	)

	return sess.ID, nil
}

// VerifySession re-fetches a session and normalizes the fields the success
// page displays. This is the only payment-outcome authority the browser
// trusts; the redirect query string only tells us which session to look up.
func (s *CheckoutService) VerifySession(sessionID string) (*models.CheckoutSessionDetails, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id", ErrInvalidRequest)
	}

	sess, err := s.gateway.GetCheckoutSession(sessionID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("stripe checkout session retrieve failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return nil, ErrUpstream
	}

	details := &models.CheckoutSessionDetails{
		SessionID:     sess.ID,
		CustomerEmail: customerEmail(sess),
		PlanName:      planName(sess),
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),
	}
	if sess.Subscription != nil {
		details.SubscriptionID = sess.Subscription.ID
	}

	return details, nil
}

// customerEmail prefers the expanded customer object and falls back to the
// billing contact captured on the session itself.
func customerEmail(sess *stripe.CheckoutSession) string {
	if sess.Customer != nil && sess.Customer.Email != "" {
		return sess.Customer.Email
	}
	if sess.CustomerDetails != nil {
		return sess.CustomerDetails.Email
	}
	return ""
}

func planName(sess *stripe.CheckoutSession) string {
	if sess.LineItems != nil && len(sess.LineItems.Data) > 0 && sess.LineItems.Data[0].Description != "" {
		return sess.LineItems.Data[0].Description
	}
	return FallbackPlanName
}

func isNotFound(err error) bool {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.Code == stripe.ErrorCodeResourceMissing ||
			stripeErr.HTTPStatusCode == http.StatusNotFound
	}
	return false
}
