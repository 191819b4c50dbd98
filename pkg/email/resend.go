package email

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"

	"github.com/oracoesapp/oracoes-backend/internal/config"
)

type EmailService struct {
	client       *resend.Client
	from         string
	fromName     string
	templatesDir string
	logger       *zap.Logger
}

func NewEmailService(cfg config.EmailConfig, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:       resend.NewClient(cfg.ResendAPIKey),
		from:         cfg.FromAddress,
		fromName:     cfg.FromName,
		templatesDir: "pkg/email/templates",
		logger:       logger,
	}
}

// SendSubscriptionConfirmation sends the boas-vindas email after a checkout
// completes. Webhook processing never fails on an email error; the caller
// just logs it.
func (s *EmailService) SendSubscriptionConfirmation(email, planName string) error {
	templateData := map[string]interface{}{
		"Email":    email,
		"PlanName": planName,
		"Year":     time.Now().Year(),
	}

	html, err := s.parseTemplate("confirmacao-assinatura.html", templateData)
	if err != nil {
		return fmt.Errorf("parse confirmation template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{email},
		Subject: "Bem-vindo ao plano " + planName + "!",
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}

	s.logger.Info("confirmation email sent",
		zap.String("email", email),
		zap.String("plan", planName),
		zap.String("message_id", resp.Id),
	)
	return nil
}

func (s *EmailService) parseTemplate(templateName string, data interface{}) (string, error) {
	tmpl, err := template.ParseFiles(filepath.Join(s.templatesDir, templateName))
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", err
	}

	return body.String(), nil
}
