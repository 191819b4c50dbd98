package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/oracoesapp/oracoes-backend/internal/config"
	"github.com/oracoesapp/oracoes-backend/internal/handler"
	"github.com/oracoesapp/oracoes-backend/internal/repository"
	"github.com/oracoesapp/oracoes-backend/internal/service"
	"github.com/oracoesapp/oracoes-backend/pkg/database"
	"github.com/oracoesapp/oracoes-backend/pkg/email"
	"github.com/oracoesapp/oracoes-backend/pkg/logger"
	"github.com/oracoesapp/oracoes-backend/pkg/payment"
	"github.com/oracoesapp/oracoes-backend/pkg/utils"
)

func main() {
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file, using process environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		// Fail once at startup; handlers never discover missing keys mid-request.
		log.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.Stripe.PublishableKey == "" {
		log.Warn("STRIPE_PUBLISHABLE_KEY not set, checkout initiation disabled")
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database setup failed", zap.Error(err))
	}

	// Repositories
	webhookEventRepo := repository.NewWebhookEventRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	// Stripe gateway
	gateway := payment.NewStripeService(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.PublicURL)

	// Email is optional; without a Resend key the webhook just skips the
	// confirmation mail.
	var mailer service.Mailer
	if cfg.Email.ResendAPIKey != "" {
		mailer = email.NewEmailService(cfg.Email, log)
	}

	// Services
	checkoutService := service.NewCheckoutService(gateway, log)
	webhookService := service.NewWebhookService(gateway, webhookEventRepo, subscriptionRepo, mailer, log)
	planService := service.NewPlanService()

	validator := utils.NewValidator()

	// Handlers
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, validator, cfg.Stripe.PublishableKey)
	webhookHandler := handler.NewWebhookHandler(webhookService)
	planHandler := handler.NewPlanHandler(planService)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.PublicURL,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST",
	}))
	app.Use(fiberlogger.New())

	// One webhook endpoint behind one configurable route. Registered before
	// the limiter so provider retries are never throttled.
	app.Post(cfg.Stripe.WebhookPath, webhookHandler.HandleStripeWebhook)

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	api.Get("/plans", planHandler.GetPlans)
	api.Get("/checkout/config", checkoutHandler.Config)
	api.Post("/checkout/sessions", checkoutHandler.CreateSession)
	api.Get("/checkout/sessions/verify", checkoutHandler.VerifySession)

	// Landing and success pages
	app.Static("/", "./web")
	app.Get("/success", func(c *fiber.Ctx) error {
		return c.SendFile("./web/success.html")
	})

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
