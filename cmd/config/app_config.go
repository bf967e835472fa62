package config

import (
	"os"
	"time"

	"pantrywatch/internal/api/handlers"
	"pantrywatch/internal/api/routes"
	"pantrywatch/internal/middleware"
	"pantrywatch/internal/utils"
	"pantrywatch/internal/utils/mailing"
	"pantrywatch/pkg/item"
	"pantrywatch/pkg/jwt"
	"pantrywatch/pkg/subscriber"
	"pantrywatch/pkg/suggestion"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	cfg := utils.AppConfig()

	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware(cfg.AllowedOrigins, cfg.BatchSecret)
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// Repository
	itemRepository := item.NewItemRepository(db)
	subscriberRepository := subscriber.NewSubscriberRepository(db)
	cacheRepository := suggestion.NewCacheRepository(db)
	ledgerRepository := suggestion.NewLedgerRepository(db)

	// Outbound transports
	mailer := mailing.NewMailer(mailing.MailConfig{
		AppURL:       cfg.AppURL,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPSender:   cfg.SMTPSenderName,
		SMTPEmail:    cfg.SMTPAuthEmail,
		SMTPPassword: cfg.SMTPAuthPassword,
	})
	pushSender := suggestion.NewWebPushSender(suggestion.WebPushConfig{
		VAPIDPublicKey:  cfg.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.VAPIDPrivateKey,
		Subject:         cfg.VAPIDSubject,
	})
	provider := suggestion.NewGeminiProvider(suggestion.ProviderConfig{
		APIKey:    cfg.GeminiAPIKey,
		Model:     cfg.GeminiModel,
		MaxTokens: cfg.GeminiMaxTokens,
	})

	// Service
	jwtService := jwt.NewJWTService(cfg.JWTSecret)
	itemService := item.NewItemService(itemRepository)
	subscriberService := subscriber.NewSubscriberService(subscriberRepository)
	dispatcher := suggestion.NewDispatcher(subscriberRepository, pushSender, mailer)
	suggestionService := suggestion.NewSuggestionService(
		itemRepository,
		subscriberRepository,
		cacheRepository,
		ledgerRepository,
		provider,
		dispatcher,
	)

	// Handler
	itemHandler := handlers.NewItemHandler(itemService, validator)
	subscriberHandler := handlers.NewSubscriberHandler(subscriberService, validator)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService, validator)

	// routes
	routesConfig := routes.Config{
		App:               app,
		ItemHandler:       itemHandler,
		SubscriberHandler: subscriberHandler,
		SuggestionHandler: suggestionHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
