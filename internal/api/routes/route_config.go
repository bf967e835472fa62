package routes

import (
	"pantrywatch/internal/api/handlers"
	"pantrywatch/internal/middleware"
	"pantrywatch/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	ItemHandler       handlers.ItemHandler
	SubscriberHandler handlers.SubscriberHandler
	SuggestionHandler handlers.SuggestionHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Items()
	c.Subscribers()
	c.Suggestions()
	c.GuestRoute()
}

func (c *Config) Items() {
	items := c.App.Group("/api/v1/items", c.Middleware.AuthMiddleware(c.JWTService))

	items.Post("", c.ItemHandler.AddItem)
	items.Get("", c.ItemHandler.GetItems)
	items.Get("/:id", c.ItemHandler.GetItemByID)
	items.Put("/:id", c.ItemHandler.UpdateItem)
	items.Delete("/:id", c.ItemHandler.DeleteItem)

	items.Post("/status", c.ItemHandler.UpdateItemStatus)
}

func (c *Config) Subscribers() {
	subs := c.App.Group("/api/v1/notifications", c.Middleware.AuthMiddleware(c.JWTService))

	subs.Post("/subscribe", c.SubscriberHandler.Subscribe)
	subs.Post("/unsubscribe", c.SubscriberHandler.Unsubscribe)
	subs.Patch("/preferences", c.SubscriberHandler.UpdatePreferences)
	subs.Get("/history", c.SuggestionHandler.GetNotificationHistory)
}

func (c *Config) Suggestions() {
	suggestions := c.App.Group("/api/v1/suggestions")

	suggestions.Post("", c.Middleware.AuthMiddleware(c.JWTService), c.SuggestionHandler.GetSuggestions)
	suggestions.Post("/sweep", c.Middleware.BatchAuthMiddleware(c.JWTService), c.SuggestionHandler.RunBatchSweep)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong, its works. test"})
	})
}
