package routes

import (
	"MeatFresh-Backend/internal/api/handlers"
	"MeatFresh-Backend/internal/middleware"
	"MeatFresh-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	UserHandler      handlers.UserHandler
	ScanHandler      handlers.ScanHandler
	FreshnessHandler handlers.FreshnessHandler
	MidtransHandler  handlers.MidtransHandler
	ChatHandler      handlers.ChatHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Freshness()
	c.Scans()
	c.Premium()
	c.Chat()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.MidtransHandler.MidtransWebhookHandler)
}

func (c *Config) User() {
	auth := c.App.Group("/api/v1/auth")
	{
		auth.Post("/register", c.UserHandler.Register)
		auth.Post("/login", c.UserHandler.Login)
		auth.Post("/logout", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Logout)
		auth.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		auth.Post("/forgot-password", c.UserHandler.ForgotPassword)
		auth.Post("/reset-password", c.UserHandler.ResetPassword)
	}
}

func (c *Config) Freshness() {
	freshness := c.App.Group("/api/v1/freshness")
	freshness.Get("/deadline", c.FreshnessHandler.ComputeDeadline)
	freshness.Get("/sensory-defaults/:level", c.FreshnessHandler.SensoryDefaults)
}

func (c *Config) Scans() {
	// analysis is open to guests, within the guest quota
	analysis := c.App.Group("/api/v1/analysis", c.Middleware.OptionalAuth(c.JWTService))
	analysis.Post("/analyze", c.Middleware.GuestLimiter("analyze"), c.ScanHandler.Analyze)
	analysis.Post("/refine", c.Middleware.GuestLimiter("refine"), c.ScanHandler.Refine)

	scans := c.App.Group("/api/v1/scans", c.Middleware.AuthMiddleware(c.JWTService))
	scans.Post("", c.ScanHandler.CreateScan)
	scans.Get("", c.ScanHandler.GetScans)
	scans.Delete("", c.ScanHandler.DeleteAllScans)
	scans.Get("/stats", c.ScanHandler.GetShelfStats)
	scans.Get("/:id", c.ScanHandler.GetScan)
	scans.Patch("/:id", c.ScanHandler.UpdateScan)
	scans.Post("/:id/cooked", c.ScanHandler.MarkAsCooked)
	scans.Delete("/:id", c.ScanHandler.DeleteScan)
}

func (c *Config) Premium() {
	premium := c.App.Group("/api/v1/premium")
	premium.Get("/plans", c.MidtransHandler.GetPlans)
	premium.Post("/subscribe", c.Middleware.AuthMiddleware(c.JWTService), c.MidtransHandler.CreateTransaction)
}

func (c *Config) Chat() {
	c.App.Post("/api/v1/chat", c.Middleware.AuthMiddleware(c.JWTService), c.ChatHandler.Send)
}
