package main

import (
	"fmt"
	"log"
	"time"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/common/config"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/common/middleware"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/gateway/handlers"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "API Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe)
	app.Get("/health/startup", handlers.StartupProbe)

	// ============================================================
	// Docs Routes
	// ============================================================

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Layout API v1",
			"status":  "ok",
		})
	})

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	// Plans Service
	api.Post("/projects", proxy.ProxyTo(cfg.PlansURL+"/projects"))
	api.Get("/projects", proxy.ProxyTo(cfg.PlansURL+"/projects"))
	api.Get("/projects/:id", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/projects/%s", cfg.PlansURL, c.Params("id")))
	})
	api.Delete("/projects/:id", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/projects/%s", cfg.PlansURL, c.Params("id")))
	})
	api.Get("/projects/:id/plan", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/projects/%s/plan", cfg.PlansURL, c.Params("id")))
	})
	api.Post("/projects/:id/plan", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/projects/%s/plan", cfg.PlansURL, c.Params("id")))
	})
	api.Post("/projects/:id/upload", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/projects/%s/upload", cfg.PlansURL, c.Params("id")))
	})
	api.Get("/projects/:id/elements", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/projects/%s/elements", cfg.PlansURL, c.Params("id")))
	})
	api.Get("/projects/:id/preview", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/projects/%s/preview", cfg.PlansURL, c.Params("id")))
	})

	// Editor Service
	api.Post("/sessions", proxy.ProxyTo(cfg.EditorURL+"/sessions"))
	api.Get("/sessions/:id", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/sessions/%s", cfg.EditorURL, c.Params("id")))
	})
	api.Delete("/sessions/:id", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/sessions/%s", cfg.EditorURL, c.Params("id")))
	})
	api.Post("/sessions/:id/actions", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/sessions/%s/actions", cfg.EditorURL, c.Params("id")))
	})
	api.Get("/sessions/:id/document", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/sessions/%s/document", cfg.EditorURL, c.Params("id")))
	})
	api.Post("/sessions/:id/save", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/sessions/%s/save", cfg.EditorURL, c.Params("id")))
	})
	api.Post("/calibrate", proxy.ProxyTo(cfg.EditorURL+"/calibrate"))
	api.Post("/serialize", proxy.ProxyTo(cfg.EditorURL+"/serialize"))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying /projects to %s", cfg.PlansURL)
	log.Printf("Proxying /sessions to %s", cfg.EditorURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
