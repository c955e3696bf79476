package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/common/config"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/common/middleware"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/client"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/handlers"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/service"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Editor Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3002"
	}

	registry := service.NewRegistry()
	plansClient := client.New(cfg.PlansURL)
	editorHandler := handlers.NewEditorHandler(registry, plansClient)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Editor Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Editor Routes
	// ============================================================

	app.Post("/sessions", editorHandler.OpenSession)
	app.Get("/sessions/:id", editorHandler.GetSession)
	app.Delete("/sessions/:id", editorHandler.CloseSession)
	app.Post("/sessions/:id/actions", editorHandler.Act)
	app.Get("/sessions/:id/document", editorHandler.GetDocument)
	app.Post("/sessions/:id/save", editorHandler.SaveSession)
	app.Post("/calibrate", editorHandler.Calibrate)
	app.Post("/serialize", editorHandler.Serialize)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Editor Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
