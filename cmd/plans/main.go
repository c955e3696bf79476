package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/common/config"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/common/middleware"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/plans/handlers"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/plans/repository"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/plans/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Plans Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3001"
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		log.Fatalf("init db: %v", err)
	}

	fileStorage := service.NewFileStorage(cfg.DataDir)
	plansHandler := handlers.NewPlansHandler(repo, fileStorage)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Plans Service",
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
	// Plans Routes
	// ============================================================

	app.Post("/projects", plansHandler.CreateProject)
	app.Get("/projects", plansHandler.ListProjects)
	app.Get("/projects/:id", plansHandler.GetProject)
	app.Delete("/projects/:id", plansHandler.DeleteProject)

	app.Get("/projects/:id/plan", plansHandler.GetPlan)
	app.Post("/projects/:id/plan", plansHandler.SavePlan)
	app.Post("/projects/:id/upload", plansHandler.UploadPlan)
	app.Get("/projects/:id/elements", plansHandler.GetElements)
	app.Get("/projects/:id/preview", plansHandler.GetPreview)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Plans Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
