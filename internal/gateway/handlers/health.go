package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// LivenessProbe reports that the process is alive.
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe reports that the service can take traffic.
func ReadinessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ready",
	})
}

// StartupProbe reports that startup finished.
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
