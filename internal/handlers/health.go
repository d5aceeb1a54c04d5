package handlers

import (
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
	"github.com/srigunasankarkatta/mlm-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := fiber.Map{
		"status":   "ok",
		"database": "up",
		"cache":    "up",
	}
	healthy := true

	if repositories.DB == nil {
		status["database"] = "down"
		healthy = false
	} else if sqlDB, err := repositories.DB.DB(); err != nil || sqlDB.Ping() != nil {
		status["database"] = "down"
		healthy = false
	}

	if repositories.CacheService == nil {
		status["cache"] = "down"
		healthy = false
	} else if err := repositories.CacheService.HealthCheck(c.Context()); err != nil {
		status["cache"] = "down"
		healthy = false
	}

	if !healthy {
		status["status"] = "degraded"
		return utils.Respond(c, fiber.StatusServiceUnavailable, status)
	}
	return utils.Success(c, status)
}
