package handlers

import (
	"github.com/srigunasankarkatta/mlm-backend/internal/services/autopool"
	"github.com/srigunasankarkatta/mlm-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AutoPoolHandler struct {
	engine autopool.Engine
}

func NewAutoPoolHandler(engine autopool.Engine) *AutoPoolHandler {
	return &AutoPoolHandler{engine: engine}
}

func (h *AutoPoolHandler) Status(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	status, err := h.engine.GetStatus(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to get auto pool status")
	}
	return utils.Success(c, status)
}
