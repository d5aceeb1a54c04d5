package handlers

import (
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/network"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/user"
	"github.com/srigunasankarkatta/mlm-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
	analyzer    network.Analyzer
	incomes     repositories.IncomeRepository
}

func NewUserHandler(userService user.Service, analyzer network.Analyzer, incomes repositories.IncomeRepository) *UserHandler {
	return &UserHandler{userService: userService, analyzer: analyzer, incomes: incomes}
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	u, err := h.userService.GetByID(claims.UserID)
	if err != nil {
		return utils.NotFound(c, "user not found")
	}
	return utils.Success(c, fiber.Map{"user": u})
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.Name == "" {
		return utils.BadRequest(c, "name is required")
	}

	u, err := h.userService.GetByID(claims.UserID)
	if err != nil {
		return utils.NotFound(c, "user not found")
	}
	u.Name = input.Name
	if err := h.userService.Update(u); err != nil {
		return utils.InternalError(c, "failed to update profile")
	}
	return utils.Success(c, fiber.Map{"user": u})
}

func (h *UserHandler) NetworkStats(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	stats, err := h.analyzer.AnalyzeNetwork(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to analyze network")
	}
	return utils.Success(c, stats)
}

func (h *UserHandler) IncomeHistory(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	p := utils.GetPagination(c, 1, 15)
	incomes, total, err := h.incomes.ByUser(claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to get income history")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(incomes, p))
}
