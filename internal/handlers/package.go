package handlers

import (
	"errors"

	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/purchase"
	"github.com/srigunasankarkatta/mlm-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type PackageHandler struct {
	packages        repositories.PackageRepository
	purchaseService purchase.Service
}

func NewPackageHandler(packages repositories.PackageRepository, purchaseService purchase.Service) *PackageHandler {
	return &PackageHandler{packages: packages, purchaseService: purchaseService}
}

func (h *PackageHandler) List(c *fiber.Ctx) error {
	pkgs, err := h.packages.List()
	if err != nil {
		return utils.InternalError(c, "failed to list packages")
	}
	return utils.Success(c, fiber.Map{"packages": pkgs})
}

func (h *PackageHandler) Purchase(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	var input struct {
		PackageID     uint   `json:"package_id"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	result, err := h.purchaseService.PurchasePackage(c.Context(), claims.UserID, input.PackageID, input.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, purchase.ErrDuplicatePackage):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, purchase.ErrSequentialPurchase),
			errors.Is(err, purchase.ErrUnknownPayment):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, repositories.ErrPackageNotFound):
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "purchase failed")
	}
	return utils.Created(c, result)
}

func (h *PackageHandler) History(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	p := utils.GetPagination(c, 1, 15)
	txns, total, err := h.purchaseService.History(claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to get purchase history")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(txns, p))
}
