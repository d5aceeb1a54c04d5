package handlers

import (
	"errors"
	"strconv"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/autopool"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/user"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/wallet"
	"github.com/srigunasankarkatta/mlm-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler groups the privileged operations: user and package
// management, manual wallet adjustments, withdrawal processing and
// auto pool maintenance.
type AdminHandler struct {
	userService   user.Service
	walletService wallet.Service
	engine        autopool.Engine
	packages      repositories.PackageRepository
	wallets       repositories.WalletRepository
}

func NewAdminHandler(
	userService user.Service,
	walletService wallet.Service,
	engine autopool.Engine,
	packages repositories.PackageRepository,
	wallets repositories.WalletRepository,
) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		walletService: walletService,
		engine:        engine,
		packages:      packages,
		wallets:       wallets,
	}
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// Users

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)
	filter := repositories.UserListFilter{
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	if pkgID, err := strconv.ParseUint(c.Query("package_id"), 10, 32); err == nil {
		filter.PackageID = uint(pkgID)
	}

	users, total, err := h.userService.List(filter)
	if err != nil {
		return utils.InternalError(c, "failed to list users")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(users, p))
}

func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid user id")
	}
	u, err := h.userService.GetByID(id)
	if err != nil {
		return utils.NotFound(c, "user not found")
	}
	return utils.Success(c, fiber.Map{"user": u})
}

func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid user id")
	}
	u, err := h.userService.GetByID(id)
	if err != nil {
		return utils.NotFound(c, "user not found")
	}

	var input struct {
		Name *string `json:"name"`
		Role *string `json:"role"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.Name != nil {
		u.Name = *input.Name
	}
	if input.Role != nil {
		if *input.Role != models.RoleUser && *input.Role != models.RoleAdmin {
			return utils.BadRequest(c, "invalid role")
		}
		u.Role = *input.Role
	}
	if err := h.userService.Update(u); err != nil {
		return utils.InternalError(c, "failed to update user")
	}
	return utils.Success(c, fiber.Map{"user": u})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid user id")
	}
	if err := h.userService.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrUserHasDirects) {
			return utils.Conflict(c, err.Error())
		}
		return utils.InternalError(c, "failed to delete user")
	}
	return utils.Success(c, fiber.Map{"message": "user deleted"})
}

// Packages

func (h *AdminHandler) CreatePackage(c *fiber.Ctx) error {
	var pkg models.Package
	if err := c.BodyParser(&pkg); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if pkg.Name == "" || pkg.Price <= 0 || pkg.LevelUnlock <= 0 {
		return utils.BadRequest(c, "name, positive price and level_unlock are required")
	}
	if err := h.packages.Create(&pkg); err != nil {
		return utils.InternalError(c, "failed to create package")
	}
	return utils.Created(c, fiber.Map{"package": pkg})
}

func (h *AdminHandler) UpdatePackage(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid package id")
	}
	pkg, err := h.packages.GetByID(id)
	if err != nil {
		return utils.NotFound(c, "package not found")
	}

	var input struct {
		Name  *string  `json:"name"`
		Price *float64 `json:"price"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.Name != nil {
		pkg.Name = *input.Name
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return utils.BadRequest(c, "price must be positive")
		}
		pkg.Price = *input.Price
	}
	if err := h.packages.Save(pkg); err != nil {
		return utils.InternalError(c, "failed to update package")
	}
	return utils.Success(c, fiber.Map{"package": pkg})
}

func (h *AdminHandler) DeletePackage(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid package id")
	}
	if err := h.packages.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrPackageInUse) {
			return utils.Conflict(c, err.Error())
		}
		return utils.InternalError(c, "failed to delete package")
	}
	return utils.Success(c, fiber.Map{"message": "package deleted"})
}

// Wallet adjustments

func (h *AdminHandler) AdjustWallet(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	var input struct {
		UserID      uint    `json:"user_id"`
		WalletType  string  `json:"wallet_type"`
		Amount      float64 `json:"amount"`
		Operation   string  `json:"operation"`
		Description string  `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	metadata := map[string]interface{}{"admin_id": claims.UserID}
	var txn *models.WalletTransaction
	switch input.Operation {
	case "credit":
		txn, err = h.walletService.Credit(c.Context(), input.UserID, input.WalletType,
			input.Amount, models.CategoryAdminCredit, input.Description, metadata)
	case "debit":
		txn, err = h.walletService.Debit(c.Context(), input.UserID, input.WalletType,
			input.Amount, models.CategoryAdminDebit, input.Description, metadata)
	default:
		return utils.BadRequest(c, "operation must be credit or debit")
	}
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidAmount),
			errors.Is(err, wallet.ErrInvalidWalletType),
			errors.Is(err, wallet.ErrInsufficientBalance),
			errors.Is(err, wallet.ErrWalletInactive):
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "wallet adjustment failed")
	}
	return utils.Success(c, fiber.Map{"transaction": txn})
}

func (h *AdminHandler) UpdateTransactionStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid transaction id")
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	txn, err := h.walletService.UpdateTransactionStatus(c.Context(), id, input.Status)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidStatus):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, repositories.ErrTransactionNotFound):
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to update transaction status")
	}
	return utils.Success(c, fiber.Map{"transaction": txn})
}

// Withdrawals

func (h *AdminHandler) ListWithdrawals(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)
	status := c.Query("status", models.WithdrawalPending)

	withdrawals, total, err := h.wallets.GetWithdrawalsByStatus(status, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to list withdrawals")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(withdrawals, p))
}

func (h *AdminHandler) ProcessWithdrawal(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid withdrawal id")
	}

	var input struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	w, err := h.walletService.ProcessWithdrawal(c.Context(), id, input.Status, claims.UserID, input.Notes)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrWithdrawalFinal):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, wallet.ErrInvalidTransition):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, repositories.ErrWithdrawalNotFound):
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "failed to process withdrawal")
	}
	return utils.Success(c, fiber.Map{"withdrawal": w})
}

// Auto pool

func (h *AdminHandler) RescanUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid user id")
	}
	results, err := h.engine.ProcessCompletions(c.Context(), id)
	if err != nil {
		return utils.InternalError(c, "auto pool scan failed")
	}
	return utils.Success(c, fiber.Map{"results": results})
}

func (h *AdminHandler) RescanAll(c *fiber.Ctx) error {
	results, err := h.engine.ProcessAll(c.Context())
	if err != nil {
		return utils.InternalError(c, "auto pool rescan failed")
	}
	return utils.Success(c, fiber.Map{"results": results})
}

func (h *AdminHandler) PoolStats(c *fiber.Ctx) error {
	stats, err := h.engine.Stats()
	if err != nil {
		return utils.InternalError(c, "failed to get pool stats")
	}
	return utils.Success(c, stats)
}
