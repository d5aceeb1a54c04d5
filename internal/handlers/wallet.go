package handlers

import (
	"errors"

	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/wallet"
	"github.com/srigunasankarkatta/mlm-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func (h *WalletHandler) GetBalances(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	balances, err := h.walletService.GetUserWalletBalances(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to get wallet balances")
	}
	return utils.Success(c, fiber.Map{"wallets": balances})
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.UserID, c.Params("type"))
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidWalletType):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, repositories.ErrWalletNotFound):
			return utils.NotFound(c, "wallet not found")
		}
		return utils.InternalError(c, "failed to get wallet")
	}
	return utils.Success(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	p := utils.GetPagination(c, 1, 15)
	txns, total, err := h.walletService.GetTransactionHistory(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to get transactions")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(txns, p))
}

func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	var input struct {
		FromType    string  `json:"from_type"`
		ToType      string  `json:"to_type"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	result, err := h.walletService.Transfer(c.Context(), claims.UserID, input.FromType, input.ToType, input.Amount, input.Description)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrSameWallet),
			errors.Is(err, wallet.ErrInvalidWalletType),
			errors.Is(err, wallet.ErrInvalidAmount),
			errors.Is(err, wallet.ErrInsufficientBalance),
			errors.Is(err, wallet.ErrWalletInactive):
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "transfer failed")
	}
	return utils.Success(c, fiber.Map{"transfer": result})
}

func (h *WalletHandler) CreateWithdrawal(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	var input struct {
		WalletType     string                 `json:"wallet_type"`
		Amount         float64                `json:"amount"`
		Method         string                 `json:"method"`
		PaymentDetails map[string]interface{} `json:"payment_details"`
		Notes          string                 `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	w, err := h.walletService.CreateWithdrawal(c.Context(), claims.UserID, input.WalletType, input.Amount, input.Method, input.PaymentDetails, input.Notes)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrWithdrawalRejected),
			errors.Is(err, wallet.ErrUnknownMethod),
			errors.Is(err, wallet.ErrInvalidAmount),
			errors.Is(err, wallet.ErrInvalidWalletType),
			errors.Is(err, wallet.ErrWalletInactive):
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "withdrawal request failed")
	}
	return utils.Created(c, fiber.Map{"withdrawal": w})
}

func (h *WalletHandler) GetWithdrawals(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}

	p := utils.GetPagination(c, 1, 15)
	withdrawals, total, err := h.walletService.GetWithdrawals(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to get withdrawals")
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(withdrawals, p))
}
