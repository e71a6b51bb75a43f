package handler

import (
	"marketplace-wallet/internal/adapter/http/dto"
	"marketplace-wallet/internal/core/domain"
	"marketplace-wallet/internal/core/ports"
	"marketplace-wallet/pkg/apperror"
	"marketplace-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet and ledger operation endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// GetWallet handles GET /api/v1/fintech/wallets/:accountId.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	w, err := h.walletSvc.GetWallet(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromWallet(w))
}

// Deposit handles POST /api/v1/fintech/wallets/:accountId/deposit/pix.
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.walletSvc.Deposit(c.Request.Context(), ports.DepositRequest{
		AccountID:   c.Param("accountId"),
		Amount:      req.Amount,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Transfer handles POST /api/v1/fintech/wallets/:accountId/transfer.
func (h *WalletHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	currency, ok := domain.ParseCurrency(req.Currency)
	if !ok {
		response.Error(c, apperror.ErrInvalidCurrency(req.Currency))
		return
	}

	result, err := h.walletSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		FromAccountID: c.Param("accountId"),
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Currency:      currency,
		ReferenceID:   req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Payout handles POST /api/v1/fintech/wallets/:accountId/payout.
func (h *WalletHandler) Payout(c *gin.Context) {
	var req dto.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.walletSvc.Payout(c.Request.Context(), ports.PayoutRequest{
		AccountID:   c.Param("accountId"),
		Amount:      req.Amount,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Settle handles POST /api/v1/fintech/wallets/:accountId/settlements.
func (h *WalletHandler) Settle(c *gin.Context) {
	var req dto.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	currency, ok := domain.ParseCurrency(req.Currency)
	if !ok {
		response.Error(c, apperror.ErrInvalidCurrency(req.Currency))
		return
	}

	result, err := h.walletSvc.Settle(c.Request.Context(), ports.SettlementRequest{
		AccountID:      c.Param("accountId"),
		GrossAmount:    req.GrossAmount,
		Currency:       currency,
		ProfessionalID: req.ProfessionalID,
		ReferenceID:    req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
