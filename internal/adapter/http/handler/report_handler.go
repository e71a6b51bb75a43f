package handler

import (
	"strconv"

	"marketplace-wallet/internal/adapter/http/dto"
	"marketplace-wallet/internal/core/domain"
	"marketplace-wallet/internal/core/ports"
	"marketplace-wallet/pkg/apperror"
	"marketplace-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReportHandler handles read-only reporting endpoints.
type ReportHandler struct {
	reportingSvc ports.ReportingService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportingSvc ports.ReportingService) *ReportHandler {
	return &ReportHandler{reportingSvc: reportingSvc}
}

// Daily handles GET /api/v1/fintech/reports/daily.
func (h *ReportHandler) Daily(c *gin.Context) {
	report, err := h.reportingSvc.DailyReport(c.Request.Context(), c.Query("accountId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromDailyReport(report))
}

// Transactions handles GET /api/v1/fintech/reports/transactions.
func (h *ReportHandler) Transactions(c *gin.Context) {
	accountID := c.Query("accountId")
	if accountID == "" {
		response.Error(c, apperror.Validation("accountId query parameter is required"))
		return
	}

	req := ports.HistoryRequest{AccountID: accountID}

	filters := dto.TransactionFilters{AccountID: accountID}
	if raw := c.Query("currency"); raw != "" {
		currency, ok := domain.ParseCurrency(raw)
		if !ok {
			response.Error(c, apperror.ErrInvalidCurrency(raw))
			return
		}
		req.Currency = &currency
		filters.Currency = string(currency)
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			response.Error(c, apperror.Validation("limit must be a positive integer"))
			return
		}
		req.Limit = limit
	}

	entries, err := h.reportingSvc.TransactionHistory(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TransactionsResponse{
		Filters:      filters,
		Transactions: dto.FromEntries(entries),
	})
}
