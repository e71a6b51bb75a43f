package dto

import (
	"time"

	"marketplace-wallet/internal/core/domain"
	"marketplace-wallet/internal/core/ports"

	"github.com/shopspring/decimal"
)

// DepositRequest is the request body for a PIX deposit.
type DepositRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ReferenceID string          `json:"reference_id,omitempty" binding:"omitempty,safe_id,max=100"`
}

// TransferRequest is the request body for a wallet-to-wallet transfer.
type TransferRequest struct {
	ToAccountID string          `json:"to_account_id" binding:"required,safe_id,max=100"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"required"`
	ReferenceID string          `json:"reference_id,omitempty" binding:"omitempty,safe_id,max=100"`
}

// PayoutRequest is the request body for a payout.
type PayoutRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ReferenceID string          `json:"reference_id,omitempty" binding:"omitempty,safe_id,max=100"`
}

// SettlementRequest is the request body for settling a professional's
// gross earnings.
type SettlementRequest struct {
	GrossAmount    decimal.Decimal `json:"gross_amount" binding:"required"`
	Currency       string          `json:"currency" binding:"required"`
	ProfessionalID string          `json:"professional_id" binding:"required,safe_id,max=100"`
	ReferenceID    string          `json:"reference_id,omitempty" binding:"omitempty,safe_id,max=100"`
}

// BalanceResponse is one currency's balance pair.
type BalanceResponse struct {
	Available decimal.Decimal `json:"available"`
	Pending   decimal.Decimal `json:"pending"`
}

// EntryResponse is one ledger entry in API form.
type EntryResponse struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Currency    string           `json:"currency"`
	Fee         *decimal.Decimal `json:"fee,omitempty"`
	Description string           `json:"description,omitempty"`
	CreatedAt   string           `json:"created_at"`
}

// WalletResponse is the full wallet view: balances plus ledger history.
type WalletResponse struct {
	AccountID string                     `json:"account_id"`
	Balances  map[string]BalanceResponse `json:"balances"`
	Ledger    []EntryResponse            `json:"ledger"`
}

// DailyReportResponse aggregates ledger totals per entry type.
type DailyReportResponse struct {
	Date   string                     `json:"date"`
	Totals map[string]decimal.Decimal `json:"totals"`
}

// TransactionsResponse is the filtered transaction history view.
type TransactionsResponse struct {
	Filters      TransactionFilters `json:"filters"`
	Transactions []EntryResponse    `json:"transactions"`
}

// TransactionFilters echoes the filters applied to a history query.
type TransactionFilters struct {
	AccountID string `json:"account_id"`
	Currency  string `json:"currency,omitempty"`
}

// FromWallet converts a domain wallet snapshot into its API form.
func FromWallet(w *domain.Wallet) WalletResponse {
	balances := make(map[string]BalanceResponse, len(w.Balances))
	for c, b := range w.Balances {
		balances[string(c)] = BalanceResponse{Available: b.Available, Pending: b.Pending}
	}
	return WalletResponse{
		AccountID: w.AccountID,
		Balances:  balances,
		Ledger:    FromEntries(w.Ledger),
	}
}

// FromEntries converts ledger entries into their API form.
func FromEntries(entries []domain.LedgerEntry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryResponse{
			ID:          e.ID,
			Type:        string(e.Type),
			Amount:      e.Amount,
			Currency:    string(e.Currency),
			Fee:         e.Fee,
			Description: e.Description,
			CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// FromDailyReport converts a reporting projection into its API form.
func FromDailyReport(r *ports.DailyReport) DailyReportResponse {
	totals := make(map[string]decimal.Decimal, len(r.Totals))
	for typ, sum := range r.Totals {
		totals[string(typ)] = sum
	}
	return DailyReportResponse{
		Date:   r.Date.Format("2006-01-02"),
		Totals: totals,
	}
}
