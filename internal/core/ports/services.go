package ports

import (
	"context"
	"time"

	"marketplace-wallet/internal/core/domain"

	"github.com/shopspring/decimal"
)

// --- Service Ports (Business Logic) ---

// WalletService defines the ledger operation contracts.
type WalletService interface {
	Deposit(ctx context.Context, req DepositRequest) (*DepositResult, error)
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
	Payout(ctx context.Context, req PayoutRequest) (*PayoutResult, error)
	Settle(ctx context.Context, req SettlementRequest) (*SettlementResult, error)
	GetWallet(ctx context.Context, accountID string) (*domain.Wallet, error)
}

// DepositRequest holds validated input for a PIX deposit. The channel is
// BRL-only; funds land in pending until an external confirmation that this
// core does not model.
type DepositRequest struct {
	AccountID   string
	Amount      decimal.Decimal
	ReferenceID string // optional client idempotency reference
}

// DepositResult is the deposit outcome returned to the caller.
type DepositResult struct {
	AccountID string          `json:"account_id"`
	RequestID string          `json:"request_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
}

// TransferRequest holds validated input for a wallet-to-wallet transfer.
type TransferRequest struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Currency      domain.Currency
	ReferenceID   string
}

// TransferResult is the transfer outcome. FeeRate is informational; the
// full amount moves between the wallets.
type TransferResult struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Amount   decimal.Decimal `json:"amount"`
	Currency domain.Currency `json:"currency"`
	FeeRate  decimal.Decimal `json:"fee_rate"`
	Status   string          `json:"status"`
}

// PayoutRequest holds validated input for a payout to an external account.
type PayoutRequest struct {
	AccountID   string
	Amount      decimal.Decimal
	ReferenceID string
}

// PayoutResult is the payout outcome. KYCRequired is advisory metadata;
// enforcement, if any, happens outside this core.
type PayoutResult struct {
	AccountID   string          `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	KYCRequired bool            `json:"kyc_required"`
}

// SettlementRequest holds validated input for settling a professional's
// gross earnings minus the platform fee.
type SettlementRequest struct {
	AccountID      string
	GrossAmount    decimal.Decimal
	Currency       domain.Currency
	ProfessionalID string
	ReferenceID    string
}

// SettlementResult is the settlement outcome. PlatformFee + NetAmount
// always equals GrossAmount exactly.
type SettlementResult struct {
	ProfessionalID  string          `json:"professional_id"`
	GrossAmount     decimal.Decimal `json:"gross_amount"`
	Currency        domain.Currency `json:"currency"`
	PlatformFeeRate decimal.Decimal `json:"platform_fee_rate"`
	PlatformFee     decimal.Decimal `json:"platform_fee"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	Status          string          `json:"status"`
	FallbackGateway string          `json:"fallback_gateway,omitempty"`
}

// ReportingService defines read-only projections over ledger entries.
type ReportingService interface {
	// DailyReport groups today's view of the ledger by entry type and sums
	// signed amounts. An empty accountID aggregates every wallet.
	DailyReport(ctx context.Context, accountID string) (*DailyReport, error)
	// TransactionHistory lists a wallet's entries newest-first, optionally
	// filtered to one currency.
	TransactionHistory(ctx context.Context, req HistoryRequest) ([]domain.LedgerEntry, error)
}

// DailyReport aggregates ledger totals per entry type.
type DailyReport struct {
	Date   time.Time                            `json:"date"`
	Totals map[domain.EntryType]decimal.Decimal `json:"totals"`
}

// HistoryRequest holds filters for the transaction history view.
type HistoryRequest struct {
	AccountID string
	Currency  *domain.Currency
	Limit     int // 0 = no limit
}
