package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace-wallet/internal/core/domain"
	"marketplace-wallet/internal/core/ports"
	"marketplace-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Operation result statuses. Deposits stay "processing" (pending balance)
// until an external confirmation that this core does not model; payouts
// stay "in-review" on the pending balance likewise.
const (
	StatusProcessing = "processing"
	StatusScheduled  = "scheduled"
	StatusInReview   = "in-review"
	StatusSettled    = "settled"
)

// fallbackGateway is echoed on settlements for the external payout rail.
const fallbackGateway = "stripe"

// Params holds the ledger business parameters, injected from config.
type Params struct {
	// TransferFeeRate is informational; the full amount moves.
	TransferFeeRate decimal.Decimal
	// PlatformFeeRate is the settlement cut retained by the platform.
	PlatformFeeRate decimal.Decimal
	// KYCThreshold flags payouts above it for identity verification.
	KYCThreshold decimal.Decimal
	// ResultCacheTTL bounds idempotent result retention.
	ResultCacheTTL time.Duration
}

// DefaultParams returns the marketplace defaults.
func DefaultParams() Params {
	return Params{
		TransferFeeRate: decimal.RequireFromString("0.03"),
		PlatformFeeRate: decimal.RequireFromString("0.05"),
		KYCThreshold:    decimal.NewFromInt(5000),
		ResultCacheTTL:  24 * time.Hour,
	}
}

// WalletServiceImpl implements ports.WalletService. Every compound
// check-then-mutate sequence runs inside the store's exclusive-access
// closures; the result cache is consulted before and populated after the
// locked section, never inside it.
type WalletServiceImpl struct {
	store  ports.WalletStore
	cache  ports.ResultCache // nil = idempotent replay disabled
	params Params
	log    zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(store ports.WalletStore, cache ports.ResultCache, params Params, log zerolog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{
		store:  store,
		cache:  cache,
		params: params,
		log:    log,
	}
}

// Deposit credits the pending BRL balance; funds become available only
// through an external confirmation outside this core.
func (s *WalletServiceImpl) Deposit(ctx context.Context, req ports.DepositRequest) (*ports.DepositResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount(fmt.Sprintf("got %s", req.Amount))
	}

	cacheKey := resultKey("deposit", req.AccountID, req.ReferenceID)
	var cached ports.DepositResult
	if s.lookupCached(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	now := time.Now().UTC()
	entry := domain.LedgerEntry{
		ID:          "txn-" + uuid.NewString(),
		Type:        domain.EntryTypeDeposit,
		Amount:      req.Amount,
		Currency:    domain.CurrencyBRL,
		Description: "Depósito PIX",
		CreatedAt:   now,
	}

	err := s.store.Update(req.AccountID, func(w *domain.Wallet) error {
		w.CreditPending(domain.CurrencyBRL, req.Amount)
		w.Append(entry)
		return nil
	})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("deposit: %w", err))
	}

	result := &ports.DepositResult{
		AccountID: req.AccountID,
		RequestID: fmt.Sprintf("pix-%d", now.UnixMilli()),
		Amount:    req.Amount,
		Status:    StatusProcessing,
	}
	s.storeCached(ctx, cacheKey, result)

	s.log.Info().
		Str("account_id", req.AccountID).
		Str("entry_id", entry.ID).
		Str("amount", req.Amount.String()).
		Msg("deposit accepted")

	return result, nil
}

// Transfer atomically moves available funds between two wallets. Both
// wallet locks are held for the whole debit+credit sequence; if the credit
// leg fails after the debit applied, a compensating credit restores the
// sender before the error surfaces.
func (s *WalletServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount(fmt.Sprintf("got %s", req.Amount))
	}
	if !req.Currency.IsValid() {
		return nil, apperror.ErrInvalidCurrency(string(req.Currency))
	}

	cacheKey := resultKey("transfer", req.FromAccountID, req.ReferenceID)
	var cached ports.TransferResult
	if s.lookupCached(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	now := time.Now().UTC()
	base := "txn-" + uuid.NewString()
	debitEntry := domain.LedgerEntry{
		ID:          base + "-d",
		Type:        domain.EntryTypeTransfer,
		Amount:      req.Amount.Neg(),
		Currency:    req.Currency,
		Description: fmt.Sprintf("Transferência para %s", req.ToAccountID),
		CreatedAt:   now,
	}
	creditEntry := domain.LedgerEntry{
		ID:          base + "-c",
		Type:        domain.EntryTypeTransfer,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: fmt.Sprintf("Transferência de %s", req.FromAccountID),
		CreatedAt:   now,
	}

	err := s.store.UpdatePair(req.FromAccountID, req.ToAccountID, func(from, to *domain.Wallet) error {
		if from.Balance(req.Currency).Available.LessThan(req.Amount) {
			return apperror.ErrInsufficientBalance(req.FromAccountID, string(req.Currency))
		}

		from.DebitAvailable(req.Currency, req.Amount)

		if err := creditLeg(to, req.Currency, req.Amount, creditEntry); err != nil {
			// Compensate the applied debit so the failure is never
			// observable as a half-applied transfer.
			from.CreditAvailable(req.Currency, req.Amount)
			return err
		}

		from.Append(debitEntry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &ports.TransferResult{
		From:     req.FromAccountID,
		To:       req.ToAccountID,
		Amount:   req.Amount,
		Currency: req.Currency,
		FeeRate:  s.params.TransferFeeRate,
		Status:   StatusScheduled,
	}
	s.storeCached(ctx, cacheKey, result)

	s.log.Info().
		Str("from", req.FromAccountID).
		Str("to", req.ToAccountID).
		Str("currency", string(req.Currency)).
		Str("amount", req.Amount.String()).
		Str("entry_base", base).
		Msg("transfer applied")

	return result, nil
}

// creditLeg applies the credit side of a transfer to the recipient wallet.
// Kept separate so the compensation path in Transfer has a single failure
// boundary to guard.
func creditLeg(to *domain.Wallet, currency domain.Currency, amount decimal.Decimal, entry domain.LedgerEntry) error {
	to.CreditAvailable(currency, amount)
	to.Append(entry)
	return nil
}

// Payout moves available BRL funds to pending while the withdrawal is in
// review. The KYC flag is advisory metadata; it never blocks the payout.
func (s *WalletServiceImpl) Payout(ctx context.Context, req ports.PayoutRequest) (*ports.PayoutResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount(fmt.Sprintf("got %s", req.Amount))
	}

	cacheKey := resultKey("payout", req.AccountID, req.ReferenceID)
	var cached ports.PayoutResult
	if s.lookupCached(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	now := time.Now().UTC()
	entry := domain.LedgerEntry{
		ID:          "txn-" + uuid.NewString(),
		Type:        domain.EntryTypeWithdrawal,
		Amount:      req.Amount.Neg(),
		Currency:    domain.CurrencyBRL,
		Description: "Solicitação de saque",
		CreatedAt:   now,
	}

	err := s.store.Update(req.AccountID, func(w *domain.Wallet) error {
		if w.Balance(domain.CurrencyBRL).Available.LessThan(req.Amount) {
			return apperror.ErrInsufficientBalance(req.AccountID, string(domain.CurrencyBRL))
		}
		w.DebitAvailable(domain.CurrencyBRL, req.Amount)
		w.CreditPending(domain.CurrencyBRL, req.Amount)
		w.Append(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &ports.PayoutResult{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Status:      StatusInReview,
		KYCRequired: req.Amount.GreaterThan(s.params.KYCThreshold),
	}
	s.storeCached(ctx, cacheKey, result)

	s.log.Info().
		Str("account_id", req.AccountID).
		Str("amount", req.Amount.String()).
		Bool("kyc_required", result.KYCRequired).
		Msg("payout in review")

	return result, nil
}

// Settle credits a professional's wallet with the net of a gross amount
// minus the platform fee. The commission entry stays on the same wallet's
// ledger; there is no platform counterparty wallet in this core.
func (s *WalletServiceImpl) Settle(ctx context.Context, req ports.SettlementRequest) (*ports.SettlementResult, error) {
	if !req.GrossAmount.IsPositive() {
		return nil, apperror.ErrInvalidAmount(fmt.Sprintf("got %s", req.GrossAmount))
	}
	if !req.Currency.IsValid() {
		return nil, apperror.ErrInvalidCurrency(string(req.Currency))
	}

	cacheKey := resultKey("settlement", req.AccountID, req.ReferenceID)
	var cached ports.SettlementResult
	if s.lookupCached(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	// Exact decimal arithmetic: fee + net always reassembles the gross.
	platformFee := req.GrossAmount.Mul(s.params.PlatformFeeRate)
	netAmount := req.GrossAmount.Sub(platformFee)

	now := time.Now().UTC()
	base := "txn-" + uuid.NewString()
	feeRate := s.params.PlatformFeeRate
	commissionEntry := domain.LedgerEntry{
		ID:          base + "-fee",
		Type:        domain.EntryTypeCommission,
		Amount:      platformFee.Neg(),
		Currency:    req.Currency,
		Fee:         &feeRate,
		Description: "Taxa plataforma",
		CreatedAt:   now,
	}
	settlementEntry := domain.LedgerEntry{
		ID:          base + "-net",
		Type:        domain.EntryTypeSettlement,
		Amount:      netAmount,
		Currency:    req.Currency,
		Description: fmt.Sprintf("Repasse serviço %s", req.ProfessionalID),
		CreatedAt:   now,
	}

	err := s.store.Update(req.AccountID, func(w *domain.Wallet) error {
		w.CreditAvailable(req.Currency, netAmount)
		w.Append(commissionEntry, settlementEntry)
		return nil
	})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("settlement: %w", err))
	}

	result := &ports.SettlementResult{
		ProfessionalID:  req.ProfessionalID,
		GrossAmount:     req.GrossAmount,
		Currency:        req.Currency,
		PlatformFeeRate: s.params.PlatformFeeRate,
		PlatformFee:     platformFee,
		NetAmount:       netAmount,
		Status:          StatusSettled,
		FallbackGateway: fallbackGateway,
	}
	s.storeCached(ctx, cacheKey, result)

	s.log.Info().
		Str("account_id", req.AccountID).
		Str("professional_id", req.ProfessionalID).
		Str("gross", req.GrossAmount.String()).
		Str("fee", platformFee.String()).
		Str("net", netAmount.String()).
		Msg("settlement credited")

	return result, nil
}

// GetWallet returns a snapshot of the wallet, creating it on first
// reference. The ledger view is newest-first.
func (s *WalletServiceImpl) GetWallet(_ context.Context, accountID string) (*domain.Wallet, error) {
	w := s.store.GetOrCreate(accountID)
	reverseEntries(w.Ledger)
	return w, nil
}

func reverseEntries(entries []domain.LedgerEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}

// resultKey builds the idempotency cache key for an operation invocation.
func resultKey(op, accountID, referenceID string) string {
	if referenceID == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s:%s", op, accountID, referenceID)
}

// lookupCached returns true and fills out when a previous result exists
// under key. Cache errors are logged and treated as misses.
func (s *WalletServiceImpl) lookupCached(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil || key == "" {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("result cache lookup failed, proceeding")
		return false
	}
	if data == nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("result cache entry corrupt, proceeding")
		return false
	}
	return true
}

// storeCached persists an operation result best-effort.
func (s *WalletServiceImpl) storeCached(ctx context.Context, key string, v interface{}) {
	if s.cache == nil || key == "" {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("result cache marshal failed")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.params.ResultCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("result cache store failed")
	}
}
