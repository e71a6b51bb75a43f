package service

import (
	"context"
	"time"

	"marketplace-wallet/internal/core/domain"
	"marketplace-wallet/internal/core/ports"
	"marketplace-wallet/pkg/apperror"

	"github.com/shopspring/decimal"
)

// reportingService implements ports.ReportingService. Projections are
// pure: they read wallet snapshots and never touch balances or ledgers.
type reportingService struct {
	store ports.WalletStore
}

// NewReportingService creates a new reporting service.
func NewReportingService(store ports.WalletStore) ports.ReportingService {
	return &reportingService{store: store}
}

// DailyReport groups ledger entries by type and sums their signed amounts.
// An empty accountID aggregates every wallet in the store.
func (s *reportingService) DailyReport(_ context.Context, accountID string) (*ports.DailyReport, error) {
	totals := make(map[domain.EntryType]decimal.Decimal)

	accumulate := func(w *domain.Wallet) error {
		for _, e := range w.Ledger {
			sum, ok := totals[e.Type]
			if !ok {
				sum = decimal.Zero
			}
			totals[e.Type] = sum.Add(e.Amount)
		}
		return nil
	}

	if accountID != "" {
		if !s.accountExists(accountID) {
			return nil, apperror.ErrAccountNotFound(accountID)
		}
		if err := s.store.View(accountID, accumulate); err != nil {
			return nil, apperror.InternalError(err)
		}
	} else {
		for _, id := range s.store.Accounts() {
			if err := s.store.View(id, accumulate); err != nil {
				return nil, apperror.InternalError(err)
			}
		}
	}

	return &ports.DailyReport{
		Date:   time.Now().UTC().Truncate(24 * time.Hour),
		Totals: totals,
	}, nil
}

// TransactionHistory lists a wallet's entries newest-first, optionally
// filtered to one currency.
func (s *reportingService) TransactionHistory(_ context.Context, req ports.HistoryRequest) ([]domain.LedgerEntry, error) {
	if !s.accountExists(req.AccountID) {
		return nil, apperror.ErrAccountNotFound(req.AccountID)
	}

	var entries []domain.LedgerEntry
	err := s.store.View(req.AccountID, func(w *domain.Wallet) error {
		for i := len(w.Ledger) - 1; i >= 0; i-- {
			e := w.Ledger[i]
			if req.Currency != nil && e.Currency != *req.Currency {
				continue
			}
			entries = append(entries, e)
			if req.Limit > 0 && len(entries) == req.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	return entries, nil
}

func (s *reportingService) accountExists(accountID string) bool {
	for _, id := range s.store.Accounts() {
		if id == accountID {
			return true
		}
	}
	return false
}
