package service

import (
	"context"
	"testing"

	"marketplace-wallet/internal/adapter/storage/memory"
	"marketplace-wallet/internal/core/domain"
	"marketplace-wallet/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReporting(t *testing.T) (ports.ReportingService, *WalletServiceImpl, *memory.Store) {
	t.Helper()
	store := memory.NewStore(nil)
	walletSvc := NewWalletService(store, nil, DefaultParams(), zerolog.Nop())
	return NewReportingService(store), walletSvc, store
}

func TestDailyReport_GroupsByTypeAndSums(t *testing.T) {
	reporting, walletSvc, store := setupReporting(t)
	ctx := context.Background()
	fund(t, store, "acc-r", domain.CurrencyBRL, 10000)

	_, err := walletSvc.Deposit(ctx, ports.DepositRequest{AccountID: "acc-r", Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)
	_, err = walletSvc.Deposit(ctx, ports.DepositRequest{AccountID: "acc-r", Amount: decimal.NewFromInt(300)})
	require.NoError(t, err)
	_, err = walletSvc.Payout(ctx, ports.PayoutRequest{AccountID: "acc-r", Amount: decimal.NewFromInt(200)})
	require.NoError(t, err)
	_, err = walletSvc.Settle(ctx, ports.SettlementRequest{
		AccountID:      "acc-r",
		GrossAmount:    decimal.NewFromInt(1000),
		Currency:       domain.CurrencyBRL,
		ProfessionalID: "prof-1",
	})
	require.NoError(t, err)

	report, err := reporting.DailyReport(ctx, "acc-r")
	require.NoError(t, err)

	assert.True(t, report.Totals[domain.EntryTypeDeposit].Equal(decimal.NewFromInt(800)))
	assert.True(t, report.Totals[domain.EntryTypeWithdrawal].Equal(decimal.NewFromInt(-200)))
	assert.True(t, report.Totals[domain.EntryTypeCommission].Equal(decimal.NewFromInt(-50)))
	assert.True(t, report.Totals[domain.EntryTypeSettlement].Equal(decimal.NewFromInt(950)))
	assert.NotContains(t, report.Totals, domain.EntryTypeTransfer)
}

func TestDailyReport_AllAccounts(t *testing.T) {
	reporting, walletSvc, _ := setupReporting(t)
	ctx := context.Background()

	_, err := walletSvc.Deposit(ctx, ports.DepositRequest{AccountID: "acc-1", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = walletSvc.Deposit(ctx, ports.DepositRequest{AccountID: "acc-2", Amount: decimal.NewFromInt(250)})
	require.NoError(t, err)

	report, err := reporting.DailyReport(ctx, "")
	require.NoError(t, err)
	assert.True(t, report.Totals[domain.EntryTypeDeposit].Equal(decimal.NewFromInt(350)))
}

func TestDailyReport_UnknownAccount(t *testing.T) {
	reporting, _, _ := setupReporting(t)

	report, err := reporting.DailyReport(context.Background(), "nobody")
	assert.Nil(t, report)
	assertAppError(t, err, "WAL_003")
}

func TestDailyReport_DoesNotMutate(t *testing.T) {
	reporting, walletSvc, store := setupReporting(t)
	ctx := context.Background()

	_, err := walletSvc.Deposit(ctx, ports.DepositRequest{AccountID: "acc-m", Amount: decimal.NewFromInt(75)})
	require.NoError(t, err)

	before := store.GetOrCreate("acc-m")
	_, err = reporting.DailyReport(ctx, "acc-m")
	require.NoError(t, err)
	after := store.GetOrCreate("acc-m")

	assert.Equal(t, before.Balances, after.Balances)
	assert.Equal(t, before.Ledger, after.Ledger)
}

func TestTransactionHistory_NewestFirstAndFiltered(t *testing.T) {
	reporting, walletSvc, store := setupReporting(t)
	ctx := context.Background()
	fund(t, store, "acc-h", domain.CurrencyMCOIN, 1000)

	_, err := walletSvc.Deposit(ctx, ports.DepositRequest{AccountID: "acc-h", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = walletSvc.Transfer(ctx, ports.TransferRequest{
		FromAccountID: "acc-h",
		ToAccountID:   "acc-g",
		Amount:        decimal.NewFromInt(300),
		Currency:      domain.CurrencyMCOIN,
	})
	require.NoError(t, err)

	all, err := reporting.TransactionHistory(ctx, ports.HistoryRequest{AccountID: "acc-h"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domain.EntryTypeTransfer, all[0].Type, "newest first")
	assert.Equal(t, domain.EntryTypeDeposit, all[1].Type)

	mcoin := domain.CurrencyMCOIN
	filtered, err := reporting.TransactionHistory(ctx, ports.HistoryRequest{AccountID: "acc-h", Currency: &mcoin})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, domain.EntryTypeTransfer, filtered[0].Type)
}

func TestTransactionHistory_Limit(t *testing.T) {
	reporting, walletSvc, _ := setupReporting(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := walletSvc.Deposit(ctx, ports.DepositRequest{AccountID: "acc-l", Amount: decimal.NewFromInt(int64(i + 1))})
		require.NoError(t, err)
	}

	entries, err := reporting.TransactionHistory(ctx, ports.HistoryRequest{AccountID: "acc-l", Limit: 3})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(5)), "latest deposit first")
}

func TestTransactionHistory_UnknownAccount(t *testing.T) {
	reporting, _, _ := setupReporting(t)

	entries, err := reporting.TransactionHistory(context.Background(), ports.HistoryRequest{AccountID: "ghost"})
	assert.Nil(t, entries)
	assertAppError(t, err, "WAL_003")
}
