package domain

import (
	"github.com/shopspring/decimal"
)

// Balance splits a wallet's funds per currency into settled, spendable
// value and value in transit. Both components stay non-negative after
// every successful operation.
type Balance struct {
	Available decimal.Decimal `json:"available"`
	Pending   decimal.Decimal `json:"pending"`
}

// Wallet aggregates one account's per-currency balances and its full
// append-only entry history. Wallets are owned exclusively by the wallet
// store; callers only ever see deep copies.
type Wallet struct {
	AccountID string               `json:"account_id"`
	Balances  map[Currency]Balance `json:"balances"`
	Ledger    []LedgerEntry        `json:"ledger"`
}

// NewWallet creates a wallet with the given seed balances. A nil seed
// yields zero balances for every supported currency.
func NewWallet(accountID string, seed map[Currency]Balance) *Wallet {
	balances := make(map[Currency]Balance, len(Currencies()))
	for _, c := range Currencies() {
		balances[c] = Balance{Available: decimal.Zero, Pending: decimal.Zero}
	}
	for c, b := range seed {
		balances[c] = b
	}
	return &Wallet{
		AccountID: accountID,
		Balances:  balances,
	}
}

// Balance returns the wallet's balance for a currency, zero-valued if the
// currency has never been touched.
func (w *Wallet) Balance(c Currency) Balance {
	if b, ok := w.Balances[c]; ok {
		return b
	}
	return Balance{Available: decimal.Zero, Pending: decimal.Zero}
}

// CreditAvailable adds amount to the currency's available balance.
func (w *Wallet) CreditAvailable(c Currency, amount decimal.Decimal) {
	b := w.Balance(c)
	b.Available = b.Available.Add(amount)
	w.Balances[c] = b
}

// DebitAvailable subtracts amount from the currency's available balance.
// Sufficiency must have been checked under the store's lock.
func (w *Wallet) DebitAvailable(c Currency, amount decimal.Decimal) {
	b := w.Balance(c)
	b.Available = b.Available.Sub(amount)
	w.Balances[c] = b
}

// CreditPending adds amount to the currency's pending balance.
func (w *Wallet) CreditPending(c Currency, amount decimal.Decimal) {
	b := w.Balance(c)
	b.Pending = b.Pending.Add(amount)
	w.Balances[c] = b
}

// Append adds entries to the wallet's ledger. Entries are immutable facts;
// nothing ever removes or rewrites them.
func (w *Wallet) Append(entries ...LedgerEntry) {
	w.Ledger = append(w.Ledger, entries...)
}

// Clone returns a deep copy safe to hand outside the store's lock.
func (w *Wallet) Clone() *Wallet {
	balances := make(map[Currency]Balance, len(w.Balances))
	for c, b := range w.Balances {
		balances[c] = b
	}
	ledger := make([]LedgerEntry, len(w.Ledger))
	copy(ledger, w.Ledger)
	return &Wallet{
		AccountID: w.AccountID,
		Balances:  balances,
		Ledger:    ledger,
	}
}
