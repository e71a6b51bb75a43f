package ports

import (
	"marketplace-wallet/internal/core/domain"
)

// WalletStore is the single source of truth mapping account identifiers to
// wallets. Implementations must guarantee exclusive access for the duration
// of an Update closure and release it on every exit path, and must acquire
// pair locks in a fixed global order so two operations referencing the same
// wallets in opposite order cannot deadlock.
type WalletStore interface {
	// GetOrCreate returns a snapshot of the wallet, creating it with the
	// configured seed balances on first reference. Never fails.
	GetOrCreate(accountID string) *domain.Wallet

	// View runs fn against a read-only snapshot of the wallet. fn must not
	// retain the snapshot's slices beyond its own scope if it mutates them.
	View(accountID string, fn func(w *domain.Wallet) error) error

	// Update runs fn with exclusive access to the wallet. A non-nil error
	// from fn discards nothing by itself; fn is responsible for leaving the
	// wallet untouched on failure.
	Update(accountID string, fn func(w *domain.Wallet) error) error

	// UpdatePair runs fn with exclusive access to both wallets, locking in
	// ascending account-id order. Passing the same id twice collapses to a
	// single lock and fn receives the same wallet for both parameters.
	UpdatePair(aID, bID string, fn func(a, b *domain.Wallet) error) error

	// Accounts returns the ids of every wallet created so far.
	Accounts() []string
}
