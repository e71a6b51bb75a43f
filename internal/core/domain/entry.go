package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a ledger entry by the operation that produced it.
type EntryType string

const (
	EntryTypeDeposit    EntryType = "deposit"
	EntryTypeWithdrawal EntryType = "withdrawal"
	EntryTypeTransfer   EntryType = "transfer"
	EntryTypePayment    EntryType = "payment"
	EntryTypeCommission EntryType = "commission"
	EntryTypeSettlement EntryType = "settlement"
)

// LedgerEntry is one immutable fact on a wallet's ledger. The amount is
// signed: positive credits the wallet, negative debits it. Entries are
// only ever appended, never updated or removed.
type LedgerEntry struct {
	ID          string           `json:"id"`
	Type        EntryType        `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Currency    Currency         `json:"currency"`
	Fee         *decimal.Decimal `json:"fee,omitempty"`
	Description string           `json:"description,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// IsDebit reports whether the entry removed value from the wallet.
func (e LedgerEntry) IsDebit() bool {
	return e.Amount.IsNegative()
}
