package domain

import "strings"

// Currency is a supported wallet currency code.
type Currency string

const (
	// CurrencyBRL is the Brazilian Real, the fiat rail for deposits,
	// payouts, and settlements.
	CurrencyBRL Currency = "BRL"
	// CurrencyMCOIN is the marketplace's internal credit currency.
	CurrencyMCOIN Currency = "MCOIN"
)

// Currencies returns every supported currency. Every wallet carries a
// balance for each of them.
func Currencies() []Currency {
	return []Currency{CurrencyBRL, CurrencyMCOIN}
}

// ParseCurrency normalizes a raw code (case-insensitive, surrounding
// whitespace ignored) against the supported set.
func ParseCurrency(raw string) (Currency, bool) {
	c := Currency(strings.ToUpper(strings.TrimSpace(raw)))
	if c.IsValid() {
		return c, true
	}
	return "", false
}

// IsValid reports whether c is a supported currency.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyBRL, CurrencyMCOIN:
		return true
	}
	return false
}

func (c Currency) String() string {
	return string(c)
}
