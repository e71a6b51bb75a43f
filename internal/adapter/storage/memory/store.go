package memory

import (
	"sort"
	"sync"

	"marketplace-wallet/internal/core/domain"
)

// SeedFunc produces the opening balances for a lazily created wallet.
// A nil SeedFunc (or nil result) seeds every currency at zero.
type SeedFunc func(accountID string) map[domain.Currency]domain.Balance

// Store is the in-memory wallet store: one mutex-guarded slot per wallet
// plus a store-level mutex protecting the account map itself. It is the
// single owner of all wallet state; every value that leaves the store is a
// deep copy.
type Store struct {
	mu      sync.RWMutex
	wallets map[string]*slot
	seed    SeedFunc
}

type slot struct {
	mu sync.Mutex
	w  *domain.Wallet
}

// NewStore creates an empty store. Each instance is fully isolated, so
// tests can construct their own without shared state.
func NewStore(seed SeedFunc) *Store {
	return &Store{
		wallets: make(map[string]*slot),
		seed:    seed,
	}
}

// getSlot resolves (or lazily creates) the slot for an account.
func (s *Store) getSlot(accountID string) *slot {
	s.mu.RLock()
	sl, ok := s.wallets[accountID]
	s.mu.RUnlock()
	if ok {
		return sl
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sl, ok = s.wallets[accountID]; ok {
		return sl
	}

	var seed map[domain.Currency]domain.Balance
	if s.seed != nil {
		seed = s.seed(accountID)
	}
	sl = &slot{w: domain.NewWallet(accountID, seed)}
	s.wallets[accountID] = sl
	return sl
}

// GetOrCreate returns a snapshot of the wallet, creating it with the seed
// balances on first reference.
func (s *Store) GetOrCreate(accountID string) *domain.Wallet {
	sl := s.getSlot(accountID)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.w.Clone()
}

// View runs fn against a consistent snapshot of the wallet. The snapshot is
// taken under the wallet lock; fn itself runs without holding it.
func (s *Store) View(accountID string, fn func(w *domain.Wallet) error) error {
	return fn(s.GetOrCreate(accountID))
}

// Update runs fn with exclusive access to the wallet, released on every
// exit path.
func (s *Store) Update(accountID string, fn func(w *domain.Wallet) error) error {
	sl := s.getSlot(accountID)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return fn(sl.w)
}

// UpdatePair runs fn with exclusive access to both wallets. Locks are
// acquired in ascending account-id order so concurrent operations on the
// same pair in opposite directions cannot deadlock. Equal ids collapse to
// a single lock.
func (s *Store) UpdatePair(aID, bID string, fn func(a, b *domain.Wallet) error) error {
	if aID == bID {
		return s.Update(aID, func(w *domain.Wallet) error {
			return fn(w, w)
		})
	}

	slA := s.getSlot(aID)
	slB := s.getSlot(bID)

	first, second := slA, slB
	if bID < aID {
		first, second = slB, slA
	}

	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	return fn(slA.w, slB.w)
}

// Accounts returns the ids of every wallet created so far, sorted for
// deterministic iteration.
func (s *Store) Accounts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.wallets))
	for id := range s.wallets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
