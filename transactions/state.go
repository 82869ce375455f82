package transactions

import (
	"fmt"
	"sync"

	"github.com/stevenpatino/storefront/secstore"
)

// storageKey is where the transactions snapshot lives in the secure store.
const storageKey = "transactions"

// Store holds the current transaction together with the checkout
// loading/error flags. It is a shared mutable container; any component may
// mutate it, and mutations are serialized by an internal mutex.
type Store struct {
	mu      sync.Mutex
	current *Transaction
	loading bool
	err     string
}

// NewStore returns an empty transaction store.
func NewStore() *Store {
	return &Store{}
}

// Begin marks a checkout submission as in flight and clears any previous
// error.
func (s *Store) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.err = ""
}

// Resolve records the transaction returned by a checkout response and ends
// the loading state.
func (s *Store) Resolve(tx *Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.current = tx
}

// Fail records a checkout failure message and ends the loading state.
func (s *Store) Fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.err = msg
}

// Settle ends the loading state without recording a result. Used when a
// submission is abandoned and its outcome is dropped.
func (s *Store) Settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

// Clear resets the current transaction and error. Loading is deliberately
// left untouched.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.err = ""
}

// Current returns the latest known transaction, or nil.
func (s *Store) Current() *Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	tx := *s.current
	return &tx
}

// Loading reports whether a checkout submission is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last recorded checkout error message, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

type snapshot struct {
	Current *Transaction `json:"current,omitempty"`
}

// Save persists the current transaction to the secure store. Loading and
// error flags are transient and never persisted.
func (s *Store) Save(kv *secstore.Store) error {
	s.mu.Lock()
	snap := snapshot{Current: s.current}
	s.mu.Unlock()

	if err := kv.Set(storageKey, snap); err != nil {
		return fmt.Errorf("persisting transactions state: %w", err)
	}
	return nil
}

// Load restores a previously persisted transaction, if any.
func (s *Store) Load(kv *secstore.Store) error {
	var snap snapshot
	ok, err := kv.Get(storageKey, &snap)
	if err != nil {
		return fmt.Errorf("restoring transactions state: %w", err)
	}
	if !ok {
		return nil
	}

	s.mu.Lock()
	s.current = snap.Current
	s.mu.Unlock()
	return nil
}
