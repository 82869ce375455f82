package payment

import (
	"fmt"
	"sync"

	"github.com/stevenpatino/storefront/secstore"
	"github.com/stevenpatino/storefront/transactions"
)

// storageKey is where the payment snapshot lives in the secure store.
const storageKey = "payment"

// Store holds the entered card details and the checkout request lifecycle.
// It is a shared mutable container owned by the application context; pass
// the handle explicitly to components that need it.
type Store struct {
	mu       sync.Mutex
	card     CardDetails
	checkout CheckoutState
}

// CheckoutState tracks the in-flight checkout request from this form.
type CheckoutState struct {
	Loading     bool
	Err         string
	Transaction *transactions.Transaction
}

// NewStore returns an empty payment store.
func NewStore() *Store {
	return &Store{}
}

// SetCard merges the given fields into the held card details. Zero-valued
// fields are left unchanged, mirroring partial form updates.
func (s *Store) SetCard(update CardDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.Number != "" {
		s.card.Number = update.Number
	}
	if update.CVC != "" {
		s.card.CVC = update.CVC
	}
	if update.ExpMonth != "" {
		s.card.ExpMonth = update.ExpMonth
	}
	if update.ExpYear != "" {
		s.card.ExpYear = update.ExpYear
	}
	if update.CardHolder != "" {
		s.card.CardHolder = update.CardHolder
	}
	if update.Email != "" {
		s.card.Email = update.Email
	}
	if update.Brand != "" {
		s.card.Brand = update.Brand
	}
	if update.BIN != "" {
		s.card.BIN = update.BIN
	}
	if update.Last4 != "" {
		s.card.Last4 = update.Last4
	}
}

// ClearCard wipes the held card details.
func (s *Store) ClearCard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.card = CardDetails{}
}

// Card returns a copy of the held card details.
func (s *Store) Card() CardDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.card
}

// CheckoutCard converts the held details into the card block of a checkout
// request.
func (s *Store) CheckoutCard() transactions.CheckoutCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return transactions.CheckoutCard{
		Number:     s.card.Number,
		CVC:        s.card.CVC,
		ExpMonth:   s.card.ExpMonth,
		ExpYear:    s.card.ExpYear,
		CardHolder: s.card.CardHolder,
	}
}

// BeginCheckout marks a submission as in flight.
func (s *Store) BeginCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkout.Loading = true
	s.checkout.Err = ""
}

// ResolveCheckout records the transaction from a successful submission.
func (s *Store) ResolveCheckout(tx *transactions.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkout.Loading = false
	s.checkout.Transaction = tx
}

// FailCheckout records a submission failure.
func (s *Store) FailCheckout(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkout.Loading = false
	s.checkout.Err = msg
}

// Checkout returns the current checkout lifecycle state.
func (s *Store) Checkout() CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout
}

type snapshot struct {
	Card CardDetails `json:"card"`
}

// Save persists the card details to the secure store. The checkout
// lifecycle is transient and never persisted.
func (s *Store) Save(kv *secstore.Store) error {
	s.mu.Lock()
	snap := snapshot{Card: s.card}
	s.mu.Unlock()

	if err := kv.Set(storageKey, snap); err != nil {
		return fmt.Errorf("persisting payment state: %w", err)
	}
	return nil
}

// Load restores previously persisted card details, if any.
func (s *Store) Load(kv *secstore.Store) error {
	var snap snapshot
	ok, err := kv.Get(storageKey, &snap)
	if err != nil {
		return fmt.Errorf("restoring payment state: %w", err)
	}
	if !ok {
		return nil
	}

	s.mu.Lock()
	s.card = snap.Card
	s.mu.Unlock()
	return nil
}
