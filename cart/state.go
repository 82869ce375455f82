package cart

import "sync"

// Store holds the cart line items and their derived total. It is a shared
// mutable container; mutations are serialized by an internal mutex. The cart
// is not persisted across restarts.
type Store struct {
	mu           sync.Mutex
	items        []Item
	totalInCents int
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{}
}

// AddItem merges qty into an existing line with the same product id, or
// appends a new line.
func (s *Store) AddItem(item Item, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Qty += qty
			s.recomputeTotal()
			return
		}
	}
	item.Qty = qty
	s.items = append(s.items, item)
	s.recomputeTotal()
}

// RemoveItem drops the line for productID, if present.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = removeLine(s.items, productID)
	s.recomputeTotal()
}

// SetQty sets the quantity of an existing line. A qty of zero or less
// removes the line entirely.
func (s *Store) SetQty(productID string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			if qty <= 0 {
				s.items = removeLine(s.items, productID)
			} else {
				s.items[i].Qty = qty
			}
			break
		}
	}
	s.recomputeTotal()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.totalInCents = 0
}

// Items returns a copy of the current lines in cart order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// TotalInCents returns the derived cart total.
func (s *Store) TotalInCents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalInCents
}

// Len returns the number of lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// recomputeTotal derives the total from the item list on every mutation, so
// it can never drift from the lines. Caller must hold s.mu.
func (s *Store) recomputeTotal() {
	total := 0
	for _, it := range s.items {
		total += it.Subtotal()
	}
	s.totalInCents = total
}

func removeLine(items []Item, productID string) []Item {
	out := items[:0]
	for _, it := range items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}
