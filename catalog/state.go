package catalog

import "sync"

// Store holds the loaded catalog data with its loading/error flags,
// mirroring the other state containers. The catalog is never persisted.
type Store struct {
	mu         sync.Mutex
	products   []Product
	categories []Category
	loading    bool
	err        string
}

// NewStore returns an empty catalog store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.err = ""
}

func (s *Store) setProducts(products []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.products = products
}

func (s *Store) setCategories(categories []Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.categories = categories
}

func (s *Store) fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.err = msg
}

// Products returns the loaded products.
func (s *Store) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Categories returns the loaded categories.
func (s *Store) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Loading reports whether a catalog request is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last catalog error message, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
