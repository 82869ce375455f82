package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// API is the backend surface the catalog service needs.
type API interface {
	Products(ctx context.Context) ([]Product, error)
	Categories(ctx context.Context) ([]Category, error)
	CategoryProducts(ctx context.Context, categoryID string, page, limit int) ([]Product, error)
	SearchProducts(ctx context.Context, query string) ([]Product, error)
}

// Service loads catalog data into a Store.
type Service struct {
	api   API
	store *Store
	log   *zap.Logger
}

// NewService wires the catalog service. log may be nil.
func NewService(api API, store *Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: api, store: store, log: log}
}

// LoadProducts fetches the full product list into the store.
func (s *Service) LoadProducts(ctx context.Context) error {
	s.store.begin()
	products, err := s.api.Products(ctx)
	if err != nil {
		s.store.fail(err.Error())
		return fmt.Errorf("loading products: %w", err)
	}
	s.store.setProducts(products)
	return nil
}

// LoadCategories fetches the category list into the store.
func (s *Service) LoadCategories(ctx context.Context) error {
	s.store.begin()
	categories, err := s.api.Categories(ctx)
	if err != nil {
		s.store.fail(err.Error())
		return fmt.Errorf("loading categories: %w", err)
	}
	s.store.setCategories(categories)
	return nil
}

// LoadCategoryProducts fetches one page of a category into the store.
func (s *Service) LoadCategoryProducts(ctx context.Context, categoryID string, page, limit int) error {
	s.store.begin()
	products, err := s.api.CategoryProducts(ctx, categoryID, page, limit)
	if err != nil {
		s.store.fail(err.Error())
		return fmt.Errorf("loading category %s: %w", categoryID, err)
	}
	s.store.setProducts(products)
	return nil
}

// Search replaces the store's products with the search results.
func (s *Service) Search(ctx context.Context, query string) error {
	s.store.begin()
	products, err := s.api.SearchProducts(ctx, query)
	if err != nil {
		s.store.fail(err.Error())
		return fmt.Errorf("searching %q: %w", query, err)
	}
	s.log.Debug("search complete", zap.String("query", query), zap.Int("hits", len(products)))
	s.store.setProducts(products)
	return nil
}
