package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Products(ctx context.Context) ([]Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Product), args.Error(1)
}

func (m *MockAPI) Categories(ctx context.Context) ([]Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Category), args.Error(1)
}

func (m *MockAPI) CategoryProducts(ctx context.Context, categoryID string, page, limit int) ([]Product, error) {
	args := m.Called(ctx, categoryID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Product), args.Error(1)
}

func (m *MockAPI) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Product), args.Error(1)
}

func TestLoadProducts(t *testing.T) {
	api := new(MockAPI)
	store := NewStore()
	svc := NewService(api, store, nil)

	products := []Product{{ID: "p1", Name: "Headphones", PriceInCents: 24990000}}
	api.On("Products", mock.Anything).Return(products, nil)

	err := svc.LoadProducts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, products, store.Products())
	assert.False(t, store.Loading())
	assert.Empty(t, store.Err())
	api.AssertExpectations(t)
}

func TestLoadProductsFailureSetsError(t *testing.T) {
	api := new(MockAPI)
	store := NewStore()
	svc := NewService(api, store, nil)

	api.On("Products", mock.Anything).Return(nil, errors.New("connection refused"))

	err := svc.LoadProducts(context.Background())

	require.Error(t, err)
	assert.False(t, store.Loading())
	assert.Equal(t, "connection refused", store.Err())
	assert.Empty(t, store.Products())
}

func TestLoadCategories(t *testing.T) {
	api := new(MockAPI)
	store := NewStore()
	svc := NewService(api, store, nil)

	categories := []Category{{ID: "c1", Name: "Audio"}}
	api.On("Categories", mock.Anything).Return(categories, nil)

	err := svc.LoadCategories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, categories, store.Categories())
}

func TestLoadCategoryProducts(t *testing.T) {
	api := new(MockAPI)
	store := NewStore()
	svc := NewService(api, store, nil)

	products := []Product{{ID: "p2", CategoryID: "c1"}}
	api.On("CategoryProducts", mock.Anything, "c1", 1, 20).Return(products, nil)

	err := svc.LoadCategoryProducts(context.Background(), "c1", 1, 20)

	require.NoError(t, err)
	assert.Equal(t, products, store.Products())
	api.AssertExpectations(t)
}

func TestSearchReplacesProducts(t *testing.T) {
	api := new(MockAPI)
	store := NewStore()
	svc := NewService(api, store, nil)

	api.On("Products", mock.Anything).Return([]Product{{ID: "p1"}, {ID: "p2"}}, nil)
	require.NoError(t, svc.LoadProducts(context.Background()))

	api.On("SearchProducts", mock.Anything, "watch").Return([]Product{{ID: "p2"}}, nil)
	require.NoError(t, svc.Search(context.Background(), "watch"))

	got := store.Products()
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)
}

func TestNewLoadClearsPreviousError(t *testing.T) {
	api := new(MockAPI)
	store := NewStore()
	svc := NewService(api, store, nil)

	api.On("Products", mock.Anything).Return(nil, errors.New("boom")).Once()
	require.Error(t, svc.LoadProducts(context.Background()))
	require.NotEmpty(t, store.Err())

	api.On("Products", mock.Anything).Return([]Product{{ID: "p1"}}, nil).Once()
	require.NoError(t, svc.LoadProducts(context.Background()))
	assert.Empty(t, store.Err())
}
