package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevenpatino/storefront/catalog"
	"github.com/stevenpatino/storefront/transactions"
)

func newTestRouter() (*gin.Engine, *memoryRepository) {
	gin.SetMode(gin.TestMode)

	repo := newMemoryRepository()
	h := newHub()
	handler := NewHandler(NewProcessor(repo, h), repo, h)

	router := gin.New()
	router.GET("/health", handler.HealthCheck)
	router.GET("/products", handler.ListProducts)
	router.GET("/products/search", handler.SearchProducts)
	router.GET("/categories", handler.ListCategories)
	router.GET("/categories/:id/products", handler.CategoryProducts)
	router.POST("/payments/checkout", handler.Checkout)
	router.GET("/transactions/:id", handler.GetTransaction)
	return router, repo
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListProducts(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var products []catalog.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.NotEmpty(t, products)
}

func TestSearchProductsFiltersByName(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/search?q=watch", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var products []catalog.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Smart Watch", products[0].Name)
}

func TestCategoryProductsPagination(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories/cat-audio/products?page=1&limit=1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var products []catalog.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Len(t, products, 1)

	// Page beyond the end comes back empty, not 404.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories/cat-audio/products?page=9&limit=10", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Empty(t, products)
}

func TestCheckoutCreatesPendingTransaction(t *testing.T) {
	router, repo := newTestRouter()

	body := `{
		"productId": "prod-headphones",
		"email": "ana@example.com",
		"amountInCents": 24990000,
		"installments": 1,
		"card": {
			"number": "4111111111111111",
			"cvc": "123",
			"exp_month": "12",
			"exp_year": "49",
			"card_holder": "Ana Torres"
		}
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Transaction transactions.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, transactions.StatusPending, resp.Transaction.Status)
	assert.Equal(t, "COP", resp.Transaction.Currency)
	assert.Equal(t, "VISA", resp.Transaction.CardBrand)
	assert.Equal(t, "1111", resp.Transaction.CardLast4)
	assert.True(t, strings.HasPrefix(resp.Transaction.Reference, "ref-"))

	stored, err := repo.GetTransaction(context.Background(), resp.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Transaction.ID, stored.ID)
}

func TestCheckoutRejectsInvalidBody(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/checkout", strings.NewReader(`{"email":"not-json`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutRejectsMissingCard(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/checkout",
		strings.NewReader(`{"productId":"p1","email":"ana@example.com","amountInCents":1000}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTransactionNotFound(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/transactions/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
