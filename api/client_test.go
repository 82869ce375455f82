package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevenpatino/storefront/transactions"
)

func TestCheckoutSuccess(t *testing.T) {
	var gotBody transactions.CheckoutRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payments/checkout", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"transaction": map[string]any{
				"id":            "tx-1",
				"status":        "PENDING",
				"amountInCents": 2000,
				"currency":      "COP",
				"productId":     "p1",
				"reference":     "ref-1",
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	tx, err := c.Checkout(context.Background(), transactions.CheckoutRequest{
		ProductID:     "p1",
		Email:         "ana@example.com",
		AmountInCents: 2000,
		Installments:  1,
		Card: transactions.CheckoutCard{
			Number:     "4111111111111111",
			CVC:        "123",
			ExpMonth:   "12",
			ExpYear:    "49",
			CardHolder: "Ana Torres",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, transactions.StatusPending, tx.Status)
	assert.Equal(t, "ref-1", tx.Reference)
	assert.Equal(t, "p1", gotBody.ProductID)
	assert.Equal(t, 2000, gotBody.AmountInCents)
}

func TestCheckoutMissingTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	_, err := c.Checkout(context.Background(), transactions.CheckoutRequest{})

	assert.ErrorContains(t, err, "missing transaction")
}

func TestCheckoutServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	_, err := c.Checkout(context.Background(), transactions.CheckoutRequest{})

	require.Error(t, err)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Message)
	assert.Equal(t, "server error, retry later", apiErr.UserMessage())
}

func TestAPIErrorUserMessages(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{500, "server error, retry later"},
		{503, "server error, retry later"},
		{400, "invalid payment data"},
		{404, "service unavailable"},
		{418, "there was a problem processing your request, try again"},
	}

	for _, tt := range tests {
		e := &APIError{StatusCode: tt.status}
		assert.Equal(t, tt.want, e.UserMessage(), "status %d", tt.status)
	}
}

func TestProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"p1","name":"Headphones","price_in_cents":24990000,"currency":"COP","stock":3}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	products, err := c.Products(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, 24990000, products[0].PriceInCents)
}

func TestCategoryProductsQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/categories/cat-1/products", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	products, err := c.CategoryProducts(context.Background(), "cat-1", 2, 10)

	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestSearchProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/search", r.URL.Path)
		assert.Equal(t, "watch", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"p3","name":"Smart Watch","price_in_cents":45990000,"currency":"COP","stock":5}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	products, err := c.SearchProducts(context.Background(), "watch")

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Smart Watch", products[0].Name)
}

func TestTransactionNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"transaction not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	_, err := c.Transaction(context.Background(), "missing")

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "service unavailable", apiErr.UserMessage())
}
