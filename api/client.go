// Package api is the REST client for the storefront backend.
package api

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/stevenpatino/storefront/catalog"
	"github.com/stevenpatino/storefront/transactions"
)

// DefaultTimeout bounds every request unless overridden.
const DefaultTimeout = 10 * time.Second

// Client talks to the storefront backend. It satisfies
// transactions.CheckoutAPI and catalog.API.
type Client struct {
	http   *resty.Client
	log    *zap.Logger
	tracer trace.Tracer
}

// New builds a client for the given base URL. A zero timeout means
// DefaultTimeout. log may be nil.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:   r,
		log:    log,
		tracer: otel.Tracer("storefront-api"),
	}
}

// Products fetches the whole product catalog.
func (c *Client) Products(ctx context.Context) ([]catalog.Product, error) {
	ctx, span := c.tracer.Start(ctx, "api.products")
	defer span.End()

	var out []catalog.Product
	if err := c.get(ctx, "/products", nil, &out); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetching products: %w", err)
	}
	return out, nil
}

// Categories fetches all product categories.
func (c *Client) Categories(ctx context.Context) ([]catalog.Category, error) {
	ctx, span := c.tracer.Start(ctx, "api.categories")
	defer span.End()

	var out []catalog.Category
	if err := c.get(ctx, "/categories", nil, &out); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetching categories: %w", err)
	}
	return out, nil
}

// CategoryProducts fetches one page of a category's products.
func (c *Client) CategoryProducts(ctx context.Context, categoryID string, page, limit int) ([]catalog.Product, error) {
	ctx, span := c.tracer.Start(ctx, "api.category_products")
	span.SetAttributes(
		attribute.String("category_id", categoryID),
		attribute.Int("page", page),
	)
	defer span.End()

	params := map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}
	var out []catalog.Product
	if err := c.get(ctx, "/categories/"+categoryID+"/products", params, &out); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetching category products: %w", err)
	}
	return out, nil
}

// SearchProducts searches the catalog by free text.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]catalog.Product, error) {
	ctx, span := c.tracer.Start(ctx, "api.search_products")
	defer span.End()

	var out []catalog.Product
	if err := c.get(ctx, "/products/search", map[string]string{"q": query}, &out); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("searching products: %w", err)
	}
	return out, nil
}

// checkoutResponse is the envelope of POST /payments/checkout.
type checkoutResponse struct {
	Transaction *transactions.Transaction `json:"transaction"`
}

// Checkout submits one checkout request and returns the transaction the
// backend created for it.
func (c *Client) Checkout(ctx context.Context, req transactions.CheckoutRequest) (*transactions.Transaction, error) {
	ctx, span := c.tracer.Start(ctx, "api.checkout")
	span.SetAttributes(
		attribute.String("product_id", req.ProductID),
		attribute.Int("amount_in_cents", req.AmountInCents),
	)
	defer span.End()

	var out checkoutResponse
	var apiErr errorBody
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post("/payments/checkout")
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("submitting checkout: %w", err)
	}
	if resp.IsError() {
		err := &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
		span.RecordError(err)
		c.log.Warn("checkout rejected by backend",
			zap.Int("status", resp.StatusCode()),
			zap.String("product_id", req.ProductID))
		return nil, err
	}
	if out.Transaction == nil {
		return nil, fmt.Errorf("checkout response missing transaction")
	}

	span.SetAttributes(attribute.String("transaction_id", out.Transaction.ID))
	return out.Transaction, nil
}

// Transaction fetches the latest known state of a transaction.
func (c *Client) Transaction(ctx context.Context, id string) (*transactions.Transaction, error) {
	ctx, span := c.tracer.Start(ctx, "api.transaction")
	span.SetAttributes(attribute.String("transaction_id", id))
	defer span.End()

	var out transactions.Transaction
	if err := c.get(ctx, "/transactions/"+id, nil, &out); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetching transaction: %w", err)
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out any) error {
	var apiErr errorBody
	req := c.http.R().
		SetContext(ctx).
		SetResult(out).
		SetError(&apiErr)
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}
	return nil
}
