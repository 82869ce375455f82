package transactions

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/stevenpatino/storefront/cart"
)

var (
	// ErrPaymentDeclined is raised when the backend reports DECLINED for an
	// item.
	ErrPaymentDeclined = errors.New("payment declined by the bank")
	// ErrPaymentFailed is raised when the backend reports ERROR for an item.
	ErrPaymentFailed = errors.New("payment processing failed")
	// ErrEmptyCart is raised when checkout is submitted with no items.
	ErrEmptyCart = errors.New("cart is empty")
)

// CheckoutAPI is the backend surface the orchestrator needs.
type CheckoutAPI interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*Transaction, error)
	Transaction(ctx context.Context, id string) (*Transaction, error)
}

// Orchestrator submits one checkout request per cart line item, strictly in
// cart order, one at a time. A DECLINED or ERROR response aborts the loop;
// later items are never attempted and the cart is left intact so the user
// can retry. Only after every item succeeds is the cart cleared.
//
// Each submission is keyed by a token. When the owning screen goes away it
// calls Abandon; an abandoned submission still runs to completion but its
// results are no longer applied to the shared stores.
type Orchestrator struct {
	api   CheckoutAPI
	cart  *cart.Store
	state *Store
	log   *zap.Logger

	tracer    trace.Tracer
	checkouts metric.Int64Counter

	mu     sync.Mutex
	active uuid.UUID
}

// NewOrchestrator wires the orchestrator to its collaborators. log may be
// nil.
func NewOrchestrator(api CheckoutAPI, cartStore *cart.Store, state *Store, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}

	meter := otel.Meter("storefront-checkout")
	checkouts, err := meter.Int64Counter("checkout.items.submitted")
	if err != nil {
		log.Warn("creating checkout counter", zap.Error(err))
	}

	return &Orchestrator{
		api:       api,
		cart:      cartStore,
		state:     state,
		log:       log,
		tracer:    otel.Tracer("storefront-checkout"),
		checkouts: checkouts,
	}
}

// Checkout runs the per-item submission loop with the given email and card.
// On full success it clears the cart and returns the last transaction's
// reference for status-stream subscription. On abort it returns the failure
// and leaves the cart untouched.
func (o *Orchestrator) Checkout(ctx context.Context, email string, card CheckoutCard) (string, error) {
	token := o.begin()
	ctx, span := o.tracer.Start(ctx, "checkout")
	defer span.End()

	items := o.cart.Items()
	if len(items) == 0 {
		o.fail(token, ErrEmptyCart)
		return "", ErrEmptyCart
	}
	span.SetAttributes(
		attribute.Int("cart.items", len(items)),
		attribute.Int("cart.total_in_cents", o.cart.TotalInCents()),
	)

	var reference string
	for _, item := range items {
		tx, err := o.submitItem(ctx, item, email, card)
		if err != nil {
			span.RecordError(err)
			o.fail(token, err)
			return "", err
		}

		// The last-seen reference drives the status stream, even when the
		// response is still PENDING.
		if tx.Reference != "" {
			reference = tx.Reference
		}
		o.record(token, tx)

		switch tx.Status {
		case StatusDeclined:
			span.RecordError(ErrPaymentDeclined)
			o.fail(token, ErrPaymentDeclined)
			return "", ErrPaymentDeclined
		case StatusError:
			span.RecordError(ErrPaymentFailed)
			o.fail(token, ErrPaymentFailed)
			return "", ErrPaymentFailed
		case StatusPending:
			o.log.Info("checkout pending, awaiting confirmation",
				zap.String("product_id", item.ProductID),
				zap.String("reference", tx.Reference))
		}
	}

	// Cart clear and transaction record are two independent mutations; there
	// is no transactional grouping between the stores.
	if o.isActive(token) {
		o.cart.Clear()
	}
	span.SetAttributes(attribute.String("reference", reference))
	o.log.Info("checkout complete", zap.String("reference", reference))
	return reference, nil
}

// FetchTransaction refreshes the current transaction from the backend by id
// or reference and records the result in the state store.
func (o *Orchestrator) FetchTransaction(ctx context.Context, id string) (*Transaction, error) {
	ctx, span := o.tracer.Start(ctx, "checkout.fetch_transaction")
	span.SetAttributes(attribute.String("transaction_id", id))
	defer span.End()

	tx, err := o.api.Transaction(ctx, id)
	if err != nil {
		span.RecordError(err)
		o.state.Fail(err.Error())
		return nil, fmt.Errorf("fetching transaction %s: %w", id, err)
	}

	o.state.Resolve(tx)
	return tx, nil
}

// Abandon drops the submission identified by token. An in-flight request is
// not interrupted, but its result will no longer reach the stores.
func (o *Orchestrator) Abandon(token uuid.UUID) {
	o.mu.Lock()
	abandoned := o.active == token
	if abandoned {
		o.active = uuid.Nil
	}
	o.mu.Unlock()

	if abandoned {
		o.state.Settle()
	}
}

// ActiveToken returns the token of the submission currently in flight, or
// uuid.Nil.
func (o *Orchestrator) ActiveToken() uuid.UUID {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

func (o *Orchestrator) submitItem(ctx context.Context, item cart.Item, email string, card CheckoutCard) (*Transaction, error) {
	ctx, span := o.tracer.Start(ctx, "checkout.item")
	span.SetAttributes(
		attribute.String("product_id", item.ProductID),
		attribute.Int("qty", item.Qty),
	)
	defer span.End()

	req := CheckoutRequest{
		ProductID:     item.ProductID,
		Email:         email,
		AmountInCents: item.Subtotal(),
		Installments:  1,
		Card:          card,
	}

	if o.checkouts != nil {
		o.checkouts.Add(ctx, 1, metric.WithAttributes(attribute.String("product_id", item.ProductID)))
	}

	tx, err := o.api.Checkout(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("checking out %s: %w", item.ProductID, err)
	}
	span.SetAttributes(attribute.String("status", string(tx.Status)))
	return tx, nil
}

// begin registers a new submission as the active one and flips the state
// store to loading.
func (o *Orchestrator) begin() uuid.UUID {
	token := uuid.New()
	o.mu.Lock()
	o.active = token
	o.mu.Unlock()
	o.state.Begin()
	return token
}

func (o *Orchestrator) record(token uuid.UUID, tx *Transaction) {
	if o.isActive(token) {
		o.state.Resolve(tx)
	}
}

func (o *Orchestrator) fail(token uuid.UUID, err error) {
	if o.isActive(token) {
		o.state.Fail(err.Error())
	}
}

func (o *Orchestrator) isActive(token uuid.UUID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active == token
}
