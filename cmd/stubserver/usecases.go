package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stevenpatino/storefront/payment"
	"github.com/stevenpatino/storefront/transactions"
)

// declinedSuffix marks test cards that are declined, mirroring the usual
// acquirer test numbers (e.g. 4000000000000002).
const declinedSuffix = "0002"

// settleDelay is how long a transaction stays PENDING before settling.
const settleDelay = 2 * time.Second

// statusChange is pushed to stream subscribers when a transaction settles.
type statusChange struct {
	Status      transactions.Status
	Transaction *transactions.Transaction
}

// hub fans out status changes to the event-stream subscribers of each
// transaction.
type hub struct {
	mu   sync.Mutex
	subs map[string][]chan statusChange
}

func newHub() *hub {
	return &hub{subs: make(map[string][]chan statusChange)}
}

// subscribe registers a listener for the transaction id and returns the
// channel plus an unsubscribe func.
func (h *hub) subscribe(txID string) (<-chan statusChange, func()) {
	ch := make(chan statusChange, 4)

	h.mu.Lock()
	h.subs[txID] = append(h.subs[txID], ch)
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs := h.subs[txID]
		for i, c := range subs {
			if c == ch {
				h.subs[txID] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
}

func (h *hub) publish(txID string, change statusChange) {
	h.mu.Lock()
	subs := append([]chan statusChange(nil), h.subs[txID]...)
	h.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- change:
		default:
			// Slow subscriber; it will catch up via heartbeats.
		}
	}
}

// Processor creates transactions for checkout requests and settles them
// asynchronously after a short delay.
type Processor struct {
	repo Repository
	hub  *hub
}

func NewProcessor(repo Repository, h *hub) *Processor {
	return &Processor{repo: repo, hub: h}
}

// CreateTransaction records a new PENDING transaction for the request and
// schedules its settlement.
func (p *Processor) CreateTransaction(ctx context.Context, req checkoutRequest) (*transactions.Transaction, error) {
	now := time.Now().UTC()
	id := uuid.New().String()

	tx := &transactions.Transaction{
		ID:            id,
		Status:        transactions.StatusPending,
		AmountInCents: req.AmountInCents,
		Currency:      "COP",
		ProductID:     req.ProductID,
		Reference:     fmt.Sprintf("ref-%s", id[:8]),
		CreatedAt:     now,
		UpdatedAt:     now,
		CardBrand:     string(payment.DetectBrand(req.Card.Number)),
	}
	if n := req.Card.Number; len(n) >= 4 {
		tx.CardLast4 = n[len(n)-4:]
	}

	if err := p.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	go p.settle(tx.ID, req.Card.Number)

	log.Printf("💳 Transaction created: %s (%s)", tx.ID, tx.Reference)
	return tx, nil
}

// settle flips the transaction to its final status after settleDelay and
// notifies the stream subscribers.
func (p *Processor) settle(txID, cardNumber string) {
	time.Sleep(settleDelay)

	status := transactions.StatusApproved
	errorMessage := ""
	if strings.HasSuffix(cardNumber, declinedSuffix) {
		status = transactions.StatusDeclined
		errorMessage = "card declined by issuer"
	}

	ctx, cancelCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelCtx()

	if err := p.repo.UpdateStatus(ctx, txID, status, errorMessage); err != nil {
		log.Printf("❌ Failed to settle transaction %s: %v", txID, err)
		return
	}

	tx, err := p.repo.GetTransaction(ctx, txID)
	if err != nil {
		log.Printf("❌ Failed to reload transaction %s: %v", txID, err)
		return
	}

	p.hub.publish(txID, statusChange{Status: status, Transaction: tx})
	log.Printf("✅ Transaction settled: %s -> %s", txID, status)
}
