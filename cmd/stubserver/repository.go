package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stevenpatino/storefront/transactions"
)

var errNotFound = errors.New("transaction not found")

// Repository stores the stub's transactions. Lookups accept either the
// transaction id or its reference, since the event stream is opened with
// whichever the client last saw.
type Repository interface {
	CreateTransaction(ctx context.Context, tx *transactions.Transaction) error
	GetTransaction(ctx context.Context, idOrRef string) (*transactions.Transaction, error)
	UpdateStatus(ctx context.Context, id string, status transactions.Status, errorMessage string) error
}

// memoryRepository keeps transactions in a map, the default for local runs
// and tests.
type memoryRepository struct {
	mu  sync.Mutex
	txs map[string]*transactions.Transaction
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{txs: make(map[string]*transactions.Transaction)}
}

func (r *memoryRepository) CreateTransaction(_ context.Context, tx *transactions.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *tx
	r.txs[tx.ID] = &cp
	return nil
}

func (r *memoryRepository) GetTransaction(_ context.Context, idOrRef string) (*transactions.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx, ok := r.txs[idOrRef]; ok {
		cp := *tx
		return &cp, nil
	}
	for _, tx := range r.txs {
		if tx.Reference == idOrRef {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id string, status transactions.Status, errorMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return errNotFound
	}
	tx.Status = status
	tx.ErrorMessage = errorMessage
	tx.UpdatedAt = time.Now().UTC()
	return nil
}

const transactionsSchema = `
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	amount_in_cents BIGINT NOT NULL,
	currency TEXT NOT NULL,
	product_id TEXT NOT NULL,
	reference TEXT NOT NULL UNIQUE,
	card_brand TEXT,
	card_last4 TEXT,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// postgresRepository persists transactions in PostgreSQL so the stub
// survives restarts. Selected with DATABASE_URL.
type postgresRepository struct {
	db *pgxpool.Pool
}

func newPostgresRepository(ctx context.Context, db *pgxpool.Pool) (*postgresRepository, error) {
	if _, err := db.Exec(ctx, transactionsSchema); err != nil {
		return nil, err
	}
	return &postgresRepository{db: db}, nil
}

func (r *postgresRepository) CreateTransaction(ctx context.Context, tx *transactions.Transaction) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO transactions (id, status, amount_in_cents, currency, product_id, reference,
			card_brand, card_last4, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, tx.ID, tx.Status, tx.AmountInCents, tx.Currency, tx.ProductID, tx.Reference,
		tx.CardBrand, tx.CardLast4, tx.ErrorMessage, tx.CreatedAt, tx.UpdatedAt)
	return err
}

func (r *postgresRepository) GetTransaction(ctx context.Context, idOrRef string) (*transactions.Transaction, error) {
	var tx transactions.Transaction
	err := r.db.QueryRow(ctx, `
		SELECT id, status, amount_in_cents, currency, product_id, reference,
			COALESCE(card_brand, ''), COALESCE(card_last4, ''), COALESCE(error_message, ''),
			created_at, updated_at
		FROM transactions WHERE id = $1 OR reference = $1
	`, idOrRef).Scan(&tx.ID, &tx.Status, &tx.AmountInCents, &tx.Currency, &tx.ProductID,
		&tx.Reference, &tx.CardBrand, &tx.CardLast4, &tx.ErrorMessage, &tx.CreatedAt, &tx.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id string, status transactions.Status, errorMessage string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE transactions
		SET status = $1, error_message = NULLIF($2, ''), updated_at = NOW()
		WHERE id = $3
	`, status, errorMessage, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}
