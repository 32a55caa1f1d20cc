package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateTransaction inserts a ledger entry and returns its ID
func (db *DB) CreateTransaction(ctx context.Context, tx *Transaction) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO transactions (user_id, occurred_on, description, category, amount_cents, currency, receipt_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		tx.UserID, tx.OccurredOn, tx.Description, tx.Category, tx.AmountCents, tx.Currency, tx.ReceiptID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return id, nil
}

// ListTransactions returns a user's transactions within a date range,
// newest first
func (db *DB) ListTransactions(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Transaction, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, occurred_on, description, category, amount_cents, currency, receipt_id, created_at
		 FROM transactions
		 WHERE user_id = $1 AND occurred_on >= $2 AND occurred_on < $3
		 ORDER BY occurred_on DESC, created_at DESC`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.OccurredOn, &tx.Description, &tx.Category,
			&tx.AmountCents, &tx.Currency, &tx.ReceiptID, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}

// DeleteTransaction removes a ledger entry owned by the user
func (db *DB) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", id)
	}
	return nil
}
