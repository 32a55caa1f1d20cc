package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveReceipt stores an extraction result and returns its ID
func (db *DB) SaveReceipt(ctx context.Context, r *Receipt) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO receipts (user_id, merchant, purchased_on, total_cents, currency, confidence, needs_review, raw_text)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		r.UserID, r.Merchant, r.PurchasedOn, r.TotalCents, r.Currency, r.Confidence, r.NeedsReview, r.RawText,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save receipt: %w", err)
	}
	return id, nil
}

// GetReceipt retrieves a receipt owned by the user, or nil when not found
func (db *DB) GetReceipt(ctx context.Context, userID, id uuid.UUID) (*Receipt, error) {
	var r Receipt
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, merchant, purchased_on, total_cents, currency, confidence, needs_review, raw_text, created_at
		 FROM receipts WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&r.ID, &r.UserID, &r.Merchant, &r.PurchasedOn, &r.TotalCents, &r.Currency,
		&r.Confidence, &r.NeedsReview, &r.RawText, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return &r, nil
}

// ListReceipts returns a user's most recent receipts
func (db *DB) ListReceipts(ctx context.Context, userID uuid.UUID, limit int) ([]Receipt, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, merchant, purchased_on, total_cents, currency, confidence, needs_review, raw_text, created_at
		 FROM receipts
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []Receipt
	for rows.Next() {
		var r Receipt
		if err := rows.Scan(&r.ID, &r.UserID, &r.Merchant, &r.PurchasedOn, &r.TotalCents,
			&r.Currency, &r.Confidence, &r.NeedsReview, &r.RawText, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}
	return receipts, nil
}
