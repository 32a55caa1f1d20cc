package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UpsertBudget creates or updates the limit for a (user, category, month)
func (db *DB) UpsertBudget(ctx context.Context, b *Budget) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO budgets (user_id, category, month, limit_cents, currency)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, category, month)
		 DO UPDATE SET limit_cents = $4, currency = $5, updated_at = NOW()
		 RETURNING id`,
		b.UserID, b.Category, b.Month, b.LimitCents, b.Currency,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert budget: %w", err)
	}
	return id, nil
}

// ListBudgets returns a user's budgets for a month
func (db *DB) ListBudgets(ctx context.Context, userID uuid.UUID, month string) ([]Budget, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, category, month, limit_cents, currency, created_at, updated_at
		 FROM budgets
		 WHERE user_id = $1 AND month = $2
		 ORDER BY category`,
		userID, month,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		var b Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Month, &b.LimitCents,
			&b.Currency, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}

// DeleteBudget removes a budget owned by the user
func (db *DB) DeleteBudget(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM budgets WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("budget not found: %s", id)
	}
	return nil
}
