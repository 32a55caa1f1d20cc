package db

import (
	"time"

	"github.com/google/uuid"
)

// Transaction represents one finance ledger entry. Amounts are integer
// cents; negative means an expense.
type Transaction struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	OccurredOn  time.Time  `json:"occurred_on"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	AmountCents int64      `json:"amount_cents"`
	Currency    string     `json:"currency"`
	ReceiptID   *uuid.UUID `json:"receipt_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Budget represents a monthly spending limit for a category
type Budget struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Category   string    `json:"category"`
	Month      string    `json:"month"` // YYYY-MM
	LimitCents int64     `json:"limit_cents"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Receipt represents a stored receipt extraction result
type Receipt struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Merchant    string    `json:"merchant"`
	PurchasedOn *string   `json:"purchased_on,omitempty"` // YYYY-MM-DD when extracted
	TotalCents  *int64    `json:"total_cents,omitempty"`
	Currency    string    `json:"currency"`
	Confidence  float64   `json:"confidence"`
	NeedsReview bool      `json:"needs_review"`
	RawText     string    `json:"-"` // Don't serialize (large)
	CreatedAt   time.Time `json:"created_at"`
}
