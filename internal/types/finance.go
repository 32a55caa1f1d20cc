package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Amounts are carried in cents to avoid float drift in aggregation.

// CategoryTotal is spend aggregated over one category for the dashboard.
type CategoryTotal struct {
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
	Count       int    `json:"count"`
}

// MonthlyPoint is one point of the income/expense series.
type MonthlyPoint struct {
	Month        string `json:"month"` // YYYY-MM
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
}

// BudgetStatus reports one budget against actual spend in the period.
type BudgetStatus struct {
	Category    string  `json:"category"`
	LimitCents  int64   `json:"limit_cents"`
	SpentCents  int64   `json:"spent_cents"`
	UsedPercent float64 `json:"used_percent"`
	Exceeded    bool    `json:"exceeded"`
}

// AlertLevel grades a finance alert.
type AlertLevel string

// Alert levels.
const (
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// FinanceAlert is a display-only notification derived from budget status.
type FinanceAlert struct {
	Level    AlertLevel `json:"level"`
	Category string     `json:"category"`
	Message  string     `json:"message"`
}

// DashboardData is the read-only view model for the finance dashboard.
// It is computed per request; the client never mutates it.
type DashboardData struct {
	Currency      string          `json:"currency"`
	From          string          `json:"from"` // YYYY-MM-DD
	To            string          `json:"to"`
	IncomeCents   int64           `json:"income_cents"`
	ExpenseCents  int64           `json:"expense_cents"`
	BalanceCents  int64           `json:"balance_cents"`
	ByCategory    []CategoryTotal `json:"by_category"`
	MonthlySeries []MonthlyPoint  `json:"monthly_series"`
	Budgets       []BudgetStatus  `json:"budgets"`
	Alerts        []FinanceAlert  `json:"alerts"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// ReceiptItem is one extracted line item of a receipt.
type ReceiptItem struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity,omitempty"`
	AmountCents int64  `json:"amount_cents"`
}

// ReceiptExtraction is the stored result of running extraction on an
// uploaded receipt. NeedsReview marks low-confidence or incomplete results.
type ReceiptExtraction struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"user_id"`
	Merchant    string        `json:"merchant,omitempty"`
	Date        string        `json:"date,omitempty"` // YYYY-MM-DD
	TotalCents  int64         `json:"total_cents,omitempty"`
	Currency    string        `json:"currency,omitempty"`
	Items       []ReceiptItem `json:"items,omitempty"`
	Confidence  float64       `json:"confidence"`
	NeedsReview bool          `json:"needs_review"`
	RawText     string        `json:"-"`
	CreatedAt   time.Time     `json:"created_at"`
}

// CreateTransactionRequest is the body of POST /api/finance/transactions.
type CreateTransactionRequest struct {
	OccurredOn  string `json:"occurred_on" validate:"required,datetime=2006-01-02"`
	Description string `json:"description" validate:"required,min=1,max=200"`
	Category    string `json:"category" validate:"required,min=1,max=60"`
	AmountCents int64  `json:"amount_cents" validate:"required"`
	Currency    string `json:"currency" validate:"omitempty,len=3,alpha"`
	ReceiptID   string `json:"receipt_id,omitempty" validate:"omitempty,uuid4"`
}

// UpsertBudgetRequest is the body of PUT /api/finance/budgets.
type UpsertBudgetRequest struct {
	Category   string `json:"category" validate:"required,min=1,max=60"`
	Month      string `json:"month" validate:"required,datetime=2006-01"`
	LimitCents int64  `json:"limit_cents" validate:"required,gt=0"`
	Currency   string `json:"currency" validate:"omitempty,len=3,alpha"`
}

// ExtractReceiptRequest is the body of POST /api/finance/receipts.
type ExtractReceiptRequest struct {
	Content string `json:"content" validate:"required,min=1"`
	IsHTML  bool   `json:"is_html,omitempty"`
}

// Validate validates the CreateTransactionRequest.
func (r *CreateTransactionRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the UpsertBudgetRequest.
func (r *UpsertBudgetRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the ExtractReceiptRequest.
func (r *ExtractReceiptRequest) Validate() error {
	return validator.New().Struct(r)
}
