package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmoreno/cv-studio/internal/db"
	"github.com/dmoreno/cv-studio/internal/server/middleware"
	"github.com/dmoreno/cv-studio/internal/types"
)

// LedgerStore is the subset of the database used by the finance handlers.
type LedgerStore interface {
	CreateTransaction(ctx context.Context, tx *db.Transaction) (uuid.UUID, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]db.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error
	UpsertBudget(ctx context.Context, b *db.Budget) (uuid.UUID, error)
	ListBudgets(ctx context.Context, userID uuid.UUID, month string) ([]db.Budget, error)
	DeleteBudget(ctx context.Context, userID, id uuid.UUID) error
	GetReceipt(ctx context.Context, userID, id uuid.UUID) (*db.Receipt, error)
	ListReceipts(ctx context.Context, userID uuid.UUID, limit int) ([]db.Receipt, error)
}

const dateLayout = "2006-01-02"

// dashboardRange resolves the from/to query parameters. Dates are inclusive
// on both ends in the API; the returned end is exclusive for the stores.
// The default window is the last six months.
func dashboardRange(q map[string][]string) (time.Time, time.Time, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, -6, 0)
	to := today.AddDate(0, 0, 1)

	if raw := queryValue(q, "from"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if raw := queryValue(q, "to"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}

func queryValue(q map[string][]string, key string) string {
	if vs := q[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// handleDashboard aggregates the user's ledger into the dashboard view.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	from, to, err := dashboardRange(r.URL.Query())
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD dates")
		return
	}

	currency := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("currency")))
	if currency == "" {
		currency = "EUR"
	}

	data, err := s.finance.Dashboard(r.Context(), userID, from, to, currency)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	s.jsonResponse(w, http.StatusOK, data)
}

// handleListTransactions lists the user's transactions for a date range.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	from, to, err := dashboardRange(r.URL.Query())
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD dates")
		return
	}

	transactions, err := s.ledger.ListTransactions(r.Context(), userID, from, to)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	if transactions == nil {
		transactions = []db.Transaction{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"transactions": transactions})
}

// handleCreateTransaction records one ledger entry. Negative amounts are
// expenses.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	occurredOn, err := time.Parse(dateLayout, req.OccurredOn)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "occurred_on must be a YYYY-MM-DD date")
		return
	}

	tx := &db.Transaction{
		UserID:      userID,
		OccurredOn:  occurredOn,
		Description: req.Description,
		Category:    req.Category,
		AmountCents: req.AmountCents,
		Currency:    strings.ToUpper(req.Currency),
	}
	if tx.Currency == "" {
		tx.Currency = "EUR"
	}
	if req.ReceiptID != "" {
		receiptID, err := uuid.Parse(req.ReceiptID)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "receipt_id must be a UUID")
			return
		}
		tx.ReceiptID = &receiptID
	}

	id, err := s.ledger.CreateTransaction(r.Context(), tx)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// handleDeleteTransaction removes one of the user's transactions.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "id must be a UUID")
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), userID, id); err != nil {
		s.errorResponse(w, http.StatusNotFound, "transaction not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListBudgets lists budgets, optionally narrowed to ?month=YYYY-MM.
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	month := r.URL.Query().Get("month")
	if month != "" {
		if _, err := time.Parse("2006-01", month); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
	}

	budgets, err := s.ledger.ListBudgets(r.Context(), userID, month)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list budgets")
		return
	}
	if budgets == nil {
		budgets = []db.Budget{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"budgets": budgets})
}

// handleUpsertBudget creates or updates the budget for a category and month.
func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.UpsertBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	budget := &db.Budget{
		UserID:     userID,
		Category:   req.Category,
		Month:      req.Month,
		LimitCents: req.LimitCents,
		Currency:   strings.ToUpper(req.Currency),
	}
	if budget.Currency == "" {
		budget.Currency = "EUR"
	}

	id, err := s.ledger.UpsertBudget(r.Context(), budget)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to save budget")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"id": id.String()})
}

// handleDeleteBudget removes one of the user's budgets.
func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "id must be a UUID")
		return
	}

	if err := s.ledger.DeleteBudget(r.Context(), userID, id); err != nil {
		s.errorResponse(w, http.StatusNotFound, "budget not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
