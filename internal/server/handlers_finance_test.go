package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmoreno/cv-studio/internal/db"
	"github.com/dmoreno/cv-studio/internal/types"
)

func seedTransaction(t *testing.T, ledger *fakeLedger, userID uuid.UUID, day, category string, cents int64) {
	t.Helper()
	occurredOn, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	_, err = ledger.CreateTransaction(context.Background(), &db.Transaction{
		UserID:      userID,
		OccurredOn:  occurredOn,
		Description: category,
		Category:    category,
		AmountCents: cents,
		Currency:    "EUR",
	})
	require.NoError(t, err)
}

func TestDashboard(t *testing.T) {
	s, ledger, _ := newTestServer(t, testServerOptions{})
	token, userID := authToken(t, s)

	seedTransaction(t, ledger, userID, "2026-08-03", "nomina", 250000)
	seedTransaction(t, ledger, userID, "2026-08-10", "comida", -45000)
	seedTransaction(t, ledger, userID, "2026-08-15", "transporte", -12000)

	w := doJSON(t, s.handler(), http.MethodGet,
		"/api/finance/dashboard?from=2026-08-01&to=2026-08-31", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var data types.DashboardData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Equal(t, int64(250000), data.IncomeCents)
	assert.Equal(t, int64(57000), data.ExpenseCents)
	assert.Equal(t, int64(193000), data.BalanceCents)
	require.Len(t, data.ByCategory, 2)
	assert.Equal(t, "comida", data.ByCategory[0].Category)
}

func TestDashboard_BadDates(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{})
	token, _ := authToken(t, s)

	w := doJSON(t, s.handler(), http.MethodGet,
		"/api/finance/dashboard?from=agosto&to=2026-08-31", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactions_CreateListDelete(t *testing.T) {
	s, ledger, _ := newTestServer(t, testServerOptions{})
	token, userID := authToken(t, s)
	h := s.handler()

	createW := doJSON(t, h, http.MethodPost, "/api/finance/transactions", token,
		`{"occurred_on":"2026-08-20","description":"Cena","category":"comida","amount_cents":-3200}`)
	require.Equal(t, http.StatusCreated, createW.Code)

	var created map[string]string
	require.NoError(t, json.Unmarshal(createW.Body.Bytes(), &created))
	require.NotEmpty(t, created["id"])

	require.Len(t, ledger.transactions, 1)
	assert.Equal(t, userID, ledger.transactions[0].UserID)
	assert.Equal(t, "EUR", ledger.transactions[0].Currency, "currency defaults to EUR")

	listW := doJSON(t, h, http.MethodGet,
		"/api/finance/transactions?from=2026-08-01&to=2026-08-31", token, "")
	require.Equal(t, http.StatusOK, listW.Code)

	var listed struct {
		Transactions []db.Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(listW.Body.Bytes(), &listed))
	require.Len(t, listed.Transactions, 1)
	assert.Equal(t, int64(-3200), listed.Transactions[0].AmountCents)

	deleteW := doJSON(t, h, http.MethodDelete,
		"/api/finance/transactions/"+created["id"], token, "")
	assert.Equal(t, http.StatusNoContent, deleteW.Code)
	assert.Empty(t, ledger.transactions)
}

func TestTransactions_ValidationFailure(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{})
	token, _ := authToken(t, s)

	w := doJSON(t, s.handler(), http.MethodPost, "/api/finance/transactions", token,
		`{"occurred_on":"el martes","description":"Cena","category":"comida","amount_cents":-3200}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBudgets_UpsertIsIdempotent(t *testing.T) {
	s, ledger, _ := newTestServer(t, testServerOptions{})
	token, _ := authToken(t, s)
	h := s.handler()

	firstW := doJSON(t, h, http.MethodPut, "/api/finance/budgets", token,
		`{"category":"comida","month":"2026-08","limit_cents":50000}`)
	require.Equal(t, http.StatusOK, firstW.Code)

	secondW := doJSON(t, h, http.MethodPut, "/api/finance/budgets", token,
		`{"category":"comida","month":"2026-08","limit_cents":60000}`)
	require.Equal(t, http.StatusOK, secondW.Code)

	var first, second map[string]string
	require.NoError(t, json.Unmarshal(firstW.Body.Bytes(), &first))
	require.NoError(t, json.Unmarshal(secondW.Body.Bytes(), &second))
	assert.Equal(t, first["id"], second["id"], "same category+month keeps its ID")

	require.Len(t, ledger.budgets, 1)
	assert.Equal(t, int64(60000), ledger.budgets[0].LimitCents)
}

func TestReceipts_Extract(t *testing.T) {
	s, ledger, _ := newTestServer(t, testServerOptions{
		completions: &stubCompletions{
			response: `{"merchant":"Mercadona","date":"2026-08-20","total_cents":4550,"currency":"eur","confidence":0.92}`,
		},
	})
	token, userID := authToken(t, s)

	w := doJSON(t, s.handler(), http.MethodPost, "/api/finance/receipts", token,
		`{"content":"MERCADONA\nTOTAL 45,50"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var extraction types.ReceiptExtraction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &extraction))
	assert.Equal(t, "Mercadona", extraction.Merchant)
	assert.Equal(t, int64(4550), extraction.TotalCents)
	assert.Equal(t, "EUR", extraction.Currency)
	assert.False(t, extraction.NeedsReview)

	require.Len(t, ledger.receipts, 1)
	assert.Equal(t, userID, ledger.receipts[0].UserID)
}

func TestReceipts_UnparseableModelOutput(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{
		completions: &stubCompletions{response: "esto no es JSON"},
	})
	token, _ := authToken(t, s)

	w := doJSON(t, s.handler(), http.MethodPost, "/api/finance/receipts", token,
		`{"content":"un ticket"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestReceipts_GetScopedToUser(t *testing.T) {
	s, ledger, _ := newTestServer(t, testServerOptions{})
	token, _ := authToken(t, s)

	otherUser := uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	id, err := ledger.SaveReceipt(context.Background(), &db.Receipt{
		UserID:   otherUser,
		Merchant: "Ajena",
	})
	require.NoError(t, err)

	w := doJSON(t, s.handler(), http.MethodGet, "/api/finance/receipts/"+id.String(), token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
