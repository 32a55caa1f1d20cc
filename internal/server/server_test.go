package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmoreno/cv-studio/internal/chat"
	"github.com/dmoreno/cv-studio/internal/config"
	"github.com/dmoreno/cv-studio/internal/db"
	"github.com/dmoreno/cv-studio/internal/finance"
	"github.com/dmoreno/cv-studio/internal/llm"
	"github.com/dmoreno/cv-studio/internal/observability"
	"github.com/dmoreno/cv-studio/internal/rates"
	"github.com/dmoreno/cv-studio/internal/server/ratelimit"
	"github.com/dmoreno/cv-studio/internal/types"
)

// stubCompletions returns a fixed response or a fixed error.
type stubCompletions struct {
	response string
	err      error
}

func (s *stubCompletions) Complete(_ context.Context, _ []llm.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

// stubLive serves a fixed rates snapshot as the live tier.
type stubLive struct {
	snapshot *types.ExchangeRates
	err      error
}

func (s *stubLive) Latest(_ context.Context, _ []string) (*types.ExchangeRates, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

func testSnapshot() *types.ExchangeRates {
	return &types.ExchangeRates{
		Base: "EUR",
		Date: "2026-08-28",
		Rates: map[string]float64{
			"EUR": 1,
			"USD": 1.10,
			"GBP": 0.84,
		},
		FetchedAt: time.Now().UTC(),
	}
}

// fakeUsers is an in-memory UserStore.
type fakeUsers struct {
	byID    map[uuid.UUID]*db.User
	byEmail map[string]*db.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:    make(map[uuid.UUID]*db.User),
		byEmail: make(map[string]*db.User),
	}
}

func (f *fakeUsers) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	user := &db.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	f.byID[user.ID] = user
	f.byEmail[email] = user
	return user.ID, nil
}

func (f *fakeUsers) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	return f.byID[id], nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUsers) CheckEmailExists(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	user, ok := f.byID[userID]
	if !ok {
		return fmt.Errorf("no such user")
	}
	user.PasswordHash = passwordHash
	return nil
}

// fakeLedger is an in-memory LedgerStore that also serves the dashboard.
type fakeLedger struct {
	transactions []db.Transaction
	budgets      []db.Budget
	receipts     []db.Receipt
}

func (f *fakeLedger) CreateTransaction(_ context.Context, tx *db.Transaction) (uuid.UUID, error) {
	stored := *tx
	stored.ID = uuid.New()
	f.transactions = append(f.transactions, stored)
	return stored.ID, nil
}

func (f *fakeLedger) ListTransactions(_ context.Context, userID uuid.UUID, from, to time.Time) ([]db.Transaction, error) {
	var out []db.Transaction
	for _, tx := range f.transactions {
		if tx.UserID == userID && !tx.OccurredOn.Before(from) && tx.OccurredOn.Before(to) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeLedger) DeleteTransaction(_ context.Context, userID, id uuid.UUID) error {
	for i, tx := range f.transactions {
		if tx.ID == id && tx.UserID == userID {
			f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction not found")
}

func (f *fakeLedger) UpsertBudget(_ context.Context, b *db.Budget) (uuid.UUID, error) {
	for i, existing := range f.budgets {
		if existing.UserID == b.UserID && existing.Category == b.Category && existing.Month == b.Month {
			f.budgets[i].LimitCents = b.LimitCents
			return existing.ID, nil
		}
	}
	stored := *b
	stored.ID = uuid.New()
	f.budgets = append(f.budgets, stored)
	return stored.ID, nil
}

func (f *fakeLedger) ListBudgets(_ context.Context, userID uuid.UUID, month string) ([]db.Budget, error) {
	var out []db.Budget
	for _, b := range f.budgets {
		if b.UserID == userID && (month == "" || b.Month == month) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeLedger) DeleteBudget(_ context.Context, userID, id uuid.UUID) error {
	for i, b := range f.budgets {
		if b.ID == id && b.UserID == userID {
			f.budgets = append(f.budgets[:i], f.budgets[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("budget not found")
}

func (f *fakeLedger) GetReceipt(_ context.Context, userID, id uuid.UUID) (*db.Receipt, error) {
	for i := range f.receipts {
		if f.receipts[i].ID == id && f.receipts[i].UserID == userID {
			return &f.receipts[i], nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) ListReceipts(_ context.Context, userID uuid.UUID, _ int) ([]db.Receipt, error) {
	var out []db.Receipt
	for _, r := range f.receipts {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLedger) SaveReceipt(_ context.Context, r *db.Receipt) (uuid.UUID, error) {
	stored := *r
	stored.ID = uuid.New()
	f.receipts = append(f.receipts, stored)
	return stored.ID, nil
}

// testServerOptions tweaks the fixture per test.
type testServerOptions struct {
	completions     finance.CompletionClient
	live            rates.LiveClient
	rateLimitConfig *ratelimit.Config
}

// newTestServer assembles a Server over in-memory fakes. It returns the
// ledger and user store so tests can seed and inspect state.
func newTestServer(t *testing.T, opts testServerOptions) (*Server, *fakeLedger, *fakeUsers) {
	t.Helper()

	logger := observability.NopLogger()

	if opts.completions == nil {
		opts.completions = &stubCompletions{response: `{"type":"message","message":"hola"}`}
	}
	if opts.live == nil {
		opts.live = &stubLive{snapshot: testSnapshot()}
	}
	if opts.rateLimitConfig == nil {
		opts.rateLimitConfig = &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  10000,
			DefaultWindow: time.Minute,
		}
	}

	ledger := &fakeLedger{}
	users := newFakeUsers()

	ratesService := rates.NewService(opts.live, nil, nil, logger)
	userService := NewUserService(users, &config.PasswordConfig{BcryptCost: 10})
	jwtService := NewJWTService(&config.JWTConfig{
		Secret:          "test-secret",
		Issuer:          "cv-studio",
		ExpirationHours: 1,
	})

	s := &Server{
		logger:         logger,
		ledger:         ledger,
		rateLimiter:    ratelimit.NewLimiter(opts.rateLimitConfig),
		chat:           chat.NewService(opts.completions, chat.NewStore(30*time.Minute), logger),
		rates:          ratesService,
		finance:        finance.NewService(ledger, ratesService, logger),
		extractor:      finance.NewExtractor(opts.completions, ledger, logger),
		jwtService:     jwtService,
		userService:    userService,
		authHandler:    NewAuthHandler(userService, jwtService),
		allowedOrigins: []string{"*"},
	}
	t.Cleanup(s.rateLimiter.Stop)

	return s, ledger, users
}

// handler composes the middleware chain the way New does.
func (s *Server) handler() http.Handler {
	return s.withRateLimit(s.withLogging(s.withCORS(s.routes())))
}

// authToken registers a user and returns a valid bearer token plus the ID.
func authToken(t *testing.T, s *Server) (string, uuid.UUID) {
	t.Helper()

	user, err := s.userService.Register(context.Background(), &types.RegisterRequest{
		Name:     "Diana",
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()),
		Password: "un-buen-secreto",
	})
	require.NoError(t, err)

	token, err := s.jwtService.GenerateToken(user.ID)
	require.NoError(t, err)
	return token, user.ID
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{})

	w := doJSON(t, s.handler(), http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCORS_Preflight(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{})

	req := httptest.NewRequest(http.MethodOptions, "/api/cv/chat", nil)
	req.Header.Set("Origin", "https://cv-studio.app")
	w := httptest.NewRecorder()
	s.handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{})
	s.allowedOrigins = []string{"https://cv-studio.app"}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	s.handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit_ChatThrottleMessage(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{
		rateLimitConfig: &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  10000,
			DefaultWindow: time.Minute,
			EndpointConfigs: []ratelimit.EndpointConfig{
				{Path: "/api/cv/chat", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
			},
		},
	})
	h := s.handler()

	first := doJSON(t, h, http.MethodPost, "/api/cv/chat", "", `{"message":"hola"}`)
	require.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, h, http.MethodPost, "/api/cv/chat", "", `{"message":"hola"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "demasiados mensajes")
}

func TestRateLimit_Headers(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{
		rateLimitConfig: &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  5,
			DefaultWindow: time.Minute,
		},
	})

	w := doJSON(t, s.handler(), http.MethodGet, "/api/rates", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
}

func TestAuthRequired(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{})
	h := s.handler()

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/finance/dashboard"},
		{http.MethodGet, "/api/finance/transactions"},
		{http.MethodPost, "/api/finance/receipts"},
		{http.MethodGet, "/api/users/me"},
	} {
		w := doJSON(t, h, route.method, route.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}
