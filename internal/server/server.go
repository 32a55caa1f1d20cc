// Package server provides the HTTP API for the CV studio.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dmoreno/cv-studio/internal/chat"
	"github.com/dmoreno/cv-studio/internal/config"
	"github.com/dmoreno/cv-studio/internal/db"
	"github.com/dmoreno/cv-studio/internal/finance"
	"github.com/dmoreno/cv-studio/internal/llm"
	"github.com/dmoreno/cv-studio/internal/rates"
	"github.com/dmoreno/cv-studio/internal/server/middleware"
	"github.com/dmoreno/cv-studio/internal/server/ratelimit"
	"github.com/redis/go-redis/v9"
)

// Server holds the HTTP server and the services behind the routes.
type Server struct {
	httpServer  *http.Server
	logger      *zap.Logger
	db          *db.DB
	ledger      LedgerStore
	rateLimiter *ratelimit.Limiter

	chat      *chat.Service
	rates     *rates.Service
	finance   *finance.Service
	extractor *finance.Extractor

	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler

	allowedOrigins []string
}

// New wires every service from the configuration and builds the router.
// Postgres and Redis are optional tiers: without DATABASE_URL the auth and
// finance routes are not registered, without REDIS_URL the rates cache is
// skipped.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		logger:         logger,
		allowedOrigins: cfg.AllowedOrigins,
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.db = database
		s.ledger = database
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	completions := buildCompletionChain(ctx, cfg, logger)
	s.chat = chat.NewService(completions, chat.NewStore(cfg.ChatSessionTTL), logger)

	var cache rates.CacheStore
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		cache = rates.NewCache(redis.NewClient(opts), cfg.RatesCacheTTL)
	}
	var mirror rates.MirrorStore
	if s.db != nil {
		mirror = ratesMirror{db: s.db}
	}
	s.rates = rates.NewService(rates.NewClient(), cache, mirror, logger)

	if s.db != nil {
		s.finance = finance.NewService(s.db, s.rates, logger)
		s.extractor = finance.NewExtractor(completions, s.db, logger)

		passwordConfig, err := config.NewPasswordConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create password config: %w", err)
		}
		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		s.userService = NewUserService(s.db, passwordConfig)
		s.jwtService = NewJWTService(jwtConfig)
		s.authHandler = NewAuthHandler(s.userService, s.jwtService)
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Chat turns wait on the provider chain
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// buildCompletionChain assembles the provider fallback chain in priority
// order. With no keys configured the chain is empty and every completion
// fails over to the degraded chat message.
func buildCompletionChain(ctx context.Context, cfg *config.Config, logger *zap.Logger) *llm.Chain {
	var providers []llm.Provider
	if cfg.GroqAPIKey != "" {
		providers = append(providers, llm.NewGroq(cfg.GroqAPIKey, ""))
	}
	if cfg.OpenRouterAPIKey != "" {
		providers = append(providers, llm.NewOpenRouter(cfg.OpenRouterAPIKey, ""))
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, "")
		if err != nil {
			logger.Warn("gemini provider unavailable", zap.Error(err))
		} else {
			providers = append(providers, gemini)
		}
	}
	if len(providers) == 0 {
		logger.Warn("no completion providers configured, chat and receipt extraction will be degraded")
	}
	return llm.NewChain(logger, providers...)
}

// routes builds the mux. Chat, export, QR and rates are public. Finance and
// account routes require a Bearer token and are only registered when a
// database is connected.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/cv/chat", s.handleChat)
	mux.HandleFunc("POST /api/cv/chat/apply", s.handleChatApply)
	mux.HandleFunc("POST /api/cv/export", s.handleExport)

	mux.HandleFunc("POST /api/qr/{format}", s.handleQR)

	mux.HandleFunc("GET /api/rates", s.handleRates)
	mux.HandleFunc("GET /api/rates/convert", s.handleConvert)

	if s.authHandler != nil {
		auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

		mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
		mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
		mux.Handle("PUT /api/auth/password", auth(http.HandlerFunc(s.handleUpdatePassword)))
		mux.Handle("GET /api/users/me", auth(http.HandlerFunc(s.handleMe)))

		mux.Handle("GET /api/finance/dashboard", auth(http.HandlerFunc(s.handleDashboard)))
		mux.Handle("GET /api/finance/transactions", auth(http.HandlerFunc(s.handleListTransactions)))
		mux.Handle("POST /api/finance/transactions", auth(http.HandlerFunc(s.handleCreateTransaction)))
		mux.Handle("DELETE /api/finance/transactions/{id}", auth(http.HandlerFunc(s.handleDeleteTransaction)))
		mux.Handle("GET /api/finance/budgets", auth(http.HandlerFunc(s.handleListBudgets)))
		mux.Handle("PUT /api/finance/budgets", auth(http.HandlerFunc(s.handleUpsertBudget)))
		mux.Handle("DELETE /api/finance/budgets/{id}", auth(http.HandlerFunc(s.handleDeleteBudget)))
		mux.Handle("POST /api/finance/receipts", auth(http.HandlerFunc(s.handleExtractReceipt)))
		mux.Handle("GET /api/finance/receipts", auth(http.HandlerFunc(s.handleListReceipts)))
		mux.Handle("GET /api/finance/receipts/{id}", auth(http.HandlerFunc(s.handleGetReceipt)))
	}

	return mux
}

// Start begins listening and blocks until an interrupt, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.db != nil {
		s.db.Close()
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS answers preflight requests and sets the CORS headers for the
// configured origins. "*" allows everything.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed := s.corsOrigin(origin); allowed != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) corsOrigin(origin string) string {
	for _, o := range s.allowedOrigins {
		if o == "*" {
			return "*"
		}
		if o == origin {
			return origin
		}
	}
	return ""
}

// withRateLimit enforces the per-client token buckets and always reports
// the limit headers.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging logs one line per request with the elapsed time.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID identifies the client by IP address. X-Forwarded-For is
// deliberately ignored until the server sits behind a trusted proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes the 429. Chat requests get the chat-bubble shape
// so the client renders the throttle message in the conversation.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	if r.URL.Path == "/api/cv/chat" || r.URL.Path == "/api/cv/chat/apply" {
		s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
			"success": false,
			"message": "Has enviado demasiados mensajes seguidos. Espera un momento antes de continuar.",
		})
		return
	}

	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	})
}
