package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"moneyrec/internal/ledger"
	applog "moneyrec/internal/log"
	"moneyrec/internal/services"
)

// Server is the JSON API surface over the ledger services.
type Server struct {
	http.Server

	accounts     *services.AccountService
	categories   *services.CategoryService
	transactions *services.TransactionService
	transfers    *services.TransferService
	budgets      *services.BudgetService
	balances     *services.BalanceService
	overview     *services.OverviewService
	reports      *services.ReportService

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer wires services over the store and configures routes,
// returning a ready-to-run server. writeLimit caps non-GET requests
// per client per minute.
func NewServer(addr string, store ledger.Store, publisher services.ChangePublisher, logger *applog.Logger, writeLimit int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		accounts:     services.NewAccountService(store, publisher),
		categories:   services.NewCategoryService(store, publisher),
		transactions: services.NewTransactionService(store, publisher),
		transfers:    services.NewTransferService(store, publisher),
		budgets:      services.NewBudgetService(store),
		balances:     services.NewBalanceService(store),
		overview:     services.NewOverviewService(store),
		reports:      services.NewReportService(store),
		rateLimiter:  newRateLimiter(writeLimit, time.Minute),
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/overview", s.wrap(s.handleOverview))

	mux.HandleFunc("GET /api/accounts", s.wrap(s.handleListAccounts))
	mux.HandleFunc("POST /api/accounts", s.wrap(s.handleSaveAccount))
	mux.HandleFunc("GET /api/accounts/balances", s.wrap(s.handleAccountBalances))
	mux.HandleFunc("GET /api/accounts/{id}", s.wrap(s.handleGetAccount))
	mux.HandleFunc("PUT /api/accounts/{id}", s.wrap(s.handleSaveAccount))
	mux.HandleFunc("DELETE /api/accounts/{id}", s.wrap(s.handleDeleteAccount))

	mux.HandleFunc("GET /api/categories", s.wrap(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.wrap(s.handleSaveCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.wrap(s.handleSaveCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.wrap(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/transactions", s.wrap(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.wrap(s.handleSaveTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.wrap(s.handleSaveTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.wrap(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/transfers", s.wrap(s.handleListTransfers))
	mux.HandleFunc("POST /api/transfers", s.wrap(s.handleSaveTransfer))
	mux.HandleFunc("GET /api/transfers/{id}", s.wrap(s.handleGetTransfer))
	mux.HandleFunc("PUT /api/transfers/{id}", s.wrap(s.handleSaveTransfer))
	mux.HandleFunc("DELETE /api/transfers/{id}", s.wrap(s.handleDeleteTransfer))

	mux.HandleFunc("GET /api/budgets", s.wrap(s.handleListBudgets))
	mux.HandleFunc("POST /api/budgets", s.wrap(s.handleSaveBudget))
	mux.HandleFunc("GET /api/budgets/progress", s.wrap(s.handleBudgetProgress))
	mux.HandleFunc("PUT /api/budgets/{id}", s.wrap(s.handleUpdateBudgetLimit))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.wrap(s.handleDeleteBudget))

	mux.HandleFunc("GET /api/reports/{type}", s.wrap(s.handleReport))

	return s
}

// wrap adds request ids, security headers, a per-request timeout and
// write rate limiting in front of each handler. The request-scoped
// logger carries the request id for everything the handler logs.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := clientAddr(r)
		requestID := generateRequestID()

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()
		logger := applog.FromContext(ctx).With(applog.FieldRequestID, requestID)
		r = r.WithContext(context.WithValue(ctx, applog.LoggerContextKey, logger))

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(r.Context(), "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Request-ID", requestID)

		next(w, r)
	}
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
