// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"hawala-backoffice/internal/api/handler"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Currency  *handler.CurrencyHandler
	Ledger    *handler.LedgerHandler
	Hawala    *handler.HawalaHandler
	Exchanger *handler.ExchangerHandler
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/currencies", func(r chi.Router) {
		r.Get("/", h.Currency.ListActive)
		r.Post("/", h.Currency.Create)
		r.Get("/all", h.Currency.ListAll)
		r.Get("/default", h.Currency.GetDefault)
		r.Get("/resolve", h.Currency.Resolve)
		r.Get("/convert", h.Currency.Convert)
		r.Get("/{currencyID:[0-9]+}", h.Currency.GetByID)
		r.Put("/{code}/rate", h.Currency.UpdateRate)
		r.Post("/{code}/default", h.Currency.SetDefault)
		r.Post("/{code}/activate", h.Currency.Activate)
		r.Post("/{code}/deactivate", h.Currency.Deactivate)
	})

	r.Get("/provinces", h.Exchanger.ListProvinces)

	r.Route("/exchangers", func(r chi.Router) {
		r.Post("/", h.Exchanger.CreateExchanger)
		r.Post("/login", h.Exchanger.Login)
		r.Route("/{exchangerID}", func(r chi.Router) {
			r.Get("/", h.Exchanger.GetExchanger)
			r.Get("/currencies", h.Exchanger.ListCurrencies)
			r.Post("/currencies", h.Exchanger.AddCurrency)
			r.Delete("/currencies/{code}", h.Exchanger.RemoveCurrency)
			r.Get("/currencies/{code}/rate", h.Exchanger.EffectiveRate)
			r.Get("/quote", h.Exchanger.Quote)
			r.Get("/customers", h.Ledger.ListCustomers)
			r.Post("/customers", h.Ledger.CreateCustomer)
		})
	})

	r.Route("/customers/{customerID}", func(r chi.Router) {
		r.Get("/", h.Ledger.GetCustomer)
		r.Delete("/", h.Ledger.DeactivateCustomer)
		r.Post("/deposit", h.Ledger.Deposit)
		r.Post("/withdraw", h.Ledger.Withdraw)
		r.Get("/balances", h.Ledger.GetBalances)
		r.Get("/balances/{code}", h.Ledger.GetBalance)
		r.Get("/transactions", h.Ledger.GetTransactionHistory)
	})

	r.Route("/hawalas", func(r chi.Router) {
		r.Get("/", h.Hawala.ListTransfers)
		r.Post("/", h.Hawala.CreateTransfer)
		r.Get("/{number}", h.Hawala.GetTransfer)
		r.Patch("/{number}/status", h.Hawala.UpdateStatus)
		r.Post("/{number}/claim", h.Hawala.Claim)
	})

	r.Route("/claims", func(r chi.Router) {
		r.Get("/", h.Hawala.ListClaims)
		r.Get("/{claimID}", h.Hawala.GetClaim)
		r.Post("/{claimID}/verify", h.Hawala.VerifyClaim)
	})

	return r
}

// requestLogger logs one structured line per request through the
// application logger instead of chi's plain-text logger.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("http request",
					"request_id", middleware.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
