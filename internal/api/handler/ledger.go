// internal/api/handler/ledger.go
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/api/types"
	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/service"
	"hawala-backoffice/internal/util"
)

// LedgerHandler handles HTTP requests for customer accounts and balances.
type LedgerHandler struct {
	responder
	service service.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(svc service.LedgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		responder: responder{logger: logger},
		service:   svc,
	}
}

// CreateCustomerRequest represents the request body for opening a customer account.
type CreateCustomerRequest struct {
	AccountNumber string  `json:"account_number" validate:"required,max=20"`
	FullName      string  `json:"full_name" validate:"required,max=100"`
	Phone         *string `json:"phone" validate:"omitempty,len=10,numeric,startswith=0"`
	Address       *string `json:"address" validate:"omitempty,max=255"`
	Job           *string `json:"job" validate:"omitempty,max=100"`
}

// CreateCustomer handles POST /exchangers/{exchangerID}/customers
func (h *LedgerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	exchangerID, err := int64Param(r, "exchangerID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var req CreateCustomerRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	account, err := h.service.CreateCustomerAccount(r.Context(), service.CreateCustomerInput{
		ExchangerID:   exchangerID,
		AccountNumber: req.AccountNumber,
		FullName:      req.FullName,
		Phone:         req.Phone,
		Address:       req.Address,
		Job:           req.Job,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, account)
}

// ListCustomers handles GET /exchangers/{exchangerID}/customers?account_number=&name=&limit=&offset=
func (h *LedgerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	exchangerID, err := int64Param(r, "exchangerID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	limit, offset := page(r)
	filter := domain.CustomerAccountFilter{
		AccountNumber: r.URL.Query().Get("account_number"),
		Name:          r.URL.Query().Get("name"),
		Limit:         limit,
		Offset:        offset,
	}

	accounts, total, err := h.service.ListCustomerAccounts(r.Context(), exchangerID, filter)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewPaginatedResponse(accounts, limit, offset, total))
}

// GetCustomer handles GET /customers/{customerID}
func (h *LedgerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := int64Param(r, "customerID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	account, err := h.service.GetCustomerAccount(r.Context(), customerID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, account)
}

// DeactivateCustomer handles DELETE /customers/{customerID}
func (h *LedgerHandler) DeactivateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := int64Param(r, "customerID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if err := h.service.DeactivateCustomerAccount(r.Context(), customerID); err != nil {
		h.respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MovementRequest represents the request body for deposit and withdraw.
// Exactly one currency field is needed; code wins over symbol, symbol over id.
type MovementRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	CurrencyCode   string          `json:"currency_code" validate:"omitempty,alpha,len=3"`
	CurrencySymbol string          `json:"currency_symbol" validate:"omitempty,max=5"`
	CurrencyID     int64           `json:"currency_id" validate:"omitempty,gt=0"`
	Description    string          `json:"description" validate:"omitempty,max=500"`
}

type movementFunc func(ctx context.Context, customerID int64, ref domain.CurrencyRef, amount decimal.Decimal, description string) (*domain.CustomerBalance, *domain.CustomerTransaction, error)

// Deposit handles POST /customers/{customerID}/deposit
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, "Deposit successful", h.service.Deposit)
}

// Withdraw handles POST /customers/{customerID}/withdraw
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, "Withdrawal successful", h.service.Withdraw)
}

func (h *LedgerHandler) movement(w http.ResponseWriter, r *http.Request, message string, apply movementFunc) {
	customerID, err := int64Param(r, "customerID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var req MovementRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	ref, err := requireCurrencyRef(req.CurrencyCode, req.CurrencySymbol, req.CurrencyID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	balance, entry, err := apply(r.Context(), customerID, ref, req.Amount, req.Description)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":       message,
		"customer_id":   customerID,
		"currency_code": balance.CurrencyCode,
		"new_balance":   balance.Balance,
		"transaction":   entry,
	})
}

// GetBalances handles GET /customers/{customerID}/balances
func (h *LedgerHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	customerID, err := int64Param(r, "customerID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	cells, err := h.service.GetBalances(r.Context(), customerID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{"customer_id": customerID, "data": cells})
}

// GetBalance handles GET /customers/{customerID}/balances/{code}
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	customerID, err := int64Param(r, "customerID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	cell, err := h.service.GetBalance(r.Context(), customerID, domain.CurrencyByCode(chi.URLParam(r, "code")))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, cell)
}

// GetTransactionHistory handles GET /customers/{customerID}/transactions?type=&limit=&offset=
func (h *LedgerHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	customerID, err := int64Param(r, "customerID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	limit, offset := page(r)
	filter := domain.TransactionFilter{Limit: limit, Offset: offset}
	if s := r.URL.Query().Get("type"); s != "" {
		txType, ok := domain.ParseTransactionType(s)
		if !ok {
			h.respondWithError(w, util.NewFieldError(util.ErrInvalidInput, "type", "type must be deposit or withdrawal"))
			return
		}
		filter.Type = txType
	}

	transactions, total, err := h.service.GetTransactionHistory(r.Context(), customerID, filter)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewPaginatedResponse(transactions, limit, offset, total))
}
