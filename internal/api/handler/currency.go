// internal/api/handler/currency.go
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/conversion"
	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/service"
	"hawala-backoffice/internal/util"
)

// CurrencyHandler serves the currency registry and conversions.
type CurrencyHandler struct {
	responder
	service   service.CurrencyService
	converter conversion.Service
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(svc service.CurrencyService, converter conversion.Service, logger *slog.Logger) *CurrencyHandler {
	return &CurrencyHandler{
		responder: responder{logger: logger},
		service:   svc,
		converter: converter,
	}
}

// ListActive handles GET /currencies
func (h *CurrencyHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.service.GetActive(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": currencies})
}

// ListAll handles GET /currencies/all
func (h *CurrencyHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.service.List(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": currencies})
}

// CreateCurrencyRequest represents the request body for creating a currency.
type CreateCurrencyRequest struct {
	Code         string          `json:"code" validate:"required,alpha,len=3"`
	Name         string          `json:"name" validate:"required,max=50"`
	Symbol       string          `json:"symbol" validate:"required,max=5"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	IsPopular    bool            `json:"is_popular"`
	IsDefault    bool            `json:"is_default"`
}

// Create handles POST /currencies
func (h *CurrencyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCurrencyRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	c, err := h.service.Create(r.Context(), service.CreateCurrencyInput{
		Code:         req.Code,
		Name:         req.Name,
		Symbol:       req.Symbol,
		ExchangeRate: req.ExchangeRate,
		IsPopular:    req.IsPopular,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, c)
}

// GetDefault handles GET /currencies/default
func (h *CurrencyHandler) GetDefault(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetDefault(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if c == nil {
		h.respondWithError(w, util.NewFieldError(util.ErrNotFound, "", "no default currency is configured"))
		return
	}
	h.respondWithJSON(w, http.StatusOK, c)
}

// Resolve handles GET /currencies/resolve?code=|symbol=|id=
func (h *CurrencyHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ref, err := domain.ParseCurrencyRef(q.Get("code"), q.Get("symbol"), q.Get("id"))
	if err != nil {
		h.respondWithError(w, util.NewFieldError(util.ErrInvalidInput, "id", err.Error()))
		return
	}

	c, err := h.service.Resolve(r.Context(), ref)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, c)
}

// Convert handles GET /currencies/convert?amount=&from=&to=
func (h *CurrencyHandler) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		h.respondWithError(w, util.NewFieldError(util.ErrInvalidAmount, "amount", "amount must be a decimal number"))
		return
	}
	if q.Get("from") == "" || q.Get("to") == "" {
		h.respondWithError(w, util.NewFieldError(util.ErrInvalidInput, "from", "from and to currency codes are required"))
		return
	}

	res, err := h.converter.Convert(r.Context(), amount, domain.CurrencyByCode(q.Get("from")), domain.CurrencyByCode(q.Get("to")))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, res)
}

// GetByID handles GET /currencies/{currencyID}
func (h *CurrencyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "currencyID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	c, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, c)
}

// UpdateRateRequest represents the request body for changing a rate.
type UpdateRateRequest struct {
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

// UpdateRate handles PUT /currencies/{code}/rate
func (h *CurrencyHandler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	var req UpdateRateRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	c, err := h.service.UpdateRate(r.Context(), chi.URLParam(r, "code"), req.ExchangeRate)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, c)
}

// SetDefault handles POST /currencies/{code}/default
func (h *CurrencyHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	h.changeState(w, r, h.service.SetDefault)
}

// Activate handles POST /currencies/{code}/activate
func (h *CurrencyHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.changeState(w, r, h.service.Activate)
}

// Deactivate handles POST /currencies/{code}/deactivate
func (h *CurrencyHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.changeState(w, r, h.service.Deactivate)
}

func (h *CurrencyHandler) changeState(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, code string) (*domain.Currency, error)) {
	c, err := op(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, c)
}
