// internal/api/handler/exchanger.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/service"
	"hawala-backoffice/internal/util"
)

// ExchangerHandler handles HTTP requests for exchanger profiles, their
// supported currencies and the province directory.
type ExchangerHandler struct {
	responder
	service service.ExchangerService
}

// NewExchangerHandler creates a new ExchangerHandler.
func NewExchangerHandler(svc service.ExchangerService, logger *slog.Logger) *ExchangerHandler {
	return &ExchangerHandler{
		responder: responder{logger: logger},
		service:   svc,
	}
}

// CreateExchangerRequest represents the request body for registering an exchanger.
type CreateExchangerRequest struct {
	Name         string  `json:"name" validate:"required,max=32"`
	LastName     string  `json:"last_name" validate:"required,max=32"`
	Phone        string  `json:"phone" validate:"required,len=10,numeric,startswith=0"`
	Email        string  `json:"email" validate:"required,email,max=128"`
	Password     string  `json:"password" validate:"required,min=6,max=72"`
	LicenseNo    string  `json:"license_no" validate:"required,max=64"`
	ExchangeName *string `json:"exchange_name" validate:"omitempty,max=128"`
	Address      string  `json:"address" validate:"max=255"`
}

// CreateExchanger handles POST /exchangers
func (h *ExchangerHandler) CreateExchanger(w http.ResponseWriter, r *http.Request) {
	var req CreateExchangerRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	e, err := h.service.CreateExchanger(r.Context(), service.CreateExchangerInput{
		Name:         req.Name,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Email:        req.Email,
		Password:     req.Password,
		LicenseNo:    req.LicenseNo,
		ExchangeName: req.ExchangeName,
		Address:      req.Address,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, e)
}

// LoginRequest represents the request body for checking exchanger credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /exchangers/login
func (h *ExchangerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	e, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.logger.Info("exchanger logged in", "exchanger_id", e.ID)
	h.respondWithJSON(w, http.StatusOK, e)
}

// GetExchanger handles GET /exchangers/{exchangerID}
func (h *ExchangerHandler) GetExchanger(w http.ResponseWriter, r *http.Request) {
	exchangerID, err := int64Param(r, "exchangerID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	e, err := h.service.GetExchanger(r.Context(), exchangerID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, e)
}

// ListCurrencies handles GET /exchangers/{exchangerID}/currencies
func (h *ExchangerHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	exchangerID, err := int64Param(r, "exchangerID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	list, err := h.service.ListSupportedCurrencies(r.Context(), exchangerID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if list == nil {
		list = []domain.SupportedCurrency{}
	}
	h.respondWithJSON(w, http.StatusOK, list)
}

// AddCurrencyRequest represents the request body for linking a currency.
type AddCurrencyRequest struct {
	CurrencyCode   string           `json:"currency_code" validate:"omitempty,alpha,len=3"`
	CurrencySymbol string           `json:"currency_symbol" validate:"omitempty,max=5"`
	CurrencyID     int64            `json:"currency_id" validate:"omitempty,gt=0"`
	CustomRate     *decimal.Decimal `json:"custom_rate"`
}

// AddCurrency handles POST /exchangers/{exchangerID}/currencies
func (h *ExchangerHandler) AddCurrency(w http.ResponseWriter, r *http.Request) {
	exchangerID, err := int64Param(r, "exchangerID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var req AddCurrencyRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	ref, err := requireCurrencyRef(req.CurrencyCode, req.CurrencySymbol, req.CurrencyID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	sc, err := h.service.AddSupportedCurrency(r.Context(), exchangerID, ref, req.CustomRate)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, sc)
}

// RemoveCurrency handles DELETE /exchangers/{exchangerID}/currencies/{code}
func (h *ExchangerHandler) RemoveCurrency(w http.ResponseWriter, r *http.Request) {
	exchangerID, err := int64Param(r, "exchangerID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if err := h.service.RemoveSupportedCurrency(r.Context(), exchangerID, domain.CurrencyByCode(chi.URLParam(r, "code"))); err != nil {
		h.respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type effectiveRateResponse struct {
	Currency      domain.Currency  `json:"currency"`
	CustomRate    *decimal.Decimal `json:"custom_rate"`
	EffectiveRate decimal.Decimal  `json:"effective_rate"`
}

// EffectiveRate handles GET /exchangers/{exchangerID}/currencies/{code}/rate
func (h *ExchangerHandler) EffectiveRate(w http.ResponseWriter, r *http.Request) {
	exchangerID, err := int64Param(r, "exchangerID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	sc, rate, err := h.service.EffectiveRate(r.Context(), exchangerID, domain.CurrencyByCode(chi.URLParam(r, "code")))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, effectiveRateResponse{
		Currency:      sc.Currency,
		CustomRate:    sc.CustomRate,
		EffectiveRate: rate,
	})
}

// Quote handles GET /exchangers/{exchangerID}/quote?amount=&from=&to=
func (h *ExchangerHandler) Quote(w http.ResponseWriter, r *http.Request) {
	exchangerID, err := int64Param(r, "exchangerID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
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

	res, err := h.service.Quote(r.Context(), exchangerID, amount, domain.CurrencyByCode(q.Get("from")), domain.CurrencyByCode(q.Get("to")))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, res)
}

// ListProvinces handles GET /provinces
func (h *ExchangerHandler) ListProvinces(w http.ResponseWriter, r *http.Request) {
	provinces, err := h.service.ListProvinces(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if provinces == nil {
		provinces = []domain.Province{}
	}
	h.respondWithJSON(w, http.StatusOK, provinces)
}
