// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/service"
	"hawala-backoffice/internal/util"
)

// DefaultTimeout bounds every request, including its database work.
const DefaultTimeout = 30 * time.Second

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// responder holds the response helpers shared by all handlers.
type responder struct {
	logger *slog.Logger
}

// Helper function to send JSON responses.
func (h responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

var errorStatus = []struct {
	kind   error
	status int
}{
	{util.ErrNotFound, http.StatusNotFound},
	{util.ErrAmbiguousReference, http.StatusBadRequest},
	{util.ErrInvalidAmount, http.StatusBadRequest},
	{util.ErrInvalidInput, http.StatusBadRequest},
	{util.ErrInvalidCurrencyRate, http.StatusBadRequest},
	{util.ErrInsufficientBalance, http.StatusPaymentRequired},
	{util.ErrInvalidState, http.StatusConflict},
	{util.ErrAlreadyClaimed, http.StatusConflict},
	{util.ErrDuplicateEntry, http.StatusConflict},
	{util.ErrUnauthorized, http.StatusUnauthorized},
}

// Helper function to send error responses. Errors of a known kind are
// reported to the client; anything else is logged and hidden behind a 500.
func (h responder) respondWithError(w http.ResponseWriter, err error) {
	for _, m := range errorStatus {
		if !util.IsError(err, m.kind) {
			continue
		}
		body := errorResponse{Error: m.kind.Error()}
		var fe *util.FieldError
		if errors.As(err, &fe) {
			body.Error = fe.Message
			body.Field = fe.Field
		}
		h.respondWithJSON(w, m.status, body)
		return
	}

	h.logger.Error("Unhandled service error", "error", err)
	h.respondWithJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}

// decode reads a JSON body into dst and runs its validate tags.
func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return util.NewFieldError(util.ErrInvalidInput, "", "malformed JSON body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return util.NewFieldError(util.ErrInvalidInput, fe.Field(),
				fmt.Sprintf("%s failed the %q rule", fe.Field(), fe.Tag()))
		}
		return util.NewFieldError(util.ErrInvalidInput, "", err.Error())
	}
	return nil
}

// int64Param parses a positive integer URL parameter.
func int64Param(r *http.Request, name string) (int64, error) {
	n, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || n <= 0 {
		return 0, util.NewFieldError(util.ErrInvalidInput, name, "must be a positive integer")
	}
	return n, nil
}

func queryInt64(r *http.Request, name string) (int64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, util.NewFieldError(util.ErrInvalidInput, name, "must be a non-negative integer")
	}
	return n, nil
}

// page reads limit and offset from the query string, clamped the same way
// the services clamp them.
func page(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return service.NormalizePage(limit, offset)
}

// currencyRef builds a reference from the code/symbol/id triple used in
// request bodies and query strings. Code wins over symbol, symbol over id.
func currencyRef(code, symbol string, id int64) (domain.CurrencyRef, error) {
	idStr := ""
	if id != 0 {
		idStr = strconv.FormatInt(id, 10)
	}
	ref, err := domain.ParseCurrencyRef(code, symbol, idStr)
	if err != nil {
		return domain.CurrencyRef{}, util.NewFieldError(util.ErrInvalidInput, "currency_id", err.Error())
	}
	return ref, nil
}

// requireCurrencyRef is currencyRef for operations that need a currency.
func requireCurrencyRef(code, symbol string, id int64) (domain.CurrencyRef, error) {
	ref, err := currencyRef(code, symbol, id)
	if err != nil {
		return ref, err
	}
	if ref.IsZero() {
		return ref, util.NewFieldError(util.ErrInvalidInput, "currency_code", "provide currency_code, currency_symbol or currency_id")
	}
	return ref, nil
}
