// internal/api/handler/hawala.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/api/types"
	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/service"
	"hawala-backoffice/internal/util"
)

// HawalaHandler handles HTTP requests for transfers and their claims.
type HawalaHandler struct {
	responder
	service service.HawalaService
}

// NewHawalaHandler creates a new HawalaHandler.
func NewHawalaHandler(svc service.HawalaService, logger *slog.Logger) *HawalaHandler {
	return &HawalaHandler{
		responder: responder{logger: logger},
		service:   svc,
	}
}

// CreateTransferRequest represents the request body for recording a transfer.
// A missing hawala_number is assigned by the server.
type CreateTransferRequest struct {
	HawalaNumber      int64            `json:"hawala_number" validate:"omitempty,gt=0"`
	SenderName        string           `json:"sender_name" validate:"required,max=32"`
	ReceiverName      string           `json:"receiver_name" validate:"required,max=32"`
	SenderPhone       string           `json:"sender_phone" validate:"required,len=10,numeric,startswith=0"`
	Amount            decimal.Decimal  `json:"amount"`
	CurrencyCode      string           `json:"currency_code" validate:"omitempty,alpha,len=3"`
	CurrencySymbol    string           `json:"currency_symbol" validate:"omitempty,max=5"`
	CurrencyID        int64            `json:"currency_id" validate:"omitempty,gt=0"`
	HawalaFee         *decimal.Decimal `json:"hawala_fee"`
	FeeCurrencyCode   string           `json:"hawala_fee_currency_code" validate:"omitempty,alpha,len=3"`
	FeeCurrencySymbol string           `json:"hawala_fee_currency_symbol" validate:"omitempty,max=5"`
	FeeCurrencyID     int64            `json:"hawala_fee_currency_id" validate:"omitempty,gt=0"`
	ReceiverLocation  string           `json:"receiver_location" validate:"max=64"`
	ExchangerLocation string           `json:"exchanger_location" validate:"max=64"`
	Status            string           `json:"status" validate:"omitempty,oneof=started snoozed finished"`
}

// CreateTransfer handles POST /hawalas
func (h *HawalaHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req CreateTransferRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	currency, err := currencyRef(req.CurrencyCode, req.CurrencySymbol, req.CurrencyID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	feeCurrency, err := currencyRef(req.FeeCurrencyCode, req.FeeCurrencySymbol, req.FeeCurrencyID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	hawala, err := h.service.CreateTransfer(r.Context(), service.CreateTransferInput{
		HawalaNumber:      req.HawalaNumber,
		SenderName:        req.SenderName,
		ReceiverName:      req.ReceiverName,
		SenderPhone:       req.SenderPhone,
		Amount:            req.Amount,
		Currency:          currency,
		HawalaFee:         req.HawalaFee,
		FeeCurrency:       feeCurrency,
		ReceiverLocation:  req.ReceiverLocation,
		ExchangerLocation: req.ExchangerLocation,
		Status:            domain.HawalaStatus(req.Status),
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, hawala)
}

// ListTransfers handles GET /hawalas?status=&sender_name=&receiver_name=&hawala_number=&limit=&offset=
func (h *HawalaHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	number, err := queryInt64(r, "hawala_number")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	limit, offset := page(r)
	filter := domain.HawalaFilter{
		SenderName:   q.Get("sender_name"),
		ReceiverName: q.Get("receiver_name"),
		HawalaNumber: number,
		Limit:        limit,
		Offset:       offset,
	}
	if s := q.Get("status"); s != "" {
		status, ok := domain.ParseHawalaStatus(s)
		if !ok {
			h.respondWithError(w, util.NewFieldError(util.ErrInvalidInput, "status", "status must be started, snoozed or finished"))
			return
		}
		filter.Status = status
	}

	hawalas, total, err := h.service.ListTransfers(r.Context(), filter)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewPaginatedResponse(hawalas, limit, offset, total))
}

// GetTransfer handles GET /hawalas/{number}
func (h *HawalaHandler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	number, err := int64Param(r, "number")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	details, err := h.service.GetTransfer(r.Context(), number)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, details)
}

// UpdateStatusRequest represents the request body for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=started snoozed finished"`
}

// UpdateStatus handles PATCH /hawalas/{number}/status
func (h *HawalaHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	number, err := int64Param(r, "number")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var req UpdateStatusRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	hawala, err := h.service.UpdateTransferStatus(r.Context(), number, domain.HawalaStatus(req.Status))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, hawala)
}

// ClaimRequest represents the request body for paying out a transfer.
type ClaimRequest struct {
	ReceiverPhone       string  `json:"receiver_phone" validate:"required,len=10,numeric,startswith=0"`
	ReceiverAddress     string  `json:"receiver_address" validate:"required,max=255"`
	ReceiverIDCardPhoto *string `json:"receiver_id_card_photo" validate:"omitempty,max=255"`
	ReceiverFingerPhoto *string `json:"receiver_finger_photo" validate:"omitempty,max=255"`
}

// Claim handles POST /hawalas/{number}/claim
func (h *HawalaHandler) Claim(w http.ResponseWriter, r *http.Request) {
	number, err := int64Param(r, "number")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var req ClaimRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	claim, err := h.service.ClaimTransfer(r.Context(), number, domain.ReceiverDetails{
		ReceiverPhone:       req.ReceiverPhone,
		ReceiverAddress:     req.ReceiverAddress,
		ReceiverIDCardPhoto: req.ReceiverIDCardPhoto,
		ReceiverFingerPhoto: req.ReceiverFingerPhoto,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, claim)
}

// ListClaims handles GET /claims?hawala_number=&receiver_name=&verified_by=&limit=&offset=
func (h *HawalaHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	number, err := queryInt64(r, "hawala_number")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	verifiedBy, err := queryInt64(r, "verified_by")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	limit, offset := page(r)

	claims, total, err := h.service.ListClaims(r.Context(), domain.ClaimFilter{
		HawalaNumber: number,
		ReceiverName: r.URL.Query().Get("receiver_name"),
		VerifiedBy:   verifiedBy,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewPaginatedResponse(claims, limit, offset, total))
}

// GetClaim handles GET /claims/{claimID}
func (h *HawalaHandler) GetClaim(w http.ResponseWriter, r *http.Request) {
	claimID, err := int64Param(r, "claimID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	claim, err := h.service.GetClaim(r.Context(), claimID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, claim)
}

// VerifyClaimRequest represents the request body for verifying a claim.
type VerifyClaimRequest struct {
	ExchangerID int64 `json:"exchanger_id" validate:"required,gt=0"`
}

// VerifyClaim handles POST /claims/{claimID}/verify
func (h *HawalaHandler) VerifyClaim(w http.ResponseWriter, r *http.Request) {
	claimID, err := int64Param(r, "claimID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var req VerifyClaimRequest
	if err := decode(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	claim, err := h.service.VerifyClaim(r.Context(), claimID, req.ExchangerID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, claim)
}
