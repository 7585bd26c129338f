// internal/domain/hawala.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// HawalaStatus is the lifecycle state of a send-side transfer.
type HawalaStatus string

const (
	HawalaStatusStarted  HawalaStatus = "started"
	HawalaStatusSnoozed  HawalaStatus = "snoozed"
	HawalaStatusFinished HawalaStatus = "finished"
)

var hawalaTransitions = map[HawalaStatus][]HawalaStatus{
	HawalaStatusStarted: {HawalaStatusFinished, HawalaStatusSnoozed},
	HawalaStatusSnoozed: {HawalaStatusFinished},
}

// ParseHawalaStatus validates a status string.
func ParseHawalaStatus(s string) (HawalaStatus, bool) {
	switch st := HawalaStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case HawalaStatusStarted, HawalaStatusSnoozed, HawalaStatusFinished:
		return st, true
	}
	return "", false
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s HawalaStatus) CanTransitionTo(next HawalaStatus) bool {
	for _, allowed := range hawalaTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SendHawala is the send-side transfer record.
type SendHawala struct {
	ID                  int64            `db:"id" json:"id"`
	HawalaNumber        int64            `db:"hawala_number" json:"hawala_number"`
	SenderName          string           `db:"sender_name" json:"sender_name"`
	ReceiverName        string           `db:"receiver_name" json:"receiver_name"`
	SenderPhone         string           `db:"sender_phone" json:"sender_phone"`
	Amount              decimal.Decimal  `db:"amount" json:"amount"`
	CurrencyID          *int64           `db:"currency_id" json:"currency_id"`
	HawalaFee           *decimal.Decimal `db:"hawala_fee" json:"hawala_fee"`
	HawalaFeeCurrencyID *int64           `db:"hawala_fee_currency_id" json:"hawala_fee_currency_id"`
	ReceiverLocation    string           `db:"receiver_location" json:"receiver_location"`
	ExchangerLocation   string           `db:"exchanger_location" json:"exchanger_location"`
	Status              HawalaStatus     `db:"status" json:"status"`
	CreatedAt           time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time        `db:"updated_at" json:"updated_at"`
}

// NewSendHawala creates a started transfer. A zero hawalaNumber asks the
// store to assign the next free number.
func NewSendHawala(hawalaNumber int64, senderName, receiverName, senderPhone string, amount decimal.Decimal) *SendHawala {
	now := time.Now().UTC()
	return &SendHawala{
		HawalaNumber: hawalaNumber,
		SenderName:   strings.TrimSpace(senderName),
		ReceiverName: strings.TrimSpace(receiverName),
		SenderPhone:  strings.TrimSpace(senderPhone),
		Amount:       RoundAmount(amount),
		Status:       HawalaStatusStarted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AmountInDefaultCurrency values the transfer amount in the default currency
// by multiplying with the transfer currency's registry rate. It returns the
// amount untouched when the transfer has no currency or already uses the
// default one.
func (h *SendHawala) AmountInDefaultCurrency(cur, def *Currency) decimal.Decimal {
	return valueInDefault(h.Amount, cur, def)
}

// FeeInDefaultCurrency is AmountInDefaultCurrency for the fee; a missing fee
// is worth zero.
func (h *SendHawala) FeeInDefaultCurrency(feeCur, def *Currency) decimal.Decimal {
	if h.HawalaFee == nil || h.HawalaFee.IsZero() {
		return decimal.Zero
	}
	return valueInDefault(*h.HawalaFee, feeCur, def)
}

func valueInDefault(amount decimal.Decimal, cur, def *Currency) decimal.Decimal {
	if cur == nil || cur.SameAs(def) {
		return amount
	}
	return RoundAmount(amount.Mul(cur.ExchangeRate))
}

// HawalaFilter narrows ListTransfers. Name filters match substrings,
// case-insensitively.
type HawalaFilter struct {
	Status       HawalaStatus
	SenderName   string
	ReceiverName string
	HawalaNumber int64
	Limit        int
	Offset       int
}

// ReceiveHawala is the claim record. Financial fields are a snapshot of the
// transfer taken when it was claimed.
type ReceiveHawala struct {
	ID                  int64           `db:"id" json:"id"`
	SendHawalaID        int64           `db:"send_hawala_id" json:"send_hawala_id"`
	HawalaNumber        int64           `db:"hawala_number" json:"hawala_number"`
	SenderName          string          `db:"sender_name" json:"sender_name"`
	ReceiverName        string          `db:"receiver_name" json:"receiver_name"`
	SenderPhone         string          `db:"sender_phone" json:"sender_phone"`
	Amount              decimal.Decimal `db:"amount" json:"amount"`
	CurrencyID          *int64          `db:"currency_id" json:"currency_id"`
	HawalaFee           decimal.Decimal `db:"hawala_fee" json:"hawala_fee"`
	HawalaFeeCurrencyID *int64          `db:"hawala_fee_currency_id" json:"hawala_fee_currency_id"`
	Status              HawalaStatus    `db:"status" json:"status"`
	TransferDate        *time.Time      `db:"transfer_date" json:"transfer_date"`
	ReceiverLocationID  *int64          `db:"receiver_location_id" json:"receiver_location_id"`
	ExchangerLocationID *int64          `db:"exchanger_location_id" json:"exchanger_location_id"`
	ReceiverPhone       string          `db:"receiver_phone" json:"receiver_phone"`
	ReceiverAddress     string          `db:"receiver_address" json:"receiver_address"`
	ReceiverIDCardPhoto *string         `db:"receiver_id_card_photo" json:"receiver_id_card_photo,omitempty"`
	ReceiverFingerPhoto *string         `db:"receiver_finger_photo" json:"receiver_finger_photo,omitempty"`
	VerifiedBy          *int64          `db:"verified_by" json:"verified_by,omitempty"`
	VerificationDate    *time.Time      `db:"verification_date" json:"verification_date,omitempty"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
}

// ReceiverDetails are the fields supplied by the exchanger paying out a transfer.
type ReceiverDetails struct {
	ReceiverPhone       string
	ReceiverAddress     string
	ReceiverIDCardPhoto *string
	ReceiverFingerPhoto *string
}

// NewReceiveHawala snapshots the transfer's fields by value.
func NewReceiveHawala(h *SendHawala, details ReceiverDetails) *ReceiveHawala {
	fee := decimal.Zero
	if h.HawalaFee != nil {
		fee = *h.HawalaFee
	}
	transferDate := h.CreatedAt
	return &ReceiveHawala{
		SendHawalaID:        h.ID,
		HawalaNumber:        h.HawalaNumber,
		SenderName:          h.SenderName,
		ReceiverName:        h.ReceiverName,
		SenderPhone:         h.SenderPhone,
		Amount:              h.Amount,
		CurrencyID:          h.CurrencyID,
		HawalaFee:           fee,
		HawalaFeeCurrencyID: h.HawalaFeeCurrencyID,
		Status:              h.Status,
		TransferDate:        &transferDate,
		ReceiverPhone:       strings.TrimSpace(details.ReceiverPhone),
		ReceiverAddress:     strings.TrimSpace(details.ReceiverAddress),
		ReceiverIDCardPhoto: details.ReceiverIDCardPhoto,
		ReceiverFingerPhoto: details.ReceiverFingerPhoto,
		CreatedAt:           time.Now().UTC(),
	}
}

// ClaimFilter narrows ListClaims.
type ClaimFilter struct {
	HawalaNumber int64
	ReceiverName string
	VerifiedBy   int64
	Limit        int
	Offset       int
}
