// internal/domain/currency.go
package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places money amounts are stored with.
const AmountScale = 2

// RateScale is the number of decimal places exchange rates are stored with.
const RateScale = 6

// Currency is a registry entry. ExchangeRate is expressed as units of this
// currency per one unit of the default currency.
type Currency struct {
	ID           int64           `db:"id" json:"id"`
	Code         string          `db:"code" json:"code"`
	Name         string          `db:"name" json:"name"`
	Symbol       string          `db:"symbol" json:"symbol"`
	IsActive     bool            `db:"is_active" json:"is_active"`
	IsDefault    bool            `db:"is_default" json:"is_default"`
	IsPopular    bool            `db:"is_popular" json:"is_popular"`
	ExchangeRate decimal.Decimal `db:"exchange_rate" json:"exchange_rate"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// NewCurrency creates an active, non-default currency with a normalized code.
func NewCurrency(code, name, symbol string, rate decimal.Decimal) *Currency {
	now := time.Now().UTC()
	return &Currency{
		Code:         NormalizeCode(code),
		Name:         strings.TrimSpace(name),
		Symbol:       strings.TrimSpace(symbol),
		IsActive:     true,
		ExchangeRate: rate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SameAs reports whether two currency records denote the same registry row.
func (c *Currency) SameAs(other *Currency) bool {
	if c == nil || other == nil {
		return false
	}
	if c.ID != 0 && other.ID != 0 {
		return c.ID == other.ID
	}
	return c.Code == other.Code
}

// NormalizeCode trims and upper-cases an ISO 4217 code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// RoundAmount rounds a money amount to storage precision.
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(AmountScale)
}

// SupportedCurrency links an exchanger to a currency it trades, optionally
// overriding the registry rate.
type SupportedCurrency struct {
	ID          int64            `db:"id" json:"id"`
	ExchangerID int64            `db:"exchanger_id" json:"exchanger_id"`
	CurrencyID  int64            `db:"currency_id" json:"currency_id"`
	CustomRate  *decimal.Decimal `db:"custom_rate" json:"custom_rate,omitempty"`
	IsActive    bool             `db:"is_active" json:"is_active"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`

	Currency Currency `db:"currency" json:"currency"`
}

// EffectiveRate returns the custom rate when one is set, otherwise the
// registry rate of the linked currency.
func (s *SupportedCurrency) EffectiveRate() decimal.Decimal {
	if s.CustomRate != nil && !s.CustomRate.IsZero() {
		return *s.CustomRate
	}
	return s.Currency.ExchangeRate
}

// CurrencyRefKind tells which field of a CurrencyRef is populated.
type CurrencyRefKind int

const (
	CurrencyRefNone CurrencyRefKind = iota
	CurrencyRefByCode
	CurrencyRefBySymbol
	CurrencyRefByID
)

// CurrencyRef identifies a currency by exactly one of code, symbol or id.
type CurrencyRef struct {
	Kind   CurrencyRefKind
	Code   string
	Symbol string
	ID     int64
}

func CurrencyByCode(code string) CurrencyRef {
	return CurrencyRef{Kind: CurrencyRefByCode, Code: NormalizeCode(code)}
}

func CurrencyBySymbol(symbol string) CurrencyRef {
	return CurrencyRef{Kind: CurrencyRefBySymbol, Symbol: strings.TrimSpace(symbol)}
}

func CurrencyByID(id int64) CurrencyRef {
	return CurrencyRef{Kind: CurrencyRefByID, ID: id}
}

// IsZero reports whether no reference was given.
func (r CurrencyRef) IsZero() bool {
	return r.Kind == CurrencyRefNone
}

// Field names the request field the reference came from.
func (r CurrencyRef) Field() string {
	switch r.Kind {
	case CurrencyRefBySymbol:
		return "currency_symbol"
	case CurrencyRefByID:
		return "currency_id"
	default:
		return "currency_code"
	}
}

func (r CurrencyRef) String() string {
	switch r.Kind {
	case CurrencyRefByCode:
		return "code:" + r.Code
	case CurrencyRefBySymbol:
		return "symbol:" + r.Symbol
	case CurrencyRefByID:
		return "id:" + strconv.FormatInt(r.ID, 10)
	default:
		return "none"
	}
}

// ParseCurrencyRef picks the first non-empty of code, symbol and id, in that
// order. All empty yields the zero reference.
func ParseCurrencyRef(code, symbol, id string) (CurrencyRef, error) {
	switch {
	case strings.TrimSpace(code) != "":
		return CurrencyByCode(code), nil
	case strings.TrimSpace(symbol) != "":
		return CurrencyBySymbol(symbol), nil
	case strings.TrimSpace(id) != "":
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil || n <= 0 {
			return CurrencyRef{}, fmt.Errorf("invalid currency id %q", id)
		}
		return CurrencyByID(n), nil
	default:
		return CurrencyRef{}, nil
	}
}
