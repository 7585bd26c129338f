// internal/domain/customer.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CustomerAccount is a customer sub-account managed by an exchanger. Balance
// is a display summary refreshed after every ledger mutation; the
// authoritative amounts live in CustomerBalance.
type CustomerAccount struct {
	ID            int64           `db:"id" json:"id"`
	ExchangerID   int64           `db:"exchanger_id" json:"exchanger_id"`
	AccountNumber string          `db:"account_number" json:"account_number"`
	FullName      string          `db:"full_name" json:"full_name"`
	Phone         *string         `db:"phone" json:"phone,omitempty"`
	Address       *string         `db:"address" json:"address,omitempty"`
	Job           *string         `db:"job" json:"job,omitempty"`
	Balance       decimal.Decimal `db:"balance" json:"balance"`
	IsActive      bool            `db:"is_active" json:"is_active"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// NewCustomerAccount creates an active account with a zero summary balance.
func NewCustomerAccount(exchangerID int64, accountNumber, fullName string) *CustomerAccount {
	now := time.Now().UTC()
	return &CustomerAccount{
		ExchangerID:   exchangerID,
		AccountNumber: strings.TrimSpace(accountNumber),
		FullName:      strings.TrimSpace(fullName),
		Balance:       decimal.Zero,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CustomerAccountFilter narrows ListCustomerAccounts.
type CustomerAccountFilter struct {
	AccountNumber string
	Name          string
	Limit         int
	Offset        int
}

// CustomerBalance is one (customer, currency) ledger cell.
type CustomerBalance struct {
	ID         int64           `db:"id" json:"id"`
	CustomerID int64           `db:"customer_id" json:"customer_id"`
	CurrencyID int64           `db:"currency_id" json:"currency_id"`
	Balance    decimal.Decimal `db:"balance" json:"balance"`
	IsActive   bool            `db:"is_active" json:"is_active"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`

	CurrencyCode   string `db:"currency_code" json:"currency_code"`
	CurrencySymbol string `db:"currency_symbol" json:"currency_symbol"`
}
