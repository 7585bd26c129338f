// internal/domain/transaction.go
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType defines the kind of ledger entry.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

// ParseTransactionType accepts "deposit" or "withdrawal" in any case.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case TransactionTypeDeposit:
		return TransactionTypeDeposit, true
	case TransactionTypeWithdrawal:
		return TransactionTypeWithdrawal, true
	}
	return "", false
}

// CustomerTransaction is an append-only ledger entry. Amount is signed:
// positive for deposits, negative for withdrawals, so a cell balance equals
// the sum of its entries.
type CustomerTransaction struct {
	ID           int64           `db:"id" json:"id"`
	Reference    uuid.UUID       `db:"reference" json:"reference"`
	CustomerID   int64           `db:"customer_id" json:"customer_id"`
	CurrencyID   int64           `db:"currency_id" json:"currency_id"`
	Type         TransactionType `db:"transaction_type" json:"transaction_type"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	BalanceAfter decimal.Decimal `db:"balance_after" json:"balance_after"`
	Description  *string         `db:"description" json:"description,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`

	CurrencyCode string `db:"currency_code" json:"currency_code,omitempty"`
}

// NewCustomerTransaction builds a ledger entry for a positive magnitude,
// applying the sign implied by txType.
func NewCustomerTransaction(
	customerID, currencyID int64,
	txType TransactionType,
	magnitude decimal.Decimal,
	balanceAfter decimal.Decimal,
	description string,
) *CustomerTransaction {
	amount := magnitude.Abs()
	if txType == TransactionTypeWithdrawal {
		amount = amount.Neg()
	}
	var desc *string
	if d := strings.TrimSpace(description); d != "" {
		desc = &d
	}
	return &CustomerTransaction{
		Reference:    uuid.New(),
		CustomerID:   customerID,
		CurrencyID:   currencyID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		Description:  desc,
		CreatedAt:    time.Now().UTC(),
	}
}

// TransactionFilter narrows a transaction history query.
type TransactionFilter struct {
	Type   TransactionType
	Limit  int
	Offset int
}
