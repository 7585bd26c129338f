// internal/repository/customer_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/domain"
)

// CustomerRepository defines customer account storage.
type CustomerRepository interface {
	Create(ctx context.Context, q DBExecutor, account *domain.CustomerAccount) error
	GetByID(ctx context.Context, q DBExecutor, id int64) (*domain.CustomerAccount, error)
	List(ctx context.Context, q DBExecutor, exchangerID int64, filter domain.CustomerAccountFilter) ([]domain.CustomerAccount, int64, error)
	Deactivate(ctx context.Context, q DBExecutor, id int64) error
	// RefreshSummary recomputes the display balance from the primary currency
	// cell, falling back to the oldest active cell, else zero.
	RefreshSummary(ctx context.Context, q DBExecutor, customerID int64, primaryCode string) error
}

// BalanceRepository defines storage for per-(customer, currency) ledger cells.
type BalanceRepository interface {
	// EnsureCell creates a zero cell unless one already exists.
	EnsureCell(ctx context.Context, q DBExecutor, customerID, currencyID int64) error
	// GetCellForUpdate row-locks the cell; util.ErrNotFound when absent.
	GetCellForUpdate(ctx context.Context, q DBExecutor, customerID, currencyID int64) (*domain.CustomerBalance, error)
	GetCell(ctx context.Context, q DBExecutor, customerID, currencyID int64) (*domain.CustomerBalance, error)
	SetBalance(ctx context.Context, q DBExecutor, cellID int64, balance decimal.Decimal) error
	ListByCustomer(ctx context.Context, q DBExecutor, customerID int64) ([]domain.CustomerBalance, error)
}
