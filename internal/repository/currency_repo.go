// internal/repository/currency_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/domain"
)

// CurrencyRepository defines the currency registry storage.
type CurrencyRepository interface {
	// List returns currencies ordered by code, only active ones when activeOnly is set.
	List(ctx context.Context, q DBExecutor, activeOnly bool) ([]domain.Currency, error)
	// GetDefault returns util.ErrNotFound when no currency is marked default.
	GetDefault(ctx context.Context, q DBExecutor) (*domain.Currency, error)
	GetByID(ctx context.Context, q DBExecutor, id int64, activeOnly bool) (*domain.Currency, error)
	// GetByCode matches code case-insensitively.
	GetByCode(ctx context.Context, q DBExecutor, code string, activeOnly bool) (*domain.Currency, error)
	// GetByCodeForUpdate locks the matched row until the transaction ends.
	GetByCodeForUpdate(ctx context.Context, q DBExecutor, code string) (*domain.Currency, error)
	FindActiveBySymbol(ctx context.Context, q DBExecutor, symbol string) ([]domain.Currency, error)
	Create(ctx context.Context, q DBExecutor, currency *domain.Currency) error
	UpdateRate(ctx context.Context, q DBExecutor, id int64, rate decimal.Decimal) error
	SetActive(ctx context.Context, q DBExecutor, id int64, active bool) error
	// LockDefault serializes default-currency changes for the rest of the transaction.
	LockDefault(ctx context.Context, q DBExecutor) error
	// SetDefault marks id as the only default currency. Call it after LockDefault
	// in the same transaction.
	SetDefault(ctx context.Context, q DBExecutor, id int64) error
}
