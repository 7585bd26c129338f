// internal/repository/exchanger_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/domain"
)

// ExchangerRepository defines exchanger profile storage.
type ExchangerRepository interface {
	Create(ctx context.Context, q DBExecutor, exchanger *domain.Exchanger) error
	GetByID(ctx context.Context, q DBExecutor, id int64) (*domain.Exchanger, error)
	GetByEmail(ctx context.Context, q DBExecutor, email string) (*domain.Exchanger, error)
}

// SupportedCurrencyRepository defines storage for exchanger rate overrides.
type SupportedCurrencyRepository interface {
	// Upsert creates the link or reactivates it, replacing its custom rate.
	Upsert(ctx context.Context, q DBExecutor, exchangerID, currencyID int64, customRate *decimal.Decimal) (*domain.SupportedCurrency, error)
	Get(ctx context.Context, q DBExecutor, exchangerID, currencyID int64) (*domain.SupportedCurrency, error)
	ListActive(ctx context.Context, q DBExecutor, exchangerID int64) ([]domain.SupportedCurrency, error)
	Deactivate(ctx context.Context, q DBExecutor, exchangerID, currencyID int64) error
}

// ProvinceRepository defines read access to the province directory.
type ProvinceRepository interface {
	ListActive(ctx context.Context, q DBExecutor) ([]domain.Province, error)
	// FindActiveByName matches name case-insensitively, ignoring surrounding spaces.
	FindActiveByName(ctx context.Context, q DBExecutor, name string) (*domain.Province, error)
}
