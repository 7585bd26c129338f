// internal/service/common.go
package service

import (
	"context"

	"hawala-backoffice/internal/domain"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// CurrencyLookup is the part of the currency registry the ledger, transfer
// and exchanger services depend on. CurrencyService satisfies it.
type CurrencyLookup interface {
	Resolve(ctx context.Context, ref domain.CurrencyRef) (*domain.Currency, error)
	ResolveOrDefault(ctx context.Context, ref domain.CurrencyRef) (*domain.Currency, error)
	GetDefault(ctx context.Context) (*domain.Currency, error)
	GetByID(ctx context.Context, id int64) (*domain.Currency, error)
}

// NormalizePage applies the default page size and clamps limit and offset.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
