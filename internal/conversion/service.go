package conversion

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/domain"
)

// Registry is the slice of the currency registry conversion needs.
type Registry interface {
	Resolve(ctx context.Context, ref domain.CurrencyRef) (*domain.Currency, error)
	GetDefault(ctx context.Context) (*domain.Currency, error)
}

// Result describes a completed conversion.
type Result struct {
	Amount          decimal.Decimal `json:"amount"`
	From            string          `json:"from"`
	To              string          `json:"to"`
	Converted       decimal.Decimal `json:"converted"`
	DefaultCurrency string          `json:"default_currency,omitempty"`
}

// Service converts amounts between currencies referenced by code, symbol or id.
type Service interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to domain.CurrencyRef) (Result, error)
}

type service struct {
	registry Registry
}

// NewService returns a Service reading currencies and the current default
// from registry on every call.
func NewService(registry Registry) Service {
	return &service{registry: registry}
}

func (s *service) Convert(ctx context.Context, amount decimal.Decimal, fromRef, toRef domain.CurrencyRef) (Result, error) {
	from, err := s.registry.Resolve(ctx, fromRef)
	if err != nil {
		return Result{}, fmt.Errorf("convert: source currency: %w", err)
	}
	to, err := s.registry.Resolve(ctx, toRef)
	if err != nil {
		return Result{}, fmt.Errorf("convert: target currency: %w", err)
	}
	def, err := s.registry.GetDefault(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("convert: default currency: %w", err)
	}

	converted, err := Convert(amount, *from, *to, def)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Amount:    amount,
		From:      from.Code,
		To:        to.Code,
		Converted: domain.RoundAmount(converted),
	}
	if def != nil {
		res.DefaultCurrency = def.Code
	}
	return res, nil
}
