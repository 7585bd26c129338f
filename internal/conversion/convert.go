// Package conversion converts amounts between registry currencies, pivoting
// through the default currency when neither side is the default.
package conversion

import (
	"fmt"

	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/util"
)

// Convert converts amount from one currency to another. Rates are units of a
// currency per one unit of def. A nil def is treated as "neither side is the
// default", so the amount pivots through the implied base. The result is not
// rounded; callers round to storage precision themselves.
func Convert(amount decimal.Decimal, from, to domain.Currency, def *domain.Currency) (decimal.Decimal, error) {
	if from.SameAs(&to) {
		return amount, nil
	}

	switch {
	case from.SameAs(def):
		return amount.Mul(to.ExchangeRate), nil
	case to.SameAs(def):
		return divide(amount, from)
	default:
		inDefault, err := divide(amount, from)
		if err != nil {
			return decimal.Zero, err
		}
		return inDefault.Mul(to.ExchangeRate), nil
	}
}

// Quote is Convert with per-currency rate overrides, keyed by currency id.
// It lets an exchanger price a conversion with its own effective rates.
func Quote(amount decimal.Decimal, from, to domain.Currency, def *domain.Currency, overrides map[int64]decimal.Decimal) (decimal.Decimal, error) {
	if rate, ok := overrides[from.ID]; ok {
		from.ExchangeRate = rate
	}
	if rate, ok := overrides[to.ID]; ok {
		to.ExchangeRate = rate
	}
	return Convert(amount, from, to, def)
}

func divide(amount decimal.Decimal, by domain.Currency) (decimal.Decimal, error) {
	if !by.ExchangeRate.IsPositive() {
		return decimal.Zero, util.NewFieldError(util.ErrInvalidCurrencyRate, "exchange_rate",
			fmt.Sprintf("currency %s has non-positive exchange rate %s", by.Code, by.ExchangeRate))
	}
	return amount.Div(by.ExchangeRate), nil
}
