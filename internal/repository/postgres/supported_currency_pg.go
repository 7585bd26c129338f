// internal/repository/postgres/supported_currency_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/repository"
)

const supportedCurrencySelect = `
	SELECT sc.id, sc.exchanger_id, sc.currency_id, sc.custom_rate, sc.is_active, sc.created_at, sc.updated_at,
	       c.id AS "currency.id", c.code AS "currency.code", c.name AS "currency.name",
	       c.symbol AS "currency.symbol", c.is_active AS "currency.is_active",
	       c.is_default AS "currency.is_default", c.is_popular AS "currency.is_popular",
	       c.exchange_rate AS "currency.exchange_rate", c.created_at AS "currency.created_at",
	       c.updated_at AS "currency.updated_at"
	FROM supported_currencies sc
	JOIN currencies c ON c.id = sc.currency_id`

// SupportedCurrencyRepository implements repository.SupportedCurrencyRepository for PostgreSQL.
type SupportedCurrencyRepository struct{}

func NewSupportedCurrencyRepository() repository.SupportedCurrencyRepository {
	return &SupportedCurrencyRepository{}
}

func (r *SupportedCurrencyRepository) Upsert(ctx context.Context, q repository.DBExecutor, exchangerID, currencyID int64, customRate *decimal.Decimal) (*domain.SupportedCurrency, error) {
	query := `INSERT INTO supported_currencies (exchanger_id, currency_id, custom_rate)
              VALUES ($1, $2, $3)
              ON CONFLICT (exchanger_id, currency_id)
              DO UPDATE SET custom_rate = EXCLUDED.custom_rate, is_active = TRUE, updated_at = NOW()`
	if _, err := q.ExecContext(ctx, query, exchangerID, currencyID, customRate); err != nil {
		return nil, translate(err, "failed to upsert supported currency")
	}
	return r.Get(ctx, q, exchangerID, currencyID)
}

func (r *SupportedCurrencyRepository) Get(ctx context.Context, q repository.DBExecutor, exchangerID, currencyID int64) (*domain.SupportedCurrency, error) {
	var sc domain.SupportedCurrency
	query := supportedCurrencySelect + ` WHERE sc.exchanger_id = $1 AND sc.currency_id = $2`
	if err := q.GetContext(ctx, &sc, query, exchangerID, currencyID); err != nil {
		return nil, translate(err, fmt.Sprintf("failed to get supported currency %d for exchanger %d", currencyID, exchangerID))
	}
	return &sc, nil
}

func (r *SupportedCurrencyRepository) ListActive(ctx context.Context, q repository.DBExecutor, exchangerID int64) ([]domain.SupportedCurrency, error) {
	list := []domain.SupportedCurrency{}
	query := supportedCurrencySelect + ` WHERE sc.exchanger_id = $1 AND sc.is_active AND c.is_active ORDER BY c.code`
	if err := q.SelectContext(ctx, &list, query, exchangerID); err != nil {
		return nil, fmt.Errorf("failed to list supported currencies for exchanger %d: %w", exchangerID, err)
	}
	return list, nil
}

func (r *SupportedCurrencyRepository) Deactivate(ctx context.Context, q repository.DBExecutor, exchangerID, currencyID int64) error {
	res, err := q.ExecContext(ctx,
		`UPDATE supported_currencies SET is_active = FALSE, updated_at = NOW()
         WHERE exchanger_id = $1 AND currency_id = $2 AND is_active`, exchangerID, currencyID)
	if err != nil {
		return fmt.Errorf("failed to remove supported currency: %w", err)
	}
	return checkAffected(res, "remove supported currency")
}
