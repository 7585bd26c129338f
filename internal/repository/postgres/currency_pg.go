// internal/repository/postgres/currency_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/repository"
)

// defaultCurrencyLockKey is the advisory lock taken around default changes.
const defaultCurrencyLockKey int64 = 0x6861776C61

const currencyColumns = `id, code, name, symbol, is_active, is_default, is_popular, exchange_rate, created_at, updated_at`

// CurrencyRepository implements repository.CurrencyRepository for PostgreSQL.
type CurrencyRepository struct{}

// NewCurrencyRepository creates a new CurrencyRepository.
func NewCurrencyRepository() repository.CurrencyRepository {
	return &CurrencyRepository{}
}

func (r *CurrencyRepository) List(ctx context.Context, q repository.DBExecutor, activeOnly bool) ([]domain.Currency, error) {
	currencies := []domain.Currency{}
	query := `SELECT ` + currencyColumns + ` FROM currencies`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY code`
	if err := q.SelectContext(ctx, &currencies, query); err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return currencies, nil
}

func (r *CurrencyRepository) GetDefault(ctx context.Context, q repository.DBExecutor) (*domain.Currency, error) {
	return r.getOne(ctx, q, `SELECT `+currencyColumns+` FROM currencies WHERE is_default LIMIT 1`, "failed to get default currency")
}

func (r *CurrencyRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64, activeOnly bool) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	return r.getOne(ctx, q, query, fmt.Sprintf("failed to get currency %d", id), id)
}

func (r *CurrencyRepository) GetByCode(ctx context.Context, q repository.DBExecutor, code string, activeOnly bool) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE code = UPPER(TRIM($1))`
	if activeOnly {
		query += ` AND is_active`
	}
	return r.getOne(ctx, q, query, fmt.Sprintf("failed to get currency %q", code), code)
}

func (r *CurrencyRepository) GetByCodeForUpdate(ctx context.Context, q repository.DBExecutor, code string) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE code = UPPER(TRIM($1)) FOR UPDATE`
	return r.getOne(ctx, q, query, fmt.Sprintf("failed to lock currency %q", code), code)
}

func (r *CurrencyRepository) FindActiveBySymbol(ctx context.Context, q repository.DBExecutor, symbol string) ([]domain.Currency, error) {
	currencies := []domain.Currency{}
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE symbol = TRIM($1) AND is_active ORDER BY code`
	if err := q.SelectContext(ctx, &currencies, query, symbol); err != nil {
		return nil, fmt.Errorf("failed to find currencies by symbol %q: %w", symbol, err)
	}
	return currencies, nil
}

// Create inserts the currency as non-default; promotion goes through SetDefault.
func (r *CurrencyRepository) Create(ctx context.Context, q repository.DBExecutor, c *domain.Currency) error {
	query := `INSERT INTO currencies (code, name, symbol, is_active, is_default, is_popular, exchange_rate, created_at, updated_at)
              VALUES ($1, $2, $3, $4, FALSE, $5, $6, $7, $8) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		c.Code, c.Name, c.Symbol, c.IsActive, c.IsPopular, c.ExchangeRate, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return translate(err, "failed to create currency")
	}
	return nil
}

func (r *CurrencyRepository) UpdateRate(ctx context.Context, q repository.DBExecutor, id int64, rate decimal.Decimal) error {
	res, err := q.ExecContext(ctx, `UPDATE currencies SET exchange_rate = $1, updated_at = NOW() WHERE id = $2`, rate, id)
	if err != nil {
		return translate(err, fmt.Sprintf("failed to update rate of currency %d", id))
	}
	return checkAffected(res, "update currency rate")
}

func (r *CurrencyRepository) SetActive(ctx context.Context, q repository.DBExecutor, id int64, active bool) error {
	res, err := q.ExecContext(ctx, `UPDATE currencies SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to set active=%t on currency %d: %w", active, id, err)
	}
	return checkAffected(res, "set currency active")
}

func (r *CurrencyRepository) LockDefault(ctx context.Context, q repository.DBExecutor) error {
	if _, err := q.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, defaultCurrencyLockKey); err != nil {
		return fmt.Errorf("failed to acquire default currency lock: %w", err)
	}
	return nil
}

// SetDefault clears the flag before setting it so the partial unique index
// never sees two defaults, even transiently.
func (r *CurrencyRepository) SetDefault(ctx context.Context, q repository.DBExecutor, id int64) error {
	if _, err := q.ExecContext(ctx,
		`UPDATE currencies SET is_default = FALSE, updated_at = NOW() WHERE is_default AND id <> $1`, id); err != nil {
		return translate(err, "failed to clear default currency")
	}
	res, err := q.ExecContext(ctx,
		`UPDATE currencies SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return translate(err, fmt.Sprintf("failed to mark currency %d default", id))
	}
	return checkAffected(res, "set default currency")
}

func (r *CurrencyRepository) getOne(ctx context.Context, q repository.DBExecutor, query, op string, args ...interface{}) (*domain.Currency, error) {
	var c domain.Currency
	if err := q.GetContext(ctx, &c, query, args...); err != nil {
		return nil, translate(err, op)
	}
	return &c, nil
}
