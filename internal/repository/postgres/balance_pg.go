// internal/repository/postgres/balance_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/repository"
	"hawala-backoffice/internal/util"
)

const balanceSelect = `
	SELECT cb.id, cb.customer_id, cb.currency_id, cb.balance, cb.is_active, cb.created_at, cb.updated_at,
	       c.code AS currency_code, c.symbol AS currency_symbol
	FROM customer_balances cb
	JOIN currencies c ON c.id = cb.currency_id`

// BalanceRepository implements repository.BalanceRepository for PostgreSQL.
type BalanceRepository struct{}

func NewBalanceRepository() repository.BalanceRepository {
	return &BalanceRepository{}
}

func (r *BalanceRepository) EnsureCell(ctx context.Context, q repository.DBExecutor, customerID, currencyID int64) error {
	query := `INSERT INTO customer_balances (customer_id, currency_id, balance)
              VALUES ($1, $2, 0)
              ON CONFLICT (customer_id, currency_id) DO NOTHING`
	if _, err := q.ExecContext(ctx, query, customerID, currencyID); err != nil {
		return translate(err, "failed to create balance cell")
	}
	return nil
}

func (r *BalanceRepository) GetCellForUpdate(ctx context.Context, q repository.DBExecutor, customerID, currencyID int64) (*domain.CustomerBalance, error) {
	return r.getCell(ctx, q, balanceSelect+` WHERE cb.customer_id = $1 AND cb.currency_id = $2 FOR UPDATE OF cb`, customerID, currencyID)
}

func (r *BalanceRepository) GetCell(ctx context.Context, q repository.DBExecutor, customerID, currencyID int64) (*domain.CustomerBalance, error) {
	return r.getCell(ctx, q, balanceSelect+` WHERE cb.customer_id = $1 AND cb.currency_id = $2`, customerID, currencyID)
}

func (r *BalanceRepository) getCell(ctx context.Context, q repository.DBExecutor, query string, customerID, currencyID int64) (*domain.CustomerBalance, error) {
	var cell domain.CustomerBalance
	if err := q.GetContext(ctx, &cell, query, customerID, currencyID); err != nil {
		return nil, translate(err, fmt.Sprintf("failed to get balance cell (%d, %d)", customerID, currencyID))
	}
	return &cell, nil
}

// SetBalance writes the new cell value. The balance >= 0 check constraint is
// reported as util.ErrInsufficientBalance.
func (r *BalanceRepository) SetBalance(ctx context.Context, q repository.DBExecutor, cellID int64, balance decimal.Decimal) error {
	res, err := q.ExecContext(ctx, `UPDATE customer_balances SET balance = $1, updated_at = NOW() WHERE id = $2`, balance, cellID)
	if err != nil {
		if pqErr, ok := asPQError(err); ok && pqErr.Code == codeCheckViolation {
			return util.NewFieldError(util.ErrInsufficientBalance, "balance", "balance cannot go negative")
		}
		return fmt.Errorf("failed to update balance cell %d: %w", cellID, err)
	}
	return checkAffected(res, "update balance cell")
}

func (r *BalanceRepository) ListByCustomer(ctx context.Context, q repository.DBExecutor, customerID int64) ([]domain.CustomerBalance, error) {
	cells := []domain.CustomerBalance{}
	query := balanceSelect + ` WHERE cb.customer_id = $1 AND cb.is_active ORDER BY c.code`
	if err := q.SelectContext(ctx, &cells, query, customerID); err != nil {
		return nil, fmt.Errorf("failed to list balances for customer %d: %w", customerID, err)
	}
	return cells, nil
}
