// internal/repository/postgres/customer_pg.go
package postgres

import (
	"context"
	"fmt"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/repository"
)

const customerColumns = `id, exchanger_id, account_number, full_name, phone, address, job, balance, is_active, created_at, updated_at`

// CustomerRepository implements repository.CustomerRepository for PostgreSQL.
type CustomerRepository struct{}

func NewCustomerRepository() repository.CustomerRepository {
	return &CustomerRepository{}
}

func (r *CustomerRepository) Create(ctx context.Context, q repository.DBExecutor, a *domain.CustomerAccount) error {
	query := `INSERT INTO customer_accounts (exchanger_id, account_number, full_name, phone, address, job, balance, is_active, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		a.ExchangerID, a.AccountNumber, a.FullName, a.Phone, a.Address, a.Job, a.Balance, a.IsActive, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		return translate(err, "failed to create customer account")
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.CustomerAccount, error) {
	var a domain.CustomerAccount
	if err := q.GetContext(ctx, &a, `SELECT `+customerColumns+` FROM customer_accounts WHERE id = $1`, id); err != nil {
		return nil, translate(err, fmt.Sprintf("failed to get customer account %d", id))
	}
	return &a, nil
}

func (r *CustomerRepository) List(ctx context.Context, q repository.DBExecutor, exchangerID int64, f domain.CustomerAccountFilter) ([]domain.CustomerAccount, int64, error) {
	w := &where{}
	w.add("exchanger_id = $%d", exchangerID)
	w.add("is_active = $%d", true)
	if f.AccountNumber != "" {
		w.add("account_number ILIKE $%d", containsPattern(f.AccountNumber))
	}
	if f.Name != "" {
		w.add("full_name ILIKE $%d", containsPattern(f.Name))
	}

	accounts := []domain.CustomerAccount{}
	limitClause, args := w.page(f.Limit, f.Offset)
	query := `SELECT ` + customerColumns + ` FROM customer_accounts` + w.String() + ` ORDER BY id` + limitClause
	if err := q.SelectContext(ctx, &accounts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list customer accounts for exchanger %d: %w", exchangerID, err)
	}

	var total int64
	if err := q.GetContext(ctx, &total, `SELECT COUNT(*) FROM customer_accounts`+w.String(), w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count customer accounts for exchanger %d: %w", exchangerID, err)
	}
	return accounts, total, nil
}

func (r *CustomerRepository) Deactivate(ctx context.Context, q repository.DBExecutor, id int64) error {
	res, err := q.ExecContext(ctx,
		`UPDATE customer_accounts SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate customer account %d: %w", id, err)
	}
	return checkAffected(res, "deactivate customer account")
}

func (r *CustomerRepository) RefreshSummary(ctx context.Context, q repository.DBExecutor, customerID int64, primaryCode string) error {
	query := `
		UPDATE customer_accounts ca
		SET balance = COALESCE(
		        (SELECT cb.balance
		           FROM customer_balances cb
		           JOIN currencies c ON c.id = cb.currency_id
		          WHERE cb.customer_id = ca.id AND c.code = UPPER($2)),
		        (SELECT cb.balance
		           FROM customer_balances cb
		          WHERE cb.customer_id = ca.id AND cb.is_active
		          ORDER BY cb.id
		          LIMIT 1),
		        0),
		    updated_at = NOW()
		WHERE ca.id = $1`
	res, err := q.ExecContext(ctx, query, customerID, primaryCode)
	if err != nil {
		return fmt.Errorf("failed to refresh summary balance for customer %d: %w", customerID, err)
	}
	return checkAffected(res, "refresh summary balance")
}
