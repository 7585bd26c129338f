// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/repository"
)

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

// Create appends a ledger entry.
func (r *TransactionRepository) Create(ctx context.Context, q repository.DBExecutor, t *domain.CustomerTransaction) error {
	query := `INSERT INTO customer_transactions (reference, customer_id, currency_id, transaction_type, amount, balance_after, description, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		t.Reference,
		t.CustomerID,
		t.CurrencyID,
		t.Type,
		t.Amount,
		t.BalanceAfter,
		t.Description,
		t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return translate(err, "failed to create customer transaction")
	}
	return nil
}

// ListByCustomer retrieves a page of a customer's ledger entries, newest
// first, plus the total count for the same filter.
func (r *TransactionRepository) ListByCustomer(ctx context.Context, q repository.DBExecutor, customerID int64, f domain.TransactionFilter) ([]domain.CustomerTransaction, int64, error) {
	w := &where{}
	w.add("t.customer_id = $%d", customerID)
	if f.Type != "" {
		w.add("t.transaction_type = $%d", f.Type)
	}

	transactions := []domain.CustomerTransaction{}
	limitClause, args := w.page(f.Limit, f.Offset)
	query := `
		SELECT t.id, t.reference, t.customer_id, t.currency_id, t.transaction_type, t.amount,
		       t.balance_after, t.description, t.created_at, c.code AS currency_code
		FROM customer_transactions t
		JOIN currencies c ON c.id = t.currency_id` + w.String() + `
		ORDER BY t.created_at DESC, t.id DESC` + limitClause
	if err := q.SelectContext(ctx, &transactions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for customer %d: %w", customerID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM customer_transactions t` + w.String()
	if err := q.GetContext(ctx, &totalCount, countQuery, w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions for customer %d: %w", customerID, err)
	}

	return transactions, totalCount, nil
}
