// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"hawala-backoffice/internal/domain"
)

// TransactionRepository defines the append-only ledger journal.
type TransactionRepository interface {
	Create(ctx context.Context, q DBExecutor, transaction *domain.CustomerTransaction) error
	// ListByCustomer returns entries newest first together with the total matching count.
	ListByCustomer(ctx context.Context, q DBExecutor, customerID int64, filter domain.TransactionFilter) ([]domain.CustomerTransaction, int64, error)
}
