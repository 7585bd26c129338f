// internal/service/ledger_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/repository"
	"hawala-backoffice/internal/util"
	"hawala-backoffice/pkg/db"
)

// CreateCustomerInput carries the fields of a new customer account.
type CreateCustomerInput struct {
	ExchangerID   int64
	AccountNumber string
	FullName      string
	Phone         *string
	Address       *string
	Job           *string
}

// LedgerService manages customer accounts and their per-currency balances.
// Deposits and withdrawals are the only paths that change a balance cell, and
// each one appends a journal entry in the same transaction.
type LedgerService interface {
	CreateCustomerAccount(ctx context.Context, input CreateCustomerInput) (*domain.CustomerAccount, error)
	GetCustomerAccount(ctx context.Context, customerID int64) (*domain.CustomerAccount, error)
	ListCustomerAccounts(ctx context.Context, exchangerID int64, filter domain.CustomerAccountFilter) ([]domain.CustomerAccount, int64, error)
	DeactivateCustomerAccount(ctx context.Context, customerID int64) error
	Deposit(ctx context.Context, customerID int64, currency domain.CurrencyRef, amount decimal.Decimal, description string) (*domain.CustomerBalance, *domain.CustomerTransaction, error)
	Withdraw(ctx context.Context, customerID int64, currency domain.CurrencyRef, amount decimal.Decimal, description string) (*domain.CustomerBalance, *domain.CustomerTransaction, error)
	GetBalances(ctx context.Context, customerID int64) ([]domain.CustomerBalance, error)
	GetBalance(ctx context.Context, customerID int64, currency domain.CurrencyRef) (*domain.CustomerBalance, error)
	GetTransactionHistory(ctx context.Context, customerID int64, filter domain.TransactionFilter) ([]domain.CustomerTransaction, int64, error)
}

type ledgerService struct {
	dbBeginner      db.DBTxBeginner
	dbExecutor      repository.DBExecutor
	currencies      CurrencyLookup
	exchangerRepo   repository.ExchangerRepository
	customerRepo    repository.CustomerRepository
	balanceRepo     repository.BalanceRepository
	transactionRepo repository.TransactionRepository
	primaryCode     string
	logger          *slog.Logger
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewLedgerService creates a new LedgerService. primaryCode names the
// currency whose cell feeds the customer's display balance.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	currencies CurrencyLookup,
	exchangerRepo repository.ExchangerRepository,
	customerRepo repository.CustomerRepository,
	balanceRepo repository.BalanceRepository,
	transactionRepo repository.TransactionRepository,
	primaryCode string,
	logger *slog.Logger,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) LedgerService {
	return &ledgerService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		currencies:      currencies,
		exchangerRepo:   exchangerRepo,
		customerRepo:    customerRepo,
		balanceRepo:     balanceRepo,
		transactionRepo: transactionRepo,
		primaryCode:     domain.NormalizeCode(primaryCode),
		logger:          logger,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

func (s *ledgerService) CreateCustomerAccount(ctx context.Context, input CreateCustomerInput) (*domain.CustomerAccount, error) {
	account := domain.NewCustomerAccount(input.ExchangerID, input.AccountNumber, input.FullName)
	if account.AccountNumber == "" {
		return nil, util.NewFieldError(util.ErrInvalidInput, "account_number", "account number is required")
	}
	if account.FullName == "" {
		return nil, util.NewFieldError(util.ErrInvalidInput, "full_name", "full name is required")
	}
	account.Phone = input.Phone
	account.Address = input.Address
	account.Job = input.Job

	if _, err := s.exchangerRepo.GetByID(ctx, s.dbExecutor, input.ExchangerID); err != nil {
		return nil, fmt.Errorf("create customer account: exchanger %d: %w", input.ExchangerID, err)
	}
	if err := s.customerRepo.Create(ctx, s.dbExecutor, account); err != nil {
		return nil, fmt.Errorf("create customer account: %w", err)
	}
	return account, nil
}

func (s *ledgerService) GetCustomerAccount(ctx context.Context, customerID int64) (*domain.CustomerAccount, error) {
	account, err := s.customerRepo.GetByID(ctx, s.dbExecutor, customerID)
	if err != nil {
		return nil, fmt.Errorf("get customer account %d: %w", customerID, err)
	}
	return account, nil
}

func (s *ledgerService) ListCustomerAccounts(ctx context.Context, exchangerID int64, filter domain.CustomerAccountFilter) ([]domain.CustomerAccount, int64, error) {
	filter.Limit, filter.Offset = NormalizePage(filter.Limit, filter.Offset)
	accounts, total, err := s.customerRepo.List(ctx, s.dbExecutor, exchangerID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list customer accounts: %w", err)
	}
	return accounts, total, nil
}

func (s *ledgerService) DeactivateCustomerAccount(ctx context.Context, customerID int64) error {
	if err := s.customerRepo.Deactivate(ctx, s.dbExecutor, customerID); err != nil {
		return fmt.Errorf("deactivate customer account %d: %w", customerID, err)
	}
	return nil
}

// Deposit adds amount to the customer's cell for the currency, creating the
// cell at zero on first use. It returns the cell after the change and the
// journal entry recording it.
func (s *ledgerService) Deposit(ctx context.Context, customerID int64, ref domain.CurrencyRef, amount decimal.Decimal, description string) (*domain.CustomerBalance, *domain.CustomerTransaction, error) {
	amount, err := validAmount(amount)
	if err != nil {
		return nil, nil, err
	}
	currency, err := s.currencies.Resolve(ctx, ref)
	if err != nil {
		return nil, nil, fmt.Errorf("deposit: %w", err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("deposit: transaction controller does not implement DBExecutor")
	}

	if err := s.requireActiveCustomer(ctx, txExecutor, customerID); err != nil {
		return nil, nil, fmt.Errorf("deposit: %w", err)
	}
	if err := s.balanceRepo.EnsureCell(ctx, txExecutor, customerID, currency.ID); err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to create balance cell: %w", err)
	}
	cell, err := s.balanceRepo.GetCellForUpdate(ctx, txExecutor, customerID, currency.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to lock balance cell: %w", err)
	}

	newBalance := cell.Balance.Add(amount)
	entry, err := s.apply(ctx, txExecutor, cell, domain.TransactionTypeDeposit, amount, newBalance, description)
	if err != nil {
		return nil, nil, fmt.Errorf("deposit: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to commit transaction: %w", err)
	}

	s.logger.Info("deposit recorded",
		"customer_id", customerID, "currency", currency.Code, "amount", amount, "balance", newBalance, "reference", entry.Reference)
	return cell, entry, nil
}

// Withdraw subtracts amount from an existing cell. The cell is row-locked for
// the whole check-and-write, so concurrent withdrawals on one cell serialize.
func (s *ledgerService) Withdraw(ctx context.Context, customerID int64, ref domain.CurrencyRef, amount decimal.Decimal, description string) (*domain.CustomerBalance, *domain.CustomerTransaction, error) {
	amount, err := validAmount(amount)
	if err != nil {
		return nil, nil, err
	}
	currency, err := s.currencies.Resolve(ctx, ref)
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: %w", err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("withdraw: transaction controller does not implement DBExecutor")
	}

	if err := s.requireActiveCustomer(ctx, txExecutor, customerID); err != nil {
		return nil, nil, fmt.Errorf("withdraw: %w", err)
	}
	cell, err := s.balanceRepo.GetCellForUpdate(ctx, txExecutor, customerID, currency.ID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, nil, util.NewFieldError(util.ErrInsufficientBalance, "amount",
				fmt.Sprintf("no %s balance to withdraw from", currency.Code))
		}
		return nil, nil, fmt.Errorf("withdraw: failed to lock balance cell: %w", err)
	}
	if cell.Balance.LessThan(amount) {
		return nil, nil, util.NewFieldError(util.ErrInsufficientBalance, "amount",
			fmt.Sprintf("available %s balance is %s", currency.Code, cell.Balance.StringFixed(domain.AmountScale)))
	}

	newBalance := cell.Balance.Sub(amount)
	entry, err := s.apply(ctx, txExecutor, cell, domain.TransactionTypeWithdrawal, amount, newBalance, description)
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("withdraw: failed to commit transaction: %w", err)
	}

	s.logger.Info("withdrawal recorded",
		"customer_id", customerID, "currency", currency.Code, "amount", amount, "balance", newBalance, "reference", entry.Reference)
	return cell, entry, nil
}

// apply writes the new cell value, journals it and refreshes the display
// balance. cell is updated in place.
func (s *ledgerService) apply(
	ctx context.Context,
	q repository.DBExecutor,
	cell *domain.CustomerBalance,
	txType domain.TransactionType,
	amount, newBalance decimal.Decimal,
	description string,
) (*domain.CustomerTransaction, error) {
	if err := s.balanceRepo.SetBalance(ctx, q, cell.ID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	cell.Balance = newBalance

	entry := domain.NewCustomerTransaction(cell.CustomerID, cell.CurrencyID, txType, amount, newBalance, description)
	entry.CurrencyCode = cell.CurrencyCode
	if err := s.transactionRepo.Create(ctx, q, entry); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := s.customerRepo.RefreshSummary(ctx, q, cell.CustomerID, s.primaryCode); err != nil {
		return nil, fmt.Errorf("failed to refresh summary balance: %w", err)
	}
	return entry, nil
}

func (s *ledgerService) requireActiveCustomer(ctx context.Context, q repository.DBExecutor, customerID int64) error {
	account, err := s.customerRepo.GetByID(ctx, q, customerID)
	if err != nil {
		return fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}
	if !account.IsActive {
		return util.NewFieldError(util.ErrInvalidState, "customer_id", "customer account is inactive")
	}
	return nil
}

func (s *ledgerService) GetBalances(ctx context.Context, customerID int64) ([]domain.CustomerBalance, error) {
	if _, err := s.customerRepo.GetByID(ctx, s.dbExecutor, customerID); err != nil {
		return nil, fmt.Errorf("get balances: %w", err)
	}
	cells, err := s.balanceRepo.ListByCustomer(ctx, s.dbExecutor, customerID)
	if err != nil {
		return nil, fmt.Errorf("get balances: %w", err)
	}
	return cells, nil
}

// GetBalance returns the customer's cell for one currency, or a zero cell
// when the customer never held that currency.
func (s *ledgerService) GetBalance(ctx context.Context, customerID int64, ref domain.CurrencyRef) (*domain.CustomerBalance, error) {
	currency, err := s.currencies.Resolve(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	cell, err := s.balanceRepo.GetCell(ctx, s.dbExecutor, customerID, currency.ID)
	if err == nil {
		return cell, nil
	}
	if !errors.Is(err, util.ErrNotFound) {
		return nil, fmt.Errorf("get balance: %w", err)
	}

	if _, err := s.customerRepo.GetByID(ctx, s.dbExecutor, customerID); err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &domain.CustomerBalance{
		CustomerID:     customerID,
		CurrencyID:     currency.ID,
		Balance:        decimal.Zero,
		CurrencyCode:   currency.Code,
		CurrencySymbol: currency.Symbol,
	}, nil
}

// GetTransactionHistory retrieves a page of journal entries, newest first.
func (s *ledgerService) GetTransactionHistory(ctx context.Context, customerID int64, filter domain.TransactionFilter) ([]domain.CustomerTransaction, int64, error) {
	if _, err := s.customerRepo.GetByID(ctx, s.dbExecutor, customerID); err != nil {
		return nil, 0, fmt.Errorf("failed to check customer existence: %w", err)
	}

	filter.Limit, filter.Offset = NormalizePage(filter.Limit, filter.Offset)
	transactions, totalCount, err := s.transactionRepo.ListByCustomer(ctx, s.dbExecutor, customerID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve transaction history: %w", err)
	}
	return transactions, totalCount, nil
}

// validAmount rejects amounts that are not positive or carry more decimal
// places than money is stored with.
func validAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, util.NewFieldError(util.ErrInvalidAmount, "amount",
			fmt.Sprintf("amount must be greater than zero, got %s", amount.String()))
	}
	if err := checkScale(amount, "amount"); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

func checkScale(amount decimal.Decimal, field string) error {
	if !amount.Equal(domain.RoundAmount(amount)) {
		return util.NewFieldError(util.ErrInvalidAmount, field,
			fmt.Sprintf("%s must have at most %d decimal places, got %s", field, domain.AmountScale, amount.String()))
	}
	return nil
}
