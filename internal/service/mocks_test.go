// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/repository"
	"hawala-backoffice/pkg/db"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController that also
// satisfies repository.DBExecutor through the embedded MockDBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// txFuncs returns begin/commit/rollback functions bound to tx.
func txFuncs(tx *MockTxController) (db.BeginTxFunc, db.CommitTxFunc, db.RollbackTxFunc) {
	return func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return tx, nil
		},
		func(db.TxController) error {
			return tx.Commit()
		},
		func(db.TxController) {
			_ = tx.Rollback()
		}
}

// decEq matches a decimal argument by value rather than representation.
func decEq(want string) interface{} {
	w := decimal.RequireFromString(want)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(w) })
}

// MockCurrencyRepository is a mock implementation of repository.CurrencyRepository.
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) List(ctx context.Context, q repository.DBExecutor, activeOnly bool) ([]domain.Currency, error) {
	args := m.Called(ctx, q, activeOnly)
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) GetDefault(ctx context.Context, q repository.DBExecutor) (*domain.Currency, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64, activeOnly bool) (*domain.Currency, error) {
	args := m.Called(ctx, q, id, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) GetByCode(ctx context.Context, q repository.DBExecutor, code string, activeOnly bool) (*domain.Currency, error) {
	args := m.Called(ctx, q, code, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) GetByCodeForUpdate(ctx context.Context, q repository.DBExecutor, code string) (*domain.Currency, error) {
	args := m.Called(ctx, q, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) FindActiveBySymbol(ctx context.Context, q repository.DBExecutor, symbol string) ([]domain.Currency, error) {
	args := m.Called(ctx, q, symbol)
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) Create(ctx context.Context, q repository.DBExecutor, currency *domain.Currency) error {
	args := m.Called(ctx, q, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) UpdateRate(ctx context.Context, q repository.DBExecutor, id int64, rate decimal.Decimal) error {
	args := m.Called(ctx, q, id, rate)
	return args.Error(0)
}

func (m *MockCurrencyRepository) SetActive(ctx context.Context, q repository.DBExecutor, id int64, active bool) error {
	args := m.Called(ctx, q, id, active)
	return args.Error(0)
}

func (m *MockCurrencyRepository) LockDefault(ctx context.Context, q repository.DBExecutor) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockCurrencyRepository) SetDefault(ctx context.Context, q repository.DBExecutor, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

// MockCurrencyLookup is a mock implementation of CurrencyLookup.
type MockCurrencyLookup struct {
	mock.Mock
}

func (m *MockCurrencyLookup) Resolve(ctx context.Context, ref domain.CurrencyRef) (*domain.Currency, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyLookup) ResolveOrDefault(ctx context.Context, ref domain.CurrencyRef) (*domain.Currency, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyLookup) GetDefault(ctx context.Context) (*domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyLookup) GetByID(ctx context.Context, id int64) (*domain.Currency, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

// MockExchangerRepository is a mock implementation of repository.ExchangerRepository.
type MockExchangerRepository struct {
	mock.Mock
}

func (m *MockExchangerRepository) Create(ctx context.Context, q repository.DBExecutor, exchanger *domain.Exchanger) error {
	args := m.Called(ctx, q, exchanger)
	return args.Error(0)
}

func (m *MockExchangerRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Exchanger, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exchanger), args.Error(1)
}

func (m *MockExchangerRepository) GetByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.Exchanger, error) {
	args := m.Called(ctx, q, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exchanger), args.Error(1)
}

// MockSupportedCurrencyRepository is a mock implementation of repository.SupportedCurrencyRepository.
type MockSupportedCurrencyRepository struct {
	mock.Mock
}

func (m *MockSupportedCurrencyRepository) Upsert(ctx context.Context, q repository.DBExecutor, exchangerID, currencyID int64, customRate *decimal.Decimal) (*domain.SupportedCurrency, error) {
	args := m.Called(ctx, q, exchangerID, currencyID, customRate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SupportedCurrency), args.Error(1)
}

func (m *MockSupportedCurrencyRepository) Get(ctx context.Context, q repository.DBExecutor, exchangerID, currencyID int64) (*domain.SupportedCurrency, error) {
	args := m.Called(ctx, q, exchangerID, currencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SupportedCurrency), args.Error(1)
}

func (m *MockSupportedCurrencyRepository) ListActive(ctx context.Context, q repository.DBExecutor, exchangerID int64) ([]domain.SupportedCurrency, error) {
	args := m.Called(ctx, q, exchangerID)
	return args.Get(0).([]domain.SupportedCurrency), args.Error(1)
}

func (m *MockSupportedCurrencyRepository) Deactivate(ctx context.Context, q repository.DBExecutor, exchangerID, currencyID int64) error {
	args := m.Called(ctx, q, exchangerID, currencyID)
	return args.Error(0)
}

// MockProvinceRepository is a mock implementation of repository.ProvinceRepository.
type MockProvinceRepository struct {
	mock.Mock
}

func (m *MockProvinceRepository) ListActive(ctx context.Context, q repository.DBExecutor) ([]domain.Province, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Province), args.Error(1)
}

func (m *MockProvinceRepository) FindActiveByName(ctx context.Context, q repository.DBExecutor, name string) (*domain.Province, error) {
	args := m.Called(ctx, q, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Province), args.Error(1)
}

// MockCustomerRepository is a mock implementation of repository.CustomerRepository.
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, q repository.DBExecutor, account *domain.CustomerAccount) error {
	args := m.Called(ctx, q, account)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.CustomerAccount, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerAccount), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, q repository.DBExecutor, exchangerID int64, filter domain.CustomerAccountFilter) ([]domain.CustomerAccount, int64, error) {
	args := m.Called(ctx, q, exchangerID, filter)
	return args.Get(0).([]domain.CustomerAccount), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Deactivate(ctx context.Context, q repository.DBExecutor, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) RefreshSummary(ctx context.Context, q repository.DBExecutor, customerID int64, primaryCode string) error {
	args := m.Called(ctx, q, customerID, primaryCode)
	return args.Error(0)
}

// MockBalanceRepository is a mock implementation of repository.BalanceRepository.
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) EnsureCell(ctx context.Context, q repository.DBExecutor, customerID, currencyID int64) error {
	args := m.Called(ctx, q, customerID, currencyID)
	return args.Error(0)
}

func (m *MockBalanceRepository) GetCellForUpdate(ctx context.Context, q repository.DBExecutor, customerID, currencyID int64) (*domain.CustomerBalance, error) {
	args := m.Called(ctx, q, customerID, currencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerBalance), args.Error(1)
}

func (m *MockBalanceRepository) GetCell(ctx context.Context, q repository.DBExecutor, customerID, currencyID int64) (*domain.CustomerBalance, error) {
	args := m.Called(ctx, q, customerID, currencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerBalance), args.Error(1)
}

func (m *MockBalanceRepository) SetBalance(ctx context.Context, q repository.DBExecutor, cellID int64, balance decimal.Decimal) error {
	args := m.Called(ctx, q, cellID, balance)
	return args.Error(0)
}

func (m *MockBalanceRepository) ListByCustomer(ctx context.Context, q repository.DBExecutor, customerID int64) ([]domain.CustomerBalance, error) {
	args := m.Called(ctx, q, customerID)
	return args.Get(0).([]domain.CustomerBalance), args.Error(1)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, q repository.DBExecutor, transaction *domain.CustomerTransaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByCustomer(ctx context.Context, q repository.DBExecutor, customerID int64, filter domain.TransactionFilter) ([]domain.CustomerTransaction, int64, error) {
	args := m.Called(ctx, q, customerID, filter)
	return args.Get(0).([]domain.CustomerTransaction), args.Get(1).(int64), args.Error(2)
}

// MockHawalaRepository is a mock implementation of repository.HawalaRepository.
type MockHawalaRepository struct {
	mock.Mock
}

func (m *MockHawalaRepository) Create(ctx context.Context, q repository.DBExecutor, hawala *domain.SendHawala) error {
	args := m.Called(ctx, q, hawala)
	return args.Error(0)
}

func (m *MockHawalaRepository) GetByNumber(ctx context.Context, q repository.DBExecutor, number int64) (*domain.SendHawala, error) {
	args := m.Called(ctx, q, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SendHawala), args.Error(1)
}

func (m *MockHawalaRepository) GetByNumberForUpdate(ctx context.Context, q repository.DBExecutor, number int64) (*domain.SendHawala, error) {
	args := m.Called(ctx, q, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SendHawala), args.Error(1)
}

func (m *MockHawalaRepository) List(ctx context.Context, q repository.DBExecutor, filter domain.HawalaFilter) ([]domain.SendHawala, int64, error) {
	args := m.Called(ctx, q, filter)
	return args.Get(0).([]domain.SendHawala), args.Get(1).(int64), args.Error(2)
}

func (m *MockHawalaRepository) UpdateStatus(ctx context.Context, q repository.DBExecutor, id int64, status domain.HawalaStatus) error {
	args := m.Called(ctx, q, id, status)
	return args.Error(0)
}

// MockClaimRepository is a mock implementation of repository.ClaimRepository.
type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) Create(ctx context.Context, q repository.DBExecutor, claim *domain.ReceiveHawala) error {
	args := m.Called(ctx, q, claim)
	return args.Error(0)
}

func (m *MockClaimRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.ReceiveHawala, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiveHawala), args.Error(1)
}

func (m *MockClaimRepository) GetBySendHawalaID(ctx context.Context, q repository.DBExecutor, sendHawalaID int64) (*domain.ReceiveHawala, error) {
	args := m.Called(ctx, q, sendHawalaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiveHawala), args.Error(1)
}

func (m *MockClaimRepository) List(ctx context.Context, q repository.DBExecutor, filter domain.ClaimFilter) ([]domain.ReceiveHawala, int64, error) {
	args := m.Called(ctx, q, filter)
	return args.Get(0).([]domain.ReceiveHawala), args.Get(1).(int64), args.Error(2)
}

func (m *MockClaimRepository) MarkVerified(ctx context.Context, q repository.DBExecutor, id, exchangerID int64, at time.Time) error {
	args := m.Called(ctx, q, id, exchangerID, at)
	return args.Error(0)
}
