// internal/service/ledger_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/util"
)

type ledgerMocks struct {
	currencies   *MockCurrencyLookup
	exchangers   *MockExchangerRepository
	customers    *MockCustomerRepository
	balances     *MockBalanceRepository
	transactions *MockTransactionRepository
	executor     *MockDBExecutor
	tx           *MockTxController
}

func newLedgerMocks() *ledgerMocks {
	return &ledgerMocks{
		currencies:   new(MockCurrencyLookup),
		exchangers:   new(MockExchangerRepository),
		customers:    new(MockCustomerRepository),
		balances:     new(MockBalanceRepository),
		transactions: new(MockTransactionRepository),
		executor:     new(MockDBExecutor),
		tx:           new(MockTxController),
	}
}

func (m *ledgerMocks) service() LedgerService {
	begin, commit, rollback := txFuncs(m.tx)
	return NewLedgerService(
		new(MockDBBeginner),
		m.executor,
		m.currencies,
		m.exchangers,
		m.customers,
		m.balances,
		m.transactions,
		"usd",
		testLogger(),
		begin, commit, rollback,
	)
}

func (m *ledgerMocks) assertAll(t *testing.T) {
	mock.AssertExpectationsForObjects(t, m.currencies, m.exchangers, m.customers, m.balances, m.transactions, m.tx)
}

func TestDeposit(t *testing.T) {
	customerID := int64(11)
	eur := &domain.Currency{ID: 2, Code: "EUR", Symbol: "€", IsActive: true, ExchangeRate: decimal.RequireFromString("0.92")}
	customer := &domain.CustomerAccount{ID: customerID, ExchangerID: 1, IsActive: true}

	t.Run("CreatesCellAndJournals", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks()
		service := m.service()

		cell := &domain.CustomerBalance{ID: 5, CustomerID: customerID, CurrencyID: eur.ID, Balance: decimal.Zero, CurrencyCode: "EUR"}

		m.tx.On("Commit").Return(nil).Once()
		m.tx.On("Rollback").Return(nil).Maybe()
		m.currencies.On("Resolve", ctx, domain.CurrencyByCode("EUR")).Return(eur, nil).Once()
		m.customers.On("GetByID", ctx, m.tx, customerID).Return(customer, nil).Once()
		m.balances.On("EnsureCell", ctx, m.tx, customerID, eur.ID).Return(nil).Once()
		m.balances.On("GetCellForUpdate", ctx, m.tx, customerID, eur.ID).Return(cell, nil).Once()
		m.balances.On("SetBalance", ctx, m.tx, int64(5), decEq("100")).Return(nil).Once()
		m.transactions.On("Create", ctx, m.tx, mock.AnythingOfType("*domain.CustomerTransaction")).Return(nil).Once()
		m.customers.On("RefreshSummary", ctx, m.tx, customerID, "USD").Return(nil).Once()

		balance, entry, err := service.Deposit(ctx, customerID, domain.CurrencyByCode("EUR"), decimal.NewFromInt(100), "cash in")

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(100).Equal(balance.Balance))
		assert.Equal(t, domain.TransactionTypeDeposit, entry.Type)
		assert.True(t, decimal.NewFromInt(100).Equal(entry.Amount))
		assert.True(t, decimal.NewFromInt(100).Equal(entry.BalanceAfter))
		assert.Equal(t, "EUR", entry.CurrencyCode)
		m.assertAll(t)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		m := newLedgerMocks()
		service := m.service()

		for _, amount := range []string{"0", "-10", "0.004", "0.005", "10.005"} {
			balance, entry, err := service.Deposit(context.Background(), customerID, domain.CurrencyByCode("EUR"), decimal.RequireFromString(amount), "")

			assert.ErrorIs(t, err, util.ErrInvalidAmount, amount)
			assert.Nil(t, balance)
			assert.Nil(t, entry)
		}

		m.currencies.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
		m.tx.AssertNotCalled(t, "Commit")
		m.tx.AssertNotCalled(t, "Rollback")
	})

	t.Run("AmbiguousCurrency", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks()
		service := m.service()

		ambiguous := util.NewFieldError(util.ErrAmbiguousReference, "currency_symbol", "symbol matches IRR, SAR")
		m.currencies.On("Resolve", ctx, domain.CurrencyBySymbol("﷼")).Return(nil, ambiguous).Once()

		_, _, err := service.Deposit(ctx, customerID, domain.CurrencyBySymbol("﷼"), decimal.NewFromInt(10), "")

		assert.ErrorIs(t, err, util.ErrAmbiguousReference)
		m.tx.AssertNotCalled(t, "Commit")
		m.assertAll(t)
	})

	t.Run("InactiveCustomer", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks()
		service := m.service()

		inactive := &domain.CustomerAccount{ID: customerID, IsActive: false}

		m.tx.On("Rollback").Return(nil).Once()
		m.currencies.On("Resolve", ctx, domain.CurrencyByCode("EUR")).Return(eur, nil).Once()
		m.customers.On("GetByID", ctx, m.tx, customerID).Return(inactive, nil).Once()

		_, _, err := service.Deposit(ctx, customerID, domain.CurrencyByCode("EUR"), decimal.NewFromInt(10), "")

		assert.ErrorIs(t, err, util.ErrInvalidState)
		m.tx.AssertNotCalled(t, "Commit")
		m.assertAll(t)
	})

	t.Run("JournalFailureRollsBack", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks()
		service := m.service()

		cell := &domain.CustomerBalance{ID: 5, CustomerID: customerID, CurrencyID: eur.ID, Balance: decimal.NewFromInt(20)}

		m.tx.On("Rollback").Return(nil).Once()
		m.currencies.On("Resolve", ctx, domain.CurrencyByCode("EUR")).Return(eur, nil).Once()
		m.customers.On("GetByID", ctx, m.tx, customerID).Return(customer, nil).Once()
		m.balances.On("EnsureCell", ctx, m.tx, customerID, eur.ID).Return(nil).Once()
		m.balances.On("GetCellForUpdate", ctx, m.tx, customerID, eur.ID).Return(cell, nil).Once()
		m.balances.On("SetBalance", ctx, m.tx, int64(5), decEq("30")).Return(nil).Once()
		m.transactions.On("Create", ctx, m.tx, mock.Anything).Return(errors.New("db error")).Once()

		_, _, err := service.Deposit(ctx, customerID, domain.CurrencyByCode("EUR"), decimal.NewFromInt(10), "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create transaction")
		m.tx.AssertNotCalled(t, "Commit")
		m.customers.AssertNotCalled(t, "RefreshSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertAll(t)
	})
}

func TestWithdraw(t *testing.T) {
	customerID := int64(11)
	eur := &domain.Currency{ID: 2, Code: "EUR", IsActive: true, ExchangeRate: decimal.RequireFromString("0.92")}
	customer := &domain.CustomerAccount{ID: customerID, ExchangerID: 1, IsActive: true}

	t.Run("RejectsExtraDecimalPlaces", func(t *testing.T) {
		m := newLedgerMocks()
		service := m.service()

		for _, amount := range []string{"10.005", "99.999"} {
			balance, entry, err := service.Withdraw(context.Background(), customerID, domain.CurrencyByCode("EUR"), decimal.RequireFromString(amount), "")

			assert.ErrorIs(t, err, util.ErrInvalidAmount, amount)
			assert.Contains(t, util.Message(err), "at most 2 decimal places", amount)
			assert.Nil(t, balance)
			assert.Nil(t, entry)
		}

		m.currencies.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
		m.balances.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks()
		service := m.service()

		cell := &domain.CustomerBalance{ID: 5, CustomerID: customerID, CurrencyID: eur.ID, Balance: decimal.NewFromInt(100), CurrencyCode: "EUR"}

		m.tx.On("Commit").Return(nil).Once()
		m.tx.On("Rollback").Return(nil).Maybe()
		m.currencies.On("Resolve", ctx, domain.CurrencyByCode("EUR")).Return(eur, nil).Once()
		m.customers.On("GetByID", ctx, m.tx, customerID).Return(customer, nil).Once()
		m.balances.On("GetCellForUpdate", ctx, m.tx, customerID, eur.ID).Return(cell, nil).Once()
		m.balances.On("SetBalance", ctx, m.tx, int64(5), decEq("70")).Return(nil).Once()
		m.transactions.On("Create", ctx, m.tx, mock.AnythingOfType("*domain.CustomerTransaction")).Return(nil).Once()
		m.customers.On("RefreshSummary", ctx, m.tx, customerID, "USD").Return(nil).Once()

		balance, entry, err := service.Withdraw(ctx, customerID, domain.CurrencyByCode("EUR"), decimal.NewFromInt(30), "")

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(70).Equal(balance.Balance))
		assert.Equal(t, domain.TransactionTypeWithdrawal, entry.Type)
		assert.True(t, decimal.NewFromInt(-30).Equal(entry.Amount))
		assert.True(t, decimal.NewFromInt(70).Equal(entry.BalanceAfter))
		m.balances.AssertNotCalled(t, "EnsureCell", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertAll(t)
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks()
		service := m.service()

		cell := &domain.CustomerBalance{ID: 5, CustomerID: customerID, CurrencyID: eur.ID, Balance: decimal.NewFromInt(40)}

		m.tx.On("Rollback").Return(nil).Once()
		m.currencies.On("Resolve", ctx, domain.CurrencyByCode("EUR")).Return(eur, nil).Once()
		m.customers.On("GetByID", ctx, m.tx, customerID).Return(customer, nil).Once()
		m.balances.On("GetCellForUpdate", ctx, m.tx, customerID, eur.ID).Return(cell, nil).Once()

		_, _, err := service.Withdraw(ctx, customerID, domain.CurrencyByCode("EUR"), decimal.NewFromInt(60), "")

		assert.ErrorIs(t, err, util.ErrInsufficientBalance)
		m.balances.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		m.tx.AssertNotCalled(t, "Commit")
		m.assertAll(t)
	})

	t.Run("NoCellIsInsufficient", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks()
		service := m.service()

		m.tx.On("Rollback").Return(nil).Once()
		m.currencies.On("Resolve", ctx, domain.CurrencyByCode("EUR")).Return(eur, nil).Once()
		m.customers.On("GetByID", ctx, m.tx, customerID).Return(customer, nil).Once()
		m.balances.On("GetCellForUpdate", ctx, m.tx, customerID, eur.ID).Return(nil, util.ErrNotFound).Once()

		_, _, err := service.Withdraw(ctx, customerID, domain.CurrencyByCode("EUR"), decimal.NewFromInt(1), "")

		assert.ErrorIs(t, err, util.ErrInsufficientBalance)
		assert.False(t, errors.Is(err, util.ErrNotFound))
		m.assertAll(t)
	})

	t.Run("CustomerNotFound", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks()
		service := m.service()

		m.tx.On("Rollback").Return(nil).Once()
		m.currencies.On("Resolve", ctx, domain.CurrencyByCode("EUR")).Return(eur, nil).Once()
		m.customers.On("GetByID", ctx, m.tx, customerID).Return(nil, util.ErrNotFound).Once()

		_, _, err := service.Withdraw(ctx, customerID, domain.CurrencyByCode("EUR"), decimal.NewFromInt(1), "")

		assert.ErrorIs(t, err, util.ErrNotFound)
		m.assertAll(t)
	})
}

func TestGetBalance(t *testing.T) {
	customerID := int64(11)
	afn := &domain.Currency{ID: 4, Code: "AFN", Symbol: "؋", IsActive: true}

	t.Run("MissingCellIsZero", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks()
		service := m.service()

		m.currencies.On("Resolve", ctx, domain.CurrencyByCode("AFN")).Return(afn, nil).Once()
		m.balances.On("GetCell", ctx, m.executor, customerID, afn.ID).Return(nil, util.ErrNotFound).Once()
		m.customers.On("GetByID", ctx, m.executor, customerID).Return(&domain.CustomerAccount{ID: customerID, IsActive: true}, nil).Once()

		cell, err := service.GetBalance(ctx, customerID, domain.CurrencyByCode("AFN"))

		require.NoError(t, err)
		assert.True(t, cell.Balance.IsZero())
		assert.Equal(t, "AFN", cell.CurrencyCode)
		m.assertAll(t)
	})

	t.Run("UnknownCustomer", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks()
		service := m.service()

		m.currencies.On("Resolve", ctx, domain.CurrencyByCode("AFN")).Return(afn, nil).Once()
		m.balances.On("GetCell", ctx, m.executor, customerID, afn.ID).Return(nil, util.ErrNotFound).Once()
		m.customers.On("GetByID", ctx, m.executor, customerID).Return(nil, util.ErrNotFound).Once()

		_, err := service.GetBalance(ctx, customerID, domain.CurrencyByCode("AFN"))

		assert.ErrorIs(t, err, util.ErrNotFound)
	})
}

func TestGetTransactionHistory(t *testing.T) {
	ctx := context.Background()
	m := newLedgerMocks()
	service := m.service()
	customerID := int64(11)

	entries := []domain.CustomerTransaction{
		{ID: 2, CustomerID: customerID, Type: domain.TransactionTypeWithdrawal, Amount: decimal.NewFromInt(-30)},
		{ID: 1, CustomerID: customerID, Type: domain.TransactionTypeDeposit, Amount: decimal.NewFromInt(100)},
	}

	m.customers.On("GetByID", ctx, m.executor, customerID).Return(&domain.CustomerAccount{ID: customerID}, nil).Once()
	m.transactions.On("ListByCustomer", ctx, m.executor, customerID, domain.TransactionFilter{Limit: maxPageSize, Offset: 0}).
		Return(entries, int64(2), nil).Once()

	list, total, err := service.GetTransactionHistory(ctx, customerID, domain.TransactionFilter{Limit: 500, Offset: -3})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)
	m.assertAll(t)
}

func TestCreateCustomerAccount(t *testing.T) {
	t.Run("RequiresAccountNumber", func(t *testing.T) {
		m := newLedgerMocks()
		service := m.service()

		_, err := service.CreateCustomerAccount(context.Background(), CreateCustomerInput{ExchangerID: 1, FullName: "Ahmad"})

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		m.exchangers.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("DuplicateAccountNumber", func(t *testing.T) {
		ctx := context.Background()
		m := newLedgerMocks()
		service := m.service()

		dup := util.NewFieldError(util.ErrDuplicateEntry, "customer_accounts_exchanger_id_account_number_key", "account exists")
		m.exchangers.On("GetByID", ctx, m.executor, int64(1)).Return(&domain.Exchanger{ID: 1}, nil).Once()
		m.customers.On("Create", ctx, m.executor, mock.AnythingOfType("*domain.CustomerAccount")).Return(dup).Once()

		_, err := service.CreateCustomerAccount(ctx, CreateCustomerInput{ExchangerID: 1, AccountNumber: "A-100", FullName: "Ahmad"})

		assert.ErrorIs(t, err, util.ErrDuplicateEntry)
		m.assertAll(t)
	})
}
