// internal/service/currency_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/repository"
	"hawala-backoffice/internal/util"
	"hawala-backoffice/pkg/db"
)

// CreateCurrencyInput carries the fields of a new registry entry.
type CreateCurrencyInput struct {
	Code         string
	Name         string
	Symbol       string
	ExchangeRate decimal.Decimal
	IsPopular    bool
	IsDefault    bool
}

// CurrencyService is the currency registry. It owns the single-default
// invariant and resolves currency references.
type CurrencyService interface {
	CurrencyLookup
	GetActive(ctx context.Context) ([]domain.Currency, error)
	List(ctx context.Context) ([]domain.Currency, error)
	SetDefault(ctx context.Context, code string) (*domain.Currency, error)
	Activate(ctx context.Context, code string) (*domain.Currency, error)
	Deactivate(ctx context.Context, code string) (*domain.Currency, error)
	Create(ctx context.Context, input CreateCurrencyInput) (*domain.Currency, error)
	UpdateRate(ctx context.Context, code string, rate decimal.Decimal) (*domain.Currency, error)
}

type currencyService struct {
	dbBeginner   db.DBTxBeginner
	dbExecutor   repository.DBExecutor
	currencyRepo repository.CurrencyRepository
	logger       *slog.Logger
	beginTx      db.BeginTxFunc
	commitTx     db.CommitTxFunc
	rollbackTx   db.RollbackTxFunc
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	currencyRepo repository.CurrencyRepository,
	logger *slog.Logger,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) CurrencyService {
	return &currencyService{
		dbBeginner:   dbBeginner,
		dbExecutor:   dbExecutor,
		currencyRepo: currencyRepo,
		logger:       logger,
		beginTx:      beginTx,
		commitTx:     commitTx,
		rollbackTx:   rollbackTx,
	}
}

// GetDefault returns nil without error when no default is configured.
func (s *currencyService) GetDefault(ctx context.Context) (*domain.Currency, error) {
	c, err := s.currencyRepo.GetDefault(ctx, s.dbExecutor)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get default currency: %w", err)
	}
	return c, nil
}

func (s *currencyService) GetActive(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.List(ctx, s.dbExecutor, true)
	if err != nil {
		return nil, fmt.Errorf("get active currencies: %w", err)
	}
	return currencies, nil
}

func (s *currencyService) List(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.List(ctx, s.dbExecutor, false)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	return currencies, nil
}

// GetByID returns the currency whatever its state, for detail views of
// historical records.
func (s *currencyService) GetByID(ctx context.Context, id int64) (*domain.Currency, error) {
	c, err := s.currencyRepo.GetByID(ctx, s.dbExecutor, id, false)
	if err != nil {
		return nil, fmt.Errorf("get currency %d: %w", id, err)
	}
	return c, nil
}

// Resolve finds an active currency by code (case-insensitive), symbol or id.
// Inactive currencies are reported as not found.
func (s *currencyService) Resolve(ctx context.Context, ref domain.CurrencyRef) (*domain.Currency, error) {
	switch ref.Kind {
	case domain.CurrencyRefByCode:
		c, err := s.currencyRepo.GetByCode(ctx, s.dbExecutor, ref.Code, true)
		if err != nil {
			return nil, notFoundAs(err, ref, "invalid or inactive currency code")
		}
		return c, nil

	case domain.CurrencyRefBySymbol:
		matches, err := s.currencyRepo.FindActiveBySymbol(ctx, s.dbExecutor, ref.Symbol)
		if err != nil {
			return nil, fmt.Errorf("resolve currency %s: %w", ref, err)
		}
		switch len(matches) {
		case 0:
			return nil, util.NewFieldError(util.ErrNotFound, ref.Field(), "invalid or inactive currency symbol")
		case 1:
			return &matches[0], nil
		default:
			codes := make([]string, 0, len(matches))
			for _, m := range matches {
				codes = append(codes, m.Code)
			}
			return nil, util.NewFieldError(util.ErrAmbiguousReference, ref.Field(),
				fmt.Sprintf("symbol %s matches %s; provide currency_code to disambiguate", ref.Symbol, strings.Join(codes, ", ")))
		}

	case domain.CurrencyRefByID:
		c, err := s.currencyRepo.GetByID(ctx, s.dbExecutor, ref.ID, true)
		if err != nil {
			return nil, notFoundAs(err, ref, "invalid or inactive currency id")
		}
		return c, nil

	default:
		return nil, util.NewFieldError(util.ErrInvalidInput, ref.Field(), "provide currency_code, currency_symbol or currency_id")
	}
}

// ResolveOrDefault resolves ref, or returns the current default when ref is
// empty. The result is nil when ref is empty and no default exists.
func (s *currencyService) ResolveOrDefault(ctx context.Context, ref domain.CurrencyRef) (*domain.Currency, error) {
	if ref.IsZero() {
		return s.GetDefault(ctx)
	}
	return s.Resolve(ctx, ref)
}

func (s *currencyService) SetDefault(ctx context.Context, code string) (*domain.Currency, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("set default: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("set default: transaction controller does not implement DBExecutor")
	}

	if err := s.currencyRepo.LockDefault(ctx, txExecutor); err != nil {
		return nil, fmt.Errorf("set default: %w", err)
	}

	c, err := s.currencyRepo.GetByCodeForUpdate(ctx, txExecutor, code)
	if err != nil {
		return nil, notFoundAs(err, domain.CurrencyByCode(code), "unknown currency code")
	}
	if !c.IsActive {
		return nil, util.NewFieldError(util.ErrInvalidState, "currency_code", "cannot set an inactive currency as default")
	}

	if !c.IsDefault {
		if err := s.currencyRepo.SetDefault(ctx, txExecutor, c.ID); err != nil {
			return nil, fmt.Errorf("set default: %w", err)
		}
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("set default: failed to commit transaction: %w", err)
	}

	c.IsDefault = true
	s.warnOnDefaultRate(c)
	s.logger.Info("default currency changed", "code", c.Code)
	return c, nil
}

func (s *currencyService) Activate(ctx context.Context, code string) (*domain.Currency, error) {
	c, err := s.currencyRepo.GetByCode(ctx, s.dbExecutor, code, false)
	if err != nil {
		return nil, notFoundAs(err, domain.CurrencyByCode(code), "unknown currency code")
	}
	if c.IsActive {
		return c, nil
	}
	if err := s.currencyRepo.SetActive(ctx, s.dbExecutor, c.ID, true); err != nil {
		return nil, fmt.Errorf("activate currency %s: %w", c.Code, err)
	}
	c.IsActive = true
	return c, nil
}

// Deactivate hides a currency from resolution. The row lock taken here
// serializes with SetDefault on the same currency.
func (s *currencyService) Deactivate(ctx context.Context, code string) (*domain.Currency, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("deactivate: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("deactivate: transaction controller does not implement DBExecutor")
	}

	c, err := s.currencyRepo.GetByCodeForUpdate(ctx, txExecutor, code)
	if err != nil {
		return nil, notFoundAs(err, domain.CurrencyByCode(code), "unknown currency code")
	}
	if c.IsDefault {
		return nil, util.NewFieldError(util.ErrInvalidState, "currency_code", "cannot deactivate default currency")
	}
	if !c.IsActive {
		return c, nil
	}

	if err := s.currencyRepo.SetActive(ctx, txExecutor, c.ID, false); err != nil {
		return nil, fmt.Errorf("deactivate: %w", err)
	}
	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("deactivate: failed to commit transaction: %w", err)
	}

	c.IsActive = false
	return c, nil
}

func (s *currencyService) Create(ctx context.Context, input CreateCurrencyInput) (*domain.Currency, error) {
	c := domain.NewCurrency(input.Code, input.Name, input.Symbol, input.ExchangeRate)
	c.IsPopular = input.IsPopular
	if len(c.Code) != 3 {
		return nil, util.NewFieldError(util.ErrInvalidInput, "code", "currency code must have 3 letters")
	}
	if c.Name == "" || c.Symbol == "" {
		return nil, util.NewFieldError(util.ErrInvalidInput, "name", "name and symbol are required")
	}
	if !c.ExchangeRate.IsPositive() {
		return nil, util.NewFieldError(util.ErrInvalidCurrencyRate, "exchange_rate", "exchange rate must be greater than zero")
	}
	c.ExchangeRate = c.ExchangeRate.Round(domain.RateScale)

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create currency: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create currency: transaction controller does not implement DBExecutor")
	}

	if err := s.currencyRepo.Create(ctx, txExecutor, c); err != nil {
		return nil, fmt.Errorf("create currency: %w", err)
	}
	if input.IsDefault {
		if err := s.currencyRepo.LockDefault(ctx, txExecutor); err != nil {
			return nil, fmt.Errorf("create currency: %w", err)
		}
		if err := s.currencyRepo.SetDefault(ctx, txExecutor, c.ID); err != nil {
			return nil, fmt.Errorf("create currency: %w", err)
		}
		c.IsDefault = true
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create currency: failed to commit transaction: %w", err)
	}

	if c.IsDefault {
		s.warnOnDefaultRate(c)
	}
	s.logger.Info("currency created", "code", c.Code, "default", c.IsDefault)
	return c, nil
}

func (s *currencyService) UpdateRate(ctx context.Context, code string, rate decimal.Decimal) (*domain.Currency, error) {
	if !rate.IsPositive() {
		return nil, util.NewFieldError(util.ErrInvalidCurrencyRate, "exchange_rate", "exchange rate must be greater than zero")
	}
	rate = rate.Round(domain.RateScale)

	c, err := s.currencyRepo.GetByCode(ctx, s.dbExecutor, code, false)
	if err != nil {
		return nil, notFoundAs(err, domain.CurrencyByCode(code), "unknown currency code")
	}
	if err := s.currencyRepo.UpdateRate(ctx, s.dbExecutor, c.ID, rate); err != nil {
		return nil, fmt.Errorf("update rate of %s: %w", c.Code, err)
	}

	c.ExchangeRate = rate
	if c.IsDefault {
		s.warnOnDefaultRate(c)
	}
	return c, nil
}

// warnOnDefaultRate flags a default currency whose own rate is not 1.
// Rates of other currencies are expressed against it, so the value is the
// caller's responsibility.
func (s *currencyService) warnOnDefaultRate(c *domain.Currency) {
	if !c.ExchangeRate.Equal(decimal.NewFromInt(1)) {
		s.logger.Warn("default currency rate is not 1", "code", c.Code, "exchange_rate", c.ExchangeRate)
	}
}

func notFoundAs(err error, ref domain.CurrencyRef, message string) error {
	if errors.Is(err, util.ErrNotFound) {
		return util.NewFieldError(util.ErrNotFound, ref.Field(), message)
	}
	return fmt.Errorf("resolve currency %s: %w", ref, err)
}
