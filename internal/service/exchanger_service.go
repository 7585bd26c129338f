// internal/service/exchanger_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"hawala-backoffice/internal/conversion"
	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/repository"
	"hawala-backoffice/internal/util"
)

// CreateExchangerInput carries the fields of a new exchanger profile.
type CreateExchangerInput struct {
	Name         string
	LastName     string
	Phone        string
	Email        string
	Password     string
	LicenseNo    string
	ExchangeName *string
	Address      string
}

// ExchangerService manages exchanger profiles, the currencies each exchanger
// trades and the province directory.
type ExchangerService interface {
	CreateExchanger(ctx context.Context, input CreateExchangerInput) (*domain.Exchanger, error)
	GetExchanger(ctx context.Context, exchangerID int64) (*domain.Exchanger, error)
	Authenticate(ctx context.Context, email, password string) (*domain.Exchanger, error)
	AddSupportedCurrency(ctx context.Context, exchangerID int64, ref domain.CurrencyRef, customRate *decimal.Decimal) (*domain.SupportedCurrency, error)
	RemoveSupportedCurrency(ctx context.Context, exchangerID int64, ref domain.CurrencyRef) error
	ListSupportedCurrencies(ctx context.Context, exchangerID int64) ([]domain.SupportedCurrency, error)
	EffectiveRate(ctx context.Context, exchangerID int64, ref domain.CurrencyRef) (*domain.SupportedCurrency, decimal.Decimal, error)
	Quote(ctx context.Context, exchangerID int64, amount decimal.Decimal, from, to domain.CurrencyRef) (conversion.Result, error)
	ListProvinces(ctx context.Context) ([]domain.Province, error)
}

type exchangerService struct {
	dbExecutor    repository.DBExecutor
	currencies    CurrencyLookup
	exchangerRepo repository.ExchangerRepository
	supportedRepo repository.SupportedCurrencyRepository
	provinceRepo  repository.ProvinceRepository
	bcryptCost    int
	logger        *slog.Logger
}

// NewExchangerService creates a new ExchangerService. A bcryptCost outside
// bcrypt's accepted range falls back to bcrypt.DefaultCost.
func NewExchangerService(
	dbExecutor repository.DBExecutor,
	currencies CurrencyLookup,
	exchangerRepo repository.ExchangerRepository,
	supportedRepo repository.SupportedCurrencyRepository,
	provinceRepo repository.ProvinceRepository,
	bcryptCost int,
	logger *slog.Logger,
) ExchangerService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &exchangerService{
		dbExecutor:    dbExecutor,
		currencies:    currencies,
		exchangerRepo: exchangerRepo,
		supportedRepo: supportedRepo,
		provinceRepo:  provinceRepo,
		bcryptCost:    bcryptCost,
		logger:        logger,
	}
}

func (s *exchangerService) CreateExchanger(ctx context.Context, input CreateExchangerInput) (*domain.Exchanger, error) {
	if problems := domain.PasswordProblems(input.Password); len(problems) > 0 {
		return nil, util.NewFieldError(util.ErrInvalidInput, "password",
			"password must contain "+strings.Join(problems, ", "))
	}

	e := domain.NewExchanger(input.Name, input.LastName, input.Phone, input.Email, input.LicenseNo, input.Address)
	if e.Name == "" || e.Email == "" || e.Phone == "" || e.LicenseNo == "" {
		return nil, util.NewFieldError(util.ErrInvalidInput, "", "name, phone, email and license number are required")
	}
	if input.ExchangeName != nil {
		name := strings.TrimSpace(*input.ExchangeName)
		e.ExchangeName = &name
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("create exchanger: failed to hash password: %w", err)
	}
	e.PasswordHash = string(hash)

	if err := s.exchangerRepo.Create(ctx, s.dbExecutor, e); err != nil {
		return nil, fmt.Errorf("create exchanger: %w", err)
	}
	s.logger.Info("exchanger registered", "exchanger_id", e.ID, "email", e.Email)
	return e, nil
}

func (s *exchangerService) GetExchanger(ctx context.Context, exchangerID int64) (*domain.Exchanger, error) {
	e, err := s.exchangerRepo.GetByID(ctx, s.dbExecutor, exchangerID)
	if err != nil {
		return nil, fmt.Errorf("get exchanger %d: %w", exchangerID, err)
	}
	return e, nil
}

// Authenticate checks credentials. Unknown email, inactive profile and wrong
// password all return util.ErrUnauthorized.
func (s *exchangerService) Authenticate(ctx context.Context, email, password string) (*domain.Exchanger, error) {
	e, err := s.exchangerRepo.GetByEmail(ctx, s.dbExecutor, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUnauthorized
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !e.IsActive {
		return nil, util.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug("password mismatch", "exchanger_id", e.ID)
		return nil, util.ErrUnauthorized
	}
	return e, nil
}

// AddSupportedCurrency links a currency to the exchanger, reactivating a
// removed link. The custom rate is replaced on every call; nil clears it.
func (s *exchangerService) AddSupportedCurrency(ctx context.Context, exchangerID int64, ref domain.CurrencyRef, customRate *decimal.Decimal) (*domain.SupportedCurrency, error) {
	if customRate != nil {
		if !customRate.IsPositive() {
			return nil, util.NewFieldError(util.ErrInvalidCurrencyRate, "custom_rate", "custom rate must be greater than zero")
		}
		rounded := customRate.Round(domain.RateScale)
		customRate = &rounded
	}
	if _, err := s.exchangerRepo.GetByID(ctx, s.dbExecutor, exchangerID); err != nil {
		return nil, fmt.Errorf("add supported currency: exchanger %d: %w", exchangerID, err)
	}
	currency, err := s.currencies.Resolve(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("add supported currency: %w", err)
	}

	sc, err := s.supportedRepo.Upsert(ctx, s.dbExecutor, exchangerID, currency.ID, customRate)
	if err != nil {
		return nil, fmt.Errorf("add supported currency: %w", err)
	}
	return sc, nil
}

func (s *exchangerService) RemoveSupportedCurrency(ctx context.Context, exchangerID int64, ref domain.CurrencyRef) error {
	currency, err := s.currencies.Resolve(ctx, ref)
	if err != nil {
		return fmt.Errorf("remove supported currency: %w", err)
	}
	if err := s.supportedRepo.Deactivate(ctx, s.dbExecutor, exchangerID, currency.ID); err != nil {
		return fmt.Errorf("remove supported currency %s: %w", currency.Code, err)
	}
	return nil
}

func (s *exchangerService) ListSupportedCurrencies(ctx context.Context, exchangerID int64) ([]domain.SupportedCurrency, error) {
	if _, err := s.exchangerRepo.GetByID(ctx, s.dbExecutor, exchangerID); err != nil {
		return nil, fmt.Errorf("list supported currencies: exchanger %d: %w", exchangerID, err)
	}
	list, err := s.supportedRepo.ListActive(ctx, s.dbExecutor, exchangerID)
	if err != nil {
		return nil, fmt.Errorf("list supported currencies: %w", err)
	}
	return list, nil
}

// EffectiveRate returns the exchanger's link to the currency and the rate it
// trades at. A currency the exchanger does not actively support is NotFound.
func (s *exchangerService) EffectiveRate(ctx context.Context, exchangerID int64, ref domain.CurrencyRef) (*domain.SupportedCurrency, decimal.Decimal, error) {
	currency, err := s.currencies.Resolve(ctx, ref)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("effective rate: %w", err)
	}
	sc, err := s.supportedRepo.Get(ctx, s.dbExecutor, exchangerID, currency.ID)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("effective rate: %w", err)
	}
	if !sc.IsActive {
		return nil, decimal.Zero, util.NewFieldError(util.ErrNotFound, ref.Field(),
			fmt.Sprintf("exchanger %d does not support %s", exchangerID, currency.Code))
	}
	return sc, sc.EffectiveRate(), nil
}

// Quote converts amount using the exchanger's effective rates for the
// currencies it supports and registry rates for the rest.
func (s *exchangerService) Quote(ctx context.Context, exchangerID int64, amount decimal.Decimal, fromRef, toRef domain.CurrencyRef) (conversion.Result, error) {
	amount, err := validAmount(amount)
	if err != nil {
		return conversion.Result{}, err
	}
	from, err := s.currencies.Resolve(ctx, fromRef)
	if err != nil {
		return conversion.Result{}, fmt.Errorf("quote: source currency: %w", err)
	}
	to, err := s.currencies.Resolve(ctx, toRef)
	if err != nil {
		return conversion.Result{}, fmt.Errorf("quote: target currency: %w", err)
	}
	def, err := s.currencies.GetDefault(ctx)
	if err != nil {
		return conversion.Result{}, fmt.Errorf("quote: default currency: %w", err)
	}

	supported, err := s.ListSupportedCurrencies(ctx, exchangerID)
	if err != nil {
		return conversion.Result{}, fmt.Errorf("quote: %w", err)
	}
	overrides := make(map[int64]decimal.Decimal, len(supported))
	for i := range supported {
		overrides[supported[i].CurrencyID] = supported[i].EffectiveRate()
	}

	converted, err := conversion.Quote(amount, *from, *to, def, overrides)
	if err != nil {
		return conversion.Result{}, err
	}
	res := conversion.Result{
		Amount:    amount,
		From:      from.Code,
		To:        to.Code,
		Converted: domain.RoundAmount(converted),
	}
	if def != nil {
		res.DefaultCurrency = def.Code
	}
	return res, nil
}

func (s *exchangerService) ListProvinces(ctx context.Context) ([]domain.Province, error) {
	provinces, err := s.provinceRepo.ListActive(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list provinces: %w", err)
	}
	return provinces, nil
}
