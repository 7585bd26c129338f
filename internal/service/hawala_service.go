// internal/service/hawala_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/repository"
	"hawala-backoffice/internal/util"
	"hawala-backoffice/pkg/db"
)

// CreateTransferInput carries the fields of a new send-side transfer. Empty
// currency references fall back to the registry default.
type CreateTransferInput struct {
	HawalaNumber      int64
	SenderName        string
	ReceiverName      string
	SenderPhone       string
	Amount            decimal.Decimal
	Currency          domain.CurrencyRef
	HawalaFee         *decimal.Decimal
	FeeCurrency       domain.CurrencyRef
	ReceiverLocation  string
	ExchangerLocation string
	Status            domain.HawalaStatus
}

// TransferDetails is a transfer together with its value in the default currency.
type TransferDetails struct {
	Hawala                  *domain.SendHawala `json:"hawala"`
	Currency                *domain.Currency   `json:"currency,omitempty"`
	FeeCurrency             *domain.Currency   `json:"hawala_fee_currency,omitempty"`
	// AmountInDefaultCurrency is the amount multiplied by the transfer
	// currency's rate. It does not go through conversion.Convert, which
	// divides by the source rate, so with a EUR rate of 0.92 a 100 EUR
	// transfer shows 92 here but converts to 108.70.
	AmountInDefaultCurrency decimal.Decimal    `json:"amount_in_default_currency"`
	// FeeInDefaultCurrency follows the same multiply rule for the fee.
	FeeInDefaultCurrency    decimal.Decimal    `json:"fee_in_default_currency"`
	DefaultCurrency         string             `json:"default_currency,omitempty"`
	Claimed                 bool               `json:"claimed"`
}

// HawalaService manages send-side transfers and their one-time claims.
type HawalaService interface {
	CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.SendHawala, error)
	GetTransfer(ctx context.Context, hawalaNumber int64) (*TransferDetails, error)
	ListTransfers(ctx context.Context, filter domain.HawalaFilter) ([]domain.SendHawala, int64, error)
	UpdateTransferStatus(ctx context.Context, hawalaNumber int64, status domain.HawalaStatus) (*domain.SendHawala, error)
	ClaimTransfer(ctx context.Context, hawalaNumber int64, details domain.ReceiverDetails) (*domain.ReceiveHawala, error)
	GetClaim(ctx context.Context, claimID int64) (*domain.ReceiveHawala, error)
	ListClaims(ctx context.Context, filter domain.ClaimFilter) ([]domain.ReceiveHawala, int64, error)
	VerifyClaim(ctx context.Context, claimID, exchangerID int64) (*domain.ReceiveHawala, error)
}

type hawalaService struct {
	dbBeginner    db.DBTxBeginner
	dbExecutor    repository.DBExecutor
	currencies    CurrencyLookup
	hawalaRepo    repository.HawalaRepository
	claimRepo     repository.ClaimRepository
	provinceRepo  repository.ProvinceRepository
	exchangerRepo repository.ExchangerRepository
	numberRetries int
	logger        *slog.Logger
	beginTx       db.BeginTxFunc
	commitTx      db.CommitTxFunc
	rollbackTx    db.RollbackTxFunc
}

// NewHawalaService creates a new HawalaService. numberRetries bounds how many
// times an auto-numbered insert is retried after losing a number race.
func NewHawalaService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	currencies CurrencyLookup,
	hawalaRepo repository.HawalaRepository,
	claimRepo repository.ClaimRepository,
	provinceRepo repository.ProvinceRepository,
	exchangerRepo repository.ExchangerRepository,
	numberRetries int,
	logger *slog.Logger,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) HawalaService {
	if numberRetries < 1 {
		numberRetries = 1
	}
	return &hawalaService{
		dbBeginner:    dbBeginner,
		dbExecutor:    dbExecutor,
		currencies:    currencies,
		hawalaRepo:    hawalaRepo,
		claimRepo:     claimRepo,
		provinceRepo:  provinceRepo,
		exchangerRepo: exchangerRepo,
		numberRetries: numberRetries,
		logger:        logger,
		beginTx:       beginTx,
		commitTx:      commitTx,
		rollbackTx:    rollbackTx,
	}
}

func (s *hawalaService) CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.SendHawala, error) {
	if input.HawalaNumber < 0 {
		return nil, util.NewFieldError(util.ErrInvalidInput, "hawala_number", "hawala number must be positive")
	}
	amount, err := validAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.SenderName) == "" || strings.TrimSpace(input.ReceiverName) == "" {
		return nil, util.NewFieldError(util.ErrInvalidInput, "sender_name", "sender and receiver names are required")
	}
	var fee *decimal.Decimal
	if input.HawalaFee != nil {
		if input.HawalaFee.IsNegative() {
			return nil, util.NewFieldError(util.ErrInvalidAmount, "hawala_fee", "hawala fee cannot be negative")
		}
		if err := checkScale(*input.HawalaFee, "hawala_fee"); err != nil {
			return nil, err
		}
		v := *input.HawalaFee
		fee = &v
	}

	currency, err := s.currencies.ResolveOrDefault(ctx, input.Currency)
	if err != nil {
		return nil, fmt.Errorf("create transfer: %w", err)
	}
	feeCurrency, err := s.currencies.ResolveOrDefault(ctx, input.FeeCurrency)
	if err != nil {
		return nil, fmt.Errorf("create transfer: fee currency: %w", err)
	}

	for attempt := 1; ; attempt++ {
		h := domain.NewSendHawala(input.HawalaNumber, input.SenderName, input.ReceiverName, input.SenderPhone, amount)
		h.HawalaFee = fee
		h.ReceiverLocation = strings.TrimSpace(input.ReceiverLocation)
		h.ExchangerLocation = strings.TrimSpace(input.ExchangerLocation)
		if input.Status != "" {
			h.Status = input.Status
		}
		if currency != nil {
			h.CurrencyID = &currency.ID
		}
		if feeCurrency != nil {
			h.HawalaFeeCurrencyID = &feeCurrency.ID
		}

		err := s.hawalaRepo.Create(ctx, s.dbExecutor, h)
		if err == nil {
			s.logger.Info("hawala created", "hawala_number", h.HawalaNumber, "amount", h.Amount, "attempt", attempt)
			return h, nil
		}
		if input.HawalaNumber != 0 || !errors.Is(err, util.ErrDuplicateEntry) {
			return nil, fmt.Errorf("create transfer: %w", err)
		}
		if attempt >= s.numberRetries {
			return nil, fmt.Errorf("create transfer: no free hawala number after %d attempts: %w", attempt, err)
		}
		s.logger.Debug("hawala number taken concurrently, retrying", "attempt", attempt)
	}
}

func (s *hawalaService) GetTransfer(ctx context.Context, hawalaNumber int64) (*TransferDetails, error) {
	h, err := s.hawalaRepo.GetByNumber(ctx, s.dbExecutor, hawalaNumber)
	if err != nil {
		return nil, fmt.Errorf("get transfer #%d: %w", hawalaNumber, err)
	}

	details := &TransferDetails{Hawala: h}
	if h.CurrencyID != nil {
		if details.Currency, err = s.currencies.GetByID(ctx, *h.CurrencyID); err != nil {
			return nil, fmt.Errorf("get transfer #%d: %w", hawalaNumber, err)
		}
	}
	if h.HawalaFeeCurrencyID != nil {
		if details.FeeCurrency, err = s.currencies.GetByID(ctx, *h.HawalaFeeCurrencyID); err != nil {
			return nil, fmt.Errorf("get transfer #%d: %w", hawalaNumber, err)
		}
	}
	def, err := s.currencies.GetDefault(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transfer #%d: %w", hawalaNumber, err)
	}
	if def != nil {
		details.DefaultCurrency = def.Code
	}
	details.AmountInDefaultCurrency = h.AmountInDefaultCurrency(details.Currency, def)
	details.FeeInDefaultCurrency = h.FeeInDefaultCurrency(details.FeeCurrency, def)

	_, err = s.claimRepo.GetBySendHawalaID(ctx, s.dbExecutor, h.ID)
	switch {
	case err == nil:
		details.Claimed = true
	case !errors.Is(err, util.ErrNotFound):
		return nil, fmt.Errorf("get transfer #%d: %w", hawalaNumber, err)
	}
	return details, nil
}

func (s *hawalaService) ListTransfers(ctx context.Context, filter domain.HawalaFilter) ([]domain.SendHawala, int64, error) {
	filter.Limit, filter.Offset = NormalizePage(filter.Limit, filter.Offset)
	hawalas, total, err := s.hawalaRepo.List(ctx, s.dbExecutor, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list transfers: %w", err)
	}
	return hawalas, total, nil
}

func (s *hawalaService) UpdateTransferStatus(ctx context.Context, hawalaNumber int64, status domain.HawalaStatus) (*domain.SendHawala, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("update status: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("update status: transaction controller does not implement DBExecutor")
	}

	h, err := s.hawalaRepo.GetByNumberForUpdate(ctx, txExecutor, hawalaNumber)
	if err != nil {
		return nil, fmt.Errorf("update status: hawala #%d: %w", hawalaNumber, err)
	}
	if !h.Status.CanTransitionTo(status) {
		return nil, util.NewFieldError(util.ErrInvalidState, "status",
			fmt.Sprintf("cannot move hawala #%d from %s to %s", hawalaNumber, h.Status, status))
	}
	if err := s.hawalaRepo.UpdateStatus(ctx, txExecutor, h.ID, status); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("update status: failed to commit transaction: %w", err)
	}

	h.Status = status
	return h, nil
}

// ClaimTransfer records the payout of a transfer. The transfer row is locked
// while the claim is written; the unique send_hawala_id constraint decides
// any remaining race.
func (s *hawalaService) ClaimTransfer(ctx context.Context, hawalaNumber int64, details domain.ReceiverDetails) (*domain.ReceiveHawala, error) {
	if strings.TrimSpace(details.ReceiverPhone) == "" {
		return nil, util.NewFieldError(util.ErrInvalidInput, "receiver_phone", "receiver phone is required")
	}
	if strings.TrimSpace(details.ReceiverAddress) == "" {
		return nil, util.NewFieldError(util.ErrInvalidInput, "receiver_address", "receiver address is required")
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("claim: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("claim: transaction controller does not implement DBExecutor")
	}

	h, err := s.hawalaRepo.GetByNumberForUpdate(ctx, txExecutor, hawalaNumber)
	if err != nil {
		return nil, fmt.Errorf("claim: hawala #%d: %w", hawalaNumber, err)
	}

	_, err = s.claimRepo.GetBySendHawalaID(ctx, txExecutor, h.ID)
	switch {
	case err == nil:
		return nil, util.NewFieldError(util.ErrAlreadyClaimed, "hawala_number",
			fmt.Sprintf("hawala #%d has already been claimed", hawalaNumber))
	case !errors.Is(err, util.ErrNotFound):
		return nil, fmt.Errorf("claim: failed to check existing claim: %w", err)
	}

	claim := domain.NewReceiveHawala(h, details)
	if claim.ReceiverLocationID, err = s.provinceID(ctx, txExecutor, h.ReceiverLocation); err != nil {
		return nil, fmt.Errorf("claim: %w", err)
	}
	if claim.ExchangerLocationID, err = s.provinceID(ctx, txExecutor, h.ExchangerLocation); err != nil {
		return nil, fmt.Errorf("claim: %w", err)
	}

	if err := s.claimRepo.Create(ctx, txExecutor, claim); err != nil {
		return nil, fmt.Errorf("claim: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("claim: failed to commit transaction: %w", err)
	}

	s.logger.Info("hawala claimed", "hawala_number", hawalaNumber, "claim_id", claim.ID)
	return claim, nil
}

// provinceID maps a free-text location onto an active province. No match
// leaves the reference empty.
func (s *hawalaService) provinceID(ctx context.Context, q repository.DBExecutor, location string) (*int64, error) {
	if strings.TrimSpace(location) == "" {
		return nil, nil
	}
	p, err := s.provinceRepo.FindActiveByName(ctx, q, location)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			s.logger.Debug("location does not match a province", "location", location)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve location %q: %w", location, err)
	}
	return &p.ID, nil
}

func (s *hawalaService) GetClaim(ctx context.Context, claimID int64) (*domain.ReceiveHawala, error) {
	claim, err := s.claimRepo.GetByID(ctx, s.dbExecutor, claimID)
	if err != nil {
		return nil, fmt.Errorf("get claim %d: %w", claimID, err)
	}
	return claim, nil
}

func (s *hawalaService) ListClaims(ctx context.Context, filter domain.ClaimFilter) ([]domain.ReceiveHawala, int64, error) {
	filter.Limit, filter.Offset = NormalizePage(filter.Limit, filter.Offset)
	claims, total, err := s.claimRepo.List(ctx, s.dbExecutor, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list claims: %w", err)
	}
	return claims, total, nil
}

// VerifyClaim stamps the verifying exchanger on a claim. A claim is verified
// at most once.
func (s *hawalaService) VerifyClaim(ctx context.Context, claimID, exchangerID int64) (*domain.ReceiveHawala, error) {
	if _, err := s.exchangerRepo.GetByID(ctx, s.dbExecutor, exchangerID); err != nil {
		return nil, fmt.Errorf("verify claim: exchanger %d: %w", exchangerID, err)
	}
	claim, err := s.claimRepo.GetByID(ctx, s.dbExecutor, claimID)
	if err != nil {
		return nil, fmt.Errorf("verify claim %d: %w", claimID, err)
	}
	if claim.VerifiedBy != nil {
		return nil, util.NewFieldError(util.ErrInvalidState, "verified_by", "claim has already been verified")
	}

	now := time.Now().UTC()
	if err := s.claimRepo.MarkVerified(ctx, s.dbExecutor, claimID, exchangerID, now); err != nil {
		return nil, fmt.Errorf("verify claim %d: %w", claimID, err)
	}
	claim.VerifiedBy = &exchangerID
	claim.VerificationDate = &now
	return claim, nil
}
