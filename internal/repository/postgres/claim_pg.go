// internal/repository/postgres/claim_pg.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/repository"
	"hawala-backoffice/internal/util"
)

const claimUniqueConstraint = "receive_hawalas_send_hawala_id_key"

const claimColumns = `id, send_hawala_id, hawala_number, sender_name, receiver_name, sender_phone, amount, currency_id,
	hawala_fee, hawala_fee_currency_id, status, transfer_date, receiver_location_id, exchanger_location_id,
	receiver_phone, receiver_address, receiver_id_card_photo, receiver_finger_photo, verified_by,
	verification_date, created_at`

// ClaimRepository implements repository.ClaimRepository for PostgreSQL.
type ClaimRepository struct{}

func NewClaimRepository() repository.ClaimRepository {
	return &ClaimRepository{}
}

func (r *ClaimRepository) Create(ctx context.Context, q repository.DBExecutor, c *domain.ReceiveHawala) error {
	query := `
		INSERT INTO receive_hawalas (send_hawala_id, hawala_number, sender_name, receiver_name, sender_phone, amount,
		                             currency_id, hawala_fee, hawala_fee_currency_id, status, transfer_date,
		                             receiver_location_id, exchanger_location_id, receiver_phone, receiver_address,
		                             receiver_id_card_photo, receiver_finger_photo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id`
	err := q.QueryRowContext(ctx, query,
		c.SendHawalaID, c.HawalaNumber, c.SenderName, c.ReceiverName, c.SenderPhone, c.Amount,
		c.CurrencyID, c.HawalaFee, c.HawalaFeeCurrencyID, c.Status, c.TransferDate,
		c.ReceiverLocationID, c.ExchangerLocationID, c.ReceiverPhone, c.ReceiverAddress,
		c.ReceiverIDCardPhoto, c.ReceiverFingerPhoto, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		if pqErr, ok := asPQError(err); ok && pqErr.Code == codeUniqueViolation && pqErr.Constraint == claimUniqueConstraint {
			return util.NewFieldError(util.ErrAlreadyClaimed, "hawala_number",
				fmt.Sprintf("hawala #%d has already been claimed", c.HawalaNumber))
		}
		return translate(err, "failed to create claim")
	}
	return nil
}

func (r *ClaimRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.ReceiveHawala, error) {
	var c domain.ReceiveHawala
	if err := q.GetContext(ctx, &c, `SELECT `+claimColumns+` FROM receive_hawalas WHERE id = $1`, id); err != nil {
		return nil, translate(err, fmt.Sprintf("failed to get claim %d", id))
	}
	return &c, nil
}

func (r *ClaimRepository) GetBySendHawalaID(ctx context.Context, q repository.DBExecutor, sendHawalaID int64) (*domain.ReceiveHawala, error) {
	var c domain.ReceiveHawala
	query := `SELECT ` + claimColumns + ` FROM receive_hawalas WHERE send_hawala_id = $1`
	if err := q.GetContext(ctx, &c, query, sendHawalaID); err != nil {
		return nil, translate(err, fmt.Sprintf("failed to get claim for hawala %d", sendHawalaID))
	}
	return &c, nil
}

func (r *ClaimRepository) List(ctx context.Context, q repository.DBExecutor, f domain.ClaimFilter) ([]domain.ReceiveHawala, int64, error) {
	w := &where{}
	if f.HawalaNumber > 0 {
		w.add("hawala_number = $%d", f.HawalaNumber)
	}
	if f.ReceiverName != "" {
		w.add("receiver_name ILIKE $%d", containsPattern(f.ReceiverName))
	}
	if f.VerifiedBy > 0 {
		w.add("verified_by = $%d", f.VerifiedBy)
	}

	claims := []domain.ReceiveHawala{}
	limitClause, args := w.page(f.Limit, f.Offset)
	query := `SELECT ` + claimColumns + ` FROM receive_hawalas` + w.String() + ` ORDER BY created_at DESC, id DESC` + limitClause
	if err := q.SelectContext(ctx, &claims, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list claims: %w", err)
	}

	var total int64
	if err := q.GetContext(ctx, &total, `SELECT COUNT(*) FROM receive_hawalas`+w.String(), w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count claims: %w", err)
	}
	return claims, total, nil
}

func (r *ClaimRepository) MarkVerified(ctx context.Context, q repository.DBExecutor, id, exchangerID int64, at time.Time) error {
	res, err := q.ExecContext(ctx,
		`UPDATE receive_hawalas SET verified_by = $1, verification_date = $2 WHERE id = $3 AND verified_by IS NULL`,
		exchangerID, at, id)
	if err != nil {
		return translate(err, fmt.Sprintf("failed to verify claim %d", id))
	}
	if err := checkAffected(res, "verify claim"); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return util.NewFieldError(util.ErrInvalidState, "verified_by", "claim has already been verified")
		}
		return err
	}
	return nil
}
