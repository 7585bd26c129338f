// internal/repository/postgres/hawala_pg.go
package postgres

import (
	"context"
	"fmt"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/repository"
)

const hawalaColumns = `id, hawala_number, sender_name, receiver_name, sender_phone, amount, currency_id,
	hawala_fee, hawala_fee_currency_id, receiver_location, exchanger_location, status, created_at, updated_at`

// HawalaRepository implements repository.HawalaRepository for PostgreSQL.
type HawalaRepository struct{}

func NewHawalaRepository() repository.HawalaRepository {
	return &HawalaRepository{}
}

func (r *HawalaRepository) Create(ctx context.Context, q repository.DBExecutor, h *domain.SendHawala) error {
	query := `
		INSERT INTO send_hawalas (hawala_number, sender_name, receiver_name, sender_phone, amount, currency_id,
		                          hawala_fee, hawala_fee_currency_id, receiver_location, exchanger_location,
		                          status, created_at, updated_at)
		VALUES (COALESCE(NULLIF($1::BIGINT, 0), (SELECT COALESCE(MAX(hawala_number), 0) + 1 FROM send_hawalas)),
		        $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, hawala_number`
	err := q.QueryRowContext(ctx, query,
		h.HawalaNumber, h.SenderName, h.ReceiverName, h.SenderPhone, h.Amount, h.CurrencyID,
		h.HawalaFee, h.HawalaFeeCurrencyID, h.ReceiverLocation, h.ExchangerLocation,
		h.Status, h.CreatedAt, h.UpdatedAt,
	).Scan(&h.ID, &h.HawalaNumber)
	if err != nil {
		return translate(err, "failed to create hawala")
	}
	return nil
}

func (r *HawalaRepository) GetByNumber(ctx context.Context, q repository.DBExecutor, number int64) (*domain.SendHawala, error) {
	return r.getOne(ctx, q, `SELECT `+hawalaColumns+` FROM send_hawalas WHERE hawala_number = $1`, number)
}

func (r *HawalaRepository) GetByNumberForUpdate(ctx context.Context, q repository.DBExecutor, number int64) (*domain.SendHawala, error) {
	return r.getOne(ctx, q, `SELECT `+hawalaColumns+` FROM send_hawalas WHERE hawala_number = $1 FOR UPDATE`, number)
}

func (r *HawalaRepository) getOne(ctx context.Context, q repository.DBExecutor, query string, number int64) (*domain.SendHawala, error) {
	var h domain.SendHawala
	if err := q.GetContext(ctx, &h, query, number); err != nil {
		return nil, translate(err, fmt.Sprintf("failed to get hawala #%d", number))
	}
	return &h, nil
}

func (r *HawalaRepository) List(ctx context.Context, q repository.DBExecutor, f domain.HawalaFilter) ([]domain.SendHawala, int64, error) {
	w := &where{}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.SenderName != "" {
		w.add("sender_name ILIKE $%d", containsPattern(f.SenderName))
	}
	if f.ReceiverName != "" {
		w.add("receiver_name ILIKE $%d", containsPattern(f.ReceiverName))
	}
	if f.HawalaNumber > 0 {
		w.add("hawala_number = $%d", f.HawalaNumber)
	}

	hawalas := []domain.SendHawala{}
	limitClause, args := w.page(f.Limit, f.Offset)
	query := `SELECT ` + hawalaColumns + ` FROM send_hawalas` + w.String() + ` ORDER BY hawala_number DESC` + limitClause
	if err := q.SelectContext(ctx, &hawalas, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list hawalas: %w", err)
	}

	var total int64
	if err := q.GetContext(ctx, &total, `SELECT COUNT(*) FROM send_hawalas`+w.String(), w.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count hawalas: %w", err)
	}
	return hawalas, total, nil
}

func (r *HawalaRepository) UpdateStatus(ctx context.Context, q repository.DBExecutor, id int64, status domain.HawalaStatus) error {
	res, err := q.ExecContext(ctx, `UPDATE send_hawalas SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return translate(err, fmt.Sprintf("failed to update status of hawala %d", id))
	}
	return checkAffected(res, "update hawala status")
}
