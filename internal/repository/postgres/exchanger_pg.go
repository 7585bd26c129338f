// internal/repository/postgres/exchanger_pg.go
package postgres

import (
	"context"
	"fmt"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/repository"
)

const exchangerColumns = `id, name, last_name, phone, email, password_hash, license_no, exchange_name, address, is_active, created_at, updated_at`

// ExchangerRepository implements repository.ExchangerRepository for PostgreSQL.
type ExchangerRepository struct{}

func NewExchangerRepository() repository.ExchangerRepository {
	return &ExchangerRepository{}
}

func (r *ExchangerRepository) Create(ctx context.Context, q repository.DBExecutor, e *domain.Exchanger) error {
	query := `INSERT INTO exchangers (name, last_name, phone, email, password_hash, license_no, exchange_name, address, is_active, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		e.Name, e.LastName, e.Phone, e.Email, e.PasswordHash, e.LicenseNo, e.ExchangeName, e.Address,
		e.IsActive, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return translate(err, "failed to create exchanger")
	}
	return nil
}

func (r *ExchangerRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Exchanger, error) {
	var e domain.Exchanger
	if err := q.GetContext(ctx, &e, `SELECT `+exchangerColumns+` FROM exchangers WHERE id = $1`, id); err != nil {
		return nil, translate(err, fmt.Sprintf("failed to get exchanger %d", id))
	}
	return &e, nil
}

func (r *ExchangerRepository) GetByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.Exchanger, error) {
	var e domain.Exchanger
	query := `SELECT ` + exchangerColumns + ` FROM exchangers WHERE email = LOWER(TRIM($1))`
	if err := q.GetContext(ctx, &e, query, email); err != nil {
		return nil, translate(err, "failed to get exchanger by email")
	}
	return &e, nil
}
