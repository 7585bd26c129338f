// internal/repository/postgres/province_pg.go
package postgres

import (
	"context"
	"fmt"

	"hawala-backoffice/internal/domain"
	"hawala-backoffice/internal/repository"
)

// ProvinceRepository implements repository.ProvinceRepository for PostgreSQL.
type ProvinceRepository struct{}

func NewProvinceRepository() repository.ProvinceRepository {
	return &ProvinceRepository{}
}

func (r *ProvinceRepository) ListActive(ctx context.Context, q repository.DBExecutor) ([]domain.Province, error) {
	provinces := []domain.Province{}
	query := `SELECT id, name, is_active, created_at, updated_at FROM provinces WHERE is_active ORDER BY name`
	if err := q.SelectContext(ctx, &provinces, query); err != nil {
		return nil, fmt.Errorf("failed to list provinces: %w", err)
	}
	return provinces, nil
}

func (r *ProvinceRepository) FindActiveByName(ctx context.Context, q repository.DBExecutor, name string) (*domain.Province, error) {
	var p domain.Province
	query := `SELECT id, name, is_active, created_at, updated_at FROM provinces
              WHERE LOWER(name) = LOWER(TRIM($1)) AND is_active LIMIT 1`
	if err := q.GetContext(ctx, &p, query, name); err != nil {
		return nil, translate(err, fmt.Sprintf("failed to find province %q", name))
	}
	return &p, nil
}
