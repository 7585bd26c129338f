// internal/repository/db_executor.go
package repository

import (
	"context"
	"database/sql"
)

// DBExecutor defines the database operations repositories need. Both *sqlx.DB
// and *sqlx.Tx satisfy it, so every repository method runs either standalone
// or inside the caller's transaction. Locking reads (FOR UPDATE, advisory
// locks) only hold when q is a transaction.
type DBExecutor interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
