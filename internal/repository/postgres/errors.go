// internal/repository/postgres/errors.go
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"hawala-backoffice/internal/util"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeStringTooLong       = "22001"
)

func asPQError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// translate maps "no rows" and constraint violations onto util error kinds,
// leaving every other error wrapped as a storage failure.
func translate(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return util.ErrNotFound
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case codeUniqueViolation:
			return util.NewFieldError(util.ErrDuplicateEntry, pqErr.Constraint, pqErr.Detail)
		case codeForeignKeyViolation:
			return util.NewFieldError(util.ErrNotFound, pqErr.Constraint, pqErr.Detail)
		case codeCheckViolation:
			return util.NewFieldError(util.ErrInvalidInput, pqErr.Constraint, pqErr.Message)
		case codeStringTooLong:
			return util.NewFieldError(util.ErrInvalidInput, pqErr.Column, pqErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// checkAffected turns an update that touched no rows into util.ErrNotFound.
func checkAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to read rows affected: %w", op, err)
	}
	if n == 0 {
		return util.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}

// where accumulates AND-ed conditions with positional arguments. Each
// condition carries one %d verb for its placeholder number.
type where struct {
	conds []string
	args  []interface{}
}

func (w *where) add(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the clause with all args.
func (w *where) page(limit, offset int) (string, []interface{}) {
	args := append(append([]interface{}{}, w.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}
