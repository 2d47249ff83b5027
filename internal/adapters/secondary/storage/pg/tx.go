package pg

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// executor запросы поверх sqlx.DB или sqlx.Tx
type executor struct {
	ext sqlx.ExtContext
}

func (e executor) Get(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, e.ext, dest, query, args...)
}

func (e executor) Select(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, e.ext, dest, query, args...)
}

func (e executor) Exec(ctx context.Context, query string, args ...any) error {
	_, err := e.ext.ExecContext(ctx, query, args...)
	return err
}

// ExecWithResult количество затронутых строк
func (e executor) ExecWithResult(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := e.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// NamedExec параметры из db-тегов структуры
func (e executor) NamedExec(ctx context.Context, query string, arg any) error {
	_, err := sqlx.NamedExecContext(ctx, e.ext, query, arg)
	return err
}

// Tx реализует persistence.Transaction
type Tx struct {
	executor
	tx *sqlx.Tx
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
