package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/admin/zodira/astro-api/internal/ports/persistence"
	"github.com/jmoiron/sqlx"
)

// DB реализует persistence.TxPersistence
type DB struct {
	executor
	db *sqlx.DB
}

var _ persistence.TxPersistence = (*DB)(nil)

func NewDB(db *sqlx.DB) *DB {
	return &DB{executor: executor{ext: db}, db: db}
}

// BeginTx начинает новую транзакцию
func (d *DB) BeginTx(ctx context.Context) (persistence.Transaction, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &Tx{executor: executor{ext: tx}, tx: tx}, nil
}

// WithTransaction commit при nil от fn, иначе rollback
func (d *DB) WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error {
	tx, err := d.BeginTx(ctx)
	if err != nil {
		return err
	}

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rollbackErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close закрывает подключение к базе данных
func (d *DB) Close() error {
	return d.db.Close()
}
