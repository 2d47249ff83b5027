package persistence

import "context"

// Persistence запросы к реляционной БД
type Persistence interface {
	Get(ctx context.Context, dest any, query string, args ...any) error
	Select(ctx context.Context, dest any, query string, args ...any) error
	Exec(ctx context.Context, query string, args ...any) error
	ExecWithResult(ctx context.Context, query string, args ...any) (int64, error)
	NamedExec(ctx context.Context, query string, arg any) error
}

// Transaction Persistence внутри транзакции
type Transaction interface {
	Persistence
	Commit() error
	Rollback() error
}

// TxPersistence Persistence, умеющий выполнять функцию в транзакции
type TxPersistence interface {
	Persistence
	WithTransaction(ctx context.Context, fn func(context.Context, Transaction) error) error
}
