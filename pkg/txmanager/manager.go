package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/CourtBookingService/pkg/dbmetrics"
)

var (
	ErrBeginTx  = errors.New("txmanager: begin transaction")
	ErrCommitTx = errors.New("txmanager: commit transaction")
)

// Beginner источник транзакций: *sql.DB или *dbmetrics.DB
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// txWrapper реализуется *dbmetrics.DB, чтобы запросы в транзакции тоже попадали в метрики
type txWrapper interface {
	WrapTx(tx *sql.Tx) dbmetrics.TxExecutor
}

// TransactionManager выполняет функцию в транзакции, передавая её через контекст.
// Вложенный вызов переиспользует уже открытую транзакцию.
type TransactionManager struct {
	db Beginner
}

func NewTransactionManager(db Beginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do транзакция с уровнем изоляции по умолчанию (read committed)
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoSerializable транзакция с уровнем изоляции serializable
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly транзакция только на чтение
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	var executor dbmetrics.TxExecutor = tx
	if w, ok := m.db.(txWrapper); ok {
		executor = w.WrapTx(tx)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(dbmetrics.WithTx(ctx, executor)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrCommitTx, err)
	}
	return nil
}
