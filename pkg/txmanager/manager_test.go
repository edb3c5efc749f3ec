package txmanager

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CourtBookingService/pkg/dbmetrics"
)

func TestDo_CommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	m := NewTransactionManager(db)
	err = m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		_, err := dbmetrics.GetExecutor(ctx, db).ExecContext(ctx, "UPDATE bookings SET payment_status = $1", "cancelled")
		return err
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	errConflict := errors.New("slot taken")
	m := NewTransactionManager(db)
	err = m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return errConflict
	})

	require.ErrorIs(t, err, errConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_NestedReusesTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	m := NewTransactionManager(db)
	calls := 0
	err = m.Do(context.Background(), func(ctx context.Context) error {
		return m.Do(ctx, func(ctx context.Context) error {
			calls++
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_BeginFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err = NewTransactionManager(db).Do(context.Background(), func(ctx context.Context) error {
		t.Fatal("must not be called")
		return nil
	})

	require.ErrorIs(t, err, ErrBeginTx)
}
