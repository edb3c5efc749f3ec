package slot

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CourtBookingService/internal/domain"
)

func setupMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func slotRows() *sqlmock.Rows {
	return sqlmock.NewRows(slotColumns)
}

func TestReserveOrCreate_Success(t *testing.T) {
	repo, mock := setupMock(t)
	start := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO slots .* ON CONFLICT \(court_number, start_time, end_time\) DO UPDATE .* WHERE slots\.status = \$6 RETURNING`).
		WithArgs(1, sqlmock.AnyArg(), sqlmock.AnyArg(), domain.SlotPending, "b-1", domain.SlotAvailable).
		WillReturnRows(slotRows().AddRow(10, 1, start, start.Add(time.Hour), "pending", "b-1", now, now))

	slot, err := repo.ReserveOrCreate(context.Background(), domain.SlotSpec{
		CourtNumber: 1,
		Start:       start,
		End:         start.Add(time.Hour),
	}, "b-1")

	require.NoError(t, err)
	assert.Equal(t, int64(10), slot.ID)
	assert.Equal(t, domain.SlotPending, slot.Status)
	require.NotNil(t, slot.BookingID)
	assert.Equal(t, "b-1", *slot.BookingID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveOrCreate_ConflictWhenCellTaken(t *testing.T) {
	repo, mock := setupMock(t)
	start := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	// ON CONFLICT ... WHERE status = 'available' не вернул строку: ячейка занята
	mock.ExpectQuery(`INSERT INTO slots`).WillReturnRows(slotRows())

	_, err := repo.ReserveOrCreate(context.Background(), domain.SlotSpec{
		CourtNumber: 2,
		Start:       start,
		End:         start.Add(time.Hour),
	}, "b-2")

	require.ErrorIs(t, err, ErrSlotConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveOrCreate_DatabaseError(t *testing.T) {
	repo, mock := setupMock(t)
	start := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO slots`).WillReturnError(errors.New("connection reset"))

	_, err := repo.ReserveOrCreate(context.Background(), domain.SlotSpec{CourtNumber: 1, Start: start, End: start.Add(time.Hour)}, "b-3")

	require.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrSlotConflict)
}

func TestFindBusyForSpecs(t *testing.T) {
	repo, mock := setupMock(t)
	start := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, court_number, start_time, end_time, status, booking_id, created_at, updated_at FROM slots WHERE status IN ($1,$2) AND ((court_number = $3 AND start_time < $4 AND end_time > $5) OR (court_number = $6 AND start_time < $7 AND end_time > $8))")).
		WithArgs("pending", "booked", 1, sqlmock.AnyArg(), sqlmock.AnyArg(), 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(slotRows().AddRow(3, 2, start, start.Add(time.Hour), "booked", "b-9", now, now))

	busy, err := repo.FindBusyForSpecs(context.Background(), []domain.SlotSpec{
		{CourtNumber: 1, Start: start, End: start.Add(time.Hour)},
		{CourtNumber: 2, Start: start, End: start.Add(time.Hour)},
	})

	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.Equal(t, 2, busy[0].CourtNumber)
	assert.True(t, busy[0].IsBusy())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindBusyForSpecs_EmptyInput(t *testing.T) {
	repo, mock := setupMock(t)

	busy, err := repo.FindBusyForSpecs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, busy)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDs_PreservesOrder(t *testing.T) {
	repo, mock := setupMock(t)
	start := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM slots WHERE id = ANY($1)")).
		WillReturnRows(slotRows().
			AddRow(1, 1, start, start.Add(time.Hour), "booked", "b-1", now, now).
			AddRow(2, 1, start.Add(time.Hour), start.Add(2*time.Hour), "booked", "b-1", now, now))

	slots, err := repo.GetByIDs(context.Background(), []int64{2, 1, 99})

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, int64(2), slots[0].ID)
	assert.Equal(t, int64(1), slots[1].ID)
}

func TestFinalize_ReleaseClearsBookingRef(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE slots SET status = $1, updated_at = NOW(), booking_id = $2 WHERE id = ANY($3) AND booking_id = $4")).
		WithArgs(domain.SlotAvailable, nil, sqlmock.AnyArg(), "b-1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	affected, err := repo.Finalize(context.Background(), []int64{1, 2}, domain.SlotAvailable, "b-1")

	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalize_BookKeepsOwner(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE slots SET status = $1, updated_at = NOW() WHERE id = ANY($2) AND booking_id = $3")).
		WithArgs(domain.SlotBooked, sqlmock.AnyArg(), "b-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Finalize(context.Background(), []int64{7}, domain.SlotBooked, "b-1")

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalize_InvalidStatus(t *testing.T) {
	repo, _ := setupMock(t)

	_, err := repo.Finalize(context.Background(), []int64{1}, domain.SlotStatus("lost"), "b-1")

	require.ErrorIs(t, err, ErrInvalidStatus)
}
