package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/CourtBookingService/internal/domain"
	"github.com/m04kA/CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/CourtBookingService/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"court_number",
	"start_time",
	"end_time",
	"status",
	"booking_id",
	"created_at",
	"updated_at",
}

// Repository хранилище ячеек кортов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ReserveOrCreate атомарно переводит ячейку в pending для бронирования bookingID.
// Если строки нет, она создается сразу в статусе pending.
// Если строка есть и свободна, статус меняется одним UPDATE внутри INSERT ... ON CONFLICT.
// Если ячейка уже pending или booked, запрос не возвращает строк и метод отдает ErrSlotConflict.
// Уникальный индекс (court_number, start_time, end_time) гарантирует, что из конкурентных
// вызовов для одной ячейки выигрывает ровно один.
func (r *Repository) ReserveOrCreate(ctx context.Context, spec domain.SlotSpec, bookingID string) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns("court_number", "start_time", "end_time", "status", "booking_id").
		Values(spec.CourtNumber, spec.Start.UTC(), spec.End.UTC(), domain.SlotPending, bookingID).
		Suffix(
			"ON CONFLICT (court_number, start_time, end_time) DO UPDATE "+
				"SET status = EXCLUDED.status, booking_id = EXCLUDED.booking_id, updated_at = NOW() "+
				"WHERE slots.status = ? RETURNING id, court_number, start_time, end_time, status, booking_id, created_at, updated_at",
			domain.SlotAvailable,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReserveOrCreate - build upsert query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: ReserveOrCreate - court=%d start=%s: %v",
			ErrExecQuery, spec.CourtNumber, spec.Start.Format(time.RFC3339), err)
	}

	return slot, nil
}

// FindBusyOverlapping возвращает занятые слоты корта, пересекающиеся с [from, to)
func (r *Repository) FindBusyOverlapping(ctx context.Context, courtNumber int, from, to time.Time) ([]*domain.Slot, error) {
	return r.findBusy(ctx, "FindBusyOverlapping", overlapCond(domain.SlotSpec{
		CourtNumber: courtNumber,
		Start:       from,
		End:         to,
	}))
}

// FindBusyForSpecs возвращает занятые слоты, пересекающиеся хотя бы с одной из ячеек
func (r *Repository) FindBusyForSpecs(ctx context.Context, specs []domain.SlotSpec) ([]*domain.Slot, error) {
	if len(specs) == 0 {
		return []*domain.Slot{}, nil
	}

	or := make(squirrel.Or, 0, len(specs))
	for _, spec := range specs {
		or = append(or, overlapCond(spec))
	}

	return r.findBusy(ctx, "FindBusyForSpecs", or)
}

func (r *Repository) findBusy(ctx context.Context, op string, cond squirrel.Sqlizer) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"status": busyStatuses()}).
		Where(cond).
		OrderBy("start_time ASC", "court_number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// GetByIDs возвращает слоты в порядке переданных ids, отсутствующие пропускаются
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Slot, error) {
	if len(ids) == 0 {
		return []*domain.Slot{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Expr("id = ANY(?)", pq.Array(ids))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots, err := scanSlots(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*domain.Slot, len(slots))
	for _, s := range slots {
		byID[s.ID] = s
	}

	ordered := make([]*domain.Slot, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered, nil
}

// Finalize массово меняет статус слотов бронирования bookingID.
// Затрагиваются только строки, принадлежащие этому бронированию.
// При переводе в available ссылка на бронирование очищается.
// Возвращает количество изменённых строк.
func (r *Repository) Finalize(ctx context.Context, ids []int64, status domain.SlotStatus, bookingID string) (int64, error) {
	if !status.IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("slots").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()"))

	if status == domain.SlotAvailable {
		builder = builder.Set("booking_id", nil)
	}

	query, args, err := builder.
		Where(squirrel.Expr("id = ANY(?)", pq.Array(ids))).
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Finalize - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: Finalize - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: Finalize - get rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// overlapCond условие пересечения интервалов со строгими неравенствами:
// соседние ячейки (конец одной = начало другой) не пересекаются
func overlapCond(spec domain.SlotSpec) squirrel.Sqlizer {
	return squirrel.And{
		squirrel.Eq{"court_number": spec.CourtNumber},
		squirrel.Lt{"start_time": spec.End.UTC()},
		squirrel.Gt{"end_time": spec.Start.UTC()},
	}
}

func busyStatuses() []string {
	statuses := make([]string, len(domain.BusySlotStatuses))
	for i, s := range domain.BusySlotStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var (
		s         domain.Slot
		bookingID sql.NullString
	)

	if err := row.Scan(
		&s.ID,
		&s.CourtNumber,
		&s.Start,
		&s.End,
		&s.Status,
		&bookingID,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if bookingID.Valid {
		s.BookingID = &bookingID.String
	}
	return &s, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}
	return slots, nil
}
