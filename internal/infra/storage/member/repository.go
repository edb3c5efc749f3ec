package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/CourtBookingService/internal/domain"
	"github.com/m04kA/CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/CourtBookingService/pkg/psqlbuilder"
)

// uniqueViolation код ошибки PostgreSQL для нарушения уникального индекса
const uniqueViolation = "23505"

// commitSlotQuery добавляет слот в квоту, только пока использовано меньше allowance.
// Лишние слоты молча игнорируются, повторное добавление того же слота ничего не меняет.
const commitSlotQuery = `INSERT INTO member_used_slots (member_id, year, slot_id)
SELECT $1::bigint, $2::int, $3::bigint
WHERE (SELECT COUNT(*) FROM member_used_slots WHERE member_id = $1::bigint AND year = $2::int) < $4::int
ON CONFLICT DO NOTHING`

// Repository реестр участников и их годовых квот
type Repository struct {
	db        DBExecutor
	allowance int
}

// NewRepository allowance - число бесплатных слотов на участника в календарный год
func NewRepository(db DBExecutor, allowance int) *Repository {
	return &Repository{db: db, allowance: allowance}
}

// RemainingQuota возвращает остаток квоты участника за год.
// Для неизвестного email возвращает IsMember=false и 0.
// Запись за год создается лениво при первом обращении.
// Внутри транзакции строка участника блокируется до конца транзакции,
// поэтому параллельные бронирования одного участника выполняются по очереди.
func (r *Repository) RemainingQuota(ctx context.Context, email string, year int) (domain.Quota, error) {
	memberID, err := r.lockMember(ctx, "RemainingQuota", email)
	if errors.Is(err, ErrMemberNotFound) {
		return domain.Quota{IsMember: false, SlotsRemaining: 0}, nil
	}
	if err != nil {
		return domain.Quota{}, err
	}

	if err := r.ensureYear(ctx, memberID, year); err != nil {
		return domain.Quota{}, err
	}

	used, err := r.countUsed(ctx, memberID, year)
	if err != nil {
		return domain.Quota{}, err
	}

	return domain.Quota{
		IsMember:       true,
		SlotsRemaining: max(r.allowance-used, 0),
	}, nil
}

// Commit списывает слоты из квоты участника за год.
// Вызывающий обязан не передавать больше слотов, чем осталось: лишние будут проигнорированы.
// Возвращает количество реально списанных слотов.
func (r *Repository) Commit(ctx context.Context, email string, year int, slotIDs []int64) (int, error) {
	if len(slotIDs) == 0 {
		return 0, nil
	}

	memberID, err := r.lockMember(ctx, "Commit", email)
	if err != nil {
		return 0, err
	}

	if err := r.ensureYear(ctx, memberID, year); err != nil {
		return 0, err
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	committed := 0
	for _, slotID := range slotIDs {
		result, err := executor.ExecContext(ctx, commitSlotQuery, memberID, year, slotID, r.allowance)
		if err != nil {
			return committed, fmt.Errorf("%w: Commit - insert slot_id=%d: %v", ErrExecQuery, slotID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return committed, fmt.Errorf("%w: Commit - get rows affected: %v", ErrExecQuery, err)
		}
		committed += int(affected)
	}

	return committed, nil
}

// Release возвращает слоты в квоту. Идемпотентна: отсутствующие слоты пропускаются.
func (r *Repository) Release(ctx context.Context, email string, year int, slotIDs []int64) (int64, error) {
	if len(slotIDs) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("member_used_slots").
		Where(squirrel.Expr("member_id = (SELECT id FROM members WHERE email = ?)", email)).
		Where(squirrel.Eq{"year": year}).
		Where(squirrel.Expr("slot_id = ANY(?)", pq.Array(slotIDs))).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Release - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: Release - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// Create регистрирует нового участника
func (r *Repository) Create(ctx context.Context, email string) (*domain.Member, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("members").
		Columns("email").
		Values(email).
		Suffix("RETURNING id, email, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var m domain.Member
	err = executor.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.Email, &m.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrMemberAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	m.YearlySlots = []domain.YearlySlots{}
	return &m, nil
}

// Delete удаляет участника вместе с историей квот
func (r *Repository) Delete(ctx context.Context, email string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("members").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// UpdateEmail меняет email участника
func (r *Repository) UpdateEmail(ctx context.Context, oldEmail, newEmail string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("members").
		Set("email", newEmail).
		Where(squirrel.Eq{"email": oldEmail}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateEmail - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return ErrMemberAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("%w: UpdateEmail - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateEmail - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// List возвращает всех участников с использованными слотами по годам
func (r *Repository) List(ctx context.Context) ([]*domain.Member, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("m.id", "m.email", "m.created_at", "y.year", "u.slot_id").
		From("members m").
		LeftJoin("member_years y ON y.member_id = m.id").
		LeftJoin("member_used_slots u ON u.member_id = y.member_id AND u.year = y.year").
		OrderBy("m.email ASC", "y.year ASC", "u.slot_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	members := make([]*domain.Member, 0)
	var current *domain.Member

	for rows.Next() {
		var (
			m      domain.Member
			year   sql.NullInt64
			slotID sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.Email, &m.CreatedAt, &year, &slotID); err != nil {
			return nil, fmt.Errorf("%w: List - scan member: %v", ErrScanRow, err)
		}

		if current == nil || current.ID != m.ID {
			m.YearlySlots = []domain.YearlySlots{}
			current = &m
			members = append(members, current)
		}

		if !year.Valid {
			continue
		}

		last := len(current.YearlySlots) - 1
		if last < 0 || current.YearlySlots[last].Year != int(year.Int64) {
			current.YearlySlots = append(current.YearlySlots, domain.YearlySlots{
				Year:      int(year.Int64),
				UsedSlots: []int64{},
			})
			last++
		}
		if slotID.Valid {
			current.YearlySlots[last].UsedSlots = append(current.YearlySlots[last].UsedSlots, slotID.Int64)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return members, nil
}

// lockMember возвращает id участника, в транзакции блокируя строку
func (r *Repository) lockMember(ctx context.Context, op, email string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("id").
		From("members").
		Where(squirrel.Eq{"email": email})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var id int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrMemberNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s - select member: %v", ErrExecQuery, op, err)
	}

	return id, nil
}

func (r *Repository) ensureYear(ctx context.Context, memberID int64, year int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("member_years").
		Columns("member_id", "year").
		Values(memberID, year).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ensureYear - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ensureYear - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) countUsed(ctx context.Context, memberID int64, year int) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("member_used_slots").
		Where(squirrel.Eq{"member_id": memberID, "year": year}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: countUsed - build select query: %v", ErrBuildQuery, err)
	}

	var used int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&used); err != nil {
		return 0, fmt.Errorf("%w: countUsed - execute query: %v", ErrExecQuery, err)
	}
	return used, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
