package booking

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

var bookingColumns = []string{
	"id",
	"booking_date",
	"slot_ids",
	"user_name",
	"user_email",
	"user_phone",
	"is_youth",
	"free_slots",
	"paid_slots",
	"payment_method",
	"payment_amount",
	"payment_status",
	"payment_id",
	"checkout_session_id",
	"cancellation_token",
	"language",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет бронирование с уже сгенерированным ID
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"booking_date",
			"slot_ids",
			"user_name",
			"user_email",
			"user_phone",
			"is_youth",
			"free_slots",
			"paid_slots",
			"payment_method",
			"payment_amount",
			"payment_status",
			"payment_id",
			"cancellation_token",
			"language",
		).
		Values(
			booking.ID,
			booking.Date.UTC(),
			pq.Array(booking.SlotIDs),
			booking.User.Name,
			booking.User.Email,
			booking.User.Phone,
			booking.IsYouth,
			booking.FreeSlots,
			booking.PaidSlots,
			booking.Payment.Method,
			booking.Payment.Amount,
			booking.Payment.Status,
			booking.Payment.PaymentID,
			booking.CancellationToken,
			booking.Language,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы переходы статусов
// одного бронирования выполнялись последовательно.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// UpdatePayment сохраняет платёжную часть бронирования и время отмены
func (r *Repository) UpdatePayment(ctx context.Context, id string, payment domain.Payment, cancelledAt *time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_method", payment.Method).
		Set("payment_status", payment.Status).
		Set("payment_id", payment.PaymentID).
		Set("checkout_session_id", payment.CheckoutSessionID).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdatePayment - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdatePayment - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdatePayment - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// SetCheckoutSession запоминает checkout-сессию бронирования, пока оно ожидает оплату
func (r *Repository) SetCheckoutSession(ctx context.Context, id string, sessionID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("checkout_session_id", sessionID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "payment_status": domain.PaymentPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetCheckoutSession - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetCheckoutSession - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetCheckoutSession - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotPending
	}

	return nil
}

// ListStalePending возвращает ID бронирований, ожидающих оплату с момента раньше createdBefore
func (r *Repository) ListStalePending(ctx context.Context, createdBefore time.Time, limit uint64) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("bookings").
		Where(squirrel.Eq{"payment_status": domain.PaymentPending}).
		Where(squirrel.Lt{"created_at": createdBefore.UTC()}).
		OrderBy("created_at ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStalePending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStalePending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListStalePending - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStalePending - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b                 domain.Booking
		paymentID         sql.NullString
		checkoutSessionID sql.NullString
		cancelledAt       sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.Date,
		pq.Array(&b.SlotIDs),
		&b.User.Name,
		&b.User.Email,
		&b.User.Phone,
		&b.IsYouth,
		&b.FreeSlots,
		&b.PaidSlots,
		&b.Payment.Method,
		&b.Payment.Amount,
		&b.Payment.Status,
		&paymentID,
		&checkoutSessionID,
		&b.CancellationToken,
		&b.Language,
		&cancelledAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paymentID.Valid {
		b.Payment.PaymentID = &paymentID.String
	}
	if checkoutSessionID.Valid {
		b.Payment.CheckoutSessionID = &checkoutSessionID.String
	}
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}

	return &b, nil
}
