package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CourtBookingService/internal/domain"
	slotRepo "github.com/m04kA/CourtBookingService/internal/infra/storage/slot"
	"github.com/m04kA/CourtBookingService/internal/service/pricing"
)

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) FindBusyForSpecs(ctx context.Context, specs []domain.SlotSpec) ([]*domain.Slot, error) {
	args := m.Called(ctx, specs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) ReserveOrCreate(ctx context.Context, spec domain.SlotSpec, bookingID string) (*domain.Slot, error) {
	args := m.Called(ctx, spec, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) Finalize(ctx context.Context, ids []int64, status domain.SlotStatus, bookingID string) (int64, error) {
	args := m.Called(ctx, ids, status, bookingID)
	return args.Get(0).(int64), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockMemberLedger struct {
	mock.Mock
}

func (m *MockMemberLedger) RemainingQuota(ctx context.Context, email string, year int) (domain.Quota, error) {
	args := m.Called(ctx, email, year)
	return args.Get(0).(domain.Quota), args.Error(1)
}

func (m *MockMemberLedger) Commit(ctx context.Context, email string, year int, slotIDs []int64) (int, error) {
	args := m.Called(ctx, email, year, slotIDs)
	return args.Int(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendBookingConfirmation(ctx context.Context, booking *domain.BookingWithSlots, lang domain.Language) error {
	args := m.Called(ctx, booking, lang)
	return args.Error(0)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) BookingCreated(paymentMethod string) { m.Called(paymentMethod) }
func (m *MockMetrics) SlotConflict()                       { m.Called() }

// inlineTx выполняет функцию без реальной транзакции
type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type testDeps struct {
	slots    *MockSlotRepository
	bookings *MockBookingRepository
	ledger   *MockMemberLedger
	notifier *MockNotifier
	metrics  *MockMetrics
	settings domain.CourtSettings
}

func newTestDeps() *testDeps {
	return &testDeps{
		slots:    &MockSlotRepository{},
		bookings: &MockBookingRepository{},
		ledger:   &MockMemberLedger{},
		notifier: &MockNotifier{},
		metrics:  &MockMetrics{},
		settings: domain.DefaultCourtSettings(),
	}
}

func (d *testDeps) useCase(now time.Time) *UseCase {
	uc := NewUseCase(d.slots, d.bookings, d.ledger, pricing.NewCalculator(d.settings),
		d.notifier, d.metrics, inlineTx{}, d.settings, nopLogger{})
	uc.timeProvider = fixedTime{t: now}
	return uc
}

func (d *testDeps) assertExpectations(t *testing.T) {
	d.slots.AssertExpectations(t)
	d.bookings.AssertExpectations(t)
	d.ledger.AssertExpectations(t)
	d.notifier.AssertExpectations(t)
	d.metrics.AssertExpectations(t)
}

func (d *testDeps) cell(court, hour int) domain.SlotSpec {
	start := time.Date(2025, 6, 10, hour, 0, 0, 0, d.settings.Location)
	return domain.SlotSpec{CourtNumber: court, Start: start, End: start.Add(time.Hour)}
}

func (d *testDeps) now() time.Time {
	return time.Date(2025, 6, 9, 12, 0, 0, 0, d.settings.Location)
}

func (d *testDeps) expectReserve(spec domain.SlotSpec, id int64) {
	d.slots.On("ReserveOrCreate", mock.Anything, spec, mock.AnythingOfType("string")).
		Return(&domain.Slot{ID: id, CourtNumber: spec.CourtNumber, Start: spec.Start, End: spec.End, Status: domain.SlotPending}, nil).
		Once()
}

func validRequest(slots ...domain.SlotSpec) *Request {
	return &Request{
		Slots: slots,
		User: domain.Contact{
			Name:  "Anna Svensson",
			Email: "  Anna@Example.SE ",
			Phone: "+46701234567",
		},
		Language: domain.LanguageEN,
	}
}

func TestExecute_PaidBookingStaysPending(t *testing.T) {
	d := newTestDeps()
	a, b := d.cell(1, 10), d.cell(1, 11)

	d.slots.On("FindBusyForSpecs", mock.Anything, []domain.SlotSpec{a, b}).Return([]*domain.Slot{}, nil)
	d.expectReserve(a, 1)
	d.expectReserve(b, 2)
	d.ledger.On("RemainingQuota", mock.Anything, "anna@example.se", 2025).
		Return(domain.Quota{IsMember: false}, nil)
	d.bookings.On("Create", mock.Anything, mock.MatchedBy(func(bk *domain.Booking) bool {
		return bk.Payment.Status == domain.PaymentPending &&
			bk.Payment.Method == domain.PaymentStripe &&
			bk.Payment.Amount == 160 &&
			bk.User.Email == "anna@example.se" &&
			len(bk.CancellationToken) == 2*domain.CancellationTokenBytes &&
			bk.Date.Equal(a.Start)
	})).Return(&domain.Booking{}, nil)
	d.metrics.On("BookingCreated", "stripe").Return()

	resp, err := d.useCase(d.now()).Execute(context.Background(), validRequest(b, a))

	require.NoError(t, err)
	assert.NotEmpty(t, resp.BookingID)
	assert.Equal(t, domain.PaymentStripe, resp.PaymentMethod)
	assert.Equal(t, domain.PaymentPending, resp.PaymentStatus)
	assert.Equal(t, 160, resp.Amount)
	assert.Equal(t, 0, resp.FreeSlots)
	assert.Equal(t, 2, resp.PaidSlots)
	assert.True(t, resp.RequiresPayment())
	d.slots.AssertNotCalled(t, "Finalize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	d.notifier.AssertNotCalled(t, "SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything)
	d.assertExpectations(t)
}

func TestExecute_MemberWithQuotaIsFreeAndConfirmed(t *testing.T) {
	d := newTestDeps()
	a := d.cell(2, 8)

	d.slots.On("FindBusyForSpecs", mock.Anything, []domain.SlotSpec{a}).Return([]*domain.Slot{}, nil)
	d.expectReserve(a, 7)
	d.ledger.On("RemainingQuota", mock.Anything, "anna@example.se", 2025).
		Return(domain.Quota{IsMember: true, SlotsRemaining: 3}, nil)
	d.ledger.On("Commit", mock.Anything, "anna@example.se", 2025, []int64{7}).Return(1, nil)
	d.slots.On("Finalize", mock.Anything, []int64{7}, domain.SlotBooked, mock.AnythingOfType("string")).Return(int64(1), nil)
	d.bookings.On("Create", mock.Anything, mock.MatchedBy(func(bk *domain.Booking) bool {
		return bk.Payment.Status == domain.PaymentCompleted && bk.Payment.Method == domain.PaymentFree && bk.FreeSlots == 1
	})).Return(&domain.Booking{}, nil)
	d.metrics.On("BookingCreated", "free").Return()
	d.notifier.On("SendBookingConfirmation", mock.Anything, mock.MatchedBy(func(b *domain.BookingWithSlots) bool {
		return len(b.Slots) == 1 && b.Slots[0].Status == domain.SlotBooked
	}), domain.LanguageEN).Return(nil)

	resp, err := d.useCase(d.now()).Execute(context.Background(), validRequest(a))

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFree, resp.PaymentMethod)
	assert.Equal(t, domain.PaymentCompleted, resp.PaymentStatus)
	assert.Equal(t, 0, resp.Amount)
	assert.False(t, resp.RequiresPayment())
	d.assertExpectations(t)
}

func TestExecute_PartialQuotaWithYouthDiscount(t *testing.T) {
	d := newTestDeps()
	a, b, c := d.cell(1, 9), d.cell(1, 10), d.cell(2, 10)

	d.slots.On("FindBusyForSpecs", mock.Anything, mock.Anything).Return([]*domain.Slot{}, nil)
	d.expectReserve(a, 1)
	d.expectReserve(b, 2)
	d.expectReserve(c, 3)
	d.ledger.On("RemainingQuota", mock.Anything, "anna@example.se", 2025).
		Return(domain.Quota{IsMember: true, SlotsRemaining: 1}, nil)
	d.ledger.On("Commit", mock.Anything, "anna@example.se", 2025, []int64{1}).Return(1, nil)
	d.bookings.On("Create", mock.Anything, mock.Anything).Return(&domain.Booking{}, nil)
	d.metrics.On("BookingCreated", "stripe").Return()

	req := validRequest(c, b, a)
	req.IsYouth = true
	resp, err := d.useCase(d.now()).Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.FreeSlots)
	assert.Equal(t, 2, resp.PaidSlots)
	assert.Equal(t, 80, resp.Amount)
	assert.Equal(t, domain.PaymentPending, resp.PaymentStatus)
	d.assertExpectations(t)
}

func TestExecute_BusySlotRejected(t *testing.T) {
	d := newTestDeps()
	a := d.cell(1, 10)
	bookingID := "other"

	d.slots.On("FindBusyForSpecs", mock.Anything, []domain.SlotSpec{a}).Return([]*domain.Slot{
		{ID: 5, CourtNumber: 1, Start: a.Start, End: a.End, Status: domain.SlotBooked, BookingID: &bookingID},
	}, nil)

	_, err := d.useCase(d.now()).Execute(context.Background(), validRequest(a))

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	d.slots.AssertNotCalled(t, "ReserveOrCreate", mock.Anything, mock.Anything, mock.Anything)
	d.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	d.assertExpectations(t)
}

func TestExecute_ConcurrentConflict(t *testing.T) {
	d := newTestDeps()
	a, b := d.cell(1, 10), d.cell(1, 11)

	d.slots.On("FindBusyForSpecs", mock.Anything, mock.Anything).Return([]*domain.Slot{}, nil)
	d.expectReserve(a, 1)
	d.slots.On("ReserveOrCreate", mock.Anything, b, mock.AnythingOfType("string")).Return(nil, slotRepo.ErrSlotConflict)
	d.metrics.On("SlotConflict").Return()

	_, err := d.useCase(d.now()).Execute(context.Background(), validRequest(a, b))

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	d.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	d.metrics.AssertNotCalled(t, "BookingCreated", mock.Anything)
	d.assertExpectations(t)
}

func TestExecute_QuotaMismatchFails(t *testing.T) {
	d := newTestDeps()
	a := d.cell(1, 10)

	d.slots.On("FindBusyForSpecs", mock.Anything, mock.Anything).Return([]*domain.Slot{}, nil)
	d.expectReserve(a, 1)
	d.ledger.On("RemainingQuota", mock.Anything, mock.Anything, 2025).
		Return(domain.Quota{IsMember: true, SlotsRemaining: 1}, nil)
	d.ledger.On("Commit", mock.Anything, mock.Anything, 2025, []int64{1}).Return(0, nil)

	_, err := d.useCase(d.now()).Execute(context.Background(), validRequest(a))

	assert.ErrorIs(t, err, ErrInternal)
	d.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	d.assertExpectations(t)
}

func TestExecute_RepositoryError(t *testing.T) {
	d := newTestDeps()
	a := d.cell(1, 10)

	d.slots.On("FindBusyForSpecs", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := d.useCase(d.now()).Execute(context.Background(), validRequest(a))

	assert.ErrorIs(t, err, ErrInternal)
	d.assertExpectations(t)
}

func TestExecute_NotificationFailureDoesNotFailBooking(t *testing.T) {
	d := newTestDeps()
	a := d.cell(1, 10)

	d.slots.On("FindBusyForSpecs", mock.Anything, mock.Anything).Return([]*domain.Slot{}, nil)
	d.expectReserve(a, 1)
	d.ledger.On("RemainingQuota", mock.Anything, mock.Anything, 2025).
		Return(domain.Quota{IsMember: true, SlotsRemaining: 10}, nil)
	d.ledger.On("Commit", mock.Anything, mock.Anything, 2025, []int64{1}).Return(1, nil)
	d.slots.On("Finalize", mock.Anything, []int64{1}, domain.SlotBooked, mock.Anything).Return(int64(1), nil)
	d.bookings.On("Create", mock.Anything, mock.Anything).Return(&domain.Booking{}, nil)
	d.metrics.On("BookingCreated", "free").Return()
	d.notifier.On("SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	resp, err := d.useCase(d.now()).Execute(context.Background(), validRequest(a))

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, resp.PaymentStatus)
	d.assertExpectations(t)
}

func TestExecute_ValidationErrors(t *testing.T) {
	d := newTestDeps()
	now := d.now()

	offGrid := d.cell(1, 10)
	offGrid.Start = offGrid.Start.Add(30 * time.Minute)
	offGrid.End = offGrid.End.Add(30 * time.Minute)

	tooMany := make([]domain.SlotSpec, 0, d.settings.MaxSlotsPerBooking+1)
	for i := 0; i <= d.settings.MaxSlotsPerBooking; i++ {
		tooMany = append(tooMany, d.cell(1+i%2, 6+i/2))
	}

	past := d.cell(1, 11)
	past.Start = time.Date(2025, 6, 9, 11, 0, 0, 0, d.settings.Location)
	past.End = past.Start.Add(time.Hour)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "no slots", req: validRequest(), wantErr: ErrInvalidInput},
		{name: "too many slots", req: validRequest(tooMany...), wantErr: ErrInvalidInput},
		{name: "off grid", req: validRequest(offGrid), wantErr: ErrInvalidSlot},
		{name: "unknown court", req: validRequest(d.cell(3, 10)), wantErr: ErrInvalidSlot},
		{name: "duplicate", req: validRequest(d.cell(1, 10), d.cell(1, 10)), wantErr: ErrInvalidSlot},
		{name: "slot already started", req: validRequest(past), wantErr: ErrSlotInPast},
		{
			name: "missing name",
			req: func() *Request {
				r := validRequest(d.cell(1, 10))
				r.User.Name = "  "
				return r
			}(),
			wantErr: ErrInvalidInput,
		},
		{
			name: "bad email",
			req: func() *Request {
				r := validRequest(d.cell(1, 10))
				r.User.Email = "not-an-email"
				return r
			}(),
			wantErr: ErrInvalidInput,
		},
		{
			name: "missing phone",
			req: func() *Request {
				r := validRequest(d.cell(1, 10))
				r.User.Phone = ""
				return r
			}(),
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.useCase(now).Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	d.slots.AssertNotCalled(t, "FindBusyForSpecs", mock.Anything, mock.Anything)
}
