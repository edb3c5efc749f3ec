package complete_payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CourtBookingService/internal/domain"
	bookingsService "github.com/m04kA/CourtBookingService/internal/service/bookings"
	"github.com/m04kA/CourtBookingService/pkg/ptr"
)

type MockBookingLoader struct {
	mock.Mock
}

func (m *MockBookingLoader) Load(ctx context.Context, id string) (*domain.BookingWithSlots, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingWithSlots), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) UpdatePayment(ctx context.Context, id string, payment domain.Payment, cancelledAt *time.Time) error {
	args := m.Called(ctx, id, payment, cancelledAt)
	return args.Error(0)
}

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) Finalize(ctx context.Context, ids []int64, status domain.SlotStatus, bookingID string) (int64, error) {
	args := m.Called(ctx, ids, status, bookingID)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendBookingConfirmation(ctx context.Context, booking *domain.BookingWithSlots, lang domain.Language) error {
	args := m.Called(ctx, booking, lang)
	return args.Error(0)
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func pendingBooking(status domain.PaymentStatus) *domain.BookingWithSlots {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	return &domain.BookingWithSlots{
		Booking: &domain.Booking{
			ID:        "b-1",
			SlotIDs:   []int64{4, 5},
			PaidSlots: 2,
			Language:  domain.LanguageSV,
			Payment: domain.Payment{
				Method:            domain.PaymentStripe,
				Amount:            160,
				Status:            status,
				CheckoutSessionID: ptr.Ptr("cs_1"),
			},
		},
		Slots: []*domain.Slot{
			{ID: 4, CourtNumber: 1, Start: start, End: start.Add(time.Hour), Status: domain.SlotPending},
			{ID: 5, CourtNumber: 1, Start: start.Add(time.Hour), End: start.Add(2 * time.Hour), Status: domain.SlotPending},
		},
	}
}

func TestExecute_CompletesPendingBooking(t *testing.T) {
	loader := &MockBookingLoader{}
	repo := &MockBookingRepository{}
	slots := &MockSlotRepository{}
	notifier := &MockNotifier{}

	loaded := pendingBooking(domain.PaymentPending)
	loader.On("Load", mock.Anything, "b-1").Return(loaded, nil)
	repo.On("UpdatePayment", mock.Anything, "b-1", mock.MatchedBy(func(p domain.Payment) bool {
		return p.Status == domain.PaymentCompleted && ptr.Value(p.PaymentID) == "pi_1" && ptr.Value(p.CheckoutSessionID) == "cs_1"
	}), (*time.Time)(nil)).Return(nil)
	slots.On("Finalize", mock.Anything, []int64{4, 5}, domain.SlotBooked, "b-1").Return(int64(2), nil)
	notifier.On("SendBookingConfirmation", mock.Anything, loaded, domain.LanguageSV).Return(nil)

	uc := NewUseCase(loader, repo, slots, notifier, inlineTx{}, nopLogger{})
	resp, err := uc.Execute(context.Background(), &Request{BookingID: "b-1", PaymentID: "pi_1"})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, resp.PaymentStatus)
	assert.Equal(t, "pi_1", resp.PaymentID)
	assert.False(t, resp.AlreadyCompleted)
	assert.Equal(t, domain.SlotBooked, loaded.Slots[0].Status)
	loader.AssertExpectations(t)
	repo.AssertExpectations(t)
	slots.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestExecute_RequestLanguageWins(t *testing.T) {
	loader := &MockBookingLoader{}
	repo := &MockBookingRepository{}
	slots := &MockSlotRepository{}
	notifier := &MockNotifier{}

	loaded := pendingBooking(domain.PaymentPending)
	loader.On("Load", mock.Anything, "b-1").Return(loaded, nil)
	repo.On("UpdatePayment", mock.Anything, "b-1", mock.Anything, (*time.Time)(nil)).Return(nil)
	slots.On("Finalize", mock.Anything, []int64{4, 5}, domain.SlotBooked, "b-1").Return(int64(2), nil)
	notifier.On("SendBookingConfirmation", mock.Anything, loaded, domain.LanguageEN).Return(nil)

	uc := NewUseCase(loader, repo, slots, notifier, inlineTx{}, nopLogger{})
	_, err := uc.Execute(context.Background(), &Request{BookingID: "b-1", PaymentID: "pi_1", Language: domain.LanguageEN})

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestExecute_AlreadyCompletedIsIdempotent(t *testing.T) {
	loader := &MockBookingLoader{}
	repo := &MockBookingRepository{}
	slots := &MockSlotRepository{}
	notifier := &MockNotifier{}

	loaded := pendingBooking(domain.PaymentCompleted)
	loaded.Booking.Payment.PaymentID = ptr.Ptr("pi_first")
	loader.On("Load", mock.Anything, "b-1").Return(loaded, nil)

	uc := NewUseCase(loader, repo, slots, notifier, inlineTx{}, nopLogger{})
	resp, err := uc.Execute(context.Background(), &Request{BookingID: "b-1", PaymentID: "pi_second"})

	require.NoError(t, err)
	assert.True(t, resp.AlreadyCompleted)
	assert.Equal(t, "pi_first", resp.PaymentID)
	repo.AssertNotCalled(t, "UpdatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	slots.AssertNotCalled(t, "Finalize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_ClosedBookingNotPayable(t *testing.T) {
	for _, status := range []domain.PaymentStatus{domain.PaymentCancelled, domain.PaymentRefunded} {
		t.Run(string(status), func(t *testing.T) {
			loader := &MockBookingLoader{}
			repo := &MockBookingRepository{}
			loader.On("Load", mock.Anything, "b-1").Return(pendingBooking(status), nil)

			uc := NewUseCase(loader, repo, &MockSlotRepository{}, &MockNotifier{}, inlineTx{}, nopLogger{})
			_, err := uc.Execute(context.Background(), &Request{BookingID: "b-1", PaymentID: "pi_1"})

			assert.ErrorIs(t, err, ErrBookingNotPayable)
			repo.AssertNotCalled(t, "UpdatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		loadErr error
		wantErr error
	}{
		{name: "missing booking id", req: &Request{PaymentID: "pi_1"}, wantErr: ErrInvalidInput},
		{name: "missing payment id", req: &Request{BookingID: "b-1", PaymentID: " "}, wantErr: ErrInvalidInput},
		{name: "not found", req: &Request{BookingID: "b-1", PaymentID: "pi_1"}, loadErr: bookingsService.ErrBookingNotFound, wantErr: ErrBookingNotFound},
		{name: "storage failure", req: &Request{BookingID: "b-1", PaymentID: "pi_1"}, loadErr: errors.New("boom"), wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &MockBookingLoader{}
			if tt.loadErr != nil {
				loader.On("Load", mock.Anything, "b-1").Return(nil, tt.loadErr)
			}

			uc := NewUseCase(loader, &MockBookingRepository{}, &MockSlotRepository{}, &MockNotifier{}, inlineTx{}, nopLogger{})
			_, err := uc.Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_FinalizeErrorRollsBack(t *testing.T) {
	loader := &MockBookingLoader{}
	repo := &MockBookingRepository{}
	slots := &MockSlotRepository{}
	notifier := &MockNotifier{}

	loader.On("Load", mock.Anything, "b-1").Return(pendingBooking(domain.PaymentPending), nil)
	repo.On("UpdatePayment", mock.Anything, "b-1", mock.Anything, mock.Anything).Return(nil)
	slots.On("Finalize", mock.Anything, mock.Anything, domain.SlotBooked, "b-1").Return(int64(0), errors.New("deadlock"))

	uc := NewUseCase(loader, repo, slots, notifier, inlineTx{}, nopLogger{})
	_, err := uc.Execute(context.Background(), &Request{BookingID: "b-1", PaymentID: "pi_1"})

	assert.ErrorIs(t, err, ErrInternal)
	notifier.AssertNotCalled(t, "SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything)
}
