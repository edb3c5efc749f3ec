package create_checkout_session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CourtBookingService/internal/domain"
	bookingRepo "github.com/m04kA/CourtBookingService/internal/infra/storage/booking"
	"github.com/m04kA/CourtBookingService/internal/integrations/payments"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) SetCheckoutSession(ctx context.Context, id string, sessionID string) error {
	args := m.Called(ctx, id, sessionID)
	return args.Error(0)
}

type MockCheckoutProvider struct {
	mock.Mock
}

func (m *MockCheckoutProvider) CreateCheckoutSession(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.CheckoutSession), args.Error(1)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) PaymentError(operation string) { m.Called(operation) }

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var createdAt = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func newTestUseCase(repo *MockBookingRepository, provider *MockCheckoutProvider, metrics *MockMetrics, now time.Time) *UseCase {
	uc := NewUseCase(repo, provider, metrics, time.Hour, nopLogger{})
	uc.timeProvider = fixedTime{t: now}
	return uc
}

func pending(paidSlots, amount int) *domain.Booking {
	return &domain.Booking{
		ID:        "b-1",
		User:      domain.Contact{Email: "anna@example.se"},
		FreeSlots: 1,
		PaidSlots: paidSlots,
		Payment:   domain.Payment{Method: domain.PaymentStripe, Amount: amount, Status: domain.PaymentPending},
		CreatedAt: createdAt,
	}
}

func TestExecute_CreatesSessionForPaidSlots(t *testing.T) {
	repo := &MockBookingRepository{}
	provider := &MockCheckoutProvider{}
	metrics := &MockMetrics{}

	repo.On("GetByID", mock.Anything, "b-1").Return(pending(2, 80), nil)
	provider.On("CreateCheckoutSession", mock.Anything, payments.CheckoutRequest{
		BookingID:     "b-1",
		CustomerEmail: "anna@example.se",
		Quantity:      2,
		UnitAmount:    40,
		ExpiresAt:     createdAt.Add(time.Hour),
	}).Return(&payments.CheckoutSession{ID: "cs_1", ClientSecret: "secret_1"}, nil)
	repo.On("SetCheckoutSession", mock.Anything, "b-1", "cs_1").Return(nil)

	resp, err := newTestUseCase(repo, provider, metrics, createdAt.Add(time.Minute)).
		Execute(context.Background(), &Request{BookingID: "b-1"})

	require.NoError(t, err)
	assert.Equal(t, "cs_1", resp.SessionID)
	assert.Equal(t, "secret_1", resp.ClientSecret)
	repo.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestExecute_ExpiryRespectsProviderMinimum(t *testing.T) {
	repo := &MockBookingRepository{}
	provider := &MockCheckoutProvider{}
	now := createdAt.Add(50 * time.Minute)

	repo.On("GetByID", mock.Anything, "b-1").Return(pending(1, 80), nil)
	provider.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req payments.CheckoutRequest) bool {
		return req.ExpiresAt.Equal(now.Add(payments.MinSessionTTL))
	})).Return(&payments.CheckoutSession{ID: "cs_1", ClientSecret: "s"}, nil)
	repo.On("SetCheckoutSession", mock.Anything, "b-1", "cs_1").Return(nil)

	_, err := newTestUseCase(repo, provider, &MockMetrics{}, now).Execute(context.Background(), &Request{BookingID: "b-1"})

	require.NoError(t, err)
	provider.AssertExpectations(t)
}

func TestExecute_NotPayable(t *testing.T) {
	completed := pending(2, 160)
	completed.Payment.Status = domain.PaymentCompleted
	free := pending(0, 0)
	free.Payment = domain.Payment{Method: domain.PaymentFree, Status: domain.PaymentPending}

	for name, b := range map[string]*domain.Booking{"completed": completed, "nothing to pay": free} {
		t.Run(name, func(t *testing.T) {
			repo := &MockBookingRepository{}
			provider := &MockCheckoutProvider{}
			repo.On("GetByID", mock.Anything, "b-1").Return(b, nil)

			_, err := newTestUseCase(repo, provider, &MockMetrics{}, createdAt).Execute(context.Background(), &Request{BookingID: "b-1"})

			assert.ErrorIs(t, err, ErrNotPayable)
			provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_ProviderError(t *testing.T) {
	repo := &MockBookingRepository{}
	provider := &MockCheckoutProvider{}
	metrics := &MockMetrics{}

	repo.On("GetByID", mock.Anything, "b-1").Return(pending(1, 80), nil)
	provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, payments.ErrProvider)
	metrics.On("PaymentError", "checkout").Return()

	_, err := newTestUseCase(repo, provider, metrics, createdAt).Execute(context.Background(), &Request{BookingID: "b-1"})

	assert.ErrorIs(t, err, ErrPaymentProvider)
	repo.AssertNotCalled(t, "SetCheckoutSession", mock.Anything, mock.Anything, mock.Anything)
	metrics.AssertExpectations(t)
}

func TestExecute_ReleasedDuringCheckout(t *testing.T) {
	repo := &MockBookingRepository{}
	provider := &MockCheckoutProvider{}

	repo.On("GetByID", mock.Anything, "b-1").Return(pending(1, 80), nil)
	provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(&payments.CheckoutSession{ID: "cs_1"}, nil)
	repo.On("SetCheckoutSession", mock.Anything, "b-1", "cs_1").Return(bookingRepo.ErrBookingNotPending)

	_, err := newTestUseCase(repo, provider, &MockMetrics{}, createdAt).Execute(context.Background(), &Request{BookingID: "b-1"})

	assert.ErrorIs(t, err, ErrNotPayable)
}

func TestExecute_LookupErrors(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		repoErr error
		wantErr error
	}{
		{name: "empty id", id: "", wantErr: ErrInvalidInput},
		{name: "not found", id: "b-1", repoErr: bookingRepo.ErrBookingNotFound, wantErr: ErrBookingNotFound},
		{name: "storage", id: "b-1", repoErr: errors.New("boom"), wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockBookingRepository{}
			if tt.repoErr != nil {
				repo.On("GetByID", mock.Anything, tt.id).Return(nil, tt.repoErr)
			}

			_, err := newTestUseCase(repo, &MockCheckoutProvider{}, &MockMetrics{}, createdAt).
				Execute(context.Background(), &Request{BookingID: tt.id})

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
